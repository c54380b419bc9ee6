package icon

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math"

	"github.com/fogleman/gg"
)

// Standard favicon sizes installed by the page.
const (
	SizeSmall = 16
	SizeLarge = 32
)

type family struct {
	r, g, b float64
}

// One color family per state: tomato while running, slate while paused. The full
// ring uses the family at low alpha; the swept arc is solid.
var (
	runningFamily = family{0.91, 0.30, 0.24}
	pausedFamily  = family{0.42, 0.48, 0.54}
)

const trackAlpha = 0.3

// Render draws a ring-with-arc favicon at the given pixel size: a translucent full
// ring plus a solid arc covering the swept progress, starting at 12 o'clock and
// sweeping clockwise. Returns encoded PNG bytes.
func Render(size int, progress float64, running bool) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("icon: invalid size %d", size)
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	col := pausedFamily
	if running {
		col = runningFamily
	}

	dc := gg.NewContext(size, size)
	center := float64(size) / 2
	stroke := float64(size) / 8
	radius := center - stroke

	dc.SetLineWidth(stroke)
	dc.SetRGBA(col.r, col.g, col.b, trackAlpha)
	dc.DrawCircle(center, center, radius)
	dc.Stroke()

	if progress > 0 {
		// Raster y grows downward, so increasing angles sweep clockwise on screen.
		top := -math.Pi / 2
		dc.SetRGBA(col.r, col.g, col.b, 1)
		dc.DrawArc(center, center, radius, top, top+2*math.Pi*progress)
		dc.Stroke()
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("icon: encode %dpx: %w", size, err)
	}
	return buf.Bytes(), nil
}

// DataURL renders the icon and wraps it as a data: URL, ready to install as an icon
// link href.
func DataURL(size int, progress float64, running bool) (string, error) {
	png, err := Render(size, progress, running)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
