package handlers

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pomoglow/internal/icon"
	"pomoglow/internal/timer"
	"pomoglow/internal/viewmodel"
	"pomoglow/pkg/realtime"
	"pomoglow/views/components"
	"pomoglow/views/pages"
)

type TimerHandler struct {
	session *timer.Session
	hub     *realtime.Broadcaster
}

func NewTimerHandler(session *timer.Session, hub *realtime.Broadcaster) *TimerHandler {
	return &TimerHandler{session: session, hub: hub}
}

func (h *TimerHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(15 * time.Second))
		r.Get("/", h.widgetPage)
		r.Post("/start", h.start)
		r.Post("/pause", h.pause)
		r.Post("/reset", h.reset)
		r.Get("/timer", h.timerFragment)
		r.Get("/icons/{size}.png", h.iconPNG)
	})
	// The stream stays open indefinitely; no timeout middleware here.
	r.Get("/stream", h.stream)
}

func (h *TimerHandler) widgetPage(w http.ResponseWriter, r *http.Request) {
	snapshot := h.session.Snapshot(time.Now().UTC())
	data := viewmodel.WidgetPage{
		Title: snapshot.Title,
		Timer: buildTimerFragment(snapshot),
	}
	render(w, r, pages.WidgetPage(data))
}

func (h *TimerHandler) start(w http.ResponseWriter, r *http.Request) {
	h.session.Start(time.Now().UTC())
	commandDone(w, r)
}

func (h *TimerHandler) pause(w http.ResponseWriter, r *http.Request) {
	h.session.Pause(time.Now().UTC())
	commandDone(w, r)
}

func (h *TimerHandler) reset(w http.ResponseWriter, r *http.Request) {
	h.session.Reset()
	commandDone(w, r)
}

func (h *TimerHandler) timerFragment(w http.ResponseWriter, r *http.Request) {
	snapshot := h.session.Snapshot(time.Now().UTC())
	render(w, r, components.TimerFragment(buildTimerFragment(snapshot)))
}

func (h *TimerHandler) iconPNG(w http.ResponseWriter, r *http.Request) {
	size, err := strconv.Atoi(chi.URLParam(r, "size"))
	if err != nil || (size != icon.SizeSmall && size != icon.SizeLarge) {
		http.NotFound(w, r)
		return
	}
	snapshot := h.session.Snapshot(time.Now().UTC())
	data, err := icon.Render(size, snapshot.Progress, snapshot.Running)
	if err != nil {
		log.Printf("render icon %dpx: %v", size, err)
		http.Error(w, "icon unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}

func (h *TimerHandler) stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sub := h.hub.Subscribe()
	defer h.hub.Unsubscribe(sub)

	send := func(includeTimer, includeTitle, includeIcons bool) {
		snapshot := h.session.Snapshot(time.Now().UTC())
		if includeTimer {
			html := renderToString(r, components.TimerFragment(buildTimerFragment(snapshot)))
			writeSSE(w, timer.EventTimer, html)
		}
		if includeTitle {
			writeSSE(w, timer.EventTitle, snapshot.Title)
		}
		if includeIcons {
			payload, err := iconPayload(snapshot)
			if err != nil {
				// Skip this attempt; the re-assert schedule or the next state
				// change delivers fresh icons.
				log.Printf("icon payload: %v", err)
			} else {
				writeSSE(w, timer.EventIcons, payload)
			}
		}
		flusher.Flush()
	}

	// Fresh subscribers get the full state, which also serves as the immediate
	// correction when a tab regains visibility and reconnects.
	send(true, true, true)

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case event := <-sub:
			switch event {
			case timer.EventTimer:
				send(true, false, false)
			case timer.EventTitle:
				send(false, true, false)
			case timer.EventIcons:
				send(false, false, true)
			}
		case <-keepAlive.C:
			_, _ = w.Write([]byte(": keepalive\n\n"))
			flusher.Flush()
		}
	}
}

func commandDone(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-Requested-With") == "fetch" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func buildTimerFragment(snapshot timer.Snapshot) viewmodel.TimerFragment {
	stateClass := "timer paused"
	if snapshot.Running {
		stateClass = "timer running"
	}
	return viewmodel.TimerFragment{
		Clock:      snapshot.Clock,
		StateLabel: snapshot.StateLabel,
		Running:    snapshot.Running,
		Done:       !snapshot.Running && snapshot.Remaining == 0,
		StateClass: stateClass,
		DeadlineMs: strconv.FormatInt(snapshot.DeadlineMs, 10),
		Total:      strconv.Itoa(snapshot.Total),
		Remaining:  strconv.Itoa(snapshot.Remaining),
		RunningStr: strconv.FormatBool(snapshot.Running),
		ClipPath:   snapshot.ClipPath,
	}
}

func iconPayload(snapshot timer.Snapshot) (string, error) {
	icon16, err := icon.DataURL(icon.SizeSmall, snapshot.Progress, snapshot.Running)
	if err != nil {
		return "", err
	}
	icon32, err := icon.DataURL(icon.SizeLarge, snapshot.Progress, snapshot.Running)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(map[string]string{
		"icon16": icon16,
		"icon32": icon32,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func renderToString(r *http.Request, component templ.Component) string {
	var buf bytes.Buffer
	_ = component.Render(r.Context(), &buf)
	return buf.String()
}

func writeSSE(w http.ResponseWriter, event string, data string) {
	_, _ = w.Write([]byte("event: " + event + "\n"))
	for _, line := range strings.Split(data, "\n") {
		_, _ = w.Write([]byte("data: " + line + "\n"))
	}
	_, _ = w.Write([]byte("\n"))
}
