package handlers

import (
	"fmt"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"pomoglow/internal/timer"
	"pomoglow/pkg/realtime"
)

func newTestServer(t *testing.T) (*httptest.Server, *timer.Session) {
	t.Helper()
	hub := realtime.NewBroadcaster()
	session := timer.NewSession(hub, 1500, 0, time.Minute)
	handler := NewTimerHandler(session, hub)
	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	t.Cleanup(session.Reset)
	return server, session
}

func TestWidgetPage_PristineState(t *testing.T) {
	server, _ := newTestServer(t)
	resp, err := http.Get(server.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	page := string(body)
	if !strings.Contains(page, "25:00") {
		t.Error("page should show the full session clock")
	}
	if !strings.Contains(page, `data-running="false"`) {
		t.Error("page should mark the timer as stopped")
	}
	if !strings.Contains(page, "<title>Pomodoro</title>") {
		t.Error("pristine page should carry the fixed title")
	}
	if strings.Count(page, `rel="icon"`) != 2 || strings.Count(page, `rel="shortcut icon"`) != 1 {
		t.Error("page should install exactly three icon links")
	}
}

func TestStartCommand_FetchGets204(t *testing.T) {
	server, session := newTestServer(t)
	req, _ := http.NewRequest(http.MethodPost, server.URL+"/start", nil)
	req.Header.Set("X-Requested-With", "fetch")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status %d, want 204", resp.StatusCode)
	}
	if !session.Snapshot(time.Now().UTC()).Running {
		t.Error("session should be running after /start")
	}
}

func TestStartCommand_FormPostRedirects(t *testing.T) {
	server, _ := newTestServer(t)
	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.Post(server.URL+"/start", "application/x-www-form-urlencoded", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("status %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Errorf("Location %q, want /", loc)
	}
}

func TestPauseAndResetCommands(t *testing.T) {
	server, session := newTestServer(t)
	post := func(path string) {
		req, _ := http.NewRequest(http.MethodPost, server.URL+path, nil)
		req.Header.Set("X-Requested-With", "fetch")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
	}
	post("/start")
	post("/pause")
	if snap := session.Snapshot(time.Now().UTC()); snap.Running {
		t.Error("session should pause after /pause")
	}
	post("/reset")
	if snap := session.Snapshot(time.Now().UTC()); !snap.Pristine {
		t.Error("session should be pristine after /reset")
	}
}

func TestTimerFragment(t *testing.T) {
	server, _ := newTestServer(t)
	resp, err := http.Get(server.URL + "/timer")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	fragmentHTML := string(body)
	if !strings.Contains(fragmentHTML, "<section") {
		t.Error("fragment should render the timer section")
	}
	if !strings.Contains(fragmentHTML, "data-clip=") {
		t.Error("fragment should carry the clip polygon")
	}
	if !strings.Contains(fragmentHTML, "action=\"/start\"") {
		t.Error("stopped fragment should offer the start action")
	}
}

func TestIconPNG_Sizes(t *testing.T) {
	server, _ := newTestServer(t)
	for _, size := range []int{16, 32} {
		url := fmt.Sprintf("%s/icons/%d.png", server.URL, size)
		resp, err := http.Get(url)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("icon %d: status %d", size, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
			t.Errorf("icon %d: Content-Type %q", size, ct)
		}
		img, err := png.Decode(resp.Body)
		resp.Body.Close()
		if err != nil {
			t.Fatalf("icon %d: %v", size, err)
		}
		if img.Bounds().Dx() != size || img.Bounds().Dy() != size {
			t.Errorf("icon %d: bounds %v", size, img.Bounds())
		}
	}
}

func TestIconPNG_UnknownSize(t *testing.T) {
	server, _ := newTestServer(t)
	resp, err := http.Get(server.URL + "/icons/48.png")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status %d, want 404", resp.StatusCode)
	}
}
