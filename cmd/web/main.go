package main

import (
	"embed"
	"io/fs"
	"log"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pomoglow/internal/config"
	"pomoglow/internal/handlers"
	"pomoglow/internal/timer"
	"pomoglow/pkg/countdown"
	"pomoglow/pkg/realtime"
)

func main() {
	_ = mime.AddExtensionType(".js", "application/javascript")
	_ = mime.AddExtensionType(".css", "text/css")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	hub := realtime.NewBroadcaster()
	session := timer.NewSession(hub, countdown.DefaultTotal, cfg.IconRetries, cfg.IconRetryDelay)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	staticFS, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		log.Fatal(err)
	}

	r.Mount("/static", http.StripPrefix("/static", http.FileServer(http.FS(staticFS))))

	timerHandler := handlers.NewTimerHandler(session, hub)
	timerHandler.RegisterRoutes(r)

	addr := ":" + cfg.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// No WriteTimeout: the SSE stream stays open for the life of the tab.
		IdleTimeout: 60 * time.Second,
	}

	log.Printf("listening on http://localhost%s", addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}

//go:embed static/*
var embeddedStatic embed.FS
