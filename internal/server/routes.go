package server

import (
	"fmt"
	"log"
	"net/http"
	"text/template"
	"time"

	"storefloor/internal/config"
	"storefloor/internal/db"
	"storefloor/internal/feedback"
	"storefloor/internal/metrics"
	"storefloor/internal/sessions"
	"storefloor/internal/tracking"
	"storefloor/internal/zones"
)

func Run() error {
	appCfg := config.Load()

	layout, err := zones.ParseLayout(appCfg.Layout)
	if err != nil {
		log.Printf("[Zones] %v, using %s\n", err, zones.LayoutCircles)
		layout = zones.LayoutCircles
	}
	for _, pair := range zones.Overlaps(zones.Provide(layout, zones.Reference)) {
		log.Printf("[Zones] %s overlaps %s, points in both resolve to %s\n", pair[0], pair[1], pair[0])
	}

	var chime []byte
	if appCfg.AudioEnabled {
		chime, err = feedback.Synthesize(feedback.DefaultTone)
		if err != nil {
			log.Printf("[Feedback] Chime synthesis failed: %v (cue disabled)\n", err)
		}
	} else {
		log.Println("[Feedback] AUDIO_ENABLED=false, cue disabled")
	}

	tmpl := template.Must(template.New("").ParseFiles(
		"templates/floor.html",
		"templates/watch.html",
	))

	srv := &Server{
		Tmpl:    tmpl,
		Metrics: metrics.New(),
		Chime:   chime,
		Layout:  layout,
	}

	// Optional database connection
	if appCfg.DatabaseURL != "" {
		database, err := db.Connect(appCfg.DatabaseURL)
		if err != nil {
			log.Printf("[DB] Failed to connect: %v (running without database)\n", err)
		} else {
			if err := database.Migrate(); err != nil {
				log.Printf("[DB] Migration failed: %v\n", err)
			}
			srv.DB = database
			srv.SignupBuffer = make(chan db.SignupRecord, 1000)
			go signupBatchWriter(database, srv.SignupBuffer)
			log.Println("[DB] Database connected and migrations applied")
		}
	} else {
		log.Println("[DB] DATABASE_URL not set, running without database")
	}

	srv.Sessions = sessions.NewStore(srv.sessionConfig(appCfg))

	addr := "0.0.0.0:" + appCfg.Port
	fmt.Printf("Server listening on http://localhost:%s\n", appCfg.Port)
	return http.ListenAndServe(addr, srv.routes())
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /zones", s.handleZones)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /watch/{code}", s.handleWatch)
	mux.HandleFunc("GET /watch/{code}/stream", s.handleEvents)
	mux.HandleFunc("GET /sessions/{code}/log", s.handleSessionLog)
	mux.HandleFunc("GET /signups", s.handleSignups)
	mux.HandleFunc("GET /visits/{id}", s.handleVisit)
	mux.HandleFunc("GET /chime.wav", s.handleChime)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.Metrics.Handler())
	return mux
}

func (s *Server) sessionConfig(appCfg config.Config) sessions.Config {
	return sessions.Config{
		Tracking: tracking.Config{
			Layout:     s.Layout,
			StoreDwell: appCfg.StoreDwell,
		},
		LogCapacity:  appCfg.LogCapacity,
		TTL:          appCfg.SessionTTL,
		CueAvailable: len(s.Chime) > 0,
		Observe:      s.Metrics.ObserveEvent,
		OnSignup:     s.queueSignup,
		OnCount: func(n int) {
			s.Metrics.Sessions.Set(float64(n))
		},
	}
}

func signupBatchWriter(database *db.DB, buffer chan db.SignupRecord) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	batch := make([]db.SignupRecord, 0, 50)

	for {
		select {
		case rec := <-buffer:
			batch = append(batch, rec)
			if len(batch) >= 50 {
				if err := database.BatchInsertSignups(batch); err != nil {
					log.Printf("[DB] BatchInsertSignups error: %v\n", err)
				}
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				if err := database.BatchInsertSignups(batch); err != nil {
					log.Printf("[DB] BatchInsertSignups error: %v\n", err)
				}
				batch = batch[:0]
			}
		}
	}
}
