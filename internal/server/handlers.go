package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"text/template"
	"time"

	"storefloor/internal/db"
	"storefloor/internal/events"
	"storefloor/internal/metrics"
	"storefloor/internal/sessions"
	"storefloor/internal/zones"
)

type Server struct {
	Sessions     *sessions.Store
	Tmpl         *template.Template
	Metrics      *metrics.Metrics
	Chime        []byte // nil when the cue is disabled
	Layout       zones.Layout
	DB           *db.DB               // nil if no database configured
	SignupBuffer chan db.SignupRecord // nil if no database configured
}

// getSession resolves the session named by the {code} path segment.
func (s *Server) getSession(r *http.Request) *sessions.Session {
	code, ok := sessions.NormalizeCode(r.PathValue("code"))
	if !ok {
		return nil
	}
	return s.Sessions.Get(code)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[HTTP] Encode error: %v\n", err)
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Layout": string(s.Layout),
		"Audio":  len(s.Chime) > 0,
	}
	if err := s.Tmpl.ExecuteTemplate(w, "floor", data); err != nil {
		log.Println(err)
		http.Error(w, "Error rendering floor plan", http.StatusInternalServerError)
	}
}

func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(r)
	if sess == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	data := map[string]any{
		"Code":   sess.Code,
		"Events": sess.Recorder.Log().Snapshot(),
	}
	if err := s.Tmpl.ExecuteTemplate(w, "watch", data); err != nil {
		log.Println(err)
		http.Error(w, "Error rendering watch view", http.StatusInternalServerError)
	}
}

type zoneView struct {
	zones.Zone
	DwellMs int64 `json:"dwellMs"`
}

type zonesResponse struct {
	Layout       zones.Layout  `json:"layout"`
	Viewport     zones.Size    `json:"viewport"`
	Zones        []zoneView    `json:"zones"`
	AccessPoints []zones.Point `json:"accessPoints"`
}

// handleZones serves the zone set scaled to ?w= and ?h=. Missing or bad
// dimensions fall back to the reference plan.
func (s *Server) handleZones(w http.ResponseWriter, r *http.Request) {
	layout := s.Layout
	if v := r.URL.Query().Get("layout"); v != "" {
		l, err := zones.ParseLayout(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		layout = l
	}

	viewport := zones.Size{
		W: queryFloat(r, "w"),
		H: queryFloat(r, "h"),
	}
	if viewport.W <= 0 || viewport.H <= 0 {
		viewport = zones.Reference
	}

	resp := zonesResponse{
		Layout:       layout,
		Viewport:     viewport,
		AccessPoints: zones.AccessPoints(viewport),
	}
	for _, z := range zones.Provide(layout, viewport) {
		resp.Zones = append(resp.Zones, zoneView{Zone: z, DwellMs: z.Dwell.Milliseconds()})
	}
	writeJSON(w, http.StatusOK, resp)
}

// queryFloat returns 0 for missing, malformed or non-finite values.
func queryFloat(r *http.Request, key string) float64 {
	f, err := strconv.ParseFloat(r.URL.Query().Get(key), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

type logResponse struct {
	Code      string         `json:"code"`
	Connected bool           `json:"connected"`
	Recorded  int            `json:"recorded"`
	Capacity  int            `json:"capacity"`
	Events    []events.Event `json:"events"`
}

func (s *Server) handleSessionLog(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(r)
	if sess == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	l := sess.Recorder.Log()
	writeJSON(w, http.StatusOK, logResponse{
		Code:      sess.Code,
		Connected: s.Sessions.Hub().Connected(sess.Code),
		Recorded:  sess.Recorded(),
		Capacity:  l.Capacity(),
		Events:    l.Snapshot(),
	})
}

func (s *Server) handleSignups(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "Signups require a database", http.StatusServiceUnavailable)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := s.DB.ListSignups(limit)
	if err != nil {
		log.Printf("[DB] ListSignups error: %v\n", err)
		http.Error(w, "Failed to load signups", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []db.SignupRecord{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleVisit(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "Visits require a database", http.StatusServiceUnavailable)
		return
	}
	visit, err := s.DB.GetVisit(r.PathValue("id"))
	if errors.Is(err, db.ErrNotFound) {
		http.Error(w, "Visit not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("[DB] GetVisit error: %v\n", err)
		http.Error(w, "Failed to load visit", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, visit)
}

func (s *Server) handleChime(w http.ResponseWriter, r *http.Request) {
	if len(s.Chime) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := w.Write(s.Chime); err != nil {
		log.Println(err)
	}
}

// queueSignup hands an accepted signup to the batch writer.
func (s *Server) queueSignup(code string, su events.Signup) {
	if s.SignupBuffer == nil {
		return
	}
	rec := db.SignupRecord{
		SessionCode: code,
		Name:        su.Name,
		Email:       su.Email,
		CreatedAt:   time.Now(),
	}
	select {
	case s.SignupBuffer <- rec:
	default:
		// the batch writer is behind; write this one on its own
		go func() {
			if err := s.DB.InsertSignup(rec); err != nil {
				log.Printf("[DB] InsertSignup error: %v\n", err)
			}
		}()
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(r)
	if sess == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	msgChan := sess.Broadcaster.Subscribe()
	defer sess.Broadcaster.Unsubscribe(msgChan)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-sess.Done():
			fmt.Fprint(w, "event: closed\ndata: \n\n")
			flusher.Flush()
			return
		case msg, ok := <-msgChan:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\n", msg.Event)
			for _, line := range strings.Split(msg.Msg, "\n") {
				fmt.Fprintf(w, "data: %s\n", line)
			}
			fmt.Fprint(w, "\n")
			flusher.Flush()
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if s.DB != nil {
		if err := s.DB.Ping(); err != nil {
			status = "db_error"
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, `{"status":"%s","error":"%s"}`, status, err.Error())
			return
		}
	}
	live := len(s.Sessions.List())
	if s.DB != nil {
		n, err := s.DB.CountSignups()
		if err == nil {
			fmt.Fprintf(w, `{"status":"%s","sessions":%d,"signups":%d}`, status, live, n)
			return
		}
		log.Printf("[DB] CountSignups error: %v\n", err)
	}
	fmt.Fprintf(w, `{"status":"%s","sessions":%d}`, status, live)
}
