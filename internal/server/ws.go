package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"storefloor/internal/sessions"
	"storefloor/internal/signup"
	"storefloor/internal/tracking"
	"storefloor/internal/wshub"
	"storefloor/internal/zones"
)

// handleWS runs one visitor session for the lifetime of the connection.
// Closing the connection closes the session and its pending dwell timers.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Printf("[WS] Accept error: %v\n", err)
		return
	}
	defer conn.CloseNow()

	sess, err := s.Sessions.Create()
	if err != nil {
		log.Printf("[WS] %v\n", err)
		conn.Close(websocket.StatusInternalError, "session unavailable")
		return
	}
	defer s.Sessions.Delete(sess.Code)

	hub := s.Sessions.Hub()
	client := &wshub.Client{
		Code: sess.Code,
		Conn: conn,
		Send: make(chan []byte, 64),
	}
	hub.Register(client)
	defer hub.Unregister(client)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go client.WritePump(ctx)
	go func() {
		// a swept session hangs up its connection
		select {
		case <-sess.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	if s.DB != nil {
		if err := s.DB.StartVisit(sess.ID, sess.Code, string(s.Layout)); err != nil {
			log.Printf("[DB] StartVisit error: %v\n", err)
		}
	}

	hub.Send(sess.Code, wshub.ServerMessage{
		Type:   wshub.TypeHello,
		Code:   sess.Code,
		Visit:  sess.ID,
		Layout: string(s.Layout),
	})
	log.Printf("[WS] Session %s connected\n", sess.Code)

	for {
		var msg wshub.ClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if ctx.Err() == nil && !closedNormally(err) {
				log.Printf("[WS] Session %s read error: %v\n", sess.Code, err)
			}
			break
		}
		sess.Touch(time.Now())
		s.dispatch(sess, msg)
	}

	if s.DB != nil {
		if err := s.DB.EndVisit(sess.ID, sess.Recorded()); err != nil {
			log.Printf("[DB] EndVisit error: %v\n", err)
		}
	}
	log.Printf("[WS] Session %s disconnected\n", sess.Code)
}

// dispatch applies one client message to the session's tracker.
func (s *Server) dispatch(sess *sessions.Session, msg wshub.ClientMessage) {
	hub := s.Sessions.Hub()
	tr := sess.Tracker

	switch msg.Type {
	case wshub.TypeMove:
		tr.Move(msg.Point(), msg.Surface())
	case wshub.TypeLeave:
		tr.Leave()
	case wshub.TypeResize:
		tr.Resize(zones.Size{W: msg.W, H: msg.H})
	case wshub.TypeClick:
		tr.Click()
		hub.Send(sess.Code, wshub.ServerMessage{Type: wshub.TypePortal, Open: tr.Snapshot().OverlayOpen})
	case wshub.TypeSubmit:
		err := tr.Submit(msg.Name, msg.Email)
		var verr *signup.ValidationError
		switch {
		case err == nil:
			hub.Send(sess.Code, wshub.ServerMessage{Type: wshub.TypePortal, Open: false})
		case errors.As(err, &verr):
			hub.Send(sess.Code, wshub.ServerMessage{Type: wshub.TypeInvalid, Errors: verr.Fields})
		case errors.Is(err, tracking.ErrOverlayClosed):
			hub.Send(sess.Code, wshub.ServerMessage{Type: wshub.TypePortal, Open: false})
		default:
			log.Printf("[WS] Session %s submit error: %v\n", sess.Code, err)
		}
	case wshub.TypeClose:
		tr.CloseOverlay()
		hub.Send(sess.Code, wshub.ServerMessage{Type: wshub.TypePortal, Open: false})
	default:
		log.Printf("[WS] Session %s unknown message type %q\n", sess.Code, msg.Type)
	}
}

func closedNormally(err error) bool {
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	}
	return false
}
