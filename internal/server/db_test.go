package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"storefloor/internal/db"
	"storefloor/internal/events"
	"storefloor/internal/wshub"
)

func attachTestDB(t *testing.T, srv *Server) *db.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}
	database, err := db.Connect(dsn)
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	if err := database.Migrate(); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	srv.DB = database
	return database
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatal(err)
		}
	}
	return resp.StatusCode
}

func TestVisit_CountsEveryEvent(t *testing.T) {
	srv, ts := newTestServer(t, nil)
	attachTestDB(t, srv)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("Dial() error: %v", err)
	}
	defer conn.CloseNow()
	hello := readMessage(t, conn)
	if hello.Visit == "" {
		t.Fatal("hello should carry the visit id")
	}

	// every round trip records Walk In, Zone Walk In, Walk Out, Zone Walk Out
	const rounds = 38
	for i := 0; i < rounds; i++ {
		writeMessage(t, conn, wshub.ClientMessage{Type: wshub.TypeMove, X: 85, Y: 80, W: 800, H: 600})
		writeMessage(t, conn, wshub.ClientMessage{Type: wshub.TypeMove, X: -5, Y: -5, W: 800, H: 600})
	}

	var log logResponse
	deadline := time.Now().Add(5 * time.Second)
	for log.Recorded < rounds*4 && time.Now().Before(deadline) {
		getJSON(t, ts.URL+"/sessions/"+hello.Code+"/log", &log)
		time.Sleep(20 * time.Millisecond)
	}
	if log.Recorded != rounds*4 || len(log.Events) != 100 {
		t.Fatalf("recorded %d, log %d; want %d, 100", log.Recorded, len(log.Events), rounds*4)
	}

	conn.Close(websocket.StatusNormalClosure, "")

	var visit db.VisitRecord
	deadline = time.Now().Add(5 * time.Second)
	for visit.EndedAt == nil && time.Now().Before(deadline) {
		if code := getJSON(t, ts.URL+"/visits/"+hello.Visit, &visit); code != http.StatusOK {
			t.Fatalf("visit status = %d, want 200", code)
		}
		time.Sleep(20 * time.Millisecond)
	}
	if visit.EndedAt == nil {
		t.Fatal("visit never ended")
	}
	if visit.EventCount != rounds*4 {
		t.Errorf("event_count = %d, want %d", visit.EventCount, rounds*4)
	}
	if visit.SessionCode != hello.Code || visit.Layout != "aisles" {
		t.Errorf("visit = %+v", visit)
	}
}

func TestVisit_Unknown(t *testing.T) {
	srv, ts := newTestServer(t, nil)
	attachTestDB(t, srv)

	resp, err := http.Get(ts.URL + "/visits/00000000-0000-0000-0000-000000000000")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestHealth_ReportsSignupCount(t *testing.T) {
	srv, ts := newTestServer(t, nil)
	database := attachTestDB(t, srv)

	n, err := database.CountSignups()
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	want := fmt.Sprintf(`{"status":"ok","sessions":0,"signups":%d}`, n)
	if string(body) != want {
		t.Errorf("health = %s, want %s", body, want)
	}
}

func TestQueueSignup_WritesDirectlyWhenBufferFull(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	database := attachTestDB(t, srv)
	// no batch writer drains this buffer
	srv.SignupBuffer = make(chan db.SignupRecord)

	before, err := database.CountSignups()
	if err != nil {
		t.Fatal(err)
	}
	srv.queueSignup("QQQQ", events.Signup{Name: "Ada", Email: "ada@example.com"})

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if n, _ := database.CountSignups(); n == before+1 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Error("signup was not written while the buffer was full")
}
