package db

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func getTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}
	database, err := Connect(dsn)
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	if err := database.Migrate(); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	t.Cleanup(func() {
		// Clean up test data
		database.conn.Exec("DELETE FROM signups")
		database.conn.Exec("DELETE FROM visits")
		database.Close()
	})
	return database
}

func TestConnect(t *testing.T) {
	database := getTestDB(t)
	if err := database.Ping(); err != nil {
		t.Errorf("Ping() error: %v", err)
	}
}

func TestMigrate(t *testing.T) {
	database := getTestDB(t)

	// Verify tables exist by querying them
	for _, table := range []string{"visits", "signups", "schema_migrations"} {
		var exists bool
		err := database.conn.QueryRow(`
			SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_name = $1)
		`, table).Scan(&exists)
		if err != nil {
			t.Errorf("checking table %s: %v", table, err)
		}
		if !exists {
			t.Errorf("table %s does not exist", table)
		}
	}

	// Migrations are idempotent
	if err := database.Migrate(); err != nil {
		t.Errorf("second Migrate() error: %v", err)
	}
	var n int
	database.conn.QueryRow(`SELECT COUNT(*) FROM schema_migrations WHERE name = '001_initial.sql'`).Scan(&n)
	if n != 1 {
		t.Errorf("001_initial.sql recorded %d times, want 1", n)
	}
}

func TestVisitLifecycle(t *testing.T) {
	database := getTestDB(t)

	id := uuid.New().String()
	if err := database.StartVisit(id, "ABCD", "circles"); err != nil {
		t.Fatalf("StartVisit() error: %v", err)
	}
	if err := database.EndVisit(id, 150); err != nil {
		t.Fatalf("EndVisit() error: %v", err)
	}

	v, err := database.GetVisit(id)
	if err != nil {
		t.Fatalf("GetVisit() error: %v", err)
	}
	if v.SessionCode != "ABCD" || v.Layout != "circles" {
		t.Errorf("visit = %+v", v)
	}
	if v.EndedAt == nil {
		t.Error("ended_at should be set after EndVisit()")
	}
	if v.EventCount != 150 {
		t.Errorf("event_count = %d, want 150", v.EventCount)
	}
}

func TestGetVisit_NotFound(t *testing.T) {
	database := getTestDB(t)

	_, err := database.GetVisit(uuid.New().String())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetVisit() error = %v, want ErrNotFound", err)
	}
}

func TestInsertAndListSignups(t *testing.T) {
	database := getTestDB(t)

	now := time.Now()
	if err := database.InsertSignup(SignupRecord{
		SessionCode: "ABCD",
		Name:        "Ada",
		Email:       "ada@example.com",
		CreatedAt:   now.Add(-time.Minute),
	}); err != nil {
		t.Fatalf("InsertSignup() error: %v", err)
	}

	err := database.BatchInsertSignups([]SignupRecord{
		{SessionCode: "EFGH", Name: "Grace", Email: "grace@example.com", CreatedAt: now},
		{SessionCode: "EFGH", Name: "Linus", Email: "linus@example.com", CreatedAt: now.Add(-time.Hour)},
	})
	if err != nil {
		t.Fatalf("BatchInsertSignups() error: %v", err)
	}

	n, err := database.CountSignups()
	if err != nil {
		t.Fatalf("CountSignups() error: %v", err)
	}
	if n != 3 {
		t.Errorf("CountSignups() = %d, want 3", n)
	}

	list, err := database.ListSignups(2)
	if err != nil {
		t.Fatalf("ListSignups() error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("ListSignups(2) returned %d rows, want 2", len(list))
	}
	if list[0].Name != "Grace" || list[1].Name != "Ada" {
		t.Errorf("order = %s, %s, want Grace, Ada", list[0].Name, list[1].Name)
	}
	if list[0].ID == "" {
		t.Error("signup id should be generated")
	}
}

func TestBatchInsertSignups_Empty(t *testing.T) {
	database := getTestDB(t)

	if err := database.BatchInsertSignups(nil); err != nil {
		t.Errorf("BatchInsertSignups(nil) error: %v", err)
	}
}
