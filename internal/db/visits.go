package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("not found")

// VisitRecord is one websocket session. EndedAt is nil while the visitor is
// still connected.
type VisitRecord struct {
	ID          string     `json:"id"`
	SessionCode string     `json:"sessionCode"`
	Layout      string     `json:"layout"`
	StartedAt   time.Time  `json:"startedAt"`
	EndedAt     *time.Time `json:"endedAt"`
	EventCount  int        `json:"eventCount"`
}

func (d *DB) StartVisit(id, sessionCode, layout string) error {
	_, err := d.conn.Exec(`
		INSERT INTO visits (id, session_code, layout, started_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (id) DO NOTHING
	`, id, sessionCode, layout)
	if err != nil {
		return fmt.Errorf("starting visit: %w", err)
	}
	return nil
}

func (d *DB) EndVisit(id string, eventCount int) error {
	_, err := d.conn.Exec(`
		UPDATE visits SET ended_at = now(), event_count = $2 WHERE id = $1
	`, id, eventCount)
	if err != nil {
		return fmt.Errorf("ending visit: %w", err)
	}
	return nil
}

func (d *DB) GetVisit(id string) (*VisitRecord, error) {
	var v VisitRecord
	err := d.conn.QueryRow(`
		SELECT id, session_code, layout, started_at, ended_at, event_count
		FROM visits WHERE id = $1
	`, id).Scan(&v.ID, &v.SessionCode, &v.Layout, &v.StartedAt, &v.EndedAt, &v.EventCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("getting visit %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting visit: %w", err)
	}
	return &v, nil
}
