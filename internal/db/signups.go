package db

import (
	"fmt"
	"time"
)

type SignupRecord struct {
	ID          string    `json:"id"`
	SessionCode string    `json:"sessionCode"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (d *DB) InsertSignup(rec SignupRecord) error {
	_, err := d.conn.Exec(`
		INSERT INTO signups (session_code, name, email, created_at)
		VALUES ($1, $2, $3, $4)
	`, rec.SessionCode, rec.Name, rec.Email, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting signup: %w", err)
	}
	return nil
}

func (d *DB) BatchInsertSignups(recs []SignupRecord) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO signups (session_code, name, email, created_at)
		VALUES ($1, $2, $3, $4)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range recs {
		if _, err := stmt.Exec(rec.SessionCode, rec.Name, rec.Email, rec.CreatedAt); err != nil {
			return fmt.Errorf("inserting signup in batch: %w", err)
		}
	}

	return tx.Commit()
}

// ListSignups returns the most recent signups first.
func (d *DB) ListSignups(limit int) ([]SignupRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.conn.Query(`
		SELECT id, session_code, name, email, created_at
		FROM signups
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing signups: %w", err)
	}
	defer rows.Close()

	var out []SignupRecord
	for rows.Next() {
		var r SignupRecord
		if err := rows.Scan(&r.ID, &r.SessionCode, &r.Name, &r.Email, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning signup: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (d *DB) CountSignups() (int, error) {
	var n int
	if err := d.conn.QueryRow(`SELECT COUNT(*) FROM signups`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting signups: %w", err)
	}
	return n, nil
}
