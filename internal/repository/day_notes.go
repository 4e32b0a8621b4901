package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/roster-board/backend/internal/domain"
)

func (r *Repository) UpsertDayNote(staffID string, day, month, year int, content string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO day_notes (staff_id, day, month, year, content)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (staff_id, day, month, year) DO UPDATE SET content = EXCLUDED.content
	`

	_, err := r.dbpool.ExecContext(ctx, query, staffID, day, month, year, content)
	return err
}

func (r *Repository) DeleteDayNote(staffID string, day, month, year int) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM day_notes
		WHERE staff_id = $1 AND day = $2 AND month = $3 AND year = $4
	`

	_, err := r.dbpool.ExecContext(ctx, query, staffID, day, month, year)
	return err
}

func (r *Repository) GetMonthlyNotes(month, year int) (domain.NoteMap, error) {
	query := `
		SELECT staff_id, day, content FROM day_notes WHERE month = $1 AND year = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, month, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make(domain.NoteMap)
	for rows.Next() {
		var staffID string
		var day int
		var content string
		if err := rows.Scan(&staffID, &day, &content); err != nil {
			return nil, err
		}
		notes.Set(staffID, day, content)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notes, nil
}
