package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/roster-board/backend/internal/domain"
)

func (r *Repository) CreateTab(tab *domain.Tab) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO tabs (name, snapshot_id)
		VALUES ($1, $2)
		RETURNING id, created_at, version
	`

	if err := r.dbpool.QueryRowContext(ctx, query, tab.Name, tab.SnapshotID).Scan(&tab.ID, &tab.CreatedAt, &tab.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAllTabs() ([]*domain.Tab, error) {
	query := `
		SELECT id, name, snapshot_id, created_at, version FROM tabs ORDER BY created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tabs := make([]*domain.Tab, 0)
	for rows.Next() {
		tab := &domain.Tab{}
		dst := []any{&tab.ID, &tab.Name, &tab.SnapshotID, &tab.CreatedAt, &tab.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		tabs = append(tabs, tab)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tabs, nil
}

func (r *Repository) GetTabByID(id int64) (*domain.Tab, error) {
	query := `
		SELECT name, snapshot_id, created_at, version FROM tabs WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	tab := &domain.Tab{
		ID: id,
	}

	dst := []any{&tab.Name, &tab.SnapshotID, &tab.CreatedAt, &tab.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return tab, nil
}

func (r *Repository) UpdateTab(tab *domain.Tab) error {
	query := `
		UPDATE tabs
		SET
			name = $1,
			version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, tab.Name, tab.ID, tab.Version).Scan(&tab.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteTab(id int64) error {
	query := `
		DELETE FROM tabs WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
