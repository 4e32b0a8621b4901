package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sysu-ecnc-dev/roster-board/backend/internal/domain"
)

// 副本是按惯例不可变的命名数据包，整体以 JSONB 存储，
// 只通过显式的保存操作整体覆盖

func (r *Repository) CreateSnapshot(snapshot *domain.RosterSnapshot) error {
	bundle, err := json.Marshal(snapshot.Bundle)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO snapshots (id, name, month, year, bundle)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, version
	`

	args := []any{snapshot.ID, snapshot.Name, snapshot.Bundle.Month, snapshot.Bundle.Year, bundle}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&snapshot.CreatedAt, &snapshot.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetSnapshot(id string) (*domain.RosterSnapshot, error) {
	query := `
		SELECT name, bundle, created_at, version FROM snapshots WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	snapshot := &domain.RosterSnapshot{
		ID: id,
	}

	var bundle []byte
	dst := []any{&snapshot.Name, &bundle, &snapshot.CreatedAt, &snapshot.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(bundle, &snapshot.Bundle); err != nil {
		return nil, err
	}

	return snapshot, nil
}

func (r *Repository) GetAllSnapshots() ([]*domain.RosterSnapshot, error) {
	query := `
		SELECT id, name, month, year, created_at, version FROM snapshots ORDER BY created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// 列表接口不加载数据包本身，只返回元信息
	snapshots := make([]*domain.RosterSnapshot, 0)
	for rows.Next() {
		snapshot := &domain.RosterSnapshot{}
		dst := []any{&snapshot.ID, &snapshot.Name, &snapshot.Bundle.Month, &snapshot.Bundle.Year, &snapshot.CreatedAt, &snapshot.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return snapshots, nil
}

// UpdateSnapshot 整体覆盖副本的数据包，乐观锁失败时返回 sql.ErrNoRows
func (r *Repository) UpdateSnapshot(snapshot *domain.RosterSnapshot) error {
	bundle, err := json.Marshal(snapshot.Bundle)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE snapshots
		SET
			name = $1,
			bundle = $2,
			version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING version
	`

	args := []any{snapshot.Name, bundle, snapshot.ID, snapshot.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&snapshot.Version); err != nil {
		return err
	}

	return nil
}

// DeleteSnapshot 删除副本并级联删除引用它的页签
func (r *Repository) DeleteSnapshot(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `DELETE FROM tabs WHERE snapshot_id = $1`
	if _, err := tx.ExecContext(ctx, query, id); err != nil {
		return err
	}

	query = `DELETE FROM snapshots WHERE id = $1`
	if _, err := tx.ExecContext(ctx, query, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}
