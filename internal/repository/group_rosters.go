package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/roster-board/backend/internal/domain"
)

// GetGroupRoster 读取一个部门某个月份的排班记录。
// 班次、分配和等待池分三张表存储，用左连接一次查出后在内存中重组
func (r *Repository) GetGroupRoster(department string, month, year int) (*domain.GroupRoster, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			gr.id,
			gr.created_at,
			gr.version,
			grs.id,
			grs.label,
			grs.time_range,
			sa.staff_id,
			sa.note
		FROM group_rosters gr
		LEFT JOIN group_roster_shifts grs ON gr.id = grs.roster_id
		LEFT JOIN shift_assignments sa ON grs.id = sa.shift_id
		WHERE gr.department = $1 AND gr.month = $2 AND gr.year = $3
		ORDER BY grs.position, sa.position
	`

	rows, err := r.dbpool.QueryContext(ctx, query, department, month, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	gr := &domain.GroupRoster{
		Department: department,
		Month:      month,
		Year:       year,
		Shifts:     make([]domain.ShiftDefinition, 0),
		Waiting:    make([]domain.StaffRef, 0),
	}
	found := false
	shiftIndex := make(map[int64]int) // shiftID -> gr.Shifts 中的下标

	for rows.Next() {
		var row struct {
			ID        int64
			CreatedAt time.Time
			Version   int32

			ShiftID   sql.NullInt64
			Label     sql.NullString
			TimeRange sql.NullString
			StaffID   sql.NullString
			Note      sql.NullString
		}

		dst := []any{
			&row.ID,
			&row.CreatedAt,
			&row.Version,
			&row.ShiftID,
			&row.Label,
			&row.TimeRange,
			&row.StaffID,
			&row.Note,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if !found {
			found = true
			gr.ID = row.ID
			gr.CreatedAt = row.CreatedAt
			gr.Version = row.Version
		}

		// shiftID 为空表示这条记录没有任何班次
		if !row.ShiftID.Valid {
			continue
		}

		idx, exists := shiftIndex[row.ShiftID.Int64]
		if !exists {
			gr.Shifts = append(gr.Shifts, domain.ShiftDefinition{
				Label:       row.Label.String,
				Time:        row.TimeRange.String,
				Assignments: make([]domain.ShiftAssignment, 0),
			})
			idx = len(gr.Shifts) - 1
			shiftIndex[row.ShiftID.Int64] = idx
		}

		// staffID 为空表示这个班次没有任何分配
		if !row.StaffID.Valid {
			continue
		}

		gr.Shifts[idx].Assignments = append(gr.Shifts[idx].Assignments, domain.ShiftAssignment{
			StaffID: domain.StaffRef(row.StaffID.String),
			Note:    row.Note.String,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !found {
		return nil, sql.ErrNoRows
	}

	// 等待池单独查询
	waitingQuery := `
		SELECT staff_id FROM waiting_entries WHERE roster_id = $1 ORDER BY position
	`

	waitingRows, err := r.dbpool.QueryContext(ctx, waitingQuery, gr.ID)
	if err != nil {
		return nil, err
	}
	defer waitingRows.Close()

	for waitingRows.Next() {
		var staffID string
		if err := waitingRows.Scan(&staffID); err != nil {
			return nil, err
		}
		gr.Waiting = append(gr.Waiting, domain.StaffRef(staffID))
	}

	if err := waitingRows.Err(); err != nil {
		return nil, err
	}

	return gr, nil
}

func (r *Repository) CreateGroupRoster(gr *domain.GroupRoster) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO group_rosters (department, month, year)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version
	`
	if err := tx.QueryRowContext(ctx, query, gr.Department, gr.Month, gr.Year).Scan(&gr.ID, &gr.CreatedAt, &gr.Version); err != nil {
		return err
	}

	if err := insertRosterChildren(ctx, tx, gr); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// UpdateGroupRoster 整体替换一条排班记录的班次、分配和等待池。
// 乐观锁失败时返回 sql.ErrNoRows
func (r *Repository) UpdateGroupRoster(gr *domain.GroupRoster) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE group_rosters
		SET version = version + 1
		WHERE id = $1 AND version = $2
		RETURNING version
	`
	if err := tx.QueryRowContext(ctx, query, gr.ID, gr.Version).Scan(&gr.Version); err != nil {
		return err
	}

	query = `DELETE FROM group_roster_shifts WHERE roster_id = $1`
	if _, err := tx.ExecContext(ctx, query, gr.ID); err != nil {
		return err
	}

	query = `DELETE FROM waiting_entries WHERE roster_id = $1`
	if _, err := tx.ExecContext(ctx, query, gr.ID); err != nil {
		return err
	}

	if err := insertRosterChildren(ctx, tx, gr); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func insertRosterChildren(ctx context.Context, tx *sql.Tx, gr *domain.GroupRoster) error {
	for i := range gr.Shifts {
		query := `
			INSERT INTO group_roster_shifts (roster_id, label, time_range, position)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		var shiftID int64
		params := []any{gr.ID, gr.Shifts[i].Label, gr.Shifts[i].Time, i}
		if err := tx.QueryRowContext(ctx, query, params...).Scan(&shiftID); err != nil {
			return err
		}

		for j, assignment := range gr.Shifts[i].Assignments {
			query = `
				INSERT INTO shift_assignments (shift_id, staff_id, note, position)
				VALUES ($1, $2, $3, $4)
			`
			if _, err := tx.ExecContext(ctx, query, shiftID, assignment.StaffID.String(), assignment.Note, j); err != nil {
				return err
			}
		}
	}

	for i, staffID := range gr.Waiting {
		query := `
			INSERT INTO waiting_entries (roster_id, staff_id, position)
			VALUES ($1, $2, $3)
		`
		if _, err := tx.ExecContext(ctx, query, gr.ID, staffID.String(), i); err != nil {
			return err
		}
	}

	return nil
}
