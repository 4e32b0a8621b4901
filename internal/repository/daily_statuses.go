package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/roster-board/backend/internal/domain"
)

// UpsertDailyStatus 写入一个考勤单元格，空编码等价于删除
func (r *Repository) UpsertDailyStatus(staffID string, day, month, year int, code string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if code == "" {
		query := `
			DELETE FROM daily_statuses
			WHERE staff_id = $1 AND day = $2 AND month = $3 AND year = $4
		`
		_, err := r.dbpool.ExecContext(ctx, query, staffID, day, month, year)
		return err
	}

	query := `
		INSERT INTO daily_statuses (staff_id, day, month, year, code)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (staff_id, day, month, year) DO UPDATE SET code = EXCLUDED.code
	`

	_, err := r.dbpool.ExecContext(ctx, query, staffID, day, month, year, code)
	return err
}

func (r *Repository) GetMonthlyStatuses(month, year int) (domain.StatusMap, error) {
	query := `
		SELECT staff_id, day, code FROM daily_statuses WHERE month = $1 AND year = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, month, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	statuses := make(domain.StatusMap)
	for rows.Next() {
		var staffID string
		var day int
		var code string
		if err := rows.Scan(&staffID, &day, &code); err != nil {
			return nil, err
		}
		statuses.Set(staffID, day, code)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return statuses, nil
}
