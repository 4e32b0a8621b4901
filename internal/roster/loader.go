package roster

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/sysu-ecnc-dev/roster-board/backend/internal/domain"
)

// Store 是加载器需要的持久层能力
type Store interface {
	GetAllStaffs() ([]*domain.Staff, error)
	GetGroupRoster(department string, month, year int) (*domain.GroupRoster, error)
	CreateGroupRoster(gr *domain.GroupRoster) error
	GetMonthlyStatuses(month, year int) (domain.StatusMap, error)
	GetMonthlyNotes(month, year int) (domain.NoteMap, error)
	GetSnapshot(id string) (*domain.RosterSnapshot, error)
}

// FallbackCache 是副本数据的降级缓存，只在主存取失败时读取，从不作为权威数据
type FallbackCache interface {
	GetSnapshot(ctx context.Context, id string) (*domain.RosterSnapshot, error)
	SetSnapshot(ctx context.Context, snapshot *domain.RosterSnapshot) error
	DeleteSnapshot(ctx context.Context, id string) error
}

type Loader struct {
	store Store
	cache FallbackCache
}

func NewLoader(store Store, cache FallbackCache) *Loader {
	return &Loader{
		store: store,
		cache: cache,
	}
}

// Departments 从员工目录推导出需要加载的部门列表，
// 已知部门按固定顺序，未知部门按字典序排在其后，组长组最后
func Departments(staffs []*domain.Staff) []string {
	seen := make(map[string]bool)
	extra := make([]string, 0)
	hasTeamLead := false

	for _, staff := range staffs {
		if staff.Department == "" || seen[staff.Department] {
			continue
		}
		seen[staff.Department] = true

		switch {
		case staff.Department == domain.DeptTeamLead:
			hasTeamLead = true
		case !slices.Contains(domain.DepartmentOrder, staff.Department):
			extra = append(extra, staff.Department)
		}
	}

	departments := make([]string, 0, len(seen))
	for _, dept := range domain.DepartmentOrder {
		if seen[dept] {
			departments = append(departments, dept)
		}
	}
	slices.Sort(extra)
	departments = append(departments, extra...)
	if hasTeamLead {
		departments = append(departments, domain.DeptTeamLead)
	}

	return departments
}

// defaultRoster 构造一个部门的默认排班记录:
// 三个固定班次，分配列表为空，该部门的所有员工各进入等待池一次
func defaultRoster(department string, month, year int, staffs []*domain.Staff) *domain.GroupRoster {
	gr := &domain.GroupRoster{
		Department: department,
		Month:      month,
		Year:       year,
		Shifts:     domain.DefaultShifts(),
		Waiting:    make([]domain.StaffRef, 0),
	}

	for _, staff := range staffs {
		if staff.Department == department {
			gr.Waiting = append(gr.Waiting, domain.StaffRef(staff.ID))
		}
	}

	return gr
}

// LoadLive 加载某个月份的实时排班视图。
// 某个部门没有排班记录时先创建默认记录再重试一次读取，
// 重试也失败时该部门渲染为空并附带一条警告，不阻塞整个视图
func (l *Loader) LoadLive(month, year int) (*Session, error) {
	staffs, err := l.store.GetAllStaffs()
	if err != nil {
		return nil, fmt.Errorf("无法获取员工目录: %w", err)
	}

	session := &Session{
		Month:    month,
		Year:     year,
		Rosters:  make([]domain.GroupRoster, 0),
		Statuses: make(domain.StatusMap),
		Notes:    make(domain.NoteMap),
	}

	for _, department := range Departments(staffs) {
		gr, err := l.loadGroupRoster(department, month, year, staffs)
		if err != nil {
			slog.Error("无法加载部门排班记录", "department", department, "month", month, "year", year, "error", err)
			session.Warnings = append(session.Warnings, fmt.Sprintf("部门 %s 的排班数据加载失败", department))
			continue
		}
		session.Rosters = append(session.Rosters, *gr)
	}

	if statuses, err := l.store.GetMonthlyStatuses(month, year); err != nil {
		session.Warnings = append(session.Warnings, "考勤状态加载失败")
	} else {
		session.Statuses = statuses
	}

	if notes, err := l.store.GetMonthlyNotes(month, year); err != nil {
		session.Warnings = append(session.Warnings, "备注加载失败")
	} else {
		session.Notes = notes
	}

	return session, nil
}

func (l *Loader) loadGroupRoster(department string, month, year int, staffs []*domain.Staff) (*domain.GroupRoster, error) {
	gr, err := l.store.GetGroupRoster(department, month, year)
	if err == nil {
		return gr, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	// 记录不存在，创建默认记录后重试一次
	if err := l.store.CreateGroupRoster(defaultRoster(department, month, year, staffs)); err != nil {
		return nil, err
	}

	return l.store.GetGroupRoster(department, month, year)
}

// LoadSnapshot 一次性加载副本数据包。
// 主存取失败时依次降级到缓存和调用方提供的初始数据，
// 降级时返回非致命的警告而不是直接失败
func (l *Loader) LoadSnapshot(ctx context.Context, id string, initial *domain.RosterBundle) (*Session, error) {
	var bundle domain.RosterBundle
	var warnings []string

	snapshot, err := l.store.GetSnapshot(id)
	switch {
	case err == nil:
		bundle = snapshot.Bundle
		if l.cache != nil {
			if err := l.cache.SetSnapshot(ctx, snapshot); err != nil {
				slog.Info("无法写入副本降级缓存", "snapshotID", id, "error", err)
			}
		}
	default:
		slog.Error("无法加载副本，尝试降级", "snapshotID", id, "error", err)

		cached, cacheErr := l.cachedSnapshot(ctx, id)
		switch {
		case cacheErr == nil:
			bundle = cached.Bundle
			warnings = append(warnings, "副本加载失败，当前显示的是缓存数据")
		case initial != nil:
			bundle = *initial
			warnings = append(warnings, "副本加载失败，当前显示的是本地数据")
		default:
			return nil, fmt.Errorf("无法加载副本: %w", err)
		}
	}

	session := &Session{
		Month:      bundle.Month,
		Year:       bundle.Year,
		SnapshotID: id,
		Rosters:    bundle.Rosters,
		Statuses:   bundle.Statuses,
		Notes:      bundle.Notes,
		Warnings:   warnings,
	}
	if session.Statuses == nil {
		session.Statuses = make(domain.StatusMap)
	}
	if session.Notes == nil {
		session.Notes = make(domain.NoteMap)
	}

	return session, nil
}

func (l *Loader) cachedSnapshot(ctx context.Context, id string) (*domain.RosterSnapshot, error) {
	if l.cache == nil {
		return nil, errors.New("降级缓存未启用")
	}
	return l.cache.GetSnapshot(ctx, id)
}
