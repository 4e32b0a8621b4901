package roster

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sysu-ecnc-dev/roster-board/backend/internal/domain"
)

// Session 是某个视图 (月份或副本) 在内存中的临时数据副本，
// 视图挂载时创建，切换月份或删除副本时丢弃。
// 考勤单元格的写入是乐观的: 本地先生效，远端失败后回滚该单元格
type Session struct {
	mu sync.Mutex

	Month      int
	Year       int
	SnapshotID string

	Rosters  []domain.GroupRoster
	Statuses domain.StatusMap
	Notes    domain.NoteMap
	Warnings []string

	generation uint64
}

// SetStatus 乐观地写入一个考勤单元格。
// 远端写入失败时，仅当该单元格仍然持有被拒绝的值时才回滚，
// 这样同一单元格后写优先，且一个单元格的失败不影响其他单元格
func (s *Session) SetStatus(staffID string, day int, code string, remote func() error) error {
	s.mu.Lock()
	prior := s.Statuses.Get(staffID, day)
	s.Statuses.Set(staffID, day, code)
	s.mu.Unlock()

	if remote == nil {
		return nil
	}

	if err := remote(); err != nil {
		s.mu.Lock()
		if s.Statuses.Get(staffID, day) == code {
			s.Statuses.Set(staffID, day, prior)
		}
		s.mu.Unlock()
		return err
	}

	return nil
}

// SetNote 写入备注。备注是用户显式确认的编辑，
// 远端失败时本地值保留不回滚，由用户重试保存，避免丢数据
func (s *Session) SetNote(staffID string, day int, text string, remote func() error) error {
	s.mu.Lock()
	s.Notes.Set(staffID, day, text)
	s.mu.Unlock()

	if remote == nil {
		return nil
	}
	return remote()
}

// DeleteNote 删除备注，该员工的最后一条备注删除后其键会被整体移除
func (s *Session) DeleteNote(staffID string, day int, remote func() error) error {
	s.mu.Lock()
	s.Notes.Delete(staffID, day)
	s.mu.Unlock()

	if remote == nil {
		return nil
	}
	return remote()
}

// NoteFor 供状态表格渲染备注指示用
func (s *Session) NoteFor(staffID string, day int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Notes.Has(staffID, day) {
		return "", false
	}
	return s.Notes.Get(staffID, day), true
}

// Bundle 返回会话当前数据的副本快照，供保存副本和导出使用
func (s *Session) Bundle() domain.RosterBundle {
	s.mu.Lock()
	defer s.mu.Unlock()

	bundle := domain.RosterBundle{
		Month:    s.Month,
		Year:     s.Year,
		Rosters:  make([]domain.GroupRoster, len(s.Rosters)),
		Statuses: make(domain.StatusMap, len(s.Statuses)),
		Notes:    make(domain.NoteMap, len(s.Notes)),
	}
	for i := range s.Rosters {
		bundle.Rosters[i] = s.Rosters[i].Clone()
	}

	for staffID, days := range s.Statuses {
		bundle.Statuses[staffID] = make(map[int]string, len(days))
		for day, code := range days {
			bundle.Statuses[staffID][day] = code
		}
	}
	for staffID, days := range s.Notes {
		bundle.Notes[staffID] = make(map[int]string, len(days))
		for day, text := range days {
			bundle.Notes[staffID][day] = text
		}
	}

	return bundle
}

// SetRosters 在分配操作后刷新会话中的排班数据
func (s *Session) SetRosters(rosters []domain.GroupRoster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Rosters = rosters
}

// UpdateRoster 在会话内修改某个部门的排班数据 (副本视图的分配操作只改会话，
// 由显式的保存操作落库)
func (s *Session) UpdateRoster(department string, fn func(*domain.GroupRoster) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.Rosters {
		if s.Rosters[i].Department == department {
			return fn(&s.Rosters[i])
		}
	}

	return fmt.Errorf("部门 %s 的排班数据不存在", department)
}

// RowsSnapshot 返回用于投影的排班数据副本
func (s *Session) RowsSnapshot() []domain.GroupRoster {
	s.mu.Lock()
	defer s.mu.Unlock()

	rosters := make([]domain.GroupRoster, len(s.Rosters))
	for i := range s.Rosters {
		rosters[i] = s.Rosters[i].Clone()
	}
	return rosters
}

// Manager 持有所有活跃的视图会话。
// 每次加载都会领取一个递增的代号，安装会话时丢弃代号更小的结果，
// 这样快速切换月份时迟到的旧响应不会覆盖新数据
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	counter  uint64
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

func SessionKey(month, year int, snapshotID string) string {
	if snapshotID != "" {
		return "snapshot_" + snapshotID
	}
	return fmt.Sprintf("live_%d_%d", year, month)
}

// Begin 领取一次加载的代号
func (m *Manager) Begin() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return m.counter
}

// Install 安装加载完成的会话，若已有更新的会话则丢弃本次结果。
// 实时月份的会话只保留最近加载的一个，切换月份时旧月份的临时数据随之丢弃
func (m *Manager) Install(key string, s *Session, generation uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.sessions[key]; ok && existing.generation >= generation {
		return false
	}

	if strings.HasPrefix(key, "live_") {
		for k := range m.sessions {
			if k != key && strings.HasPrefix(k, "live_") {
				delete(m.sessions, k)
			}
		}
	}

	s.generation = generation
	m.sessions[key] = s
	return true
}

func (m *Manager) Get(key string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[key]
	return s, ok
}

// Invalidate 丢弃一个会话 (切换月份或删除副本时调用)
func (m *Manager) Invalidate(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key)
}
