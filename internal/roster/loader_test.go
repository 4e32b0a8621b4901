package roster

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"testing"

	"github.com/sysu-ecnc-dev/roster-board/backend/internal/domain"
)

type mockStore struct {
	getAllStaffs       func() ([]*domain.Staff, error)
	getGroupRoster     func(department string, month, year int) (*domain.GroupRoster, error)
	createGroupRoster  func(gr *domain.GroupRoster) error
	getMonthlyStatuses func(month, year int) (domain.StatusMap, error)
	getMonthlyNotes    func(month, year int) (domain.NoteMap, error)
	getSnapshot        func(id string) (*domain.RosterSnapshot, error)
}

func (m *mockStore) GetAllStaffs() ([]*domain.Staff, error) { return m.getAllStaffs() }
func (m *mockStore) GetGroupRoster(department string, month, year int) (*domain.GroupRoster, error) {
	return m.getGroupRoster(department, month, year)
}
func (m *mockStore) CreateGroupRoster(gr *domain.GroupRoster) error { return m.createGroupRoster(gr) }
func (m *mockStore) GetMonthlyStatuses(month, year int) (domain.StatusMap, error) {
	return m.getMonthlyStatuses(month, year)
}
func (m *mockStore) GetMonthlyNotes(month, year int) (domain.NoteMap, error) {
	return m.getMonthlyNotes(month, year)
}
func (m *mockStore) GetSnapshot(id string) (*domain.RosterSnapshot, error) {
	return m.getSnapshot(id)
}

type mockCache struct {
	getSnapshot    func(ctx context.Context, id string) (*domain.RosterSnapshot, error)
	setSnapshot    func(ctx context.Context, snapshot *domain.RosterSnapshot) error
	deleteSnapshot func(ctx context.Context, id string) error
}

func (m *mockCache) GetSnapshot(ctx context.Context, id string) (*domain.RosterSnapshot, error) {
	return m.getSnapshot(ctx, id)
}
func (m *mockCache) SetSnapshot(ctx context.Context, snapshot *domain.RosterSnapshot) error {
	return m.setSnapshot(ctx, snapshot)
}
func (m *mockCache) DeleteSnapshot(ctx context.Context, id string) error {
	return m.deleteSnapshot(ctx, id)
}

var loaderStaffs = []*domain.Staff{
	{ID: "stf_a", FullName: "张伟", Department: domain.DeptWarehouse},
	{ID: "stf_b", FullName: "李娟", Department: domain.DeptWarehouse},
	{ID: "stf_c", FullName: "王强", Department: domain.DeptTeamLead},
	{ID: "stf_d", FullName: "赵敏", Department: "维修组"},
}

func TestDepartmentsOrdering(t *testing.T) {
	got := Departments(loaderStaffs)

	want := []string{domain.DeptWarehouse, "维修组", domain.DeptTeamLead}
	if !slices.Equal(got, want) {
		t.Errorf("期望 %v，实际得到 %v", want, got)
	}
}

func TestDepartmentsSkipsEmpty(t *testing.T) {
	got := Departments([]*domain.Staff{{ID: "stf_a", Department: ""}})

	if len(got) != 0 {
		t.Errorf("没有部门的员工不应产生部门，实际得到 %v", got)
	}
}

// 某个部门没有排班记录时，先创建默认记录再重试一次
func TestLoadLiveCreatesDefaultRoster(t *testing.T) {
	created := make(map[string]*domain.GroupRoster)
	store := &mockStore{
		getAllStaffs: func() ([]*domain.Staff, error) { return loaderStaffs, nil },
		getGroupRoster: func(department string, month, year int) (*domain.GroupRoster, error) {
			if gr, ok := created[department]; ok {
				return gr, nil
			}
			return nil, sql.ErrNoRows
		},
		createGroupRoster: func(gr *domain.GroupRoster) error {
			created[gr.Department] = gr
			return nil
		},
		getMonthlyStatuses: func(month, year int) (domain.StatusMap, error) { return make(domain.StatusMap), nil },
		getMonthlyNotes:    func(month, year int) (domain.NoteMap, error) { return make(domain.NoteMap), nil },
	}

	session, err := (&Loader{store: store}).LoadLive(3, 2026)
	if err != nil {
		t.Fatalf("加载失败: %v", err)
	}

	if len(session.Warnings) != 0 {
		t.Errorf("默认记录创建成功时不应有警告，实际为 %v", session.Warnings)
	}
	if len(session.Rosters) != 3 {
		t.Fatalf("期望 3 个部门的排班记录，实际得到 %d 个", len(session.Rosters))
	}

	gr := created[domain.DeptWarehouse]
	if gr == nil {
		t.Fatalf("应当为仓储组创建默认记录")
	}
	if len(gr.Shifts) != 3 {
		t.Errorf("默认记录应当包含 3 个班次，实际为 %d 个", len(gr.Shifts))
	}
	for _, shift := range gr.Shifts {
		if len(shift.Assignments) != 0 {
			t.Errorf("默认班次 %s 的分配列表应当为空", shift.Label)
		}
	}
	if len(gr.Waiting) != 2 {
		t.Errorf("默认记录的等待池应当包含该部门全部 2 名员工，实际为 %v", gr.Waiting)
	}
}

// 部门加载失败时整个视图不失败，该部门渲染为空并附带警告
func TestLoadLivePartialFailure(t *testing.T) {
	dbErr := errors.New("数据库连接失败")
	store := &mockStore{
		getAllStaffs: func() ([]*domain.Staff, error) { return loaderStaffs, nil },
		getGroupRoster: func(department string, month, year int) (*domain.GroupRoster, error) {
			if department == domain.DeptWarehouse {
				return nil, dbErr
			}
			return &domain.GroupRoster{Department: department, Month: month, Year: year, Shifts: domain.DefaultShifts()}, nil
		},
		createGroupRoster:  func(gr *domain.GroupRoster) error { return nil },
		getMonthlyStatuses: func(month, year int) (domain.StatusMap, error) { return nil, dbErr },
		getMonthlyNotes:    func(month, year int) (domain.NoteMap, error) { return make(domain.NoteMap), nil },
	}

	session, err := (&Loader{store: store}).LoadLive(3, 2026)
	if err != nil {
		t.Fatalf("部分失败不应使整个视图失败: %v", err)
	}

	if len(session.Rosters) != 2 {
		t.Errorf("期望 2 个部门加载成功，实际得到 %d 个", len(session.Rosters))
	}
	// 部门失败和考勤状态失败各一条警告
	if len(session.Warnings) != 2 {
		t.Errorf("期望 2 条警告，实际为 %v", session.Warnings)
	}
	if session.Statuses == nil {
		t.Errorf("考勤状态加载失败时应当保持空表而不是 nil")
	}
}

func TestLoadLiveStaffDirectoryFailure(t *testing.T) {
	store := &mockStore{
		getAllStaffs: func() ([]*domain.Staff, error) { return nil, errors.New("数据库连接失败") },
	}

	if _, err := (&Loader{store: store}).LoadLive(3, 2026); err == nil {
		t.Fatalf("员工目录加载失败应当使加载直接失败")
	}
}

func snapshotBundle() domain.RosterBundle {
	return domain.RosterBundle{
		Month: 3,
		Year:  2026,
		Rosters: []domain.GroupRoster{
			{Department: domain.DeptWarehouse, Month: 3, Year: 2026, Shifts: domain.DefaultShifts()},
		},
	}
}

func TestLoadSnapshotFromStore(t *testing.T) {
	cacheWrites := 0
	store := &mockStore{
		getSnapshot: func(id string) (*domain.RosterSnapshot, error) {
			return &domain.RosterSnapshot{ID: id, Name: "三月终版", Bundle: snapshotBundle()}, nil
		},
	}
	cache := &mockCache{
		setSnapshot: func(ctx context.Context, snapshot *domain.RosterSnapshot) error {
			cacheWrites++
			return nil
		},
	}

	session, err := NewLoader(store, cache).LoadSnapshot(context.Background(), "copy_abcdef123456", nil)
	if err != nil {
		t.Fatalf("加载失败: %v", err)
	}

	if session.SnapshotID != "copy_abcdef123456" {
		t.Errorf("会话应当记录副本 ID，实际为 %q", session.SnapshotID)
	}
	if session.Month != 3 || session.Year != 2026 {
		t.Errorf("会话的月份应当来自副本数据，实际为 %d/%d", session.Month, session.Year)
	}
	if len(session.Warnings) != 0 {
		t.Errorf("主存取成功时不应有警告，实际为 %v", session.Warnings)
	}
	if cacheWrites != 1 {
		t.Errorf("主存取成功后应当写入降级缓存，实际写入 %d 次", cacheWrites)
	}
	if session.Statuses == nil || session.Notes == nil {
		t.Errorf("空的状态表和备注表应当被初始化")
	}
}

func TestLoadSnapshotFallsBackToCache(t *testing.T) {
	store := &mockStore{
		getSnapshot: func(id string) (*domain.RosterSnapshot, error) {
			return nil, errors.New("数据库连接失败")
		},
	}
	cache := &mockCache{
		getSnapshot: func(ctx context.Context, id string) (*domain.RosterSnapshot, error) {
			return &domain.RosterSnapshot{ID: id, Bundle: snapshotBundle()}, nil
		},
	}

	session, err := NewLoader(store, cache).LoadSnapshot(context.Background(), "copy_abcdef123456", nil)
	if err != nil {
		t.Fatalf("缓存可用时不应失败: %v", err)
	}

	if len(session.Rosters) != 1 {
		t.Errorf("应当使用缓存中的数据，实际为 %+v", session.Rosters)
	}
	if len(session.Warnings) != 1 {
		t.Errorf("降级到缓存时应当附带一条警告，实际为 %v", session.Warnings)
	}
}

func TestLoadSnapshotFallsBackToInitial(t *testing.T) {
	store := &mockStore{
		getSnapshot: func(id string) (*domain.RosterSnapshot, error) {
			return nil, errors.New("数据库连接失败")
		},
	}
	cache := &mockCache{
		getSnapshot: func(ctx context.Context, id string) (*domain.RosterSnapshot, error) {
			return nil, errors.New("缓存未命中")
		},
	}

	initial := snapshotBundle()
	session, err := NewLoader(store, cache).LoadSnapshot(context.Background(), "copy_abcdef123456", &initial)
	if err != nil {
		t.Fatalf("有初始数据时不应失败: %v", err)
	}

	if len(session.Rosters) != 1 {
		t.Errorf("应当使用调用方提供的初始数据，实际为 %+v", session.Rosters)
	}
	if len(session.Warnings) != 1 {
		t.Errorf("降级到初始数据时应当附带一条警告，实际为 %v", session.Warnings)
	}
}

func TestLoadSnapshotAllSourcesFail(t *testing.T) {
	store := &mockStore{
		getSnapshot: func(id string) (*domain.RosterSnapshot, error) {
			return nil, errors.New("数据库连接失败")
		},
	}

	if _, err := NewLoader(store, nil).LoadSnapshot(context.Background(), "copy_abcdef123456", nil); err == nil {
		t.Fatalf("所有数据源都失败时应当返回错误")
	}
}
