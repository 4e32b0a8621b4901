package roster

import (
	"slices"
	"testing"

	"github.com/sysu-ecnc-dev/roster-board/backend/internal/domain"
)

var filterRows = []Row{
	{StaffID: "stf_a", FullName: "张伟", Department: domain.DeptWarehouse, ShiftLabel: domain.ShiftMorning, ShiftTime: "08:00-12:00"},
	{StaffID: "stf_b", FullName: "李娟", Department: domain.DeptCustomerService, ShiftLabel: domain.ShiftMorning, ShiftTime: "08:00-12:00"},
	{StaffID: "stf_c", FullName: "王强", Department: domain.DeptWarehouse, ShiftLabel: domain.ShiftNight, ShiftTime: "18:00-22:00"},
}

func TestFilterEmptyCriteriaIsIdentity(t *testing.T) {
	got := Filter(filterRows, Criteria{})

	if len(got) != len(filterRows) {
		t.Fatalf("空条件应当返回全部 %d 行，实际得到 %d 行", len(filterRows), len(got))
	}
	// 空条件直接返回原切片，不做拷贝
	if &got[0] != &filterRows[0] {
		t.Errorf("空条件应当返回原切片")
	}
}

func TestFilterByShift(t *testing.T) {
	got := Filter(filterRows, Criteria{Shifts: []string{domain.ShiftMorning}})

	if len(got) != 2 {
		t.Fatalf("期望 2 行，实际得到 %d 行", len(got))
	}
	for _, row := range got {
		if row.ShiftLabel != domain.ShiftMorning {
			t.Errorf("过滤结果中出现了 %q", row.ShiftLabel)
		}
	}
}

func TestFilterConjunction(t *testing.T) {
	got := Filter(filterRows, Criteria{
		Shifts:      []string{domain.ShiftMorning},
		Departments: []string{domain.DeptWarehouse},
	})

	if len(got) != 1 || got[0].StaffID != "stf_a" {
		t.Errorf("两个维度的条件应当取交集，实际得到 %+v", got)
	}
}

func TestFilterMultiSelectWithinDimension(t *testing.T) {
	got := Filter(filterRows, Criteria{
		Departments: []string{domain.DeptWarehouse, domain.DeptCustomerService},
	})

	if len(got) != 3 {
		t.Errorf("同一维度内多选应当取并集，期望 3 行，实际得到 %d 行", len(got))
	}
}

func TestFilterPreservesOrderAndInput(t *testing.T) {
	original := slices.Clone(filterRows)

	got := Filter(filterRows, Criteria{Departments: []string{domain.DeptWarehouse}})

	if !slices.Equal(filterRows, original) {
		t.Errorf("过滤不应修改输入")
	}
	if len(got) != 2 || got[0].StaffID != "stf_a" || got[1].StaffID != "stf_c" {
		t.Errorf("过滤应当保持原有顺序，实际得到 %+v", got)
	}
}

func TestFilterIdempotent(t *testing.T) {
	c := Criteria{Shifts: []string{domain.ShiftNight}}

	once := Filter(filterRows, c)
	twice := Filter(once, c)

	if !slices.Equal(once, twice) {
		t.Errorf("对已过滤的结果再次过滤应当不变:\n%+v\n%+v", once, twice)
	}
}

func TestFilterNoMatches(t *testing.T) {
	got := Filter(filterRows, Criteria{Shifts: []string{"不存在的班次"}})

	if len(got) != 0 {
		t.Errorf("没有匹配时应当返回空列表，实际得到 %+v", got)
	}
	if got == nil {
		t.Errorf("没有匹配时应当返回空列表而不是 nil")
	}
}
