package domain

import (
	"encoding/json"
	"testing"
)

func TestStaffRefUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "纯字符串 ID", input: `"stf_abcdef123456"`, want: "stf_abcdef123456"},
		{name: "数字 ID", input: `42`, want: "42"},
		{name: "对象带 userId", input: `{"userId":"stf_a","name":"张三"}`, want: "stf_a"},
		{name: "对象带 id", input: `{"id":"stf_b"}`, want: "stf_b"},
		{name: "对象带 _id", input: `{"_id":"stf_c"}`, want: "stf_c"},
		{name: "userId 优先于 id", input: `{"id":"stf_x","userId":"stf_y"}`, want: "stf_y"},
		{name: "null 归一化为空", input: `null`, want: ""},
		{name: "对象缺少 ID 字段", input: `{"name":"张三"}`, wantErr: true},
		{name: "布尔值非法", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ref StaffRef
			err := json.Unmarshal([]byte(tt.input), &ref)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("期望解析失败，实际得到 %q", ref)
				}
				return
			}
			if err != nil {
				t.Fatalf("解析失败: %v", err)
			}
			if ref.String() != tt.want {
				t.Errorf("期望 %q，实际得到 %q", tt.want, ref)
			}
		})
	}
}

func TestShiftDefinitionKey(t *testing.T) {
	a := ShiftDefinition{Label: "morning", Time: "08:00-12:00"}
	b := ShiftDefinition{Label: "morning", Time: "09:00-13:00"}

	if a.Key() == b.Key() {
		t.Errorf("标签相同但时间段不同的班次应当有不同的键")
	}
}

func testRoster() *GroupRoster {
	gr := &GroupRoster{
		Department: DeptWarehouse,
		Month:      3,
		Year:       2026,
		Shifts:     DefaultShifts(),
		Waiting:    []StaffRef{"stf_wait1"},
	}
	gr.Shifts[0].Assignments = []ShiftAssignment{{StaffID: "stf_a"}, {StaffID: "stf_b"}}
	gr.Shifts[1].Assignments = []ShiftAssignment{{StaffID: "stf_c"}}
	return gr
}

func countOccurrences(gr *GroupRoster, staffID string) int {
	cnt := 0
	for _, shift := range gr.Shifts {
		for _, a := range shift.Assignments {
			if a.StaffID.String() == staffID {
				cnt++
			}
		}
	}
	for _, w := range gr.Waiting {
		if w.String() == staffID {
			cnt++
		}
	}
	return cnt
}

func TestAssignStaffRemovesExistingPlacement(t *testing.T) {
	gr := testRoster()

	// stf_a 从 morning 移到 afternoon
	key := gr.Shifts[1].Key()
	if err := gr.AssignStaff("stf_a", key, ""); err != nil {
		t.Fatalf("分配失败: %v", err)
	}

	if got := countOccurrences(gr, "stf_a"); got != 1 {
		t.Errorf("分配后员工应当只出现一次，实际出现 %d 次", got)
	}
	if len(gr.Shifts[0].Assignments) != 1 || gr.Shifts[0].Assignments[0].StaffID != "stf_b" {
		t.Errorf("原班次中应当只剩下 stf_b，实际为 %+v", gr.Shifts[0].Assignments)
	}
}

func TestAssignStaffFromWaitingPool(t *testing.T) {
	gr := testRoster()

	if err := gr.AssignStaff("stf_wait1", gr.Shifts[0].Key(), "顶班"); err != nil {
		t.Fatalf("分配失败: %v", err)
	}

	if len(gr.Waiting) != 0 {
		t.Errorf("分配后等待池应当为空，实际为 %v", gr.Waiting)
	}
	if got := countOccurrences(gr, "stf_wait1"); got != 1 {
		t.Errorf("分配后员工应当只出现一次，实际出现 %d 次", got)
	}
}

func TestAssignStaffUnknownShift(t *testing.T) {
	gr := testRoster()

	if err := gr.AssignStaff("stf_a", "不存在的班次键", ""); err == nil {
		t.Fatalf("分配到不存在的班次应当返回错误")
	}
	// 失败路径也不允许员工重复出现
	if got := countOccurrences(gr, "stf_a"); got > 1 {
		t.Errorf("员工出现了 %d 次", got)
	}
}

func TestMoveToWaitingNoDuplicates(t *testing.T) {
	gr := testRoster()

	gr.MoveToWaiting("stf_a")
	gr.MoveToWaiting("stf_a")

	if got := countOccurrences(gr, "stf_a"); got != 1 {
		t.Errorf("等待池中员工应当只出现一次，实际出现 %d 次", got)
	}
}

func TestCloneDoesNotShareSlices(t *testing.T) {
	gr := testRoster()
	cloned := gr.Clone()

	gr.MoveToWaiting("stf_a")

	if got := cloned.Shifts[0].Assignments; len(got) != 2 {
		t.Errorf("原记录的修改不应影响深拷贝，实际为 %+v", got)
	}
	if len(cloned.Waiting) != 1 || cloned.Waiting[0] != "stf_wait1" {
		t.Errorf("深拷贝的等待池不应跟随原记录变化，实际为 %v", cloned.Waiting)
	}
}

func TestRemoveStaffReportsChange(t *testing.T) {
	gr := testRoster()

	if !gr.RemoveStaff("stf_a") {
		t.Errorf("移除存在的员工应当返回 true")
	}
	if gr.RemoveStaff("stf_nobody") {
		t.Errorf("移除不存在的员工应当返回 false")
	}
}
