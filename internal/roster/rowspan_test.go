package roster

import (
	"testing"

	"github.com/sysu-ecnc-dev/roster-board/backend/internal/domain"
)

func spanRows() []Row {
	return []Row{
		{StaffID: "stf_a", Department: domain.DeptCustomerService, ShiftLabel: domain.ShiftMorning, ShiftTime: "08:00-12:00"},
		{StaffID: "stf_b", Department: domain.DeptCustomerService, ShiftLabel: domain.ShiftMorning, ShiftTime: "08:00-12:00"},
		{StaffID: "stf_c", Department: domain.DeptWarehouse, ShiftLabel: domain.ShiftMorning, ShiftTime: "08:00-12:00"},
		{StaffID: "stf_d", Department: domain.DeptWarehouse, ShiftLabel: domain.ShiftNight, ShiftTime: "18:00-22:00"},
	}
}

func TestSpans(t *testing.T) {
	shiftSpans, deptSpans := Spans(spanRows())

	wantShift := []int{3, 0, 0, 1}
	wantDept := []int{2, 0, 1, 1}

	for i := range wantShift {
		if shiftSpans[i] != wantShift[i] {
			t.Errorf("班次列第 %d 行期望跨度 %d，实际得到 %d", i, wantShift[i], shiftSpans[i])
		}
		if deptSpans[i] != wantDept[i] {
			t.Errorf("部门列第 %d 行期望跨度 %d，实际得到 %d", i, wantDept[i], deptSpans[i])
		}
	}
}

// 每一列的跨度之和都必须等于行数，否则表格会错位
func TestSpansSumToRowCount(t *testing.T) {
	rows := spanRows()
	shiftSpans, deptSpans := Spans(rows)

	sum := func(spans []int) int {
		total := 0
		for _, s := range spans {
			total += s
		}
		return total
	}

	if got := sum(shiftSpans); got != len(rows) {
		t.Errorf("班次列跨度之和期望 %d，实际得到 %d", len(rows), got)
	}
	if got := sum(deptSpans); got != len(rows) {
		t.Errorf("部门列跨度之和期望 %d，实际得到 %d", len(rows), got)
	}
}

// 同部门的行被不同班次隔开时不合并
func TestSpansDepartmentResetsAcrossShifts(t *testing.T) {
	rows := []Row{
		{StaffID: "stf_a", Department: domain.DeptWarehouse, ShiftLabel: domain.ShiftMorning, ShiftTime: "08:00-12:00"},
		{StaffID: "stf_b", Department: domain.DeptWarehouse, ShiftLabel: domain.ShiftNight, ShiftTime: "18:00-22:00"},
	}

	_, deptSpans := Spans(rows)

	if deptSpans[0] != 1 || deptSpans[1] != 1 {
		t.Errorf("跨班次的同部门行不应合并，实际得到 %v", deptSpans)
	}
}

// 标签相同但时间段不同的班次不合并
func TestSpansSameLabelDifferentTime(t *testing.T) {
	rows := []Row{
		{StaffID: "stf_a", Department: domain.DeptWarehouse, ShiftLabel: domain.ShiftMorning, ShiftTime: "08:00-12:00"},
		{StaffID: "stf_b", Department: domain.DeptWarehouse, ShiftLabel: domain.ShiftMorning, ShiftTime: "09:00-11:00"},
	}

	shiftSpans, _ := Spans(rows)

	if shiftSpans[0] != 1 || shiftSpans[1] != 1 {
		t.Errorf("同标签不同时间段的班次不应合并，实际得到 %v", shiftSpans)
	}
}

func TestSpansEmptyRows(t *testing.T) {
	shiftSpans, deptSpans := Spans(nil)

	if len(shiftSpans) != 0 || len(deptSpans) != 0 {
		t.Errorf("空输入应当返回空跨度列表")
	}
}

func TestRenderPredicatesAgreeWithSpans(t *testing.T) {
	rows := spanRows()
	shiftSpans, deptSpans := Spans(rows)

	for i := range rows {
		if got, want := RendersShiftCell(rows, i), shiftSpans[i] > 0; got != want {
			t.Errorf("第 %d 行 RendersShiftCell 期望 %v，实际得到 %v", i, want, got)
		}
		if got, want := RendersDeptCell(rows, i), deptSpans[i] > 0; got != want {
			t.Errorf("第 %d 行 RendersDeptCell 期望 %v，实际得到 %v", i, want, got)
		}
	}
}
