package export

import (
	"errors"
	"testing"

	"github.com/sysu-ecnc-dev/roster-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/roster-board/backend/internal/roster"
)

func TestFilename(t *testing.T) {
	if got := Filename(3, 2026); got != "roster_3_2026.xlsx" {
		t.Errorf("期望 roster_3_2026.xlsx，实际得到 %q", got)
	}
}

func TestMonthlyRosterEmptyRows(t *testing.T) {
	_, err := MonthlyRoster(nil, 31, make(domain.StatusMap), make(domain.NoteMap))

	if !errors.Is(err, ErrNoRows) {
		t.Fatalf("空的行列表应当返回 ErrNoRows，实际得到 %v", err)
	}
}

func exportRows() []roster.Row {
	return []roster.Row{
		{StaffID: "stf_a", FullName: "张伟", Department: domain.DeptWarehouse, ShiftLabel: domain.ShiftMorning, ShiftTime: "08:00-12:00"},
		{StaffID: "stf_b", FullName: "李娟", Department: domain.DeptWarehouse, ShiftLabel: domain.ShiftMorning, ShiftTime: "08:00-12:00"},
		{StaffID: "stf_c", FullName: "王强", Department: domain.DeptTeamLead, ShiftLabel: domain.ShiftNight, ShiftTime: "18:00-22:00"},
	}
}

func TestMonthlyRosterContent(t *testing.T) {
	statuses := make(domain.StatusMap)
	statuses.Set("stf_a", 2, domain.StatusOff)
	statuses.Set("stf_b", 5, "外勤") // 自由编码

	notes := make(domain.NoteMap)
	notes.Set("stf_a", 2, "补上周的班")

	f, err := MonthlyRoster(exportRows(), 31, statuses, notes)
	if err != nil {
		t.Fatalf("导出失败: %v", err)
	}

	// 表头: 四个说明列 + 天数列
	for cell, want := range map[string]string{
		"A1": "序号",
		"B1": "班次",
		"C1": "部门",
		"D1": "姓名",
		"E1": "1",
	} {
		got, err := f.GetCellValue(sheetName, cell)
		if err != nil {
			t.Fatalf("读取 %s 失败: %v", cell, err)
		}
		if got != want {
			t.Errorf("%s 期望 %q，实际得到 %q", cell, want, got)
		}
	}

	// 数据行: 班次和部门只写在合并段的首行
	for cell, want := range map[string]string{
		"B2": "morning 08:00-12:00",
		"C2": domain.DeptWarehouse,
		"D2": "张伟",
		"D3": "李娟",
		"B4": "night 18:00-22:00",
		"C4": domain.DeptTeamLead,
		"D4": "王强",
	} {
		got, err := f.GetCellValue(sheetName, cell)
		if err != nil {
			t.Fatalf("读取 %s 失败: %v", cell, err)
		}
		if got != want {
			t.Errorf("%s 期望 %q，实际得到 %q", cell, want, got)
		}
	}

	// 状态写入对应的天数列: 第 2 天 -> 第 6 列 (F)
	if got, _ := f.GetCellValue(sheetName, "F2"); got != domain.StatusOff {
		t.Errorf("F2 期望 %q，实际得到 %q", domain.StatusOff, got)
	}
	// 自由编码照常写入，只是不着色
	if got, _ := f.GetCellValue(sheetName, "I3"); got != "外勤" {
		t.Errorf("I3 期望 %q，实际得到 %q", "外勤", got)
	}
}

func TestMonthlyRosterMergesCells(t *testing.T) {
	f, err := MonthlyRoster(exportRows(), 31, make(domain.StatusMap), make(domain.NoteMap))
	if err != nil {
		t.Fatalf("导出失败: %v", err)
	}

	merged, err := f.GetMergeCells(sheetName)
	if err != nil {
		t.Fatalf("读取合并单元格失败: %v", err)
	}

	// morning 段的班次列和部门列各有一个两行的合并段
	wantRanges := map[string]bool{"B2:B3": false, "C2:C3": false}
	for _, mc := range merged {
		ref := mc.GetStartAxis() + ":" + mc.GetEndAxis()
		if _, ok := wantRanges[ref]; ok {
			wantRanges[ref] = true
		}
	}
	for ref, found := range wantRanges {
		if !found {
			t.Errorf("缺少合并段 %s，实际为 %+v", ref, merged)
		}
	}
}

func TestMonthlyRosterNoteComments(t *testing.T) {
	notes := make(domain.NoteMap)
	notes.Set("stf_a", 2, "补上周的班")

	f, err := MonthlyRoster(exportRows(), 31, make(domain.StatusMap), notes)
	if err != nil {
		t.Fatalf("导出失败: %v", err)
	}

	comments, err := f.GetComments(sheetName)
	if err != nil {
		t.Fatalf("读取批注失败: %v", err)
	}

	if len(comments) != 1 {
		t.Fatalf("期望 1 条批注，实际得到 %d 条", len(comments))
	}
	if comments[0].Cell != "F2" {
		t.Errorf("批注应当附在 F2，实际为 %s", comments[0].Cell)
	}
}
