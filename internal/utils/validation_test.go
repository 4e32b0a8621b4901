package utils

import "testing"

func TestDaysIn(t *testing.T) {
	tests := []struct {
		month int
		year  int
		want  int
	}{
		{1, 2026, 31},
		{2, 2026, 28},
		{2, 2024, 29}, // 闰年
		{2, 2100, 28}, // 整百年不是闰年
		{4, 2026, 30},
		{12, 2026, 31},
	}

	for _, tt := range tests {
		if got := DaysIn(tt.month, tt.year); got != tt.want {
			t.Errorf("DaysIn(%d, %d) 期望 %d，实际得到 %d", tt.month, tt.year, tt.want, got)
		}
	}
}

func TestValidateMonthYear(t *testing.T) {
	if err := ValidateMonthYear(3, 2026); err != nil {
		t.Errorf("合法的月份不应报错: %v", err)
	}
	for _, tt := range []struct{ month, year int }{
		{0, 2026}, {13, 2026}, {3, 1999}, {3, 2101},
	} {
		if err := ValidateMonthYear(tt.month, tt.year); err == nil {
			t.Errorf("ValidateMonthYear(%d, %d) 应当报错", tt.month, tt.year)
		}
	}
}

func TestValidateDay(t *testing.T) {
	if err := ValidateDay(29, 2, 2024); err != nil {
		t.Errorf("闰年 2 月 29 日合法: %v", err)
	}
	if err := ValidateDay(29, 2, 2026); err == nil {
		t.Errorf("平年 2 月 29 日应当报错")
	}
	if err := ValidateDay(0, 3, 2026); err == nil {
		t.Errorf("第 0 天应当报错")
	}
}

func TestNewIDFormats(t *testing.T) {
	staffID := NewStaffID()
	if len(staffID) != len("stf_")+12 {
		t.Errorf("员工 ID 长度不对: %q", staffID)
	}
	snapshotID := NewSnapshotID()
	if len(snapshotID) != len("copy_")+12 {
		t.Errorf("副本 ID 长度不对: %q", snapshotID)
	}
}

func TestGenerateRandomPasswordLength(t *testing.T) {
	if got := GenerateRandomPassword(12); len(got) != 12 {
		t.Errorf("密码长度期望 12，实际得到 %d", len(got))
	}
}
