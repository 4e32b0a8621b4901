package domain

import "testing"

func TestStatusMapSetAndGet(t *testing.T) {
	m := make(StatusMap)

	m.Set("stf_a", 3, StatusOff)
	if got := m.Get("stf_a", 3); got != StatusOff {
		t.Errorf("期望 %q，实际得到 %q", StatusOff, got)
	}
	if got := m.Get("stf_a", 4); got != "" {
		t.Errorf("未设置的单元格应当返回空字符串，实际得到 %q", got)
	}
	if got := m.Get("stf_nobody", 3); got != "" {
		t.Errorf("未知员工应当返回空字符串，实际得到 %q", got)
	}
}

func TestStatusMapSetEmptyDeletes(t *testing.T) {
	m := make(StatusMap)

	m.Set("stf_a", 3, StatusOff)
	m.Set("stf_a", 3, "")

	if _, ok := m["stf_a"]; ok {
		t.Errorf("最后一个状态清除后员工键应当被整体移除，实际为 %v", m)
	}
}

func TestStatusMapDeletePrunesEmptySubMap(t *testing.T) {
	m := make(StatusMap)

	m.Set("stf_a", 3, StatusOff)
	m.Set("stf_a", 5, StatusOnLeave)

	m.Delete("stf_a", 3)
	if _, ok := m["stf_a"]; !ok {
		t.Fatalf("还有剩余状态时员工键不应被移除")
	}

	m.Delete("stf_a", 5)
	if _, ok := m["stf_a"]; ok {
		t.Errorf("最后一个状态删除后员工键应当被整体移除")
	}

	// 删除不存在的单元格不应 panic
	m.Delete("stf_nobody", 1)
}

func TestNoteMapHasDistinguishesEmptyText(t *testing.T) {
	m := make(NoteMap)

	if m.Has("stf_a", 3) {
		t.Errorf("未设置的单元格 Has 应当返回 false")
	}

	m.Set("stf_a", 3, "")
	if !m.Has("stf_a", 3) {
		t.Errorf("显式设置了空文本的单元格 Has 应当返回 true")
	}
}

func TestNoteMapDeletePrunesEmptySubMap(t *testing.T) {
	m := make(NoteMap)

	m.Set("stf_a", 3, "下午去医院")
	m.Delete("stf_a", 3)

	if _, ok := m["stf_a"]; ok {
		t.Errorf("最后一条备注删除后员工键应当被整体移除，实际为 %v", m)
	}
}
