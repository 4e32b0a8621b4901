package roster

import "slices"

// Criteria 是可选的多选过滤条件，空集合表示该维度不过滤
type Criteria struct {
	Shifts      []string `json:"shifts"`
	Departments []string `json:"departments"`
}

func (c Criteria) empty() bool {
	return len(c.Shifts) == 0 && len(c.Departments) == 0
}

func (c Criteria) match(row Row) bool {
	if len(c.Shifts) > 0 && !slices.Contains(c.Shifts, row.ShiftLabel) {
		return false
	}
	if len(c.Departments) > 0 && !slices.Contains(c.Departments, row.Department) {
		return false
	}
	return true
}

// Filter 返回满足条件的子序列，不修改输入。
// 两个条件都为空时直接返回原切片
func Filter(rows []Row, c Criteria) []Row {
	if c.empty() {
		return rows
	}

	filtered := make([]Row, 0, len(rows))
	for _, row := range rows {
		if c.match(row) {
			filtered = append(filtered, row)
		}
	}

	return filtered
}
