package roster

// 行合并的键: 班次列按 (标签, 时间段) 合并，
// 部门列按 (部门, 标签, 时间段) 合并，即部门单元格只在班次已经合并的连续段内合并
func shiftKey(row Row) string {
	return row.ShiftLabel + "\x00" + row.ShiftTime
}

func deptKey(row Row) string {
	return row.Department + "\x00" + row.ShiftLabel + "\x00" + row.ShiftTime
}

func spansBy(rows []Row, key func(Row) string) []int {
	spans := make([]int, len(rows))

	for i := 0; i < len(rows); {
		j := i + 1
		for j < len(rows) && key(rows[j]) == key(rows[i]) {
			j++
		}
		spans[i] = j - i
		i = j
	}

	return spans
}

// Spans 计算已过滤行列表的两列合并跨度。
// 下标 i 处的值是从 i 开始共享同一合并键的连续行数，
// 被吸收进前面合并段的行对应的值为 0
func Spans(rows []Row) (shiftSpans []int, deptSpans []int) {
	return spansBy(rows, shiftKey), spansBy(rows, deptKey)
}

// RendersShiftCell 判断第 i 行是否需要渲染班次单元格
func RendersShiftCell(rows []Row, i int) bool {
	return i == 0 || shiftKey(rows[i]) != shiftKey(rows[i-1])
}

// RendersDeptCell 判断第 i 行是否需要渲染部门单元格
func RendersDeptCell(rows []Row, i int) bool {
	return i == 0 || deptKey(rows[i]) != deptKey(rows[i-1])
}
