package domain

// 固定的考勤状态枚举，除此之外允许部门自定义的自由编码
const (
	StatusOff      = "off"      // 全天休
	StatusHalfOff  = "half"     // 半天休
	StatusOnLeave  = "leave"    // 请假
	StatusReturned = "returned" // 销假
	StatusUnpaid   = "unpaid"   // 无薪假
)

// StatusColors 是导出表格时各状态对应的底色，自由编码不着色
var StatusColors = map[string]string{
	StatusOff:      "FFC7CE",
	StatusHalfOff:  "FFEB9C",
	StatusOnLeave:  "BDD7EE",
	StatusReturned: "C6EFCE",
	StatusUnpaid:   "D9D9D9",
}

// StatusMap 是稀疏的考勤状态表: 员工 ID -> 日期 -> 状态编码
type StatusMap map[string]map[int]string

func (m StatusMap) Get(staffID string, day int) string {
	return m[staffID][day]
}

func (m StatusMap) Set(staffID string, day int, code string) {
	if code == "" {
		m.Delete(staffID, day)
		return
	}
	if m[staffID] == nil {
		m[staffID] = make(map[int]string)
	}
	m[staffID][day] = code
}

// Delete 删除某个单元格的状态，若该员工不再有任何状态则将其键整体移除
func (m StatusMap) Delete(staffID string, day int) {
	days, ok := m[staffID]
	if !ok {
		return
	}
	delete(days, day)
	if len(days) == 0 {
		delete(m, staffID)
	}
}

// NoteMap 是稀疏的备注表: 员工 ID -> 日期 -> 备注文本，与考勤状态相互独立
type NoteMap map[string]map[int]string

func (m NoteMap) Get(staffID string, day int) string {
	return m[staffID][day]
}

func (m NoteMap) Has(staffID string, day int) bool {
	_, ok := m[staffID][day]
	return ok
}

func (m NoteMap) Set(staffID string, day int, text string) {
	if m[staffID] == nil {
		m[staffID] = make(map[int]string)
	}
	m[staffID][day] = text
}

// Delete 删除备注，若该员工的最后一条备注被删除则将其键整体移除，
// 保证表中不存在空的子对象
func (m NoteMap) Delete(staffID string, day int) {
	days, ok := m[staffID]
	if !ok {
		return
	}
	delete(days, day)
	if len(days) == 0 {
		delete(m, staffID)
	}
}
