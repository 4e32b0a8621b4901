package roster

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/sysu-ecnc-dev/roster-board/backend/internal/domain"
)

// Row 是月度排班表中的一行，按 (班次, 部门, 姓名) 排好序后交给
// 行合并计算、过滤和导出使用
type Row struct {
	StaffID    string `json:"staffID"`
	FullName   string `json:"fullName"`
	Department string `json:"department"`
	ShiftLabel string `json:"shiftLabel"`
	ShiftTime  string `json:"shiftTime"`
	Note       string `json:"note,omitempty"`
}

// 固定的班次排序优先级: morning < afternoon < night < 其他
var shiftRank = map[string]int{
	domain.ShiftMorning:   0,
	domain.ShiftAfternoon: 1,
	domain.ShiftNight:     2,
}

func rankShift(label string) int {
	if rank, ok := shiftRank[label]; ok {
		return rank
	}
	return len(shiftRank)
}

// rankDepartment 返回部门的排序层级，
// 已知部门按固定优先级，未知部门在已知部门之后按字典序，组长组永远最后
func rankDepartment(dept string) int {
	if dept == domain.DeptTeamLead {
		return len(domain.DepartmentOrder) + 1
	}
	if idx := slices.Index(domain.DepartmentOrder, dept); idx >= 0 {
		return idx
	}
	return len(domain.DepartmentOrder)
}

func compareRows(a, b Row) int {
	if c := rankShift(a.ShiftLabel) - rankShift(b.ShiftLabel); c != 0 {
		return c
	}
	if c := strings.Compare(a.ShiftLabel, b.ShiftLabel); c != 0 {
		return c
	}
	// 标签相同但时间段不同的班次是不同班次，按时间段字典序分开
	if c := strings.Compare(a.ShiftTime, b.ShiftTime); c != 0 {
		return c
	}
	if c := rankDepartment(a.Department) - rankDepartment(b.Department); c != 0 {
		return c
	}
	if c := strings.Compare(a.Department, b.Department); c != 0 {
		return c
	}
	return strings.Compare(a.FullName, b.FullName)
}

// BuildRows 将各部门的排班记录和员工目录拍平成有序的行列表。
// 无法在目录中解析的员工引用是员工被删除后的残留数据，
// 直接丢弃并记录日志，不作为错误处理
func BuildRows(rosters []domain.GroupRoster, directory map[string]*domain.Staff) []Row {
	rows := make([]Row, 0)

	for _, gr := range rosters {
		for _, shift := range gr.Shifts {
			for _, a := range shift.Assignments {
				staff, ok := directory[a.StaffID.String()]
				if !ok {
					slog.Info("丢弃无法解析的员工引用", "staffID", a.StaffID.String(), "department", gr.Department)
					continue
				}

				rows = append(rows, Row{
					StaffID:    staff.ID,
					FullName:   staff.FullName,
					Department: gr.Department,
					ShiftLabel: shift.Label,
					ShiftTime:  shift.Time,
					Note:       a.Note,
				})
			}
		}
	}

	slices.SortStableFunc(rows, compareRows)

	return rows
}
