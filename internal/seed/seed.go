package seed

import (
	"log/slog"
	"math/rand"
	"slices"

	"github.com/sysu-ecnc-dev/roster-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/roster-board/backend/internal/repository"
	"github.com/sysu-ecnc-dev/roster-board/backend/internal/utils"
)

// DemoDepartments 返回演示数据覆盖的全部部门，组长组也有自己的排班记录
func DemoDepartments() []string {
	return append(slices.Clone(domain.DepartmentOrder), domain.DeptTeamLead)
}

var demoNotes = []string{
	"下午要去供应商现场",
	"补上周六的班",
	"和小组换班",
	"半天培训",
	"出差返回",
}

// SeedDemoMonth 为指定月份生成一套完整的演示数据：
// 每个部门一条排班记录，再撒上随机的考勤状态和备注
func SeedDemoMonth(r *repository.Repository, month, year int) {
	staffs, err := r.GetAllStaffs()
	if err != nil {
		slog.Error("无法获取员工列表", "error", err)
		return
	}
	if len(staffs) == 0 {
		slog.Error("数据库中没有员工，请先插入随机员工")
		return
	}

	// 每个部门插入一条该月的排班记录
	rosterCnt := 0
	for _, department := range DemoDepartments() {
		gr := utils.GenerateRandomGroupRoster(department, month, year, staffs)
		if err := r.CreateGroupRoster(gr); err != nil {
			slog.Error("无法插入排班记录", "department", department, "error", err)
			continue
		}
		rosterCnt++
	}
	slog.Info("插入排班记录成功", slog.Int("count", rosterCnt))

	days := utils.DaysIn(month, year)

	// 每个员工随机标记若干天的考勤状态
	statusCnt := 0
	for _, staff := range staffs {
		n := rand.Intn(5)
		for i := 0; i < n; i++ {
			day := rand.Intn(days) + 1
			code := utils.GenerateRandomStatusCode()
			if err := r.UpsertDailyStatus(staff.ID, day, month, year, code); err != nil {
				slog.Error("无法插入考勤状态", "staffID", staff.ID, "day", day, "error", err)
				continue
			}
			statusCnt++
		}
	}
	slog.Info("插入考勤状态成功", slog.Int("count", statusCnt))

	// 再为一部分员工撒上备注
	noteCnt := 0
	for _, staff := range staffs {
		if rand.Intn(3) != 0 {
			continue
		}
		day := rand.Intn(days) + 1
		content := demoNotes[rand.Intn(len(demoNotes))]
		if err := r.UpsertDayNote(staff.ID, day, month, year, content); err != nil {
			slog.Error("无法插入备注", "staffID", staff.ID, "day", day, "error", err)
			continue
		}
		noteCnt++
	}
	slog.Info("插入备注成功", slog.Int("count", noteCnt))
}
