package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/sysu-ecnc-dev/roster-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/roster-board/backend/internal/roster"
	"github.com/sysu-ecnc-dev/roster-board/backend/internal/utils"
)

// getOrLoadSession 返回视图对应的会话，没有则加载。
// 每次加载领取一个递增代号，迟到的旧加载结果会在安装时被丢弃，
// 保证快速切换月份时总是最新的请求生效
func (h *Handler) getOrLoadSession(r *http.Request, month, year int, snapshotID string) (*roster.Session, error) {
	key := roster.SessionKey(month, year, snapshotID)
	if session, ok := h.sessions.Get(key); ok {
		return session, nil
	}

	generation := h.sessions.Begin()

	var session *roster.Session
	var err error
	if snapshotID != "" {
		session, err = h.loader.LoadSnapshot(r.Context(), snapshotID, nil)
	} else {
		session, err = h.loader.LoadLive(month, year)
	}
	if err != nil {
		return nil, err
	}

	if !h.sessions.Install(key, session, generation) {
		// 已经有更新的加载结果，使用它
		if existing, ok := h.sessions.Get(key); ok {
			return existing, nil
		}
	}

	return session, nil
}

func (h *Handler) parseViewParams(r *http.Request) (month, year int, snapshotID string, criteria roster.Criteria, err error) {
	query := r.URL.Query()

	snapshotID = query.Get("snapshotID")
	if snapshotID == "" {
		month, err = strconv.Atoi(query.Get("month"))
		if err != nil {
			return 0, 0, "", criteria, err
		}
		year, err = strconv.Atoi(query.Get("year"))
		if err != nil {
			return 0, 0, "", criteria, err
		}
		if err = utils.ValidateMonthYear(month, year); err != nil {
			return 0, 0, "", criteria, err
		}
	}

	if shifts := query.Get("shifts"); shifts != "" {
		criteria.Shifts = strings.Split(shifts, ",")
	}
	if departments := query.Get("departments"); departments != "" {
		criteria.Departments = strings.Split(departments, ",")
	}

	return month, year, snapshotID, criteria, nil
}

func (h *Handler) staffDirectory() (map[string]*domain.Staff, error) {
	staffs, err := h.repository.GetAllStaffs()
	if err != nil {
		return nil, err
	}

	directory := make(map[string]*domain.Staff, len(staffs))
	for _, staff := range staffs {
		directory[staff.ID] = staff
	}
	return directory, nil
}

func (h *Handler) GetRosterView(w http.ResponseWriter, r *http.Request) {
	month, year, snapshotID, criteria, err := h.parseViewParams(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	session, err := h.getOrLoadSession(r, month, year, snapshotID)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	directory, err := h.staffDirectory()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	rosters := session.RowsSnapshot()
	rows := roster.Filter(roster.BuildRows(rosters, directory), criteria)
	shiftSpans, deptSpans := roster.Spans(rows)

	bundle := session.Bundle()

	data := struct {
		Month      int                  `json:"month"`
		Year       int                  `json:"year"`
		Days       int                  `json:"days"`
		Rows       []roster.Row         `json:"rows"`
		ShiftSpans []int                `json:"shiftSpans"`
		DeptSpans  []int                `json:"deptSpans"`
		Rosters    []domain.GroupRoster `json:"rosters"`
		Statuses   domain.StatusMap     `json:"statuses"`
		Notes      domain.NoteMap       `json:"notes"`
	}{
		Month:      session.Month,
		Year:       session.Year,
		Days:       utils.DaysIn(session.Month, session.Year),
		Rows:       rows,
		ShiftSpans: shiftSpans,
		DeptSpans:  deptSpans,
		Rosters:    rosters,
		Statuses:   bundle.Statuses,
		Notes:      bundle.Notes,
	}

	h.successResponseWithWarnings(w, r, "获取排班视图成功", data, session.Warnings)
}

func (h *Handler) AssignStaff(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Department string `json:"department" validate:"required"`
		Month      int    `json:"month"`
		Year       int    `json:"year"`
		SnapshotID string `json:"snapshotID"`
		ShiftLabel string `json:"shiftLabel" validate:"required"`
		ShiftTime  string `json:"shiftTime" validate:"required"`
		StaffID    string `json:"staffID" validate:"required"`
		Note       string `json:"note"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shiftKey := (&domain.ShiftDefinition{Label: req.ShiftLabel, Time: req.ShiftTime}).Key()

	// 副本视图只改会话内的数据，由保存操作落库
	if req.SnapshotID != "" {
		session, err := h.getOrLoadSession(r, 0, 0, req.SnapshotID)
		if err != nil {
			h.errorResponse(w, r, err.Error())
			return
		}

		err = session.UpdateRoster(req.Department, func(gr *domain.GroupRoster) error {
			return gr.AssignStaff(req.StaffID, shiftKey, req.Note)
		})
		if err != nil {
			h.errorResponse(w, r, err.Error())
			return
		}

		h.successResponse(w, r, "分配班次成功", nil)
		return
	}

	if err := utils.ValidateMonthYear(req.Month, req.Year); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.mutateLiveRoster(r, req.Department, req.Month, req.Year, func(gr *domain.GroupRoster) error {
		return gr.AssignStaff(req.StaffID, shiftKey, req.Note)
	}); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.successResponse(w, r, "分配班次成功", nil)
}

func (h *Handler) MoveToWaiting(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Department string `json:"department" validate:"required"`
		Month      int    `json:"month"`
		Year       int    `json:"year"`
		SnapshotID string `json:"snapshotID"`
		StaffID    string `json:"staffID" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.SnapshotID != "" {
		session, err := h.getOrLoadSession(r, 0, 0, req.SnapshotID)
		if err != nil {
			h.errorResponse(w, r, err.Error())
			return
		}

		err = session.UpdateRoster(req.Department, func(gr *domain.GroupRoster) error {
			gr.MoveToWaiting(req.StaffID)
			return nil
		})
		if err != nil {
			h.errorResponse(w, r, err.Error())
			return
		}

		h.successResponse(w, r, "移入等待池成功", nil)
		return
	}

	if err := utils.ValidateMonthYear(req.Month, req.Year); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.mutateLiveRoster(r, req.Department, req.Month, req.Year, func(gr *domain.GroupRoster) error {
		gr.MoveToWaiting(req.StaffID)
		return nil
	}); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.successResponse(w, r, "移入等待池成功", nil)
}

// mutateLiveRoster 修改实时月份的部门排班记录并落库，
// 成功后刷新内存会话中的排班数据 (如果该月份的会话存在)
func (h *Handler) mutateLiveRoster(r *http.Request, department string, month, year int, fn func(*domain.GroupRoster) error) error {
	gr, err := h.repository.GetGroupRoster(department, month, year)
	if err != nil {
		return err
	}

	if err := fn(gr); err != nil {
		return err
	}

	if err := h.repository.UpdateGroupRoster(gr); err != nil {
		return err
	}

	if session, ok := h.sessions.Get(roster.SessionKey(month, year, "")); ok {
		_ = session.UpdateRoster(department, func(cached *domain.GroupRoster) error {
			*cached = *gr
			return nil
		})
	}

	return nil
}

func (h *Handler) UpdateDailyStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StaffID    string `json:"staffID" validate:"required"`
		Day        int    `json:"day" validate:"required"`
		Month      int    `json:"month"`
		Year       int    `json:"year"`
		SnapshotID string `json:"snapshotID"`
		Code       string `json:"code"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.SnapshotID == "" {
		if err := utils.ValidateMonthYear(req.Month, req.Year); err != nil {
			h.badRequest(w, r, err)
			return
		}
	}

	session, err := h.getOrLoadSession(r, req.Month, req.Year, req.SnapshotID)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if err := utils.ValidateDay(req.Day, session.Month, session.Year); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 实时视图写库，副本视图只改会话，由保存操作落库
	var remote func() error
	if req.SnapshotID == "" {
		month, year := session.Month, session.Year
		remote = func() error {
			return h.repository.UpsertDailyStatus(req.StaffID, req.Day, month, year, req.Code)
		}
	}

	if err := session.SetStatus(req.StaffID, req.Day, req.Code, remote); err != nil {
		h.logInternalServerError(r, err)
		h.errorResponse(w, r, "写入考勤状态失败，已恢复原值")
		return
	}

	h.successResponse(w, r, "写入考勤状态成功", nil)
}

func (h *Handler) PutDayNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StaffID    string `json:"staffID" validate:"required"`
		Day        int    `json:"day" validate:"required"`
		Month      int    `json:"month"`
		Year       int    `json:"year"`
		SnapshotID string `json:"snapshotID"`
		Content    string `json:"content" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.SnapshotID == "" {
		if err := utils.ValidateMonthYear(req.Month, req.Year); err != nil {
			h.badRequest(w, r, err)
			return
		}
	}

	session, err := h.getOrLoadSession(r, req.Month, req.Year, req.SnapshotID)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if err := utils.ValidateDay(req.Day, session.Month, session.Year); err != nil {
		h.badRequest(w, r, err)
		return
	}

	var remote func() error
	if req.SnapshotID == "" {
		month, year := session.Month, session.Year
		remote = func() error {
			return h.repository.UpsertDayNote(req.StaffID, req.Day, month, year, req.Content)
		}
	}

	// 备注写入失败时本地编辑保留，提示用户重试保存
	if err := session.SetNote(req.StaffID, req.Day, req.Content, remote); err != nil {
		h.logInternalServerError(r, err)
		h.errorResponse(w, r, "备注保存失败，请重试")
		return
	}

	h.successResponse(w, r, "备注保存成功", nil)
}

func (h *Handler) DeleteDayNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StaffID    string `json:"staffID" validate:"required"`
		Day        int    `json:"day" validate:"required"`
		Month      int    `json:"month"`
		Year       int    `json:"year"`
		SnapshotID string `json:"snapshotID"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.SnapshotID == "" {
		if err := utils.ValidateMonthYear(req.Month, req.Year); err != nil {
			h.badRequest(w, r, err)
			return
		}
	}

	session, err := h.getOrLoadSession(r, req.Month, req.Year, req.SnapshotID)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	var remote func() error
	if req.SnapshotID == "" {
		month, year := session.Month, session.Year
		remote = func() error {
			return h.repository.DeleteDayNote(req.StaffID, req.Day, month, year)
		}
	}

	if err := session.DeleteNote(req.StaffID, req.Day, remote); err != nil {
		h.logInternalServerError(r, err)
		h.errorResponse(w, r, "备注删除失败，请重试")
		return
	}

	h.successResponse(w, r, "备注删除成功", nil)
}
