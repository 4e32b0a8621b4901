package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sysu-ecnc-dev/roster-board/backend/internal/export"
	"github.com/sysu-ecnc-dev/roster-board/backend/internal/roster"
	"github.com/sysu-ecnc-dev/roster-board/backend/internal/utils"
)

// ExportRoster 将当前过滤后的排班视图导出为表格文件下载。
// 过滤结果为空时返回警告而不是生成空文件
func (h *Handler) ExportRoster(w http.ResponseWriter, r *http.Request) {
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

	rows := roster.Filter(roster.BuildRows(session.RowsSnapshot(), directory), criteria)
	bundle := session.Bundle()
	days := utils.DaysIn(session.Month, session.Year)

	f, err := export.MonthlyRoster(rows, days, bundle.Statuses, bundle.Notes)
	if err != nil {
		switch {
		case errors.Is(err, export.ErrNoRows):
			h.errorResponse(w, r, "没有可导出的排班数据")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	filename := export.Filename(session.Month, session.Year)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if _, err := f.WriteTo(w); err != nil {
		// 响应头已经写出，只能记录日志
		h.logInternalServerError(r, err)
	}
}
