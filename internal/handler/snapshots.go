package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/roster-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/roster-board/backend/internal/roster"
	"github.com/sysu-ecnc-dev/roster-board/backend/internal/utils"
)

// CreateSnapshot 把一个实时月份的完整排班数据复制为一个命名副本。
// 副本创建后与实时数据完全独立，只能通过显式保存修改
func (h *Handler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name" validate:"required"`
		Month int    `json:"month" validate:"required"`
		Year  int    `json:"year" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateMonthYear(req.Month, req.Year); err != nil {
		h.badRequest(w, r, err)
		return
	}

	session, err := h.getOrLoadSession(r, req.Month, req.Year, "")
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	snapshot := &domain.RosterSnapshot{
		ID:     utils.NewSnapshotID(),
		Name:   req.Name,
		Bundle: session.Bundle(),
	}

	if err := h.repository.CreateSnapshot(snapshot); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.snapshotCache.SetSnapshot(r.Context(), snapshot); err != nil {
		slog.Info("无法写入副本降级缓存", "snapshotID", snapshot.ID, "error", err)
	}

	h.successResponse(w, r, "创建副本成功", snapshot)
}

func (h *Handler) GetAllSnapshots(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.repository.GetAllSnapshots()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取副本列表成功", snapshots)
}

func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshotID := chi.URLParam(r, "id")

	session, err := h.getOrLoadSession(r, 0, 0, snapshotID)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.successResponseWithWarnings(w, r, "获取副本成功", session.Bundle(), session.Warnings)
}

// SaveSnapshot 将会话中对副本的全部修改 (班次分配、考勤状态、备注) 整体落库。
// 失败时会话中的编辑保留，用户可以重试，避免丢数据
func (h *Handler) SaveSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshotID := chi.URLParam(r, "id")

	var req struct {
		Name *string `json:"name"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	snapshot, err := h.repository.GetSnapshot(snapshotID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "副本不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	session, ok := h.sessions.Get(roster.SessionKey(0, 0, snapshotID))
	if !ok {
		h.errorResponse(w, r, "没有需要保存的修改")
		return
	}

	snapshot.Bundle = session.Bundle()
	if req.Name != nil {
		snapshot.Name = *req.Name
	}

	if err := h.repository.UpdateSnapshot(snapshot); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "保存副本失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.snapshotCache.SetSnapshot(r.Context(), snapshot); err != nil {
		slog.Info("无法写入副本降级缓存", "snapshotID", snapshot.ID, "error", err)
	}

	h.successResponse(w, r, "保存副本成功", snapshot)
}

// DeleteSnapshot 删除副本，级联删除引用它的页签，
// 并清理降级缓存和内存会话
func (h *Handler) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshotID := chi.URLParam(r, "id")

	if err := h.repository.DeleteSnapshot(snapshotID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.snapshotCache.DeleteSnapshot(r.Context(), snapshotID); err != nil {
		slog.Info("无法清理副本降级缓存", "snapshotID", snapshotID, "error", err)
	}

	h.sessions.Invalidate(roster.SessionKey(0, 0, snapshotID))

	h.successResponse(w, r, "删除副本成功", nil)
}
