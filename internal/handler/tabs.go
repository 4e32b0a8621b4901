package handler

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/roster-board/backend/internal/domain"
)

func (h *Handler) CreateTab(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name" validate:"required"`
		SnapshotID string `json:"snapshotID" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	tab := &domain.Tab{
		Name:       req.Name,
		SnapshotID: req.SnapshotID,
	}

	if err := h.repository.CreateTab(tab); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "tabs_snapshot_id_fkey":
				h.errorResponse(w, r, "引用的副本不存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建页签成功", tab)
}

func (h *Handler) GetAllTabs(w http.ResponseWriter, r *http.Request) {
	tabs, err := h.repository.GetAllTabs()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取页签列表成功", tabs)
}

func (h *Handler) UpdateTab(w http.ResponseWriter, r *http.Request) {
	tab := r.Context().Value(TabCtx).(*domain.Tab)

	var req struct {
		Name *string `json:"name"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Name != nil {
		tab.Name = *req.Name
	}

	if err := h.repository.UpdateTab(tab); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新页签成功", tab)
}

func (h *Handler) DeleteTab(w http.ResponseWriter, r *http.Request) {
	tab := r.Context().Value(TabCtx).(*domain.Tab)

	if err := h.repository.DeleteTab(tab.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除页签成功", nil)
}
