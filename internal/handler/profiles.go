package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kosa-recruit/panel-manager/backend/internal/domain"
)

func (h *Handler) evaluatorIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	evaluatorID, err := strconv.ParseInt(chi.URLParam(r, "evaluatorID"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "评价者ID无效")
		return 0, false
	}
	return evaluatorID, true
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	evaluatorID, ok := h.evaluatorIDParam(w, r)
	if !ok {
		return
	}

	profile, err := h.profiles.Get(evaluatorID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.errorResponse(w, r, "画像不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取画像成功", map[string]any{
		"profile":         profile,
		"characteristics": profile.CharacteristicSummary(),
	})
}

func (h *Handler) GetProfileHistory(w http.ResponseWriter, r *http.Request) {
	evaluatorID, ok := h.evaluatorIDParam(w, r)
	if !ok {
		return
	}

	profile, err := h.profiles.Get(evaluatorID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.errorResponse(w, r, "画像不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	history, err := h.repository.ListProfileHistory(profile.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取画像历史成功", history)
}

func (h *Handler) InitializeProfile(w http.ResponseWriter, r *http.Request) {
	evaluatorID, ok := h.evaluatorIDParam(w, r)
	if !ok {
		return
	}

	profile, err := h.profiles.Initialize(r.Context(), evaluatorID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "画像初始化成功", profile)
}

func (h *Handler) RecalculateProfile(w http.ResponseWriter, r *http.Request) {
	evaluatorID, ok := h.evaluatorIDParam(w, r)
	if !ok {
		return
	}

	profile, err := h.profiles.Recalculate(r.Context(), evaluatorID, nil)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "画像重算成功", profile)
}
