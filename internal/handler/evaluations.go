package handler

import (
	"net/http"

	"github.com/kosa-recruit/panel-manager/backend/internal/domain"
)

func (h *Handler) CreateEvaluation(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.CompanyUser)

	var req struct {
		InterviewID int64   `json:"interviewID" validate:"required"`
		TotalScore  float64 `json:"totalScore" validate:"required,gte=0,lte=100"`
		Summary     string  `json:"summary"`
		Items       []struct {
			ItemType string  `json:"itemType" validate:"required"`
			Score    float64 `json:"score" validate:"gte=0,lte=100"`
			Grade    string  `json:"grade"`
			Comment  string  `json:"comment"`
		} `json:"items" validate:"dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	evaluation := &domain.Evaluation{
		InterviewID: req.InterviewID,
		EvaluatorID: myInfo.ID,
		TotalScore:  req.TotalScore,
		Summary:     req.Summary,
		Items:       make([]domain.EvaluationItem, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		evaluation.Items = append(evaluation.Items, domain.EvaluationItem{
			ItemType: item.ItemType,
			Score:    item.Score,
			Grade:    item.Grade,
			Comment:  item.Comment,
		})
	}

	if err := h.repository.InsertEvaluation(evaluation); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 评价落库后立即重算评价者画像
	profile, err := h.profiles.Recalculate(r.Context(), myInfo.ID, &evaluation.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "评价提交成功", map[string]any{
		"evaluation": evaluation,
		"profile":    profile,
	})
}
