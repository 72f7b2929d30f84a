package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kosa-recruit/panel-manager/backend/internal/domain"
	"github.com/kosa-recruit/panel-manager/backend/internal/panel"
)

func (h *Handler) CreateAssignments(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JobPostID           int64 `json:"jobPostID" validate:"required"`
		ScheduleID          int64 `json:"scheduleID" validate:"required"`
		SameDepartmentCount *int  `json:"sameDepartmentCount" validate:"omitempty,gte=0"`
		HRDepartmentCount   *int  `json:"hrDepartmentCount" validate:"omitempty,gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	criteria := panel.CreateCriteria{
		JobPostID:           req.JobPostID,
		ScheduleID:          req.ScheduleID,
		SameDepartmentCount: h.config.Panel.SameDepartmentCount,
		HRDepartmentCount:   h.config.Panel.HRDepartmentCount,
	}
	if req.SameDepartmentCount != nil {
		criteria.SameDepartmentCount = *req.SameDepartmentCount
	}
	if req.HRDepartmentCount != nil {
		criteria.HRDepartmentCount = *req.HRDepartmentCount
	}

	result, err := h.panels.CreateAssignments(r.Context(), criteria)
	if err != nil {
		h.domainErrorResponse(w, r, err)
		return
	}

	h.successResponse(w, r, "面试官编组创建成功", result)
}

func (h *Handler) CancelAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "编组ID无效")
		return
	}

	if err := h.panels.Cancel(assignmentID); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.errorResponse(w, r, "编组不存在")
		case errors.Is(err, domain.ErrInvalidState):
			h.errorResponse(w, r, "只有未完成的编组才能取消")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "编组取消成功", nil)
}

func (h *Handler) GetAssignmentMembers(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "编组ID无效")
		return
	}

	if _, err := h.repository.GetAssignmentByID(assignmentID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "编组不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	members, err := h.repository.ListMembers(assignmentID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取编组成员成功", members)
}

func (h *Handler) GetMyPendingRequests(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.CompanyUser)

	requests, err := h.repository.ListPendingRequestsByInterviewer(myInfo.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取待处理邀请成功", requests)
}

func (h *Handler) GetMyRequestHistory(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.CompanyUser)

	requests, err := h.repository.ListResolvedRequestsByInterviewer(myInfo.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取邀请处理历史成功", requests)
}

func (h *Handler) RespondToRequest(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.CompanyUser)

	requestID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "邀请ID无效")
		return
	}

	var req struct {
		Response string `json:"response" validate:"required,oneof=ACCEPTED REJECTED"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 只允许面试官处理发给自己的邀请
	request, err := h.repository.GetRequestByID(requestID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "邀请不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	if request.InterviewerID != myInfo.ID {
		h.errorResponse(w, r, "权限不足")
		return
	}

	accept := req.Response == string(domain.RequestAccepted)
	result, err := h.panels.Respond(r.Context(), requestID, accept)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.errorResponse(w, r, "邀请不存在")
		case errors.Is(err, domain.ErrInvalidState):
			h.errorResponse(w, r, "该邀请已经被处理过")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "邀请处理成功", result)
}

func (h *Handler) GetJobPostMembers(w http.ResponseWriter, r *http.Request) {
	jobPostID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "公告ID无效")
		return
	}

	if _, err := h.repository.GetJobPostByID(jobPostID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "公告不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	members, err := h.repository.ListMembersByJobPost(jobPostID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取公告面试官成功", members)
}

func (h *Handler) GetScheduleSlots(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "日程ID无效")
		return
	}

	if _, err := h.repository.GetScheduleByID(scheduleID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "日程不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	slots, err := h.repository.ListInterviewSlotsBySchedule(scheduleID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取面试场次成功", slots)
}
