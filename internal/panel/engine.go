package panel

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kosa-recruit/panel-manager/backend/internal/config"
	"github.com/kosa-recruit/panel-manager/backend/internal/domain"
)

// Engine 负责面试官编组的完整生命周期：
// 创建编组并发出邀请、处理面试官的接受或拒绝、拒绝后的替补搜索，
// 以及编组完成时的面试场次生成。
type Engine struct {
	cfg       *config.Config
	store     Store
	inTx      TxRunner
	notifier  Notifier
	questions QuestionGenerator
}

func NewEngine(cfg *config.Config, store Store, inTx TxRunner, notifier Notifier, questions QuestionGenerator) *Engine {
	return &Engine{
		cfg:       cfg,
		store:     store,
		inTx:      inTx,
		notifier:  notifier,
		questions: questions,
	}
}

type CreateCriteria struct {
	JobPostID           int64
	ScheduleID          int64
	SameDepartmentCount int
	HRDepartmentCount   int
}

type CreateResult struct {
	Assignments []*domain.Assignment `json:"assignments"`
	Requests    []*domain.Request    `json:"requests"`
}

type RespondResult struct {
	Request               *domain.Request `json:"request"`
	PanelCompleted        bool            `json:"panelCompleted"`
	ReplacementFound      bool            `json:"replacementFound"`
	Replacement           *domain.Request `json:"replacement,omitempty"`
	ScheduledApplications []int64         `json:"scheduledApplications,omitempty"`
}

type assignmentPlan struct {
	assignmentType domain.AssignmentType
	count          int
}

// CreateAssignments 为一场面试日程创建同部门和人事两类编组，并向选出的面试官发出邀请。
// 两类编组在同一个事务中创建，人事部门缺失等错误会让整个操作回滚。
// 对同一日程重复调用按补齐缺口处理：已有的 PENDING 编组只补发缺少的邀请，
// 已完成的编组则拒绝操作。
func (e *Engine) CreateAssignments(ctx context.Context, criteria CreateCriteria) (*CreateResult, error) {
	jobPost, err := e.store.GetJobPostByID(criteria.JobPostID)
	if err != nil {
		return nil, asNotFound(err, "招聘公告")
	}
	schedule, err := e.store.GetScheduleByID(criteria.ScheduleID)
	if err != nil {
		return nil, asNotFound(err, "面试日程")
	}
	if schedule.JobPostID != jobPost.ID {
		return nil, fmt.Errorf("日程 %d 不属于公告 %d: %w", schedule.ID, jobPost.ID, domain.ErrInvalidState)
	}

	plans := []assignmentPlan{
		{domain.AssignmentSameDepartment, criteria.SameDepartmentCount},
		{domain.AssignmentHRDepartment, criteria.HRDepartmentCount},
	}

	result := &CreateResult{
		Assignments: []*domain.Assignment{},
		Requests:    []*domain.Request{},
	}
	err = e.inTx(func(s Store) error {
		for _, plan := range plans {
			if plan.count <= 0 {
				continue
			}
			assignment, requests, err := e.ensureAssignment(ctx, s, jobPost, schedule, plan.assignmentType, plan.count)
			if err != nil {
				return err
			}
			result.Assignments = append(result.Assignments, assignment)
			result.Requests = append(result.Requests, requests...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (e *Engine) ensureAssignment(ctx context.Context, s Store, jobPost *domain.JobPost, schedule *domain.Schedule, assignmentType domain.AssignmentType, count int) (*domain.Assignment, []*domain.Request, error) {
	assignment, err := s.GetAssignmentByScheduleAndType(schedule.ID, assignmentType)
	switch {
	case err == nil:
		if assignment.Status == domain.AssignmentCompleted {
			return nil, nil, fmt.Errorf("日程 %d 的 %s 编组已经完成: %w", schedule.ID, assignmentType, domain.ErrInvalidState)
		}
	case errors.Is(err, sql.ErrNoRows):
		assignment = &domain.Assignment{
			JobPostID:     jobPost.ID,
			ScheduleID:    schedule.ID,
			Type:          assignmentType,
			RequiredCount: int32(count),
			Status:        domain.AssignmentPending,
		}
		if err := s.InsertAssignment(assignment); err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, err
	}

	memberCount, err := s.CountMembers(assignment.ID)
	if err != nil {
		return nil, nil, err
	}
	pendingCount, err := s.CountPendingRequests(assignment.ID)
	if err != nil {
		return nil, nil, err
	}
	missing := int(assignment.RequiredCount) - memberCount - pendingCount
	if missing <= 0 {
		return assignment, []*domain.Request{}, nil
	}

	occupied, err := s.ListScheduleOccupiedInterviewerIDs(schedule.ID)
	if err != nil {
		return nil, nil, err
	}
	candidates, departmentID, err := SelectCandidates(s, e.cfg.Panel.ValidRanks, e.cfg.Panel.HRDepartmentKeyword, jobPost, assignmentType, occupied)
	if err != nil {
		return nil, nil, err
	}

	chosen := e.chooseInterviewers(s, jobPost, departmentID, candidates, missing)
	if len(chosen) == 0 {
		slog.Warn("候选池为空，编组暂时保持缺员", "assignmentID", assignment.ID, "assignmentType", assignmentType)
		return assignment, []*domain.Request{}, nil
	}

	requests := []*domain.Request{}
	for _, interviewerID := range uniqueIDs(chosen) {
		exists, err := s.HasPendingRequest(assignment.ID, interviewerID)
		if err != nil {
			return nil, nil, err
		}
		if exists {
			continue
		}
		request, err := e.createRequest(ctx, s, assignment, jobPost, interviewerID)
		if err != nil {
			return nil, nil, err
		}
		requests = append(requests, request)
	}

	return assignment, requests, nil
}

// chooseInterviewers 优先按画像均衡分推荐，推荐不可用时退回到种子随机选人
func (e *Engine) chooseInterviewers(s Store, jobPost *domain.JobPost, departmentID int64, candidates []*domain.CompanyUser, count int) []int64 {
	candidateIDs := make([]int64, len(candidates))
	for i, candidate := range candidates {
		candidateIDs[i] = candidate.ID
	}

	if e.cfg.Panel.UseBalanceRecommend && len(candidates) >= count {
		selected, err := e.recommendByProfiles(s, candidateIDs, count)
		if err == nil {
			return selected
		}
		slog.Warn("画像推荐不可用，退回到种子随机选人", "error", err)
	}

	return SeededPick(jobPost.CompanyID, departmentID, jobPost.ID, candidateIDs, count)
}

func (e *Engine) recommendByProfiles(s Store, candidateIDs []int64, count int) ([]int64, error) {
	profiles, err := s.ListProfilesByEvaluators(candidateIDs)
	if err != nil {
		return nil, err
	}

	byEvaluator := map[int64]*domain.InterviewerProfile{}
	for _, profile := range profiles {
		byEvaluator[profile.EvaluatorID] = profile
	}
	// 还没有画像的候选人按默认画像参与推荐
	merged := make([]*domain.InterviewerProfile, len(candidateIDs))
	for i, id := range candidateIDs {
		if profile, ok := byEvaluator[id]; ok {
			merged[i] = profile
		} else {
			merged[i] = domain.NewDefaultProfile(id)
		}
	}

	selected, score, err := RecommendBalanced(merged, count)
	if err != nil {
		return nil, err
	}
	slog.Info("按画像均衡分选出面试官", "score", score, "interviewerIDs", selected)
	return selected, nil
}

func (e *Engine) createRequest(ctx context.Context, s Store, assignment *domain.Assignment, jobPost *domain.JobPost, interviewerID int64) (*domain.Request, error) {
	var notificationID *int64
	if e.notifier != nil {
		message := fmt.Sprintf("请您确认是否担任「%s」的面试官", jobPost.Title)
		id, err := e.notifier.Notify(ctx, interviewerID, message, domain.NotificationPanelRequest)
		if err != nil {
			slog.Warn("面试官邀请通知发送失败", "interviewerID", interviewerID, "error", err)
		} else {
			notificationID = &id
		}
	}

	request := &domain.Request{
		AssignmentID:   assignment.ID,
		InterviewerID:  interviewerID,
		NotificationID: notificationID,
		Status:         domain.RequestPending,
	}
	if err := s.InsertRequest(request); err != nil {
		return nil, err
	}

	return request, nil
}

// Respond 处理面试官对邀请的接受或拒绝。
// 接受时把面试官落座为成员，满员则把编组置为完成并生成面试场次；
// 拒绝时在从未邀请过的人里找一位替补，找不到则编组保持缺员。
// 整个状态迁移在单个事务中完成，行级锁保证并发响应时收尾级联只触发一次。
func (e *Engine) Respond(ctx context.Context, requestID int64, accept bool) (*RespondResult, error) {
	result := &RespondResult{}
	err := e.inTx(func(s Store) error {
		request, err := s.GetRequestByIDForUpdate(requestID)
		if err != nil {
			return asNotFound(err, "面试官邀请")
		}
		if request.Status != domain.RequestPending {
			return fmt.Errorf("邀请 %d 已经被处理过: %w", requestID, domain.ErrInvalidState)
		}

		now := time.Now()
		status := domain.RequestRejected
		if accept {
			status = domain.RequestAccepted
		}
		if err := s.ResolveRequest(requestID, status, now); err != nil {
			return err
		}
		request.Status = status
		request.ResponseAt = &now
		result.Request = request

		if accept {
			return e.acceptRequest(ctx, s, request, now, result)
		}
		return e.rejectRequest(ctx, s, request, result)
	})
	if err != nil {
		return nil, err
	}

	// 问题生成是尽力而为的外部协作方，放在事务提交之后执行
	if e.questions != nil {
		for _, applicationID := range result.ScheduledApplications {
			if err := e.questions.GenerateForApplication(ctx, applicationID); err != nil {
				slog.Warn("面试问题生成失败", "applicationID", applicationID, "error", err)
			}
		}
	}

	return result, nil
}

func (e *Engine) acceptRequest(ctx context.Context, s Store, request *domain.Request, now time.Time, result *RespondResult) error {
	assignment, err := s.GetAssignmentByIDForUpdate(request.AssignmentID)
	if err != nil {
		return err
	}

	member := &domain.Member{
		AssignmentID:  assignment.ID,
		InterviewerID: request.InterviewerID,
		Role:          domain.RoleInterviewer,
		AssignedAt:    now,
	}
	if err := s.InsertMember(member); err != nil {
		return err
	}

	memberCount, err := s.CountMembers(assignment.ID)
	if err != nil {
		return err
	}
	if assignment.Status != domain.AssignmentPending || memberCount < int(assignment.RequiredCount) {
		return nil
	}

	if err := s.UpdateAssignmentStatus(assignment.ID, domain.AssignmentCompleted); err != nil {
		return err
	}
	result.PanelCompleted = true
	slog.Info("面试官编组满员完成", "assignmentID", assignment.ID, "memberCount", memberCount)

	scheduled, err := e.runCascade(ctx, s, assignment)
	if err != nil {
		return err
	}
	result.ScheduledApplications = scheduled
	return nil
}

func (e *Engine) rejectRequest(ctx context.Context, s Store, request *domain.Request, result *RespondResult) error {
	assignment, err := s.GetAssignmentByIDForUpdate(request.AssignmentID)
	if err != nil {
		return err
	}
	// 已完成或已取消的编组不再找替补
	if assignment.Status != domain.AssignmentPending {
		return nil
	}

	jobPost, err := s.GetJobPostByID(assignment.JobPostID)
	if err != nil {
		return err
	}

	// 替补搜索排除该编组历史上邀请过的所有人，包括刚刚拒绝的这位
	requested, err := s.ListRequestedInterviewerIDs(assignment.ID)
	if err != nil {
		return err
	}
	candidates, _, err := SelectCandidates(s, e.cfg.Panel.ValidRanks, e.cfg.Panel.HRDepartmentKeyword, jobPost, assignment.Type, requested)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		slog.Warn("没有可替补的面试官，编组将保持缺员", "assignmentID", assignment.ID)
		return nil
	}

	replacement, err := e.createRequest(ctx, s, assignment, jobPost, candidates[0].ID)
	if err != nil {
		return err
	}
	result.ReplacementFound = true
	result.Replacement = replacement
	slog.Info("已向替补面试官发出邀请", "assignmentID", assignment.ID, "interviewerID", candidates[0].ID)
	return nil
}

// Cancel 取消一个未完成的编组并清理其全部邀请和成员
func (e *Engine) Cancel(assignmentID int64) error {
	return e.inTx(func(s Store) error {
		if _, err := s.GetAssignmentByIDForUpdate(assignmentID); err != nil {
			return asNotFound(err, "面试官编组")
		}
		return s.CancelAssignment(assignmentID)
	})
}

func uniqueIDs(ids []int64) []int64 {
	seen := map[int64]struct{}{}
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}

func asNotFound(err error, entity string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s不存在: %w", entity, domain.ErrNotFound)
	}
	return err
}
