package panel

import (
	"context"
	"log/slog"
	"time"

	"github.com/kosa-recruit/panel-manager/backend/internal/domain"
)

// Store 是编组引擎所需的持久化能力，由 repository.Repository 实现。
// 查询单个实体的方法在实体不存在时返回 sql.ErrNoRows。
type Store interface {
	GetJobPostByID(id int64) (*domain.JobPost, error)
	GetScheduleByID(id int64) (*domain.Schedule, error)
	FindHRDepartmentByKeyword(companyID int64, keyword string) (*domain.Department, error)
	GetCompanyUserByID(id int64) (*domain.CompanyUser, error)
	ListInterviewerCandidates(companyID int64, departmentID int64, ranks []string, excludeCreatorID int64, excludeIDs []int64) ([]*domain.CompanyUser, error)
	ListScheduleOccupiedInterviewerIDs(scheduleID int64) ([]int64, error)
	ListRequestedInterviewerIDs(assignmentID int64) ([]int64, error)

	InsertAssignment(assignment *domain.Assignment) error
	GetAssignmentByIDForUpdate(id int64) (*domain.Assignment, error)
	GetAssignmentByScheduleAndType(scheduleID int64, assignmentType domain.AssignmentType) (*domain.Assignment, error)
	UpdateAssignmentStatus(id int64, status domain.AssignmentStatus) error
	CancelAssignment(id int64) error

	InsertRequest(request *domain.Request) error
	GetRequestByIDForUpdate(id int64) (*domain.Request, error)
	ResolveRequest(id int64, status domain.RequestStatus, responseAt time.Time) error
	HasPendingRequest(assignmentID int64, interviewerID int64) (bool, error)
	CountPendingRequests(assignmentID int64) (int, error)

	InsertMember(member *domain.Member) error
	CountMembers(assignmentID int64) (int, error)
	ListMembers(assignmentID int64) ([]*domain.Member, error)

	ListPassedApplications(jobPostID int64) ([]*domain.Application, error)
	UpdateApplicationStage(applicationID int64, stage domain.StageStatus) error
	InsertInterviewSlots(slots []*domain.InterviewSlot) error

	ListProfilesByEvaluators(evaluatorIDs []int64) ([]*domain.InterviewerProfile, error)
}

// TxRunner 在单个数据库事务中执行 fn，fn 收到的 Store 绑定到该事务
type TxRunner func(fn func(txStore Store) error) error

// Notifier 负责把邀请和面试安排通知到人，返回站内通知的 ID。
// 通知是尽力而为的外部协作方，失败不应该让核心操作回滚。
type Notifier interface {
	Notify(ctx context.Context, userID int64, message string, notificationType string) (int64, error)
}

// QuestionGenerator 在面试场次生成后为投递准备面试问题，同样是尽力而为
type QuestionGenerator interface {
	GenerateForApplication(ctx context.Context, applicationID int64) error
}

// LoggingQuestionGenerator 在真正的问题生成服务接入前占位，只记录一条交接日志
type LoggingQuestionGenerator struct{}

func (LoggingQuestionGenerator) GenerateForApplication(ctx context.Context, applicationID int64) error {
	slog.Info("面试问题生成已交接", "applicationID", applicationID)
	return nil
}
