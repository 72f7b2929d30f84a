package panel

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kosa-recruit/panel-manager/backend/internal/domain"
)

// fakeStore 是 Store 的内存实现, 行为对齐 repository 层的约定:
// 单实体查询不命中时返回 sql.ErrNoRows, 条件更新不命中时返回 domain.ErrInvalidState
type fakeStore struct {
	mu sync.Mutex

	jobPosts    map[int64]*domain.JobPost
	schedules   map[int64]*domain.Schedule
	departments []*domain.Department
	users       map[int64]*domain.CompanyUser

	assignments  map[int64]*domain.Assignment
	requests     map[int64]*domain.Request
	members      []*domain.Member
	applications []*domain.Application
	slots        []*domain.InterviewSlot
	profiles     map[int64]*domain.InterviewerProfile

	nextID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		jobPosts:    map[int64]*domain.JobPost{},
		schedules:   map[int64]*domain.Schedule{},
		users:       map[int64]*domain.CompanyUser{},
		assignments: map[int64]*domain.Assignment{},
		requests:    map[int64]*domain.Request{},
		profiles:    map[int64]*domain.InterviewerProfile{},
	}
}

func (f *fakeStore) allocID() int64 {
	f.nextID++
	return f.nextID
}

// runTx 在测试里顶替数据库事务, 只做串行化不做回滚
func (f *fakeStore) runTx(fn func(txStore Store) error) error {
	return fn(f)
}

func (f *fakeStore) GetJobPostByID(id int64) (*domain.JobPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	jobPost, ok := f.jobPosts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return jobPost, nil
}

func (f *fakeStore) GetScheduleByID(id int64) (*domain.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	schedule, ok := f.schedules[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return schedule, nil
}

func (f *fakeStore) FindHRDepartmentByKeyword(companyID int64, keyword string) (*domain.Department, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, department := range f.departments {
		if department.CompanyID == companyID && strings.Contains(department.Name, keyword) {
			return department, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStore) GetCompanyUserByID(id int64) (*domain.CompanyUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (f *fakeStore) ListInterviewerCandidates(companyID int64, departmentID int64, ranks []string, excludeCreatorID int64, excludeIDs []int64) ([]*domain.CompanyUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rankSet := map[string]struct{}{}
	for _, rank := range ranks {
		rankSet[rank] = struct{}{}
	}
	excluded := map[int64]struct{}{}
	for _, id := range excludeIDs {
		excluded[id] = struct{}{}
	}

	candidates := []*domain.CompanyUser{}
	for _, user := range f.users {
		if user.CompanyID != companyID || user.DepartmentID != departmentID || !user.IsActive {
			continue
		}
		if _, ok := rankSet[string(user.Rank)]; !ok {
			continue
		}
		if excludeCreatorID != 0 && user.ID == excludeCreatorID {
			continue
		}
		if _, ok := excluded[user.ID]; ok {
			continue
		}
		candidates = append(candidates, user)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })
	return candidates, nil
}

func (f *fakeStore) ListScheduleOccupiedInterviewerIDs(scheduleID int64) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	occupied := map[int64]struct{}{}
	for _, assignment := range f.assignments {
		if assignment.ScheduleID != scheduleID || assignment.Status == domain.AssignmentCancelled {
			continue
		}
		for _, request := range f.requests {
			if request.AssignmentID != assignment.ID {
				continue
			}
			if request.Status == domain.RequestPending || request.Status == domain.RequestAccepted {
				occupied[request.InterviewerID] = struct{}{}
			}
		}
		for _, member := range f.members {
			if member.AssignmentID == assignment.ID {
				occupied[member.InterviewerID] = struct{}{}
			}
		}
	}

	ids := make([]int64, 0, len(occupied))
	for id := range occupied {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f *fakeStore) ListRequestedInterviewerIDs(assignmentID int64) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	seen := map[int64]struct{}{}
	ids := []int64{}
	for _, request := range f.requests {
		if request.AssignmentID != assignmentID {
			continue
		}
		if _, ok := seen[request.InterviewerID]; ok {
			continue
		}
		seen[request.InterviewerID] = struct{}{}
		ids = append(ids, request.InterviewerID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f *fakeStore) InsertAssignment(assignment *domain.Assignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	assignment.ID = f.allocID()
	assignment.CreatedAt = time.Now()
	f.assignments[assignment.ID] = assignment
	return nil
}

func (f *fakeStore) GetAssignmentByIDForUpdate(id int64) (*domain.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	assignment, ok := f.assignments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return assignment, nil
}

func (f *fakeStore) GetAssignmentByScheduleAndType(scheduleID int64, assignmentType domain.AssignmentType) (*domain.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var latest *domain.Assignment
	for _, assignment := range f.assignments {
		if assignment.ScheduleID != scheduleID || assignment.Type != assignmentType {
			continue
		}
		if assignment.Status == domain.AssignmentCancelled {
			continue
		}
		if latest == nil || assignment.ID > latest.ID {
			latest = assignment
		}
	}
	if latest == nil {
		return nil, sql.ErrNoRows
	}
	return latest, nil
}

func (f *fakeStore) UpdateAssignmentStatus(id int64, status domain.AssignmentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	assignment, ok := f.assignments[id]
	if !ok {
		return sql.ErrNoRows
	}
	assignment.Status = status
	return nil
}

func (f *fakeStore) CancelAssignment(id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	assignment, ok := f.assignments[id]
	if !ok || assignment.Status != domain.AssignmentPending {
		return domain.ErrInvalidState
	}

	for requestID, request := range f.requests {
		if request.AssignmentID == id {
			delete(f.requests, requestID)
		}
	}
	kept := f.members[:0]
	for _, member := range f.members {
		if member.AssignmentID != id {
			kept = append(kept, member)
		}
	}
	f.members = kept
	assignment.Status = domain.AssignmentCancelled
	return nil
}

func (f *fakeStore) InsertRequest(request *domain.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	request.ID = f.allocID()
	request.CreatedAt = time.Now()
	f.requests[request.ID] = request
	return nil
}

func (f *fakeStore) GetRequestByIDForUpdate(id int64) (*domain.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	request, ok := f.requests[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *request
	return &clone, nil
}

func (f *fakeStore) ResolveRequest(id int64, status domain.RequestStatus, responseAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	request, ok := f.requests[id]
	if !ok || request.Status != domain.RequestPending {
		return domain.ErrInvalidState
	}
	request.Status = status
	request.ResponseAt = &responseAt
	return nil
}

func (f *fakeStore) HasPendingRequest(assignmentID int64, interviewerID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, request := range f.requests {
		if request.AssignmentID == assignmentID && request.InterviewerID == interviewerID && request.Status == domain.RequestPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CountPendingRequests(assignmentID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, request := range f.requests {
		if request.AssignmentID == assignmentID && request.Status == domain.RequestPending {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) InsertMember(member *domain.Member) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	member.ID = f.allocID()
	f.members = append(f.members, member)
	return nil
}

func (f *fakeStore) CountMembers(assignmentID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, member := range f.members {
		if member.AssignmentID == assignmentID {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) ListMembers(assignmentID int64) ([]*domain.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	members := []*domain.Member{}
	for _, member := range f.members {
		if member.AssignmentID == assignmentID {
			members = append(members, member)
		}
	}
	return members, nil
}

func (f *fakeStore) ListPassedApplications(jobPostID int64) ([]*domain.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	passed := []*domain.Application{}
	for _, application := range f.applications {
		if application.JobPostID == jobPostID && application.Stage == domain.StageDocumentPassed {
			passed = append(passed, application)
		}
	}
	return passed, nil
}

func (f *fakeStore) UpdateApplicationStage(applicationID int64, stage domain.StageStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, application := range f.applications {
		if application.ID == applicationID {
			application.Stage = stage
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeStore) InsertInterviewSlots(slots []*domain.InterviewSlot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, slot := range slots {
		slot.ID = f.allocID()
		f.slots = append(f.slots, slot)
	}
	return nil
}

func (f *fakeStore) ListProfilesByEvaluators(evaluatorIDs []int64) ([]*domain.InterviewerProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	profiles := []*domain.InterviewerProfile{}
	for _, id := range evaluatorIDs {
		if profile, ok := f.profiles[id]; ok {
			profiles = append(profiles, profile)
		}
	}
	return profiles, nil
}

// fakeNotifier 记录所有发出的通知并返回递增的通知 ID
type fakeNotifier struct {
	mu     sync.Mutex
	nextID int64
	sent   []fakeNotification
}

type fakeNotification struct {
	UserID  int64
	Message string
	Type    string
}

func (n *fakeNotifier) Notify(ctx context.Context, userID int64, message string, notificationType string) (int64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nextID++
	n.sent = append(n.sent, fakeNotification{UserID: userID, Message: message, Type: notificationType})
	return n.nextID, nil
}

func (n *fakeNotifier) sentTo(notificationType string) []int64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	ids := []int64{}
	for _, notification := range n.sent {
		if notification.Type == notificationType {
			ids = append(ids, notification.UserID)
		}
	}
	return ids
}

// fakeQuestionGenerator 记录被请求生成问题的投递
type fakeQuestionGenerator struct {
	mu             sync.Mutex
	applicationIDs []int64
}

func (g *fakeQuestionGenerator) GenerateForApplication(ctx context.Context, applicationID int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.applicationIDs = append(g.applicationIDs, applicationID)
	return nil
}
