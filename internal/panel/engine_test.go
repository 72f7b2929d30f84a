package panel

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kosa-recruit/panel-manager/backend/internal/config"
	"github.com/kosa-recruit/panel-manager/backend/internal/domain"
)

type panelFixture struct {
	store     *fakeStore
	notifier  *fakeNotifier
	questions *fakeQuestionGenerator
	engine    *Engine

	jobPost  *domain.JobPost
	schedule *domain.Schedule
}

// newPanelFixture 搭一个最小的公司: 技术研发部有 deptCandidates 位合格面试官加一位发布公告的经理,
// 人事部有两位合格面试官, 一个公告和一场七天后的面试日程
func newPanelFixture(t *testing.T, useBalance bool, deptCandidates int) *panelFixture {
	t.Helper()

	cfg := &config.Config{}
	cfg.Panel.ValidRanks = []string{"senior_associate", "team_lead", "manager", "senior_manager"}
	cfg.Panel.HRDepartmentKeyword = "人事"
	cfg.Panel.UseBalanceRecommend = useBalance
	cfg.Panel.ApplicantsPerSlot = 3
	cfg.Panel.SlotIntervalMinutes = 30

	store := newFakeStore()
	store.departments = []*domain.Department{
		{ID: 10, CompanyID: 1, Name: "技术研发部"},
		{ID: 20, CompanyID: 1, Name: "人事部"},
	}
	store.users[100] = &domain.CompanyUser{ID: 100, CompanyID: 1, DepartmentID: 10, Rank: domain.RankManager, IsActive: true}
	for i := 0; i < deptCandidates; i++ {
		id := int64(101 + i)
		store.users[id] = &domain.CompanyUser{ID: id, CompanyID: 1, DepartmentID: 10, Rank: domain.RankTeamLead, IsActive: true}
	}
	store.users[201] = &domain.CompanyUser{ID: 201, CompanyID: 1, DepartmentID: 20, Rank: domain.RankSeniorAssociate, IsActive: true}
	store.users[202] = &domain.CompanyUser{ID: 202, CompanyID: 1, DepartmentID: 20, Rank: domain.RankTeamLead, IsActive: true}

	jobPost := &domain.JobPost{ID: 1, CompanyID: 1, DepartmentID: 10, CreatorID: 100, Title: "后端开发工程师（社招）"}
	schedule := &domain.Schedule{ID: 1, JobPostID: 1, ScheduledAt: time.Date(2026, 9, 15, 9, 0, 0, 0, time.UTC)}
	store.jobPosts[jobPost.ID] = jobPost
	store.schedules[schedule.ID] = schedule

	notifier := &fakeNotifier{}
	questions := &fakeQuestionGenerator{}
	engine := NewEngine(cfg, store, store.runTx, notifier, questions)

	return &panelFixture{
		store:     store,
		notifier:  notifier,
		questions: questions,
		engine:    engine,
		jobPost:   jobPost,
		schedule:  schedule,
	}
}

func (fx *panelFixture) addPassedApplications(count int) []*domain.Application {
	applications := make([]*domain.Application, count)
	for i := range applications {
		applications[i] = &domain.Application{
			ID:        int64(1000 + i),
			JobPostID: fx.jobPost.ID,
			UserID:    int64(2000 + i),
			Stage:     domain.StageDocumentPassed,
		}
	}
	fx.store.applications = append(fx.store.applications, applications...)
	return applications
}

func (fx *panelFixture) requestsOf(assignmentID int64, requests []*domain.Request) []*domain.Request {
	matched := []*domain.Request{}
	for _, request := range requests {
		if request.AssignmentID == assignmentID {
			matched = append(matched, request)
		}
	}
	return matched
}

func defaultCriteria(fx *panelFixture) CreateCriteria {
	return CreateCriteria{
		JobPostID:           fx.jobPost.ID,
		ScheduleID:          fx.schedule.ID,
		SameDepartmentCount: 2,
		HRDepartmentCount:   1,
	}
}

func TestCreateAssignments(t *testing.T) {
	t.Parallel()

	fx := newPanelFixture(t, false, 4)
	result, err := fx.engine.CreateAssignments(context.Background(), defaultCriteria(fx))
	require.NoError(t, err)
	require.Len(t, result.Assignments, 2)
	require.Len(t, result.Requests, 3)

	sameDept := result.Assignments[0]
	require.Equal(t, domain.AssignmentSameDepartment, sameDept.Type)
	require.Equal(t, int32(2), sameDept.RequiredCount)
	require.Equal(t, domain.AssignmentPending, sameDept.Status)

	hr := result.Assignments[1]
	require.Equal(t, domain.AssignmentHRDepartment, hr.Type)
	require.Equal(t, int32(1), hr.RequiredCount)

	deptPool := map[int64]bool{101: true, 102: true, 103: true, 104: true}
	seen := map[int64]bool{}
	for _, request := range fx.requestsOf(sameDept.ID, result.Requests) {
		require.Equal(t, domain.RequestPending, request.Status)
		require.NotNil(t, request.NotificationID)
		require.True(t, deptPool[request.InterviewerID], "同部门邀请发给了 %d", request.InterviewerID)
		require.False(t, seen[request.InterviewerID], "同一面试官收到重复邀请")
		seen[request.InterviewerID] = true
	}
	require.Len(t, fx.requestsOf(sameDept.ID, result.Requests), 2)

	hrRequests := fx.requestsOf(hr.ID, result.Requests)
	require.Len(t, hrRequests, 1)
	require.Contains(t, []int64{201, 202}, hrRequests[0].InterviewerID)

	require.Len(t, fx.notifier.sentTo(domain.NotificationPanelRequest), 3)
}

func TestCreateAssignmentsBalanceRecommend(t *testing.T) {
	t.Parallel()

	// 候选人都还没有画像, 按默认画像参与推荐: 所有二人组合同分,
	// 严格更高才替换最优解, 因此按 ID 序取最前面的两位
	fx := newPanelFixture(t, true, 4)
	result, err := fx.engine.CreateAssignments(context.Background(), defaultCriteria(fx))
	require.NoError(t, err)

	sameDeptRequests := fx.requestsOf(result.Assignments[0].ID, result.Requests)
	interviewers := []int64{}
	for _, request := range sameDeptRequests {
		interviewers = append(interviewers, request.InterviewerID)
	}
	require.ElementsMatch(t, []int64{101, 102}, interviewers)

	hrRequests := fx.requestsOf(result.Assignments[1].ID, result.Requests)
	require.Len(t, hrRequests, 1)
	require.Equal(t, int64(201), hrRequests[0].InterviewerID)
}

func TestCreateAssignmentsIdempotent(t *testing.T) {
	t.Parallel()

	fx := newPanelFixture(t, false, 4)
	first, err := fx.engine.CreateAssignments(context.Background(), defaultCriteria(fx))
	require.NoError(t, err)

	// 邀请还在等待中, 重复创建只补缺口, 这里没有缺口
	second, err := fx.engine.CreateAssignments(context.Background(), defaultCriteria(fx))
	require.NoError(t, err)
	require.Empty(t, second.Requests)
	require.Equal(t, first.Assignments[0].ID, second.Assignments[0].ID)
	require.Equal(t, first.Assignments[1].ID, second.Assignments[1].ID)
}

func TestCreateAssignmentsMissingHRDepartment(t *testing.T) {
	t.Parallel()

	fx := newPanelFixture(t, false, 4)
	fx.store.departments = fx.store.departments[:1]

	_, err := fx.engine.CreateAssignments(context.Background(), defaultCriteria(fx))
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateAssignmentsValidation(t *testing.T) {
	t.Parallel()

	fx := newPanelFixture(t, false, 4)

	criteria := defaultCriteria(fx)
	criteria.JobPostID = 999
	_, err := fx.engine.CreateAssignments(context.Background(), criteria)
	require.ErrorIs(t, err, domain.ErrNotFound)

	criteria = defaultCriteria(fx)
	criteria.ScheduleID = 999
	_, err = fx.engine.CreateAssignments(context.Background(), criteria)
	require.ErrorIs(t, err, domain.ErrNotFound)

	// 日程属于另一个公告
	fx.store.schedules[2] = &domain.Schedule{ID: 2, JobPostID: 42, ScheduledAt: time.Now()}
	criteria = defaultCriteria(fx)
	criteria.ScheduleID = 2
	_, err = fx.engine.CreateAssignments(context.Background(), criteria)
	require.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCreateAssignmentsCompletedRejected(t *testing.T) {
	t.Parallel()

	fx := newPanelFixture(t, false, 4)
	result, err := fx.engine.CreateAssignments(context.Background(), defaultCriteria(fx))
	require.NoError(t, err)

	require.NoError(t, fx.store.UpdateAssignmentStatus(result.Assignments[0].ID, domain.AssignmentCompleted))

	_, err = fx.engine.CreateAssignments(context.Background(), defaultCriteria(fx))
	require.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestRespondAcceptCompletesPanel(t *testing.T) {
	t.Parallel()

	fx := newPanelFixture(t, false, 4)
	applications := fx.addPassedApplications(5)

	result, err := fx.engine.CreateAssignments(context.Background(), defaultCriteria(fx))
	require.NoError(t, err)
	sameDept := result.Assignments[0]
	sameDeptRequests := fx.requestsOf(sameDept.ID, result.Requests)
	require.Len(t, sameDeptRequests, 2)

	// 第一位接受: 落座成员, 编组未满
	first, err := fx.engine.Respond(context.Background(), sameDeptRequests[0].ID, true)
	require.NoError(t, err)
	require.Equal(t, domain.RequestAccepted, first.Request.Status)
	require.NotNil(t, first.Request.ResponseAt)
	require.False(t, first.PanelCompleted)
	require.Empty(t, fx.store.slots)

	// 第二位接受: 编组满员, 触发面试场次生成
	second, err := fx.engine.Respond(context.Background(), sameDeptRequests[1].ID, true)
	require.NoError(t, err)
	require.True(t, second.PanelCompleted)
	require.Len(t, second.ScheduledApplications, 5)
	require.Len(t, fx.store.slots, 5)

	assignment, err := fx.store.GetAssignmentByIDForUpdate(sameDept.ID)
	require.NoError(t, err)
	require.Equal(t, domain.AssignmentCompleted, assignment.Status)

	for _, application := range applications {
		require.Equal(t, domain.StageInterviewScheduled, application.Stage)
	}
	require.ElementsMatch(t, second.ScheduledApplications, fx.questions.applicationIDs)

	applicantIDs := []int64{}
	for _, application := range applications {
		applicantIDs = append(applicantIDs, application.UserID)
	}
	require.ElementsMatch(t, applicantIDs, fx.notifier.sentTo(domain.NotificationInterviewScheduled))

	// 人事编组随后满员时投递已经全部安排过, 不再生成场次
	hrRequests := fx.requestsOf(result.Assignments[1].ID, result.Requests)
	third, err := fx.engine.Respond(context.Background(), hrRequests[0].ID, true)
	require.NoError(t, err)
	require.True(t, third.PanelCompleted)
	require.Empty(t, third.ScheduledApplications)
	require.Len(t, fx.store.slots, 5)
}

func TestRespondConcurrentAcceptsCompleteOnce(t *testing.T) {
	t.Parallel()

	fx := newPanelFixture(t, false, 4)
	fx.addPassedApplications(5)

	// 用互斥锁模拟数据库的行锁, 让两个事务像 FOR UPDATE 那样串行执行
	var txMu sync.Mutex
	fx.engine.inTx = func(fn func(txStore Store) error) error {
		txMu.Lock()
		defer txMu.Unlock()
		return fn(fx.store)
	}

	result, err := fx.engine.CreateAssignments(context.Background(), defaultCriteria(fx))
	require.NoError(t, err)
	sameDept := result.Assignments[0]
	sameDeptRequests := fx.requestsOf(sameDept.ID, result.Requests)
	require.Len(t, sameDeptRequests, 2)

	// 两位面试官同时接受, 满员完成和场次生成只允许发生一次
	results := make([]*RespondResult, len(sameDeptRequests))
	errs := make([]error, len(sameDeptRequests))
	var wg sync.WaitGroup
	for i := range sameDeptRequests {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = fx.engine.Respond(context.Background(), sameDeptRequests[i].ID, true)
		}(i)
	}
	wg.Wait()

	completed := 0
	for i := range results {
		require.NoError(t, errs[i])
		require.Equal(t, domain.RequestAccepted, results[i].Request.Status)
		if results[i].PanelCompleted {
			completed++
			require.Len(t, results[i].ScheduledApplications, 5)
		}
	}
	require.Equal(t, 1, completed)
	require.Len(t, fx.store.slots, 5)

	memberCount, err := fx.store.CountMembers(sameDept.ID)
	require.NoError(t, err)
	require.Equal(t, 2, memberCount)

	assignment, err := fx.store.GetAssignmentByIDForUpdate(sameDept.ID)
	require.NoError(t, err)
	require.Equal(t, domain.AssignmentCompleted, assignment.Status)
}

func TestRespondTwice(t *testing.T) {
	t.Parallel()

	fx := newPanelFixture(t, false, 4)
	result, err := fx.engine.CreateAssignments(context.Background(), defaultCriteria(fx))
	require.NoError(t, err)

	requestID := result.Requests[0].ID
	_, err = fx.engine.Respond(context.Background(), requestID, true)
	require.NoError(t, err)

	_, err = fx.engine.Respond(context.Background(), requestID, false)
	require.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestRespondUnknownRequest(t *testing.T) {
	t.Parallel()

	fx := newPanelFixture(t, false, 4)
	_, err := fx.engine.Respond(context.Background(), 12345, true)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRespondRejectFindsReplacement(t *testing.T) {
	t.Parallel()

	fx := newPanelFixture(t, false, 4)
	result, err := fx.engine.CreateAssignments(context.Background(), defaultCriteria(fx))
	require.NoError(t, err)
	sameDept := result.Assignments[0]
	sameDeptRequests := fx.requestsOf(sameDept.ID, result.Requests)

	requested := map[int64]bool{}
	for _, request := range sameDeptRequests {
		requested[request.InterviewerID] = true
	}

	rejected, err := fx.engine.Respond(context.Background(), sameDeptRequests[0].ID, false)
	require.NoError(t, err)
	require.Equal(t, domain.RequestRejected, rejected.Request.Status)
	require.True(t, rejected.ReplacementFound)
	require.NotNil(t, rejected.Replacement)

	// 替补必须是该编组从未邀请过的人
	require.False(t, requested[rejected.Replacement.InterviewerID])
	require.Equal(t, domain.RequestPending, rejected.Replacement.Status)
	require.Equal(t, sameDept.ID, rejected.Replacement.AssignmentID)

	pending, err := fx.store.CountPendingRequests(sameDept.ID)
	require.NoError(t, err)
	require.Equal(t, 2, pending)
}

func TestRespondRejectExhaustedPool(t *testing.T) {
	t.Parallel()

	// 部门里只有两位合格候选人, 两人都已被邀请, 拒绝后无人可替补
	fx := newPanelFixture(t, false, 2)
	result, err := fx.engine.CreateAssignments(context.Background(), defaultCriteria(fx))
	require.NoError(t, err)
	sameDept := result.Assignments[0]
	sameDeptRequests := fx.requestsOf(sameDept.ID, result.Requests)
	require.Len(t, sameDeptRequests, 2)

	rejected, err := fx.engine.Respond(context.Background(), sameDeptRequests[0].ID, false)
	require.NoError(t, err)
	require.False(t, rejected.ReplacementFound)
	require.Nil(t, rejected.Replacement)

	// 编组保持缺员等待
	pending, err := fx.store.CountPendingRequests(sameDept.ID)
	require.NoError(t, err)
	require.Equal(t, 1, pending)

	assignment, err := fx.store.GetAssignmentByIDForUpdate(sameDept.ID)
	require.NoError(t, err)
	require.Equal(t, domain.AssignmentPending, assignment.Status)
}

func TestCancelAssignment(t *testing.T) {
	t.Parallel()

	fx := newPanelFixture(t, false, 4)
	result, err := fx.engine.CreateAssignments(context.Background(), defaultCriteria(fx))
	require.NoError(t, err)
	sameDept := result.Assignments[0]

	require.NoError(t, fx.engine.Cancel(sameDept.ID))

	assignment, err := fx.store.GetAssignmentByIDForUpdate(sameDept.ID)
	require.NoError(t, err)
	require.Equal(t, domain.AssignmentCancelled, assignment.Status)

	pending, err := fx.store.CountPendingRequests(sameDept.ID)
	require.NoError(t, err)
	require.Zero(t, pending)

	// 已取消的编组不能再次取消
	require.ErrorIs(t, fx.engine.Cancel(sameDept.ID), domain.ErrInvalidState)

	require.ErrorIs(t, fx.engine.Cancel(9999), domain.ErrNotFound)
}

func TestCreateAssignmentsTopUpAfterReject(t *testing.T) {
	t.Parallel()

	// 替补池也耗尽后编组缺员, 新的候选人入职后重复创建可以补上缺口
	fx := newPanelFixture(t, false, 2)
	result, err := fx.engine.CreateAssignments(context.Background(), defaultCriteria(fx))
	require.NoError(t, err)
	sameDept := result.Assignments[0]
	sameDeptRequests := fx.requestsOf(sameDept.ID, result.Requests)

	rejectedID := sameDeptRequests[0].ID
	_, err = fx.engine.Respond(context.Background(), rejectedID, false)
	require.NoError(t, err)

	fx.store.users[105] = &domain.CompanyUser{ID: 105, CompanyID: 1, DepartmentID: 10, Rank: domain.RankTeamLead, IsActive: true}

	again, err := fx.engine.CreateAssignments(context.Background(), defaultCriteria(fx))
	require.NoError(t, err)
	topUps := fx.requestsOf(sameDept.ID, again.Requests)
	require.Len(t, topUps, 1)

	// 补上的邀请不能发给仍在等待回应的那位
	var waiting int64
	for _, request := range sameDeptRequests {
		if request.ID != rejectedID {
			waiting = request.InterviewerID
		}
	}
	require.NotEqual(t, waiting, topUps[0].InterviewerID)

	pending, err := fx.store.CountPendingRequests(sameDept.ID)
	require.NoError(t, err)
	require.Equal(t, 2, pending)
}
