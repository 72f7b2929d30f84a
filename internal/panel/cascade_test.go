package panel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kosa-recruit/panel-manager/backend/internal/domain"
	"github.com/kosa-recruit/panel-manager/backend/internal/utils"
)

func makeApplications(jobPostID int64, count int) []*domain.Application {
	applications := make([]*domain.Application, count)
	for i := range applications {
		applications[i] = &domain.Application{
			ID:        int64(1000 + i),
			JobPostID: jobPostID,
			UserID:    int64(2000 + i),
			Stage:     domain.StageDocumentPassed,
		}
	}
	return applications
}

func TestPlanInterviewSlots(t *testing.T) {
	t.Parallel()

	scheduledAt := time.Date(2026, 9, 15, 9, 0, 0, 0, time.UTC)
	schedule := &domain.Schedule{ID: 1, JobPostID: 1, ScheduledAt: scheduledAt}
	members := []*domain.Member{
		{AssignmentID: 1, InterviewerID: 11},
		{AssignmentID: 1, InterviewerID: 12},
	}
	applications := makeApplications(1, 7)

	slots := PlanInterviewSlots(schedule, members, applications, 3, 30*time.Minute)
	require.Len(t, slots, 7)

	// 每 3 个投递一批, 第 n 批整体后移 n 个间隔, 批内按下标轮转分配成员
	wantInterviewers := []int64{11, 12, 11, 11, 12, 11, 11}
	wantOffsets := []int{0, 0, 0, 30, 30, 30, 60}
	for i, slot := range slots {
		require.Equal(t, schedule.ID, slot.ScheduleID)
		require.Equal(t, applications[i].ID, slot.ApplicationID)
		require.Equal(t, wantInterviewers[i], slot.InterviewerID, "第 %d 个场次的面试官", i)
		require.Equal(t, scheduledAt.Add(time.Duration(wantOffsets[i])*time.Minute), slot.StartAt, "第 %d 个场次的开始时间", i)
		require.Equal(t, domain.SlotScheduled, slot.Status)
	}

	require.NoError(t, utils.ValidateSlotPlan(slots, members, applications, 3))

	// 纯函数, 相同输入产生相同序列
	again := PlanInterviewSlots(schedule, members, applications, 3, 30*time.Minute)
	require.Equal(t, slots, again)
}

func TestPlanInterviewSlotsEdgeCases(t *testing.T) {
	t.Parallel()

	scheduledAt := time.Date(2026, 9, 15, 9, 0, 0, 0, time.UTC)
	schedule := &domain.Schedule{ID: 1, JobPostID: 1, ScheduledAt: scheduledAt}
	members := []*domain.Member{{AssignmentID: 1, InterviewerID: 11}}
	applications := makeApplications(1, 3)

	// 没有成员时不产生任何场次
	require.Empty(t, PlanInterviewSlots(schedule, nil, applications, 3, 30*time.Minute))

	// 没有投递时同样为空
	require.Empty(t, PlanInterviewSlots(schedule, members, nil, 3, 30*time.Minute))

	// 非法的每批人数按 1 处理, 每个投递独占一批
	slots := PlanInterviewSlots(schedule, members, applications, 0, 30*time.Minute)
	require.Len(t, slots, 3)
	for i, slot := range slots {
		require.Equal(t, scheduledAt.Add(time.Duration(i)*30*time.Minute), slot.StartAt)
		require.Equal(t, int64(11), slot.InterviewerID)
	}
}
