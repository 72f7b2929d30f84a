package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kosa-recruit/panel-manager/backend/internal/domain"
)

func slotPlanFixture() ([]*domain.InterviewSlot, []*domain.Member, []*domain.Application) {
	startAt := time.Date(2026, 9, 15, 9, 0, 0, 0, time.UTC)
	members := []*domain.Member{
		{AssignmentID: 1, InterviewerID: 11},
		{AssignmentID: 1, InterviewerID: 12},
	}
	applications := []*domain.Application{
		{ID: 1001}, {ID: 1002}, {ID: 1003},
	}
	slots := []*domain.InterviewSlot{
		{ScheduleID: 1, InterviewerID: 11, ApplicationID: 1001, StartAt: startAt},
		{ScheduleID: 1, InterviewerID: 12, ApplicationID: 1002, StartAt: startAt},
		{ScheduleID: 1, InterviewerID: 11, ApplicationID: 1003, StartAt: startAt.Add(30 * time.Minute)},
	}
	return slots, members, applications
}

func TestValidateSlotPlan(t *testing.T) {
	t.Parallel()

	slots, members, applications := slotPlanFixture()
	require.NoError(t, ValidateSlotPlan(slots, members, applications, 2))
}

func TestValidateSlotPlanRejectsNonMember(t *testing.T) {
	t.Parallel()

	slots, members, applications := slotPlanFixture()
	slots[1].InterviewerID = 99
	require.Error(t, ValidateSlotPlan(slots, members, applications, 2))
}

func TestValidateSlotPlanRejectsMissingApplication(t *testing.T) {
	t.Parallel()

	slots, members, applications := slotPlanFixture()
	require.Error(t, ValidateSlotPlan(slots[:2], members, applications, 2))
}

func TestValidateSlotPlanRejectsDuplicateApplication(t *testing.T) {
	t.Parallel()

	slots, members, applications := slotPlanFixture()
	slots[2].ApplicationID = 1001
	require.Error(t, ValidateSlotPlan(slots, members, applications, 2))
}

func TestValidateSlotPlanRejectsOvercrowdedSlot(t *testing.T) {
	t.Parallel()

	slots, members, applications := slotPlanFixture()
	// 三个场次挤进同一个开始时间, 超过每批两人的上限
	slots[2].StartAt = slots[0].StartAt
	require.Error(t, ValidateSlotPlan(slots, members, applications, 2))
}
