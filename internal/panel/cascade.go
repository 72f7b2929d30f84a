package panel

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kosa-recruit/panel-manager/backend/internal/domain"
	"github.com/kosa-recruit/panel-manager/backend/internal/utils"
)

// PlanInterviewSlots 为通过书面审核的投递规划面试场次。
// 投递按 applicantsPerSlot 个一批装箱，第 n 批的开始时间是日程时间加 n 个 interval，
// 批内的投递按下标轮转分配给编组成员。纯函数，相同输入产生相同的场次序列。
func PlanInterviewSlots(schedule *domain.Schedule, members []*domain.Member, applications []*domain.Application, applicantsPerSlot int, interval time.Duration) []*domain.InterviewSlot {
	if applicantsPerSlot <= 0 {
		applicantsPerSlot = 1
	}
	if len(members) == 0 {
		return []*domain.InterviewSlot{}
	}

	slots := make([]*domain.InterviewSlot, 0, len(applications))
	for i, application := range applications {
		batch := i / applicantsPerSlot
		indexInBatch := i % applicantsPerSlot
		member := members[indexInBatch%len(members)]

		slots = append(slots, &domain.InterviewSlot{
			ScheduleID:    schedule.ID,
			InterviewerID: member.InterviewerID,
			ApplicationID: application.ID,
			StartAt:       schedule.ScheduledAt.Add(time.Duration(batch) * interval),
			Status:        domain.SlotScheduled,
		})
	}

	return slots
}

// runCascade 在编组满员后生成面试场次并推进投递阶段，必须在触发完成的同一个事务中执行
func (e *Engine) runCascade(ctx context.Context, s Store, assignment *domain.Assignment) ([]int64, error) {
	applications, err := s.ListPassedApplications(assignment.JobPostID)
	if err != nil {
		return nil, err
	}
	if len(applications) == 0 {
		slog.Info("没有待安排面试的投递，跳过面试场次生成", "assignmentID", assignment.ID)
		return nil, nil
	}

	members, err := s.ListMembers(assignment.ID)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, nil
	}

	schedule, err := s.GetScheduleByID(assignment.ScheduleID)
	if err != nil {
		return nil, err
	}
	jobPost, err := s.GetJobPostByID(assignment.JobPostID)
	if err != nil {
		return nil, err
	}

	interval := time.Duration(e.cfg.Panel.SlotIntervalMinutes) * time.Minute
	slots := PlanInterviewSlots(schedule, members, applications, e.cfg.Panel.ApplicantsPerSlot, interval)
	if err := utils.ValidateSlotPlan(slots, members, applications, e.cfg.Panel.ApplicantsPerSlot); err != nil {
		return nil, err
	}
	if err := s.InsertInterviewSlots(slots); err != nil {
		return nil, err
	}

	scheduled := make([]int64, 0, len(applications))
	for _, application := range applications {
		if err := s.UpdateApplicationStage(application.ID, domain.StageInterviewScheduled); err != nil {
			return nil, err
		}
		scheduled = append(scheduled, application.ID)

		if e.notifier != nil {
			message := fmt.Sprintf("您应聘「%s」的面试已经安排，请留意面试时间", jobPost.Title)
			if _, err := e.notifier.Notify(ctx, application.UserID, message, domain.NotificationInterviewScheduled); err != nil {
				slog.Warn("面试安排通知发送失败", "applicationID", application.ID, "error", err)
			}
		}
	}

	slog.Info("面试官编组完成，已生成面试场次",
		"assignmentID", assignment.ID,
		"slotCount", len(slots),
		"applicationCount", len(applications),
	)
	return scheduled, nil
}
