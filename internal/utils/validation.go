package utils

import (
	"fmt"

	"github.com/kosa-recruit/panel-manager/backend/internal/domain"
)

// ValidateSlotPlan 校验一份面试场次规划是否成立：
// 每个投递恰好出现一次，面试官必须是编组成员，同一开始时间的场次数不超过上限。
func ValidateSlotPlan(slots []*domain.InterviewSlot, members []*domain.Member, applications []*domain.Application, applicantsPerSlot int) error {
	memberSet := map[int64]struct{}{}
	for _, member := range members {
		memberSet[member.InterviewerID] = struct{}{}
	}

	seenApplications := map[int64]int{}
	perStart := map[int64]int{}
	for _, slot := range slots {
		seenApplications[slot.ApplicationID]++
		perStart[slot.StartAt.Unix()]++

		if _, ok := memberSet[slot.InterviewerID]; !ok {
			return fmt.Errorf("面试官 %d 不是该编组的成员", slot.InterviewerID)
		}
	}

	for _, application := range applications {
		switch seenApplications[application.ID] {
		case 0:
			return fmt.Errorf("投递 %d 没有被安排面试", application.ID)
		case 1:
		default:
			return fmt.Errorf("投递 %d 被重复安排了 %d 次面试", application.ID, seenApplications[application.ID])
		}
	}

	if applicantsPerSlot > 0 {
		for startAt, count := range perStart {
			if count > applicantsPerSlot {
				return fmt.Errorf("开始时间 %d 的场次数 %d 超过了上限 %d", startAt, count, applicantsPerSlot)
			}
		}
	}

	return nil
}
