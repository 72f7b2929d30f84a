package panel

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/kosa-recruit/panel-manager/backend/internal/domain"
)

// SelectCandidates 为一次编组挑选候选面试官。
// 同部门编组从公告所属部门取人并排除公告发布者，
// 人事编组按关键字定位人事部门后从该部门取人。
// 返回值中的 departmentID 是实际取人的部门，供兜底选人生成种子使用。
func SelectCandidates(s Store, validRanks []string, hrKeyword string, jobPost *domain.JobPost, assignmentType domain.AssignmentType, excludeIDs []int64) ([]*domain.CompanyUser, int64, error) {
	switch assignmentType {
	case domain.AssignmentSameDepartment:
		candidates, err := s.ListInterviewerCandidates(jobPost.CompanyID, jobPost.DepartmentID, validRanks, jobPost.CreatorID, excludeIDs)
		if err != nil {
			return nil, 0, err
		}
		return candidates, jobPost.DepartmentID, nil
	case domain.AssignmentHRDepartment:
		hrDepartment, err := s.FindHRDepartmentByKeyword(jobPost.CompanyID, hrKeyword)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, 0, fmt.Errorf("公司 %d 不存在人事部门: %w", jobPost.CompanyID, domain.ErrNotFound)
			}
			return nil, 0, err
		}
		candidates, err := s.ListInterviewerCandidates(jobPost.CompanyID, hrDepartment.ID, validRanks, 0, excludeIDs)
		if err != nil {
			return nil, 0, err
		}
		return candidates, hrDepartment.ID, nil
	default:
		return nil, 0, fmt.Errorf("未知的编组类型 %s: %w", assignmentType, domain.ErrInvalidState)
	}
}
