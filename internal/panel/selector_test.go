package panel

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kosa-recruit/panel-manager/backend/internal/domain"
)

func TestSelectCandidates(t *testing.T) {
	t.Parallel()

	fx := newPanelFixture(t, false, 4)
	validRanks := []string{"senior_associate", "team_lead", "manager", "senior_manager"}

	// 同部门编组: 从公告所属部门取人, 排除发布者和已占用的人
	candidates, departmentID, err := SelectCandidates(fx.store, validRanks, "人事", fx.jobPost, domain.AssignmentSameDepartment, []int64{102})
	require.NoError(t, err)
	require.Equal(t, int64(10), departmentID)
	ids := []int64{}
	for _, candidate := range candidates {
		ids = append(ids, candidate.ID)
	}
	require.Equal(t, []int64{101, 103, 104}, ids)

	// 人事编组: 按关键字定位人事部门
	candidates, departmentID, err = SelectCandidates(fx.store, validRanks, "人事", fx.jobPost, domain.AssignmentHRDepartment, nil)
	require.NoError(t, err)
	require.Equal(t, int64(20), departmentID)
	require.Len(t, candidates, 2)

	// 人事部门不存在
	fx.store.departments = fx.store.departments[:1]
	_, _, err = SelectCandidates(fx.store, validRanks, "人事", fx.jobPost, domain.AssignmentHRDepartment, nil)
	require.ErrorIs(t, err, domain.ErrNotFound)

	// 未知的编组类型
	_, _, err = SelectCandidates(fx.store, validRanks, "人事", fx.jobPost, domain.AssignmentType("NONSENSE"), nil)
	require.ErrorIs(t, err, domain.ErrInvalidState)
}
