package repository

import (
	"context"
	"time"

	"github.com/kosa-recruit/panel-manager/backend/internal/domain"
)

func (r *Repository) InsertAssignment(assignment *domain.Assignment) error {
	query := `
		INSERT INTO panel_assignments (job_post_id, schedule_id, assignment_type, required_count, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryCtx()
	defer cancel()

	args := []any{assignment.JobPostID, assignment.ScheduleID, assignment.Type, assignment.RequiredCount, assignment.Status}
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&assignment.ID, &assignment.CreatedAt, &assignment.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAssignmentByID(id int64) (*domain.Assignment, error) {
	return r.getAssignment(`
		SELECT id, job_post_id, schedule_id, assignment_type, required_count, status, created_at, version
		FROM panel_assignments WHERE id = $1
	`, id)
}

// GetAssignmentByIDForUpdate 锁住编组行，避免两个并发的接受操作同时触发收尾级联
func (r *Repository) GetAssignmentByIDForUpdate(id int64) (*domain.Assignment, error) {
	return r.getAssignment(`
		SELECT id, job_post_id, schedule_id, assignment_type, required_count, status, created_at, version
		FROM panel_assignments WHERE id = $1
		FOR UPDATE
	`, id)
}

// GetAssignmentByScheduleAndType 返回某场日程下指定类型的最近一个未取消编组，
// 不存在时返回 sql.ErrNoRows
func (r *Repository) GetAssignmentByScheduleAndType(scheduleID int64, assignmentType domain.AssignmentType) (*domain.Assignment, error) {
	return r.getAssignment(`
		SELECT id, job_post_id, schedule_id, assignment_type, required_count, status, created_at, version
		FROM panel_assignments
		WHERE schedule_id = $1 AND assignment_type = $2 AND status <> 'CANCELLED'
		ORDER BY id DESC
		LIMIT 1
	`, scheduleID, assignmentType)
}

func (r *Repository) getAssignment(query string, args ...any) (*domain.Assignment, error) {
	ctx, cancel := r.queryCtx()
	defer cancel()

	assignment := &domain.Assignment{}
	dst := []any{&assignment.ID, &assignment.JobPostID, &assignment.ScheduleID, &assignment.Type, &assignment.RequiredCount, &assignment.Status, &assignment.CreatedAt, &assignment.Version}
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return nil, err
	}

	return assignment, nil
}

func (r *Repository) UpdateAssignmentStatus(id int64, status domain.AssignmentStatus) error {
	query := `
		UPDATE panel_assignments
		SET status = $1, version = version + 1
		WHERE id = $2
	`

	ctx, cancel := r.queryCtx()
	defer cancel()

	if _, err := r.db.ExecContext(ctx, query, status, id); err != nil {
		return err
	}

	return nil
}

func (r *Repository) InsertRequest(request *domain.Request) error {
	query := `
		INSERT INTO panel_requests (assignment_id, interviewer_id, notification_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	ctx, cancel := r.queryCtx()
	defer cancel()

	args := []any{request.AssignmentID, request.InterviewerID, request.NotificationID, request.Status}
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&request.ID, &request.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetRequestByID(id int64) (*domain.Request, error) {
	query := `
		SELECT assignment_id, interviewer_id, notification_id, status, response_at, created_at
		FROM panel_requests WHERE id = $1
	`

	ctx, cancel := r.queryCtx()
	defer cancel()

	request := &domain.Request{
		ID: id,
	}
	dst := []any{&request.AssignmentID, &request.InterviewerID, &request.NotificationID, &request.Status, &request.ResponseAt, &request.CreatedAt}
	if err := r.db.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return request, nil
}

func (r *Repository) GetRequestByIDForUpdate(id int64) (*domain.Request, error) {
	query := `
		SELECT assignment_id, interviewer_id, notification_id, status, response_at, created_at
		FROM panel_requests WHERE id = $1
		FOR UPDATE
	`

	ctx, cancel := r.queryCtx()
	defer cancel()

	request := &domain.Request{
		ID: id,
	}
	dst := []any{&request.AssignmentID, &request.InterviewerID, &request.NotificationID, &request.Status, &request.ResponseAt, &request.CreatedAt}
	if err := r.db.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return request, nil
}

// ResolveRequest 把一条待处理邀请置为接受或拒绝，只有 PENDING 状态的邀请才会被更新，
// 没有命中任何行时返回 domain.ErrInvalidState
func (r *Repository) ResolveRequest(id int64, status domain.RequestStatus, responseAt time.Time) error {
	query := `
		UPDATE panel_requests
		SET status = $1, response_at = $2
		WHERE id = $3 AND status = 'PENDING'
	`

	ctx, cancel := r.queryCtx()
	defer cancel()

	result, err := r.db.ExecContext(ctx, query, status, responseAt, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrInvalidState
	}

	return nil
}

// HasPendingRequest 判断某位面试官对某个编组是否已有待处理邀请
func (r *Repository) HasPendingRequest(assignmentID int64, interviewerID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM panel_requests
			WHERE assignment_id = $1 AND interviewer_id = $2 AND status = 'PENDING'
		)
	`

	ctx, cancel := r.queryCtx()
	defer cancel()

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, assignmentID, interviewerID).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

// ListRequestedInterviewerIDs 返回某个编组历史上邀请过的所有面试官，
// 不论邀请处于何种状态，用于替补搜索时的排除集合
func (r *Repository) ListRequestedInterviewerIDs(assignmentID int64) ([]int64, error) {
	query := `
		SELECT DISTINCT interviewer_id
		FROM panel_requests
		WHERE assignment_id = $1
	`

	ctx, cancel := r.queryCtx()
	defer cancel()

	return r.listIDs(ctx, query, assignmentID)
}

// ListScheduleOccupiedInterviewerIDs 返回某场日程下已被占用的面试官，
// 包括所有未拒绝的邀请持有者和已确认的成员
func (r *Repository) ListScheduleOccupiedInterviewerIDs(scheduleID int64) ([]int64, error) {
	query := `
		SELECT pr.interviewer_id
		FROM panel_requests pr
		JOIN panel_assignments pa ON pa.id = pr.assignment_id
		WHERE pa.schedule_id = $1 AND pa.status <> 'CANCELLED' AND pr.status IN ('PENDING', 'ACCEPTED')
		UNION
		SELECT pm.interviewer_id
		FROM panel_members pm
		JOIN panel_assignments pa ON pa.id = pm.assignment_id
		WHERE pa.schedule_id = $1 AND pa.status <> 'CANCELLED'
	`

	ctx, cancel := r.queryCtx()
	defer cancel()

	return r.listIDs(ctx, query, scheduleID)
}

func (r *Repository) InsertMember(member *domain.Member) error {
	query := `
		INSERT INTO panel_members (assignment_id, interviewer_id, role, assigned_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	ctx, cancel := r.queryCtx()
	defer cancel()

	args := []any{member.AssignmentID, member.InterviewerID, member.Role, member.AssignedAt}
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&member.ID); err != nil {
		return err
	}

	return nil
}

func (r *Repository) CountMembers(assignmentID int64) (int, error) {
	query := `SELECT COUNT(*) FROM panel_members WHERE assignment_id = $1`

	ctx, cancel := r.queryCtx()
	defer cancel()

	var count int
	if err := r.db.QueryRowContext(ctx, query, assignmentID).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *Repository) ListMembers(assignmentID int64) ([]*domain.Member, error) {
	query := `
		SELECT id, interviewer_id, role, assigned_at
		FROM panel_members
		WHERE assignment_id = $1
		ORDER BY id
	`

	ctx, cancel := r.queryCtx()
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []*domain.Member{}
	for rows.Next() {
		member := &domain.Member{
			AssignmentID: assignmentID,
		}
		if err := rows.Scan(&member.ID, &member.InterviewerID, &member.Role, &member.AssignedAt); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return members, nil
}

func (r *Repository) CountPendingRequests(assignmentID int64) (int, error) {
	query := `SELECT COUNT(*) FROM panel_requests WHERE assignment_id = $1 AND status = 'PENDING'`

	ctx, cancel := r.queryCtx()
	defer cancel()

	var count int
	if err := r.db.QueryRowContext(ctx, query, assignmentID).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

// CancelAssignment 取消一个编组并清理其全部邀请和成员
func (r *Repository) CancelAssignment(assignmentID int64) error {
	return r.InTx(func(txRepo *Repository) error {
		ctx, cancel := txRepo.queryCtx()
		defer cancel()

		if _, err := txRepo.db.ExecContext(ctx, `DELETE FROM panel_requests WHERE assignment_id = $1`, assignmentID); err != nil {
			return err
		}
		if _, err := txRepo.db.ExecContext(ctx, `DELETE FROM panel_members WHERE assignment_id = $1`, assignmentID); err != nil {
			return err
		}
		query := `
			UPDATE panel_assignments
			SET status = 'CANCELLED', version = version + 1
			WHERE id = $1 AND status = 'PENDING'
		`
		result, err := txRepo.db.ExecContext(ctx, query, assignmentID)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ErrInvalidState
		}
		return nil
	})
}

func (r *Repository) InsertInterviewSlots(slots []*domain.InterviewSlot) error {
	query := `
		INSERT INTO interview_slots (schedule_id, interviewer_id, application_id, start_at, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	ctx, cancel := r.queryCtx()
	defer cancel()

	for _, slot := range slots {
		args := []any{slot.ScheduleID, slot.InterviewerID, slot.ApplicationID, slot.StartAt, slot.Status}
		if err := r.db.QueryRowContext(ctx, query, args...).Scan(&slot.ID, &slot.CreatedAt); err != nil {
			return err
		}
	}

	return nil
}

func (r *Repository) ListInterviewSlotsBySchedule(scheduleID int64) ([]*domain.InterviewSlot, error) {
	query := `
		SELECT id, interviewer_id, application_id, start_at, status, created_at
		FROM interview_slots
		WHERE schedule_id = $1
		ORDER BY start_at, id
	`

	ctx, cancel := r.queryCtx()
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := []*domain.InterviewSlot{}
	for rows.Next() {
		slot := &domain.InterviewSlot{
			ScheduleID: scheduleID,
		}
		dst := []any{&slot.ID, &slot.InterviewerID, &slot.ApplicationID, &slot.StartAt, &slot.Status, &slot.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return slots, nil
}

// ListPendingRequestsByInterviewer 返回某位面试官所有待处理的邀请
func (r *Repository) ListPendingRequestsByInterviewer(interviewerID int64) ([]*domain.Request, error) {
	return r.listRequests(`
		SELECT id, assignment_id, notification_id, status, response_at, created_at
		FROM panel_requests
		WHERE interviewer_id = $1 AND status = 'PENDING'
		ORDER BY created_at DESC
	`, interviewerID)
}

// ListResolvedRequestsByInterviewer 返回某位面试官已处理的邀请历史
func (r *Repository) ListResolvedRequestsByInterviewer(interviewerID int64) ([]*domain.Request, error) {
	return r.listRequests(`
		SELECT id, assignment_id, notification_id, status, response_at, created_at
		FROM panel_requests
		WHERE interviewer_id = $1 AND status <> 'PENDING'
		ORDER BY response_at DESC
	`, interviewerID)
}

func (r *Repository) listRequests(query string, interviewerID int64) ([]*domain.Request, error) {
	ctx, cancel := r.queryCtx()
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, interviewerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []*domain.Request{}
	for rows.Next() {
		request := &domain.Request{
			InterviewerID: interviewerID,
		}
		dst := []any{&request.ID, &request.AssignmentID, &request.NotificationID, &request.Status, &request.ResponseAt, &request.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

// ListMembersByJobPost 返回某个公告下所有未取消编组的已确认成员
func (r *Repository) ListMembersByJobPost(jobPostID int64) ([]*domain.Member, error) {
	query := `
		SELECT pm.id, pm.assignment_id, pm.interviewer_id, pm.role, pm.assigned_at
		FROM panel_members pm
		JOIN panel_assignments pa ON pa.id = pm.assignment_id
		WHERE pa.job_post_id = $1 AND pa.status <> 'CANCELLED'
		ORDER BY pm.id
	`

	ctx, cancel := r.queryCtx()
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, jobPostID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []*domain.Member{}
	for rows.Next() {
		member := &domain.Member{}
		dst := []any{&member.ID, &member.AssignmentID, &member.InterviewerID, &member.Role, &member.AssignedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return members, nil
}

func (r *Repository) listIDs(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}
