package repository

import (
	"github.com/kosa-recruit/panel-manager/backend/internal/domain"
)

func (r *Repository) InsertCompany(company *domain.Company) error {
	query := `INSERT INTO companies (name) VALUES ($1) RETURNING id, created_at`

	ctx, cancel := r.queryCtx()
	defer cancel()

	if err := r.db.QueryRowContext(ctx, query, company.Name).Scan(&company.ID, &company.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) InsertDepartment(department *domain.Department) error {
	query := `INSERT INTO departments (company_id, name) VALUES ($1, $2) RETURNING id, created_at`

	ctx, cancel := r.queryCtx()
	defer cancel()

	if err := r.db.QueryRowContext(ctx, query, department.CompanyID, department.Name).Scan(&department.ID, &department.CreatedAt); err != nil {
		return err
	}

	return nil
}

// FindHRDepartmentByKeyword 按名称关键字查找公司的人事部门，不存在时返回 sql.ErrNoRows
func (r *Repository) FindHRDepartmentByKeyword(companyID int64, keyword string) (*domain.Department, error) {
	query := `
		SELECT id, name, created_at
		FROM departments
		WHERE company_id = $1 AND name ILIKE '%' || $2 || '%'
		ORDER BY id
		LIMIT 1
	`

	ctx, cancel := r.queryCtx()
	defer cancel()

	department := &domain.Department{
		CompanyID: companyID,
	}
	if err := r.db.QueryRowContext(ctx, query, companyID, keyword).Scan(&department.ID, &department.Name, &department.CreatedAt); err != nil {
		return nil, err
	}

	return department, nil
}

func (r *Repository) GetJobPostByID(id int64) (*domain.JobPost, error) {
	query := `
		SELECT company_id, department_id, creator_id, title, created_at, version
		FROM job_posts WHERE id = $1
	`

	ctx, cancel := r.queryCtx()
	defer cancel()

	jobPost := &domain.JobPost{
		ID: id,
	}
	dst := []any{&jobPost.CompanyID, &jobPost.DepartmentID, &jobPost.CreatorID, &jobPost.Title, &jobPost.CreatedAt, &jobPost.Version}
	if err := r.db.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return jobPost, nil
}

func (r *Repository) InsertJobPost(jobPost *domain.JobPost) error {
	query := `
		INSERT INTO job_posts (company_id, department_id, creator_id, title)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryCtx()
	defer cancel()

	args := []any{jobPost.CompanyID, jobPost.DepartmentID, jobPost.CreatorID, jobPost.Title}
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&jobPost.ID, &jobPost.CreatedAt, &jobPost.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetScheduleByID(id int64) (*domain.Schedule, error) {
	query := `
		SELECT job_post_id, title, location, scheduled_at, created_at, version
		FROM schedules WHERE id = $1
	`

	ctx, cancel := r.queryCtx()
	defer cancel()

	schedule := &domain.Schedule{
		ID: id,
	}
	dst := []any{&schedule.JobPostID, &schedule.Title, &schedule.Location, &schedule.ScheduledAt, &schedule.CreatedAt, &schedule.Version}
	if err := r.db.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return schedule, nil
}

func (r *Repository) InsertSchedule(schedule *domain.Schedule) error {
	query := `
		INSERT INTO schedules (job_post_id, title, location, scheduled_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryCtx()
	defer cancel()

	args := []any{schedule.JobPostID, schedule.Title, schedule.Location, schedule.ScheduledAt}
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&schedule.ID, &schedule.CreatedAt, &schedule.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) InsertApplication(application *domain.Application) error {
	query := `
		INSERT INTO applications (job_post_id, user_id, stage)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryCtx()
	defer cancel()

	args := []any{application.JobPostID, application.UserID, application.Stage}
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&application.ID, &application.CreatedAt, &application.Version); err != nil {
		return err
	}

	return nil
}

// ListPassedApplications 返回某个公告下所有通过书面审核、等待安排面试的投递
func (r *Repository) ListPassedApplications(jobPostID int64) ([]*domain.Application, error) {
	query := `
		SELECT id, user_id, stage, created_at, version
		FROM applications
		WHERE job_post_id = $1 AND stage = $2
		ORDER BY id
	`

	ctx, cancel := r.queryCtx()
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, jobPostID, domain.StageDocumentPassed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applications := []*domain.Application{}
	for rows.Next() {
		application := &domain.Application{
			JobPostID: jobPostID,
		}
		dst := []any{&application.ID, &application.UserID, &application.Stage, &application.CreatedAt, &application.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		applications = append(applications, application)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return applications, nil
}

func (r *Repository) UpdateApplicationStage(applicationID int64, stage domain.StageStatus) error {
	query := `
		UPDATE applications
		SET stage = $1, version = version + 1
		WHERE id = $2
	`

	ctx, cancel := r.queryCtx()
	defer cancel()

	if _, err := r.db.ExecContext(ctx, query, stage, applicationID); err != nil {
		return err
	}

	return nil
}
