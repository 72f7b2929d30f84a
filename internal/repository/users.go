package repository

import (
	"github.com/kosa-recruit/panel-manager/backend/internal/domain"
)

func (r *Repository) GetCompanyUserByID(id int64) (*domain.CompanyUser, error) {
	query := `
		SELECT company_id, department_id, username, password_hash, full_name, email, rank, is_active, created_at, version
		FROM company_users WHERE id = $1
	`

	ctx, cancel := r.queryCtx()
	defer cancel()

	user := &domain.CompanyUser{
		ID: id,
	}

	dst := []any{&user.CompanyID, &user.DepartmentID, &user.Username, &user.PasswordHash, &user.FullName, &user.Email, &user.Rank, &user.IsActive, &user.CreatedAt, &user.Version}
	if err := r.db.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return user, nil
}

func (r *Repository) GetCompanyUserByUsername(username string) (*domain.CompanyUser, error) {
	query := `
		SELECT id, company_id, department_id, password_hash, full_name, email, rank, is_active, created_at, version
		FROM company_users WHERE username = $1
	`

	ctx, cancel := r.queryCtx()
	defer cancel()

	user := &domain.CompanyUser{
		Username: username,
	}

	dst := []any{&user.ID, &user.CompanyID, &user.DepartmentID, &user.PasswordHash, &user.FullName, &user.Email, &user.Rank, &user.IsActive, &user.CreatedAt, &user.Version}
	if err := r.db.QueryRowContext(ctx, query, username).Scan(dst...); err != nil {
		return nil, err
	}

	return user, nil
}

func (r *Repository) InsertCompanyUser(user *domain.CompanyUser) error {
	query := `
		INSERT INTO company_users (company_id, department_id, username, password_hash, full_name, email, rank, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryCtx()
	defer cancel()

	args := []any{user.CompanyID, user.DepartmentID, user.Username, user.PasswordHash, user.FullName, user.Email, user.Rank, user.IsActive}
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&user.ID, &user.CreatedAt, &user.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) ListCompanyUsersByCompany(companyID int64) ([]*domain.CompanyUser, error) {
	query := `
		SELECT id, company_id, department_id, username, password_hash, full_name, email, rank, is_active, created_at, version
		FROM company_users
		WHERE company_id = $1
		ORDER BY id
	`

	ctx, cancel := r.queryCtx()
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*domain.CompanyUser{}
	for rows.Next() {
		user := &domain.CompanyUser{}
		dst := []any{&user.ID, &user.CompanyID, &user.DepartmentID, &user.Username, &user.PasswordHash, &user.FullName, &user.Email, &user.Rank, &user.IsActive, &user.CreatedAt, &user.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// ListInterviewerCandidates 按部门和职级筛选可担任面试官的在职成员。
// excludeCreatorID 为 0 时表示不排除公告发布者，excludeIDs 为空切片时表示没有额外排除。
func (r *Repository) ListInterviewerCandidates(companyID int64, departmentID int64, ranks []string, excludeCreatorID int64, excludeIDs []int64) ([]*domain.CompanyUser, error) {
	query := `
		SELECT id, company_id, department_id, username, password_hash, full_name, email, rank, is_active, created_at, version
		FROM company_users
		WHERE company_id = $1
			AND department_id = $2
			AND rank = ANY($3)
			AND is_active = TRUE
			AND ($4 = 0 OR id <> $4)
			AND NOT (id = ANY($5))
		ORDER BY id
	`

	ctx, cancel := r.queryCtx()
	defer cancel()

	if excludeIDs == nil {
		excludeIDs = []int64{}
	}

	rows, err := r.db.QueryContext(ctx, query, companyID, departmentID, ranks, excludeCreatorID, excludeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*domain.CompanyUser{}
	for rows.Next() {
		user := &domain.CompanyUser{}
		dst := []any{&user.ID, &user.CompanyID, &user.DepartmentID, &user.Username, &user.PasswordHash, &user.FullName, &user.Email, &user.Rank, &user.IsActive, &user.CreatedAt, &user.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}
