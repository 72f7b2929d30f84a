package repository

import (
	"encoding/json"

	"github.com/kosa-recruit/panel-manager/backend/internal/domain"
)

const profileColumns = `
	id, evaluator_id, latest_evaluation_id,
	strictness_score, leniency_score, consistency_score, tech_focus_score, personality_focus_score,
	detail_level_score, experience_score, accuracy_score,
	total_interviews, avg_score_given, score_variance, avg_tech_score, avg_personality_score, avg_memo_length,
	strictness_percentile, consistency_percentile,
	confidence_level, profile_version, last_evaluation_date, is_active, created_at, updated_at
`

func (r *Repository) scanProfile(row interface{ Scan(dst ...any) error }) (*domain.InterviewerProfile, error) {
	profile := &domain.InterviewerProfile{}
	dst := []any{
		&profile.ID, &profile.EvaluatorID, &profile.LatestEvaluationID,
		&profile.Strictness, &profile.Leniency, &profile.Consistency, &profile.TechFocus, &profile.PersonalityFocus,
		&profile.DetailLevel, &profile.Experience, &profile.Accuracy,
		&profile.TotalInterviews, &profile.AvgScoreGiven, &profile.ScoreVariance, &profile.AvgTechScore, &profile.AvgPersonalityScore, &profile.AvgMemoLength,
		&profile.StrictnessPercentile, &profile.ConsistencyPercentile,
		&profile.ConfidenceLevel, &profile.ProfileVersion, &profile.LastEvaluationDate, &profile.IsActive, &profile.CreatedAt, &profile.UpdatedAt,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *Repository) GetProfileByEvaluator(evaluatorID int64) (*domain.InterviewerProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM interviewer_profiles WHERE evaluator_id = $1`

	ctx, cancel := r.queryCtx()
	defer cancel()

	return r.scanProfile(r.db.QueryRowContext(ctx, query, evaluatorID))
}

// ListProfilesByEvaluators 返回给定面试官集合中已存在的画像，缺失的画像由调用方用默认值补齐
func (r *Repository) ListProfilesByEvaluators(evaluatorIDs []int64) ([]*domain.InterviewerProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM interviewer_profiles WHERE evaluator_id = ANY($1) ORDER BY evaluator_id`

	ctx, cancel := r.queryCtx()
	defer cancel()

	if evaluatorIDs == nil {
		evaluatorIDs = []int64{}
	}

	rows, err := r.db.QueryContext(ctx, query, evaluatorIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []*domain.InterviewerProfile{}
	for rows.Next() {
		profile, err := r.scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}

func (r *Repository) InsertProfile(profile *domain.InterviewerProfile) error {
	query := `
		INSERT INTO interviewer_profiles (
			evaluator_id,
			strictness_score, leniency_score, consistency_score, tech_focus_score, personality_focus_score,
			detail_level_score, experience_score, accuracy_score,
			strictness_percentile, consistency_percentile,
			confidence_level, profile_version, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at
	`

	ctx, cancel := r.queryCtx()
	defer cancel()

	args := []any{
		profile.EvaluatorID,
		profile.Strictness, profile.Leniency, profile.Consistency, profile.TechFocus, profile.PersonalityFocus,
		profile.DetailLevel, profile.Experience, profile.Accuracy,
		profile.StrictnessPercentile, profile.ConsistencyPercentile,
		profile.ConfidenceLevel, profile.ProfileVersion, profile.IsActive,
	}
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt); err != nil {
		return err
	}

	return nil
}

// SaveProfile 更新画像并在同一事务中追加历史记录，history 为 nil 时只更新画像
func (r *Repository) SaveProfile(profile *domain.InterviewerProfile, history *domain.InterviewerProfileHistory) error {
	return r.InTx(func(txRepo *Repository) error {
		ctx, cancel := txRepo.queryCtx()
		defer cancel()

		query := `
			UPDATE interviewer_profiles
			SET
				latest_evaluation_id = $1,
				strictness_score = $2,
				leniency_score = $3,
				consistency_score = $4,
				tech_focus_score = $5,
				personality_focus_score = $6,
				detail_level_score = $7,
				experience_score = $8,
				accuracy_score = $9,
				total_interviews = $10,
				avg_score_given = $11,
				score_variance = $12,
				avg_tech_score = $13,
				avg_personality_score = $14,
				avg_memo_length = $15,
				strictness_percentile = $16,
				consistency_percentile = $17,
				confidence_level = $18,
				profile_version = $19,
				last_evaluation_date = $20,
				is_active = $21,
				updated_at = NOW()
			WHERE id = $22
			RETURNING updated_at
		`
		args := []any{
			profile.LatestEvaluationID,
			profile.Strictness, profile.Leniency, profile.Consistency, profile.TechFocus, profile.PersonalityFocus,
			profile.DetailLevel, profile.Experience, profile.Accuracy,
			profile.TotalInterviews, profile.AvgScoreGiven, profile.ScoreVariance, profile.AvgTechScore, profile.AvgPersonalityScore, profile.AvgMemoLength,
			profile.StrictnessPercentile, profile.ConsistencyPercentile,
			profile.ConfidenceLevel, profile.ProfileVersion, profile.LastEvaluationDate, profile.IsActive,
			profile.ID,
		}
		if err := txRepo.db.QueryRowContext(ctx, query, args...).Scan(&profile.UpdatedAt); err != nil {
			return err
		}

		if history == nil {
			return nil
		}

		history.ProfileID = profile.ID

		oldValues, err := json.Marshal(history.OldValues)
		if err != nil {
			return err
		}
		newValues, err := json.Marshal(history.NewValues)
		if err != nil {
			return err
		}

		historyQuery := `
			INSERT INTO interviewer_profile_history (profile_id, evaluation_id, old_values, new_values, change_type, change_reason)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at
		`
		historyArgs := []any{history.ProfileID, history.EvaluationID, oldValues, newValues, history.ChangeType, history.ChangeReason}
		if err := txRepo.db.QueryRowContext(ctx, historyQuery, historyArgs...).Scan(&history.ID, &history.CreatedAt); err != nil {
			return err
		}

		return nil
	})
}

// ListProfileHistory 返回画像的变更历史，最新的在前
func (r *Repository) ListProfileHistory(profileID int64) ([]*domain.InterviewerProfileHistory, error) {
	query := `
		SELECT id, evaluation_id, old_values, new_values, change_type, change_reason, created_at
		FROM interviewer_profile_history
		WHERE profile_id = $1
		ORDER BY id DESC
	`

	ctx, cancel := r.queryCtx()
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*domain.InterviewerProfileHistory{}
	for rows.Next() {
		entry := &domain.InterviewerProfileHistory{
			ProfileID: profileID,
		}
		var oldValues, newValues []byte
		dst := []any{&entry.ID, &entry.EvaluationID, &oldValues, &newValues, &entry.ChangeType, &entry.ChangeReason, &entry.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(oldValues, &entry.OldValues); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(newValues, &entry.NewValues); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
