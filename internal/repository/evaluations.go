package repository

import (
	"database/sql"

	"github.com/kosa-recruit/panel-manager/backend/internal/domain"
)

// InsertEvaluation 在同一事务中写入评价及其所有评价项
func (r *Repository) InsertEvaluation(evaluation *domain.Evaluation) error {
	return r.InTx(func(txRepo *Repository) error {
		ctx, cancel := txRepo.queryCtx()
		defer cancel()

		query := `
			INSERT INTO interview_evaluations (interview_id, evaluator_id, total_score, summary)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at
		`
		args := []any{evaluation.InterviewID, evaluation.EvaluatorID, evaluation.TotalScore, evaluation.Summary}
		if err := txRepo.db.QueryRowContext(ctx, query, args...).Scan(&evaluation.ID, &evaluation.CreatedAt); err != nil {
			return err
		}

		for i := range evaluation.Items {
			item := &evaluation.Items[i]
			item.EvaluationID = evaluation.ID

			query := `
				INSERT INTO interview_evaluation_items (evaluation_id, item_type, score, grade, comment)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id
			`
			args := []any{item.EvaluationID, item.ItemType, item.Score, item.Grade, item.Comment}
			if err := txRepo.db.QueryRowContext(ctx, query, args...).Scan(&item.ID); err != nil {
				return err
			}
		}

		return nil
	})
}

// ListEvaluationsByEvaluator 返回某位评价者的全部评价，包含评价项
func (r *Repository) ListEvaluationsByEvaluator(evaluatorID int64) ([]*domain.Evaluation, error) {
	query := `
		SELECT id, interview_id, total_score, summary, created_at
		FROM interview_evaluations
		WHERE evaluator_id = $1
		ORDER BY id
	`

	ctx, cancel := r.queryCtx()
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, evaluatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	evaluations := []*domain.Evaluation{}
	byID := map[int64]*domain.Evaluation{}
	for rows.Next() {
		evaluation := &domain.Evaluation{
			EvaluatorID: evaluatorID,
			Items:       []domain.EvaluationItem{},
		}
		dst := []any{&evaluation.ID, &evaluation.InterviewID, &evaluation.TotalScore, &evaluation.Summary, &evaluation.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		evaluations = append(evaluations, evaluation)
		byID[evaluation.ID] = evaluation
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(evaluations) == 0 {
		return evaluations, nil
	}

	itemQuery := `
		SELECT i.id, i.evaluation_id, i.item_type, i.score, i.grade, i.comment
		FROM interview_evaluation_items i
		JOIN interview_evaluations e ON e.id = i.evaluation_id
		WHERE e.evaluator_id = $1
		ORDER BY i.id
	`
	itemRows, err := r.db.QueryContext(ctx, itemQuery, evaluatorID)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		item := domain.EvaluationItem{}
		dst := []any{&item.ID, &item.EvaluationID, &item.ItemType, &item.Score, &item.Grade, &item.Comment}
		if err := itemRows.Scan(dst...); err != nil {
			return nil, err
		}
		if evaluation, ok := byID[item.EvaluationID]; ok {
			evaluation.Items = append(evaluation.Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	return evaluations, nil
}

// GetEvaluatorPopulationStats 按评价者分组聚合除 excludeEvaluatorID 以外的全部评价，
// 方差不足两条评价时为 NULL，跳过
func (r *Repository) GetEvaluatorPopulationStats(excludeEvaluatorID int64) (*domain.EvaluatorPopulationStats, error) {
	query := `
		SELECT AVG(total_score), VARIANCE(total_score), COUNT(id), AVG(LENGTH(summary))
		FROM interview_evaluations
		WHERE evaluator_id <> $1
		GROUP BY evaluator_id
	`

	ctx, cancel := r.queryCtx()
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, excludeEvaluatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &domain.EvaluatorPopulationStats{
		AvgScores:       []float64{},
		Variances:       []float64{},
		InterviewCounts: []int32{},
		MemoLengths:     []float64{},
	}
	for rows.Next() {
		var avgScore, variance, memoLength sql.NullFloat64
		var count int32
		if err := rows.Scan(&avgScore, &variance, &count, &memoLength); err != nil {
			return nil, err
		}
		if avgScore.Valid && avgScore.Float64 > 0 {
			stats.AvgScores = append(stats.AvgScores, avgScore.Float64)
		}
		if variance.Valid && variance.Float64 > 0 {
			stats.Variances = append(stats.Variances, variance.Float64)
		}
		if count > 0 {
			stats.InterviewCounts = append(stats.InterviewCounts, count)
		}
		if memoLength.Valid && memoLength.Float64 > 0 {
			stats.MemoLengths = append(stats.MemoLengths, memoLength.Float64)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
