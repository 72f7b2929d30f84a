package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kosa-recruit/panel-manager/backend/internal/config"
	"github.com/kosa-recruit/panel-manager/backend/internal/domain"
)

// Store 是画像引擎所需的持久化能力，由 repository.Repository 实现。
// 查询单个实体的方法在实体不存在时返回 sql.ErrNoRows。
type Store interface {
	GetProfileByEvaluator(evaluatorID int64) (*domain.InterviewerProfile, error)
	InsertProfile(profile *domain.InterviewerProfile) error
	ListEvaluationsByEvaluator(evaluatorID int64) ([]*domain.Evaluation, error)
	GetEvaluatorPopulationStats(excludeEvaluatorID int64) (*domain.EvaluatorPopulationStats, error)
	SaveProfile(profile *domain.InterviewerProfile, history *domain.InterviewerProfileHistory) error
}

// Engine 维护面试官画像：画像不存在时懒创建默认画像，
// 新评价写入后基于全量评价和群体统计重算所有评分，并留下审计历史。
type Engine struct {
	cfg        *config.Config
	store      Store
	locker     Locker
	classifier *Classifier
}

func NewEngine(cfg *config.Config, store Store, locker Locker, classifier *Classifier) *Engine {
	return &Engine{
		cfg:        cfg,
		store:      store,
		locker:     locker,
		classifier: classifier,
	}
}

// Initialize 确保某位评价者存在画像并按现有评价重算一次
func (e *Engine) Initialize(ctx context.Context, evaluatorID int64) (*domain.InterviewerProfile, error) {
	return e.Recalculate(ctx, evaluatorID, nil)
}

// Recalculate 重算某位评价者的画像。
// evaluationID 是触发本次重算的新评价，显式重算时传 nil。
// 同一评价者的重算经由分布式锁串行化，画像更新和历史追加在同一事务中落库。
func (e *Engine) Recalculate(ctx context.Context, evaluatorID int64, evaluationID *int64) (*domain.InterviewerProfile, error) {
	var result *domain.InterviewerProfile
	err := e.locker.WithLock(ctx, fmt.Sprintf("profile_recalc_lock_%d", evaluatorID), func() error {
		profile, err := e.recalculate(evaluatorID, evaluationID)
		if err != nil {
			return err
		}
		result = profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (e *Engine) recalculate(evaluatorID int64, evaluationID *int64) (*domain.InterviewerProfile, error) {
	profile, err := e.store.GetProfileByEvaluator(evaluatorID)
	if errors.Is(err, sql.ErrNoRows) {
		profile = domain.NewDefaultProfile(evaluatorID)
		if err := e.store.InsertProfile(profile); err != nil {
			return nil, err
		}
		slog.Info("已为评价者创建默认画像", "evaluatorID", evaluatorID, "profileID", profile.ID)
	} else if err != nil {
		return nil, err
	}

	oldScores := profile.Scores()

	evaluations, err := e.store.ListEvaluationsByEvaluator(evaluatorID)
	if err != nil {
		return nil, err
	}

	// 没有任何评价时保留默认评分，置信度归零，不产生历史记录
	if len(evaluations) == 0 {
		profile.ConfidenceLevel = 0
		if err := e.store.SaveProfile(profile, nil); err != nil {
			return nil, err
		}
		return profile, nil
	}

	summary := Summarize(evaluations, e.classifier)
	pop, err := e.store.GetEvaluatorPopulationStats(evaluatorID)
	if err != nil {
		return nil, err
	}

	ApplyScores(profile, summary, pop, e.cfg.Profile.ConfidenceSaturation)

	now := time.Now()
	profile.LastEvaluationDate = &now
	if evaluationID != nil {
		profile.LatestEvaluationID = evaluationID
	}

	newScores := profile.Scores()
	var history *domain.InterviewerProfileHistory
	switch {
	case evaluationID != nil:
		profile.ProfileVersion++
		history = &domain.InterviewerProfileHistory{
			EvaluationID: evaluationID,
			OldValues:    oldScores,
			NewValues:    newScores,
			ChangeType:   domain.ChangeEvaluationAdded,
			ChangeReason: fmt.Sprintf("新增评价 %d 触发的画像重算", *evaluationID),
		}
	case newScores != oldScores:
		// 显式重算只有在评分实际变化时才记一条历史，避免产生重复的空变更
		profile.ProfileVersion++
		history = &domain.InterviewerProfileHistory{
			OldValues:    oldScores,
			NewValues:    newScores,
			ChangeType:   domain.ChangeProfileInitialized,
			ChangeReason: "画像初始化重算",
		}
	}

	if err := e.store.SaveProfile(profile, history); err != nil {
		return nil, err
	}

	slog.Info("画像重算完成",
		"evaluatorID", evaluatorID,
		"profileVersion", profile.ProfileVersion,
		"totalInterviews", profile.TotalInterviews,
		"confidenceLevel", profile.ConfidenceLevel,
	)
	return profile, nil
}

// Get 返回某位评价者的画像，不存在时返回 domain.ErrNotFound
func (e *Engine) Get(evaluatorID int64) (*domain.InterviewerProfile, error) {
	profile, err := e.store.GetProfileByEvaluator(evaluatorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("评价者 %d 还没有画像: %w", evaluatorID, domain.ErrNotFound)
		}
		return nil, err
	}
	return profile, nil
}
