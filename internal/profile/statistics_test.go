package profile

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kosa-recruit/panel-manager/backend/internal/domain"
)

func testClassifier() *Classifier {
	return NewClassifier([]string{"技术"}, []string{"人格"})
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	evaluations := []*domain.Evaluation{
		{
			TotalScore: 80,
			Summary:    "表现很好",
			Items: []domain.EvaluationItem{
				{ItemType: "技术能力", Score: 90},
				{ItemType: "人格特质", Score: 70},
			},
		},
		{
			// 总分为零的评价不参与均分和方差, 空评语不参与长度统计
			TotalScore: 0,
			Summary:    "",
			Items: []domain.EvaluationItem{
				{ItemType: "沟通表达", Score: 50},
			},
		},
	}

	summary := Summarize(evaluations, testClassifier())
	require.Equal(t, int32(2), summary.TotalInterviews)
	require.InDelta(t, 80, summary.AvgScoreGiven, 1e-9)
	require.Zero(t, summary.ScoreVariance)
	// 评语长度按字符数统计, "表现很好" 是 4 个字符
	require.InDelta(t, 4, summary.AvgMemoLength, 1e-9)
	require.InDelta(t, 90, summary.AvgTechScore, 1e-9)
	require.InDelta(t, 70, summary.AvgPersonalityScore, 1e-9)
	require.Equal(t, 1, summary.TechCount)
	require.Equal(t, 1, summary.PersonalityCount)
}

func TestSummarizeEmpty(t *testing.T) {
	t.Parallel()

	summary := Summarize(nil, testClassifier())
	require.Zero(t, summary.TotalInterviews)
	require.Zero(t, summary.AvgScoreGiven)
	require.Zero(t, summary.AvgMemoLength)
}

func TestApplyScores(t *testing.T) {
	t.Parallel()

	profile := domain.NewDefaultProfile(1)
	summary := EvaluationSummary{
		TotalInterviews:     5,
		AvgScoreGiven:       60,
		ScoreVariance:       50,
		AvgTechScore:        80,
		AvgPersonalityScore: 40,
		AvgMemoLength:       100,
		TechCount:           3,
		PersonalityCount:    2,
	}
	pop := &domain.EvaluatorPopulationStats{
		AvgScores:       []float64{80},
		Variances:       []float64{100},
		InterviewCounts: []int32{10},
		MemoLengths:     []float64{200},
	}

	ApplyScores(profile, summary, pop, 10)

	// 严格度: 给分比群体平均 80 低 25%, 宽松度是它的补
	require.InDelta(t, 25, profile.Strictness, 1e-9)
	require.InDelta(t, 75, profile.Leniency, 1e-9)
	// 一致性: 方差 50 比群体平均方差 100 低一半
	require.InDelta(t, 50, profile.Consistency, 1e-9)
	// 侧重度: 技术均分 80 对素质均分 40
	require.InDelta(t, 80.0/60.0*50, profile.TechFocus, 1e-9)
	require.InDelta(t, 40.0/60.0*50, profile.PersonalityFocus, 1e-9)
	// 细致度: 评语长度是群体平均的一半
	require.InDelta(t, 25, profile.DetailLevel, 1e-9)
	// 经验值: 5 场对群体最多的 10 场
	require.InDelta(t, 50, profile.Experience, 1e-9)
	// 预测准确度保持中间值
	require.InDelta(t, domain.DefaultScore, profile.Accuracy, 1e-9)
	// 置信度: 5 场对饱和值 10 场
	require.InDelta(t, 50, profile.ConfidenceLevel, 1e-9)

	require.Equal(t, int32(5), profile.TotalInterviews)
	require.InDelta(t, 60, profile.AvgScoreGiven, 1e-9)
	require.InDelta(t, 100, profile.AvgMemoLength, 1e-9)
}

func TestApplyScoresEmptyPopulation(t *testing.T) {
	t.Parallel()

	// 群体聚合为空时跳过归一化, 保留画像原有的分值
	profile := domain.NewDefaultProfile(1)
	summary := EvaluationSummary{
		TotalInterviews: 3,
		AvgScoreGiven:   70,
		AvgMemoLength:   50,
	}

	ApplyScores(profile, summary, &domain.EvaluatorPopulationStats{}, 10)

	require.InDelta(t, domain.DefaultScore, profile.Strictness, 1e-9)
	require.InDelta(t, domain.DefaultScore, profile.Leniency, 1e-9)
	require.InDelta(t, domain.DefaultScore, profile.Consistency, 1e-9)
	require.InDelta(t, domain.DefaultScore, profile.TechFocus, 1e-9)
	require.InDelta(t, domain.DefaultScore, profile.DetailLevel, 1e-9)
	require.InDelta(t, domain.DefaultScore, profile.Experience, 1e-9)
	// 置信度只依赖评价数量, 仍然计算
	require.InDelta(t, 30, profile.ConfidenceLevel, 1e-9)
}

func TestApplyScoresConfidenceSaturation(t *testing.T) {
	t.Parallel()

	profile := domain.NewDefaultProfile(1)
	summary := EvaluationSummary{TotalInterviews: 25}

	ApplyScores(profile, summary, &domain.EvaluatorPopulationStats{}, 10)
	require.InDelta(t, 100, profile.ConfidenceLevel, 1e-9)
}

func TestApplyScoresStrictnessClamp(t *testing.T) {
	t.Parallel()

	// 给分高于群体平均时严格度归零, 宽松度为满
	profile := domain.NewDefaultProfile(1)
	summary := EvaluationSummary{TotalInterviews: 2, AvgScoreGiven: 95}
	pop := &domain.EvaluatorPopulationStats{AvgScores: []float64{60}}

	ApplyScores(profile, summary, pop, 10)
	require.Zero(t, profile.Strictness)
	require.InDelta(t, 100, profile.Leniency, 1e-9)
}
