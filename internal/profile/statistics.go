package profile

import (
	"math"
	"unicode/utf8"

	"github.com/kosa-recruit/panel-manager/backend/internal/domain"
)

// EvaluationSummary 是某位评价者全部评价的原始统计量，画像评分从它归一化而来
type EvaluationSummary struct {
	TotalInterviews     int32
	AvgScoreGiven       float64
	ScoreVariance       float64
	AvgTechScore        float64
	AvgPersonalityScore float64
	AvgMemoLength       float64
	TechCount           int
	PersonalityCount    int
}

// Summarize 汇总一位评价者的全部评价。
// 总分为零的评价不参与均分和方差，评语长度按字符数而不是字节数统计。
func Summarize(evaluations []*domain.Evaluation, classifier *Classifier) EvaluationSummary {
	summary := EvaluationSummary{
		TotalInterviews: int32(len(evaluations)),
	}

	totalScores := []float64{}
	memoLengths := []float64{}
	techScores := []float64{}
	personalityScores := []float64{}
	for _, evaluation := range evaluations {
		if evaluation.TotalScore > 0 {
			totalScores = append(totalScores, evaluation.TotalScore)
		}
		if evaluation.Summary != "" {
			memoLengths = append(memoLengths, float64(utf8.RuneCountInString(evaluation.Summary)))
		}
		for _, item := range evaluation.Items {
			switch classifier.Classify(item.ItemType) {
			case CategoryTech:
				techScores = append(techScores, item.Score)
			case CategoryPersonality:
				personalityScores = append(personalityScores, item.Score)
			}
		}
	}

	summary.AvgScoreGiven = mean(totalScores)
	summary.ScoreVariance = sampleVariance(totalScores)
	summary.AvgMemoLength = mean(memoLengths)
	summary.AvgTechScore = mean(techScores)
	summary.AvgPersonalityScore = mean(personalityScores)
	summary.TechCount = len(techScores)
	summary.PersonalityCount = len(personalityScores)

	return summary
}

// ApplyScores 把统计量相对于全体评价者的聚合归一化成 [0,100] 的画像评分。
// 某项归一化所需的群体聚合为空时跳过该项，保留画像原有的分值。
func ApplyScores(profile *domain.InterviewerProfile, summary EvaluationSummary, pop *domain.EvaluatorPopulationStats, confidenceSaturation int) {
	profile.TotalInterviews = summary.TotalInterviews
	profile.AvgScoreGiven = summary.AvgScoreGiven
	profile.ScoreVariance = summary.ScoreVariance
	profile.AvgTechScore = summary.AvgTechScore
	profile.AvgPersonalityScore = summary.AvgPersonalityScore
	profile.AvgMemoLength = summary.AvgMemoLength

	// 严格度：给分比群体平均低多少；宽松度是它的补
	if populationAvg := mean(pop.AvgScores); populationAvg > 0 {
		raw := math.Max(0, (populationAvg-summary.AvgScoreGiven)/populationAvg*100)
		profile.Strictness = math.Min(100, raw)
		profile.Leniency = 100 - raw
	}

	// 一致性：给分方差比群体平均方差低多少
	if populationVariance := mean(pop.Variances); populationVariance > 0 {
		profile.Consistency = math.Min(100, math.Max(0, (populationVariance-summary.ScoreVariance)/populationVariance*100))
	}

	// 技术与素质侧重：两个桶都有数据时才有意义
	if summary.TechCount > 0 && summary.PersonalityCount > 0 {
		if totalAvg := (summary.AvgTechScore + summary.AvgPersonalityScore) / 2; totalAvg > 0 {
			profile.TechFocus = math.Min(100, summary.AvgTechScore/totalAvg*50)
			profile.PersonalityFocus = math.Min(100, summary.AvgPersonalityScore/totalAvg*50)
		}
	}

	// 细致度：评语长度相对群体平均的比值
	if populationMemo := mean(pop.MemoLengths); populationMemo > 0 {
		profile.DetailLevel = math.Min(100, summary.AvgMemoLength/populationMemo*50)
	}

	// 经验值：评价数量相对群体最多者的比值
	if maxCount := maxInt32(pop.InterviewCounts); maxCount > 0 {
		profile.Experience = math.Min(100, float64(summary.TotalInterviews)/float64(maxCount)*100)
	}

	// 预测准确度需要录用后的绩效数据回流，目前保持中间值
	profile.Accuracy = domain.DefaultScore

	if confidenceSaturation > 0 {
		profile.ConfidenceLevel = math.Min(100, float64(summary.TotalInterviews)/float64(confidenceSaturation)*100)
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func sampleVariance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(values)-1)
}

func maxInt32(values []int32) int32 {
	var max int32
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	return max
}
