package panel

import (
	"fmt"
	"math"

	"github.com/kosa-recruit/panel-manager/backend/internal/domain"
)

// 均衡分各分量的权重
const (
	strictnessBalanceWeight = 0.3
	coverageWeight          = 0.3
	experienceWeight        = 0.2
	consistencyWeight       = 0.2
)

// RecommendBalanced 在候选画像中穷举所有 required 人的组合，
// 返回均衡分最高的一组面试官及其分数。
// 只有分数严格更高的组合才会替换当前最优解，因此同分时保留先枚举到的组合，
// 结果对输入顺序是确定的。
func RecommendBalanced(profiles []*domain.InterviewerProfile, required int) ([]int64, float64, error) {
	if required <= 0 {
		return nil, 0, fmt.Errorf("需要的面试官人数 %d 不合法", required)
	}
	if len(profiles) < required {
		return nil, 0, fmt.Errorf("候选人数 %d 少于需要的 %d 人: %w", len(profiles), required, domain.ErrInsufficientCandidates)
	}

	var bestCombo []int
	bestScore := 0.0

	combo := make([]int, required)
	enumerateCombinations(len(profiles), required, combo, 0, 0, func(current []int) {
		team := make([]*domain.InterviewerProfile, required)
		for i, idx := range current {
			team[i] = profiles[idx]
		}
		score := TeamBalanceScore(team)
		if score > bestScore {
			bestScore = score
			bestCombo = append(bestCombo[:0], current...)
		}
	})

	// 所有组合都得零分时（例如只需要一个人），直接取最前面的候选人
	if bestCombo == nil {
		bestCombo = make([]int, required)
		for i := range bestCombo {
			bestCombo[i] = i
		}
	}

	selected := make([]int64, required)
	for i, idx := range bestCombo {
		selected[i] = profiles[idx].EvaluatorID
	}

	return selected, bestScore, nil
}

// TeamBalanceScore 计算一组面试官的均衡分：
// 严格度方差越小、技术与素质覆盖越强、经验与一致性越高，分数越高。
// 少于两人的组合无从谈均衡，记零分。
func TeamBalanceScore(team []*domain.InterviewerProfile) float64 {
	if len(team) < 2 {
		return 0
	}

	strictness := make([]float64, len(team))
	experienceSum := 0.0
	consistencySum := 0.0
	maxTech := 0.0
	maxPersonality := 0.0
	for i, p := range team {
		strictness[i] = p.Strictness
		experienceSum += p.Experience
		consistencySum += p.Consistency
		maxTech = math.Max(maxTech, p.TechFocus)
		maxPersonality = math.Max(maxPersonality, p.PersonalityFocus)
	}

	strictnessBalance := math.Max(0, 100-sampleVariance(strictness))
	coverage := (maxTech + maxPersonality) / 2
	experienceAvg := experienceSum / float64(len(team))
	consistencyAvg := consistencySum / float64(len(team))

	score := strictnessBalance*strictnessBalanceWeight +
		coverage*coverageWeight +
		experienceAvg*experienceWeight +
		consistencyAvg*consistencyWeight

	return math.Round(score*100) / 100
}

// enumerateCombinations 按字典序枚举 {0..n-1} 的所有 k 元组合
func enumerateCombinations(n, k int, combo []int, start, depth int, fn func([]int)) {
	if depth == k {
		fn(combo)
		return
	}
	for i := start; i <= n-(k-depth); i++ {
		combo[depth] = i
		enumerateCombinations(n, k, combo, i+1, depth+1, fn)
	}
}

func sampleVariance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(values)-1)
}
