package domain

import "time"

type EvaluationItem struct {
	ID           int64   `json:"id"`
	EvaluationID int64   `json:"evaluationID"`
	ItemType     string  `json:"itemType"` // 评价项类别标签，例如 "技术能力"、"人格特质"
	Score        float64 `json:"score"`
	Grade        string  `json:"grade"`
	Comment      string  `json:"comment"`
}

type Evaluation struct {
	ID          int64            `json:"id"`
	InterviewID int64            `json:"interviewID"`
	EvaluatorID int64            `json:"evaluatorID"`
	TotalScore  float64          `json:"totalScore"`
	Summary     string           `json:"summary"`
	Items       []EvaluationItem `json:"items"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// EvaluatorPopulationStats 是除某位评价者以外、全体其他评价者按人分组的聚合统计，
// 画像重算时作为归一化的分母
type EvaluatorPopulationStats struct {
	AvgScores       []float64
	Variances       []float64
	InterviewCounts []int32
	MemoLengths     []float64
}
