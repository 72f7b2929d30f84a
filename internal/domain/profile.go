package domain

import "time"

const DefaultScore = 50.0

// ProfileScores 是画像的核心评分快照，也是历史记录中 old/new values 的序列化单位
type ProfileScores struct {
	Strictness       float64 `json:"strictnessScore"`
	Consistency      float64 `json:"consistencyScore"`
	TechFocus        float64 `json:"techFocusScore"`
	PersonalityFocus float64 `json:"personalityFocusScore"`
	Experience       float64 `json:"experienceScore"`
	TotalInterviews  int32   `json:"totalInterviews"`
}

// InterviewerProfile 表示某个面试官的行为画像，每个 evaluator 唯一一行
// 所有评分均为相对于全体面试官归一化后的 [0,100] 分值
type InterviewerProfile struct {
	ID                 int64  `json:"id"`
	EvaluatorID        int64  `json:"evaluatorID"`
	LatestEvaluationID *int64 `json:"latestEvaluationID"`

	Strictness       float64 `json:"strictnessScore"`
	Leniency         float64 `json:"leniencyScore"`
	Consistency      float64 `json:"consistencyScore"`
	TechFocus        float64 `json:"techFocusScore"`
	PersonalityFocus float64 `json:"personalityFocusScore"`
	DetailLevel      float64 `json:"detailLevelScore"`
	Experience       float64 `json:"experienceScore"`
	Accuracy         float64 `json:"accuracyScore"`

	TotalInterviews     int32   `json:"totalInterviews"`
	AvgScoreGiven       float64 `json:"avgScoreGiven"`
	ScoreVariance       float64 `json:"scoreVariance"`
	AvgTechScore        float64 `json:"avgTechScore"`
	AvgPersonalityScore float64 `json:"avgPersonalityScore"`
	AvgMemoLength       float64 `json:"avgMemoLength"`

	StrictnessPercentile  float64 `json:"strictnessPercentile"`
	ConsistencyPercentile float64 `json:"consistencyPercentile"`

	ConfidenceLevel    float64    `json:"confidenceLevel"`
	ProfileVersion     int32      `json:"profileVersion"`
	LastEvaluationDate *time.Time `json:"lastEvaluationDate"`
	IsActive           bool       `json:"isActive"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// NewDefaultProfile 返回初始画像：所有评分取中间值 50，置信度为 0
func NewDefaultProfile(evaluatorID int64) *InterviewerProfile {
	return &InterviewerProfile{
		EvaluatorID:           evaluatorID,
		Strictness:            DefaultScore,
		Leniency:              DefaultScore,
		Consistency:           DefaultScore,
		TechFocus:             DefaultScore,
		PersonalityFocus:      DefaultScore,
		DetailLevel:           DefaultScore,
		Experience:            DefaultScore,
		Accuracy:              DefaultScore,
		StrictnessPercentile:  DefaultScore,
		ConsistencyPercentile: DefaultScore,
		ConfidenceLevel:       0,
		ProfileVersion:        1,
		IsActive:              true,
	}
}

// Scores 返回画像当前的核心评分快照
func (p *InterviewerProfile) Scores() ProfileScores {
	return ProfileScores{
		Strictness:       p.Strictness,
		Consistency:      p.Consistency,
		TechFocus:        p.TechFocus,
		PersonalityFocus: p.PersonalityFocus,
		Experience:       p.Experience,
		TotalInterviews:  p.TotalInterviews,
	}
}

// CharacteristicSummary 返回画像的中文特征描述，供前端展示
func (p *InterviewerProfile) CharacteristicSummary() []string {
	characteristics := []string{}

	if p.Strictness > 70 {
		characteristics = append(characteristics, "严格的评价者")
	} else if p.Strictness < 30 {
		characteristics = append(characteristics, "宽松的评价者")
	}

	if p.Consistency > 70 {
		characteristics = append(characteristics, "评价一致")
	}

	if p.TechFocus > 60 {
		characteristics = append(characteristics, "技术导向")
	} else if p.PersonalityFocus > 60 {
		characteristics = append(characteristics, "素质导向")
	}

	if p.Experience > 80 {
		characteristics = append(characteristics, "经验丰富")
	}

	if len(characteristics) == 0 {
		return []string{"均衡的评价者"}
	}
	return characteristics
}

type ProfileChangeType string

const (
	ChangeEvaluationAdded    ProfileChangeType = "evaluation_added"
	ChangeProfileInitialized ProfileChangeType = "profile_initialized"
	ChangeManualAdjustment   ProfileChangeType = "manual_adjustment"
)

// InterviewerProfileHistory 是画像的变更审计日志，只追加，从不修改或删除
type InterviewerProfileHistory struct {
	ID           int64             `json:"id"`
	ProfileID    int64             `json:"profileID"`
	EvaluationID *int64            `json:"evaluationID"`
	OldValues    ProfileScores     `json:"oldValues"`
	NewValues    ProfileScores     `json:"newValues"`
	ChangeType   ProfileChangeType `json:"changeType"`
	ChangeReason string            `json:"changeReason"`
	CreatedAt    time.Time         `json:"createdAt"`
}
