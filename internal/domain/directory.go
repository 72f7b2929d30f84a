package domain

import "time"

type Company struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type Department struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"companyID"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type JobPost struct {
	ID           int64     `json:"id"`
	CompanyID    int64     `json:"companyID"`
	DepartmentID int64     `json:"departmentID"`
	CreatorID    int64     `json:"creatorID"` // 发布该公告的用户，不允许担任本公告的面试官
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}

type Schedule struct {
	ID          int64     `json:"id"`
	JobPostID   int64     `json:"jobPostID"`
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	ScheduledAt time.Time `json:"scheduledAt"`
	CreatedAt   time.Time `json:"createdAt"`
	Version     int32     `json:"-"`
}

type StageStatus string

const (
	StagePending            StageStatus = "PENDING"
	StageDocumentPassed     StageStatus = "DOCUMENT_PASSED"
	StageInterviewScheduled StageStatus = "INTERVIEW_SCHEDULED"
)

// Application 表示某个应聘者对某个公告的投递，Stage 记录其在招聘流水线中的位置
type Application struct {
	ID        int64       `json:"id"`
	JobPostID int64       `json:"jobPostID"`
	UserID    int64       `json:"userID"`
	Stage     StageStatus `json:"stage"`
	CreatedAt time.Time   `json:"createdAt"`
	Version   int32       `json:"-"`
}
