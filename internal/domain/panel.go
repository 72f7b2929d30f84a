package domain

import "time"

type AssignmentType string

const (
	AssignmentSameDepartment AssignmentType = "SAME_DEPARTMENT"
	AssignmentHRDepartment   AssignmentType = "HR_DEPARTMENT"
)

type AssignmentStatus string

const (
	AssignmentPending   AssignmentStatus = "PENDING"
	AssignmentCompleted AssignmentStatus = "COMPLETED"
	AssignmentCancelled AssignmentStatus = "CANCELLED"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestAccepted RequestStatus = "ACCEPTED"
	RequestRejected RequestStatus = "REJECTED"
)

type PanelRole string

const (
	RoleInterviewer     PanelRole = "INTERVIEWER"
	RoleLeadInterviewer PanelRole = "LEAD_INTERVIEWER"
)

// Assignment 表示一次面试官编组任务
// 不变式: 当且仅当成员数 >= RequiredCount 时 Status 为 COMPLETED
type Assignment struct {
	ID            int64            `json:"id"`
	JobPostID     int64            `json:"jobPostID"`
	ScheduleID    int64            `json:"scheduleID"`
	Type          AssignmentType   `json:"assignmentType"`
	RequiredCount int32            `json:"requiredCount"`
	Status        AssignmentStatus `json:"status"`
	CreatedAt     time.Time        `json:"createdAt"`
	Version       int32            `json:"-"`
}

// Request 表示对某个面试官的一次邀请
// 同一 (assignment, interviewer) 在任意时刻至多存在一条 PENDING 记录
type Request struct {
	ID             int64         `json:"id"`
	AssignmentID   int64         `json:"assignmentID"`
	InterviewerID  int64         `json:"interviewerID"`
	NotificationID *int64        `json:"notificationID"` // 通知投递是外部协作方，允许为空
	Status         RequestStatus `json:"status"`
	ResponseAt     *time.Time    `json:"responseAt"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// Member 表示已确认的面试官席位，仅在 Request 被接受时创建
type Member struct {
	ID            int64     `json:"id"`
	AssignmentID  int64     `json:"assignmentID"`
	InterviewerID int64     `json:"interviewerID"`
	Role          PanelRole `json:"role"`
	AssignedAt    time.Time `json:"assignedAt"`
}

type InterviewSlotStatus string

const (
	SlotScheduled InterviewSlotStatus = "SCHEDULED"
	SlotDone      InterviewSlotStatus = "DONE"
	SlotCancelled InterviewSlotStatus = "CANCELLED"
)

// InterviewSlot 表示编组完成后生成的一场一对一面试
type InterviewSlot struct {
	ID            int64               `json:"id"`
	ScheduleID    int64               `json:"scheduleID"`
	InterviewerID int64               `json:"interviewerID"`
	ApplicationID int64               `json:"applicationID"`
	StartAt       time.Time           `json:"startAt"`
	Status        InterviewSlotStatus `json:"status"`
	CreatedAt     time.Time           `json:"createdAt"`
}
