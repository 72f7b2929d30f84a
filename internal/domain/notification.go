package domain

import "time"

const (
	NotificationPanelRequest       = "INTERVIEW_PANEL_REQUEST"
	NotificationInterviewScheduled = "INTERVIEW_SCHEDULED"
)

type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userID"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// MailMessage 是投递到消息队列的邮件载荷，Data 交给对应类型的模板渲染
type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}
