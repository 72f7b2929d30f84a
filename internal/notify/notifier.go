package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/kosa-recruit/panel-manager/backend/internal/config"
	"github.com/kosa-recruit/panel-manager/backend/internal/domain"
	"github.com/kosa-recruit/panel-manager/backend/internal/repository"
)

const NotificationQueue = "notification_queue"

// Notifier 把通知落为站内通知行，并把邮件消息投递到消息队列。
// 邮件投递失败只记日志不报错，站内通知是调用方拿到通知 ID 的唯一途径。
type Notifier struct {
	cfg        *config.Config
	repository *repository.Repository
	channel    *amqp.Channel
}

func New(cfg *config.Config, repository *repository.Repository, channel *amqp.Channel) *Notifier {
	return &Notifier{
		cfg:        cfg,
		repository: repository,
		channel:    channel,
	}
}

func (n *Notifier) Notify(ctx context.Context, userID int64, message string, notificationType string) (int64, error) {
	notification := &domain.Notification{
		UserID:  userID,
		Message: message,
		Type:    notificationType,
	}
	if err := n.repository.InsertNotification(notification); err != nil {
		return 0, err
	}

	n.publishMail(ctx, userID, message, notificationType)

	return notification.ID, nil
}

func (n *Notifier) publishMail(ctx context.Context, userID int64, message string, notificationType string) {
	if n.channel == nil {
		return
	}

	user, err := n.repository.GetCompanyUserByID(userID)
	if err != nil {
		slog.Warn("查询通知收件人失败，跳过邮件投递", "userID", userID, "error", err)
		return
	}

	mailMessage := domain.MailMessage{
		Type: notificationType,
		To:   user.Email,
		Data: map[string]string{
			"FullName": user.FullName,
			"Message":  message,
		},
	}
	body, err := json.Marshal(mailMessage)
	if err != nil {
		slog.Warn("邮件消息序列化失败", "userID", userID, "error", err)
		return
	}

	publishCtx, cancel := context.WithTimeout(ctx, time.Duration(n.cfg.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := n.channel.PublishWithContext(
		publishCtx,
		"",
		NotificationQueue,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	); err != nil {
		slog.Warn("邮件消息投递失败", "userID", userID, "error", err)
	}
}
