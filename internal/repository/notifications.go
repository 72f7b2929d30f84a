package repository

import (
	"github.com/kosa-recruit/panel-manager/backend/internal/domain"
)

func (r *Repository) InsertNotification(notification *domain.Notification) error {
	query := `
		INSERT INTO notifications (user_id, message, type)
		VALUES ($1, $2, $3)
		RETURNING id, is_read, created_at
	`

	ctx, cancel := r.queryCtx()
	defer cancel()

	args := []any{notification.UserID, notification.Message, notification.Type}
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&notification.ID, &notification.IsRead, &notification.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) ListNotificationsByUser(userID int64) ([]*domain.Notification, error) {
	query := `
		SELECT id, message, type, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY id DESC
	`

	ctx, cancel := r.queryCtx()
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []*domain.Notification{}
	for rows.Next() {
		notification := &domain.Notification{
			UserID: userID,
		}
		dst := []any{&notification.ID, &notification.Message, &notification.Type, &notification.IsRead, &notification.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		notifications = append(notifications, notification)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notifications, nil
}

func (r *Repository) MarkNotificationRead(id int64, userID int64) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`

	ctx, cancel := r.queryCtx()
	defer cancel()

	if _, err := r.db.ExecContext(ctx, query, id, userID); err != nil {
		return err
	}

	return nil
}
