package notificationrepo

import (
	"context"

	"gorm.io/gorm"

	"github.com/shoplite/messaging-api/internal/domain/notification"
	"github.com/shoplite/messaging-api/internal/domain/query"
	"github.com/shoplite/messaging-api/internal/infrastructure/database/dbschema"
	"github.com/shoplite/messaging-api/internal/utils/platformerrors"
)

type NotificationGormRepository struct {
	db *gorm.DB
}

var _ notification.Repository = (*NotificationGormRepository)(nil)

func NewNotificationGormRepository(db *gorm.DB) notification.Repository {
	return &NotificationGormRepository{db}
}

// Create implements notification.Repository.
func (repo *NotificationGormRepository) Create(ctx context.Context, n *notification.Notification) error {
	model := dbschema.NewSchemaNotification(n)
	if err := repo.db.WithContext(ctx).Create(model).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabase, "failed to create notification", err)
	}
	n.CreatedAt = model.CreatedAt
	n.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByReceiver implements notification.Repository. Sender profiles are
// attached from the user directory in a second query.
func (repo *NotificationGormRepository) FindByReceiver(ctx context.Context, userID string, p query.Pagination) ([]*notification.Notification, int64, error) {
	var total int64
	if err := repo.db.WithContext(ctx).Model(&dbschema.Notification{}).
		Where("receiver_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabase, "failed to count notifications", err)
	}

	var rows []*dbschema.Notification
	if err := repo.db.WithContext(ctx).
		Where("receiver_id = ?", userID).
		Order("created_at DESC").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabase, "failed to find notifications", err)
	}

	result := make([]*notification.Notification, 0, len(rows))
	senderIDs := make([]string, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		result = append(result, row.EtoD())
		if !seen[row.SenderID] {
			seen[row.SenderID] = true
			senderIDs = append(senderIDs, row.SenderID)
		}
	}

	if len(senderIDs) > 0 {
		var senders []*dbschema.User
		if err := repo.db.WithContext(ctx).
			Where("id IN ?", senderIDs).
			Find(&senders).Error; err != nil {
			return nil, 0, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabase, "failed to load notification senders", err)
		}
		profiles := make(map[string]*dbschema.User, len(senders))
		for _, sender := range senders {
			profiles[sender.ID] = sender
		}
		for _, n := range result {
			if sender, ok := profiles[n.SenderID]; ok {
				n.Sender = sender.EtoD()
			}
		}
	}

	return result, total, nil
}

// CountUnread implements notification.Repository.
func (repo *NotificationGormRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var unread int64
	err := repo.db.WithContext(ctx).Model(&dbschema.Notification{}).
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Count(&unread).Error
	if err != nil {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabase, "failed to count unread notifications", err)
	}
	return unread, nil
}

// MarkRead implements notification.Repository. Matching zero rows is not an
// error: already-read and already-deleted rows satisfy the postcondition.
func (repo *NotificationGormRepository) MarkRead(ctx context.Context, userID string, id *string) error {
	sql := repo.db.WithContext(ctx).Model(&dbschema.Notification{}).
		Where("receiver_id = ? AND is_read = ?", userID, false)
	if id != nil {
		sql = sql.Where("id = ?", *id)
	}
	if err := sql.Update("is_read", true).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabase, "failed to mark notifications read", err)
	}
	return nil
}

// Delete implements notification.Repository. Idempotent for the same reason
// as MarkRead.
func (repo *NotificationGormRepository) Delete(ctx context.Context, userID string, id *string) error {
	sql := repo.db.WithContext(ctx).Where("receiver_id = ?", userID)
	if id != nil {
		sql = sql.Where("id = ?", *id)
	}
	if err := sql.Delete(&dbschema.Notification{}).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabase, "failed to delete notifications", err)
	}
	return nil
}
