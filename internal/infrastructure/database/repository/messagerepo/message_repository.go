package messagerepo

import (
	"context"

	"gorm.io/gorm"

	"github.com/shoplite/messaging-api/internal/domain/message"
	"github.com/shoplite/messaging-api/internal/domain/query"
	"github.com/shoplite/messaging-api/internal/infrastructure/database/dbschema"
	"github.com/shoplite/messaging-api/internal/utils/platformerrors"
)

type MessageGormRepository struct {
	db *gorm.DB
}

var _ message.Repository = (*MessageGormRepository)(nil)

func NewMessageGormRepository(db *gorm.DB) message.Repository {
	return &MessageGormRepository{db}
}

// Create implements message.Repository.
func (repo *MessageGormRepository) Create(ctx context.Context, msg *message.Message) error {
	model := dbschema.NewSchemaMessage(msg)
	if err := repo.db.WithContext(ctx).Create(model).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabase, "failed to create message", err)
	}
	msg.CreatedAt = model.CreatedAt
	msg.UpdatedAt = model.UpdatedAt
	return nil
}

// FindBetween implements message.Repository.
func (repo *MessageGormRepository) FindBetween(ctx context.Context, userA, userB string, p query.Pagination) ([]*message.Message, int64, error) {
	const betweenCond = "(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)"

	var total int64
	if err := repo.db.WithContext(ctx).Model(&dbschema.Message{}).
		Where(betweenCond, userA, userB, userB, userA).
		Count(&total).Error; err != nil {
		return nil, 0, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabase, "failed to count messages", err)
	}

	var rows []*dbschema.Message
	if err := repo.db.WithContext(ctx).
		Where(betweenCond, userA, userB, userB, userA).
		Order("created_at DESC").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabase, "failed to find messages", err)
	}

	result := make([]*message.Message, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.EtoD())
	}
	return result, total, nil
}

// MarkConversationRead implements message.Repository.
func (repo *MessageGormRepository) MarkConversationRead(ctx context.Context, readerID, senderID string) error {
	err := repo.db.WithContext(ctx).Model(&dbschema.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", senderID, readerID, false).
		Update("is_read", true).Error
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabase, "failed to mark conversation read", err)
	}
	return nil
}

// SummarizeCounterparts implements message.Repository. Both directions of
// every exchange are fetched newest first and folded into per-counterpart
// tuples in memory.
func (repo *MessageGormRepository) SummarizeCounterparts(ctx context.Context, userID string) ([]message.CounterpartSummary, error) {
	var rows []dbschema.Message
	err := repo.db.WithContext(ctx).
		Select("sender_id", "receiver_id", "is_read", "created_at").
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabase, "failed to summarize counterparts", err)
	}

	index := make(map[string]int)
	result := make([]message.CounterpartSummary, 0)
	for _, row := range rows {
		counterpart := row.ReceiverID
		inbound := false
		if row.ReceiverID == userID {
			counterpart = row.SenderID
			inbound = true
		}

		i, ok := index[counterpart]
		if !ok {
			i = len(result)
			index[counterpart] = i
			// Rows arrive newest first, so the first row seen for a
			// counterpart carries the exchange's last message time.
			result = append(result, message.CounterpartSummary{
				CounterpartID: counterpart,
				LastMessageAt: row.CreatedAt,
			})
		}
		if inbound && !row.IsRead {
			result[i].UnreadCount++
		}
	}
	return result, nil
}
