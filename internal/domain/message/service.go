package message

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/shoplite/messaging-api/internal/domain/identity"
	"github.com/shoplite/messaging-api/internal/domain/presence"
	"github.com/shoplite/messaging-api/internal/domain/query"
	"github.com/shoplite/messaging-api/internal/infrastructure/metrics"
	"github.com/shoplite/messaging-api/internal/utils/idgen"
	"github.com/shoplite/messaging-api/internal/utils/platformerrors"
)

// EventReceiveMessage is pushed to the addressed party of a direct message.
const EventReceiveMessage = "receive_message"

// Presence is the lookup side of the presence registry the router needs.
type Presence interface {
	Lookup(userID string) presence.Handle
}

// Service routes direct messages and serves the conversation read paths.
type Service interface {
	// Deliver persists the message, then pushes it to the receiver if they
	// currently hold a connection. Persistence failure stops the operation;
	// an absent receiver does not.
	Deliver(ctx context.Context, params DeliverParams) (*Message, error)

	// Thread returns the conversation between viewer and peer, newest first.
	// Viewing is not read-only: every unread row addressed to the viewer
	// from the peer is marked read.
	Thread(ctx context.Context, viewerID, peerID string, p query.Pagination) ([]*Message, query.PageMeta, error)

	// Receivers lists every identity of the role opposite callerRole with
	// the state of their exchange with the user, most recent exchange first.
	Receivers(ctx context.Context, userID string, callerRole identity.Role) ([]*ReceiverSummary, error)
}

type service struct {
	repo      Repository
	presence  Presence
	directory identity.Directory
	pageLimit int
	log       zerolog.Logger
}

// NewService creates the message router and query service.
func NewService(repo Repository, reg Presence, directory identity.Directory, pageLimit int, log zerolog.Logger) Service {
	return &service{
		repo:      repo,
		presence:  reg,
		directory: directory,
		pageLimit: pageLimit,
		log:       log.With().Str("component", "message-service").Logger(),
	}
}

func (s *service) Deliver(ctx context.Context, params DeliverParams) (*Message, error) {
	id, err := idgen.GenerateSecureID("msg", 24)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal, "failed to generate message id", err)
	}

	msg := &Message{
		ID:             id,
		ConversationID: params.ConversationID,
		SenderID:       params.SenderID,
		ReceiverID:     params.ReceiverID,
		Content:        params.Content,
		IsRead:         false,
	}

	// Persist before any push: a receiver must never observe a message a
	// crash could lose.
	if err := s.repo.Create(ctx, msg); err != nil {
		s.log.Error().Err(err).
			Str("sender_id", params.SenderID).
			Str("receiver_id", params.ReceiverID).
			Msg("failed to persist message")
		return nil, err
	}

	if handle := s.presence.Lookup(params.ReceiverID); handle != nil {
		handle.Push(EventReceiveMessage, &ReceivePayload{Message: msg, IsSender: false})
		metrics.RecordMessageDelivered()
	} else {
		// Not an error: the message stays durably queryable.
		metrics.RecordDeliveryMiss()
		s.log.Debug().
			Str("receiver_id", params.ReceiverID).
			Str("message_id", msg.ID).
			Msg("receiver offline, store-only delivery")
	}

	return msg, nil
}

func (s *service) Thread(ctx context.Context, viewerID, peerID string, p query.Pagination) ([]*Message, query.PageMeta, error) {
	p = p.Normalize(s.pageLimit)

	// Read-triggers-write: opening the thread marks the peer's unread rows
	// as read before the page is fetched, so the viewer sees them read.
	if err := s.repo.MarkConversationRead(ctx, viewerID, peerID); err != nil {
		return nil, query.PageMeta{}, err
	}

	msgs, total, err := s.repo.FindBetween(ctx, viewerID, peerID, p)
	if err != nil {
		return nil, query.PageMeta{}, err
	}

	return msgs, query.NewPageMeta(total, p), nil
}

func (s *service) Receivers(ctx context.Context, userID string, callerRole identity.Role) ([]*ReceiverSummary, error) {
	counterparts, err := s.directory.ListByRole(ctx, callerRole.Opposite())
	if err != nil {
		return nil, err
	}

	summaries, err := s.repo.SummarizeCounterparts(ctx, userID)
	if err != nil {
		return nil, err
	}

	byCounterpart := make(map[string]CounterpartSummary, len(summaries))
	for _, sum := range summaries {
		byCounterpart[sum.CounterpartID] = sum
	}

	result := make([]*ReceiverSummary, 0, len(counterparts))
	for _, user := range counterparts {
		row := &ReceiverSummary{User: user}
		if sum, ok := byCounterpart[user.ID]; ok {
			last := sum.LastMessageAt
			row.LastMessageAt = &last
			row.UnreadCount = sum.UnreadCount
		}
		result = append(result, row)
	}

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i].LastMessageAt, result[j].LastMessageAt
		switch {
		case a == nil && b == nil:
			return result[i].User.Name < result[j].User.Name
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})

	return result, nil
}
