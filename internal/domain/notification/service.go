package notification

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/shoplite/messaging-api/internal/domain/identity"
	"github.com/shoplite/messaging-api/internal/domain/presence"
	"github.com/shoplite/messaging-api/internal/domain/query"
	"github.com/shoplite/messaging-api/internal/infrastructure/metrics"
	"github.com/shoplite/messaging-api/internal/utils/idgen"
	"github.com/shoplite/messaging-api/internal/utils/platformerrors"
)

// EventReceiveNotification is pushed to every present member of the target
// role group.
const EventReceiveNotification = "receive_notification"

// Presence is the group-lookup side of the presence registry the
// broadcaster needs.
type Presence interface {
	Online(userIDs []string) map[string]presence.Handle
}

// Service fans out role-targeted notifications and serves the notification
// read paths.
type Service interface {
	// Broadcast persists one row per current member of the target role,
	// then pushes the unmodified payload to whichever members are present.
	// An empty role group persists nothing and is not an error. The
	// per-recipient writes are independent; a partial failure leaves the
	// rows that did persist in place.
	Broadcast(ctx context.Context, params BroadcastParams) ([]*Notification, error)

	// List returns the user's notifications newest first, with total and
	// unread counts.
	List(ctx context.Context, userID string, p query.Pagination) ([]*Notification, query.PageMeta, int64, error)

	// MarkRead marks one notification read, or all of the user's
	// notifications when id is nil. Idempotent.
	MarkRead(ctx context.Context, userID string, id *string) error

	// Delete removes one notification, or all of the user's notifications
	// when id is nil. Idempotent.
	Delete(ctx context.Context, userID string, id *string) error
}

type service struct {
	repo        Repository
	presence    Presence
	directory   identity.Directory
	pageLimit   int
	concurrency int
	log         zerolog.Logger
}

// NewService creates the notification broadcaster and query service.
func NewService(repo Repository, reg Presence, directory identity.Directory, pageLimit, concurrency int, log zerolog.Logger) Service {
	return &service{
		repo:        repo,
		presence:    reg,
		directory:   directory,
		pageLimit:   pageLimit,
		concurrency: concurrency,
		log:         log.With().Str("component", "notification-service").Logger(),
	}
}

func (s *service) Broadcast(ctx context.Context, params BroadcastParams) ([]*Notification, error) {
	if !params.TargetRole.Valid() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "unknown target role", nil)
	}

	// Membership comes from the directory, not from presence: offline
	// accounts get a durable row too.
	members, err := s.directory.ListByRole(ctx, params.TargetRole)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, nil
	}

	var (
		mu        sync.Mutex
		persisted []*Notification
	)

	// Storage-level fan-out: N independent, non-transactional writes. A
	// failed write for one recipient does not roll back the others.
	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for _, member := range members {
		member := member
		g.Go(func() error {
			id, err := idgen.GenerateSecureID("ntf", 24)
			if err != nil {
				return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal, "failed to generate notification id", err)
			}

			n := &Notification{
				ID:         id,
				SenderID:   params.SenderID,
				ReceiverID: member.ID,
				Type:       params.Type,
				Title:      params.Title,
				Content:    params.Content,
				Path:       params.Path,
			}
			if err := s.repo.Create(ctx, n); err != nil {
				s.log.Error().Err(err).
					Str("receiver_id", member.ID).
					Str("type", params.Type).
					Msg("failed to persist notification row")
				return err
			}

			mu.Lock()
			persisted = append(persisted, n)
			mu.Unlock()
			return nil
		})
	}
	fanoutErr := g.Wait()

	// Immediate push for whoever is online, regardless of how the other
	// writes fared. Only recipients whose row persisted are pushed to.
	payload := &PushPayload{
		Type:    params.Type,
		Title:   params.Title,
		Content: params.Content,
		Path:    params.Path,
		Sender:  params.SenderID,
	}
	recipients := make([]string, 0, len(persisted))
	for _, n := range persisted {
		recipients = append(recipients, n.ReceiverID)
	}
	online := s.presence.Online(recipients)
	for _, handle := range online {
		handle.Push(EventReceiveNotification, payload)
	}

	metrics.RecordNotificationBroadcast(len(persisted), len(online))
	s.log.Info().
		Str("type", params.Type).
		Str("target_role", string(params.TargetRole)).
		Int("persisted", len(persisted)).
		Int("pushed", len(online)).
		Msg("notification broadcast")

	if fanoutErr != nil {
		return persisted, platformerrors.AsError(ctx, platformerrors.LayerDomain, fanoutErr, "notification fan-out partially failed")
	}
	return persisted, nil
}

func (s *service) List(ctx context.Context, userID string, p query.Pagination) ([]*Notification, query.PageMeta, int64, error) {
	p = p.Normalize(s.pageLimit)

	rows, total, err := s.repo.FindByReceiver(ctx, userID, p)
	if err != nil {
		return nil, query.PageMeta{}, 0, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, query.PageMeta{}, 0, err
	}

	return rows, query.NewPageMeta(total, p), unread, nil
}

func (s *service) MarkRead(ctx context.Context, userID string, id *string) error {
	return s.repo.MarkRead(ctx, userID, id)
}

func (s *service) Delete(ctx context.Context, userID string, id *string) error {
	return s.repo.Delete(ctx, userID, id)
}
