package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/roster/internal/roster/domain"
	"github.com/aussiebroadwan/roster/internal/roster/media"
	"github.com/aussiebroadwan/roster/internal/roster/notify"
	"github.com/aussiebroadwan/roster/internal/roster/policy"
	"github.com/aussiebroadwan/roster/internal/roster/store"
	"github.com/aussiebroadwan/roster/pkg/slogx"
)

// DefaultPendingTTL is how long an application may wait for a decision.
const DefaultPendingTTL = 48 * time.Hour

// LifecycleService moves applicants out of the pending state.
type LifecycleService struct {
	Store      store.Store
	Media      media.Store
	Notifier   notify.Notifier
	PendingTTL time.Duration
	Clock      Clock
}

// Approve activates a pending member the actor moderates.
func (s *LifecycleService) Approve(ctx context.Context, actor policy.Actor, memberID string) error {
	l := slogx.FromContext(ctx)

	target, err := s.authorizeTarget(ctx, actor, memberID)
	if err != nil {
		return err
	}

	ok, err := s.Store.Members().Approve(ctx, target.ID, s.Clock.now())
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}

	s.Notifier.Notify(ctx, notify.Approved(target.Email))
	l.Info("member approved",
		slog.String("member_id", target.ID),
		slog.String("moderator_id", actor.ID()),
	)
	return nil
}

// Reject deletes a pending member the actor moderates and tells them so.
func (s *LifecycleService) Reject(ctx context.Context, actor policy.Actor, memberID string) error {
	l := slogx.FromContext(ctx)

	target, err := s.authorizeTarget(ctx, actor, memberID)
	if err != nil {
		return err
	}
	if target.IsApproved() {
		return ErrConflict
	}

	// The email was captured with target; the row is gone after this.
	ok, err := s.Store.Members().DeletePending(ctx, target.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}

	s.removeMedia(ctx, target.ID)
	s.Notifier.Notify(ctx, notify.Declined(target.Email))
	l.Info("member declined",
		slog.String("member_id", target.ID),
		slog.String("moderator_id", actor.ID()),
	)
	return nil
}

// ExpireStale deletes every application older than the pending TTL and
// returns how many were removed. Nobody is notified.
func (s *LifecycleService) ExpireStale(ctx context.Context) (int, error) {
	ttl := s.PendingTTL
	if ttl <= 0 {
		ttl = DefaultPendingTTL
	}

	ids, err := s.Store.Members().DeleteStalePending(ctx, s.Clock.now().Add(-ttl))
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		s.removeMedia(ctx, id)
	}
	if len(ids) > 0 {
		slogx.FromContext(ctx).Info("expired stale applications", slog.Int("count", len(ids)))
	}
	return len(ids), nil
}

// ExpireStaleAs is the admin-triggered sweep.
func (s *LifecycleService) ExpireStaleAs(ctx context.Context, actor policy.Actor) (int, error) {
	if !policy.CanAdminister(actor) {
		return 0, ErrForbidden
	}
	return s.ExpireStale(ctx)
}

// ListPending returns the pending members of the actor's departments,
// optionally narrowed to departmentID.
func (s *LifecycleService) ListPending(
	ctx context.Context,
	actor policy.Actor,
	departmentID string,
) ([]domain.MemberSummary, error) {
	depts := actor.ModeratedDepartments()
	if len(depts) == 0 {
		return nil, ErrForbidden
	}
	if departmentID != "" {
		if !policy.CanListPending(actor, departmentID) {
			return nil, ErrForbidden
		}
		depts = []string{departmentID}
	}
	return s.Store.Members().ListPending(ctx, depts)
}

// authorizeTarget loads the target first so a missing member is reported
// as not found before any permission check.
func (s *LifecycleService) authorizeTarget(
	ctx context.Context,
	actor policy.Actor,
	memberID string,
) (domain.Member, error) {
	target, err := s.Store.Members().GetMemberByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Member{}, ErrNotFound
		}
		return domain.Member{}, err
	}
	if !policy.CanModerate(actor, target.DepartmentIDs) {
		slogx.FromContext(ctx).Warn("moderation outside own department",
			slog.String("member_id", target.ID),
			slog.String("actor_id", actor.ID()),
		)
		return domain.Member{}, ErrForbidden
	}
	return target, nil
}

func (s *LifecycleService) removeMedia(ctx context.Context, memberID string) {
	if err := s.Media.DeletePrefix(ctx, media.MemberPrefix(memberID)); err != nil {
		slogx.FromContext(ctx).Warn("failed to remove member media",
			slog.Any("error", err), slog.String("member_id", memberID))
	}
}
