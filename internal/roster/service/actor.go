package service

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/roster/internal/roster/domain"
	"github.com/aussiebroadwan/roster/internal/roster/policy"
	"github.com/aussiebroadwan/roster/internal/roster/store"
)

// LoadActor resolves the authenticated member id into a policy.Actor. Flags
// and the moderator seat come from the store, never from token claims. An
// empty id yields the anonymous actor. A member that no longer exists or is
// not approved is ErrUnauthorized.
func LoadActor(ctx context.Context, st store.Store, memberID string) (policy.Actor, error) {
	if memberID == "" {
		return policy.Anonymous(), nil
	}

	m, err := st.Members().GetMemberByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return policy.Actor{}, ErrUnauthorized
		}
		return policy.Actor{}, err
	}
	if !m.IsApproved() {
		return policy.Actor{}, ErrUnauthorized
	}

	actor := policy.Actor{Member: &m}

	seat, err := st.Moderators().GetModeratorByMember(ctx, m.ID)
	switch {
	case err == nil:
		actor.Moderator = &seat
	case !errors.Is(err, store.ErrNotFound):
		return policy.Actor{}, err
	}
	return actor, nil
}

// seatOf returns the member's seat or nil.
func seatOf(ctx context.Context, st store.Store, memberID string) (*domain.Moderator, error) {
	seat, err := st.Moderators().GetModeratorByMember(ctx, memberID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &seat, nil
}
