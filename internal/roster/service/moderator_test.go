package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/roster/internal/roster/domain"
	"github.com/aussiebroadwan/roster/internal/roster/store"
	"github.com/stretchr/testify/require"
)

func TestAssignModerator(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	staff := e.actor(t, e.addStaff(t, "staff@example.com", false).ID)

	a := e.addMember(t, "a@example.com", true, "media", "arts")
	b := e.addMember(t, "b@example.com", true, "media")

	seat, err := e.moderators.Assign(ctx, staff, a.ID, "media", domain.RankPrimary)
	require.NoError(t, err)
	require.Equal(t, "media", seat.DepartmentID)
	require.NotEmpty(t, seat.DepartmentTitle)

	// b takes the primary seat; a loses it.
	_, err = e.moderators.Assign(ctx, staff, b.ID, "media", domain.RankPrimary)
	require.NoError(t, err)

	_, err = e.store.Moderators().GetModeratorByMember(ctx, a.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	// a moves to arts deputy.
	_, err = e.moderators.Assign(ctx, staff, a.ID, "arts", domain.RankDeputy)
	require.NoError(t, err)
	_, err = e.moderators.Assign(ctx, staff, a.ID, "media", domain.RankDeputy)
	require.NoError(t, err)

	seats, err := e.store.Moderators().ListByDepartment(ctx, "arts")
	require.NoError(t, err)
	require.Empty(t, seats)

	seats, err = e.store.Moderators().ListByDepartment(ctx, "media")
	require.NoError(t, err)
	require.Len(t, seats, 2)
}

func TestAssignModeratorErrors(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	staff := e.actor(t, e.addStaff(t, "staff@example.com", false).ID)

	member := e.addMember(t, "a@example.com", true, "media")
	pending := e.addMember(t, "p@example.com", false, "media")

	_, err := e.moderators.Assign(ctx, e.actor(t, member.ID), member.ID, "media", domain.RankPrimary)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = e.moderators.Assign(ctx, staff, member.ID, "media", "chief")
	require.ErrorIs(t, err, ErrValidation)

	_, err = e.moderators.Assign(ctx, staff, "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV", "media", domain.RankPrimary)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = e.moderators.Assign(ctx, staff, member.ID, "cooking", domain.RankPrimary)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = e.moderators.Assign(ctx, staff, member.ID, "arts", domain.RankPrimary)
	require.ErrorIs(t, err, ErrNotAffiliated)

	_, err = e.moderators.Assign(ctx, staff, pending.ID, "media", domain.RankPrimary)
	require.ErrorIs(t, err, ErrNotAffiliated)
}
