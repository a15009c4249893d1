package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/roster/internal/roster/domain"
	"github.com/aussiebroadwan/roster/internal/roster/policy"
	"github.com/aussiebroadwan/roster/internal/roster/store"
	"github.com/aussiebroadwan/roster/pkg/slogx"
)

// ModeratorService hands out department seats.
type ModeratorService struct {
	Store store.Store
	Clock Clock
}

// Assign seats memberID as rank in departmentID, displacing the current
// holder of that seat and vacating any other seat the member held.
func (s *ModeratorService) Assign(
	ctx context.Context,
	actor policy.Actor,
	memberID, departmentID string,
	rank domain.Rank,
) (domain.Moderator, error) {
	l := slogx.FromContext(ctx)

	if !policy.CanAdminister(actor) {
		return domain.Moderator{}, ErrForbidden
	}
	if !rank.Valid() {
		return domain.Moderator{}, Invalid("rank", `must be "primary" or "deputy"`)
	}

	// 1. Resolve member and department
	m, err := s.Store.Members().GetMemberByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Moderator{}, ErrNotFound
		}
		return domain.Moderator{}, err
	}
	dept, err := s.Store.Departments().GetDepartment(ctx, departmentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Moderator{}, ErrNotFound
		}
		return domain.Moderator{}, err
	}

	// 2. Only approved members of the department may hold its seats
	if !m.InDepartment(dept.ID) || !m.IsApproved() {
		return domain.Moderator{}, ErrNotAffiliated
	}

	seat := domain.Moderator{
		MemberID:        m.ID,
		DepartmentID:    dept.ID,
		Rank:            rank,
		AssignedAt:      s.Clock.now(),
		DepartmentTitle: dept.Title,
	}

	// 3. Displace and install together
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Moderators().DeleteByDepartmentRank(ctx, dept.ID, rank); err != nil {
			return err
		}
		if err := tx.Moderators().DeleteByMember(ctx, m.ID); err != nil {
			return err
		}
		return tx.Moderators().CreateModerator(ctx, seat)
	})
	if err != nil {
		l.Error("failed to assign moderator", slog.Any("error", err))
		return domain.Moderator{}, err
	}

	l.Info("moderator assigned",
		slog.String("member_id", m.ID),
		slog.String("department_id", dept.ID),
		slog.String("rank", string(rank)),
		slog.String("actor_id", actor.ID()),
	)
	return seat, nil
}
