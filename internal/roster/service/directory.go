package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/roster/internal/roster/domain"
	"github.com/aussiebroadwan/roster/internal/roster/policy"
	"github.com/aussiebroadwan/roster/internal/roster/store"
	"github.com/aussiebroadwan/roster/pkg/slogx"
)

// SearchLimit caps the number of search results.
const SearchLimit = 50

// SearchResult is one member found by name.
type SearchResult struct {
	ID            string `json:"id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	ThirdName     string `json:"third_name"`
	FourthName    string `json:"fourth_name"`
	PersonalImage string `json:"personal_image,omitempty"`
}

// SelfView is what a member sees of their own record.
type SelfView struct {
	policy.Profile
	Settings    domain.Settings `json:"settings"`
	Departments []string        `json:"departments"`
	IsStaff     bool            `json:"is_staff"`
	IsSuperuser bool            `json:"is_superuser"`
}

// DirectoryService answers profile, search, department and settings
// queries, and holds the staff grant.
type DirectoryService struct {
	Store store.Store
}

// Profile renders an approved member for actor.
func (s *DirectoryService) Profile(ctx context.Context, actor policy.Actor, memberID string) (policy.Profile, error) {
	target, seat, err := s.approved(ctx, memberID)
	if err != nil {
		return policy.Profile{}, err
	}
	return policy.ProfileFor(actor, target, seat), nil
}

// AdminProfile renders the unredacted view. Staff only.
func (s *DirectoryService) AdminProfile(ctx context.Context, actor policy.Actor, memberID string) (policy.Profile, error) {
	if !policy.CanAdminister(actor) {
		return policy.Profile{}, ErrForbidden
	}
	target, seat, err := s.approved(ctx, memberID)
	if err != nil {
		return policy.Profile{}, err
	}
	return policy.AdminProfile(target, seat), nil
}

// Me returns the actor's own full record.
func (s *DirectoryService) Me(ctx context.Context, actor policy.Actor) (SelfView, error) {
	if actor.Member == nil {
		return SelfView{}, ErrUnauthorized
	}
	m := *actor.Member
	depts := m.DepartmentIDs
	if depts == nil {
		depts = []string{}
	}
	return SelfView{
		Profile:     policy.AdminProfile(m, actor.Moderator),
		Settings:    m.Settings.Effective(),
		Departments: depts,
		IsStaff:     m.IsStaff,
		IsSuperuser: m.IsSuperuser,
	}, nil
}

// Search finds approved members by any name segment.
func (s *DirectoryService) Search(ctx context.Context, actor policy.Actor, query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	out := []SearchResult{}
	if query == "" {
		return out, nil
	}

	found, err := s.Store.Members().Search(ctx, query, SearchLimit)
	if err != nil {
		return nil, err
	}
	for _, m := range found {
		r := SearchResult{
			ID:         m.ID,
			FirstName:  m.FirstName,
			LastName:   m.LastName,
			ThirdName:  m.ThirdName,
			FourthName: m.FourthName,
		}
		if policy.SearchImageVisible(actor, m) {
			r.PersonalImage = m.PersonalImage
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *DirectoryService) Departments(ctx context.Context) ([]domain.Department, error) {
	return s.Store.Departments().ListDepartments(ctx)
}

// Settings returns the actor's effective display settings.
func (s *DirectoryService) Settings(ctx context.Context, actor policy.Actor) (domain.Settings, error) {
	if actor.Member == nil {
		return nil, ErrUnauthorized
	}
	return actor.Member.Settings.Effective(), nil
}

// UpdateSettings merges recognized keys into the stored settings and
// returns the effective result. Unknown keys are ignored.
func (s *DirectoryService) UpdateSettings(
	ctx context.Context,
	actor policy.Actor,
	update map[string]bool,
) (domain.Settings, error) {
	if actor.Member == nil {
		return nil, ErrUnauthorized
	}
	merged := actor.Member.Settings.Merge(update)
	if err := s.Store.Members().UpdateSettings(ctx, actor.Member.ID, merged); err != nil {
		return nil, err
	}
	return merged.Effective(), nil
}

// GrantStaff sets or clears the staff flag of an approved member.
func (s *DirectoryService) GrantStaff(ctx context.Context, actor policy.Actor, memberID string, staff bool) error {
	if !policy.CanGrantStaff(actor) {
		return ErrForbidden
	}
	target, _, err := s.approved(ctx, memberID)
	if err != nil {
		return err
	}
	if err := s.Store.Members().SetStaff(ctx, target.ID, staff); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("staff flag changed",
		slog.String("member_id", target.ID),
		slog.Bool("is_staff", staff),
		slog.String("actor_id", actor.ID()),
	)
	return nil
}

// approved loads an approved member and their seat. Pending members are
// reported as not found.
func (s *DirectoryService) approved(ctx context.Context, memberID string) (domain.Member, *domain.Moderator, error) {
	m, err := s.Store.Members().GetMemberByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Member{}, nil, ErrNotFound
		}
		return domain.Member{}, nil, err
	}
	if !m.IsApproved() {
		return domain.Member{}, nil, ErrNotFound
	}
	seat, err := seatOf(ctx, s.Store, m.ID)
	if err != nil {
		return domain.Member{}, nil, err
	}
	return m, seat, nil
}
