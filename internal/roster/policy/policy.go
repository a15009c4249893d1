// Package policy decides what an actor may see and do. It holds no state;
// callers load the actor's member record and moderator seat from the store
// for every request and pass them in.
package policy

import (
	"slices"

	"github.com/aussiebroadwan/roster/internal/roster/domain"
)

// Tier orders actors by privilege.
type Tier int

const (
	TierAnonymous Tier = iota
	TierMember
	TierModerator
	TierStaff
	TierSuperuser
)

func (t Tier) String() string {
	switch t {
	case TierMember:
		return "member"
	case TierModerator:
		return "moderator"
	case TierStaff:
		return "staff"
	case TierSuperuser:
		return "superuser"
	default:
		return "anonymous"
	}
}

// Actor is whoever issued the request. The zero value is anonymous.
type Actor struct {
	Member    *domain.Member
	Moderator *domain.Moderator
}

// Anonymous returns the unauthenticated actor.
func Anonymous() Actor { return Actor{} }

// ID returns the member id of the actor, or "" when anonymous.
func (a Actor) ID() string {
	if a.Member == nil {
		return ""
	}
	return a.Member.ID
}

// Tier returns the highest tier the actor holds.
func (a Actor) Tier() Tier {
	switch {
	case a.Member == nil:
		return TierAnonymous
	case a.Member.IsSuperuser:
		return TierSuperuser
	case a.Member.IsStaff:
		return TierStaff
	case a.Moderator != nil:
		return TierModerator
	default:
		return TierMember
	}
}

// ModeratedDepartments lists the departments the actor holds a seat in.
func (a Actor) ModeratedDepartments() []string {
	if a.Member == nil || a.Moderator == nil {
		return nil
	}
	return []string{a.Moderator.DepartmentID}
}

// IsStaff reports whether the actor is staff or superuser.
func (a Actor) IsStaff() bool { return a.Tier() >= TierStaff }

// CanPost requires a moderator seat.
func CanPost(a Actor) bool {
	return a.Member != nil && a.Moderator != nil
}

// CanModerate requires the actor's moderated departments to intersect
// targetDepartments.
func CanModerate(a Actor, targetDepartments []string) bool {
	for _, dept := range a.ModeratedDepartments() {
		if slices.Contains(targetDepartments, dept) {
			return true
		}
	}
	return false
}

// CanListPending requires the actor to moderate departmentID itself.
func CanListPending(a Actor, departmentID string) bool {
	return slices.Contains(a.ModeratedDepartments(), departmentID)
}

// CanAdminister covers achievement creation, moderator assignment and the
// expiry sweep.
func CanAdminister(a Actor) bool { return a.Tier() >= TierStaff }

func CanToggleLock(a Actor) bool { return a.Tier() == TierSuperuser }

func CanGrantStaff(a Actor) bool { return a.Tier() == TierSuperuser }

// SearchImageVisible reports whether a search result may carry the target's
// personal image.
func SearchImageVisible(a Actor, target domain.MemberSummary) bool {
	if a.IsStaff() {
		return true
	}
	return target.Settings.Shows("personal_image")
}
