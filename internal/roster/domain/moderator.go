package domain

import "time"

// Rank of a moderator seat.
type Rank string

const (
	RankPrimary Rank = "primary"
	RankDeputy  Rank = "deputy"
)

// Valid reports whether r is a known rank.
func (r Rank) Valid() bool { return r == RankPrimary || r == RankDeputy }

// Moderator is a seat held by a member in one department.
type Moderator struct {
	MemberID     string
	DepartmentID string
	Rank         Rank
	AssignedAt   time.Time

	// DepartmentTitle is filled on reads for profile rendering.
	DepartmentTitle string
}
