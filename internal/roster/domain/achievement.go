package domain

import "time"

// Achievement awards Score to every beneficiary. Written once.
type Achievement struct {
	ID          string
	Title       string
	Description string
	Image       string
	Score       int64
	CreatedAt   time.Time
	MemberIDs   []string
}
