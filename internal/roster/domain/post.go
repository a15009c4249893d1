package domain

import "time"

// Post is an announcement by a moderator. Immutable.
type Post struct {
	ID           string
	Heading      string
	Description  string
	Image        string
	PostedAt     time.Time
	AuthorID     string
	DepartmentID string
}
