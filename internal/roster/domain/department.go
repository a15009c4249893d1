package domain

// Department is an activity unit members join. IDs are stable slugs.
type Department struct {
	ID      string
	Title   string
	Heading string
}
