package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/roster/internal/roster/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Drivers implement it and expose
// sub-repositories so a transaction-scoped Store hands out the same repos.
type Store interface {
	Members() Members
	Departments() Departments
	Moderators() Moderators
	Achievements() Achievements
	Posts() Posts
	RefreshTokens() RefreshTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Members interface {
	// CreateMember inserts a member and its department links. A duplicate
	// email or username yields ErrAlreadyExists.
	CreateMember(ctx context.Context, m domain.Member) error

	// GetMemberByID returns the member with its department ids.
	GetMemberByID(ctx context.Context, id string) (domain.Member, error)

	// GetMemberByEmail matches the email case-insensitively.
	GetMemberByEmail(ctx context.Context, email string) (domain.Member, error)

	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)

	// HasSuperuser reports whether any superuser exists.
	HasSuperuser(ctx context.Context) (bool, error)

	// SetOTP stores a fresh login code hash and issue time.
	SetOTP(ctx context.Context, memberID string, otp domain.OTP) error

	// ConsumeOTP clears the stored code only if it is still the one issued at
	// issuedAt. It reports whether this call consumed it.
	ConsumeOTP(ctx context.Context, memberID string, issuedAt time.Time) (bool, error)

	// Approve sets last_login on a pending member. It reports false when the
	// member was already approved (or does not exist).
	Approve(ctx context.Context, memberID string, at time.Time) (bool, error)

	// DeletePending deletes the member only while it is pending.
	DeletePending(ctx context.Context, memberID string) (bool, error)

	// DeleteStalePending deletes every pending member that joined at or
	// before cutoff and returns their ids.
	DeleteStalePending(ctx context.Context, cutoff time.Time) ([]string, error)

	UpdateSettings(ctx context.Context, memberID string, s domain.Settings) error
	SetStaff(ctx context.Context, memberID string, staff bool) error

	// ExistingIDs returns the subset of ids that exist, deduplicated, in
	// input order.
	ExistingIDs(ctx context.Context, ids []string) ([]string, error)

	// AddScore increments score by delta for every id in one statement.
	AddScore(ctx context.Context, ids []string, delta int64) error

	// Search returns approved members whose name segments contain query.
	Search(ctx context.Context, query string, limit int) ([]domain.MemberSummary, error)

	// ListPending returns distinct pending members affiliated with any of
	// departmentIDs.
	ListPending(ctx context.Context, departmentIDs []string) ([]domain.MemberSummary, error)
}

type Departments interface {
	ListDepartments(ctx context.Context) ([]domain.Department, error)
	GetDepartment(ctx context.Context, id string) (domain.Department, error)

	// ExistingIDs returns the subset of ids that name a department.
	ExistingIDs(ctx context.Context, ids []string) ([]string, error)
}

type Moderators interface {
	// GetModeratorByMember returns the member's seat, with the department
	// title filled in.
	GetModeratorByMember(ctx context.Context, memberID string) (domain.Moderator, error)

	// ListByDepartment returns the seats of one department.
	ListByDepartment(ctx context.Context, departmentID string) ([]domain.Moderator, error)

	DeleteByDepartmentRank(ctx context.Context, departmentID string, rank domain.Rank) error
	DeleteByMember(ctx context.Context, memberID string) error
	CreateModerator(ctx context.Context, m domain.Moderator) error
}

type Achievements interface {
	// CreateAchievement inserts the achievement and links a.MemberIDs.
	CreateAchievement(ctx context.Context, a domain.Achievement) error

	// ListForMember pages a member's achievements newest first. An empty
	// cursor starts from the newest; otherwise only ids below cursor are
	// returned.
	ListForMember(ctx context.Context, memberID, cursor string, limit int) ([]domain.Achievement, error)
}

type Posts interface {
	CreatePost(ctx context.Context, p domain.Post) error

	// ListFeed pages every post newest first, like ListForMember.
	ListFeed(ctx context.Context, cursor string, limit int) ([]domain.Post, error)

	// ListDigest returns posts since `since` authored by current seat holders
	// of any department the member belongs to.
	ListDigest(ctx context.Context, memberID string, since time.Time) ([]domain.Post, error)
}

type RefreshTokens interface {
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// RevokeRefreshToken revokes an unrevoked token. It reports false when
	// the token was already revoked, so concurrent rotations cannot both win.
	RevokeRefreshToken(ctx context.Context, hash string) (bool, error)

	// DeleteExpiredRefreshTokens removes tokens expired before now.
	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}
