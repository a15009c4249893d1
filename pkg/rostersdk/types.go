package rostersdk

import (
	"encoding/json"

	"github.com/aussiebroadwan/roster/pkg/jwtx"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty" swaggertype:"object"`
	Error   *ErrorBody      `json:"error,omitempty"`
}

// ErrorBody is the error member of a failed envelope.
type ErrorBody struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	RetryAfter int               `json:"retry_after,omitempty"`
}

// ErrorResponse documents a failed envelope.
type ErrorResponse struct {
	Success bool      `json:"success" example:"false"`
	Error   ErrorBody `json:"error"`
}

// ============================================================================
// Health
// ============================================================================

type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
	Media    string `json:"media,omitempty"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// JWKSResponse is the public key set used to verify access tokens.
type JWKSResponse jwtx.JWKS

// ============================================================================
// Authentication
// ============================================================================

// LoginRequest asks for a login code to be emailed.
type LoginRequest struct {
	Email string `json:"email" example:"member@example.com"`
}

// OTPRequest exchanges an emailed code for tokens.
type OTPRequest struct {
	Email string `json:"email" example:"member@example.com"`
	Code  string `json:"code" example:"042917"`
}

// RefreshRequest rotates a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse is an access/refresh token pair.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// LoginResponse is returned by a successful code verification.
type LoginResponse struct {
	Tokens   TokenResponse `json:"tokens"`
	MemberID string        `json:"member_id"`
	IsStaff  bool          `json:"is_staff"`
	IsMod    string        `json:"is_mod,omitempty"`
}

// ============================================================================
// Bootstrap
// ============================================================================

// BootstrapRequest creates the first superuser.
type BootstrapRequest struct {
	Email       string   `json:"email" example:"root@example.com"`
	FirstName   string   `json:"first_name" example:"Root"`
	LastName    string   `json:"last_name,omitempty"`
	Departments []string `json:"departments,omitempty"`
}

type BootstrapResponse struct {
	MemberID string `json:"member_id"`
}

// ============================================================================
// Members
// ============================================================================

// Department is one activity department.
type Department struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Heading string `json:"heading"`
}

// Profile is a member as rendered for the caller. Hidden fields are absent.
type Profile struct {
	ID                  string `json:"id"`
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	ThirdName           string `json:"third_name,omitempty"`
	FourthName          string `json:"fourth_name,omitempty"`
	MotherFullName      string `json:"mother_full_name,omitempty"`
	DateOfBirth         string `json:"date_of_birth,omitempty"`
	PhoneNumber         string `json:"phone_number,omitempty"`
	Email               string `json:"email,omitempty"`
	Address             string `json:"address,omitempty"`
	Gender              string `json:"gender,omitempty"`
	MaritalStatus       string `json:"marital_status,omitempty"`
	SkillsAndExp        string `json:"skills_and_exp"`
	AcademicAchievement string `json:"academic_achievement"`
	StudyingDepartment  string `json:"studying_department"`
	Stage               string `json:"stage"`
	StudyingShift       string `json:"studying_shift"`
	IDCardFront         string `json:"id_card_front,omitempty"`
	IDCardBack          string `json:"id_card_back,omitempty"`
	ResidenceIDFront    string `json:"residence_id_front,omitempty"`
	ResidenceIDBack     string `json:"residence_id_back,omitempty"`
	PersonalImage       string `json:"personal_image,omitempty"`
	Score               int64  `json:"score"`
	IsMod               string `json:"is_mod,omitempty"`
	IsModOf             string `json:"is_mod_of,omitempty"`
}

// SelfProfile is the caller's own record.
type SelfProfile struct {
	Profile
	Settings    Settings `json:"settings"`
	Departments []string `json:"departments"`
	IsStaff     bool     `json:"is_staff"`
	IsSuperuser bool     `json:"is_superuser"`
}

// Settings maps display preference keys to their value.
type Settings map[string]bool

// SearchResult is one member found by name.
type SearchResult struct {
	ID            string `json:"id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	ThirdName     string `json:"third_name"`
	FourthName    string `json:"fourth_name"`
	PersonalImage string `json:"personal_image,omitempty"`
}

// PendingMember is an application awaiting a decision.
type PendingMember struct {
	ID         string `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	ThirdName  string `json:"third_name"`
	FourthName string `json:"fourth_name"`
	Email      string `json:"email"`
}

// SignupResponse identifies a new pending application.
type SignupResponse struct {
	MemberID string `json:"member_id"`
	Username string `json:"username"`
}

// MemberRequest names the target of accept and decline.
type MemberRequest struct {
	MemberID string `json:"member_id"`
}

// StaffRequest sets or clears the staff flag.
type StaffRequest struct {
	IsStaff bool `json:"is_staff"`
}

// ModeratorRequest seats a member.
type ModeratorRequest struct {
	MemberID     string `json:"member_id"`
	DepartmentID string `json:"department_id" example:"media"`
	Rank         string `json:"rank" example:"primary" enums:"primary,deputy"`
}

type ModeratorResponse struct {
	MemberID     string `json:"member_id"`
	DepartmentID string `json:"department_id"`
	Rank         string `json:"rank"`
}

// ExpireResponse reports the stale-application sweep.
type ExpireResponse struct {
	DeletedCount int `json:"deleted_count"`
}

// LockResponse reports the kill-switch state.
type LockResponse struct {
	Locked bool `json:"locked"`
}

// ============================================================================
// Posts and achievements
// ============================================================================

type Post struct {
	ID           string `json:"id"`
	Heading      string `json:"heading"`
	Description  string `json:"description,omitempty"`
	Image        string `json:"image,omitempty"`
	PostedAt     string `json:"posted_at"`
	AuthorID     string `json:"author_id,omitempty"`
	DepartmentID string `json:"department_id,omitempty"`
}

type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Score       int64  `json:"score"`
	CreatedAt   string `json:"created_at"`
}

// AwardResponse lists the members credited by an award.
type AwardResponse struct {
	AchievementID string   `json:"achievement_id"`
	MemberIDs     []string `json:"member_ids"`
}

// Page is one cursor page, newest first.
type Page[T any] struct {
	Results    []T    `json:"results"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// PostPage and AchievementPage name the generic pages for API docs.
type (
	PostPage        = Page[Post]
	AchievementPage = Page[Achievement]
)

// OutboxMessage is a captured email, only exposed by test deployments.
type OutboxMessage struct {
	Kind    string `json:"kind"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Code    string `json:"code,omitempty"`
}
