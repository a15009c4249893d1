package domain

import (
	"time"

	"github.com/aussiebroadwan/roster/pkg/cryptox"
)

const (
	// OTPLifetime is how long an issued login code stays valid.
	OTPLifetime = 5 * time.Minute

	// OTPResendCooldown is the minimum gap between two issued codes.
	OTPResendCooldown = 180 * time.Second
)

// OTP is the member's current login code. Only the argon2 hash of the code
// is kept. The zero value means no code is outstanding.
type OTP struct {
	CodeHash string
	IssuedAt *time.Time
}

// NewOTP hashes code and stamps it with now.
func NewOTP(code string, now time.Time) (OTP, error) {
	hash, err := cryptox.HashSecret(code)
	if err != nil {
		return OTP{}, err
	}
	issued := now.UTC()
	return OTP{CodeHash: hash, IssuedAt: &issued}, nil
}

// IsZero reports whether no code is outstanding.
func (o OTP) IsZero() bool { return o.CodeHash == "" || o.IssuedAt == nil }

// ExpiredAt reports whether more than OTPLifetime has passed since issue.
// A zero OTP is always expired.
func (o OTP) ExpiredAt(now time.Time) bool {
	if o.IsZero() {
		return true
	}
	return now.Sub(*o.IssuedAt) > OTPLifetime
}

// CooldownRemaining returns the whole seconds left before another code may be
// issued, or 0 when a resend is allowed.
func (o OTP) CooldownRemaining(now time.Time) int {
	if o.IsZero() {
		return 0
	}
	elapsed := now.Sub(*o.IssuedAt)
	if elapsed >= OTPResendCooldown || elapsed < 0 {
		return 0
	}
	return int(OTPResendCooldown/time.Second) - int(elapsed/time.Second)
}

// Matches reports whether code is the outstanding code.
func (o OTP) Matches(code string) bool {
	if o.IsZero() {
		return false
	}
	return cryptox.VerifySecret(code, o.CodeHash) == nil
}
