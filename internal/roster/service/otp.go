package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/roster/internal/roster/domain"
	"github.com/aussiebroadwan/roster/internal/roster/notify"
	"github.com/aussiebroadwan/roster/internal/roster/store"
	"github.com/aussiebroadwan/roster/pkg/cryptox"
	"github.com/aussiebroadwan/roster/pkg/slogx"
)

// OTPService runs the emailed one-time code login.
type OTPService struct {
	Store    store.Store
	Tokens   *TokenService
	Notifier notify.Notifier
	Clock    Clock
}

// LoginResult is returned by a successful VerifyCode.
type LoginResult struct {
	Tokens   domain.TokenPair `json:"tokens"`
	MemberID string           `json:"member_id"`
	IsStaff  bool             `json:"is_staff"`
	IsMod    string           `json:"is_mod,omitempty"`
}

// RequestCode issues and emails a fresh login code to an approved member.
func (s *OTPService) RequestCode(ctx context.Context, email string) error {
	l := slogx.FromContext(ctx)
	now := s.Clock.now()

	// 1. Resolve an approved member
	m, err := s.approvedMember(ctx, email)
	if err != nil {
		return err
	}

	// 2. Enforce the resend cooldown. The check and the write below are not
	// atomic; a concurrent request may send one extra code.
	if remaining := m.OTP.CooldownRemaining(now); remaining > 0 {
		return &ThrottledError{RemainingSeconds: remaining}
	}

	// 3. Generate and store only the hash
	code, err := cryptox.GenerateLoginCode()
	if err != nil {
		return err
	}
	otp, err := domain.NewOTP(code, now)
	if err != nil {
		return err
	}
	if err := s.Store.Members().SetOTP(ctx, m.ID, otp); err != nil {
		l.Error("failed to store login code", slog.Any("error", err), slog.String("member_id", m.ID))
		return err
	}

	// 4. Send the plaintext code
	s.Notifier.Notify(ctx, notify.LoginCode(m.Email, code))
	l.Info("login code issued", slog.String("member_id", m.ID))
	return nil
}

// VerifyCode exchanges a login code for tokens. A code is consumed by the
// first successful verification.
func (s *OTPService) VerifyCode(ctx context.Context, email, code string) (LoginResult, error) {
	l := slogx.FromContext(ctx)
	now := s.Clock.now()

	m, err := s.approvedMember(ctx, email)
	if err != nil {
		return LoginResult{}, err
	}

	code = strings.TrimSpace(code)
	switch {
	case m.OTP.IsZero():
		return LoginResult{}, ErrExpiredCode
	case !m.OTP.Matches(code):
		l.Info("login code mismatch", slog.String("member_id", m.ID))
		return LoginResult{}, ErrInvalidCode
	case m.OTP.ExpiredAt(now):
		return LoginResult{}, ErrExpiredCode
	}

	var tokens domain.TokenPair
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		consumed, err := tx.Members().ConsumeOTP(ctx, m.ID, *m.OTP.IssuedAt)
		if err != nil {
			return err
		}
		if !consumed {
			return ErrExpiredCode
		}
		tokens, err = s.Tokens.Issue(ctx, tx, m)
		return err
	})
	if err != nil {
		return LoginResult{}, err
	}

	result := LoginResult{Tokens: tokens, MemberID: m.ID, IsStaff: m.IsStaff}
	seat, err := seatOf(ctx, s.Store, m.ID)
	if err != nil {
		return LoginResult{}, err
	}
	if seat != nil {
		result.IsMod = string(seat.Rank)
	}

	l.Info("member logged in", slog.String("member_id", m.ID))
	return result, nil
}

func (s *OTPService) approvedMember(ctx context.Context, email string) (domain.Member, error) {
	m, err := s.Store.Members().GetMemberByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Member{}, ErrUnknownAccount
		}
		return domain.Member{}, err
	}
	if !m.IsApproved() {
		return domain.Member{}, ErrNotYetApproved
	}
	return m, nil
}
