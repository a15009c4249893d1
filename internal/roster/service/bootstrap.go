package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/aussiebroadwan/roster/internal/roster/domain"
	"github.com/aussiebroadwan/roster/internal/roster/store"
	"github.com/aussiebroadwan/roster/pkg/idx"
	"github.com/aussiebroadwan/roster/pkg/slogx"
)

var (
	ErrBootstrapAlready      = errors.New("system already bootstrapped")
	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")
)

type BootstrapService struct {
	Store store.Store
	Token string // Pre-configured bootstrap token; empty disables bootstrap
	Clock Clock
}

// IsBootstrapped reports whether a superuser exists.
func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	return s.Store.Members().HasSuperuser(ctx)
}

// Bootstrap creates the first superuser, approved and staff, and returns
// its id. It only works while no superuser exists.
func (s *BootstrapService) Bootstrap(ctx context.Context, token string, req domain.BootstrapData) (string, error) {
	l := slogx.FromContext(ctx)

	// 1. Validate provided token
	if s.Token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.Token)) != 1 {
		l.Warn("unauthorized bootstrap attempt")
		return "", ErrBootstrapUnauthorized
	}

	// 2. Check if already bootstrapped
	bootstrapped, err := s.IsBootstrapped(ctx)
	if err != nil {
		return "", err
	}
	if bootstrapped {
		l.Warn("attempted bootstrap on already-bootstrapped system")
		return "", ErrBootstrapAlready
	}

	// 3. Validate the request
	req.Email = strings.TrimSpace(req.Email)
	verr := NewValidationError()
	if addr, err := mail.ParseAddress(req.Email); err != nil || addr.Address != req.Email {
		verr.Add("email", "must be a valid email address")
	}
	if strings.TrimSpace(req.FirstName) == "" {
		verr.Add("first_name", "is required")
	}
	if len(req.DepartmentIDs) > 0 {
		found, err := s.Store.Departments().ExistingIDs(ctx, req.DepartmentIDs)
		if err != nil {
			return "", err
		}
		if len(found) != len(dedupe(req.DepartmentIDs)) {
			verr.Add("departments", "unknown department")
		}
	}
	if err := verr.OrNil(); err != nil {
		return "", err
	}

	// 4. Create the superuser
	now := s.Clock.now()
	username, _, _ := strings.Cut(req.Email, "@")
	m := domain.Member{
		ID:            idx.NewAt(now).String(),
		Email:         req.Email,
		Username:      strings.ToLower(username),
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		DateOfBirth:   domain.DefaultDateOfBirth,
		Settings:      domain.Settings{},
		IsStaff:       true,
		IsSuperuser:   true,
		DateJoined:    now,
		LastLogin:     &now,
		DepartmentIDs: dedupe(req.DepartmentIDs),
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// Re-check inside the write lock so two bootstraps cannot both win
		exists, err := tx.Members().HasSuperuser(ctx)
		if err != nil {
			return err
		}
		if exists {
			return ErrBootstrapAlready
		}
		return tx.Members().CreateMember(ctx, m)
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return "", ErrConflict
		}
		if !errors.Is(err, ErrBootstrapAlready) {
			l.Error("failed to create superuser", slog.Any("error", err))
		}
		return "", err
	}

	l.Info("successfully bootstrapped system", slog.String("member_id", m.ID))
	return m.ID, nil
}
