package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/aussiebroadwan/roster/internal/roster/domain"
	"github.com/aussiebroadwan/roster/internal/roster/store"
	"github.com/aussiebroadwan/roster/pkg/cryptox"
	"github.com/aussiebroadwan/roster/pkg/idx"
	"github.com/aussiebroadwan/roster/pkg/jwtx"
	"github.com/aussiebroadwan/roster/pkg/slogx"
)

type TokenService struct {
	KeyManager *jwtx.KeyManager
	Store      store.Store
	Issuer     string
	Audience   string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Clock      Clock
}

// Issue mints an access/refresh pair for a freshly authenticated member.
// st lets the caller include the refresh row in an open transaction.
func (s *TokenService) Issue(ctx context.Context, st store.Store, m domain.Member) (domain.TokenPair, error) {
	now := s.Clock.now()
	sessionID := idx.New().String()
	amr := []string{jwtx.AMROTP}

	access, err := s.signAccess(m, sessionID, amr, now)
	if err != nil {
		return domain.TokenPair{}, err
	}

	refresh, err := s.newRefresh(ctx, st, m, sessionID, amr, now)
	if err != nil {
		return domain.TokenPair{}, err
	}

	return s.pair(access, refresh), nil
}

// Refresh rotates a refresh token. Scopes are re-derived from the current
// member record, so a revoked staff flag takes effect on the next refresh.
func (s *TokenService) Refresh(ctx context.Context, refreshOpaque string) (domain.TokenPair, error) {
	now := s.Clock.now()
	l := slogx.FromContext(ctx)

	// 1. Lookup the persisted refresh row by token fingerprint
	fp := cryptox.FingerprintToken(refreshOpaque)
	rt, err := s.Store.RefreshTokens().GetRefreshTokenByHash(ctx, fp)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrInvalidRefresh
		}
		return domain.TokenPair{}, err
	}

	// 2. Validate token is not expired or revoked
	if !rt.Usable(now) {
		return domain.TokenPair{}, ErrInvalidRefresh
	}

	// 3. Load the member; deleted or pending members cannot refresh
	m, err := s.Store.Members().GetMemberByID(ctx, rt.MemberID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrInvalidRefresh
		}
		return domain.TokenPair{}, err
	}
	if !m.IsApproved() {
		return domain.TokenPair{}, ErrInvalidRefresh
	}

	// 4. Preserve AMR history and append "refresh"
	amr := rt.AMR
	if !slices.Contains(amr, jwtx.AMRRefresh) {
		amr = append(slices.Clone(amr), jwtx.AMRRefresh)
	}

	access, err := s.signAccess(m, rt.SessionID, amr, now)
	if err != nil {
		return domain.TokenPair{}, err
	}

	// 5. Atomically: revoke old token and create new one. Losing the revoke
	// race means another request already rotated this token.
	var refresh string
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		ok, err := tx.RefreshTokens().RevokeRefreshToken(ctx, fp)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidRefresh
		}
		refresh, err = s.newRefresh(ctx, tx, m, rt.SessionID, amr, now)
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrInvalidRefresh) {
			l.Error("failed to rotate refresh token", slog.Any("error", err))
		}
		return domain.TokenPair{}, err
	}

	return s.pair(access, refresh), nil
}

func (s *TokenService) newRefresh(
	ctx context.Context,
	st store.Store,
	m domain.Member,
	sessionID string,
	amr []string,
	now time.Time,
) (string, error) {
	opaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", err
	}

	err = st.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
		ID:        idx.New().String(),
		MemberID:  m.ID,
		TokenHash: cryptox.FingerprintToken(opaque),
		SessionID: sessionID,
		Scopes:    m.Scopes(),
		AMR:       amr,
		ExpiresAt: now.Add(s.refreshTTL()),
		CreatedAt: now,
	})
	if err != nil {
		return "", err
	}
	return opaque, nil
}

func (s *TokenService) signAccess(m domain.Member, sessionID string, amr []string, now time.Time) (string, error) {
	claims := jwtx.NewAccessClaims(jwtx.AccessClaimsParams{
		Subject:       m.ID,
		SessionID:     sessionID,
		Scopes:        m.Scopes(),
		AMR:           amr,
		TTL:           s.accessTTL(),
		Issuer:        s.Issuer,
		Audience:      []string{s.Audience},
		Username:      m.Username,
		PreferredName: m.DisplayName(),
		Now:           now,
	})
	// Signer() spreads signing across every loaded key
	return s.KeyManager.Signer().Sign(claims)
}

func (s *TokenService) pair(access, refresh string) domain.TokenPair {
	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTTL() / time.Second),
	}
}

func (s *TokenService) accessTTL() time.Duration {
	if s.AccessTTL <= 0 {
		return jwtx.DefaultAccessTokenTTL
	}
	return s.AccessTTL
}

func (s *TokenService) refreshTTL() time.Duration {
	if s.RefreshTTL <= 0 {
		return jwtx.DefaultRefreshTokenTTL
	}
	return s.RefreshTTL
}
