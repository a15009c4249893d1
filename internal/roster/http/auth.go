package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/roster/internal/roster/service"
	"github.com/aussiebroadwan/roster/pkg/httpx"
	"github.com/aussiebroadwan/roster/pkg/rostersdk"
)

// AuthHandler serves the email code login and token refresh.
type AuthHandler struct {
	OTP    *service.OTPService
	Tokens *service.TokenService
}

// HandleLogin emails a login code.
//
//	@Summary		Request a login code
//	@Description	Emails a six digit login code to an approved member. A new code can only be requested three minutes after the previous one.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		rostersdk.LoginRequest	true	"Member email"
//	@Success		200		{object}	rostersdk.Envelope		"Code sent"
//	@Failure		400		{object}	rostersdk.ErrorResponse	"Invalid request body"
//	@Failure		403		{object}	rostersdk.ErrorResponse	"Membership not yet approved"
//	@Failure		404		{object}	rostersdk.ErrorResponse	"Unknown account"
//	@Failure		429		{object}	rostersdk.ErrorResponse	"Resend throttled, see retry_after"
//	@Router			/v1/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req rostersdk.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.OTP.RequestCode(r.Context(), req.Email); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, nil)
}

// HandleOTP exchanges a login code for tokens.
//
//	@Summary		Verify a login code
//	@Description	Verifies the emailed code and returns an access and refresh token pair. Codes are valid for five minutes and work once.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		rostersdk.OTPRequest	true	"Email and code"
//	@Success		200		{object}	rostersdk.LoginResponse	"Tokens and member flags"
//	@Failure		400		{object}	rostersdk.ErrorResponse	"Invalid or expired code"
//	@Failure		403		{object}	rostersdk.ErrorResponse	"Membership not yet approved"
//	@Failure		404		{object}	rostersdk.ErrorResponse	"Unknown account"
//	@Router			/v1/otp [post].
func (h *AuthHandler) HandleOTP(w http.ResponseWriter, r *http.Request) {
	var req rostersdk.OTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.OTP.VerifyCode(r.Context(), req.Email, req.Code)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, rostersdk.LoginResponse{
		Tokens:   toTokens(res.Tokens),
		MemberID: res.MemberID,
		IsStaff:  res.IsStaff,
		IsMod:    res.IsMod,
	})
}

// HandleRefresh rotates a refresh token.
//
//	@Summary		Refresh tokens
//	@Description	Exchanges a refresh token for a new pair. The presented token is revoked.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		rostersdk.RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	rostersdk.TokenResponse		"New token pair"
//	@Failure		401		{object}	rostersdk.ErrorResponse		"Invalid refresh token"
//	@Router			/v1/refresh [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req rostersdk.RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		writeError(w, r, service.Invalid("refresh_token", "is required"))
		return
	}

	pair, err := h.Tokens.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, toTokens(pair))
}
