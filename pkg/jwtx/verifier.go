package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier checks an access token and returns its claims.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrAudience    = errors.New("jwtx: audience mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
	ErrMissingKID  = errors.New("jwtx: missing kid")
)

// EdDSAVerifier accepts only EdDSA tokens whose kid is in keys.
type EdDSAVerifier struct {
	keys     *KeySet
	issuer   string
	audience []string
	parser   *jwt.Parser
}

func NewVerifierEdDSA(keys *KeySet, issuer string, audience []string) *EdDSAVerifier {
	return &EdDSAVerifier{
		keys:     keys,
		issuer:   issuer,
		audience: audience,
		parser:   jwt.NewParser(jwt.WithValidMethods([]string{AlgorithmEdDSA})),
	}
}

func (v *EdDSAVerifier) keyFunc(t *jwt.Token) (any, error) {
	kid, _ := t.Header["kid"].(string)
	if kid == "" {
		return nil, ErrMissingKID
	}
	return v.keys.Get(kid)
}

// Verify checks the signature, then issuer, audience and time bounds.
func (v *EdDSAVerifier) Verify(raw string) (Claims, error) {
	var c Claims
	tok, err := v.parser.ParseWithClaims(raw, &c, v.keyFunc)
	if err != nil {
		return Claims{}, fmt.Errorf("jwtx: verify: %w", err)
	}
	if !tok.Valid {
		return Claims{}, errors.New("jwtx: token not valid")
	}

	for _, check := range []func() error{
		func() error { return c.ValidateIssuer(v.issuer) },
		func() error { return c.ValidateAudience(v.audience) },
		c.ValidateExpiry,
	} {
		if err := check(); err != nil {
			return Claims{}, err
		}
	}
	return c, nil
}

var _ Verifier = (*EdDSAVerifier)(nil)
