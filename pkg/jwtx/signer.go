package jwtx

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// AlgorithmEdDSA is the only signing algorithm roster issues.
const AlgorithmEdDSA = "EdDSA"

// Signer mints access tokens under one key id.
type Signer interface {
	Alg() string
	KID() string
	Sign(Claims) (string, error)
	PublicJWK() JWK
	Validate() error
}

// EdDSASigner signs with an Ed25519 private key.
type EdDSASigner struct {
	kid  string
	priv ed25519.PrivateKey
}

// NewSignerEdDSA parses a PKCS8 "PRIVATE KEY" PEM block holding an Ed25519
// key, as written by cryptox.GenerateSigningKeyPEM.
func NewSignerEdDSA(kid string, pemKey []byte) (Signer, error) {
	block, _ := pem.Decode(pemKey)
	switch {
	case block == nil:
		return nil, errors.New("jwtx: signing key is not PEM")
	case block.Type != "PRIVATE KEY":
		return nil, fmt.Errorf("jwtx: signing key block is %q, want PKCS8 PRIVATE KEY", block.Type)
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("jwtx: parse signing key: %w", err)
	}
	priv, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("jwtx: signing key is %T, want ed25519", parsed)
	}
	return &EdDSASigner{kid: kid, priv: priv}, nil
}

func (s *EdDSASigner) Alg() string { return AlgorithmEdDSA }
func (s *EdDSASigner) KID() string { return s.kid }

func (s *EdDSASigner) public() ed25519.PublicKey {
	return s.priv.Public().(ed25519.PublicKey)
}

// Sign returns the compact JWT for claims with the kid header set, so
// verifiers can pick the key out of the JWKS.
func (s *EdDSASigner) Sign(claims Claims) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	tok.Header["kid"] = s.kid
	return tok.SignedString(s.priv)
}

func (s *EdDSASigner) PublicJWK() JWK {
	return NewEd25519JWK(s.kid, "sig", AlgorithmEdDSA, s.public())
}

func (s *EdDSASigner) Validate() error {
	if s.kid == "" {
		return errors.New("jwtx: signer has no key id")
	}
	if len(s.priv) != ed25519.PrivateKeySize {
		return fmt.Errorf("jwtx: ed25519 private key is %d bytes", len(s.priv))
	}
	return nil
}
