package jwtx

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/aussiebroadwan/roster/pkg/cryptox"
)

// KeyManager owns the signing keys of one roster instance together with the
// KeySet published on the JWKS endpoint and a Verifier bound to it.
type KeyManager struct {
	keyset   *KeySet
	verifier Verifier
	signers  []Signer
}

// KeyManagerOptions configures a KeyManager.
type KeyManagerOptions struct {
	// Issuer is the issuer claim (iss) that will be validated in tokens.
	Issuer string

	// Audience values (aud) that will be validated. Empty disables the check.
	Audience []string

	// NumKeys is the number of ephemeral signing keys. Defaults to 1, capped
	// at 10. Ignored when loading from a key file.
	NumKeys int
}

// NewEphemeralKeyManager creates a KeyManager with in-memory keys. Every
// issued token becomes invalid when the process restarts.
func NewEphemeralKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, errors.New("jwtx: Issuer is required")
	}

	n := min(max(opts.NumKeys, 1), 10)
	signers := make([]Signer, 0, n)
	for i := range n {
		pemKey, err := cryptox.GenerateSigningKeyPEM()
		if err != nil {
			return nil, fmt.Errorf("jwtx: generate key %d: %w", i+1, err)
		}
		s, err := newSignerWithRandomKID(pemKey)
		if err != nil {
			return nil, err
		}
		signers = append(signers, s)
	}

	return newKeyManager(opts, signers)
}

// NewFileKeyManager loads a single PKCS8 Ed25519 key from path. If the file
// does not exist a fresh key is generated and written with 0600 permissions,
// so tokens survive restarts.
func NewFileKeyManager(path string, opts KeyManagerOptions) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, errors.New("jwtx: Issuer is required")
	}

	pemKey, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		pemKey, err = cryptox.GenerateSigningKeyPEM()
		if err != nil {
			return nil, fmt.Errorf("jwtx: generate key: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("jwtx: create key dir: %w", err)
		}
		if err := os.WriteFile(path, pemKey, 0o600); err != nil {
			return nil, fmt.Errorf("jwtx: write key file: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("jwtx: read key file: %w", err)
	}

	// The kid is derived from the key so it stays stable across restarts.
	kid := "roster-" + cryptox.FingerprintToken(strings.TrimSpace(string(pemKey)))[:16]
	s, err := NewSignerEdDSA(kid, pemKey)
	if err != nil {
		return nil, err
	}
	return newKeyManager(opts, []Signer{s})
}

func newKeyManager(opts KeyManagerOptions, signers []Signer) (*KeyManager, error) {
	keyset := NewKeySet()
	for i, s := range signers {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("jwtx: signer %d: %w", i+1, err)
		}
		if err := keyset.AddSigner(s); err != nil {
			return nil, fmt.Errorf("jwtx: add signer %d to keyset: %w", i+1, err)
		}
	}

	return &KeyManager{
		keyset:   keyset,
		verifier: NewVerifierEdDSA(keyset, opts.Issuer, opts.Audience),
		signers:  signers,
	}, nil
}

func newSignerWithRandomKID(pemKey []byte) (Signer, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return nil, fmt.Errorf("jwtx: generate key ID: %w", err)
	}
	return NewSignerEdDSA("roster-"+token, pemKey)
}

// Signer returns one of the signing keys, picked at random.
func (km *KeyManager) Signer() Signer {
	if len(km.signers) == 1 {
		return km.signers[0]
	}
	return km.signers[rand.IntN(len(km.signers))]
}

// Verifier returns the verifier bound to this manager's KeySet.
func (km *KeyManager) Verifier() Verifier { return km.verifier }

// KeySet returns the public keys for JWKS publishing.
func (km *KeyManager) KeySet() *KeySet { return km.keyset }

// NumSigners returns the number of signing keys.
func (km *KeyManager) NumSigners() int { return len(km.signers) }

// IsReady returns true if the KeyManager has valid keys loaded.
func (km *KeyManager) IsReady() bool { return km.keyset.IsReady() }
