package jwtx

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"slices"
	"sync"
)

var ErrNoKey = errors.New("jwtx: key not found")

// KeySet is the set of public keys tokens are verified against. Its JWKS
// form is what /.well-known/jwks.json serves.
type KeySet struct {
	mu    sync.RWMutex
	order []JWK
	byKID map[string]ed25519.PublicKey
}

func NewKeySet() *KeySet {
	return &KeySet{byKID: make(map[string]ed25519.PublicKey)}
}

// AddSigner publishes the public half of s.
func (k *KeySet) AddSigner(s Signer) error {
	return k.AddJWK(s.PublicJWK())
}

// AddJWK adds an OKP/Ed25519 key. Other key types are rejected.
func (k *KeySet) AddJWK(j JWK) error {
	if j.Kty != "OKP" || j.Crv != "Ed25519" {
		return fmt.Errorf("jwtx: unsupported key type %s/%s", j.Kty, j.Crv)
	}
	x, err := base64.RawURLEncoding.DecodeString(j.X)
	if err != nil {
		return fmt.Errorf("jwtx: decode key %q: %w", j.Kid, err)
	}
	if len(x) != ed25519.PublicKeySize {
		return fmt.Errorf("jwtx: key %q is %d bytes", j.Kid, len(x))
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.byKID[j.Kid] = ed25519.PublicKey(x)
	k.order = append(k.order, j)
	return nil
}

// Get returns the key registered under kid, or ErrNoKey.
func (k *KeySet) Get(kid string) (ed25519.PublicKey, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	pub, ok := k.byKID[kid]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoKey, kid)
	}
	return pub, nil
}

// PublicJWKS returns a copy of the published keys.
func (k *KeySet) PublicJWKS() JWKS {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return JWKS{Keys: slices.Clone(k.order)}
}

// IsReady reports whether at least one key is loaded.
func (k *KeySet) IsReady() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.byKID) > 0
}
