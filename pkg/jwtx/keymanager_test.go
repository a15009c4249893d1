package jwtx_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/roster/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestNewEphemeralKeyManager(t *testing.T) {
	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
		Issuer:   exampleIssuer,
		Audience: []string{"roster"},
	})
	require.NoError(t, err)
	require.True(t, km.IsReady())
	require.Equal(t, 1, km.NumSigners())
	require.Len(t, km.KeySet().PublicJWKS().Keys, 1)
	require.Contains(t, km.Signer().KID(), "roster-")
}

func TestNewEphemeralKeyManager_RequiresIssuer(t *testing.T) {
	_, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{})
	require.Error(t, err)
}

func TestKeyManager_NumKeysBounds(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"negative", -3, 1},
		{"zero", 0, 1},
		{"three", 3, 3},
		{"capped", 50, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Issuer: exampleIssuer, NumKeys: tt.in})
			require.NoError(t, err)
			require.Equal(t, tt.want, km.NumSigners())
			require.Len(t, km.KeySet().PublicJWKS().Keys, tt.want)
		})
	}
}

func TestKeyManager_SignAndVerifyWithEveryKey(t *testing.T) {
	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
		Issuer:   exampleIssuer,
		Audience: []string{"roster"},
		NumKeys:  3,
	})
	require.NoError(t, err)

	// Random selection means 30 rounds touch every key with high probability,
	// and every one of them must verify.
	for range 30 {
		token, err := km.Signer().Sign(memberClaims("01J0MEMBER", time.Minute))
		require.NoError(t, err)

		claims, err := km.Verifier().Verify(token)
		require.NoError(t, err)
		require.Equal(t, "01J0MEMBER", claims.Subject)
	}
}

func TestKeyManager_DifferentInstancesDoNotTrustEachOther(t *testing.T) {
	a, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Issuer: exampleIssuer})
	require.NoError(t, err)
	b, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Issuer: exampleIssuer})
	require.NoError(t, err)

	token, err := a.Signer().Sign(memberClaims("01J0MEMBER", time.Minute))
	require.NoError(t, err)

	_, err = b.Verifier().Verify(token)
	require.ErrorIs(t, err, jwtx.ErrNoKey)
}

func TestNewFileKeyManager_PersistsKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "signing.pem")
	opts := jwtx.KeyManagerOptions{Issuer: exampleIssuer, Audience: []string{"roster"}}

	first, err := jwtx.NewFileKeyManager(path, opts)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	token, err := first.Signer().Sign(memberClaims("01J0MEMBER", time.Minute))
	require.NoError(t, err)

	// A restart loads the same key, so earlier tokens still verify.
	second, err := jwtx.NewFileKeyManager(path, opts)
	require.NoError(t, err)
	require.Equal(t, first.Signer().KID(), second.Signer().KID())

	claims, err := second.Verifier().Verify(token)
	require.NoError(t, err)
	require.Equal(t, "01J0MEMBER", claims.Subject)
}

func TestNewFileKeyManager_RejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signing.pem")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))

	_, err := jwtx.NewFileKeyManager(path, jwtx.KeyManagerOptions{Issuer: exampleIssuer})
	require.Error(t, err)
}
