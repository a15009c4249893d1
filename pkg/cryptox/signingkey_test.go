package cryptox_test

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"testing"

	"github.com/aussiebroadwan/roster/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGenerateSigningKeyPEM(t *testing.T) {
	a, err := cryptox.GenerateSigningKeyPEM()
	require.NoError(t, err)

	block, rest := pem.Decode(a)
	require.NotNil(t, block)
	require.Empty(t, rest)
	require.Equal(t, "PRIVATE KEY", block.Type)

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	require.NoError(t, err)
	require.IsType(t, ed25519.PrivateKey{}, key)

	b, err := cryptox.GenerateSigningKeyPEM()
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}
