package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/roster/pkg/jwtx"
)

// InitAuthKeys creates the KeyManager that signs access tokens.
//
// With ROSTER_SIGNING_KEY_FILE set the key is loaded from (or generated into)
// that file and tokens survive restarts. Otherwise NumKeys ephemeral keys are
// generated in memory and every existing token becomes invalid on restart.
func InitAuthKeys(cfg Config, logger *slog.Logger) (*jwtx.KeyManager, error) {
	opts := jwtx.KeyManagerOptions{
		Issuer:   cfg.Issuer,
		Audience: []string{cfg.Audience},
		NumKeys:  cfg.NumKeys,
	}

	if cfg.SigningKeyFile != "" {
		km, err := jwtx.NewFileKeyManager(cfg.SigningKeyFile, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to load signing key: %w", err)
		}
		logger.Info("signing key loaded",
			"path", cfg.SigningKeyFile,
			"issuer", cfg.Issuer,
		)
		return km, nil
	}

	km, err := jwtx.NewEphemeralKeyManager(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ephemeral key manager: %w", err)
	}
	logger.Info("generated ephemeral signing keys",
		"num_keys", km.NumSigners(),
		"issuer", cfg.Issuer,
	)
	logger.Warn("all existing tokens are now invalid due to key rotation on startup")

	return km, nil
}
