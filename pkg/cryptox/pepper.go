package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	pepperMu sync.RWMutex
	pepper   string
)

// LoadPepper reads the server-side pepper mixed into every secret hash from
// file, generating and persisting a new one when the file does not exist.
func LoadPepper(file string) error {
	file = filepath.Clean(file)
	if err := os.MkdirAll(filepath.Dir(file), 0o750); err != nil {
		return err
	}

	raw, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return err
		}
		generated := base64.RawURLEncoding.EncodeToString(buf)
		if err := os.WriteFile(file, []byte(generated), 0o600); err != nil {
			return err
		}
		SetPepper(generated)
		return nil
	}
	if err != nil {
		return err
	}

	SetPepper(strings.TrimSpace(string(raw)))
	return nil
}

// SetPepper replaces the in-memory pepper. Hashes made with another pepper
// stop verifying.
func SetPepper(p string) {
	pepperMu.Lock()
	pepper = p
	pepperMu.Unlock()
}

func currentPepper() string {
	pepperMu.RLock()
	defer pepperMu.RUnlock()
	return pepper
}
