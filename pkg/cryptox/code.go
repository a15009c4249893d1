package cryptox

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/pquerna/otp"
)

var codeSpace = big.NewInt(1_000_000)

// GenerateLoginCode returns a uniformly random six digit decimal code with
// leading zeros preserved, e.g. "004217".
func GenerateLoginCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", fmt.Errorf("cryptox: generate login code: %w", err)
	}
	return otp.DigitsSix.Format(int32(n.Int64())), nil // #nosec G115 - bounded by codeSpace
}
