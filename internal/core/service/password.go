package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// passwordAlphabet deliberately omits ambiguous characters (0/O, 1/l/I) so
// that generated credentials survive being read aloud or written down.
const passwordAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const generatedPasswordLength = 10

// generatePassword returns a random password drawn from crypto/rand.
func generatePassword(length int) (string, error) {
	max := big.NewInt(int64(len(passwordAlphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		out[i] = passwordAlphabet[n.Int64()]
	}
	return string(out), nil
}
