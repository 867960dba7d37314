package common

import (
	"crypto/rand"
	"math/big"
)

// PasswordAlphabet is the character set used by GeneratePassword.
const PasswordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GeneratePassword returns a uniformly random password of the given length
// drawn from PasswordAlphabet.
func GeneratePassword(length int) (string, error) {
	limit := big.NewInt(int64(len(PasswordAlphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		out[i] = PasswordAlphabet[n.Int64()]
	}
	return string(out), nil
}

// WipeByteArray overwrites b with zeros. Nil is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
