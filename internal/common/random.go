package common

import (
	"crypto/rand"
	"math/big"
)

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// MakeRandBase36String generates a random string of the given length using
// digits and lowercase latin letters. Used for username collision suffixes
// and generated placeholder passwords.
func MakeRandBase36String(length int) (string, error) {
	max := big.NewInt(int64(len(base36Alphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = base36Alphabet[n.Int64()]
	}
	return string(out), nil
}

// WipeByteArray overwrites the contents of the provided byte slice with
// zeros. Useful for removing passwords from memory after use.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
