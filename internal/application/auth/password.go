package auth

import (
	"crypto/rand"
	"math/big"
)

const (
	tempPasswordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	tempPasswordLength   = 8
)

// TemporaryPassword draws an 8-character password from mixed-case
// letters and digits, one uniform sample per character.
func TemporaryPassword() string {
	result := make([]byte, tempPasswordLength)
	alphabetLen := big.NewInt(int64(len(tempPasswordAlphabet)))

	for i := range result {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			// crypto/rand only fails when the platform source is broken
			panic(err)
		}
		result[i] = tempPasswordAlphabet[n.Int64()]
	}

	return string(result)
}
