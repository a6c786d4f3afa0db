// Package usercode generates the short random codes handed out to accounts
// as a secondary human-shareable handle.
package usercode

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Length is the fixed length of a generated code.
const Length = 7

// Alphabet holds the 62 symbols codes are drawn from.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Generate produces a random code of Length symbols drawn uniformly from
// Alphabet using crypto/rand. Codes are not unique by construction; the
// accounts table enforces uniqueness and the registration flow retries on
// collision.
func Generate() (string, error) {
	max := big.NewInt(int64(len(Alphabet)))
	b := make([]byte, Length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("random source: %w", err)
		}
		b[i] = Alphabet[n.Int64()]
	}
	return string(b), nil
}
