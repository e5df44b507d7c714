// Package slug produces random public identifiers for short links.
package slug

import "crypto/rand"

// Alphabet holds the 62 symbols a slug may contain.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// MaxLength is the longest slug the short_links.slug column holds.
const MaxLength = 32

// maxUnbiased is the largest multiple of len(Alphabet) that fits in a byte.
// Bytes at or above it are discarded so every symbol stays equally likely.
const maxUnbiased = 256 - 256%len(Alphabet)

// Generator produces candidate slugs. Implementations must be safe for concurrent use.
type Generator interface {
	Generate(length int) string
}

// Random draws slugs from crypto/rand. It holds no state and is safe for concurrent use.
type Random struct{}

// NewRandom returns the crypto-backed generator.
func NewRandom() Random {
	return Random{}
}

// Generate returns a string of exactly length alphanumeric characters.
// A non-positive length yields the empty string.
func (Random) Generate(length int) string {
	if length <= 0 {
		return ""
	}

	out := make([]byte, 0, length)
	buf := make([]byte, length+length/2)
	for len(out) < length {
		// crypto/rand.Read never returns an error since Go 1.24.
		_, _ = rand.Read(buf)
		for _, b := range buf {
			if int(b) >= maxUnbiased {
				continue
			}
			out = append(out, Alphabet[int(b)%len(Alphabet)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out)
}
