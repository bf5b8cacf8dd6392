package keyalloc

import (
	"crypto/rand"
	"io"

	"github.com/google/uuid"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// Bytes at or above this are rejected so every symbol is equally likely.
const base36Cutoff = 256 - 256%len(base36)

// Generator produces random key suffixes.
type Generator func() string

// NanoID returns a Generator of base-36 IDs of the given length.
func NanoID(length int) Generator {
	return func() string {
		id, err := nanoID(rand.Reader, length)
		if err != nil {
			// crypto/rand does not fail on supported platforms; fall back to a UUID anyway.
			return uuid.NewString()
		}
		return id
	}
}

func nanoID(src io.Reader, length int) (string, error) {
	out := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(out) < length {
		if _, err := io.ReadFull(src, buf[:length-len(out)]); err != nil {
			return "", err
		}
		for _, b := range buf[:length-len(out)] {
			if int(b) < base36Cutoff {
				out = append(out, base36[int(b)%len(base36)])
			}
		}
	}
	return string(out), nil
}

// UUID returns a Generator of random (v4) UUID strings.
func UUID() Generator {
	return uuid.NewString
}
