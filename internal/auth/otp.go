package auth

import (
	"crypto/rand"
	"fmt"
	"strconv"
)

// GenerateDigitCode returns a numeric one-time code of at most n digits.
//
// The code is the decimal rendering of 24 random bits cut to its first n
// characters, so small draws produce shorter codes. Callers compare codes as
// strings and must not left-pad them.
func GenerateDigitCode(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}

	var buf [3]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	value := int(buf[0])<<16 | int(buf[1])<<8 | int(buf[2])
	code := strconv.Itoa(value)
	if len(code) > n {
		code = code[:n]
	}
	return code, nil
}
