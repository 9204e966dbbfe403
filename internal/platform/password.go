package platform

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	passwordLower   = "abcdefghijklmnopqrstuvwxyz"
	passwordUpper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	passwordDigits  = "0123456789"
	passwordSymbols = "!@#$%^&*()"
)

// NewPassword generates a credential of exactly length characters with
// at least one lowercase letter, one uppercase letter, one digit, and
// one symbol. The value is a one-time secret; callers must never log it.
func NewPassword(length int) (string, error) {
	if length < 4 {
		return "", fmt.Errorf("password length %d is below the minimum of 4", length)
	}

	full := passwordLower + passwordUpper + passwordDigits + passwordSymbols

	buf := make([]byte, 0, length)
	for _, set := range []string{passwordLower, passwordUpper, passwordDigits, passwordSymbols} {
		buf = append(buf, set[randInt(len(set))])
	}
	for len(buf) < length {
		buf = append(buf, full[randInt(len(full))])
	}

	// Fisher-Yates so the forced class characters are not positional.
	for i := len(buf) - 1; i > 0; i-- {
		j := randInt(i + 1)
		buf[i], buf[j] = buf[j], buf[i]
	}

	return string(buf), nil
}

func randInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("crypto/rand: " + err.Error())
	}
	return int(v.Int64())
}
