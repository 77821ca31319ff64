package helper

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenCode builds PREFIX-YYYYMMDD-HHMMSS-XXXXXXXX, used for order ids and transaction codes.
func GenCode(prefix string) string {
	now := time.Now().UTC().Format("20060102-150405")
	u := strings.ReplaceAll(uuid.New().String(), "-", "")
	return prefix + "-" + now + "-" + strings.ToUpper(u[:8])
}

// GenReceiptNumber builds RCPT-YYYYMMDD-XXXXXXXX.
func GenReceiptNumber() string {
	u := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "RCPT-" + time.Now().UTC().Format("20060102") + "-" + strings.ToUpper(u[:8])
}

const passwordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789"

// RandomPassword returns a password with at least one letter and one digit.
func RandomPassword(n int) (string, error) {
	if n < 8 {
		n = 8
	}
	for {
		buf := make([]byte, n)
		max := big.NewInt(int64(len(passwordAlphabet)))
		for i := range buf {
			idx, err := rand.Int(rand.Reader, max)
			if err != nil {
				return "", err
			}
			buf[i] = passwordAlphabet[idx.Int64()]
		}
		s := string(buf)
		if strings.ContainsAny(s, "23456789") && strings.IndexFunc(s, isLetter) >= 0 {
			return s, nil
		}
	}
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
