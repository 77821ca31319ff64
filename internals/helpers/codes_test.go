package helper

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenCode(t *testing.T) {
	code := GenCode("TXN")
	assert.Regexp(t, regexp.MustCompile(`^TXN-\d{8}-\d{6}-[0-9A-F]{8}$`), code)
	assert.NotEqual(t, code, GenCode("TXN"))
}

func TestGenReceiptNumber(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^RCPT-\d{8}-[0-9A-F]{8}$`), GenReceiptNumber())
}

func TestRandomPassword(t *testing.T) {
	for i := 0; i < 20; i++ {
		pw, err := RandomPassword(4)
		require.NoError(t, err)
		assert.Len(t, pw, 8)
		assert.True(t, strings.ContainsAny(pw, "23456789"))
		assert.NotContains(t, pw, "0")
		assert.NotContains(t, pw, "O")
	}
}
