package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeClock(t *testing.T) {
	assert.Equal(t, "09:05", NormalizeClock(" 9:05 "))
	assert.Equal(t, "14:30", NormalizeClock("14:30"))
	assert.Equal(t, "9am", NormalizeClock("9am"))
}

func TestNormalizeDay(t *testing.T) {
	assert.Equal(t, "Monday", NormalizeDay(" MONDAY "))
	assert.Equal(t, "Friday", NormalizeDay("friday"))
	assert.Equal(t, "", NormalizeDay(" "))
}
