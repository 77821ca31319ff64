package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	FullName   string `validate:"required"`
	Email      string `validate:"omitempty,email"`
	Marks      int    `validate:"gte=0,ltefield=TotalMarks"`
	TotalMarks int    `validate:"gt=0"`
}

func TestValidationFieldErrors(t *testing.T) {
	err := Validator().Struct(sampleRequest{Email: "nope", Marks: 120, TotalMarks: 100})
	require.Error(t, err)

	fields, ok := ValidationFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, []string{"is required"}, fields["full_name"])
	assert.Equal(t, []string{"must be a valid email"}, fields["email"])
	assert.Equal(t, []string{"must not exceed total_marks"}, fields["marks"])
}

func TestValidationFieldErrorsIgnoresOtherErrors(t *testing.T) {
	_, ok := ValidationFieldErrors(assert.AnError)
	assert.False(t, ok)
}

func TestFieldErrorsMessageIsStable(t *testing.T) {
	fe := FieldErrors{
		"start_time": {"is required"},
		"end_time":   {"must be after start_time"},
	}
	assert.Equal(t, "end_time must be after start_time; start_time is required", fe.Error())
}

func TestToSnake(t *testing.T) {
	assert.Equal(t, "total_marks", toSnake("TotalMarks"))
	assert.Equal(t, "name", toSnake("Name"))
}
