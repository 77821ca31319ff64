package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"schooladmin_backend/internals/features/school/academics/classes/model"
	studentModel "schooladmin_backend/internals/features/school/students/model"
)

func TestCheckCapacity(t *testing.T) {
	tests := []struct {
		name     string
		enrolled int64
		capacity int
		wantErr  error
	}{
		{"empty class", 0, 40, nil},
		{"one seat left", 39, 40, nil},
		{"full", 40, 40, ErrClassFull},
		{"over capacity after shrink", 42, 40, ErrClassFull},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantErr, CheckCapacity(tt.enrolled, tt.capacity))
		})
	}
}

func TestInClass(t *testing.T) {
	c := &model.ClassModel{ClassName: "5", ClassSection: "A", ClassAcademicYear: "2024-2025"}

	s := &studentModel.StudentModel{StudentClassName: "5", StudentSection: "A", StudentAcademicYear: "2024-2025"}
	assert.True(t, inClass(s, c))

	s.StudentSection = "B"
	assert.False(t, inClass(s, c))

	s.StudentSection = "A"
	s.StudentAcademicYear = "2023-2024"
	assert.False(t, inClass(s, c))
}
