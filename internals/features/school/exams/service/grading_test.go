package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schooladmin_backend/internals/features/school/exams/dto"
	"schooladmin_backend/internals/features/school/exams/model"
)

func TestGrade(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{100, "A+"},
		{90, "A+"},
		{89.99, "A"},
		{80, "A"},
		{70, "B+"},
		{60, "B"},
		{50, "C"},
		{40, "D"},
		{39.5, "F"},
		{0, "F"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Grade(tt.pct), "pct=%v", tt.pct)
	}
}

func TestComputeScore(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		s := ComputeScore(67, 80, 32, false)
		assert.Equal(t, 83.75, s.Percentage)
		assert.Equal(t, "A", s.Grade)
		assert.True(t, s.IsPassed)
	})
	t.Run("below passing", func(t *testing.T) {
		s := ComputeScore(31, 100, 33, false)
		assert.Equal(t, "F", s.Grade)
		assert.False(t, s.IsPassed)
	})
	t.Run("absent ignores marks", func(t *testing.T) {
		s := ComputeScore(95, 100, 33, true)
		assert.Zero(t, s.Marks)
		assert.Zero(t, s.Percentage)
		assert.Equal(t, GradeAbsent, s.Grade)
		assert.False(t, s.IsPassed)
	})
}

func TestBuildResult(t *testing.T) {
	exam := &model.ExamModel{ExamID: uuid.New(), ExamTotalMarks: 50, ExamPassingMarks: 20}
	student := uuid.New()

	r, err := BuildResult(exam, dto.SubmitResultRequest{StudentID: student, MarksObtained: 45}, nil)
	require.NoError(t, err)
	assert.Equal(t, exam.ExamID, r.ExamResultExamID)
	assert.Equal(t, student, r.ExamResultStudentID)
	assert.Equal(t, float64(90), r.ExamResultPercentage)
	assert.Equal(t, "A+", r.ExamResultGrade)
	assert.True(t, r.ExamResultIsPassed)

	_, err = BuildResult(exam, dto.SubmitResultRequest{StudentID: student, MarksObtained: 51}, nil)
	assert.ErrorIs(t, err, ErrMarksExceedTotal)

	r, err = BuildResult(exam, dto.SubmitResultRequest{StudentID: student, MarksObtained: 51, IsAbsent: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, GradeAbsent, r.ExamResultGrade)
}
