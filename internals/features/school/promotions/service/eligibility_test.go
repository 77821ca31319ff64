package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	attendanceDTO "schooladmin_backend/internals/features/school/attendance/dto"
	"schooladmin_backend/internals/features/school/promotions/dto"
)

func TestNextClass(t *testing.T) {
	tests := []struct {
		in        string
		next      string
		graduated bool
		wantErr   bool
	}{
		{"1", "2", false, false},
		{" 9 ", "10", false, false},
		{"11", "12", false, false},
		{"12", "", true, false},
		{"LKG", "", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			next, grad, err := NextClass(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.next, next)
			assert.Equal(t, tt.graduated, grad)
		})
	}
}

func goodAttendance() attendanceDTO.Stats {
	return attendanceDTO.Stats{TotalDays: 100, PresentDays: 90, AbsentDays: 10, AttendancePercentage: 90}
}

func TestEvaluate(t *testing.T) {
	passing := []ResultLine{
		{SubjectCode: "MATH", Marks: 70, TotalMarks: 100},
		{SubjectCode: "ENG", Marks: 55, TotalMarks: 100},
		{SubjectCode: "SCI", Marks: 35, TotalMarks: 100},
	}

	t.Run("eligible", func(t *testing.T) {
		e := Evaluate(passing, goodAttendance(), dto.Criteria{})
		assert.True(t, e.Eligible, e.Reasons)
		assert.Equal(t, 3, e.Details.TotalExams)
		assert.Equal(t, 2, e.Details.PassedExams)
		assert.Equal(t, 53.33, e.Details.AveragePercentage)
		assert.Equal(t, 66.67, e.Details.PassRate)
	})

	t.Run("no results", func(t *testing.T) {
		e := Evaluate(nil, goodAttendance(), dto.Criteria{})
		assert.False(t, e.Eligible)
		assert.Contains(t, e.Reasons[0], "No exam results")
	})

	t.Run("low pass rate", func(t *testing.T) {
		results := append(passing, ResultLine{SubjectCode: "HIST", Marks: 10, TotalMarks: 100})
		e := Evaluate(results, goodAttendance(), dto.Criteria{})
		assert.False(t, e.Eligible)
		assert.Equal(t, float64(50), e.Details.PassRate)
	})

	t.Run("low attendance", func(t *testing.T) {
		att := attendanceDTO.Stats{TotalDays: 100, PresentDays: 60, AbsentDays: 40, AttendancePercentage: 60}
		e := Evaluate(passing, att, dto.Criteria{})
		assert.False(t, e.Eligible)
		assert.Contains(t, e.Reasons[0], "Attendance")
	})

	t.Run("attendance not recorded is not enforced", func(t *testing.T) {
		e := Evaluate(passing, attendanceDTO.Stats{}, dto.Criteria{})
		assert.True(t, e.Eligible)
	})

	t.Run("required subject failed", func(t *testing.T) {
		e := Evaluate(passing, goodAttendance(), dto.Criteria{RequiredSubjects: []string{"sci", " math "}})
		assert.False(t, e.Eligible)
		assert.Equal(t, []string{"SCI"}, e.Details.FailedSubjects)
	})

	t.Run("required subject missing", func(t *testing.T) {
		e := Evaluate(passing, goodAttendance(), dto.Criteria{RequiredSubjects: []string{"ART"}})
		assert.False(t, e.Eligible)
		assert.Equal(t, []string{"ART"}, e.Details.FailedSubjects)
	})

	t.Run("absent counts as zero", func(t *testing.T) {
		results := []ResultLine{
			{SubjectCode: "MATH", Marks: 90, TotalMarks: 100},
			{SubjectCode: "ENG", Marks: 90, TotalMarks: 100, IsAbsent: true},
		}
		e := Evaluate(results, goodAttendance(), dto.Criteria{})
		assert.Equal(t, float64(45), e.Details.AveragePercentage)
		assert.Equal(t, 1, e.Details.PassedExams)
		assert.False(t, e.Eligible)
	})

	t.Run("custom thresholds", func(t *testing.T) {
		e := Evaluate(passing, goodAttendance(), dto.Criteria{MinimumPercentage: 60})
		assert.False(t, e.Eligible)
		assert.Equal(t, float64(60), e.Details.Criteria.MinimumPercentage)
	})
}
