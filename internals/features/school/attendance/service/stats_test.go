package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schooladmin_backend/internals/features/school/attendance/dto"
	"schooladmin_backend/internals/features/school/attendance/model"
)

func rec(student uuid.UUID, day int, status model.AttendanceStatus) model.AttendanceModel {
	return model.AttendanceModel{
		AttendanceStudentID: student,
		AttendanceDate:      time.Date(2024, 9, day, 0, 0, 0, 0, time.UTC),
		AttendanceStatus:    status,
	}
}

func TestComputeStats(t *testing.T) {
	s := uuid.New()
	tests := []struct {
		name    string
		records []model.AttendanceModel
		want    dto.Stats
	}{
		{"empty", nil, dto.Stats{}},
		{"all present", []model.AttendanceModel{rec(s, 2, model.AttendancePresent), rec(s, 3, model.AttendancePresent)},
			dto.Stats{TotalDays: 2, PresentDays: 2, AttendancePercentage: 100}},
		{"late counts as present", []model.AttendanceModel{rec(s, 2, model.AttendanceLate), rec(s, 3, model.AttendanceAbsent)},
			dto.Stats{TotalDays: 2, LateDays: 1, AbsentDays: 1, AttendancePercentage: 50}},
		{"half day is half", []model.AttendanceModel{
			rec(s, 2, model.AttendancePresent), rec(s, 3, model.AttendanceHalfDay), rec(s, 4, model.AttendanceAbsent),
		}, dto.Stats{TotalDays: 3, PresentDays: 1, HalfDays: 1, AbsentDays: 1, AttendancePercentage: 50}},
		{"rounded", []model.AttendanceModel{
			rec(s, 2, model.AttendancePresent), rec(s, 3, model.AttendancePresent), rec(s, 4, model.AttendanceAbsent),
		}, dto.Stats{TotalDays: 3, PresentDays: 2, AbsentDays: 1, AttendancePercentage: 66.67}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeStats(tt.records))
		})
	}
}

func TestBuildMonthlyReport(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	students := []dto.StudentBrief{{ID: a, Name: "Asha"}, {ID: b, Name: "Bilal"}, {ID: c, Name: "Chen"}}
	records := []model.AttendanceModel{
		rec(a, 2, model.AttendancePresent), rec(a, 3, model.AttendancePresent),
		rec(b, 2, model.AttendanceAbsent), rec(b, 3, model.AttendancePresent),
	}
	rows, working, avg := BuildMonthlyReport(students, records)
	require.Len(t, rows, 3)
	assert.Equal(t, 2, working)
	assert.Equal(t, float64(100), rows[0].Stats.AttendancePercentage)
	assert.Equal(t, float64(50), rows[1].Stats.AttendancePercentage)
	assert.Zero(t, rows[2].Stats.TotalDays)
	assert.Equal(t, float64(75), avg, "students without records are left out of the average")
}

func TestCheckDate(t *testing.T) {
	today := time.Date(2024, 9, 10, 15, 0, 0, 0, time.Local)
	assert.NoError(t, checkDate(time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC), today))
	assert.ErrorIs(t, checkDate(time.Date(2024, 9, 11, 0, 0, 0, 0, time.UTC), today), ErrFutureDate)
}
