package service

import (
	"math"

	"github.com/google/uuid"

	"schooladmin_backend/internals/features/school/attendance/dto"
	"schooladmin_backend/internals/features/school/attendance/model"
)

// ComputeStats counts statuses; the percentage weighs Present and Late as a
// full day and Half Day as half.
func ComputeStats(records []model.AttendanceModel) dto.Stats {
	var s dto.Stats
	for _, r := range records {
		switch r.AttendanceStatus {
		case model.AttendancePresent:
			s.PresentDays++
		case model.AttendanceAbsent:
			s.AbsentDays++
		case model.AttendanceLate:
			s.LateDays++
		case model.AttendanceHalfDay:
			s.HalfDays++
		}
	}
	s.TotalDays = len(records)
	s.AttendancePercentage = Percentage(s)
	return s
}

func Percentage(s dto.Stats) float64 {
	if s.TotalDays == 0 {
		return 0
	}
	attended := float64(s.PresentDays+s.LateDays) + 0.5*float64(s.HalfDays)
	return round2(attended / float64(s.TotalDays) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// BuildMonthlyReport groups a month of class records per student. Working days
// is the number of distinct dates with any record.
func BuildMonthlyReport(students []dto.StudentBrief, records []model.AttendanceModel) ([]dto.MonthlyStudentRow, int, float64) {
	byStudent := map[uuid.UUID][]model.AttendanceModel{}
	days := map[string]struct{}{}
	for _, r := range records {
		byStudent[r.AttendanceStudentID] = append(byStudent[r.AttendanceStudentID], r)
		days[r.AttendanceDate.Format(dto.DateLayout)] = struct{}{}
	}

	rows := make([]dto.MonthlyStudentRow, 0, len(students))
	sum, counted := 0.0, 0
	for _, st := range students {
		stats := ComputeStats(byStudent[st.ID])
		rows = append(rows, dto.MonthlyStudentRow{Student: st, Stats: stats})
		if stats.TotalDays > 0 {
			sum += stats.AttendancePercentage
			counted++
		}
	}
	avg := 0.0
	if counted > 0 {
		avg = round2(sum / float64(counted))
	}
	return rows, len(days), avg
}
