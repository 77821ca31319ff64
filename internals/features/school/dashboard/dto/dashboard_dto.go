package dto

import (
	"github.com/shopspring/decimal"

	attendanceDTO "schooladmin_backend/internals/features/school/attendance/dto"
)

type Counts struct {
	Students       int64 `json:"students"`
	ActiveStudents int64 `json:"active_students"`
	Teachers       int64 `json:"teachers"`
	Classes        int64 `json:"classes"`
	Subjects       int64 `json:"subjects"`
}

type FeeTotals struct {
	Billed         decimal.Decimal `json:"billed"`
	LateFees       decimal.Decimal `json:"late_fees"`
	Collected      decimal.Decimal `json:"collected"`
	Pending        decimal.Decimal `json:"pending"`
	Overdue        decimal.Decimal `json:"overdue"`
	OverdueCount   int64           `json:"overdue_count"`
	CollectedToday decimal.Decimal `json:"collected_today"`
	Currency       string          `json:"currency"`
}

type DashboardResponse struct {
	Date            string              `json:"date"`
	AcademicYear    string              `json:"academic_year,omitempty"`
	Counts          Counts              `json:"counts"`
	Fees            FeeTotals           `json:"fees"`
	TodayAttendance attendanceDTO.Stats `json:"today_attendance"`
}
