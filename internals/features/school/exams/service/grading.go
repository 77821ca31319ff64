package service

import "math"

const GradeAbsent = "ABSENT"

var gradeBands = []struct {
	min   float64
	grade string
}{
	{90, "A+"},
	{80, "A"},
	{70, "B+"},
	{60, "B"},
	{50, "C"},
	{40, "D"},
}

// Grade maps a percentage to its letter grade.
func Grade(pct float64) string {
	for _, b := range gradeBands {
		if pct >= b.min {
			return b.grade
		}
	}
	return "F"
}

type Score struct {
	Marks      float64
	Percentage float64
	Grade      string
	IsPassed   bool
}

// ComputeScore grades one result. Absent students score zero and never pass.
func ComputeScore(marks, total, passing float64, absent bool) Score {
	if absent {
		return Score{Grade: GradeAbsent}
	}
	pct := 0.0
	if total > 0 {
		pct = math.Round(marks/total*10000) / 100
	}
	return Score{
		Marks:      marks,
		Percentage: pct,
		Grade:      Grade(pct),
		IsPassed:   marks >= passing,
	}
}
