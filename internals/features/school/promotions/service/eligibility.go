package service

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	attendanceDTO "schooladmin_backend/internals/features/school/attendance/dto"
	"schooladmin_backend/internals/features/school/promotions/dto"
)

// HighestClass is the last class before graduation.
const HighestClass = 12

// ResultLine is one exam result as promotion sees it.
type ResultLine struct {
	SubjectCode string
	Marks       float64
	TotalMarks  float64
	IsAbsent    bool
}

func (r ResultLine) percentage() float64 {
	if r.IsAbsent || r.TotalMarks <= 0 {
		return 0
	}
	return r.Marks / r.TotalMarks * 100
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// Evaluate applies the promotion criteria. An exam counts as passed when its
// percentage reaches the minimum; the average is marks-weighted. Attendance is
// only enforced once at least one day has been recorded.
func Evaluate(results []ResultLine, att attendanceDTO.Stats, c dto.Criteria) dto.Eligibility {
	c = c.WithDefaults()
	d := dto.Details{
		TotalExams:     len(results),
		Attendance:     att.AttendancePercentage,
		AttendanceDays: att.TotalDays,
		Criteria:       c,
	}
	if len(results) == 0 {
		return dto.Eligibility{Reasons: []string{"No exam results found for the academic year"}, Details: d}
	}

	var total, obtained float64
	subjectPassed := map[string]bool{}
	for _, r := range results {
		total += r.TotalMarks
		if !r.IsAbsent {
			obtained += r.Marks
		}
		passed := r.percentage() >= c.MinimumPercentage
		if passed {
			d.PassedExams++
		}
		code := strings.ToUpper(r.SubjectCode)
		if prev, seen := subjectPassed[code]; !seen || prev {
			subjectPassed[code] = passed
		}
	}
	if total > 0 {
		d.AveragePercentage = round2(obtained / total * 100)
	}
	d.PassRate = round2(float64(d.PassedExams) / float64(d.TotalExams) * 100)

	var reasons []string
	if d.AveragePercentage < c.MinimumPercentage {
		reasons = append(reasons, fmt.Sprintf("Average %.2f%% is below %.2f%%", d.AveragePercentage, c.MinimumPercentage))
	}
	if d.PassRate < c.MinimumPassRate {
		reasons = append(reasons, fmt.Sprintf("Pass rate %.2f%% is below %.2f%%", d.PassRate, c.MinimumPassRate))
	}
	if att.TotalDays > 0 && att.AttendancePercentage < c.MinimumAttendance {
		reasons = append(reasons, fmt.Sprintf("Attendance %.2f%% is below %.2f%%", att.AttendancePercentage, c.MinimumAttendance))
	}
	for _, code := range c.RequiredSubjects {
		if !subjectPassed[code] {
			d.FailedSubjects = append(d.FailedSubjects, code)
		}
	}
	if len(d.FailedSubjects) > 0 {
		sort.Strings(d.FailedSubjects)
		reasons = append(reasons, "Required subjects not passed: "+strings.Join(d.FailedSubjects, ", "))
	}

	if len(reasons) == 0 {
		return dto.Eligibility{Eligible: true, Reasons: []string{"Meets promotion criteria"}, Details: d}
	}
	return dto.Eligibility{Reasons: reasons, Details: d}
}

// NextClass returns the class after current, or graduated for the highest class.
func NextClass(current string) (next string, graduated bool, err error) {
	n, err := strconv.Atoi(strings.TrimSpace(current))
	if err != nil {
		return "", false, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Class %q is not numeric and cannot be promoted", current))
	}
	if n >= HighestClass {
		return "", true, nil
	}
	return strconv.Itoa(n + 1), false, nil
}
