package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schooladmin_backend/internals/features/school/academics/timetables/model"
	helper "schooladmin_backend/internals/helpers"
)

type UpsertTimetableRequest struct {
	ClassName    string               `json:"class_name" validate:"required,max=50"`
	Section      string               `json:"section" validate:"omitempty,max=10"`
	AcademicYear string               `json:"academic_year" validate:"required,max=20"`
	Days         []model.TimetableDay `json:"days" validate:"required,min=1,dive"`
}

func (r *UpsertTimetableRequest) Normalize() {
	r.ClassName = strings.TrimSpace(r.ClassName)
	r.Section = normalizeSection(r.Section)
	r.AcademicYear = strings.TrimSpace(r.AcademicYear)
	for i := range r.Days {
		r.Days[i].Day = NormalizeDay(r.Days[i].Day)
		for j := range r.Days[i].Slots {
			normalizeSlot(&r.Days[i].Slots[j])
		}
	}
}

func (r *UpsertTimetableRequest) Validate() error {
	return helper.Validator().Struct(r)
}

// UpsertEntryRequest replaces (or appends) the slot starting at StartTime on one day.
type UpsertEntryRequest struct {
	ClassName    string              `json:"class_name" validate:"required,max=50"`
	Section      string              `json:"section" validate:"omitempty,max=10"`
	AcademicYear string              `json:"academic_year" validate:"required,max=20"`
	Day          string              `json:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	Slot         model.TimetableSlot `json:"slot" validate:"required"`
}

func (r *UpsertEntryRequest) Normalize() {
	r.ClassName = strings.TrimSpace(r.ClassName)
	r.Section = normalizeSection(r.Section)
	r.AcademicYear = strings.TrimSpace(r.AcademicYear)
	r.Day = NormalizeDay(r.Day)
	normalizeSlot(&r.Slot)
}

func (r *UpsertEntryRequest) Validate() error {
	return helper.Validator().Struct(r)
}

func normalizeSection(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "A"
	}
	return s
}

func normalizeSlot(s *model.TimetableSlot) {
	s.StartTime = NormalizeClock(s.StartTime)
	s.EndTime = NormalizeClock(s.EndTime)
	s.Room = strings.TrimSpace(s.Room)
}

// NormalizeClock zero-pads "9:05" to "09:05" so clock values compare as strings.
// Unparseable input is returned trimmed for the validator to reject.
func NormalizeClock(s string) string {
	s = strings.TrimSpace(s)
	t, err := time.Parse("15:04", s)
	if err != nil {
		return s
	}
	return t.Format("15:04")
}

// NormalizeDay: "monday", " MONDAY " -> "Monday".
func NormalizeDay(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ScheduleEntry is one slot of a teacher's weekly schedule.
type ScheduleEntry struct {
	Day          string    `json:"day"`
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
	ClassName    string    `json:"class_name"`
	Section      string    `json:"section"`
	AcademicYear string    `json:"academic_year"`
	SubjectID    uuid.UUID `json:"subject_id"`
	Room         string    `json:"room,omitempty"`
}

type TeacherScheduleResponse struct {
	TeacherID uuid.UUID                  `json:"teacher_id"`
	Days      map[string][]ScheduleEntry `json:"days"`
	Total     int                        `json:"total_slots"`
}
