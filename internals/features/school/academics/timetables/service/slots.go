package service

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"schooladmin_backend/internals/features/school/academics/timetables/dto"
	"schooladmin_backend/internals/features/school/academics/timetables/model"
	helper "schooladmin_backend/internals/helpers"
)

var weekOrder = map[string]int{
	"Monday": 1, "Tuesday": 2, "Wednesday": 3, "Thursday": 4,
	"Friday": 5, "Saturday": 6, "Sunday": 7,
}

// overlaps: half-open [start, end) ranges in zero-padded HH:MM compare lexically.
func overlaps(a, b model.TimetableSlot) bool {
	return a.StartTime < b.EndTime && b.StartTime < a.EndTime
}

// ValidateDays checks every slot ends after it starts, days are unique and no
// two slots of one day overlap. Slots are sorted by start time in place.
func ValidateDays(days []model.TimetableDay) error {
	seen := map[string]bool{}
	for i := range days {
		d := &days[i]
		if seen[d.Day] {
			return helper.NewFieldError("days", fmt.Sprintf("%s appears more than once", d.Day))
		}
		seen[d.Day] = true

		for _, s := range d.Slots {
			if s.EndTime <= s.StartTime {
				return helper.NewFieldError("days", fmt.Sprintf("%s %s-%s: end time must be after start time", d.Day, s.StartTime, s.EndTime))
			}
		}
		sort.SliceStable(d.Slots, func(a, b int) bool { return d.Slots[a].StartTime < d.Slots[b].StartTime })
		for j := 1; j < len(d.Slots); j++ {
			if overlaps(d.Slots[j-1], d.Slots[j]) {
				return helper.NewFieldError("days", fmt.Sprintf("%s: slot %s-%s overlaps %s-%s",
					d.Day, d.Slots[j].StartTime, d.Slots[j].EndTime, d.Slots[j-1].StartTime, d.Slots[j-1].EndTime))
			}
		}
	}
	sort.SliceStable(days, func(a, b int) bool { return weekOrder[days[a].Day] < weekOrder[days[b].Day] })
	return nil
}

type Clash struct {
	TeacherID uuid.UUID
	Day       string
	Slot      model.TimetableSlot
	Other     *model.TimetableModel
}

func (c Clash) String() string {
	return fmt.Sprintf("teacher %s is already teaching %s-%s on %s in class %s-%s",
		c.TeacherID, c.Slot.StartTime, c.Slot.EndTime, c.Day, c.Other.TimetableClassName, c.Other.TimetableSection)
}

// FindTeacherClashes reports slots in days whose teacher is busy at an
// overlapping time in one of the other timetables.
func FindTeacherClashes(days []model.TimetableDay, others []model.TimetableModel) []Clash {
	var out []Clash
	for _, d := range days {
		for _, s := range d.Slots {
			if s.TeacherID == nil {
				continue
			}
			for i := range others {
				o := &others[i]
				for _, od := range o.TimetableDays {
					if od.Day != d.Day {
						continue
					}
					for _, os := range od.Slots {
						if os.TeacherID != nil && *os.TeacherID == *s.TeacherID && overlaps(s, os) {
							out = append(out, Clash{TeacherID: *s.TeacherID, Day: d.Day, Slot: s, Other: o})
						}
					}
				}
			}
		}
	}
	return out
}

// UpsertSlot replaces the slot with the same start time on day, or appends it.
func UpsertSlot(days []model.TimetableDay, day string, slot model.TimetableSlot) []model.TimetableDay {
	for i := range days {
		if days[i].Day != day {
			continue
		}
		for j := range days[i].Slots {
			if days[i].Slots[j].StartTime == slot.StartTime {
				days[i].Slots[j] = slot
				return days
			}
		}
		days[i].Slots = append(days[i].Slots, slot)
		return days
	}
	return append(days, model.TimetableDay{Day: day, Slots: []model.TimetableSlot{slot}})
}

// TeacherSchedule collects a teacher's slots across timetables, grouped by day.
func TeacherSchedule(teacherID uuid.UUID, timetables []model.TimetableModel) dto.TeacherScheduleResponse {
	out := dto.TeacherScheduleResponse{TeacherID: teacherID, Days: map[string][]dto.ScheduleEntry{}}
	for _, t := range timetables {
		for _, d := range t.TimetableDays {
			for _, s := range d.Slots {
				if s.TeacherID == nil || *s.TeacherID != teacherID {
					continue
				}
				out.Days[d.Day] = append(out.Days[d.Day], dto.ScheduleEntry{
					Day:          d.Day,
					StartTime:    s.StartTime,
					EndTime:      s.EndTime,
					ClassName:    t.TimetableClassName,
					Section:      t.TimetableSection,
					AcademicYear: t.TimetableAcademicYear,
					SubjectID:    s.SubjectID,
					Room:         s.Room,
				})
				out.Total++
			}
		}
	}
	for day := range out.Days {
		entries := out.Days[day]
		sort.Slice(entries, func(a, b int) bool { return entries[a].StartTime < entries[b].StartTime })
	}
	return out
}
