package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schooladmin_backend/internals/features/school/academics/timetables/model"
	helper "schooladmin_backend/internals/helpers"
)

func slot(start, end string, teacher *uuid.UUID) model.TimetableSlot {
	return model.TimetableSlot{StartTime: start, EndTime: end, SubjectID: uuid.New(), TeacherID: teacher}
}

func TestValidateDays(t *testing.T) {
	tests := []struct {
		name    string
		days    []model.TimetableDay
		wantErr bool
	}{
		{"ok back to back", []model.TimetableDay{{Day: "Monday", Slots: []model.TimetableSlot{
			slot("09:45", "10:30", nil), slot("09:00", "09:45", nil),
		}}}, false},
		{"end before start", []model.TimetableDay{{Day: "Monday", Slots: []model.TimetableSlot{
			slot("10:00", "09:00", nil),
		}}}, true},
		{"zero length", []model.TimetableDay{{Day: "Monday", Slots: []model.TimetableSlot{
			slot("10:00", "10:00", nil),
		}}}, true},
		{"overlap", []model.TimetableDay{{Day: "Tuesday", Slots: []model.TimetableSlot{
			slot("09:00", "10:00", nil), slot("09:30", "10:30", nil),
		}}}, true},
		{"duplicate day", []model.TimetableDay{{Day: "Monday"}, {Day: "Monday"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDays(tt.days)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			_, ok := helper.ValidationFieldErrors(err)
			assert.True(t, ok, "err=%v", err)
		})
	}
}

func TestValidateDaysSorts(t *testing.T) {
	days := []model.TimetableDay{
		{Day: "Friday", Slots: []model.TimetableSlot{slot("11:00", "12:00", nil), slot("08:00", "09:00", nil)}},
		{Day: "Monday"},
	}
	require.NoError(t, ValidateDays(days))
	assert.Equal(t, "Monday", days[0].Day)
	assert.Equal(t, "08:00", days[1].Slots[0].StartTime)
}

func TestFindTeacherClashes(t *testing.T) {
	teacher := uuid.New()
	other := uuid.New()
	existing := []model.TimetableModel{{
		TimetableClassName: "6",
		TimetableSection:   "B",
		TimetableDays: []model.TimetableDay{{Day: "Monday", Slots: []model.TimetableSlot{
			slot("09:00", "09:45", &teacher),
		}}},
	}}

	clashes := FindTeacherClashes([]model.TimetableDay{{Day: "Monday", Slots: []model.TimetableSlot{
		slot("09:30", "10:15", &teacher),
	}}}, existing)
	require.Len(t, clashes, 1)
	assert.Contains(t, clashes[0].String(), "class 6-B")

	assert.Empty(t, FindTeacherClashes([]model.TimetableDay{{Day: "Monday", Slots: []model.TimetableSlot{
		slot("09:45", "10:30", &teacher),
	}}}, existing), "back to back is not a clash")

	assert.Empty(t, FindTeacherClashes([]model.TimetableDay{{Day: "Tuesday", Slots: []model.TimetableSlot{
		slot("09:00", "09:45", &teacher),
	}}}, existing), "different day")

	assert.Empty(t, FindTeacherClashes([]model.TimetableDay{{Day: "Monday", Slots: []model.TimetableSlot{
		slot("09:00", "09:45", &other),
	}}}, existing), "different teacher")
}

func TestUpsertSlot(t *testing.T) {
	days := UpsertSlot(nil, "Monday", slot("09:00", "09:45", nil))
	require.Len(t, days, 1)

	replacement := slot("09:00", "10:00", nil)
	days = UpsertSlot(days, "Monday", replacement)
	require.Len(t, days[0].Slots, 1)
	assert.Equal(t, "10:00", days[0].Slots[0].EndTime)

	days = UpsertSlot(days, "Monday", slot("10:00", "10:45", nil))
	assert.Len(t, days[0].Slots, 2)
}

func TestTeacherSchedule(t *testing.T) {
	teacher := uuid.New()
	tts := []model.TimetableModel{
		{TimetableClassName: "5", TimetableSection: "A", TimetableDays: []model.TimetableDay{
			{Day: "Monday", Slots: []model.TimetableSlot{slot("11:00", "11:45", &teacher), slot("09:00", "09:45", nil)}},
		}},
		{TimetableClassName: "6", TimetableSection: "A", TimetableDays: []model.TimetableDay{
			{Day: "Monday", Slots: []model.TimetableSlot{slot("08:00", "08:45", &teacher)}},
			{Day: "Wednesday", Slots: []model.TimetableSlot{slot("10:00", "10:45", &teacher)}},
		}},
	}
	out := TeacherSchedule(teacher, tts)
	assert.Equal(t, 3, out.Total)
	require.Len(t, out.Days["Monday"], 2)
	assert.Equal(t, "6", out.Days["Monday"][0].ClassName)
	assert.Len(t, out.Days["Wednesday"], 1)
}
