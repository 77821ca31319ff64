package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStamp(t *testing.T) {
	tests := []struct {
		day, week int
	}{
		{1, 1}, {7, 1}, {8, 2}, {14, 2}, {15, 3}, {28, 4}, {29, 5}, {31, 5},
	}
	for _, tt := range tests {
		m := AttendanceModel{AttendanceDate: time.Date(2024, 3, tt.day, 0, 0, 0, 0, time.UTC)}
		m.Stamp()
		assert.Equal(t, 3, m.AttendanceMonth)
		assert.Equal(t, 2024, m.AttendanceYear)
		assert.Equal(t, tt.week, m.AttendanceWeekOfMonth, "day %d", tt.day)
	}
}
