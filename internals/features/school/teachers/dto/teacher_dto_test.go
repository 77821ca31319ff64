package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schooladmin_backend/internals/features/school/teachers/model"
)

func TestCreateTeacherRequest(t *testing.T) {
	req := CreateTeacherRequest{
		EnrollmentNo: " tch-07 ",
		FirstName:    "meera",
		LastName:     "iyer",
		Email:        " Meera.Iyer@School.Example ",
		Gender:       "f",
		Subjects:     []string{"Maths", " maths", "Physics", ""},
	}
	req.Normalize()
	require.NoError(t, req.Validate())

	m := req.ToModel(time.Date(2024, 4, 1, 15, 0, 0, 0, time.UTC))
	assert.Equal(t, "TCH-07", m.TeacherEnrollmentNo)
	assert.Equal(t, "Meera Iyer", m.FullName())
	assert.Equal(t, "meera.iyer@school.example", m.TeacherEmail)
	assert.Equal(t, "Female", m.TeacherGender)
	assert.Equal(t, []string{"Maths", "Physics"}, []string(m.TeacherSubjects))
	assert.Equal(t, model.TeacherStatusActive, m.TeacherStatus)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), m.TeacherJoiningDate)
}

func TestUpdateTeacherRequest(t *testing.T) {
	onLeave := "On Leave"
	req := UpdateTeacherRequest{Status: &onLeave}
	require.NoError(t, req.Validate())

	m := &model.TeacherModel{TeacherStatus: model.TeacherStatusActive}
	req.Apply(m)
	assert.Equal(t, model.TeacherStatusOnLeave, m.TeacherStatus)

	bad := "Retired"
	assert.Error(t, (&UpdateTeacherRequest{Status: &bad}).Validate())
}
