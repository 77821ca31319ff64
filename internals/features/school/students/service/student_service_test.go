package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schooladmin_backend/internals/features/school/students/model"
	helper "schooladmin_backend/internals/helpers"
)

const studentCSV = `Scholar Number,First Name,Last Name,Gender,Class Name,Section,Roll Number,Academic Year,Guardian Email,Medical Conditions,Date of Birth
sch-101,  asha ,verma,F,5,a,12,2024-2025,parent@example.com,asthma; peanut allergy ;asthma,2014-03-02
SCH-102,Ravi,Kumar,male,5,,x,2024-2025,,,
SCH-103,,Singh,Male,5,A,,2024-2025,,,
SCH-104,Neha,Rao,unknown,5,A,,2024-2025,not-an-email,,
`

func readRows(t *testing.T) []helper.CSVRow {
	t.Helper()
	rows, err := helper.ReadCSV(strings.NewReader(studentCSV))
	require.NoError(t, err)
	require.Len(t, rows, 4)
	return rows
}

func TestStudentRequestFromCSV(t *testing.T) {
	rows := readRows(t)

	req, err := StudentRequestFromCSV(rows[0])
	require.NoError(t, err)
	assert.Equal(t, "SCH-101", req.ScholarNumber)
	assert.Equal(t, "Asha", req.FirstName)
	assert.Equal(t, "Female", req.Gender)
	assert.Equal(t, "A", req.Section)
	require.NotNil(t, req.RollNumber)
	assert.Equal(t, 12, *req.RollNumber)
	assert.Equal(t, []string{"asthma", "peanut allergy"}, req.MedicalConditions)

	m := req.ToModel(time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC))
	assert.Equal(t, model.StudentStatusActive, m.StudentStatus)
	require.NotNil(t, m.StudentDateOfBirth)
	assert.Equal(t, 2014, m.StudentDateOfBirth.Year())
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), m.StudentAdmissionDate)
	assert.Equal(t, "Asha Verma", m.FullName())

	t.Run("bad rows", func(t *testing.T) {
		_, err := StudentRequestFromCSV(rows[1])
		assert.ErrorContains(t, err, "roll_number")

		_, err = StudentRequestFromCSV(rows[2])
		assert.ErrorContains(t, err, "first_name")

		_, err = StudentRequestFromCSV(rows[3])
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gender")
		assert.Contains(t, err.Error(), "guardian_email")
	})
}
