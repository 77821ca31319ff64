package dto

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helper "schooladmin_backend/internals/helpers"
)

func validExam() CreateExamRequest {
	return CreateExamRequest{
		Name:         " Maths Mid Term ",
		Type:         "Mid Term",
		ClassName:    "7",
		AcademicYear: "2024-2025",
		SubjectID:    uuid.New(),
		Date:         "2024-09-20",
		TotalMarks:   100,
		PassingMarks: 33,
	}
}

func TestCreateExamRequestValidate(t *testing.T) {
	start, end := "10:00", "09:30"
	tests := []struct {
		name   string
		mutate func(r *CreateExamRequest)
		field  string
	}{
		{"valid", func(r *CreateExamRequest) {}, ""},
		{"unknown type", func(r *CreateExamRequest) { r.Type = "Quiz" }, "type"},
		{"bad date", func(r *CreateExamRequest) { r.Date = "20/09/2024" }, "date"},
		{"passing above total", func(r *CreateExamRequest) { r.PassingMarks = 120 }, "passing_marks"},
		{"end before start", func(r *CreateExamRequest) { r.StartTime, r.EndTime = &start, &end }, "end_time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validExam()
			tt.mutate(&r)
			r.Normalize()
			err := r.Validate()
			if tt.field == "" {
				require.NoError(t, err)
				return
			}
			fields, ok := helper.ValidationFieldErrors(err)
			require.True(t, ok, "err=%v", err)
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestCreateExamToModel(t *testing.T) {
	r := validExam()
	r.Normalize()
	m := r.ToModel(nil)
	assert.Equal(t, "Maths Mid Term", m.ExamName)
	assert.Equal(t, "2024-09-20", m.ExamDate.Format("2006-01-02"))
	assert.EqualValues(t, "Scheduled", m.ExamStatus)
}

func TestSubmitResultsItems(t *testing.T) {
	single := SubmitResultsRequest{SubmitResultRequest: SubmitResultRequest{StudentID: uuid.New(), MarksObtained: 10}}
	assert.Len(t, single.Items(), 1)

	batch := SubmitResultsRequest{Results: []SubmitResultRequest{{StudentID: uuid.New()}, {StudentID: uuid.New()}}}
	assert.Len(t, batch.Items(), 2)
}
