package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schooladmin_backend/internals/features/school/academics/subjects/model"
)

func TestNormalizeCode(t *testing.T) {
	tests := map[string]string{
		" math 101 ": "MATH101",
		"eng":        "ENG",
		"Sci-2":      "SCI-2",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeCode(in), in)
	}
}

func TestUpdateSubjectRequest(t *testing.T) {
	code := "phy 9"
	inactive := false
	req := UpdateSubjectRequest{Code: &code, IsActive: &inactive}
	require.NoError(t, req.Validate())

	m := &model.SubjectModel{SubjectCode: "PHY8", SubjectIsActive: true}
	req.Apply(m)
	assert.Equal(t, "PHY9", m.SubjectCode)
	assert.False(t, m.SubjectIsActive)
}
