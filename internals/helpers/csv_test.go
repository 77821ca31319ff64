package helper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHeader(t *testing.T) {
	tests := map[string]string{
		"Scholar Number":  "scholarnumber",
		"scholar_number":  "scholarnumber",
		" ScholarNumber ": "scholarnumber",
		"\ufeffName":      "name",
		"Date-of-Birth":   "dateofbirth",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeHeader(in), in)
	}
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "Ana Maria Lopez", NormalizeName("  ana   maria LOPEZ "))
	assert.Equal(t, "", NormalizeName("   "))
}

func TestReadCSV(t *testing.T) {
	in := "Scholar Number,First Name,Class\n" +
		"S-001, ana ,5\n" +
		",,\n" +
		"S-002,budi\n"

	rows, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "S-001", rows[0].Get("scholar_number"))
	assert.Equal(t, "ana", rows[0].Get("First Name"))
	assert.Equal(t, "5", rows[0].Get("class"))

	// blank line still counts toward line numbers; short rows leave cells empty
	assert.Equal(t, 4, rows[1].Line)
	assert.Equal(t, "", rows[1].Get("class"))
}

func TestReadCSVEmpty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}
