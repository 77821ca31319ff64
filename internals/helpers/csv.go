package helper

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// CSVRow maps normalized header -> cell value. Line is 1-based and counts the header.
type CSVRow struct {
	Line   int
	Values map[string]string
}

func (r CSVRow) Get(key string) string {
	return strings.TrimSpace(r.Values[NormalizeHeader(key)])
}

// ReadCSV reads a header row and returns every data row keyed by normalized header.
func ReadCSV(r io.Reader) ([]CSVRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("csv is empty")
		}
		return nil, err
	}
	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = NormalizeHeader(h)
	}

	var rows []CSVRow
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return rows, err
		}
		if isBlankRecord(rec) {
			continue
		}
		vals := make(map[string]string, len(keys))
		for i, k := range keys {
			if i < len(rec) {
				vals[k] = strings.TrimSpace(rec[i])
			}
		}
		rows = append(rows, CSVRow{Line: line, Values: vals})
	}
	return rows, nil
}

// NormalizeHeader: "Scholar Number", "scholar_number", "ScholarNumber " -> "scholarnumber".
func NormalizeHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	var b strings.Builder
	for _, r := range norm.NFKD.String(strings.ToLower(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var titleCaser = cases.Title(language.English)

// NormalizeName trims, collapses whitespace and title-cases a person name.
func NormalizeName(s string) string {
	s = norm.NFC.String(strings.Join(strings.Fields(s), " "))
	return titleCaser.String(s)
}

func isBlankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
