// Copyright (c) 2026 Aljamea Maktabat. All rights reserved.
// Author: systems@ajsn.co.ke

package reports

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nyakwar-Orera/Aljamea-Maktabat/pkg/pointer"
)

/*
TestExportFilename checks slugification of report qualifiers, including
non-ASCII class names.
*/
func TestExportFilename(t *testing.T) {
	date := time.Now().Format("2006-01-02")

	tests := []struct {
		name      string
		report    string
		qualifier string
		want      string
	}{
		{"no_qualifier", NameClassIssues, "", "class-issues-" + date + ".csv"},
		{"simple_qualifier", NamePatronsByClass, "Daraja 4", "patrons-by-class-daraja-4-" + date + ".csv"},
		{"accented_qualifier", NamePatronsByDepartment, "Crèche", "patrons-by-department-creche-" + date + ".csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exportFilename(tt.report, tt.qualifier))
		})
	}
}

/*
TestTitleAggCSV verifies column order, nil attribute handling, and that the
CSV header matches the JSON column identifiers.
*/
func TestTitleAggCSV(t *testing.T) {
	rows := []*TitleAggRow{
		{
			Borrowernumber: 42,
			Cardnumber:     pointer.To("C-0042"),
			FullName:       "Amina Yusuf",
			ClassStd:       pointer.To("4"),
			TRNumber:       nil,
			TitlesCount:    2,
			TitlesList:     "Al-Muqaddima (2026-04-12) | Kitab al-Iman (2026-05-01)",
		},
		{
			Borrowernumber: 43,
			FullName:       "Idris Hassan",
			TitlesCount:    0,
			TitlesList:     "",
		},
	}

	document := titleAggCSV(rows)

	assert.Equal(t, []string{"borrowernumber", "cardnumber", "full_name", "class_std",
		"tr_number", "titles_count", "titles_list"}, document.Header)
	require.Len(t, document.Rows, 2)
	assert.Equal(t, []string{"42", "C-0042", "Amina Yusuf", "4", "", "2",
		"Al-Muqaddima (2026-04-12) | Kitab al-Iman (2026-05-01)"}, document.Rows[0])
	assert.Equal(t, "", document.Rows[1][1], "nil cardnumber becomes empty cell")
}

/*
TestWriteCSV exercises the full HTTP write: content type, attachment
disposition, and quoting of cells containing the list separator.
*/
func TestWriteCSV(t *testing.T) {
	recorder := httptest.NewRecorder()

	document := &csvDocument{
		Filename: "daraja-buckets-2026-08-31.csv",
		Header:   []string{"bucket", "patron_count"},
		Rows: [][]string{
			{"Daraja 1-2", "14"},
			{"Title, with comma", "3"},
		},
	}

	require.NoError(t, writeCSV(recorder, document))

	assert.Equal(t, "text/csv; charset=utf-8", recorder.Header().Get("Content-Type"))
	assert.Contains(t, recorder.Header().Get("Content-Disposition"), `filename="daraja-buckets-2026-08-31.csv"`)

	lines := strings.Split(strings.TrimSpace(recorder.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "bucket,patron_count", lines[0])
	assert.Equal(t, `"Title, with comma",3`, lines[2])
}

/*
TestPatronActivityCSV formats fines with two decimals.
*/
func TestPatronActivityCSV(t *testing.T) {
	rows := []*PatronActivityRow{
		{Borrowernumber: 7, FullName: "Zainab Omar", TotalIssues: 5, TotalFinesPaid: 12.5},
	}

	document := patronActivityCSV(NamePatronsByClass, "Daraja 4", rows)

	require.Len(t, document.Rows, 1)
	assert.Equal(t, "12.50", document.Rows[0][5])
}
