// Copyright (c) 2026 Aljamea Maktabat. All rights reserved.
// Author: systems@ajsn.co.ke

package reports

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/apperr"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/pkg/pointer"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/pkg/slug"
)

// csvDocument is a fully materialized report ready for download. Header
// values reuse the stable JSON column identifiers so a CSV export and a
// JSON response of the same report line up column for column.
type csvDocument struct {
	Filename string
	Header   []string
	Rows     [][]string
}

// writeCSV streams the document as a UTF-8 CSV attachment.
func writeCSV(writer http.ResponseWriter, document *csvDocument) error {
	writer.Header().Set("Content-Type", "text/csv; charset=utf-8")
	writer.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", document.Filename))

	csvWriter := csv.NewWriter(writer)

	if err := csvWriter.Write(document.Header); err != nil {
		return apperr.Internal(err)
	}
	for _, row := range document.Rows {
		if err := csvWriter.Write(row); err != nil {
			return apperr.Internal(err)
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return apperr.Internal(err)
	}

	return nil
}

// exportFilename builds "name-qualifier-YYYY-MM-DD.csv" with the qualifier
// slugified. Report parameters can carry Arabic class names, so the slug
// step keeps the filename ASCII-safe for every download client.
func exportFilename(name, qualifier string) string {
	date := time.Now().Format("2006-01-02")
	if qualifier != "" {
		if s := slug.From(qualifier); s != "" {
			return fmt.Sprintf("%s-%s-%s.csv", name, s, date)
		}
	}
	return fmt.Sprintf("%s-%s.csv", name, date)
}

func titleAggCSV(rows []*TitleAggRow) *csvDocument {
	document := &csvDocument{
		Filename: exportFilename(NamePatronTitleAgg, ""),
		Header: []string{"borrowernumber", "cardnumber", "full_name", "class_std",
			"tr_number", "titles_count", "titles_list"},
	}
	for _, r := range rows {
		document.Rows = append(document.Rows, []string{
			strconv.Itoa(r.Borrowernumber),
			pointer.Val(r.Cardnumber),
			r.FullName,
			pointer.Val(r.ClassStd),
			pointer.Val(r.TRNumber),
			strconv.Itoa(r.TitlesCount),
			r.TitlesList,
		})
	}
	return document
}

func topTitlesCSV(rows []*TopTitleRow) *csvDocument {
	document := &csvDocument{
		Filename: exportFilename(NameTopTitles, ""),
		Header:   []string{"title", "times_borrowed", "last_issued"},
	}
	for _, r := range rows {
		lastIssued := ""
		if r.LastIssued != nil {
			lastIssued = r.LastIssued.Format("2006-01-02")
		}
		document.Rows = append(document.Rows, []string{
			r.Title,
			strconv.Itoa(r.TimesBorrowed),
			lastIssued,
		})
	}
	return document
}

func sipActivityCSV(rows []*SIPActivityRow) *csvDocument {
	document := &csvDocument{
		Filename: exportFilename(NameSIPActivity, ""),
		Header:   []string{"event_type", "event_count"},
	}
	for _, r := range rows {
		document.Rows = append(document.Rows, []string{r.EventType, strconv.Itoa(r.EventCount)})
	}
	return document
}

func classIssuesCSV(rows []*ClassIssuesRow) *csvDocument {
	document := &csvDocument{
		Filename: exportFilename(NameClassIssues, ""),
		Header:   []string{"class_std", "issue_count"},
	}
	for _, r := range rows {
		document.Rows = append(document.Rows, []string{r.ClassStd, strconv.Itoa(r.IssueCount)})
	}
	return document
}

func patronActivityCSV(name, qualifier string, rows []*PatronActivityRow) *csvDocument {
	document := &csvDocument{
		Filename: exportFilename(name, qualifier),
		Header: []string{"borrowernumber", "cardnumber", "full_name", "class_std",
			"total_issues", "total_fines_paid"},
	}
	for _, r := range rows {
		document.Rows = append(document.Rows, []string{
			strconv.Itoa(r.Borrowernumber),
			pointer.Val(r.Cardnumber),
			r.FullName,
			pointer.Val(r.ClassStd),
			strconv.Itoa(r.TotalIssues),
			strconv.FormatFloat(r.TotalFinesPaid, 'f', 2, 64),
		})
	}
	return document
}

func darajaBucketsCSV(rows []*DarajaBucketRow) *csvDocument {
	document := &csvDocument{
		Filename: exportFilename(NameDarajaBuckets, ""),
		Header:   []string{"bucket", "patron_count"},
	}
	for _, r := range rows {
		document.Rows = append(document.Rows, []string{r.Bucket, strconv.Itoa(r.PatronCount)})
	}
	return document
}

func departmentBreakdownCSV(rows []*DepartmentBreakdownRow) *csvDocument {
	document := &csvDocument{
		Filename: exportFilename(NameDepartmentBreakdown, ""),
		Header:   []string{"department", "patron_count"},
	}
	for _, r := range rows {
		document.Rows = append(document.Rows, []string{r.Department, strconv.Itoa(r.PatronCount)})
	}
	return document
}

func monthlyTrendCSV(rows []*MonthlyTrendRow) *csvDocument {
	document := &csvDocument{
		Filename: exportFilename(NameMonthlyTrend, ""),
		Header:   []string{"month", "issue_count"},
	}
	for _, r := range rows {
		document.Rows = append(document.Rows, []string{r.Month, strconv.Itoa(r.IssueCount)})
	}
	return document
}
