// Copyright (c) 2026 Aljamea Maktabat. All rights reserved.
// Author: systems@ajsn.co.ke

/*
Package reports implements the analytical report catalog run against the
Koha ILS database.

# Architecture

Every report is a named, parameterized, read-only query producing an ordered
tabular result. The JSON field names on the row structs are the stable column
identifiers consumed by the dashboard front end and the CSV exporter; they
must not change without coordinating both.

The aggregation itself lives in SQL (the database is far better at it than
Go), so the service layer here is thin: parameter validation, defaulting,
and logging.
*/
package reports

import "time"

// Report names as they appear in URLs and export filenames.
const (
	NamePatronTitleAgg      = "patron-title-agg"
	NameTopTitles           = "top-titles"
	NameSIPActivity         = "sip-activity"
	NameClassIssues         = "class-issues"
	NamePatronsByClass      = "patrons-by-class"
	NamePatronsByDepartment = "patrons-by-department"
	NameDarajaBuckets       = "daraja-buckets"
	NameLibrarySummary      = "library-summary"
	NameDepartmentBreakdown = "department-breakdown"
	NameMonthlyTrend        = "monthly-trend"
	NameTodayActivity       = "today-activity"
)

// TitleAggRow is one row of the patron title aggregation report.
//
// TitlesList is a " | "-joined list of "Title (YYYY-MM-DD)" entries ordered
// alphabetically by title; empty string for patrons with no issue in the
// window. ClassStd and TRNumber are nil when the patron lacks the attribute.
type TitleAggRow struct {
	Borrowernumber int     `json:"borrowernumber"`
	Cardnumber     *string `json:"cardnumber"`
	FullName       string  `json:"full_name"`
	ClassStd       *string `json:"class_std"`
	TRNumber       *string `json:"tr_number"`
	TitlesCount    int     `json:"titles_count"`
	TitlesList     string  `json:"titles_list"`
}

// TitleAggParams are the inputs to the patron title aggregation report.
type TitleAggParams struct {
	Start           time.Time
	End             time.Time
	ExcludeCategory string
}

// TopTitleRow is one row of the top borrowed titles report.
type TopTitleRow struct {
	Title         string     `json:"title"`
	TimesBorrowed int        `json:"times_borrowed"`
	LastIssued    *time.Time `json:"last_issued"`
}

// TopTitlesParams are the inputs to the top borrowed titles report.
//
// Lang filters by the bib record language code, matching exactly or by
// prefix ("ar" matches "ara"). Nil means no language filter.
type TopTitlesParams struct {
	Lang  *string
	Limit int
}

// SIPActivityRow is one row of the SIP self-service activity report.
type SIPActivityRow struct {
	EventType  string `json:"event_type"`
	EventCount int    `json:"event_count"`
}

// ClassIssuesRow is one row of the issues-per-class report. ClassStd holds
// the literal "Unknown" for patrons without a class attribute.
type ClassIssuesRow struct {
	ClassStd   string `json:"class_std"`
	IssueCount int    `json:"issue_count"`
}

// PatronActivityRow is one row of the patrons-by-class and
// patrons-by-department reports.
//
// TotalFinesPaid sums only account lines tagged as payments; other credit
// types contribute zero (conditional sum, not a filter, so a patron with
// only non-payment lines still appears with 0).
type PatronActivityRow struct {
	Borrowernumber int     `json:"borrowernumber"`
	Cardnumber     *string `json:"cardnumber"`
	FullName       string  `json:"full_name"`
	ClassStd       *string `json:"class_std"`
	TotalIssues    int     `json:"total_issues"`
	TotalFinesPaid float64 `json:"total_fines_paid"`
}

// DarajaBucketRow is one row of the daraja bucket report.
type DarajaBucketRow struct {
	Bucket      string `json:"bucket"`
	PatronCount int    `json:"patron_count"`
}

// LibrarySummary is the headline-figures report used by the dashboard.
type LibrarySummary struct {
	TotalPatrons   int     `json:"total_patrons"`
	TotalTitles    int     `json:"total_titles"`
	ActiveLoans    int     `json:"active_loans"`
	OverdueLoans   int     `json:"overdue_loans"`
	TotalFinesPaid float64 `json:"total_fines_paid"`
}

// DepartmentBreakdownRow is one row of the patrons-per-department report.
type DepartmentBreakdownRow struct {
	Department  string `json:"department"`
	PatronCount int    `json:"patron_count"`
}

// MonthlyTrendRow is one row of the monthly circulation trend report.
// Month is formatted YYYY-MM.
type MonthlyTrendRow struct {
	Month      string `json:"month"`
	IssueCount int    `json:"issue_count"`
}

// TodayActivity reports checkouts and checkins recorded today.
type TodayActivity struct {
	Checkouts int `json:"checkouts"`
	Checkins  int `json:"checkins"`
}

// Field names for validation.
const (
	FieldStart      = "start"
	FieldEnd        = "end"
	FieldLimit      = "limit"
	FieldDays       = "days"
	FieldClass      = "class"
	FieldDepartment = "department"
	FieldMonths     = "months"
)
