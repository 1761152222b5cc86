// Copyright (c) 2026 Aljamea Maktabat. All rights reserved.
// Author: systems@ajsn.co.ke

package reports

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/dberr"
)

// PostgresRepository runs the report catalog against the Koha database.
//
// The pool it receives is pinned read-only at the session level, so every
// statement here is a SELECT by construction and by enforcement.
type PostgresRepository struct {
	db *pgxpool.Pool

	// Attribute code variants. Koha installations are inconsistent about
	// which code carries the class ("STD", "CLASS", ...) and transfer
	// number ("TRNO", "TR", ...), so both are configurable lists matched
	// with = ANY.
	classCodes []string
	trCodes    []string
}

func NewPostgresRepository(db *pgxpool.Pool, classCodes, trCodes []string) *PostgresRepository {
	return &PostgresRepository{db: db, classCodes: classCodes, trCodes: trCodes}
}

// darajaGradePattern matches class attributes readable as a grade number.
// The width bound matters: it keeps the int cast in DarajaBuckets inside
// int4 range, so an absurd all-digit attribute lands in 'Unassigned'
// instead of aborting the whole query with an out-of-range error.
const darajaGradePattern = `^[0-9]{1,4}$`

// attributeJoin returns a LEFT JOIN resolving a patron's attribute for the
// given code-list parameter to AT MOST one row. Some installations populate
// two of the configured codes for the same patron; joining the raw table
// would then duplicate the patron (and inflate any aggregate over them).
// DISTINCT ON keeps the row for the lexically first code.
func attributeJoin(alias, codesParam string) string {
	return `
			LEFT JOIN (
			    SELECT DISTINCT ON (borrowernumber) borrowernumber, attribute
			    FROM borrower_attributes
			    WHERE code = ANY(` + codesParam + `)
			    ORDER BY borrowernumber, code
			) ` + alias + ` ON ` + alias + `.borrowernumber = bo.borrowernumber`
}

// TitleAgg computes, per patron, the distinct titles first issued to them
// inside the window.
//
// The first-issue date per (patron, title) is computed over the FULL event
// log in the CTE; the window filter then applies to that date via FILTER
// clauses on the aggregates. Moving the window into the CTE would silently
// turn "first issued in window" into "issued in window", which is a
// different report.
func (repository *PostgresRepository) TitleAgg(context context.Context, params TitleAggParams) ([]*TitleAggRow, error) {
	query := `
		WITH first_issues AS (
			SELECT s.borrowernumber,
			       b.biblionumber,
			       b.title,
			       MIN(s.datetime)::date AS first_issued
			FROM statistics s
			JOIN items i ON i.itemnumber = s.itemnumber
			JOIN biblio b ON b.biblionumber = i.biblionumber
			WHERE s.type = 'issue'
			GROUP BY s.borrowernumber, b.biblionumber, b.title
		)
		SELECT bo.borrowernumber,
		       bo.cardnumber,
		       concat_ws(' ', bo.firstname, bo.surname) AS full_name,
		       std.attribute AS class_std,
		       tr.attribute  AS tr_number,
		       COUNT(fi.biblionumber) FILTER (WHERE fi.first_issued BETWEEN $1 AND $2) AS titles_count,
		       COALESCE(
		           string_agg(
		               fi.title || ' (' || to_char(fi.first_issued, 'YYYY-MM-DD') || ')',
		               ' | ' ORDER BY fi.title
		           ) FILTER (WHERE fi.first_issued BETWEEN $1 AND $2),
		           ''
		       ) AS titles_list
		FROM borrowers bo` +
		attributeJoin("std", "$4") +
		attributeJoin("tr", "$5") + `
		LEFT JOIN first_issues fi
		       ON fi.borrowernumber = bo.borrowernumber
		WHERE bo.categorycode <> $3
		GROUP BY bo.borrowernumber, bo.cardnumber, bo.firstname, bo.surname,
		         std.attribute, tr.attribute
		ORDER BY std.attribute NULLS FIRST, full_name ASC
	`

	rows, err := repository.db.Query(context, query,
		params.Start, params.End, params.ExcludeCategory,
		repository.classCodes, repository.trCodes,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "title_agg")
	}
	defer rows.Close()

	var result []*TitleAggRow
	for rows.Next() {
		r := &TitleAggRow{}
		if err := rows.Scan(&r.Borrowernumber, &r.Cardnumber, &r.FullName,
			&r.ClassStd, &r.TRNumber, &r.TitlesCount, &r.TitlesList); err != nil {
			return nil, dberr.Wrap(err, "scan_title_agg")
		}
		result = append(result, r)
	}

	return result, dberr.Wrap(rows.Err(), "title_agg_rows")
}

// TopTitles returns the most borrowed titles, optionally filtered by the
// bib record language code (exact or prefix match).
func (repository *PostgresRepository) TopTitles(context context.Context, params TopTitlesParams) ([]*TopTitleRow, error) {
	const query = `
		SELECT b.title,
		       COUNT(*) AS times_borrowed,
		       MAX(s.datetime) AS last_issued
		FROM statistics s
		JOIN items i ON i.itemnumber = s.itemnumber
		JOIN biblio b ON b.biblionumber = i.biblionumber
		WHERE s.type = 'issue'
		  AND ($1::text IS NULL OR b.lang = $1 OR b.lang LIKE $1 || '%')
		GROUP BY b.biblionumber, b.title
		ORDER BY times_borrowed DESC, b.title ASC
		LIMIT $2
	`

	rows, err := repository.db.Query(context, query, params.Lang, params.Limit)
	if err != nil {
		return nil, dberr.Wrap(err, "top_titles")
	}
	defer rows.Close()

	var result []*TopTitleRow
	for rows.Next() {
		r := &TopTitleRow{}
		if err := rows.Scan(&r.Title, &r.TimesBorrowed, &r.LastIssued); err != nil {
			return nil, dberr.Wrap(err, "scan_top_title")
		}
		result = append(result, r)
	}

	return result, dberr.Wrap(rows.Err(), "top_titles_rows")
}

// SIPActivity counts self-service (SIP2 interface) events per type over the
// trailing window.
func (repository *PostgresRepository) SIPActivity(context context.Context, days int) ([]*SIPActivityRow, error) {
	const query = `
		SELECT s.type AS event_type,
		       COUNT(*) AS event_count
		FROM statistics s
		WHERE s.interface = 'sip'
		  AND s.datetime >= CURRENT_DATE - make_interval(days => $1)
		GROUP BY s.type
		ORDER BY event_count DESC, s.type ASC
	`

	rows, err := repository.db.Query(context, query, days)
	if err != nil {
		return nil, dberr.Wrap(err, "sip_activity")
	}
	defer rows.Close()

	var result []*SIPActivityRow
	for rows.Next() {
		r := &SIPActivityRow{}
		if err := rows.Scan(&r.EventType, &r.EventCount); err != nil {
			return nil, dberr.Wrap(err, "scan_sip_activity")
		}
		result = append(result, r)
	}

	return result, dberr.Wrap(rows.Err(), "sip_activity_rows")
}

// ClassIssues counts current issues grouped by the patron's class attribute,
// with the literal 'Unknown' standing in for patrons without one.
func (repository *PostgresRepository) ClassIssues(context context.Context) ([]*ClassIssuesRow, error) {
	query := `
		SELECT COALESCE(std.attribute, 'Unknown') AS class_std,
		       COUNT(*) AS issue_count
		FROM issues iss
		JOIN borrowers bo ON bo.borrowernumber = iss.borrowernumber` +
		attributeJoin("std", "$1") + `
		GROUP BY COALESCE(std.attribute, 'Unknown')
		ORDER BY issue_count DESC, class_std ASC
	`

	rows, err := repository.db.Query(context, query, repository.classCodes)
	if err != nil {
		return nil, dberr.Wrap(err, "class_issues")
	}
	defer rows.Close()

	var result []*ClassIssuesRow
	for rows.Next() {
		r := &ClassIssuesRow{}
		if err := rows.Scan(&r.ClassStd, &r.IssueCount); err != nil {
			return nil, dberr.Wrap(err, "scan_class_issues")
		}
		result = append(result, r)
	}

	return result, dberr.Wrap(rows.Err(), "class_issues_rows")
}

// patronActivitySelect is shared by PatronsByClass and PatronsByDepartment;
// only the WHERE clause differs. Issue counts and fines are pre-aggregated
// in subqueries so the outer LEFT JOINs stay one-row-per-patron.
var patronActivitySelect = `
	SELECT bo.borrowernumber,
	       bo.cardnumber,
	       concat_ws(' ', bo.firstname, bo.surname) AS full_name,
	       std.attribute AS class_std,
	       COALESCE(ic.issue_count, 0) AS total_issues,
	       COALESCE(fp.fines_paid, 0) AS total_fines_paid
	FROM borrowers bo` +
	attributeJoin("std", "$2") + `
	LEFT JOIN (
	    SELECT borrowernumber, COUNT(*) AS issue_count
	    FROM issues
	    GROUP BY borrowernumber
	) ic ON ic.borrowernumber = bo.borrowernumber
	LEFT JOIN (
	    SELECT borrowernumber,
	           SUM(CASE WHEN credit_type_code = 'PAYMENT' THEN amount ELSE 0 END) AS fines_paid
	    FROM accountlines
	    GROUP BY borrowernumber
	) fp ON fp.borrowernumber = bo.borrowernumber
`

// PatronsByClass lists patrons whose class attribute OR branch code equals
// the given value.
//
// The dual-axis OR is intentional and load-bearing: several branch libraries
// record the class in branchcode instead of the STD attribute, and report
// consumers rely on catching both. Do not "fix" it to a single axis.
func (repository *PostgresRepository) PatronsByClass(context context.Context, class string) ([]*PatronActivityRow, error) {
	query := patronActivitySelect + `
		WHERE std.attribute = $1 OR bo.branchcode = $1
		ORDER BY full_name ASC
	`
	return repository.queryPatronActivity(context, query, "patrons_by_class", class)
}

// PatronsByDepartment lists patrons whose category description OR category
// code equals the given value. Same intentional dual-axis matching as
// [PostgresRepository.PatronsByClass].
func (repository *PostgresRepository) PatronsByDepartment(context context.Context, department string) ([]*PatronActivityRow, error) {
	query := patronActivitySelect + `
		LEFT JOIN categories c ON c.categorycode = bo.categorycode
		WHERE COALESCE(c.description, bo.categorycode) = $1 OR bo.categorycode = $1
		ORDER BY full_name ASC
	`
	return repository.queryPatronActivity(context, query, "patrons_by_department", department)
}

func (repository *PostgresRepository) queryPatronActivity(context context.Context, query, action, filter string) ([]*PatronActivityRow, error) {
	rows, err := repository.db.Query(context, query, filter, repository.classCodes)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	defer rows.Close()

	var result []*PatronActivityRow
	for rows.Next() {
		r := &PatronActivityRow{}
		if err := rows.Scan(&r.Borrowernumber, &r.Cardnumber, &r.FullName,
			&r.ClassStd, &r.TotalIssues, &r.TotalFinesPaid); err != nil {
			return nil, dberr.Wrap(err, "scan_"+action)
		}
		result = append(result, r)
	}

	return result, dberr.Wrap(rows.Err(), action+"_rows")
}

// DarajaBuckets counts patrons per daraja (grade band) parsed from the
// class attribute. Attributes that are not a plain non-negative integer of
// grade-like width, or fall outside 1-11, land in 'Unassigned'.
func (repository *PostgresRepository) DarajaBuckets(context context.Context) ([]*DarajaBucketRow, error) {
	query := `
		WITH graded AS (
			SELECT bo.borrowernumber,
			       CASE WHEN std.attribute ~ '` + darajaGradePattern + `'
			            THEN std.attribute::int
			       END AS grade
			FROM borrowers bo` +
		attributeJoin("std", "$1") + `
		), bucketed AS (
			SELECT CASE
			           WHEN grade BETWEEN 1 AND 2  THEN 'Daraja 1-2'
			           WHEN grade BETWEEN 3 AND 4  THEN 'Daraja 3-4'
			           WHEN grade BETWEEN 5 AND 7  THEN 'Daraja 5-7'
			           WHEN grade BETWEEN 8 AND 11 THEN 'Daraja 8-11'
			           ELSE 'Unassigned'
			       END AS bucket,
			       CASE
			           WHEN grade BETWEEN 1 AND 2  THEN 1
			           WHEN grade BETWEEN 3 AND 4  THEN 2
			           WHEN grade BETWEEN 5 AND 7  THEN 3
			           WHEN grade BETWEEN 8 AND 11 THEN 4
			           ELSE 5
			       END AS bucket_rank
			FROM graded
		)
		SELECT bucket, COUNT(*) AS patron_count
		FROM bucketed
		GROUP BY bucket, bucket_rank
		ORDER BY bucket_rank ASC
	`

	rows, err := repository.db.Query(context, query, repository.classCodes)
	if err != nil {
		return nil, dberr.Wrap(err, "daraja_buckets")
	}
	defer rows.Close()

	var result []*DarajaBucketRow
	for rows.Next() {
		r := &DarajaBucketRow{}
		if err := rows.Scan(&r.Bucket, &r.PatronCount); err != nil {
			return nil, dberr.Wrap(err, "scan_daraja_bucket")
		}
		result = append(result, r)
	}

	return result, dberr.Wrap(rows.Err(), "daraja_buckets_rows")
}

// LibrarySummary fetches the dashboard headline figures in one round trip.
func (repository *PostgresRepository) LibrarySummary(context context.Context) (*LibrarySummary, error) {
	const query = `
		SELECT
		    (SELECT COUNT(*) FROM borrowers),
		    (SELECT COUNT(*) FROM biblio),
		    (SELECT COUNT(*) FROM issues),
		    (SELECT COUNT(*) FROM issues WHERE date_due < NOW()),
		    (SELECT COALESCE(SUM(CASE WHEN credit_type_code = 'PAYMENT' THEN amount ELSE 0 END), 0)
		     FROM accountlines)
	`

	s := &LibrarySummary{}
	err := repository.db.QueryRow(context, query).Scan(
		&s.TotalPatrons, &s.TotalTitles, &s.ActiveLoans, &s.OverdueLoans, &s.TotalFinesPaid,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "library_summary")
	}

	return s, nil
}

// DepartmentBreakdown counts patrons per category description, falling back
// to the raw category code when the description is missing.
func (repository *PostgresRepository) DepartmentBreakdown(context context.Context) ([]*DepartmentBreakdownRow, error) {
	const query = `
		SELECT COALESCE(c.description, bo.categorycode) AS department,
		       COUNT(*) AS patron_count
		FROM borrowers bo
		LEFT JOIN categories c ON c.categorycode = bo.categorycode
		GROUP BY COALESCE(c.description, bo.categorycode)
		ORDER BY patron_count DESC, department ASC
	`

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "department_breakdown")
	}
	defer rows.Close()

	var result []*DepartmentBreakdownRow
	for rows.Next() {
		r := &DepartmentBreakdownRow{}
		if err := rows.Scan(&r.Department, &r.PatronCount); err != nil {
			return nil, dberr.Wrap(err, "scan_department_breakdown")
		}
		result = append(result, r)
	}

	return result, dberr.Wrap(rows.Err(), "department_breakdown_rows")
}

// MonthlyTrend counts issue events per calendar month over the trailing
// N months (current month included).
func (repository *PostgresRepository) MonthlyTrend(context context.Context, months int) ([]*MonthlyTrendRow, error) {
	const query = `
		SELECT to_char(s.datetime, 'YYYY-MM') AS month,
		       COUNT(*) AS issue_count
		FROM statistics s
		WHERE s.type = 'issue'
		  AND s.datetime >= date_trunc('month', CURRENT_DATE) - make_interval(months => $1 - 1)
		GROUP BY to_char(s.datetime, 'YYYY-MM')
		ORDER BY month ASC
	`

	rows, err := repository.db.Query(context, query, months)
	if err != nil {
		return nil, dberr.Wrap(err, "monthly_trend")
	}
	defer rows.Close()

	var result []*MonthlyTrendRow
	for rows.Next() {
		r := &MonthlyTrendRow{}
		if err := rows.Scan(&r.Month, &r.IssueCount); err != nil {
			return nil, dberr.Wrap(err, "scan_monthly_trend")
		}
		result = append(result, r)
	}

	return result, dberr.Wrap(rows.Err(), "monthly_trend_rows")
}

// TodayActivity counts today's checkouts and checkins.
func (repository *PostgresRepository) TodayActivity(context context.Context) (*TodayActivity, error) {
	const query = `
		SELECT COUNT(*) FILTER (WHERE s.type = 'issue')  AS checkouts,
		       COUNT(*) FILTER (WHERE s.type = 'return') AS checkins
		FROM statistics s
		WHERE s.datetime::date = CURRENT_DATE
	`

	a := &TodayActivity{}
	if err := repository.db.QueryRow(context, query).Scan(&a.Checkouts, &a.Checkins); err != nil {
		return nil, dberr.Wrap(err, "today_activity")
	}

	return a, nil
}

// ListClasses returns the distinct class attribute values, for report forms.
func (repository *PostgresRepository) ListClasses(context context.Context) ([]string, error) {
	const query = `
		SELECT DISTINCT attribute
		FROM borrower_attributes
		WHERE code = ANY($1) AND attribute IS NOT NULL AND attribute <> ''
		ORDER BY attribute ASC
	`
	return repository.queryStrings(context, query, "list_classes", repository.classCodes)
}

// ListDepartments returns the distinct department labels, for report forms.
func (repository *PostgresRepository) ListDepartments(context context.Context) ([]string, error) {
	const query = `
		SELECT DISTINCT COALESCE(c.description, bo.categorycode) AS department
		FROM borrowers bo
		LEFT JOIN categories c ON c.categorycode = bo.categorycode
		ORDER BY department ASC
	`
	return repository.queryStrings(context, query, "list_departments")
}

func (repository *PostgresRepository) queryStrings(context context.Context, query, action string, args ...any) ([]string, error) {
	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, dberr.Wrap(err, "scan_"+action)
		}
		result = append(result, v)
	}

	return result, dberr.Wrap(rows.Err(), action+"_rows")
}
