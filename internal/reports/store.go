// Copyright (c) 2026 Aljamea Maktabat. All rights reserved.
// Author: systems@ajsn.co.ke

package reports

import "context"

// Repository is the read-only query surface over the Koha database.
type Repository interface {
	TitleAgg(context context.Context, params TitleAggParams) ([]*TitleAggRow, error)
	TopTitles(context context.Context, params TopTitlesParams) ([]*TopTitleRow, error)
	SIPActivity(context context.Context, days int) ([]*SIPActivityRow, error)
	ClassIssues(context context.Context) ([]*ClassIssuesRow, error)
	PatronsByClass(context context.Context, class string) ([]*PatronActivityRow, error)
	PatronsByDepartment(context context.Context, department string) ([]*PatronActivityRow, error)
	DarajaBuckets(context context.Context) ([]*DarajaBucketRow, error)

	LibrarySummary(context context.Context) (*LibrarySummary, error)
	DepartmentBreakdown(context context.Context) ([]*DepartmentBreakdownRow, error)
	MonthlyTrend(context context.Context, months int) ([]*MonthlyTrendRow, error)
	TodayActivity(context context.Context) (*TodayActivity, error)

	ListClasses(context context.Context) ([]string, error)
	ListDepartments(context context.Context) ([]string, error)
}
