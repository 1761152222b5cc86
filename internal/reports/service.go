// Copyright (c) 2026 Aljamea Maktabat. All rights reserved.
// Author: systems@ajsn.co.ke

package reports

import (
	"context"
	"log/slog"
	"time"

	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/constants"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/validate"
)

// Defaults carries the configured fallback parameters for reports.
type Defaults struct {
	// ExcludeCategory is the patron category dropped from the title
	// aggregation report (kindergarten patrons by default).
	ExcludeCategory string
	// TopTitlesLimit is the result cap when the caller omits limit.
	TopTitlesLimit int
	// SIPWindowDays is the trailing window when the caller omits days.
	SIPWindowDays int
}

// Service validates report parameters, applies defaults, and delegates the
// heavy lifting to the repository.
type Service struct {
	repo     Repository
	logger   *slog.Logger
	defaults Defaults
}

func NewService(repo Repository, logger *slog.Logger, defaults Defaults) *Service {
	return &Service{
		repo:     repo,
		logger:   logger,
		defaults: defaults,
	}
}

// DefaultWindow returns the academic-year reporting window containing now:
// April 1 through December 31 of the current year. Used when the title
// aggregation report is called without explicit dates.
func DefaultWindow(now time.Time) (start, end time.Time) {
	year := now.Year()
	start = time.Date(year, time.April, 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return start, end
}

// TitleAgg runs the patron title aggregation report.
//
// An entirely absent window falls back to [DefaultWindow]; a half-specified
// or inverted window is a validation error. The inverted-window check lives
// here on purpose: the query alone would just return an empty set, hiding
// the caller's mistake.
func (service *Service) TitleAgg(context context.Context, params TitleAggParams) ([]*TitleAggRow, error) {
	if params.Start.IsZero() && params.End.IsZero() {
		params.Start, params.End = DefaultWindow(time.Now())
	}

	if params.ExcludeCategory == "" {
		params.ExcludeCategory = service.defaults.ExcludeCategory
	}

	validator := &validate.Validator{}
	validator.
		RequiredDate(FieldStart, params.Start).
		RequiredDate(FieldEnd, params.End).
		DateOrder(FieldStart, params.Start, params.End)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	rows, err := service.repo.TitleAgg(context, params)
	if err != nil {
		return nil, err
	}

	service.logger.Debug("report_run",
		slog.String("report", NamePatronTitleAgg),
		slog.Int("rows", len(rows)),
	)

	return nonNil(rows), nil
}

// TopTitles runs the top borrowed titles report.
func (service *Service) TopTitles(context context.Context, params TopTitlesParams) ([]*TopTitleRow, error) {
	if params.Limit == 0 {
		params.Limit = service.defaults.TopTitlesLimit
	}

	validator := &validate.Validator{}
	validator.Range(FieldLimit, params.Limit, 1, constants.MaxTopTitlesLimit)

	if params.Lang != nil {
		validator.Required("lang", *params.Lang).MaxLen("lang", *params.Lang, 10)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	rows, err := service.repo.TopTitles(context, params)
	if err != nil {
		return nil, err
	}

	return nonNil(rows), nil
}

// SIPActivity runs the self-service activity report.
func (service *Service) SIPActivity(context context.Context, days int) ([]*SIPActivityRow, error) {
	if days == 0 {
		days = service.defaults.SIPWindowDays
	}

	validator := &validate.Validator{}
	if err := validator.Range(FieldDays, days, 1, constants.MaxSIPWindowDays).Err(); err != nil {
		return nil, err
	}

	rows, err := service.repo.SIPActivity(context, days)
	if err != nil {
		return nil, err
	}

	return nonNil(rows), nil
}

// ClassIssues runs the issues-per-class report.
func (service *Service) ClassIssues(context context.Context) ([]*ClassIssuesRow, error) {
	rows, err := service.repo.ClassIssues(context)
	if err != nil {
		return nil, err
	}
	return nonNil(rows), nil
}

// PatronsByClass runs the patron list report filtered by class value.
func (service *Service) PatronsByClass(context context.Context, class string) ([]*PatronActivityRow, error) {
	validator := &validate.Validator{}
	if err := validator.Required(FieldClass, class).MaxLen(FieldClass, class, 80).Err(); err != nil {
		return nil, err
	}

	rows, err := service.repo.PatronsByClass(context, class)
	if err != nil {
		return nil, err
	}

	return nonNil(rows), nil
}

// PatronsByDepartment runs the patron list report filtered by department.
func (service *Service) PatronsByDepartment(context context.Context, department string) ([]*PatronActivityRow, error) {
	validator := &validate.Validator{}
	if err := validator.Required(FieldDepartment, department).MaxLen(FieldDepartment, department, 120).Err(); err != nil {
		return nil, err
	}

	rows, err := service.repo.PatronsByDepartment(context, department)
	if err != nil {
		return nil, err
	}

	return nonNil(rows), nil
}

// DarajaBuckets runs the daraja bucket report.
func (service *Service) DarajaBuckets(context context.Context) ([]*DarajaBucketRow, error) {
	rows, err := service.repo.DarajaBuckets(context)
	if err != nil {
		return nil, err
	}
	return nonNil(rows), nil
}

// LibrarySummary returns the headline figures.
func (service *Service) LibrarySummary(context context.Context) (*LibrarySummary, error) {
	return service.repo.LibrarySummary(context)
}

// DepartmentBreakdown runs the patrons-per-department report.
func (service *Service) DepartmentBreakdown(context context.Context) ([]*DepartmentBreakdownRow, error) {
	rows, err := service.repo.DepartmentBreakdown(context)
	if err != nil {
		return nil, err
	}
	return nonNil(rows), nil
}

// MonthlyTrend runs the circulation trend report over the trailing months.
func (service *Service) MonthlyTrend(context context.Context, months int) ([]*MonthlyTrendRow, error) {
	if months == 0 {
		months = constants.DefaultTrendMonths
	}

	validator := &validate.Validator{}
	if err := validator.Range(FieldMonths, months, 1, constants.MaxTrendMonths).Err(); err != nil {
		return nil, err
	}

	rows, err := service.repo.MonthlyTrend(context, months)
	if err != nil {
		return nil, err
	}

	return nonNil(rows), nil
}

// TodayActivity returns today's checkout/checkin counts.
func (service *Service) TodayActivity(context context.Context) (*TodayActivity, error) {
	return service.repo.TodayActivity(context)
}

// ListClasses returns the distinct class values for report forms.
func (service *Service) ListClasses(context context.Context) ([]string, error) {
	values, err := service.repo.ListClasses(context)
	if err != nil {
		return nil, err
	}
	return nonNil(values), nil
}

// ListDepartments returns the distinct department labels for report forms.
func (service *Service) ListDepartments(context context.Context) ([]string, error) {
	values, err := service.repo.ListDepartments(context)
	if err != nil {
		return nil, err
	}
	return nonNil(values), nil
}

// nonNil normalizes empty results so list endpoints serialize as [] not null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
