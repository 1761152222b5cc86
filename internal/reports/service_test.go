// Copyright (c) 2026 Aljamea Maktabat. All rights reserved.
// Author: systems@ajsn.co.ke

package reports_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/apperr"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/reports"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/pkg/pointer"
)

// fakeRepository records the parameters it was called with and returns
// canned rows, so service-layer defaulting and validation can be asserted
// without a database.
type fakeRepository struct {
	titleAggParams  reports.TitleAggParams
	topTitlesParams reports.TopTitlesParams
	sipDays         int
	classFilter     string

	titleAggRows []*reports.TitleAggRow
	topTitleRows []*reports.TopTitleRow
}

func (f *fakeRepository) TitleAgg(_ context.Context, p reports.TitleAggParams) ([]*reports.TitleAggRow, error) {
	f.titleAggParams = p
	return f.titleAggRows, nil
}

func (f *fakeRepository) TopTitles(_ context.Context, p reports.TopTitlesParams) ([]*reports.TopTitleRow, error) {
	f.topTitlesParams = p
	return f.topTitleRows, nil
}

func (f *fakeRepository) SIPActivity(_ context.Context, days int) ([]*reports.SIPActivityRow, error) {
	f.sipDays = days
	return nil, nil
}

func (f *fakeRepository) ClassIssues(_ context.Context) ([]*reports.ClassIssuesRow, error) {
	return nil, nil
}

func (f *fakeRepository) PatronsByClass(_ context.Context, class string) ([]*reports.PatronActivityRow, error) {
	f.classFilter = class
	return nil, nil
}

func (f *fakeRepository) PatronsByDepartment(_ context.Context, department string) ([]*reports.PatronActivityRow, error) {
	f.classFilter = department
	return nil, nil
}

func (f *fakeRepository) DarajaBuckets(_ context.Context) ([]*reports.DarajaBucketRow, error) {
	return nil, nil
}

func (f *fakeRepository) LibrarySummary(_ context.Context) (*reports.LibrarySummary, error) {
	return &reports.LibrarySummary{}, nil
}

func (f *fakeRepository) DepartmentBreakdown(_ context.Context) ([]*reports.DepartmentBreakdownRow, error) {
	return nil, nil
}

func (f *fakeRepository) MonthlyTrend(_ context.Context, months int) ([]*reports.MonthlyTrendRow, error) {
	return nil, nil
}

func (f *fakeRepository) TodayActivity(_ context.Context) (*reports.TodayActivity, error) {
	return &reports.TodayActivity{}, nil
}

func (f *fakeRepository) ListClasses(_ context.Context) ([]string, error) {
	return nil, nil
}

func (f *fakeRepository) ListDepartments(_ context.Context) ([]string, error) {
	return nil, nil
}

func newService(repo *fakeRepository) *reports.Service {
	return reports.NewService(repo, slog.Default(), reports.Defaults{
		ExcludeCategory: "T-KG",
		TopTitlesLimit:  25,
		SIPWindowDays:   90,
	})
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

/*
TestDefaultWindow verifies the academic-year fallback window: April 1
through December 31 of the current year.
*/
func TestDefaultWindow(t *testing.T) {
	now := time.Date(2026, time.August, 31, 14, 0, 0, 0, time.UTC)

	start, end := reports.DefaultWindow(now)

	assert.Equal(t, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC), end)
}

/*
TestTitleAgg_Defaults checks that an empty parameter set picks up the
academic-year window and the configured excluded category.
*/
func TestTitleAgg_Defaults(t *testing.T) {
	repo := &fakeRepository{}
	service := newService(repo)

	_, err := service.TitleAgg(context.Background(), reports.TitleAggParams{})
	require.NoError(t, err)

	assert.Equal(t, "T-KG", repo.titleAggParams.ExcludeCategory)
	assert.Equal(t, time.April, repo.titleAggParams.Start.Month())
	assert.Equal(t, 1, repo.titleAggParams.Start.Day())
	assert.Equal(t, time.December, repo.titleAggParams.End.Month())
	assert.Equal(t, 31, repo.titleAggParams.End.Day())
}

/*
TestTitleAgg_Validation rejects half-specified and inverted windows before
any query runs.
*/
func TestTitleAgg_Validation(t *testing.T) {
	tests := []struct {
		name   string
		params reports.TitleAggParams
	}{
		{
			"missing_end",
			reports.TitleAggParams{Start: time.Now()},
		},
		{
			"missing_start",
			reports.TitleAggParams{End: time.Now()},
		},
		{
			"inverted_window",
			reports.TitleAggParams{Start: time.Now().AddDate(0, 0, 1), End: time.Now()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepository{}
			service := newService(repo)

			_, err := service.TitleAgg(context.Background(), tt.params)

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)

			// The repository must never have been reached.
			assert.True(t, repo.titleAggParams.Start.IsZero())
		})
	}
}

/*
TestTitleAgg_ExplicitWindow passes a valid explicit window straight through.
*/
func TestTitleAgg_ExplicitWindow(t *testing.T) {
	repo := &fakeRepository{}
	service := newService(repo)

	params := reports.TitleAggParams{
		Start:           date(t, "2026-04-01"),
		End:             date(t, "2026-06-30"),
		ExcludeCategory: "STAFF",
	}

	rows, err := service.TitleAgg(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, params, repo.titleAggParams)
	assert.NotNil(t, rows, "empty result must serialize as [], not null")
	assert.Empty(t, rows)
}

/*
TestTopTitles_LimitHandling covers default, explicit, and out-of-range
limits.
*/
func TestTopTitles_LimitHandling(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantLimit int
		wantErr   bool
	}{
		{"default_limit", 0, 25, false},
		{"explicit_limit", 100, 100, false},
		{"negative_limit", -5, 0, true},
		{"excessive_limit", 10000, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepository{}
			service := newService(repo)

			_, err := service.TopTitles(context.Background(), reports.TopTitlesParams{Limit: tt.limit})

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, repo.topTitlesParams.Limit)
		})
	}
}

/*
TestTopTitles_LangPassthrough verifies the optional language filter is
forwarded untouched (nil means no filter).
*/
func TestTopTitles_LangPassthrough(t *testing.T) {
	repo := &fakeRepository{
		topTitleRows: []*reports.TopTitleRow{{Title: "Kitab al-Iman", TimesBorrowed: 12}},
	}
	service := newService(repo)

	rows, err := service.TopTitles(context.Background(), reports.TopTitlesParams{Lang: pointer.To("ara")})
	require.NoError(t, err)

	require.NotNil(t, repo.topTitlesParams.Lang)
	assert.Equal(t, "ara", *repo.topTitlesParams.Lang)
	require.Len(t, rows, 1)
	assert.Equal(t, "Kitab al-Iman", rows[0].Title)
}

/*
TestSIPActivity_WindowHandling covers the default and bounded day windows.
*/
func TestSIPActivity_WindowHandling(t *testing.T) {
	tests := []struct {
		name     string
		days     int
		wantDays int
		wantErr  bool
	}{
		{"default_window", 0, 90, false},
		{"explicit_window", 30, 30, false},
		{"negative_window", -1, 0, true},
		{"excessive_window", 9999, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepository{}
			service := newService(repo)

			_, err := service.SIPActivity(context.Background(), tt.days)

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDays, repo.sipDays)
		})
	}
}

/*
TestPatronsByClass_RequiresValue rejects a blank class filter.
*/
func TestPatronsByClass_RequiresValue(t *testing.T) {
	repo := &fakeRepository{}
	service := newService(repo)

	_, err := service.PatronsByClass(context.Background(), "  ")

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
}

/*
TestPatronsByDepartment_Passthrough forwards a valid department filter.
*/
func TestPatronsByDepartment_Passthrough(t *testing.T) {
	repo := &fakeRepository{}
	service := newService(repo)

	rows, err := service.PatronsByDepartment(context.Background(), "Staff")
	require.NoError(t, err)

	assert.Equal(t, "Staff", repo.classFilter)
	assert.NotNil(t, rows)
}
