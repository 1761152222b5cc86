// Copyright (c) 2026 Aljamea Maktabat. All rights reserved.
// Author: systems@ajsn.co.ke

package dashboard_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/dashboard"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/dberr"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/reports"
)

// fakeReporter counts calls so cache behavior is observable.
type fakeReporter struct {
	summaryCalls   int
	topTitlesLangs []*string
}

func (f *fakeReporter) LibrarySummary(_ context.Context) (*reports.LibrarySummary, error) {
	f.summaryCalls++
	return &reports.LibrarySummary{TotalPatrons: 311, ActiveLoans: 54}, nil
}

func (f *fakeReporter) ClassIssues(_ context.Context) ([]*reports.ClassIssuesRow, error) {
	return []*reports.ClassIssuesRow{{ClassStd: "4", IssueCount: 20}}, nil
}

func (f *fakeReporter) DepartmentBreakdown(_ context.Context) ([]*reports.DepartmentBreakdownRow, error) {
	return []*reports.DepartmentBreakdownRow{{Department: "Staff", PatronCount: 12}}, nil
}

func (f *fakeReporter) MonthlyTrend(_ context.Context, _ int) ([]*reports.MonthlyTrendRow, error) {
	return []*reports.MonthlyTrendRow{{Month: "2026-08", IssueCount: 140}}, nil
}

func (f *fakeReporter) TopTitles(_ context.Context, p reports.TopTitlesParams) ([]*reports.TopTitleRow, error) {
	f.topTitlesLangs = append(f.topTitlesLangs, p.Lang)
	return []*reports.TopTitleRow{{Title: "Al-Muqaddima", TimesBorrowed: 9}}, nil
}

func (f *fakeReporter) DarajaBuckets(_ context.Context) ([]*reports.DarajaBucketRow, error) {
	return []*reports.DarajaBucketRow{{Bucket: "Daraja 3-4", PatronCount: 40}}, nil
}

func (f *fakeReporter) TodayActivity(_ context.Context) (*reports.TodayActivity, error) {
	return &reports.TodayActivity{Checkouts: 7, Checkins: 5}, nil
}

// memoryCache is an in-process Cache for tests.
type memoryCache struct {
	payload  *dashboard.Payload
	setCalls int
}

func (m *memoryCache) Get(_ context.Context) (*dashboard.Payload, error) {
	if m.payload == nil {
		return nil, dberr.ErrNotFound
	}
	return m.payload, nil
}

func (m *memoryCache) Set(_ context.Context, p *dashboard.Payload, _ time.Duration) error {
	m.payload = p
	m.setCalls++
	return nil
}

func newService(reporter *fakeReporter, cache *memoryCache) *dashboard.Service {
	return dashboard.NewService(reporter, cache, slog.Default(), 5*time.Minute, "ara")
}

/*
TestGet_BuildsAndCaches verifies a cold read assembles the full payload,
stores it, and that a second read is served from cache without re-querying.
*/
func TestGet_BuildsAndCaches(t *testing.T) {
	reporter := &fakeReporter{}
	cache := &memoryCache{}
	service := newService(reporter, cache)

	payload, err := service.Get(context.Background(), nil)
	require.NoError(t, err)

	require.NotNil(t, payload.Summary)
	assert.Equal(t, 311, payload.Summary.TotalPatrons)
	assert.NotEmpty(t, payload.ClassIssues)
	assert.NotEmpty(t, payload.TopTitlesFiltered)
	assert.Equal(t, 1, cache.setCalls)

	// Second read: cache hit, reporter untouched.
	_, err = service.Get(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, reporter.summaryCalls)
}

/*
TestGet_LanguageFilteredTopTitles checks the filtered section queries with
the configured language code while the main section queries unfiltered.
*/
func TestGet_LanguageFilteredTopTitles(t *testing.T) {
	reporter := &fakeReporter{}
	service := newService(reporter, &memoryCache{})

	_, err := service.Get(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, reporter.topTitlesLangs, 2)
	assert.Nil(t, reporter.topTitlesLangs[0])
	require.NotNil(t, reporter.topTitlesLangs[1])
	assert.Equal(t, "ara", *reporter.topTitlesLangs[1])
}

/*
TestGet_SectionFiltering verifies filtering trims the response but leaves
the cached full payload intact.
*/
func TestGet_SectionFiltering(t *testing.T) {
	reporter := &fakeReporter{}
	cache := &memoryCache{}
	service := newService(reporter, cache)

	payload, err := service.Get(context.Background(), []string{dashboard.SectionSummary, dashboard.SectionToday})
	require.NoError(t, err)

	assert.NotNil(t, payload.Summary)
	assert.NotNil(t, payload.Today)
	assert.Nil(t, payload.ClassIssues)
	assert.Nil(t, payload.TopTitles)

	// The cache must still hold every section.
	assert.NotNil(t, cache.payload.ClassIssues)
	assert.NotNil(t, cache.payload.TopTitles)
}

/*
TestRefresh_RebuildsEagerly forces a rebuild even with a warm cache.
*/
func TestRefresh_RebuildsEagerly(t *testing.T) {
	reporter := &fakeReporter{}
	cache := &memoryCache{}
	service := newService(reporter, cache)

	_, err := service.Get(context.Background(), nil)
	require.NoError(t, err)

	_, err = service.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, reporter.summaryCalls)
	assert.Equal(t, 2, cache.setCalls)
}
