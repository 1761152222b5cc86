// Copyright (c) 2026 Aljamea Maktabat. All rights reserved.
// Author: systems@ajsn.co.ke

package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/reports"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/pkg/pointer"
)

// Reporter is the slice of the report service the dashboard composes.
type Reporter interface {
	LibrarySummary(context context.Context) (*reports.LibrarySummary, error)
	ClassIssues(context context.Context) ([]*reports.ClassIssuesRow, error)
	DepartmentBreakdown(context context.Context) ([]*reports.DepartmentBreakdownRow, error)
	MonthlyTrend(context context.Context, months int) ([]*reports.MonthlyTrendRow, error)
	TopTitles(context context.Context, params reports.TopTitlesParams) ([]*reports.TopTitleRow, error)
	DarajaBuckets(context context.Context) ([]*reports.DarajaBucketRow, error)
	TodayActivity(context context.Context) (*reports.TodayActivity, error)
}

type Service struct {
	reporter   Reporter
	cache      Cache
	logger     *slog.Logger
	cacheTTL   time.Duration
	langFilter string
}

// NewService wires the dashboard composer.
//
// langFilter is the bib-record language code for the filtered top-titles
// section ("ara" highlights Arabic-script holdings); empty disables the
// filtered section.
func NewService(reporter Reporter, cache Cache, logger *slog.Logger, cacheTTL time.Duration, langFilter string) *Service {
	return &Service{
		reporter:   reporter,
		cache:      cache,
		logger:     logger,
		cacheTTL:   cacheTTL,
		langFilter: langFilter,
	}
}

// Get returns the dashboard payload, serving from cache when possible and
// rebuilding on a miss. sections filters the response after retrieval; an
// empty list means everything.
func (service *Service) Get(context context.Context, sections []string) (*Payload, error) {
	payload, err := service.cache.Get(context)
	if err == nil {
		service.logger.Debug("dashboard_cache_hit")
		return filterSections(payload, sections), nil
	}

	payload, err = service.build(context)
	if err != nil {
		return nil, err
	}

	if err := service.cache.Set(context, payload, service.cacheTTL); err != nil {
		// A failed cache write is not a failed request; the payload is
		// already in hand.
		service.logger.Warn("dashboard_cache_write_failed", slog.Any("error", err))
	}

	return filterSections(payload, sections), nil
}

// Refresh rebuilds the payload eagerly and replaces the cache entry.
func (service *Service) Refresh(context context.Context) (*Payload, error) {
	payload, err := service.build(context)
	if err != nil {
		return nil, err
	}

	if err := service.cache.Set(context, payload, service.cacheTTL); err != nil {
		service.logger.Warn("dashboard_cache_write_failed", slog.Any("error", err))
	}

	service.logger.Info("dashboard_refreshed")
	return payload, nil
}

// build assembles the full payload from the report catalog.
//
// The sections run sequentially on purpose: the Koha pool is shared with
// interactive report requests and fanning seven aggregates out in parallel
// would let one dashboard load starve them.
func (service *Service) build(context context.Context) (*Payload, error) {
	payload := &Payload{GeneratedAt: time.Now().UTC()}

	var err error
	if payload.Summary, err = service.reporter.LibrarySummary(context); err != nil {
		return nil, err
	}
	if payload.ClassIssues, err = service.reporter.ClassIssues(context); err != nil {
		return nil, err
	}
	if payload.Departments, err = service.reporter.DepartmentBreakdown(context); err != nil {
		return nil, err
	}
	if payload.MonthlyTrend, err = service.reporter.MonthlyTrend(context, 0); err != nil {
		return nil, err
	}
	if payload.TopTitles, err = service.reporter.TopTitles(context, reports.TopTitlesParams{}); err != nil {
		return nil, err
	}
	if payload.DarajaBuckets, err = service.reporter.DarajaBuckets(context); err != nil {
		return nil, err
	}
	if payload.Today, err = service.reporter.TodayActivity(context); err != nil {
		return nil, err
	}

	if service.langFilter != "" {
		payload.TopTitlesFiltered, err = service.reporter.TopTitles(context, reports.TopTitlesParams{
			Lang: pointer.To(service.langFilter),
		})
		if err != nil {
			return nil, err
		}
	}

	return payload, nil
}

// filterSections blanks every section not named. The stored payload is
// never mutated; filtering works on a shallow copy.
func filterSections(payload *Payload, sections []string) *Payload {
	if len(sections) == 0 {
		return payload
	}

	wanted := make(map[string]bool, len(sections))
	for _, s := range sections {
		wanted[s] = true
	}

	filtered := &Payload{GeneratedAt: payload.GeneratedAt}
	if wanted[SectionSummary] {
		filtered.Summary = payload.Summary
	}
	if wanted[SectionClasses] {
		filtered.ClassIssues = payload.ClassIssues
	}
	if wanted[SectionDepartments] {
		filtered.Departments = payload.Departments
	}
	if wanted[SectionTrend] {
		filtered.MonthlyTrend = payload.MonthlyTrend
	}
	if wanted[SectionTopTitles] {
		filtered.TopTitles = payload.TopTitles
		filtered.TopTitlesFiltered = payload.TopTitlesFiltered
	}
	if wanted[SectionDaraja] {
		filtered.DarajaBuckets = payload.DarajaBuckets
	}
	if wanted[SectionToday] {
		filtered.Today = payload.Today
	}

	return filtered
}
