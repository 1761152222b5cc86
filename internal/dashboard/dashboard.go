// Copyright (c) 2026 Aljamea Maktabat. All rights reserved.
// Author: systems@ajsn.co.ke

/*
Package dashboard composes the report catalog into the single payload the
front-end landing page renders.

# Architecture

Building the payload touches seven aggregate queries, so the assembled
result is cached in Redis for a short TTL. The cache holds the FULL payload
only; section filtering (?sections=summary,trend) happens after retrieval,
so every variant of the request shares one cache entry.
*/
package dashboard

import (
	"context"
	"time"

	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/reports"
)

// Section identifiers accepted by the sections query parameter.
const (
	SectionSummary     = "summary"
	SectionClasses     = "classes"
	SectionDepartments = "departments"
	SectionTrend       = "trend"
	SectionTopTitles   = "top_titles"
	SectionDaraja      = "daraja"
	SectionToday       = "today"
)

// Payload is the composite dashboard document.
//
// Every section is omitempty so a filtered response carries only what was
// asked for. TopTitlesFiltered repeats the top-titles report under the
// configured dashboard language filter (Arabic-script holdings by default).
type Payload struct {
	GeneratedAt time.Time `json:"generated_at"`

	Summary           *reports.LibrarySummary           `json:"summary,omitempty"`
	ClassIssues       []*reports.ClassIssuesRow         `json:"class_issues,omitempty"`
	Departments       []*reports.DepartmentBreakdownRow `json:"departments,omitempty"`
	MonthlyTrend      []*reports.MonthlyTrendRow        `json:"monthly_trend,omitempty"`
	TopTitles         []*reports.TopTitleRow            `json:"top_titles,omitempty"`
	TopTitlesFiltered []*reports.TopTitleRow            `json:"top_titles_filtered,omitempty"`
	DarajaBuckets     []*reports.DarajaBucketRow        `json:"daraja_buckets,omitempty"`
	Today             *reports.TodayActivity            `json:"today,omitempty"`
}

// Cache stores the assembled payload with a TTL. Staleness is handled by
// the TTL plus the admin refresh endpoint overwriting via Set; there is no
// separate invalidation path.
type Cache interface {
	Get(context context.Context) (*Payload, error)
	Set(context context.Context, payload *Payload, ttl time.Duration) error
}
