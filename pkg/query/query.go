// Copyright (c) 2026 Aljamea Maktabat. All rights reserved.
// Author: systems@ajsn.co.ke

// Package query parses loosely-typed URL query parameters into Go values.
package query

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format for date query parameters (ISO 8601 date).
const DateLayout = "2006-01-02"

// IntSlice parses a slice of string values from URL query parameters
// into a slice of integers. Invalid entries are ignored safely.
func IntSlice(vals []string) []int {
	var res []int
	for _, v := range vals {
		if i, err := strconv.Atoi(v); err == nil {
			res = append(res, i)
		}
	}
	return res
}

// StringSlice parses a single comma-separated query string
// into a trimmed slice of strings.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}

// Date parses a YYYY-MM-DD query parameter.
//
// It returns the zero time for an empty value so callers can distinguish
// "absent" from "malformed": absent dates fall through to validation,
// malformed ones return ok=false.
func Date(val string) (time.Time, bool) {
	if val == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(DateLayout, strings.TrimSpace(val))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
