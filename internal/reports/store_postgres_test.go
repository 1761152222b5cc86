// Copyright (c) 2026 Aljamea Maktabat. All rights reserved.
// Author: systems@ajsn.co.ke

package reports

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestDarajaGradePattern pins the width-bounded grade pattern. The int cast
that follows the match in DarajaBuckets errors out on values beyond int4
range, so any all-digit attribute wider than four digits must fail the
match and count under 'Unassigned' rather than abort the report.
*/
func TestDarajaGradePattern(t *testing.T) {
	pattern := regexp.MustCompile(darajaGradePattern)

	tests := []struct {
		name      string
		attribute string
		wantMatch bool
	}{
		{"single_digit_grade", "7", true},
		{"two_digit_grade", "11", true},
		{"zero_padded", "0007", true},
		{"max_width", "9999", true},
		{"overflows_int4", "99999999999", false},
		{"five_digits", "10000", false},
		{"alphanumeric", "3B", false},
		{"negative", "-1", false},
		{"empty", "", false},
		{"whitespace", " 7", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMatch, pattern.MatchString(tt.attribute))
		})
	}
}

/*
TestAttributeJoin: a patron carrying attributes under two configured codes
must still resolve to one row, so the join has to go through a DISTINCT ON
subquery rather than the raw borrower_attributes table.
*/
func TestAttributeJoin(t *testing.T) {
	join := attributeJoin("std", "$4")

	assert.Contains(t, join, "DISTINCT ON (borrowernumber)")
	assert.Contains(t, join, "code = ANY($4)")
	assert.Contains(t, join, "ORDER BY borrowernumber, code")
	assert.Contains(t, join, ") std ON std.borrowernumber = bo.borrowernumber")
}

/*
TestPatronActivitySelect_JoinsDeduplicated guards the shared patron-activity
select against reintroducing a raw attribute join, which would duplicate
patrons with attributes under more than one configured code.
*/
func TestPatronActivitySelect_JoinsDeduplicated(t *testing.T) {
	require.NotContains(t, patronActivitySelect, "LEFT JOIN borrower_attributes")
	assert.True(t, strings.Contains(patronActivitySelect, "DISTINCT ON (borrowernumber)"))
}
