// Copyright (c) 2026 Aljamea Maktabat. All rights reserved.
// Author: systems@ajsn.co.ke

package validate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/apperr"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "class", "Daraja 4", false},
		{"empty_string", "class", "", true},
		{"whitespace_only", "class", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_DateOrder checks the report window ordering rule: a window whose
start falls after its end must be rejected before any query runs.
*/
func TestValidator_DateOrder(t *testing.T) {
	date := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return d
	}

	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		hasError bool
	}{
		{"ordered_window", date("2026-04-01"), date("2026-12-31"), false},
		{"single_day_window", date("2026-04-01"), date("2026-04-01"), false},
		{"inverted_window", date("2026-12-31"), date("2026-04-01"), true},
		{"zero_start_skipped", time.Time{}, date("2026-04-01"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.DateOrder("start", tt.start, tt.end)

			assert.Equal(t, tt.hasError, v.HasErrors())
		})
	}
}

/*
TestValidator_RequiredDate verifies that zero time values are flagged.
*/
func TestValidator_RequiredDate(t *testing.T) {
	v := &validate.Validator{}
	v.RequiredDate("start", time.Time{})

	require.Error(t, v.Err())
	ae := apperr.As(v.Err())
	require.NotNil(t, ae)
	assert.Equal(t, "start", ae.Details[0].Field)
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	// Multi-rule validation
	err := v.
		Required("department", "STAFF").
		MaxLen("department", "STAFF", 80).
		Range("limit", 25, 1, 500).
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("class", "").       // Fails
		Range("days", 0, 1, 3650).   // Fails
		Range("limit", 900, 1, 500). // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}
