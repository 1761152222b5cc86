// Copyright (c) 2026 Aljamea Maktabat. All rights reserved.
// Author: systems@ajsn.co.ke

package patrons_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/patrons"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/apperr"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/dberr"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/pkg/pagination"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/pkg/pointer"
)

// fakeRepository indexes patrons by each identifier axis and records which
// lookups were attempted.
type fakeRepository struct {
	byBorrowernumber map[int]*patrons.Patron
	byCardnumber     map[string]*patrons.Patron
	byUserid         map[string]*patrons.Patron
	byTRNumber       map[string]*patrons.Patron

	attempts []string

	activeLoans  []*patrons.Loan
	historyLoans []*patrons.Loan
	historyTotal int
}

func (f *fakeRepository) GetByBorrowernumber(_ context.Context, n int) (*patrons.Patron, error) {
	f.attempts = append(f.attempts, "borrowernumber")
	if p, ok := f.byBorrowernumber[n]; ok {
		return p, nil
	}
	return nil, dberr.ErrNotFound
}

func (f *fakeRepository) GetByCardnumber(_ context.Context, c string) (*patrons.Patron, error) {
	f.attempts = append(f.attempts, "cardnumber")
	if p, ok := f.byCardnumber[c]; ok {
		return p, nil
	}
	return nil, dberr.ErrNotFound
}

func (f *fakeRepository) GetByUserid(_ context.Context, u string) (*patrons.Patron, error) {
	f.attempts = append(f.attempts, "userid")
	if p, ok := f.byUserid[u]; ok {
		return p, nil
	}
	return nil, dberr.ErrNotFound
}

func (f *fakeRepository) GetByTRNumber(_ context.Context, tr string) (*patrons.Patron, error) {
	f.attempts = append(f.attempts, "tr_number")
	if p, ok := f.byTRNumber[tr]; ok {
		return p, nil
	}
	return nil, dberr.ErrNotFound
}

func (f *fakeRepository) ActiveLoans(_ context.Context, _ int) ([]*patrons.Loan, error) {
	return f.activeLoans, nil
}

func (f *fakeRepository) LoanHistory(_ context.Context, _, _, _ int) ([]*patrons.Loan, int, error) {
	return f.historyLoans, f.historyTotal, nil
}

func newService(repo *fakeRepository) *patrons.Service {
	return patrons.NewService(repo, slog.Default())
}

/*
TestResolve_Order verifies the identifier axes are tried in order and the
first hit wins.
*/
func TestResolve_Order(t *testing.T) {
	amina := &patrons.Patron{Borrowernumber: 42, FullName: "Amina Yusuf"}

	tests := []struct {
		name         string
		identifier   string
		repo         *fakeRepository
		wantAttempts []string
	}{
		{
			"numeric_hits_borrowernumber",
			"42",
			&fakeRepository{byBorrowernumber: map[int]*patrons.Patron{42: amina}},
			[]string{"borrowernumber"},
		},
		{
			"numeric_falls_through_to_cardnumber",
			"90210",
			&fakeRepository{byCardnumber: map[string]*patrons.Patron{"90210": amina}},
			[]string{"borrowernumber", "cardnumber"},
		},
		{
			"login_resolves_via_userid",
			"amina.y",
			&fakeRepository{byUserid: map[string]*patrons.Patron{"amina.y": amina}},
			[]string{"cardnumber", "userid"},
		},
		{
			"transfer_number_last",
			"TR-1188",
			&fakeRepository{byTRNumber: map[string]*patrons.Patron{"TR-1188": amina}},
			[]string{"cardnumber", "userid", "tr_number"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newService(tt.repo)

			patron, err := service.Resolve(context.Background(), tt.identifier)
			require.NoError(t, err)

			assert.Equal(t, 42, patron.Borrowernumber)
			assert.Equal(t, tt.wantAttempts, tt.repo.attempts)
		})
	}
}

/*
TestResolve_NotFound exhausts every axis and returns a 404-class error.
*/
func TestResolve_NotFound(t *testing.T) {
	service := newService(&fakeRepository{})

	_, err := service.Resolve(context.Background(), "nobody")

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}

/*
TestResolve_BlankIdentifier is rejected before any lookup.
*/
func TestResolve_BlankIdentifier(t *testing.T) {
	repo := &fakeRepository{}
	service := newService(repo)

	_, err := service.Resolve(context.Background(), "   ")

	require.Error(t, err)
	assert.Empty(t, repo.attempts)
}

/*
TestLoans_Pagination returns active and historical loans with metadata for
the history set.
*/
func TestLoans_Pagination(t *testing.T) {
	amina := &patrons.Patron{Borrowernumber: 42, FullName: "Amina Yusuf"}
	repo := &fakeRepository{
		byBorrowernumber: map[int]*patrons.Patron{42: amina},
		activeLoans: []*patrons.Loan{
			{Title: "Al-Muqaddima", Barcode: pointer.To("B-100")},
		},
		historyLoans: []*patrons.Loan{
			{Title: "Kitab al-Iman"},
			{Title: "Rihla"},
		},
		historyTotal: 120,
	}
	service := newService(repo)

	recordSet, meta, err := service.Loans(context.Background(), "42", pagination.Params{Page: 2, Limit: 50})
	require.NoError(t, err)

	assert.Equal(t, amina, recordSet.Patron)
	assert.Len(t, recordSet.Active, 1)
	assert.Len(t, recordSet.History, 2)
	assert.Equal(t, 120, meta.Total)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, 2, meta.Page)
}

/*
TestLoans_EmptySlicesNotNil keeps JSON arrays stable for patrons with no
borrowing activity.
*/
func TestLoans_EmptySlicesNotNil(t *testing.T) {
	repo := &fakeRepository{
		byBorrowernumber: map[int]*patrons.Patron{7: {Borrowernumber: 7}},
	}
	service := newService(repo)

	recordSet, _, err := service.Loans(context.Background(), "7", pagination.Params{Page: 1, Limit: 50})
	require.NoError(t, err)

	assert.NotNil(t, recordSet.Active)
	assert.NotNil(t, recordSet.History)
}
