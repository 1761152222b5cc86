// Copyright (c) 2026 Aljamea Maktabat. All rights reserved.
// Author: systems@ajsn.co.ke

package patrons

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/apperr"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/dberr"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/validate"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/pkg/pagination"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Resolve finds a patron by any supported identifier.
//
// Resolution order: borrower number (when the input is numeric), card
// number, login, transfer number. A numeric input that matches no borrower
// number still falls through to the card number axis, since card numbers
// are frequently all digits too.
func (service *Service) Resolve(ctx context.Context, identifier string) (*Patron, error) {
	identifier = strings.TrimSpace(identifier)

	validator := &validate.Validator{}
	if err := validator.Required(fieldIdentifier, identifier).MaxLen(fieldIdentifier, identifier, 60).Err(); err != nil {
		return nil, err
	}

	if n, err := strconv.Atoi(identifier); err == nil {
		patron, err := service.repo.GetByBorrowernumber(ctx, n)
		if err == nil {
			return patron, nil
		}
		if !errors.Is(err, dberr.ErrNotFound) {
			return nil, err
		}
	}

	lookups := []func(context.Context, string) (*Patron, error){
		service.repo.GetByCardnumber,
		service.repo.GetByUserid,
		service.repo.GetByTRNumber,
	}

	for _, lookup := range lookups {
		patron, err := lookup(ctx, identifier)
		if err == nil {
			return patron, nil
		}
		if !errors.Is(err, dberr.ErrNotFound) {
			return nil, err
		}
	}

	return nil, apperr.NotFound("Patron")
}

// Loans resolves the patron and returns their active loans plus one page of
// history with pagination metadata for the history set.
func (service *Service) Loans(context context.Context, identifier string, page pagination.Params) (*LoanRecordSet, pagination.Meta, error) {
	patron, err := service.Resolve(context, identifier)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	active, err := service.repo.ActiveLoans(context, patron.Borrowernumber)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	history, total, err := service.repo.LoanHistory(context, patron.Borrowernumber, page.Limit, page.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	if active == nil {
		active = []*Loan{}
	}
	if history == nil {
		history = []*Loan{}
	}

	service.logger.Debug("patron_loans_fetched",
		slog.Int("borrowernumber", patron.Borrowernumber),
		slog.Int("active", len(active)),
		slog.Int("history_total", total),
	)

	return &LoanRecordSet{
			Patron:  patron,
			Active:  active,
			History: history,
		},
		pagination.NewMeta(page.Page, page.Limit, total),
		nil
}
