// Copyright (c) 2026 Aljamea Maktabat. All rights reserved.
// Author: systems@ajsn.co.ke

package patrons

import "context"

// Repository is the read-only patron lookup surface over the Koha database.
// Every Get returns [dberr.ErrNotFound] when no patron matches.
type Repository interface {
	GetByBorrowernumber(context context.Context, borrowernumber int) (*Patron, error)
	GetByCardnumber(context context.Context, cardnumber string) (*Patron, error)
	GetByUserid(context context.Context, userid string) (*Patron, error)
	GetByTRNumber(context context.Context, trNumber string) (*Patron, error)

	ActiveLoans(context context.Context, borrowernumber int) ([]*Loan, error)
	LoanHistory(context context.Context, borrowernumber, limit, offset int) ([]*Loan, int, error)
}
