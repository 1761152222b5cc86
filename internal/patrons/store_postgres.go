// Copyright (c) 2026 Aljamea Maktabat. All rights reserved.
// Author: systems@ajsn.co.ke

package patrons

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool

	// Attribute code variants, same configuration as the report layer.
	classCodes []string
	trCodes    []string
}

func NewPostgresRepository(db *pgxpool.Pool, classCodes, trCodes []string) *PostgresRepository {
	return &PostgresRepository{db: db, classCodes: classCodes, trCodes: trCodes}
}

// patronSelect joins the category and the two attribute axes onto the
// borrower row. $2/$3 are always the class/TR code lists; $1 is the lookup
// value of the concrete query.
const patronSelect = `
	SELECT bo.borrowernumber,
	       bo.cardnumber,
	       bo.userid,
	       concat_ws(' ', bo.firstname, bo.surname) AS full_name,
	       bo.categorycode,
	       c.description,
	       bo.branchcode,
	       std.attribute AS class_std,
	       tr.attribute  AS tr_number
	FROM borrowers bo
	LEFT JOIN categories c ON c.categorycode = bo.categorycode
	LEFT JOIN borrower_attributes std
	       ON std.borrowernumber = bo.borrowernumber AND std.code = ANY($2)
	LEFT JOIN borrower_attributes tr
	       ON tr.borrowernumber = bo.borrowernumber AND tr.code = ANY($3)
`

func (repository *PostgresRepository) GetByBorrowernumber(context context.Context, borrowernumber int) (*Patron, error) {
	const query = patronSelect + ` WHERE bo.borrowernumber = $1`
	return repository.getOne(context, query, "get_patron_by_borrowernumber", borrowernumber)
}

func (repository *PostgresRepository) GetByCardnumber(context context.Context, cardnumber string) (*Patron, error) {
	const query = patronSelect + ` WHERE bo.cardnumber = $1`
	return repository.getOne(context, query, "get_patron_by_cardnumber", cardnumber)
}

func (repository *PostgresRepository) GetByUserid(context context.Context, userid string) (*Patron, error) {
	const query = patronSelect + ` WHERE bo.userid = $1`
	return repository.getOne(context, query, "get_patron_by_userid", userid)
}

func (repository *PostgresRepository) GetByTRNumber(context context.Context, trNumber string) (*Patron, error) {
	const query = patronSelect + ` WHERE tr.attribute = $1`
	return repository.getOne(context, query, "get_patron_by_tr_number", trNumber)
}

func (repository *PostgresRepository) getOne(context context.Context, query, action string, value any) (*Patron, error) {
	p := &Patron{}
	err := repository.db.QueryRow(context, query, value, repository.classCodes, repository.trCodes).Scan(
		&p.Borrowernumber, &p.Cardnumber, &p.Userid, &p.FullName,
		&p.CategoryCode, &p.CategoryDescription, &p.Branchcode,
		&p.ClassStd, &p.TRNumber,
	)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return p, nil
}

// ActiveLoans lists the patron's current checkouts, newest first.
func (repository *PostgresRepository) ActiveLoans(context context.Context, borrowernumber int) ([]*Loan, error) {
	const query = `
		SELECT b.title,
		       i.barcode,
		       iss.issuedate,
		       iss.date_due,
		       NULL::timestamp AS return_date
		FROM issues iss
		JOIN items i ON i.itemnumber = iss.itemnumber
		JOIN biblio b ON b.biblionumber = i.biblionumber
		WHERE iss.borrowernumber = $1
		ORDER BY iss.issuedate DESC
	`

	return repository.queryLoans(context, query, "active_loans", borrowernumber)
}

// LoanHistory returns one page of returned loans plus the total count.
func (repository *PostgresRepository) LoanHistory(context context.Context, borrowernumber, limit, offset int) ([]*Loan, int, error) {
	const countQuery = `SELECT COUNT(*) FROM old_issues WHERE borrowernumber = $1`
	const query = `
		SELECT b.title,
		       i.barcode,
		       oi.issuedate,
		       oi.date_due,
		       oi.returndate
		FROM old_issues oi
		JOIN items i ON i.itemnumber = oi.itemnumber
		JOIN biblio b ON b.biblionumber = i.biblionumber
		WHERE oi.borrowernumber = $1
		ORDER BY oi.issuedate DESC
		LIMIT $2 OFFSET $3
	`

	var total int
	if err := repository.db.QueryRow(context, countQuery, borrowernumber).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_loan_history")
	}

	loans, err := repository.queryLoans(context, query, "loan_history", borrowernumber, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	return loans, total, nil
}

func (repository *PostgresRepository) queryLoans(context context.Context, query, action string, args ...any) ([]*Loan, error) {
	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	defer rows.Close()

	var loans []*Loan
	for rows.Next() {
		l := &Loan{}
		if err := rows.Scan(&l.Title, &l.Barcode, &l.IssueDate, &l.DueDate, &l.ReturnDate); err != nil {
			return nil, dberr.Wrap(err, "scan_"+action)
		}
		loans = append(loans, l)
	}

	return loans, dberr.Wrap(rows.Err(), action+"_rows")
}
