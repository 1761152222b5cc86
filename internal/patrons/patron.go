// Copyright (c) 2026 Aljamea Maktabat. All rights reserved.
// Author: systems@ajsn.co.ke

/*
Package patrons provides patron lookup by flexible identifier and
borrowing history, read from the Koha database.

# Identifier resolution

Staff paste whatever identifier they have at hand: a borrower number, a
card number, a login, or a transfer number written on the admission slip.
Resolution tries each axis in that order and returns the first hit.
*/
package patrons

import "time"

// Patron is the profile returned by lookups.
type Patron struct {
	Borrowernumber      int     `json:"borrowernumber"`
	Cardnumber          *string `json:"cardnumber"`
	Userid              *string `json:"userid"`
	FullName            string  `json:"full_name"`
	CategoryCode        string  `json:"category_code"`
	CategoryDescription *string `json:"category_description"`
	Branchcode          *string `json:"branchcode"`
	ClassStd            *string `json:"class_std"`
	TRNumber            *string `json:"tr_number"`
}

// Loan is one borrowing record, current or historical.
type Loan struct {
	Title      string     `json:"title"`
	Barcode    *string    `json:"barcode"`
	IssueDate  time.Time  `json:"issue_date"`
	DueDate    *time.Time `json:"due_date"`
	ReturnDate *time.Time `json:"return_date"`
}

// LoanRecordSet bundles a patron's active loans with one page of history.
type LoanRecordSet struct {
	Patron  *Patron `json:"patron"`
	Active  []*Loan `json:"active"`
	History []*Loan `json:"history"`
}

const fieldIdentifier = "identifier"
