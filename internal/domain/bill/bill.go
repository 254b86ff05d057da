// Package bill holds the expense bill record as it comes out of a bill store.
package bill

import (
	"github.com/shopspring/decimal"
)

// Bill is an expense bill as returned by a store, before any formatting.
//
// Date and Status are kept as the raw strings the store produced: neither is
// guaranteed to be well formed. Every other field is carried through the
// listing pipeline unchanged.
type Bill struct {
	ID           string          `json:"id"`
	Type         string          `json:"type"`
	Name         string          `json:"name"`
	Date         string          `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	VAT          string          `json:"vat"`
	PCT          int             `json:"pct"`
	Commentary   string          `json:"commentary"`
	Status       string          `json:"status"`
	CommentAdmin string          `json:"commentAdmin"`
	Email        string          `json:"email"`
	FileURL      string          `json:"fileUrl"`
	FileName     string          `json:"fileName"`
}

// HasJustification reports whether the bill carries a justification file
func (b Bill) HasJustification() bool {
	return b.FileURL != ""
}
