package view

import (
	"slices"
	"strings"

	billapp "github.com/billed/backend/internal/application/bill"
)

// SortByDateDesc returns a copy of bills ordered from latest to earliest by
// their display date string. Equal dates keep their input order.
func SortByDateDesc(bills []billapp.DisplayBill) []billapp.DisplayBill {
	sorted := slices.Clone(bills)
	if sorted == nil {
		sorted = []billapp.DisplayBill{}
	}
	slices.SortStableFunc(sorted, func(a, b billapp.DisplayBill) int {
		return strings.Compare(b.Date, a.Date)
	})
	return sorted
}
