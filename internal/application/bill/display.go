package bill

import "github.com/billed/backend/internal/domain/bill"

// DisplayBill is a bill ready for rendering. Date and Status hold the
// formatted values, or the raw ones when formatting failed for that field.
type DisplayBill struct {
	bill.Bill
	DateFormatted   bool `json:"dateFormatted"`
	StatusFormatted bool `json:"statusFormatted"`
}

// ToDisplay applies the formatter to one raw bill. Each field falls back
// to its raw value independently.
func (f *Formatter) ToDisplay(b bill.Bill) (DisplayBill, []error) {
	date := f.FormatDate(b.Date)
	status := f.FormatStatus(b.Status)

	out := DisplayBill{
		Bill:            b,
		DateFormatted:   date.OK(),
		StatusFormatted: status.OK(),
	}
	out.Date = date.Value()
	out.Status = status.Value()

	var errs []error
	if !date.OK() {
		errs = append(errs, date.Err)
	}
	if !status.OK() {
		errs = append(errs, status.Err)
	}
	return out, errs
}
