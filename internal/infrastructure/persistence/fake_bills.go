package persistence

import (
	"time"

	"github.com/billed/backend/internal/domain/bill"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
)

var fakeBillTypes = []string{
	"Transports",
	"Restaurants et bars",
	"Hôtel et logement",
	"Services en ligne",
	"IT et électronique",
	"Equipement et matériel",
	"Fournitures de bureau",
}

// FakeBills generates count well-formed bills for email. The same seed
// always yields the same bills; seed 0 picks a random one.
func FakeBills(seed uint64, count int, email string) []bill.Bill {
	f := gofakeit.New(seed)
	start := time.Date(2018, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
	statuses := bill.Statuses()

	bills := make([]bill.Bill, 0, count)
	for range count {
		amount := int64(f.Number(10, 2000))
		pct := 20
		fileName := f.UUID() + ".jpg"
		bills = append(bills, bill.Bill{
			ID:         f.UUID(),
			Type:       f.RandomString(fakeBillTypes),
			Name:       f.Company(),
			Date:       f.DateRange(start, end).Format("2006-01-02"),
			Amount:     decimal.NewFromInt(amount),
			VAT:        decimal.NewFromInt(amount * int64(pct)).Div(decimal.NewFromInt(100)).StringFixed(0),
			PCT:        pct,
			Commentary: f.Word(),
			Status:     string(statuses[f.Number(0, len(statuses)-1)]),
			Email:      email,
			FileURL:    "justificatifs/" + fileName,
			FileName:   fileName,
		})
	}
	return bills
}
