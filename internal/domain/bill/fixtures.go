package bill

import "github.com/shopspring/decimal"

// Fixtures returns the reference set of four employee bills.
// They are used by the in-memory store, the seed command and tests.
func Fixtures() []Bill {
	return []Bill{
		{
			ID:           "47qAXb6fIm2zOKkLzMro",
			Type:         "Hôtel et logement",
			Name:         "encore",
			Date:         "2004-04-04",
			Amount:       decimal.NewFromInt(400),
			VAT:          "80",
			PCT:          20,
			Commentary:   "séminaire billed",
			Status:       "pending",
			CommentAdmin: "ok",
			Email:        "a@a",
			FileURL:      "https://storage.billed.test/justificatifs/preview-facture-free-201801-pdf-1.jpg",
			FileName:     "preview-facture-free-201801-pdf-1.jpg",
		},
		{
			ID:           "BeKy5Mo4jkmdfPGYpTxZ",
			Type:         "Transports",
			Name:         "test1",
			Date:         "2001-01-01",
			Amount:       decimal.NewFromInt(100),
			VAT:          "",
			PCT:          20,
			Commentary:   "plop",
			Status:       "refused",
			CommentAdmin: "en fait non",
			Email:        "a@a",
			FileURL:      "https://storage.billed.test/justificatifs/1592770761.jpeg",
			FileName:     "1592770761.jpeg",
		},
		{
			ID:           "UIUZtnPQvnbFnB0ozvJh",
			Type:         "Services en ligne",
			Name:         "test3",
			Date:         "2003-03-03",
			Amount:       decimal.NewFromInt(300),
			VAT:          "60",
			PCT:          20,
			Commentary:   "",
			Status:       "accepted",
			CommentAdmin: "bon bah d'accord",
			Email:        "a@a",
			FileURL:      "https://storage.billed.test/justificatifs/facture-client-php-exportee.png",
			FileName:     "facture-client-php-exportee.png",
		},
		{
			ID:           "qcCK3SzECmaZAGRrHjaC",
			Type:         "Restaurants et bars",
			Name:         "test2",
			Date:         "2002-02-02",
			Amount:       decimal.NewFromInt(200),
			VAT:          "40",
			PCT:          20,
			Commentary:   "test2",
			Status:       "refused",
			CommentAdmin: "pas la bonne facture",
			Email:        "a@a",
			FileURL:      "https://storage.billed.test/justificatifs/preview-facture-free-201801-pdf-1.jpg",
			FileName:     "preview-facture-free-201801-pdf-1.jpg",
		},
	}
}
