package models

import (
	"time"

	"github.com/billed/backend/internal/domain/bill"
	"github.com/shopspring/decimal"
)

// BillModel is the persistence model of an expense bill
type BillModel struct {
	ID           string          `gorm:"type:varchar(64);primaryKey"`
	Email        string          `gorm:"type:varchar(255);not null;index"`
	Type         string          `gorm:"type:varchar(100)"`
	Name         string          `gorm:"type:varchar(255)"`
	Date         string          `gorm:"type:varchar(64)"`
	Amount       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	VAT          string          `gorm:"column:vat;type:varchar(32)"`
	PCT          int             `gorm:"column:pct;not null;default:20"`
	Commentary   string          `gorm:"type:text"`
	Status       string          `gorm:"type:varchar(32);not null;default:'pending';index"`
	CommentAdmin string          `gorm:"type:text"`
	FileURL      string          `gorm:"column:file_url;type:text"`
	FileName     string          `gorm:"type:varchar(255)"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BillModel) TableName() string {
	return "bills"
}

// ToDomain converts the model to a domain bill
func (m *BillModel) ToDomain() bill.Bill {
	return bill.Bill{
		ID:           m.ID,
		Type:         m.Type,
		Name:         m.Name,
		Date:         m.Date,
		Amount:       m.Amount,
		VAT:          m.VAT,
		PCT:          m.PCT,
		Commentary:   m.Commentary,
		Status:       m.Status,
		CommentAdmin: m.CommentAdmin,
		Email:        m.Email,
		FileURL:      m.FileURL,
		FileName:     m.FileName,
	}
}

// BillModelFromDomain converts a domain bill to a persistence model
func BillModelFromDomain(b bill.Bill) *BillModel {
	return &BillModel{
		ID:           b.ID,
		Email:        b.Email,
		Type:         b.Type,
		Name:         b.Name,
		Date:         b.Date,
		Amount:       b.Amount,
		VAT:          b.VAT,
		PCT:          b.PCT,
		Commentary:   b.Commentary,
		Status:       b.Status,
		CommentAdmin: b.CommentAdmin,
		FileURL:      b.FileURL,
		FileName:     b.FileName,
	}
}
