package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/billed/backend/internal/domain/bill"
	"github.com/billed/backend/internal/domain/shared"
	"github.com/billed/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBillRepository stores bills with GORM
type GormBillRepository struct {
	db *gorm.DB
}

// NewGormBillRepository creates a new GormBillRepository
func NewGormBillRepository(db *gorm.DB) *GormBillRepository {
	return &GormBillRepository{db: db}
}

// List returns every bill in insertion order
func (r *GormBillRepository) List(ctx context.Context) ([]bill.Bill, error) {
	var rows []models.BillModel
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	return toDomainBills(rows), nil
}

// ListByEmail returns the bills submitted by one employee in insertion order
func (r *GormBillRepository) ListByEmail(ctx context.Context, email string) ([]bill.Bill, error) {
	var rows []models.BillModel
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list bills for %s: %w", email, err)
	}
	return toDomainBills(rows), nil
}

// FindByID finds a bill by its ID
func (r *GormBillRepository) FindByID(ctx context.Context, id string) (*bill.Bill, error) {
	var model models.BillModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	b := model.ToDomain()
	return &b, nil
}

// Save creates or updates a bill
func (r *GormBillRepository) Save(ctx context.Context, b bill.Bill) error {
	if b.ID == "" {
		return shared.NewDomainError("INVALID_BILL", "Bill ID cannot be empty")
	}
	return r.upsert(ctx, []*models.BillModel{models.BillModelFromDomain(b)})
}

// SaveBatch inserts bills, updating the ones that already exist.
// New bills keep the batch order through created_at.
func (r *GormBillRepository) SaveBatch(ctx context.Context, bills []bill.Bill) error {
	if len(bills) == 0 {
		return nil
	}
	now := time.Now().UTC()
	rows := make([]*models.BillModel, len(bills))
	for i, b := range bills {
		if b.ID == "" {
			return shared.NewDomainError("INVALID_BILL", "Bill ID cannot be empty")
		}
		rows[i] = models.BillModelFromDomain(b)
		rows[i].CreatedAt = now.Add(time.Duration(i) * time.Microsecond)
		rows[i].UpdatedAt = rows[i].CreatedAt
	}
	return r.upsert(ctx, rows)
}

// upsert never touches created_at of an existing row, so listing order is stable
func (r *GormBillRepository) upsert(ctx context.Context, rows []*models.BillModel) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"email", "type", "name", "date", "amount", "vat", "pct", "commentary",
				"status", "comment_admin", "file_url", "file_name", "updated_at",
			}),
		}).
		CreateInBatches(rows, 100).Error
}

// Delete removes a bill
func (r *GormBillRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.BillModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count returns the number of stored bills
func (r *GormBillRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.BillModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func toDomainBills(rows []models.BillModel) []bill.Bill {
	bills := make([]bill.Bill, len(rows))
	for i := range rows {
		bills[i] = rows[i].ToDomain()
	}
	return bills
}
