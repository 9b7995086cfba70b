package repositories

import (
	"context"

	"carbonledger/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// billRepository implements BillRepository interface
type billRepository struct {
	db *gorm.DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *gorm.DB) BillRepository {
	return &billRepository{db: db}
}

// Create creates a new bill
func (r *billRepository) Create(ctx context.Context, bill *models.Bill) error {
	return r.db.WithContext(ctx).Create(bill).Error
}

// Save persists an updated bill
func (r *billRepository) Save(ctx context.Context, bill *models.Bill) error {
	return r.db.WithContext(ctx).Save(bill).Error
}

// GetByBillID gets a bill by its bill ID
func (r *billRepository) GetByBillID(ctx context.Context, billID string) (*models.Bill, error) {
	var bill models.Bill
	err := r.db.WithContext(ctx).Where("bill_id = ?", billID).First(&bill).Error
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

// FindByUsername returns a user's bills with pagination
func (r *billRepository) FindByUsername(ctx context.Context, username string, offset, limit int) ([]*models.Bill, int64, error) {
	var bills []*models.Bill
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Bill{}).Where("username = ?", username)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Offset(offset).Limit(limit).Order("created_at DESC").Find(&bills).Error; err != nil {
		return nil, 0, err
	}
	return bills, total, nil
}

// FindByCompany returns bills for a company, optionally narrowed to a facility
func (r *billRepository) FindByCompany(ctx context.Context, companyName, facilityName string) ([]*models.Bill, error) {
	q := r.db.WithContext(ctx).Where("company_name = ?", companyName)
	if facilityName != "" {
		q = q.Where("facility_name = ?", facilityName)
	}

	var bills []*models.Bill
	if err := q.Order("created_at DESC").Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}
