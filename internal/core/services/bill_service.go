package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"carbonledger/internal/adapters/persistence/models"
	"carbonledger/internal/adapters/persistence/repositories"
	"carbonledger/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BillService handles utility bill business logic
type BillService struct {
	billRepo repositories.BillRepository
	userRepo repositories.UserRepository
}

// NewBillService creates a new bill service
func NewBillService(
	billRepo repositories.BillRepository,
	userRepo repositories.UserRepository,
) *BillService {
	return &BillService{
		billRepo: billRepo,
		userRepo: userRepo,
	}
}

// BillInput represents one bill to ingest
type BillInput struct {
	BillName     string          `json:"billName"`
	CompanyName  string          `json:"companyName"`
	FacilityName string          `json:"facilityName"`
	BillMonth    string          `json:"billMonth"`
	BillYear     string          `json:"billYear"`
	Data         json.RawMessage `json:"data"`
}

// CreateBills ingests a batch of bills for the requester. Each bill gets a
// random UUID; like reports, the owner's bill index is a second non-atomic
// write.
func (s *BillService) CreateBills(ctx context.Context, requesterUsername string, inputs []BillInput) ([]*models.Bill, error) {
	if len(inputs) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	user, err := s.userRepo.GetByUsername(ctx, requesterUsername)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	created := make([]*models.Bill, 0, len(inputs))
	index := user.BillIndex()
	for _, in := range inputs {
		if in.CompanyName == "" {
			return nil, domain.ErrInvalidRequest
		}
		bill := &models.Bill{
			BillID:       uuid.New().String(),
			BillName:     in.BillName,
			CompanyName:  in.CompanyName,
			FacilityName: in.FacilityName,
			Username:     requesterUsername,
			BillMonth:    in.BillMonth,
			BillYear:     in.BillYear,
			Data:         datatypes.JSON(in.Data),
		}
		if err := s.billRepo.Create(ctx, bill); err != nil {
			return nil, err
		}
		index = append(index, bill.BillID)
		created = append(created, bill)
	}

	user.SetBillIndex(index)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ %d bill(s) ingested for %s", len(created), requesterUsername)
	return created, nil
}

// GetUserBills returns the requester's bills, newest first, paginated.
func (s *BillService) GetUserBills(ctx context.Context, username string, offset, limit int) ([]*models.Bill, int64, error) {
	return s.billRepo.FindByUsername(ctx, username, offset, limit)
}

// GetCompanyBills returns bills for a company, optionally narrowed to one
// facility. Route-level role gating restricts this to FacAdmin and Admin.
func (s *BillService) GetCompanyBills(ctx context.Context, companyName, facilityName string) ([]*models.Bill, error) {
	if companyName == "" {
		return nil, domain.ErrInvalidRequest
	}
	return s.billRepo.FindByCompany(ctx, companyName, facilityName)
}

// UpdateBill replaces the extracted data of one bill the requester owns.
func (s *BillService) UpdateBill(ctx context.Context, requesterUsername, billID string, data []byte) (*models.Bill, error) {
	if billID == "" || len(data) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	bill, err := s.billRepo.GetByBillID(ctx, billID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBillNotFound
		}
		return nil, err
	}

	if bill.Username != requesterUsername {
		return nil, domain.ErrPermissionDenied
	}

	bill.Data = datatypes.JSON(data)
	if err := s.billRepo.Save(ctx, bill); err != nil {
		return nil, err
	}
	return bill, nil
}
