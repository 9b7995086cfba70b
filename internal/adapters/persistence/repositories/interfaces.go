package repositories

import (
	"context"

	"carbonledger/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// ReportRepository defines report repository interface
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	Save(ctx context.Context, report *models.Report) error
	Delete(ctx context.Context, reportID string) error
	GetByReportID(ctx context.Context, reportID string) (*models.Report, error)
	// GetByKey locates a report by its full composite key.
	GetByKey(ctx context.Context, reportID, companyName, facilityName string) (*models.Report, error)
	// Filter applies equality filters; empty companyName/facilityName are skipped.
	Filter(ctx context.Context, reportID, companyName, facilityName string) ([]*models.Report, error)
	// FindVisible returns reports owned by the user OR belonging to the
	// user's company OR facility (deliberately broad visibility).
	FindVisible(ctx context.Context, username, companyName, facilityName string) ([]*models.Report, error)
	// LastReportID returns the numerically highest assigned report ID, or
	// empty string when no reports exist.
	LastReportID(ctx context.Context) (string, error)
	// ListOwnedIDs returns the report IDs owned by a username, for index repair.
	ListOwnedIDs(ctx context.Context, username string) ([]string, error)
}

// BillRepository defines bill repository interface
type BillRepository interface {
	Create(ctx context.Context, bill *models.Bill) error
	Save(ctx context.Context, bill *models.Bill) error
	GetByBillID(ctx context.Context, billID string) (*models.Bill, error)
	FindByUsername(ctx context.Context, username string, offset, limit int) ([]*models.Bill, int64, error)
	FindByCompany(ctx context.Context, companyName, facilityName string) ([]*models.Bill, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}
