package repositories

import (
	"context"

	"carbonledger/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// reportRepository implements ReportRepository interface
type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// Create creates a new report
func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

// Save persists an updated report
func (r *reportRepository) Save(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Save(report).Error
}

// Delete removes a report by its report ID. Deleting an already-deleted
// report is not an error; the two-step delete sequence must be retry-safe.
func (r *reportRepository) Delete(ctx context.Context, reportID string) error {
	return r.db.WithContext(ctx).Where("report_id = ?", reportID).Delete(&models.Report{}).Error
}

// GetByReportID gets a report by its report ID
func (r *reportRepository) GetByReportID(ctx context.Context, reportID string) (*models.Report, error) {
	var report models.Report
	err := r.db.WithContext(ctx).Where("report_id = ?", reportID).First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// GetByKey locates a report by the full composite key
func (r *reportRepository) GetByKey(ctx context.Context, reportID, companyName, facilityName string) (*models.Report, error) {
	var report models.Report
	err := r.db.WithContext(ctx).
		Where("report_id = ?", reportID).
		Where("company_name = ?", companyName).
		Where("facility_name = ?", facilityName).
		First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// Filter applies equality filters on whichever keys are supplied
func (r *reportRepository) Filter(ctx context.Context, reportID, companyName, facilityName string) ([]*models.Report, error) {
	q := r.db.WithContext(ctx).Where("report_id = ?", reportID)
	if companyName != "" {
		q = q.Where("company_name = ?", companyName)
	}
	if facilityName != "" {
		q = q.Where("facility_name = ?", facilityName)
	}

	var reports []*models.Report
	if err := q.Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// FindVisible returns reports matching owner OR company OR facility. Empty
// attributes are skipped: an empty facility on the requester must not match
// every report whose facility is unset.
func (r *reportRepository) FindVisible(ctx context.Context, username, companyName, facilityName string) ([]*models.Report, error) {
	q := r.db.WithContext(ctx).Where("username = ?", username)
	if companyName != "" {
		q = q.Or("company_name = ?", companyName)
	}
	if facilityName != "" {
		q = q.Or("facility_name = ?", facilityName)
	}

	var reports []*models.Report
	if err := q.Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// LastReportID returns the highest assigned report ID. Report IDs are
// fixed-width zero-padded, so lexicographic order equals numeric order.
func (r *reportRepository) LastReportID(ctx context.Context) (string, error) {
	var report models.Report
	err := r.db.WithContext(ctx).
		Select("report_id").
		Order("report_id DESC").
		First(&report).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", err
	}
	return report.ReportID, nil
}

// ListOwnedIDs returns the report IDs owned by a username
func (r *reportRepository) ListOwnedIDs(ctx context.Context, username string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("username = ?", username).
		Order("report_id ASC").
		Pluck("report_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
