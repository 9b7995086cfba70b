package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"carbonledger/internal/adapters/persistence/models"
	"carbonledger/internal/adapters/persistence/repositories"
	"carbonledger/internal/core/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReportService handles report lifecycle and category updates
type ReportService struct {
	reportRepo repositories.ReportRepository
	userRepo   repositories.UserRepository
}

// NewReportService creates a new report service
func NewReportService(
	reportRepo repositories.ReportRepository,
	userRepo repositories.UserRepository,
) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		userRepo:   userRepo,
	}
}

// CreateReportInput represents create report input
type CreateReportInput struct {
	ReportName   string `json:"reportName"`
	FacilityName string `json:"facilityName"`
	TimePeriod   string `json:"timePeriod"`
	CompanyName  string `json:"companyName"`
	Username     string `json:"username"`
}

// CreateReportOutput represents create report output
type CreateReportOutput struct {
	ReportID   string `json:"reportId"`
	ReportName string `json:"reportName"`
}

// CreateReport creates a report with a fresh sequential ID, seeds every
// category sub-object empty and links the report into the owner's index.
//
// ID assignment is read-then-write with no isolation: two concurrent creates
// can both observe the same last ID. The unique index on report_id turns the
// loser into ErrDuplicateReportID; callers retry.
func (s *ReportService) CreateReport(ctx context.Context, requesterUsername string, input *CreateReportInput) (*CreateReportOutput, error) {
	if input.CompanyName == "" || input.Username == "" {
		return nil, domain.ErrInvalidRequest
	}
	// The declared owner must be the requester; reports cannot be created
	// on someone else's behalf.
	if requesterUsername != input.Username {
		return nil, domain.ErrPermissionDenied
	}

	reportID, err := s.nextReportID(ctx)
	if err != nil {
		return nil, err
	}

	report := &models.Report{
		ReportID:     reportID,
		ReportName:   input.ReportName,
		CompanyName:  input.CompanyName,
		FacilityName: input.FacilityName,
		TimePeriod:   input.TimePeriod,
		Username:     input.Username,
	}
	report.SeedCategories()

	if err := s.reportRepo.Create(ctx, report); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrDuplicateReportID
		}
		return nil, err
	}

	// Second write: append to the owner's denormalized index. Not atomic
	// with the create above; the index is repaired by the maintenance job
	// if this step is lost.
	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		// Unreachable for an authenticated requester unless the account
		// vanished between auth and now.
		return nil, fmt.Errorf("%w: owner %q not found", domain.ErrInternal, input.Username)
	}
	user.SetReportIndex(append(user.ReportIndex(), reportID))
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: linking report to owner", domain.ErrInternal)
	}

	log.Printf("✅ Report %s created for %s/%s by %s", reportID, input.CompanyName, input.FacilityName, input.Username)

	return &CreateReportOutput{
		ReportID:   report.ReportID,
		ReportName: report.ReportName,
	}, nil
}

// nextReportID derives the next sequential report ID from the highest one
// assigned so far, starting at 000001.
func (s *ReportService) nextReportID(ctx context.Context) (string, error) {
	last, err := s.reportRepo.LastReportID(ctx)
	if err != nil {
		return "", err
	}
	if last == "" {
		return "000001", nil
	}

	n, err := strconv.Atoi(last)
	if err != nil {
		return "", fmt.Errorf("%w: malformed report id %q", domain.ErrInternal, last)
	}
	return fmt.Sprintf("%06d", n+1), nil
}

// GetReport returns summaries matching the supplied keys. Zero matches is a
// success with an empty list, not an error.
func (s *ReportService) GetReport(ctx context.Context, reportID, companyName, facilityName string) ([]*models.ReportSummary, error) {
	if reportID == "" {
		return nil, domain.ErrInvalidRequest
	}

	reports, err := s.reportRepo.Filter(ctx, reportID, companyName, facilityName)
	if err != nil {
		return nil, err
	}

	summaries := make([]*models.ReportSummary, 0, len(reports))
	for _, r := range reports {
		summaries = append(summaries, r.ToSummary())
	}
	return summaries, nil
}

// GetUserReports returns every report visible to the requester: owned by
// them, or belonging to their company or facility. The OR across the three
// attributes is intentionally broad (company/facility-wide visibility) and
// is kept as-is pending product clarification; delete and category updates
// stay strictly ownership-based regardless.
func (s *ReportService) GetUserReports(ctx context.Context, requester *models.User) ([]*models.Report, error) {
	if requester == nil {
		return nil, domain.ErrPermissionDenied
	}
	return s.reportRepo.FindVisible(ctx, requester.Username, requester.CompanyName, requester.FacilityName)
}

// DeleteReport removes a report and its entry in the owner's index.
//
// Two separate writes, no transaction: unlink first, then delete. A crash in
// between leaves a dangling index entry, which readers and the maintenance
// job treat as already deleted. Both steps are idempotent so the whole
// sequence is safe to retry.
func (s *ReportService) DeleteReport(ctx context.Context, requesterUsername, reportID string) error {
	if reportID == "" {
		return domain.ErrInvalidRequest
	}

	report, err := s.reportRepo.GetByReportID(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrReportNotFound
		}
		return err
	}

	if report.Username != requesterUsername {
		return domain.ErrPermissionDenied
	}

	// Step 1: unlink from the owner's index. Tolerates the entry being
	// absent already.
	user, err := s.userRepo.GetByUsername(ctx, report.Username)
	if err == nil {
		ids := user.ReportIndex()
		kept := ids[:0]
		for _, id := range ids {
			if id != reportID {
				kept = append(kept, id)
			}
		}
		user.SetReportIndex(kept)
		if err := s.userRepo.Update(ctx, user); err != nil {
			return err
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	// Step 2: delete the report document.
	if err := s.reportRepo.Delete(ctx, reportID); err != nil {
		return err
	}

	log.Printf("🗑️ Report %s deleted by %s", reportID, requesterUsername)
	return nil
}

// UpdateCategory replaces one category sub-object on a report. This is the
// single parameterized operation behind every per-category route: locate by
// composite key, check ownership, overwrite, persist. No merge, no schema
// validation of the payload.
func (s *ReportService) UpdateCategory(ctx context.Context, requesterUsername, categoryKey, reportID, companyName, facilityName string, payload []byte) (datatypes.JSON, error) {
	if !models.ValidCategory(categoryKey) {
		return nil, domain.ErrUnknownCategory
	}
	if reportID == "" || companyName == "" || facilityName == "" || len(payload) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	report, err := s.reportRepo.GetByKey(ctx, reportID, companyName, facilityName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReportNotFound
		}
		return nil, err
	}

	if report.Username != requesterUsername {
		return nil, domain.ErrPermissionDenied
	}

	report.SetCategoryData(categoryKey, datatypes.JSON(payload))
	if err := s.reportRepo.Save(ctx, report); err != nil {
		return nil, err
	}

	stored, _ := report.CategoryData(categoryKey)
	return stored, nil
}

// GetCategory returns the stored sub-object for one category.
func (s *ReportService) GetCategory(ctx context.Context, categoryKey, reportID string) (datatypes.JSON, error) {
	if !models.ValidCategory(categoryKey) {
		return nil, domain.ErrUnknownCategory
	}
	if reportID == "" {
		return nil, domain.ErrInvalidRequest
	}

	report, err := s.reportRepo.GetByReportID(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReportNotFound
		}
		return nil, err
	}

	data, _ := report.CategoryData(categoryKey)
	return data, nil
}

// ChangeCurrentTab saves the tab the user last worked on.
func (s *ReportService) ChangeCurrentTab(ctx context.Context, reportID, currentTab string) error {
	if reportID == "" || currentTab == "" {
		return domain.ErrInvalidRequest
	}

	report, err := s.reportRepo.GetByReportID(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrReportNotFound
		}
		return err
	}

	report.CurrentTab = currentTab
	return s.reportRepo.Save(ctx, report)
}

// GetCurrentTab returns the tab the user last worked on.
func (s *ReportService) GetCurrentTab(ctx context.Context, reportID string) (string, error) {
	if reportID == "" {
		return "", domain.ErrInvalidRequest
	}

	report, err := s.reportRepo.GetByReportID(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrReportNotFound
		}
		return "", err
	}
	return report.CurrentTab, nil
}

// RepairReportIndexes rebuilds every user's denormalized report index from
// the reports table. The report's Username column is the source of truth;
// the index is only a cache and may drift after a crash between the two
// writes of create or delete.
func (s *ReportService) RepairReportIndexes(ctx context.Context) error {
	const batch = 200

	for offset := 0; ; offset += batch {
		users, _, err := s.userRepo.List(ctx, offset, batch)
		if err != nil {
			return err
		}
		if len(users) == 0 {
			return nil
		}

		for _, user := range users {
			owned, err := s.reportRepo.ListOwnedIDs(ctx, user.Username)
			if err != nil {
				return err
			}
			if equalIDs(user.ReportIndex(), owned) {
				continue
			}
			user.SetReportIndex(owned)
			if err := s.userRepo.Update(ctx, user); err != nil {
				return err
			}
			log.Printf("🔧 Repaired report index for %s (%d reports)", user.Username, len(owned))
		}

		if len(users) < batch {
			return nil
		}
	}
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
