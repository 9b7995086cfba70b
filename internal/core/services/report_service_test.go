package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"carbonledger/internal/adapters/persistence/models"
	"carbonledger/internal/adapters/persistence/repositories"
	"carbonledger/internal/core/domain"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func newTestUser(t *testing.T, db *gorm.DB, username, company, facility, role string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Password:     "irrelevant",
		CompanyName:  company,
		FacilityName: facility,
		Role:         role,
		IsActive:     true,
	}
	user.SetReportIndex(nil)
	user.SetBillIndex(nil)
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func newReportService(db *gorm.DB) *ReportService {
	return NewReportService(
		repositories.NewReportRepository(db),
		repositories.NewUserRepository(db),
	)
}

func TestCreateReportAssignsSequentialIDs(t *testing.T) {
	db := newTestDB(t)
	svc := newReportService(db)
	newTestUser(t, db, "alice", "Acme", "Plant 1", "FacAdmin")
	ctx := context.Background()

	for i, want := range []string{"000001", "000002", "000003"} {
		out, err := svc.CreateReport(ctx, "alice", &CreateReportInput{
			ReportName:   fmt.Sprintf("Report %d", i+1),
			CompanyName:  "Acme",
			FacilityName: "Plant 1",
			TimePeriod:   "2026-Q1",
			Username:     "alice",
		})
		if err != nil {
			t.Fatalf("CreateReport %d returned error: %v", i+1, err)
		}
		if out.ReportID != want {
			t.Errorf("expected report ID %s, got %s", want, out.ReportID)
		}
	}

	// All three IDs must land in the owner's index.
	var user models.User
	if err := db.Where("username = ?", "alice").First(&user).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if got := user.ReportIndex(); len(got) != 3 || got[0] != "000001" || got[2] != "000003" {
		t.Errorf("unexpected report index: %v", got)
	}
}

func TestCreateReportSeedsEmptyCategories(t *testing.T) {
	db := newTestDB(t)
	svc := newReportService(db)
	newTestUser(t, db, "alice", "Acme", "Plant 1", "FacAdmin")

	out, err := svc.CreateReport(context.Background(), "alice", &CreateReportInput{
		CompanyName: "Acme",
		Username:    "alice",
	})
	if err != nil {
		t.Fatalf("CreateReport returned error: %v", err)
	}

	var report models.Report
	if err := db.Where("report_id = ?", out.ReportID).First(&report).Error; err != nil {
		t.Fatalf("failed to load report: %v", err)
	}
	for _, cat := range models.Categories() {
		data, ok := report.CategoryData(cat.Key)
		if !ok {
			t.Fatalf("missing category %s", cat.Key)
		}
		if string(data) != "{}" {
			t.Errorf("category %s not seeded empty: %s", cat.Key, data)
		}
	}
}

func TestCreateReportRejectsForeignOwner(t *testing.T) {
	db := newTestDB(t)
	svc := newReportService(db)
	newTestUser(t, db, "alice", "Acme", "Plant 1", "FacAdmin")

	_, err := svc.CreateReport(context.Background(), "bob", &CreateReportInput{
		CompanyName: "Acme",
		Username:    "alice",
	})
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestCreateReportRequiresCompanyAndUsername(t *testing.T) {
	db := newTestDB(t)
	svc := newReportService(db)

	_, err := svc.CreateReport(context.Background(), "alice", &CreateReportInput{Username: "alice"})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestUpdateCategoryReplacesOnlyThatCategory(t *testing.T) {
	db := newTestDB(t)
	svc := newReportService(db)
	newTestUser(t, db, "alice", "Acme", "Plant 1", "FacAdmin")
	ctx := context.Background()

	out, err := svc.CreateReport(ctx, "alice", &CreateReportInput{
		CompanyName:  "Acme",
		FacilityName: "Plant 1",
		Username:     "alice",
	})
	if err != nil {
		t.Fatalf("CreateReport returned error: %v", err)
	}

	payload := []byte(`{"entries":[{"activityType":"Natural gas","amount":10}]}`)
	stored, err := svc.UpdateCategory(ctx, "alice", models.CategoryFuel, out.ReportID, "Acme", "Plant 1", payload)
	if err != nil {
		t.Fatalf("UpdateCategory returned error: %v", err)
	}
	if string(stored) != string(payload) {
		t.Errorf("stored payload mismatch: %s", stored)
	}

	var report models.Report
	if err := db.Where("report_id = ?", out.ReportID).First(&report).Error; err != nil {
		t.Fatalf("failed to load report: %v", err)
	}
	if string(report.Fuel) != string(payload) {
		t.Errorf("fuel not replaced: %s", report.Fuel)
	}
	if string(report.Water) != "{}" {
		t.Errorf("water should be untouched, got %s", report.Water)
	}
}

func TestUpdateCategoryIsFullReplacement(t *testing.T) {
	db := newTestDB(t)
	svc := newReportService(db)
	newTestUser(t, db, "alice", "Acme", "Plant 1", "FacAdmin")
	ctx := context.Background()

	out, _ := svc.CreateReport(ctx, "alice", &CreateReportInput{
		CompanyName: "Acme", FacilityName: "Plant 1", Username: "alice",
	})

	first := []byte(`{"entries":[{"activityType":"LPG","amount":1},{"activityType":"CNG","amount":2}]}`)
	if _, err := svc.UpdateCategory(ctx, "alice", models.CategoryFuel, out.ReportID, "Acme", "Plant 1", first); err != nil {
		t.Fatalf("first update failed: %v", err)
	}

	second := []byte(`{"entries":[{"activityType":"LNG","amount":3}]}`)
	stored, err := svc.UpdateCategory(ctx, "alice", models.CategoryFuel, out.ReportID, "Acme", "Plant 1", second)
	if err != nil {
		t.Fatalf("second update failed: %v", err)
	}
	if string(stored) != string(second) {
		t.Errorf("expected full replacement, got %s", stored)
	}

	// Repeating the same update changes nothing.
	again, err := svc.UpdateCategory(ctx, "alice", models.CategoryFuel, out.ReportID, "Acme", "Plant 1", second)
	if err != nil {
		t.Fatalf("repeated update failed: %v", err)
	}
	if string(again) != string(second) {
		t.Errorf("repeated update should be idempotent, got %s", again)
	}
}

func TestUpdateCategoryOwnershipAndKeyChecks(t *testing.T) {
	db := newTestDB(t)
	svc := newReportService(db)
	newTestUser(t, db, "alice", "Acme", "Plant 1", "FacAdmin")
	ctx := context.Background()

	out, _ := svc.CreateReport(ctx, "alice", &CreateReportInput{
		CompanyName: "Acme", FacilityName: "Plant 1", Username: "alice",
	})
	payload := []byte(`{"entries":[]}`)

	if _, err := svc.UpdateCategory(ctx, "mallory", models.CategoryFuel, out.ReportID, "Acme", "Plant 1", payload); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied for non-owner, got %v", err)
	}
	if _, err := svc.UpdateCategory(ctx, "alice", "plutonium", out.ReportID, "Acme", "Plant 1", payload); !errors.Is(err, domain.ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
	if _, err := svc.UpdateCategory(ctx, "alice", models.CategoryFuel, out.ReportID, "Other Co", "Plant 1", payload); !errors.Is(err, domain.ErrReportNotFound) {
		t.Errorf("expected ErrReportNotFound for wrong company, got %v", err)
	}
}

func TestDeleteReportRemovesReportAndIndexEntry(t *testing.T) {
	db := newTestDB(t)
	svc := newReportService(db)
	newTestUser(t, db, "alice", "Acme", "Plant 1", "FacAdmin")
	ctx := context.Background()

	out, _ := svc.CreateReport(ctx, "alice", &CreateReportInput{
		CompanyName: "Acme", FacilityName: "Plant 1", Username: "alice",
	})

	if err := svc.DeleteReport(ctx, "alice", out.ReportID); err != nil {
		t.Fatalf("DeleteReport returned error: %v", err)
	}

	var count int64
	db.Model(&models.Report{}).Where("report_id = ?", out.ReportID).Count(&count)
	if count != 0 {
		t.Error("report still present after delete")
	}

	var user models.User
	db.Where("username = ?", "alice").First(&user)
	if got := user.ReportIndex(); len(got) != 0 {
		t.Errorf("index entry not removed: %v", got)
	}

	// Deleting again reports not found.
	if err := svc.DeleteReport(ctx, "alice", out.ReportID); !errors.Is(err, domain.ErrReportNotFound) {
		t.Errorf("expected ErrReportNotFound on second delete, got %v", err)
	}
}

func TestDeleteReportRejectsNonOwner(t *testing.T) {
	db := newTestDB(t)
	svc := newReportService(db)
	newTestUser(t, db, "alice", "Acme", "Plant 1", "FacAdmin")
	ctx := context.Background()

	out, _ := svc.CreateReport(ctx, "alice", &CreateReportInput{
		CompanyName: "Acme", FacilityName: "Plant 1", Username: "alice",
	})

	if err := svc.DeleteReport(ctx, "mallory", out.ReportID); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestGetReportFiltersAndEmptyResult(t *testing.T) {
	db := newTestDB(t)
	svc := newReportService(db)
	newTestUser(t, db, "alice", "Acme", "Plant 1", "FacAdmin")
	ctx := context.Background()

	out, _ := svc.CreateReport(ctx, "alice", &CreateReportInput{
		ReportName: "Q1", CompanyName: "Acme", FacilityName: "Plant 1", Username: "alice",
	})

	summaries, err := svc.GetReport(ctx, out.ReportID, "Acme", "Plant 1")
	if err != nil {
		t.Fatalf("GetReport returned error: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ReportName != "Q1" {
		t.Errorf("unexpected summaries: %+v", summaries)
	}

	// Mismatched facility yields an empty list, not an error.
	summaries, err = svc.GetReport(ctx, out.ReportID, "Acme", "Plant 9")
	if err != nil {
		t.Fatalf("GetReport returned error: %v", err)
	}
	if len(summaries) != 0 {
		t.Errorf("expected empty result, got %+v", summaries)
	}
}

func TestGetUserReportsVisibility(t *testing.T) {
	db := newTestDB(t)
	svc := newReportService(db)
	newTestUser(t, db, "alice", "Acme", "Plant 1", "FacAdmin")
	newTestUser(t, db, "bob", "Acme", "Plant 2", "FacAdmin")
	newTestUser(t, db, "carol", "Globex", "HQ", "FacAdmin")
	ctx := context.Background()

	svc.CreateReport(ctx, "alice", &CreateReportInput{CompanyName: "Acme", FacilityName: "Plant 1", Username: "alice"})
	svc.CreateReport(ctx, "bob", &CreateReportInput{CompanyName: "Acme", FacilityName: "Plant 2", Username: "bob"})
	svc.CreateReport(ctx, "carol", &CreateReportInput{CompanyName: "Globex", FacilityName: "HQ", Username: "carol"})

	// Alice sees her own report plus Bob's (same company), not Carol's.
	alice := &models.User{Username: "alice", CompanyName: "Acme", FacilityName: "Plant 1"}
	reports, err := svc.GetUserReports(ctx, alice)
	if err != nil {
		t.Fatalf("GetUserReports returned error: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 visible reports, got %d", len(reports))
	}
	for _, r := range reports {
		if r.CompanyName != "Acme" {
			t.Errorf("unexpected report visible: %+v", r)
		}
	}
}

func TestGetUserReportsIgnoresEmptyFacility(t *testing.T) {
	db := newTestDB(t)
	svc := newReportService(db)
	newTestUser(t, db, "dana", "Initech", "", "FacAdmin")
	newTestUser(t, db, "eve", "Globex", "", "FacAdmin")
	ctx := context.Background()

	svc.CreateReport(ctx, "dana", &CreateReportInput{CompanyName: "Initech", Username: "dana"})
	svc.CreateReport(ctx, "eve", &CreateReportInput{CompanyName: "Globex", Username: "eve"})

	// Dana's empty facility must not match Eve's report, whose facility is
	// also unset.
	dana := &models.User{Username: "dana", CompanyName: "Initech"}
	reports, err := svc.GetUserReports(ctx, dana)
	if err != nil {
		t.Fatalf("GetUserReports returned error: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("expected 1 visible report, got %d", len(reports))
	}
	if reports[0].Username != "dana" {
		t.Errorf("unexpected report visible: %+v", reports[0])
	}
}

func TestCurrentTabRoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := newReportService(db)
	newTestUser(t, db, "alice", "Acme", "Plant 1", "FacAdmin")
	ctx := context.Background()

	out, _ := svc.CreateReport(ctx, "alice", &CreateReportInput{
		CompanyName: "Acme", FacilityName: "Plant 1", Username: "alice",
	})

	if err := svc.ChangeCurrentTab(ctx, out.ReportID, "waste"); err != nil {
		t.Fatalf("ChangeCurrentTab returned error: %v", err)
	}
	tab, err := svc.GetCurrentTab(ctx, out.ReportID)
	if err != nil {
		t.Fatalf("GetCurrentTab returned error: %v", err)
	}
	if tab != "waste" {
		t.Errorf("expected tab waste, got %s", tab)
	}

	if err := svc.ChangeCurrentTab(ctx, "999999", "waste"); !errors.Is(err, domain.ErrReportNotFound) {
		t.Errorf("expected ErrReportNotFound, got %v", err)
	}
}

func TestRepairReportIndexes(t *testing.T) {
	db := newTestDB(t)
	svc := newReportService(db)
	newTestUser(t, db, "alice", "Acme", "Plant 1", "FacAdmin")
	ctx := context.Background()

	out, _ := svc.CreateReport(ctx, "alice", &CreateReportInput{
		CompanyName: "Acme", FacilityName: "Plant 1", Username: "alice",
	})

	// Simulate index loss after a crash between the two create writes.
	var user models.User
	db.Where("username = ?", "alice").First(&user)
	user.SetReportIndex(nil)
	if err := db.Save(&user).Error; err != nil {
		t.Fatalf("failed to corrupt index: %v", err)
	}

	if err := svc.RepairReportIndexes(ctx); err != nil {
		t.Fatalf("RepairReportIndexes returned error: %v", err)
	}

	db.Where("username = ?", "alice").First(&user)
	if got := user.ReportIndex(); len(got) != 1 || got[0] != out.ReportID {
		t.Errorf("index not repaired: %v", got)
	}
}
