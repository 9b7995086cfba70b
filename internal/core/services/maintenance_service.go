package services

import (
	"context"
	"log"
	"time"

	"carbonledger/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// MaintenanceService runs scheduled housekeeping: purging expired refresh
// tokens and repairing drifted report indexes. Both jobs are safe to run
// concurrently with live traffic.
type MaintenanceService struct {
	cron             *cron.Cron
	refreshTokenRepo repositories.RefreshTokenRepository
	reportService    *ReportService
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(
	refreshTokenRepo repositories.RefreshTokenRepository,
	reportService *ReportService,
) *MaintenanceService {
	return &MaintenanceService{
		cron:             cron.New(),
		refreshTokenRepo: refreshTokenRepo,
		reportService:    reportService,
	}
}

// Start schedules the maintenance jobs and starts the scheduler.
func (s *MaintenanceService) Start() {
	// Purge expired refresh tokens nightly at 03:00
	if _, err := s.cron.AddFunc("0 3 * * *", s.cleanupExpiredTokens); err != nil {
		log.Printf("❌ Failed to schedule token cleanup: %v", err)
	}

	// Repair report indexes nightly at 03:30
	if _, err := s.cron.AddFunc("30 3 * * *", s.repairReportIndexes); err != nil {
		log.Printf("❌ Failed to schedule index repair: %v", err)
	}

	s.cron.Start()
	log.Println("✅ Maintenance scheduler started")
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *MaintenanceService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("✅ Maintenance scheduler stopped")
}

func (s *MaintenanceService) cleanupExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := s.refreshTokenRepo.DeleteExpired(ctx); err != nil {
		log.Printf("❌ Expired token cleanup failed: %v", err)
		return
	}
	log.Println("✅ Expired refresh tokens purged")
}

func (s *MaintenanceService) repairReportIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	if err := s.reportService.RepairReportIndexes(ctx); err != nil {
		log.Printf("❌ Report index repair failed: %v", err)
		return
	}
	log.Println("✅ Report index repair completed")
}
