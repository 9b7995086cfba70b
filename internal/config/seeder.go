package config

import (
	"log"

	"carbonledger/internal/adapters/persistence/models"
	"carbonledger/internal/core/domain"
	"carbonledger/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedSuperUser(); err != nil {
		log.Printf("⚠️ SuperUser seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedSuperUser seeds the default SuperUser account
// This is for development/testing only
// In production, create the SuperUser through a secure process
func (s *Seeder) seedSuperUser() error {
	// Check if a SuperUser already exists
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", string(domain.RoleSuperUser)).Count(&count)
	if count > 0 {
		return nil // SuperUser already exists
	}

	hashedPassword, err := password.Hash("superuser123456")
	if err != nil {
		return err
	}

	superUser := &models.User{
		Username: "superuser",
		Email:    "admin@carbonledger.io",
		Password: hashedPassword,
		Role:     string(domain.RoleSuperUser),
		IsActive: true,
	}
	superUser.SetReportIndex(nil)
	superUser.SetBillIndex(nil)

	if err := s.db.Create(superUser).Error; err != nil {
		return err
	}

	log.Printf("✅ SuperUser created: %s", superUser.Username)
	return nil
}
