package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table. Usernames are stored lowercase.
//
// ReportIDs and BillIDs are denormalized back-reference indexes: the Report
// document's Username column is the sole source of truth for ownership. The
// indexes are maintained manually on create/delete (two separate writes, no
// cascading constraint) and repaired defensively by the maintenance job.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Password     string         `gorm:"size:255;not null" json:"-"`
	Email        string         `gorm:"size:100;index" json:"email"`
	CompanyName  string         `gorm:"size:100;index" json:"companyName"`
	FacilityName string         `gorm:"size:100;index" json:"facilityName"`
	Role         string         `gorm:"size:20;default:'Employee'" json:"role"`
	Facilities   datatypes.JSON `json:"facilities"`
	ReportIDs    datatypes.JSON `json:"reports"`
	BillIDs      datatypes.JSON `json:"bills"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID           uint            `json:"id"`
	Username     string          `json:"username"`
	Email        string          `json:"email,omitempty"`
	CompanyName  string          `json:"companyName,omitempty"`
	FacilityName string          `json:"facilityName,omitempty"`
	Role         string          `json:"role"`
	Facilities   json.RawMessage `json:"facilities,omitempty"`
	Reports      []string        `json:"reports"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		CompanyName:  u.CompanyName,
		FacilityName: u.FacilityName,
		Role:         u.Role,
		Facilities:   json.RawMessage(u.Facilities),
		Reports:      u.ReportIndex(),
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
	}
}

// ReportIndex decodes the denormalized report-ID list. A corrupt or empty
// column decodes to an empty index rather than an error; the index is a
// cache, never an authority.
func (u *User) ReportIndex() []string {
	var ids []string
	if len(u.ReportIDs) > 0 {
		_ = json.Unmarshal(u.ReportIDs, &ids)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids
}

// SetReportIndex replaces the denormalized report-ID list.
func (u *User) SetReportIndex(ids []string) {
	if ids == nil {
		ids = []string{}
	}
	raw, _ := json.Marshal(ids)
	u.ReportIDs = datatypes.JSON(raw)
}

// BillIndex decodes the denormalized bill-ID list.
func (u *User) BillIndex() []string {
	var ids []string
	if len(u.BillIDs) > 0 {
		_ = json.Unmarshal(u.BillIDs, &ids)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids
}

// SetBillIndex replaces the denormalized bill-ID list.
func (u *User) SetBillIndex(ids []string) {
	if ids == nil {
		ids = []string{}
	}
	raw, _ := json.Marshal(ids)
	u.BillIDs = datatypes.JSON(raw)
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Bills
// ============================================================

// Bill holds one ingested utility bill. Only the structured data extracted
// upstream is stored here; the upload/scan pipeline lives outside this service.
type Bill struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	BillID       string         `gorm:"uniqueIndex;size:36;not null" json:"billId"`
	BillName     string         `gorm:"size:100" json:"billName"`
	CompanyName  string         `gorm:"size:100;index" json:"companyName"`
	FacilityName string         `gorm:"size:100;index" json:"facilityName"`
	Username     string         `gorm:"size:50;index;not null" json:"username"`
	BillMonth    string         `gorm:"size:20" json:"billMonth"`
	BillYear     string         `gorm:"size:10" json:"billYear"`
	Data         datatypes.JSON `json:"data"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Bill) TableName() string {
	return "bills"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Report{},
		&Bill{},
	)
}
