package models

import (
	"time"

	"gorm.io/datatypes"
)

// Report represents reports table: one sustainability record per facility,
// company and time period, decomposed into independent emission categories.
//
// ReportID is a 6-digit zero-padded decimal string assigned sequentially.
// Category columns are opaque JSON sub-objects; their shape is owned by the
// data-entry forms and is not validated server-side.
type Report struct {
	ID           uint   `gorm:"primaryKey" json:"-"`
	ReportID     string `gorm:"uniqueIndex;size:6;not null" json:"reportId"`
	ReportName   string `gorm:"size:100" json:"reportName"`
	CompanyName  string `gorm:"size:100;index;not null" json:"companyName"`
	FacilityName string `gorm:"size:100;index" json:"facilityName"`
	TimePeriod   string `gorm:"size:50" json:"timePeriod"`
	Username     string `gorm:"size:50;index;not null" json:"username"`
	CurrentTab   string `gorm:"size:50" json:"current_tab"`

	Fuel          datatypes.JSON `json:"fuel"`
	Food          datatypes.JSON `json:"food"`
	Bioenergy     datatypes.JSON `json:"bioenergy"`
	Refrigerants  datatypes.JSON `json:"refrigerants"`
	Ehctd         datatypes.JSON `json:"ehctd"`
	WTTFuels      datatypes.JSON `gorm:"column:wttfuels" json:"wttfuels"`
	Material      datatypes.JSON `json:"material"`
	Waste         datatypes.JSON `json:"waste"`
	BTLS          datatypes.JSON `gorm:"column:btls" json:"btls"`
	EC            datatypes.JSON `gorm:"column:ec" json:"ec"`
	Water         datatypes.JSON `json:"water"`
	FG            datatypes.JSON `gorm:"column:fg" json:"fg"`
	HomeOffice    datatypes.JSON `gorm:"column:home_office" json:"homeOffice"`
	OwnedVehicles datatypes.JSON `gorm:"column:owned_vehicles" json:"ownedVehicles"`
	FA            datatypes.JSON `gorm:"column:fa" json:"fa"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Report) TableName() string {
	return "reports"
}

// Category keys. The key doubles as the JSON body field on category updates.
const (
	CategoryFuel          = "fuel"
	CategoryFood          = "food"
	CategoryBioenergy     = "bioenergy"
	CategoryRefrigerants  = "refrigerants"
	CategoryEhctd         = "ehctd"
	CategoryWTTFuels      = "wttfuels"
	CategoryMaterial      = "material"
	CategoryWaste         = "waste"
	CategoryBTLS          = "btls"
	CategoryEC            = "ec"
	CategoryWater         = "water"
	CategoryFG            = "fg"
	CategoryHomeOffice    = "homeOffice"
	CategoryOwnedVehicles = "ownedVehicles"
	CategoryFA            = "fa"
)

// Category describes one emission category: its key (JSON body field), its
// URL slug for the update route and the name of its CO2e derivation route.
type Category struct {
	Key       string
	Slug      string
	CO2eRoute string
}

// categories is the single dispatch table for the per-category update and
// CO2e routes. Adding a category here is all the routing layer needs.
var categories = []Category{
	{Key: CategoryFuel, Slug: "fuel", CO2eRoute: "CO2eFuel"},
	{Key: CategoryFood, Slug: "food", CO2eRoute: "CO2eFood"},
	{Key: CategoryBioenergy, Slug: "bioenergy", CO2eRoute: "CO2eBioenergy"},
	{Key: CategoryRefrigerants, Slug: "refrigerants", CO2eRoute: "CO2eRefrigerants"},
	{Key: CategoryEhctd, Slug: "ehctd", CO2eRoute: "CO2eEhctd"},
	{Key: CategoryWTTFuels, Slug: "wtt-fuels", CO2eRoute: "CO2eWTTFuel"},
	{Key: CategoryMaterial, Slug: "material", CO2eRoute: "CO2eMaterialsUsed"},
	{Key: CategoryWaste, Slug: "waste", CO2eRoute: "CO2eWasteDisposal"},
	{Key: CategoryBTLS, Slug: "btls", CO2eRoute: "CO2eBtls"},
	{Key: CategoryEC, Slug: "ec", CO2eRoute: "CO2eEc"},
	{Key: CategoryWater, Slug: "water", CO2eRoute: "CO2eWater"},
	{Key: CategoryFG, Slug: "fg", CO2eRoute: "CO2eFg"},
	{Key: CategoryHomeOffice, Slug: "home-office", CO2eRoute: "CO2eHome"},
	{Key: CategoryOwnedVehicles, Slug: "owned-vehicles", CO2eRoute: "CO2eOv"},
	{Key: CategoryFA, Slug: "fa", CO2eRoute: "CO2eFa"},
}

// Categories returns the category dispatch table.
func Categories() []Category {
	return categories
}

// ValidCategory reports whether key names a known category.
func ValidCategory(key string) bool {
	for _, c := range categories {
		if c.Key == key {
			return true
		}
	}
	return false
}

// CategoryData returns the stored sub-object for the given category key.
func (r *Report) CategoryData(key string) (datatypes.JSON, bool) {
	switch key {
	case CategoryFuel:
		return r.Fuel, true
	case CategoryFood:
		return r.Food, true
	case CategoryBioenergy:
		return r.Bioenergy, true
	case CategoryRefrigerants:
		return r.Refrigerants, true
	case CategoryEhctd:
		return r.Ehctd, true
	case CategoryWTTFuels:
		return r.WTTFuels, true
	case CategoryMaterial:
		return r.Material, true
	case CategoryWaste:
		return r.Waste, true
	case CategoryBTLS:
		return r.BTLS, true
	case CategoryEC:
		return r.EC, true
	case CategoryWater:
		return r.Water, true
	case CategoryFG:
		return r.FG, true
	case CategoryHomeOffice:
		return r.HomeOffice, true
	case CategoryOwnedVehicles:
		return r.OwnedVehicles, true
	case CategoryFA:
		return r.FA, true
	}
	return nil, false
}

// SetCategoryData replaces the stored sub-object for the given category key.
// Replacement is unconditional: no merge, no partial update.
func (r *Report) SetCategoryData(key string, data datatypes.JSON) bool {
	switch key {
	case CategoryFuel:
		r.Fuel = data
	case CategoryFood:
		r.Food = data
	case CategoryBioenergy:
		r.Bioenergy = data
	case CategoryRefrigerants:
		r.Refrigerants = data
	case CategoryEhctd:
		r.Ehctd = data
	case CategoryWTTFuels:
		r.WTTFuels = data
	case CategoryMaterial:
		r.Material = data
	case CategoryWaste:
		r.Waste = data
	case CategoryBTLS:
		r.BTLS = data
	case CategoryEC:
		r.EC = data
	case CategoryWater:
		r.Water = data
	case CategoryFG:
		r.FG = data
	case CategoryHomeOffice:
		r.HomeOffice = data
	case CategoryOwnedVehicles:
		r.OwnedVehicles = data
	case CategoryFA:
		r.FA = data
	default:
		return false
	}
	return true
}

// EmptyObject is the seed value for category sub-objects on report creation.
var EmptyObject = datatypes.JSON([]byte("{}"))

// SeedCategories initializes every category sub-object to an empty object.
func (r *Report) SeedCategories() {
	for _, c := range categories {
		r.SetCategoryData(c.Key, EmptyObject)
	}
}

// ReportSummary is the projection returned by single-report lookups. It
// mirrors the fields the dashboard needs plus the fuel sub-object.
type ReportSummary struct {
	ReportID     string         `json:"reportId"`
	ReportName   string         `json:"reportName"`
	CompanyName  string         `json:"companyName"`
	FacilityName string         `json:"facilityName"`
	TimePeriod   string         `json:"timePeriod"`
	Username     string         `json:"username"`
	Fuel         datatypes.JSON `json:"fuel"`
}

func (r *Report) ToSummary() *ReportSummary {
	return &ReportSummary{
		ReportID:     r.ReportID,
		ReportName:   r.ReportName,
		CompanyName:  r.CompanyName,
		FacilityName: r.FacilityName,
		TimePeriod:   r.TimePeriod,
		Username:     r.Username,
		Fuel:         r.Fuel,
	}
}
