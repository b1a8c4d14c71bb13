package catalog

import (
	"time"

	"gorm.io/datatypes"
)

type Supplier struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	BaseURL   string    `gorm:"size:1024" json:"base_url"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`

	Rules []SupplierRule `gorm:"constraint:OnDelete:CASCADE" json:"rules,omitempty"`
}

// SupplierRule stores the search URL template (with a literal {query}).
type SupplierRule struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	SupplierID        uint      `gorm:"not null;index" json:"supplier_id"`
	SearchURLTemplate *string   `gorm:"size:2048" json:"search_url_template"`
	IsEnabled         bool      `gorm:"not null;default:true" json:"is_enabled"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type Part struct {
	ID           uint           `gorm:"primaryKey"`
	SupplierID   uint           `gorm:"not null;index;index:ix_parts_supplier_part,priority:1"`
	PartNumber   string         `gorm:"size:255;index;index:ix_parts_supplier_part,priority:2"`
	Name         *string        `gorm:"size:512"`
	Description  string         `gorm:"type:text"`
	Package      string         `gorm:"size:255"`
	Voltage      string         `gorm:"size:255"`
	OtherSpecs   string         `gorm:"type:text"`
	Stock        string         `gorm:"size:255"`
	PriceTiers   datatypes.JSON `gorm:"column:price_tiers_json"`
	DatasheetURL string         `gorm:"size:2048"`
	PurchaseURL  string         `gorm:"size:2048"`
	ImageURL     string         `gorm:"size:2048"`
	LastUpdated  time.Time      `gorm:"autoUpdateTime"`

	Supplier Supplier
}

// PriceTier is one entry of Part.PriceTiers.
type PriceTier struct {
	Qty   int    `json:"qty"`
	Price string `json:"price"`
}
