package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Price bounds. Every price within them fits decimal(18,4) and survives a
// float64 round-trip, which is how SQLite stores a NUMERIC column.
const (
	// MaxPriceScale is the number of fractional digits a price may carry.
	MaxPriceScale = 4
	// MaxPriceIntegerDigits is the number of digits allowed before the decimal point.
	MaxPriceIntegerDigits = 14
	// MaxPriceSignificantDigits is the total number of significant digits allowed.
	MaxPriceSignificantDigits = 15
)

// Product is a catalog entry. Available=false marks a soft-deleted product.
type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Price       decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"price"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	SKU         *string         `gorm:"size:100;uniqueIndex" json:"sku,omitempty"`
	Description string          `gorm:"size:2000" json:"description"`
	Available   bool            `gorm:"not null;default:true;index" json:"available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName returns the table name for Product model.
func (Product) TableName() string {
	return "products"
}

// Patch carries the fields of a partial update. Nil fields are left untouched.
// Patch has no ID field; the row is always addressed separately.
type Patch struct {
	Name        *string
	Price       *decimal.Decimal
	Stock       *int
	SKU         *string
	Description *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Price == nil && p.Stock == nil && p.SKU == nil && p.Description == nil
}

// Columns returns the column/value pairs present in the patch.
func (p Patch) Columns() map[string]any {
	cols := make(map[string]any, 5)
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Price != nil {
		cols["price"] = *p.Price
	}
	if p.Stock != nil {
		cols["stock"] = *p.Stock
	}
	if p.SKU != nil {
		cols["sku"] = *p.SKU
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	return cols
}

// Apply merges the patch into prod in place.
func (p Patch) Apply(prod *Product) {
	if p.Name != nil {
		prod.Name = *p.Name
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.Stock != nil {
		prod.Stock = *p.Stock
	}
	if p.SKU != nil {
		sku := *p.SKU
		prod.SKU = &sku
	}
	if p.Description != nil {
		prod.Description = *p.Description
	}
}
