package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	Name          string          `gorm:"type:varchar(128);not null"`
	SKU           string          `gorm:"type:varchar(64);uniqueIndex;not null"`
	Category      string          `gorm:"type:varchar(64);not null"`
	CostPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	StockQuantity int             `gorm:"not null;default:0"`
	MinStockLevel int             `gorm:"not null;default:10"`
	GstRate       decimal.Decimal `gorm:"type:decimal(5,2);not null;default:18"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// LowStock reports whether the product has fallen to or below its
// minimum stock level.
func (p *Product) LowStock() bool {
	return p.StockQuantity <= p.MinStockLevel
}

type Supplier struct {
	ID            int64   `gorm:"primaryKey;autoIncrement"`
	Name          string  `gorm:"type:varchar(128);not null"`
	ContactPerson *string `gorm:"type:varchar(128)"`
	Phone         *string `gorm:"type:varchar(32)"`
	Email         *string `gorm:"type:varchar(128)"`
	Address       *string `gorm:"type:text"`
	GstNumber     *string `gorm:"type:varchar(32)"`
	CreatedAt     time.Time
}

type Customer struct {
	ID        int64   `gorm:"primaryKey;autoIncrement"`
	Name      string  `gorm:"type:varchar(128);not null"`
	Phone     *string `gorm:"type:varchar(32)"`
	Email     *string `gorm:"type:varchar(128)"`
	Address   *string `gorm:"type:text"`
	GstNumber *string `gorm:"type:varchar(32)"`
	CreatedAt time.Time
}

type Van struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	Name          string `gorm:"type:varchar(128);not null"`
	DriverName    string `gorm:"type:varchar(128);not null"`
	Phone         string `gorm:"type:varchar(32);not null"`
	LicenseNumber string `gorm:"type:varchar(64);not null"`
	CreatedAt     time.Time
}
