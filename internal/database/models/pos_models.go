package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentCash = "cash"
	PaymentCard = "card"
	PaymentUPI  = "upi"
)

type Sale struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	InvoiceNumber  string `gorm:"type:varchar(50);uniqueIndex;not null"`
	CustomerID     *int64 // nil for a walk-in customer
	VanID          *int64
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	GstAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	FinalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod  string          `gorm:"type:varchar(20);not null;default:'cash'"`
	IsGstInvoice   bool            `gorm:"not null;default:true"`
	Date           time.Time       `gorm:"index;not null"`
	CreatedBy      int64           `gorm:"not null"`

	Customer *Customer  `gorm:"foreignKey:CustomerID"`
	Van      *Van       `gorm:"foreignKey:VanID"`
	Items    []SaleItem `gorm:"foreignKey:SaleID"`
}

type SaleItem struct {
	ID         int64           `gorm:"primaryKey;autoIncrement"`
	SaleID     int64           `gorm:"index;not null"`
	ProductID  int64           `gorm:"not null"`
	Quantity   int             `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"` // snapshot at time of sale
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	GstRate    decimal.Decimal `gorm:"type:decimal(5,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

type Purchase struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	InvoiceNumber string          `gorm:"type:varchar(50);uniqueIndex;not null"`
	SupplierID    int64           `gorm:"index;not null"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	GstAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	FinalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Date          time.Time       `gorm:"index;not null"`
	CreatedBy     int64           `gorm:"not null"`

	Supplier *Supplier      `gorm:"foreignKey:SupplierID"`
	Items    []PurchaseItem `gorm:"foreignKey:PurchaseID"`
}

type PurchaseItem struct {
	ID         int64           `gorm:"primaryKey;autoIncrement"`
	PurchaseID int64           `gorm:"index;not null"`
	ProductID  int64           `gorm:"not null"`
	Quantity   int             `gorm:"not null"`
	UnitCost   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalCost  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	GstRate    decimal.Decimal `gorm:"type:decimal(5,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

type Return struct {
	ID           int64           `gorm:"primaryKey;autoIncrement"`
	ReturnNumber string          `gorm:"type:varchar(50);uniqueIndex;not null"`
	SaleID       int64           `gorm:"index;not null"`
	CustomerID   *int64
	VanID        *int64
	TotalAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	GstAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	FinalAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Reason       string          `gorm:"type:text;not null"`
	Date         time.Time       `gorm:"index;not null"`
	CreatedBy    int64           `gorm:"not null"`

	Sale     *Sale        `gorm:"foreignKey:SaleID"`
	Customer *Customer    `gorm:"foreignKey:CustomerID"`
	Van      *Van         `gorm:"foreignKey:VanID"`
	Items    []ReturnItem `gorm:"foreignKey:ReturnID"`
}

type ReturnItem struct {
	ID         int64           `gorm:"primaryKey;autoIncrement"`
	ReturnID   int64           `gorm:"index;not null"`
	ProductID  int64           `gorm:"not null"`
	Quantity   int             `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"` // copied from the original sale line
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	GstRate    decimal.Decimal `gorm:"type:decimal(5,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
