package models

import "time"

// LoadForm is an append-only ledger entry recording stock moved into or
// out of a van. It is never updated after creation; the stock effect is
// applied to the product when the form is recorded.
type LoadForm struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	FormType  string    `gorm:"type:varchar(3);not null"` // "in" or "out"
	VanID     int64     `gorm:"index;not null"`
	ProductID int64     `gorm:"index;not null"`
	Quantity  int       `gorm:"not null"`
	Date      time.Time `gorm:"not null"`
	Notes     *string   `gorm:"type:text"`
	CreatedBy int64     `gorm:"not null"`
	CreatedAt time.Time

	Van     *Van     `gorm:"foreignKey:VanID"`
	Product *Product `gorm:"foreignKey:ProductID"`
}
