// Package ledger is the single authority for product stock changes.
// Callers load the product row under a row lock, apply one of the
// mutations below and persist the product together with the record that
// caused the change, all inside the same transaction.
package ledger

import (
	"vanpos-system/internal/apperr"
	"vanpos-system/internal/database/models"
)

type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionIn, DirectionOut:
		return Direction(s), nil
	default:
		return "", apperr.Newf(apperr.KindValidation, "invalid load direction %q", s)
	}
}

// ApplyLoad applies a load form to the product. Loading in always
// succeeds; loading out fails when the quantity exceeds current stock.
func ApplyLoad(p *models.Product, direction Direction, quantity int) error {
	if quantity <= 0 {
		return apperr.New(apperr.KindValidation, "quantity must be greater than 0")
	}
	switch direction {
	case DirectionIn:
		p.StockQuantity += quantity
		return nil
	case DirectionOut:
		if quantity > p.StockQuantity {
			return apperr.Newf(apperr.KindInsufficientStock,
				"insufficient stock for %s: available %d, requested %d", p.SKU, p.StockQuantity, quantity)
		}
		p.StockQuantity -= quantity
		return nil
	default:
		return apperr.Newf(apperr.KindValidation, "invalid load direction %q", direction)
	}
}

// ApplySaleLine removes sold quantity from stock.
func ApplySaleLine(p *models.Product, quantity int) error {
	if quantity <= 0 {
		return apperr.New(apperr.KindValidation, "quantity must be greater than 0")
	}
	if quantity > p.StockQuantity {
		return apperr.Newf(apperr.KindInsufficientStock,
			"insufficient stock for %s: available %d, requested %d", p.SKU, p.StockQuantity, quantity)
	}
	p.StockQuantity -= quantity
	return nil
}

// ApplyPurchaseLine adds purchased quantity to stock.
func ApplyPurchaseLine(p *models.Product, quantity int) error {
	if quantity <= 0 {
		return apperr.New(apperr.KindValidation, "quantity must be greater than 0")
	}
	p.StockQuantity += quantity
	return nil
}

// ApplyReturnLine puts returned quantity back into stock. There is no
// upper bound here; the return engine enforces the per-sale remaining
// quantity before calling this.
func ApplyReturnLine(p *models.Product, quantity int) error {
	if quantity <= 0 {
		return apperr.New(apperr.KindValidation, "quantity must be greater than 0")
	}
	p.StockQuantity += quantity
	return nil
}
