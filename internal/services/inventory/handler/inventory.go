package handler

import (
	"context"
	"time"

	"vanpos-system/internal/database/models"
	"vanpos-system/internal/ledger"
	"vanpos-system/internal/store"
)

// InventoryService records van load movements. Every stock change goes
// through the ledger against a locked product row, so the load form and
// the adjusted stock commit together.
type InventoryService struct {
	store store.Store
}

func NewInventoryService(st store.Store) *InventoryService {
	return &InventoryService{store: st}
}

type LoadFormInput struct {
	FormType  string  `json:"form_type"`
	VanID     int64   `json:"van_id"`
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Notes     *string `json:"notes"`
	CreatedBy int64   `json:"-"`
}

func (s *InventoryService) CreateLoadForm(ctx context.Context, in LoadFormInput) (*models.LoadForm, error) {
	direction, err := ledger.ParseDirection(in.FormType)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.VanByID(ctx, in.VanID); err != nil {
		return nil, err
	}

	var form *models.LoadForm
	err = s.store.WithinTx(ctx, func(tx store.Store) error {
		product, err := tx.ProductForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if err := ledger.ApplyLoad(product, direction, in.Quantity); err != nil {
			return err
		}
		if err := tx.SaveProduct(ctx, product); err != nil {
			return err
		}

		form = &models.LoadForm{
			FormType:  string(direction),
			VanID:     in.VanID,
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			Date:      time.Now(),
			Notes:     in.Notes,
			CreatedBy: in.CreatedBy,
		}
		return tx.CreateLoadForm(ctx, form)
	})
	if err != nil {
		return nil, err
	}
	return form, nil
}

func (s *InventoryService) ListLoadForms(ctx context.Context) ([]models.LoadForm, error) {
	return s.store.ListLoadForms(ctx)
}
