package service

import (
	"context"

	"rjboard/internal/auth"
	"rjboard/internal/models"
	"rjboard/internal/upstream"
)

// purchasePageSize is the page size used when walking the purchase list.
const purchasePageSize = 100

// PurchaseService governs wallet spends and their reversal. Wallet
// sufficiency and buy limits are enforced by the data service; its
// rejections pass through to the caller untouched.
type PurchaseService struct {
	upstream *upstream.Client
}

func NewPurchaseService(client *upstream.Client) *PurchaseService {
	return &PurchaseService{upstream: client}
}

// Purchase spends wallet currency on a goodies item.
func (s *PurchaseService) Purchase(ctx context.Context, token string, goodiesID int64) (*models.Purchase, error) {
	return s.upstream.CreatePurchase(ctx, token, goodiesID)
}

// Refund deletes a purchase and, by contract with the data service,
// credits the spent amount back to the purchasing user in the same
// operation: from the caller's view either both happen or neither.
func (s *PurchaseService) Refund(ctx context.Context, token string, callerPrivilege int, purchaseID int64) error {
	if decision := auth.CanRefundPurchase(callerPrivilege); !decision.Allowed {
		return ErrNotPermitted
	}
	return s.upstream.DeletePurchase(ctx, token, purchaseID)
}

// ListUndelivered walks the purchase list page by page and keeps the
// purchases without a delivery timestamp. Each call re-reads from the
// start; nothing is cached between calls.
func (s *PurchaseService) ListUndelivered(ctx context.Context, token string, goodiesID, userID *int64) ([]models.Purchase, error) {
	undelivered := []models.Purchase{}
	for offset := 0; ; offset += purchasePageSize {
		page, err := s.upstream.ListPurchases(ctx, token, purchasePageSize, offset, goodiesID, userID)
		if err != nil {
			return nil, err
		}
		for _, purchase := range page {
			if !purchase.Delivered() {
				undelivered = append(undelivered, purchase)
			}
		}
		if len(page) < purchasePageSize {
			return undelivered, nil
		}
	}
}
