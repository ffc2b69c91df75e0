package state

import (
	"fmt"
	"time"

	"go-salepoint/internal/model"

	"github.com/google/uuid"
)

// SaleResult is the typed outcome of RecordSale: the created sale plus the
// line items that were dropped because their product id did not resolve,
// either against the local snapshot or on the server. A non-empty Skipped
// with a non-nil Sale is a partial success.
type SaleResult struct {
	Sale    *model.Sale
	Skipped []model.SaleItem
}

// splitResolvable partitions line items by whether their product id exists
// in the given snapshot.
func splitResolvable(products []model.Product, items []model.SaleItem) (resolved, skipped []model.SaleItem) {
	for _, item := range items {
		if indexByID(products, item.ProductID) >= 0 {
			resolved = append(resolved, item)
		} else {
			skipped = append(skipped, item)
		}
	}
	return resolved, skipped
}

func indexByID(products []model.Product, id uuid.UUID) int {
	for i := range products {
		if products[i].ID == id {
			return i
		}
	}
	return -1
}

// dropServerSkips removes the line items whose product id the server
// reported as unresolved, returning the kept and dropped items.
func dropServerSkips(items []model.SaleItem, skippedIDs []uuid.UUID) (kept, dropped []model.SaleItem) {
	for _, item := range items {
		if containsID(skippedIDs, item.ProductID) {
			dropped = append(dropped, item)
		} else {
			kept = append(kept, item)
		}
	}
	return kept, dropped
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// stockNotification derives the alert for a product's post-sale quantity.
// At or below the threshold but still on hand is a warning; zero or below
// is an error; anything above the threshold produces nothing.
func stockNotification(p model.Product, now time.Time) *model.Notification {
	switch {
	case p.LowStock():
		return &model.Notification{
			ID:        uuid.New(),
			Title:     "Low Stock Alert",
			Message:   fmt.Sprintf("%s is running low on stock (%d remaining)", p.Name, p.Quantity),
			Kind:      model.NotifyWarning,
			CreatedAt: now,
		}
	case p.OutOfStock():
		return &model.Notification{
			ID:        uuid.New(),
			Title:     "Out of Stock Alert",
			Message:   fmt.Sprintf("%s is now out of stock!", p.Name),
			Kind:      model.NotifyError,
			CreatedAt: now,
		}
	}
	return nil
}
