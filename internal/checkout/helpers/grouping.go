// Package helpers holds the pure cart partitioning steps used by checkout.
package helpers

import (
	"github.com/eventmartlabs/eventmart-backend/internal/cart"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GroupItemsByVendor partitions the cart snapshot by vendor. Each group keeps
// its line items in cart order.
func GroupItemsByVendor(items []cart.LineItem) map[uuid.UUID][]cart.LineItem {
	grouped := make(map[uuid.UUID][]cart.LineItem, len(items))
	for _, item := range items {
		grouped[item.VendorID] = append(grouped[item.VendorID], item)
	}
	return grouped
}

// VendorSequence returns the distinct vendor ids in order of first appearance,
// so checkout produces orders in a stable, reproducible sequence.
func VendorSequence(items []cart.LineItem) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(items))
	sequence := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.VendorID]; ok {
			continue
		}
		seen[item.VendorID] = struct{}{}
		sequence = append(sequence, item.VendorID)
	}
	return sequence
}

// VendorTotals captures the recomputed totals for one vendor's group.
type VendorTotals struct {
	VendorID  uuid.UUID
	Total     decimal.Decimal
	ItemCount int
}

// ComputeVendorTotals sums price times quantity over one vendor's items.
func ComputeVendorTotals(items []cart.LineItem) VendorTotals {
	totals := VendorTotals{Total: decimal.Zero}
	if len(items) == 0 {
		return totals
	}
	totals.VendorID = items[0].VendorID
	for _, item := range items {
		line := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		totals.Total = totals.Total.Add(line)
		totals.ItemCount++
	}
	return totals
}

// ComputeTotalsByVendor returns recomputed totals keyed by vendor.
func ComputeTotalsByVendor(items []cart.LineItem) map[uuid.UUID]VendorTotals {
	results := make(map[uuid.UUID]VendorTotals)
	for _, item := range items {
		totals, ok := results[item.VendorID]
		if !ok {
			totals = VendorTotals{VendorID: item.VendorID, Total: decimal.Zero}
		}
		line := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		totals.Total = totals.Total.Add(line)
		totals.ItemCount++
		results[item.VendorID] = totals
	}
	return results
}
