package promotion

import (
	"github.com/shopspring/decimal"

	"github.com/luminaspa/booking-cart/internal/domain/cart"
)

// Price computes the money outcome for a cart snapshot and the bundles an
// allocation pass applied to it.
//
// Each bundle's discount is its percentage of the sum of its matched item
// prices (one unit each), not of those treatments' full cart contribution.
// Price never fails: malformed bundle data contributes zero instead of
// raising, and the final total is floored at zero.
func Price(items []cart.LineItem, applied []Applied) Pricing {
	original := decimal.Zero
	for _, it := range items {
		original = original.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	original = original.Round(2)

	perBundle := make([]BundleDiscount, 0, len(applied))
	totalDiscount := decimal.Zero
	for _, a := range applied {
		matched := decimal.Zero
		for _, item := range a.MatchedItems {
			matched = matched.Add(item.Price)
		}

		pct := clampPercent(a.Bundle.DiscountPercent)
		amount := floorAtZero(matched.Mul(pct).Div(hundred)).Round(2)

		perBundle = append(perBundle, BundleDiscount{
			PromotionID: a.Bundle.PromotionID,
			Amount:      amount,
		})
		totalDiscount = totalDiscount.Add(amount)
	}

	return Pricing{
		OriginalTotal: original,
		PerBundle:     perBundle,
		TotalDiscount: totalDiscount,
		FinalTotal:    floorAtZero(original.Sub(totalDiscount)).Round(2),
	}
}

// ComputeQuote runs allocation then pricing over one consistent
// (cart, catalog) snapshot pair. This is the single entry point both the
// cart view and the booking confirmation use.
func ComputeQuote(items []cart.LineItem, bundles []Bundle) Quote {
	applied := Allocate(items, bundles)
	return Quote{
		Applied: applied,
		Pricing: Price(items, applied),
	}
}
