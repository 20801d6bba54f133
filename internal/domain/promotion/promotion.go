// Package promotion implements the discount-bundle allocation engine and
// pricing calculator shared by the cart view and the booking confirmation
// flow. Both consumers run the exact same pure functions over (cart
// snapshot, catalog snapshot) pairs, so their displayed totals can never
// drift apart.
package promotion

import (
	"github.com/shopspring/decimal"
)

// TreatmentRef is a single-unit reference to a treatment, as listed in a
// bundle's requirements or resolved into a matched line-item snapshot.
type TreatmentRef struct {
	TreatmentID int64
	Name        string
	Price       decimal.Decimal
}

// Bundle is a discount rule: it requires one unit of each listed treatment
// and grants DiscountPercent off the sum of those units' prices.
// A bundle with no treatments is inert and never applies.
type Bundle struct {
	PromotionID     int64
	Code            string
	Name            string
	Description     string
	DiscountPercent decimal.Decimal
	Treatments      []TreatmentRef
}

// Applied records one bundle that matched during an allocation pass,
// together with the resolved line-item snapshot it consumed. Item names
// and prices come from the cart's matching row when present, falling back
// to the bundle's own stored values.
type Applied struct {
	Bundle       Bundle
	MatchedItems []TreatmentRef
}

// BundleDiscount is the computed discount contribution of one applied bundle.
type BundleDiscount struct {
	PromotionID int64
	Amount      decimal.Decimal
}

// Pricing is the money outcome of one pipeline run over a cart and its
// applied bundles. FinalTotal is never negative.
type Pricing struct {
	OriginalTotal decimal.Decimal
	PerBundle     []BundleDiscount
	TotalDiscount decimal.Decimal
	FinalTotal    decimal.Decimal
}

// Quote bundles the allocation and pricing outputs of one pipeline run.
// It is a pure derivation: recomputed on every cart or catalog change and
// never mutated in place.
type Quote struct {
	Applied []Applied
	Pricing Pricing
}

var hundred = decimal.NewFromInt(100)

// clampPercent forces a discount percentage into [0, 100]. Malformed
// catalog data degrades to a harmless value instead of producing negative
// or over-unity discounts.
func clampPercent(p decimal.Decimal) decimal.Decimal {
	if p.IsNegative() {
		return decimal.Zero
	}
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}

// floorAtZero clamps negative values to zero.
func floorAtZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
