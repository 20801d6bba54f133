package promotion

import (
	"slices"

	"github.com/luminaspa/booking-cart/internal/domain/cart"
)

// Allocate decides which bundles apply to the given cart snapshot.
//
// The algorithm is a single-pass greedy matcher, deliberately not a global
// optimum: bundles are tried highest discount first, ties broken by catalog
// order (stable sort), and each matching bundle consumes one unit of every
// treatment it requires. A bundle whose requirements cannot all be met
// consumes nothing. Each bundle applies at most once per pass, no matter
// how much surplus quantity remains.
//
// Replacing this with an optimal assignment would change observable
// discount totals for carts with overlapping bundle requirements, so the
// greedy order is part of the contract.
func Allocate(items []cart.LineItem, bundles []Bundle) []Applied {
	availability := make(map[int64]int, len(items))
	rows := make(map[int64]cart.LineItem, len(items))
	for _, it := range items {
		availability[it.TreatmentID] = it.Quantity
		rows[it.TreatmentID] = it
	}

	sorted := slices.Clone(bundles)
	slices.SortStableFunc(sorted, func(a, b Bundle) int {
		return b.DiscountPercent.Cmp(a.DiscountPercent)
	})

	var applied []Applied
	for _, b := range sorted {
		if len(b.Treatments) == 0 {
			continue
		}

		// Units required per treatment. Bundles normally list each
		// treatment once, but counting keeps availability non-negative
		// even for a catalog entry that repeats an id.
		need := make(map[int64]int, len(b.Treatments))
		for _, t := range b.Treatments {
			need[t.TreatmentID]++
		}

		matches := true
		for id, n := range need {
			if availability[id] < n {
				matches = false
				break
			}
		}
		if !matches {
			continue
		}

		for id, n := range need {
			availability[id] -= n
		}

		applied = append(applied, Applied{
			Bundle:       b,
			MatchedItems: resolveItems(b.Treatments, rows),
		})
	}

	return applied
}

// resolveItems snapshots one unit per required treatment, preferring the
// live cart row's name and price over the bundle's stored copy.
func resolveItems(required []TreatmentRef, rows map[int64]cart.LineItem) []TreatmentRef {
	matched := make([]TreatmentRef, len(required))
	for i, t := range required {
		ref := t
		if row, ok := rows[t.TreatmentID]; ok {
			ref.Name = row.Name
			ref.Price = row.Price
		}
		matched[i] = ref
	}
	return matched
}
