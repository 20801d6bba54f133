package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/luminaspa/booking-cart/internal/catalog"
	"github.com/luminaspa/booking-cart/internal/domain/promotion"
)

// listBundlesSQL expands each active promotion into its required treatment
// rows. A promotion requires one unit of every treatment reachable through
// its HAS_ITEM condition rules; duplicate treatment names per promotion are
// collapsed to the cheapest row, mirroring the backend's bundle endpoint.
const listBundlesSQL = `WITH promo_items AS (
	SELECT
		p.promotion_id,
		p.code,
		p.name,
		p.description,
		COALESCE(pb.value_percent, 0) AS discount_percent,
		t.treatment_id,
		t.name AS treatment_name,
		t.price AS treatment_price,
		row_number() OVER (
			PARTITION BY p.promotion_id, t.name
			ORDER BY t.price ASC NULLS LAST, t.treatment_id ASC
		) AS rn
	FROM promotion p
	LEFT JOIN promotion_benefit pb
		ON pb.promotion_id = p.promotion_id
		AND pb.benefit_type = 'PERCENT_DISCOUNT'
	JOIN promotion_condition_group pcg
		ON pcg.promotion_id = p.promotion_id
	JOIN promotion_condition_rule pcr
		ON pcr.condition_group_id = pcg.condition_group_id
		AND pcr.rule_type = 'HAS_ITEM'
	JOIN item_catalog ic
		ON ic.item_id = pcr.item_id
	JOIN treatment_recipe tr
		ON tr.item_id = ic.item_id
	JOIN treatment t
		ON t.treatment_id = tr.treatment_id
	WHERE p.is_active = TRUE
)
SELECT promotion_id, code, name, description, discount_percent,
	treatment_id, treatment_name, treatment_price
FROM promo_items
WHERE rn = 1
ORDER BY promotion_id, treatment_name`

var _ catalog.Source = (*PromotionSource)(nil)

// PromotionSource implements catalog.Source backed by the clinic database.
type PromotionSource struct {
	pool *pgxpool.Pool
}

// NewPromotionSource returns a PromotionSource that uses the given pool.
func NewPromotionSource(pool *pgxpool.Pool) *PromotionSource {
	return &PromotionSource{pool: pool}
}

// Fetch loads all active promotion bundles with their required treatments.
func (s *PromotionSource) Fetch(ctx context.Context) ([]promotion.Bundle, error) {
	rows, err := s.pool.Query(ctx, listBundlesSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list promotion bundles")
	}
	defer rows.Close()

	var (
		bundles []promotion.Bundle
		index   = make(map[int64]int)
	)
	for rows.Next() {
		var (
			promotionID int64
			code        *string
			name        *string
			description *string
			percent     decimal.Decimal
			treatmentID int64
			tName       string
			tPrice      *decimal.Decimal
		)
		if err := rows.Scan(
			&promotionID, &code, &name, &description, &percent,
			&treatmentID, &tName, &tPrice,
		); err != nil {
			return nil, errors.Wrap(err, "scan promotion bundle row")
		}

		i, ok := index[promotionID]
		if !ok {
			i = len(bundles)
			index[promotionID] = i
			bundles = append(bundles, promotion.Bundle{
				PromotionID:     promotionID,
				Code:            deref(code),
				Name:            deref(name),
				Description:     deref(description),
				DiscountPercent: percent,
			})
		}

		price := decimal.Zero
		if tPrice != nil {
			price = *tPrice
		}
		bundles[i].Treatments = append(bundles[i].Treatments, promotion.TreatmentRef{
			TreatmentID: treatmentID,
			Name:        tName,
			Price:       price,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "read promotion bundle rows")
	}

	return bundles, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
