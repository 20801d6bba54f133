package handler

import (
	"github.com/luminaspa/booking-cart/internal/domain/cart"
	"github.com/luminaspa/booking-cart/internal/domain/promotion"
)

type lineItemDTO struct {
	TreatmentID int64   `json:"treatment_id"`
	Name        string  `json:"name"`
	Category    string  `json:"category,omitempty"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

type matchedItemDTO struct {
	TreatmentID int64   `json:"treatment_id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
}

type appliedDTO struct {
	PromotionID     int64            `json:"promotion_id"`
	Code            string           `json:"code"`
	Name            string           `json:"name"`
	DiscountPercent float64          `json:"discount_percent"`
	MatchedItems    []matchedItemDTO `json:"matched_items"`
}

type bundleDiscountDTO struct {
	PromotionID int64   `json:"promotion_id"`
	Amount      float64 `json:"amount"`
}

type pricingDTO struct {
	OriginalTotal float64             `json:"original_total"`
	PerBundle     []bundleDiscountDTO `json:"per_bundle"`
	TotalDiscount float64             `json:"total_discount"`
	FinalTotal    float64             `json:"final_total"`
}

type quoteDTO struct {
	Applied []appliedDTO `json:"applied"`
	Pricing pricingDTO   `json:"pricing"`
}

type cartResponse struct {
	CartID string        `json:"cart_id"`
	Items  []lineItemDTO `json:"items"`
	Count  int           `json:"count"`
	Quote  quoteDTO      `json:"quote"`
}

type createCartResponse struct {
	CartID string `json:"cart_id"`
}

type addItemRequest struct {
	TreatmentID int64   `json:"treatment_id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
}

type checkoutRequest struct {
	CustomerName string `json:"customer_name"`
	CustomerID   *int64 `json:"customer_id"`
	SessionDate  string `json:"session_date"`
	SessionTime  string `json:"session_time"`
	Note         string `json:"note"`
}

type checkoutResponse struct {
	InvoiceNo string   `json:"invoice_no"`
	Quote     quoteDTO `json:"quote"`
}

func toLineItemDTOs(items []cart.LineItem) []lineItemDTO {
	out := make([]lineItemDTO, len(items))
	for i, it := range items {
		out[i] = lineItemDTO{
			TreatmentID: it.TreatmentID,
			Name:        it.Name,
			Category:    it.Category,
			Price:       it.Price.InexactFloat64(),
			Quantity:    it.Quantity,
		}
	}
	return out
}

func toQuoteDTO(q promotion.Quote) quoteDTO {
	applied := make([]appliedDTO, len(q.Applied))
	for i, a := range q.Applied {
		matched := make([]matchedItemDTO, len(a.MatchedItems))
		for j, m := range a.MatchedItems {
			matched[j] = matchedItemDTO{
				TreatmentID: m.TreatmentID,
				Name:        m.Name,
				Price:       m.Price.InexactFloat64(),
			}
		}
		applied[i] = appliedDTO{
			PromotionID:     a.Bundle.PromotionID,
			Code:            a.Bundle.Code,
			Name:            a.Bundle.Name,
			DiscountPercent: a.Bundle.DiscountPercent.InexactFloat64(),
			MatchedItems:    matched,
		}
	}

	perBundle := make([]bundleDiscountDTO, len(q.Pricing.PerBundle))
	for i, d := range q.Pricing.PerBundle {
		perBundle[i] = bundleDiscountDTO{
			PromotionID: d.PromotionID,
			Amount:      d.Amount.InexactFloat64(),
		}
	}

	return quoteDTO{
		Applied: applied,
		Pricing: pricingDTO{
			OriginalTotal: q.Pricing.OriginalTotal.InexactFloat64(),
			PerBundle:     perBundle,
			TotalDiscount: q.Pricing.TotalDiscount.InexactFloat64(),
			FinalTotal:    q.Pricing.FinalTotal.InexactFloat64(),
		},
	}
}
