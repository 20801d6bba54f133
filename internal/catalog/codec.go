package catalog

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/luminaspa/booking-cart/internal/domain/promotion"
)

var hundred = decimal.NewFromInt(100)

// DecodeBundles parses the promotion bundle payload served by the clinic
// backend:
//
//	{"promotions": [{"promotion_id", "code", "name", "description",
//	  "discount_percent", "treatments": [{"treatment_id", "name",
//	  "category", "price"}]}], "total": n}
//
// The decode is tolerant: unknown fields are skipped, nullable fields
// (code, name, price, ...) degrade to zero values, and discount_percent is
// clamped into [0, 100]. Structurally invalid JSON is an error.
func DecodeBundles(data []byte) ([]promotion.Bundle, error) {
	d := jx.DecodeBytes(data)

	var bundles []promotion.Bundle
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "promotions" {
			return d.Skip()
		}
		return d.Arr(func(d *jx.Decoder) error {
			b, err := decodeBundle(d)
			if err != nil {
				return err
			}
			bundles = append(bundles, b)
			return nil
		})
	}); err != nil {
		return nil, errors.Wrap(err, "decode promotion bundles")
	}

	return bundles, nil
}

func decodeBundle(d *jx.Decoder) (promotion.Bundle, error) {
	var b promotion.Bundle
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "promotion_id":
			b.PromotionID, err = d.Int64()
		case "code":
			b.Code, err = optStr(d)
		case "name":
			b.Name, err = optStr(d)
		case "description":
			b.Description, err = optStr(d)
		case "discount_percent":
			var pct float64
			pct, err = optFloat(d)
			b.DiscountPercent = clampPercent(decimal.NewFromFloat(pct))
		case "treatments":
			err = d.Arr(func(d *jx.Decoder) error {
				ref, refErr := decodeTreatmentRef(d)
				if refErr != nil {
					return refErr
				}
				b.Treatments = append(b.Treatments, ref)
				return nil
			})
		default:
			err = d.Skip()
		}
		return err
	})
	return b, err
}

func decodeTreatmentRef(d *jx.Decoder) (promotion.TreatmentRef, error) {
	var ref promotion.TreatmentRef
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "treatment_id":
			ref.TreatmentID, err = d.Int64()
		case "name":
			ref.Name, err = optStr(d)
		case "price":
			var price float64
			price, err = optFloat(d)
			ref.Price = decimal.NewFromFloat(price)
		default:
			err = d.Skip()
		}
		return err
	})
	return ref, err
}

// EncodeBundles renders bundles back into the backend's wire shape. Used
// by the snapshot exporter so file and HTTP sources share one format.
func EncodeBundles(bundles []promotion.Bundle) []byte {
	var e jx.Encoder

	e.ObjStart()
	e.FieldStart("promotions")
	e.ArrStart()
	for _, b := range bundles {
		encodeBundle(&e, b)
	}
	e.ArrEnd()
	e.FieldStart("total")
	e.Int(len(bundles))
	e.ObjEnd()

	return e.Bytes()
}

func encodeBundle(e *jx.Encoder, b promotion.Bundle) {
	e.ObjStart()
	e.FieldStart("promotion_id")
	e.Int64(b.PromotionID)
	e.FieldStart("code")
	e.Str(b.Code)
	e.FieldStart("name")
	e.Str(b.Name)
	e.FieldStart("description")
	e.Str(b.Description)
	e.FieldStart("discount_percent")
	e.Float64(b.DiscountPercent.InexactFloat64())
	e.FieldStart("treatments")
	e.ArrStart()
	for _, t := range b.Treatments {
		e.ObjStart()
		e.FieldStart("treatment_id")
		e.Int64(t.TreatmentID)
		e.FieldStart("name")
		e.Str(t.Name)
		e.FieldStart("price")
		e.Float64(t.Price.InexactFloat64())
		e.ObjEnd()
	}
	e.ArrEnd()
	e.ObjEnd()
}

// optStr reads a string that may be JSON null.
func optStr(d *jx.Decoder) (string, error) {
	if d.Next() == jx.Null {
		return "", d.Null()
	}
	return d.Str()
}

// optFloat reads a number that may be JSON null.
func optFloat(d *jx.Decoder) (float64, error) {
	if d.Next() == jx.Null {
		return 0, d.Null()
	}
	return d.Float64()
}

func clampPercent(p decimal.Decimal) decimal.Decimal {
	if p.IsNegative() {
		return decimal.Zero
	}
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}
