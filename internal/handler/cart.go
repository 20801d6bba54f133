package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/luminaspa/booking-cart/internal/domain/cart"
)

func (h *Handler) createCart(w http.ResponseWriter, _ *http.Request) {
	id := h.sessions.Create()
	writeJSON(w, http.StatusCreated, createCartResponse{CartID: id})
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	store, id, ok := h.cart(w, r)
	if !ok {
		return
	}
	h.writeCart(w, r, id, store)
}

func (h *Handler) deleteCart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "cartID")
	h.sessions.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	store, id, ok := h.cart(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TreatmentID <= 0 {
		writeError(w, http.StatusBadRequest, "treatment_id is required")
		return
	}
	if req.Price < 0 {
		writeError(w, http.StatusBadRequest, "price must not be negative")
		return
	}

	store.Add(cart.Treatment{
		TreatmentID: req.TreatmentID,
		Name:        req.Name,
		Category:    req.Category,
		Price:       decimal.NewFromFloat(req.Price),
	})
	h.writeCart(w, r, id, store)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	store, id, ok := h.cart(w, r)
	if !ok {
		return
	}
	treatmentID, ok := h.treatmentID(w, r)
	if !ok {
		return
	}

	store.Remove(treatmentID)
	h.writeCart(w, r, id, store)
}

func (h *Handler) incrementItem(w http.ResponseWriter, r *http.Request) {
	store, id, ok := h.cart(w, r)
	if !ok {
		return
	}
	treatmentID, ok := h.treatmentID(w, r)
	if !ok {
		return
	}

	store.Increment(treatmentID)
	h.writeCart(w, r, id, store)
}

func (h *Handler) decrementItem(w http.ResponseWriter, r *http.Request) {
	store, id, ok := h.cart(w, r)
	if !ok {
		return
	}
	treatmentID, ok := h.treatmentID(w, r)
	if !ok {
		return
	}

	store.Decrement(treatmentID)
	h.writeCart(w, r, id, store)
}

func (h *Handler) clearItems(w http.ResponseWriter, r *http.Request) {
	store, id, ok := h.cart(w, r)
	if !ok {
		return
	}

	store.Clear()
	h.writeCart(w, r, id, store)
}

func (h *Handler) getQuote(w http.ResponseWriter, r *http.Request) {
	store, _, ok := h.cart(w, r)
	if !ok {
		return
	}

	q := h.booking.Quote(r.Context(), store.Items())
	writeJSON(w, http.StatusOK, toQuoteDTO(q))
}

// cart resolves the session cart from the route, writing a 404 when the
// session is unknown or evicted.
func (h *Handler) cart(w http.ResponseWriter, r *http.Request) (*cart.Store, string, bool) {
	id := chi.URLParam(r, "cartID")
	store, ok := h.sessions.Cart(id)
	if !ok {
		writeError(w, http.StatusNotFound, "cart not found")
		return nil, "", false
	}
	return store, id, true
}

func (h *Handler) treatmentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "treatmentID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid treatment id")
		return 0, false
	}
	return id, true
}

// writeCart renders the cart together with a fresh quote so every mutation
// response already carries the updated totals.
func (h *Handler) writeCart(w http.ResponseWriter, r *http.Request, id string, store *cart.Store) {
	items := store.Items()
	writeJSON(w, http.StatusOK, cartResponse{
		CartID: id,
		Items:  toLineItemDTOs(items),
		Count:  store.Count(),
		Quote:  toQuoteDTO(h.booking.Quote(r.Context(), items)),
	})
}
