package httpx

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/foodcart/internal/cart"
	"github.com/jcmexdev/foodcart/internal/core/domain"
	"github.com/jcmexdev/foodcart/internal/httpx/middlewares"
)

// store returns the caller's cart session, writing the error response when
// it cannot be loaded.
func (h *Handler) store(w http.ResponseWriter, r *http.Request) (*cart.Store, bool) {
	st, err := h.sessions.Get(r.Context(), middlewares.UserID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	return st, true
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	st, ok := h.store(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, mapCart(st.Snapshot()))
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.MenuItemID == "" {
		writeError(w, http.StatusBadRequest, "invalid_input", "menu_item_id is required")
		return
	}

	st, ok := h.store(w, r)
	if !ok {
		return
	}
	item, err := h.catalog.GetMenuItem(r.Context(), req.MenuItemID)
	if err != nil {
		if !errors.Is(err, domain.ErrMenuItemNotFound) {
			err = domain.RemoteError("get menu item", err)
		}
		h.fail(w, r, err)
		return
	}

	if err := st.AddToCart(r.Context(), *item, req.Quantity); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(st.Snapshot()))
}

func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	st, ok := h.store(w, r)
	if !ok {
		return
	}
	if err := st.UpdateQuantity(r.Context(), chi.URLParam(r, "menuItemID"), req.Delta); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(st.Snapshot()))
}

func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	st, ok := h.store(w, r)
	if !ok {
		return
	}
	if err := st.RemoveFromCart(r.Context(), chi.URLParam(r, "menuItemID")); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(st.Snapshot()))
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	st, ok := h.store(w, r)
	if !ok {
		return
	}
	if err := st.ClearCart(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(st.Snapshot()))
}

// EndSession drops the caller's session state. The cart rows stay in the
// record store; the promo discount does not.
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	h.sessions.End(middlewares.UserID(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ApplyPromo(w http.ResponseWriter, r *http.Request) {
	var req PromoRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	st, ok := h.store(w, r)
	if !ok {
		return
	}
	amount, err := st.ApplyPromo(req.Code, h.promos)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PromoResponse{
		Discount: cart.FormatAmount(amount),
		Cart:     mapCart(st.Snapshot()),
	})
}
