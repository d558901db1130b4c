package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/foodcart/internal/httpx/middlewares"
)

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.orders.ListOrders(r.Context(), middlewares.UserID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]OrderResponse, len(list))
	for i, o := range list {
		out[i] = mapOrder(o)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetOrder(r.Context(), middlewares.UserID(r.Context()), chi.URLParam(r, "orderID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(*o))
}

// GetRating answers 0 when the order is not rated yet.
func (h *Handler) GetRating(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, orderID := middlewares.UserID(ctx), chi.URLParam(r, "orderID")
	if _, err := h.orders.GetOrder(ctx, userID, orderID); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RatingResponse{
		OrderID: orderID,
		Rating:  h.ratings.CurrentRating(ctx, userID, orderID),
	})
}

func (h *Handler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	var req RatingRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	ctx := r.Context()
	rt, err := h.ratings.SubmitRating(ctx, middlewares.UserID(ctx), chi.URLParam(r, "orderID"), req.Rating)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RatingResponse{OrderID: rt.OrderID, Rating: rt.Value})
}
