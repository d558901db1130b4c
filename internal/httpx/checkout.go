package httpx

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/foodcart/internal/core/domain"
	"github.com/jcmexdev/foodcart/internal/httpx/middlewares"
)

// inFlight marks an idempotency key whose checkout has not finished yet.
const inFlight = "in-flight"

const headerReplayed = "Idempotent-Replayed"

// Checkout places the caller's cart. With an X-Idempotency-Key and a cache
// configured, a repeated request gets the first reply back instead of a
// second order.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middlewares.UserID(ctx)

	var req CheckoutRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	method, err := domain.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	st, ok := h.store(w, r)
	if !ok {
		return
	}

	cacheKey, taken := h.reserve(ctx, userID)
	if taken {
		h.replay(w, r, cacheKey)
		return
	}

	res, err := h.checkout.Checkout(ctx, st, method)
	if err != nil {
		h.forget(ctx, cacheKey)
		h.fail(w, r, err)
		return
	}
	if res == nil {
		h.forget(ctx, cacheKey)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	resp := mapCheckout(res)
	h.remember(ctx, cacheKey, resp)
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) ResumeCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	res, err := h.checkout.Resume(ctx, middlewares.UserID(ctx), chi.URLParam(r, "orderID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCheckout(res))
}

func (h *Handler) cacheKey(ctx context.Context, userID string) string {
	key := middlewares.IdempotencyKey(ctx)
	if key == "" || h.cache == nil {
		return ""
	}
	return h.cache.GenerateKey("checkout", userID+":"+key)
}

// reserve claims the request's idempotency key. It returns "" when there is
// nothing to track, and taken when an earlier request owns the key. An
// unreachable cache degrades to no idempotency.
func (h *Handler) reserve(ctx context.Context, userID string) (key string, taken bool) {
	key = h.cacheKey(ctx, userID)
	if key == "" {
		return "", false
	}
	ok, err := h.cache.Reserve(ctx, key, inFlight, h.idempotencyTTL)
	if err != nil {
		slog.WarnContext(ctx, "idempotency cache unavailable", "error", err)
		return "", false
	}
	return key, !ok
}

func (h *Handler) replay(w http.ResponseWriter, r *http.Request, key string) {
	val, err := h.cache.Get(r.Context(), key)
	if err != nil {
		h.fail(w, r, domain.RemoteError("read idempotency cache", err))
		return
	}
	if val == "" || val == inFlight {
		writeError(w, http.StatusConflict, domain.KindConflict.String(), "a request with this idempotency key is still running")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(headerReplayed, "true")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write([]byte(val))
}

func (h *Handler) remember(ctx context.Context, key string, resp CheckoutResponse) {
	if key == "" {
		return
	}
	body, err := json.Marshal(resp)
	if err == nil {
		err = h.cache.Set(ctx, key, string(body), h.idempotencyTTL)
	}
	if err != nil {
		slog.WarnContext(ctx, "failed to store checkout reply", "order_id", resp.OrderID, "error", err)
	}
}

func (h *Handler) forget(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := h.cache.Delete(context.WithoutCancel(ctx), key); err != nil {
		slog.WarnContext(ctx, "failed to release idempotency key", "error", err)
	}
}
