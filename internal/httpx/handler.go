// Package httpx is the REST surface of the cart service.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/jcmexdev/foodcart/internal/cart"
	"github.com/jcmexdev/foodcart/internal/checkout"
	"github.com/jcmexdev/foodcart/internal/core/domain"
	"github.com/jcmexdev/foodcart/internal/core/ports"
	"github.com/jcmexdev/foodcart/internal/orders"
	"github.com/jcmexdev/foodcart/internal/pkg/cache"
	"github.com/jcmexdev/foodcart/internal/pkg/keylock"
)

// Deps are the collaborators of Handler. Cache may be nil, which disables
// idempotent replay of checkouts.
type Deps struct {
	Sessions       *cart.Sessions
	Catalog        ports.CatalogRepository
	Profiles       ports.ProfileRepository
	Promos         cart.PromoBook
	Checkout       *checkout.Orchestrator
	Orders         *orders.Lifecycle
	Ratings        *orders.RatingGate
	Cache          cache.Cache
	IdempotencyTTL time.Duration
}

type Handler struct {
	sessions       *cart.Sessions
	catalog        ports.CatalogRepository
	profiles       ports.ProfileRepository
	promos         cart.PromoBook
	checkout       *checkout.Orchestrator
	orders         *orders.Lifecycle
	ratings        *orders.RatingGate
	cache          cache.Cache
	idempotencyTTL time.Duration
	profileLocks   *keylock.Locker
}

func NewHandler(d Deps) *Handler {
	if d.Promos == nil {
		d.Promos = cart.DefaultPromoBook()
	}
	if d.IdempotencyTTL <= 0 {
		d.IdempotencyTTL = 24 * time.Hour
	}
	return &Handler{
		sessions:       d.Sessions,
		catalog:        d.Catalog,
		profiles:       d.Profiles,
		promos:         d.Promos,
		checkout:       d.Checkout,
		orders:         d.Orders,
		ratings:        d.Ratings,
		cache:          d.Cache,
		idempotencyTTL: d.IdempotencyTTL,
		profileLocks:   keylock.New(),
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeBody decodes a JSON body. An empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}

// fail maps err onto a status code and a machine readable error code.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	status := statusOf(kind)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "kind", kind.String(), "error", err)
	}

	resp := ErrorResponse{Error: kind.String(), Message: err.Error()}
	var partial *domain.PartialOrderError
	if errors.As(err, &partial) {
		resp.OrderID = partial.OrderID
	}
	writeJSON(w, status, resp)
}

func statusOf(k domain.Kind) int {
	switch k {
	case domain.KindConflictingRestaurant, domain.KindConflict, domain.KindNotAllowed:
		return http.StatusConflict
	case domain.KindQuantityLimitExceeded, domain.KindMissingDeliveryProfile, domain.KindInvalidPromoCode:
		return http.StatusUnprocessableEntity
	case domain.KindInvalidInput:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindPartialOrderFailure, domain.KindRemoteStoreFailure:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
