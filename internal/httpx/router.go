package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/foodcart/internal/httpx/middlewares"
)

// NewRouter mounts the API. Every route but /healthz runs behind auth.
func NewRouter(handler *Handler, auth func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachRequestMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handler.Health)

	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", handler.GetCart)
			r.Delete("/", handler.ClearCart)
			r.Post("/items", handler.AddToCart)
			r.Patch("/items/{menuItemID}", handler.UpdateQuantity)
			r.Delete("/items/{menuItemID}", handler.RemoveFromCart)
			r.Post("/promo", handler.ApplyPromo)
		})

		r.Delete("/session", handler.EndSession)

		r.Post("/checkout", handler.Checkout)
		r.Post("/checkout/{orderID}/resume", handler.ResumeCheckout)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", handler.ListOrders)
			r.Get("/{orderID}", handler.GetOrder)
			r.Get("/{orderID}/rating", handler.GetRating)
			r.Put("/{orderID}/rating", handler.SubmitRating)
		})

		r.Get("/profile", handler.GetProfile)
		r.Put("/profile", handler.PutProfile)
	})
	return r
}
