package middlewares

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/foodcart/internal/pkg/interceptors/constants"
)

// AttachRequestMetadata copies the chi request id and the caller's
// idempotency key into the request context.
func AttachRequestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())
		idempotencyKey := r.Header.Get(constants.HeaderXIdempotencyKey)

		ctx := context.WithValue(r.Context(), constants.ContextKeyRequestID, requestID)
		ctx = context.WithValue(ctx, constants.ContextKeyIdempotencyKey, idempotencyKey)
		if requestID != "" {
			w.Header().Set(constants.HeaderXRequestId, requestID)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func IdempotencyKey(ctx context.Context) string {
	key, _ := ctx.Value(constants.ContextKeyIdempotencyKey).(string)
	return key
}
