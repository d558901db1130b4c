package store

import (
	"github.com/jcmexdev/foodcart/internal/coordinator/sagalog"
	"github.com/jcmexdev/foodcart/internal/core/ports"
)

var (
	_ ports.CartRepository    = (*CartRepository)(nil)
	_ ports.CatalogRepository = (*CatalogRepository)(nil)
	_ ports.ProfileRepository = (*ProfileRepository)(nil)
	_ ports.OrderRepository   = (*OrderRepository)(nil)
	_ ports.RatingRepository  = (*RatingRepository)(nil)
	_ sagalog.Repository      = (*SagaLogRepository)(nil)
)
