package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jcmexdev/foodcart/internal/core/domain"
	"github.com/jcmexdev/foodcart/internal/core/ports"
)

// Catalog is the seed file format.
//
//	{"restaurants": [{"id": "r-1", "name": "Luigi's", "menu": [{"id": "m-1", "name": "Pizza", "price": 10}]}]}
type Catalog struct {
	Restaurants []SeedRestaurant `json:"restaurants"`
}

type SeedRestaurant struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	ImageURL    string         `json:"image_url"`
	Menu        []SeedMenuItem `json:"menu"`
}

type SeedMenuItem struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	ImageURL   string  `json:"image_url"`
	Vegetarian bool    `json:"vegetarian"`
}

// SeedCatalog upserts every restaurant and menu item read from r and returns
// how many menu items were written.
func SeedCatalog(ctx context.Context, repo ports.CatalogRepository, r io.Reader) (int, error) {
	var c Catalog
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return 0, fmt.Errorf("store: decode catalog: %w", err)
	}

	var n int
	for _, rs := range c.Restaurants {
		if rs.ID == "" {
			return n, fmt.Errorf("store: restaurant %q has no id", rs.Name)
		}
		err := repo.UpsertRestaurant(ctx, domain.Restaurant{
			ID:          rs.ID,
			Name:        rs.Name,
			Description: rs.Description,
			ImageURL:    rs.ImageURL,
		})
		if err != nil {
			return n, fmt.Errorf("store: seed restaurant %s: %w", rs.ID, err)
		}

		for _, m := range rs.Menu {
			err := repo.UpsertMenuItem(ctx, domain.MenuItem{
				ID:           m.ID,
				RestaurantID: rs.ID,
				Name:         m.Name,
				Price:        m.Price,
				ImageURL:     m.ImageURL,
				Vegetarian:   m.Vegetarian,
			})
			if err != nil {
				return n, fmt.Errorf("store: seed menu item %s: %w", m.ID, err)
			}
			n++
		}
	}
	return n, nil
}
