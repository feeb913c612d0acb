package catalog

import (
	"github.com/shopspring/decimal"

	"goflare.io/atelier/models"
)

// DefaultProducts is the launch collection used to seed an empty catalog.
func DefaultProducts() []*models.Product {
	return []*models.Product{
		{
			ID:          "macrame-wall-hanging",
			Title:       "Macramé Wall Hanging",
			Description: "Handwoven cotton macramé with natural wood accent. Adds texture and warmth to any space.",
			Image:       "/assets/product-macrame-wall.jpg",
			Images:      []string{"/assets/product-macrame-wall.jpg"},
			Price:       decimal.NewFromInt(45),
			Category:    "Wall Art",
			Active:      true,
		},
		{
			ID:          "ceramic-planter",
			Title:       "Ceramic Planter Set",
			Description: "Hand-painted terracotta planters in earthy tones. Perfect for your favorite greenery.",
			Image:       "/assets/product-ceramic-planter.jpg",
			Images:      []string{"/assets/product-ceramic-planter.jpg"},
			Price:       decimal.NewFromInt(38),
			Category:    "Home Decor",
			Active:      true,
		},
		{
			ID:          "woven-basket",
			Title:       "Woven Storage Basket",
			Description: "Natural seagrass basket with organic patterns. Functional art for mindful living.",
			Image:       "/assets/product-woven-basket.jpg",
			Images:      []string{"/assets/product-woven-basket.jpg"},
			Price:       decimal.NewFromInt(32),
			Category:    "Storage",
			Active:      true,
		},
		{
			ID:          "canvas-art",
			Title:       "Abstract Canvas Art",
			Description: "Original painting on canvas featuring warm desert tones and organic shapes.",
			Image:       "/assets/product-canvas-art.jpg",
			Images:      []string{"/assets/product-canvas-art.jpg"},
			Price:       decimal.NewFromInt(65),
			Category:    "Wall Art",
			Active:      true,
		},
	}
}
