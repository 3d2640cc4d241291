package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/ecofinds-market/internal/model"
	"github.com/iliyamo/ecofinds-market/internal/store"
	"github.com/iliyamo/ecofinds-market/internal/utils"
)

// DemoEmail and DemoPassword identify the seeded demo account.
const (
	DemoEmail    = "demo@ecofinds.com"
	DemoPassword = "ecofinds-demo"
)

// Seed loads a demo user and a small demo catalog into an empty
// store. It is a no-op when the users collection already holds any
// record, so restarting the server never duplicates the data.
func Seed(ctx context.Context, s store.Store, bcryptCost int) error {
	raw, err := s.Read(ctx, store.KeyUsers)
	if err != nil {
		return err
	}
	if len(raw) > 0 {
		return nil
	}

	hash, err := utils.PasswordHasher{Cost: bcryptCost}.Hash(DemoPassword)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	demo := model.User{
		ID:           uuid.NewString(),
		Email:        DemoEmail,
		Username:     "EcoEnthusiast",
		PasswordHash: hash,
		AvatarURL:    "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=150&h=150&fit=crop&crop=face",
		CreatedAt:    now,
	}
	users, err := json.Marshal([]model.User{demo})
	if err != nil {
		return err
	}
	if err := s.Write(ctx, store.KeyUsers, users); err != nil {
		return err
	}

	day := 24 * time.Hour
	catalog := []model.Product{
		{
			ID:          uuid.NewString(),
			OwnerID:     demo.ID,
			Title:       "Vintage MacBook Pro 2019",
			Description: "Well-maintained MacBook Pro with original charger. Perfect for students or remote work. Has some minor scratches but fully functional.",
			Category:    "Electronics",
			Price:       899,
			ImageURL:    "https://images.unsplash.com/photo-1496181133206-80ce9b88a853?w=500&h=400&fit=crop",
			CreatedAt:   now.Add(-2 * day),
		},
		{
			ID:          uuid.NewString(),
			OwnerID:     demo.ID,
			Title:       "Sustainable Cotton Jacket",
			Description: "Organic cotton jacket from Patagonia. Size M. Barely worn, perfect condition. Great for outdoor activities.",
			Category:    "Clothing",
			Price:       65,
			ImageURL:    "https://images.unsplash.com/photo-1551698618-1dfe5d97d256?w=500&h=400&fit=crop",
			CreatedAt:   now.Add(-5 * day),
		},
		{
			ID:          uuid.NewString(),
			OwnerID:     demo.ID,
			Title:       "Collection of Programming Books",
			Description: "Set of 5 programming books including Clean Code, Design Patterns, and more. Great condition, no highlighting.",
			Category:    "Books",
			Price:       45,
			ImageURL:    "https://images.unsplash.com/photo-1481627834876-b7833e8f5570?w=500&h=400&fit=crop",
			CreatedAt:   now.Add(-7 * day),
		},
		{
			ID:          uuid.NewString(),
			OwnerID:     demo.ID,
			Title:       "Ergonomic Office Chair",
			Description: "Herman Miller Aeron chair replica. Very comfortable, adjustable height and lumbar support. Minor wear on armrests.",
			Category:    "Furniture",
			Price:       275,
			ImageURL:    "https://images.unsplash.com/photo-1586023492125-27b2c045efd7?w=500&h=400&fit=crop",
			CreatedAt:   now.Add(-10 * day),
		},
	}
	products, err := json.Marshal(catalog)
	if err != nil {
		return err
	}
	return s.Write(ctx, store.KeyProducts, products)
}
