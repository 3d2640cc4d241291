package service

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/ecofinds-market/internal/model"
	"github.com/iliyamo/ecofinds-market/internal/store"
)

// CategoryAll is the sentinel filter value meaning "no category
// filtering".
const CategoryAll = "All"

// Categories is the fixed set a product may belong to.
var Categories = []string{
	"Electronics",
	"Clothing",
	"Books",
	"Furniture",
	"Home Appliances",
	"Sports",
	"Collectibles",
	"Other",
}

// ValidCategory reports whether c is a member of the fixed set.
func ValidCategory(c string) bool {
	for _, cat := range Categories {
		if cat == c {
			return true
		}
	}
	return false
}

// UserDirectory is the slice of the identity service the catalog
// needs: enough to confirm a product owner exists. Identity
// implements it.
type UserDirectory interface {
	UserExists(ctx context.Context, id string) (bool, error)
}

// Catalog owns the `products` collection. Products are created and
// mutated by their owner; the only cross-service write into the
// catalog is the sold flag flipped through MarkSold at checkout.
type Catalog struct {
	store store.Store
	users UserDirectory
	mu    sync.Mutex
}

// NewCatalog builds the service. users validates owner ids on
// product creation.
func NewCatalog(s store.Store, users UserDirectory) *Catalog {
	return &Catalog{store: s, users: users}
}

// Filter narrows a product listing. The zero value (or CategoryAll)
// applies no filtering.
type Filter struct {
	Category string
	Search   string
}

// NewProduct carries the caller-supplied fields for Create; id,
// created_at and the sold flag are assigned by the service.
type NewProduct struct {
	OwnerID     string  `json:"owner_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
}

// ProductUpdate carries the fields Update may change. Nil pointers
// mean "leave unchanged".
type ProductUpdate struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	ImageURL    *string  `json:"image_url"`
	IsSold      *bool    `json:"is_sold"`
}

// List returns products matching the filter, always sorted newest
// first by creation time. The ordering is part of the contract. An
// empty result is valid, not an error.
func (s *Catalog) List(ctx context.Context, f Filter) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	products, err := s.loadProducts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.Product, 0, len(products))
	search := strings.ToLower(f.Search)
	for _, p := range products {
		if f.Category != "" && f.Category != CategoryAll && p.Category != f.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Get fetches one product by id. Returns nil when the id is unknown;
// absence is an expected outcome, not an error.
func (s *Catalog) Get(ctx context.Context, id string) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	products, err := s.loadProducts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			p := products[i]
			return &p, nil
		}
	}
	return nil, nil
}

// ByOwner returns every product listed by the given user, in
// collection order.
func (s *Catalog) ByOwner(ctx context.Context, ownerID string) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	products, err := s.loadProducts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

// Create validates the fields, assigns id and creation time, and
// persists the new product. The owner must reference an existing
// user; price must not be negative; category must be in the fixed
// set.
func (s *Catalog) Create(ctx context.Context, np NewProduct) (model.Product, error) {
	if np.Price < 0 {
		return model.Product{}, ErrNegativePrice
	}
	if !ValidCategory(np.Category) {
		return model.Product{}, ErrInvalidCategory
	}
	ok, err := s.users.UserExists(ctx, np.OwnerID)
	if err != nil {
		return model.Product{}, err
	}
	if !ok {
		return model.Product{}, ErrUnknownOwner
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	products, err := s.loadProducts(ctx)
	if err != nil {
		return model.Product{}, err
	}
	p := model.Product{
		ID:          uuid.NewString(),
		OwnerID:     np.OwnerID,
		Title:       np.Title,
		Description: np.Description,
		Category:    np.Category,
		Price:       np.Price,
		ImageURL:    np.ImageURL,
		CreatedAt:   time.Now().UTC(),
	}
	products = append(products, p)
	if err := s.saveProducts(ctx, products); err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// Update shallow-merges the given fields into the product and
// persists the result. Returns nil when the id is unknown. Changed
// fields are validated the same way Create validates them.
func (s *Catalog) Update(ctx context.Context, id string, upd ProductUpdate) (*model.Product, error) {
	if upd.Price != nil && *upd.Price < 0 {
		return nil, ErrNegativePrice
	}
	if upd.Category != nil && !ValidCategory(*upd.Category) {
		return nil, ErrInvalidCategory
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	products, err := s.loadProducts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID != id {
			continue
		}
		if upd.Title != nil {
			products[i].Title = *upd.Title
		}
		if upd.Description != nil {
			products[i].Description = *upd.Description
		}
		if upd.Category != nil {
			products[i].Category = *upd.Category
		}
		if upd.Price != nil {
			products[i].Price = *upd.Price
		}
		if upd.ImageURL != nil {
			products[i].ImageURL = *upd.ImageURL
		}
		if upd.IsSold != nil {
			products[i].IsSold = *upd.IsSold
		}
		if err := s.saveProducts(ctx, products); err != nil {
			return nil, err
		}
		p := products[i]
		return &p, nil
	}
	return nil, nil
}

// UpdateOwned is Update with an ownership precondition: the caller
// must own the product or the update fails with ErrForbidden.
func (s *Catalog) UpdateOwned(ctx context.Context, callerID, id string, upd ProductUpdate) (*model.Product, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}
	if existing.OwnerID != callerID {
		return nil, ErrForbidden
	}
	return s.Update(ctx, id, upd)
}

// Delete removes a product. Reports true when a record was removed
// and false when the id was absent.
func (s *Catalog) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	products, err := s.loadProducts(ctx)
	if err != nil {
		return false, err
	}
	kept := products[:0]
	removed := false
	for _, p := range products {
		if p.ID == id {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	if !removed {
		return false, nil
	}
	if err := s.saveProducts(ctx, kept); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteOwned is Delete with an ownership precondition enforced the
// same way as UpdateOwned.
func (s *Catalog) DeleteOwned(ctx context.Context, callerID, id string) (bool, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}
	if existing.OwnerID != callerID {
		return false, ErrForbidden
	}
	return s.Delete(ctx, id)
}

// MarkSold flips the sold flag on a product. It exists so the
// checkout coordinator can name the one cross-service write into the
// catalog explicitly. Unknown ids are ignored.
func (s *Catalog) MarkSold(ctx context.Context, id string) error {
	sold := true
	_, err := s.Update(ctx, id, ProductUpdate{IsSold: &sold})
	return err
}

func (s *Catalog) loadProducts(ctx context.Context) ([]model.Product, error) {
	raw, err := s.store.Read(ctx, store.KeyProducts)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var products []model.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		log.Printf("catalog: corrupt products collection, starting empty: %v", err)
		return nil, nil
	}
	return products, nil
}

func (s *Catalog) saveProducts(ctx context.Context, products []model.Product) error {
	raw, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return s.store.Write(ctx, store.KeyProducts, raw)
}
