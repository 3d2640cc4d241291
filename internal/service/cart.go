package service

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/ecofinds-market/internal/model"
	"github.com/iliyamo/ecofinds-market/internal/store"
)

// Cart owns the `cart_items` collection and the append-only
// `purchases` ledger. Each (user, product) pair has at most one cart
// line; a line exists only with quantity >= 1. Checkout converts a
// user's lines into ledger entries and clears the cart in the same
// mutex-guarded cycle, so no reader of this service observes one
// without the other.
type Cart struct {
	store store.Store
	mu    sync.Mutex
}

// NewCart builds the service.
func NewCart(s store.Store) *Cart {
	return &Cart{store: s}
}

// Items returns the user's current cart lines in collection order.
func (s *Cart) Items(ctx context.Context, userID string) ([]model.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.loadItems(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.CartItem, 0, len(items))
	for _, it := range items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

// Add puts qty units of a product into the user's cart. When a line
// for the pair already exists its quantity is incremented; a
// duplicate line is never created. qty values below one count as one.
// Returns the resulting line.
func (s *Cart) Add(ctx context.Context, userID, productID string, qty int) (model.CartItem, error) {
	if qty < 1 {
		qty = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.loadItems(ctx)
	if err != nil {
		return model.CartItem{}, err
	}
	for i := range items {
		if items[i].UserID == userID && items[i].ProductID == productID {
			items[i].Quantity += qty
			if err := s.saveItems(ctx, items); err != nil {
				return model.CartItem{}, err
			}
			return items[i], nil
		}
	}
	line := model.CartItem{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  qty,
		AddedAt:   time.Now().UTC(),
	}
	items = append(items, line)
	if err := s.saveItems(ctx, items); err != nil {
		return model.CartItem{}, err
	}
	return line, nil
}

// Remove deletes the line for the (user, product) pair. Reports false
// when no such line existed; removing an absent line is a no-op.
func (s *Cart) Remove(ctx context.Context, userID, productID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(ctx, userID, productID)
}

// UpdateQuantity overwrites the quantity of an existing line. A
// quantity of zero or less collapses the line to the absent state by
// delegating to remove; a zero row is never persisted. Reports false
// when no line exists for the pair.
func (s *Cart) UpdateQuantity(ctx context.Context, userID, productID string, qty int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if qty <= 0 {
		return s.removeLocked(ctx, userID, productID)
	}
	items, err := s.loadItems(ctx)
	if err != nil {
		return false, err
	}
	for i := range items {
		if items[i].UserID == userID && items[i].ProductID == productID {
			items[i].Quantity = qty
			if err := s.saveItems(ctx, items); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// Clear removes every line belonging to the user. Idempotent.
func (s *Cart) Clear(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked(ctx, userID)
}

// Checkout converts the supplied cart lines into ledger entries
// priced from the supplied catalog snapshot. Lines whose product is
// missing from the snapshot are skipped silently: checkout is best
// effort over what still exists. The new entries are appended to the
// ledger and the user's entire cart is cleared inside one guarded
// cycle. Returns the purchases created by this invocation.
func (s *Cart) Checkout(ctx context.Context, userID string, lines []model.CartItem, catalog []model.Product) ([]model.Purchase, error) {
	byID := make(map[string]model.Product, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	batch := make([]model.Purchase, 0, len(lines))
	for _, line := range lines {
		if line.UserID != userID {
			continue
		}
		p, ok := byID[line.ProductID]
		if !ok {
			continue
		}
		batch = append(batch, model.Purchase{
			ID:              uuid.NewString(),
			UserID:          userID,
			ProductID:       line.ProductID,
			PriceAtPurchase: p.Price,
			PurchasedAt:     now,
		})
	}

	ledger, err := s.loadPurchases(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.savePurchases(ctx, append(ledger, batch...)); err != nil {
		return nil, err
	}
	if err := s.clearLocked(ctx, userID); err != nil {
		return nil, err
	}
	return batch, nil
}

// Purchases returns the user's ledger entries, most recent first.
func (s *Cart) Purchases(ctx context.Context, userID string) ([]model.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ledger, err := s.loadPurchases(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Purchase, 0, len(ledger))
	for _, p := range ledger {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PurchasedAt.After(out[j].PurchasedAt)
	})
	return out, nil
}

func (s *Cart) removeLocked(ctx context.Context, userID, productID string) (bool, error) {
	items, err := s.loadItems(ctx)
	if err != nil {
		return false, err
	}
	kept := items[:0]
	removed := false
	for _, it := range items {
		if it.UserID == userID && it.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	if !removed {
		return false, nil
	}
	if err := s.saveItems(ctx, kept); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Cart) clearLocked(ctx context.Context, userID string) error {
	items, err := s.loadItems(ctx)
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, it := range items {
		if it.UserID != userID {
			kept = append(kept, it)
		}
	}
	return s.saveItems(ctx, kept)
}

func (s *Cart) loadItems(ctx context.Context) ([]model.CartItem, error) {
	raw, err := s.store.Read(ctx, store.KeyCartItems)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var items []model.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Printf("cart: corrupt cart_items collection, starting empty: %v", err)
		return nil, nil
	}
	return items, nil
}

func (s *Cart) saveItems(ctx context.Context, items []model.CartItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.store.Write(ctx, store.KeyCartItems, raw)
}

func (s *Cart) loadPurchases(ctx context.Context) ([]model.Purchase, error) {
	raw, err := s.store.Read(ctx, store.KeyPurchases)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var ledger []model.Purchase
	if err := json.Unmarshal(raw, &ledger); err != nil {
		log.Printf("cart: corrupt purchases collection, starting empty: %v", err)
		return nil, nil
	}
	return ledger, nil
}

func (s *Cart) savePurchases(ctx context.Context, ledger []model.Purchase) error {
	raw, err := json.Marshal(ledger)
	if err != nil {
		return err
	}
	return s.store.Write(ctx, store.KeyPurchases, raw)
}
