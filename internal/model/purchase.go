package model

import "time"

// Purchase is one completed transaction line in the append-only
// `purchases` ledger. PriceAtPurchase is a snapshot of the catalog
// price at checkout time and is never recomputed afterwards; ledger
// entries are never mutated or deleted.
//
// Fields:
//  ID              – unique identifier of the ledger entry.
//  UserID          – buyer.
//  ProductID       – product that was bought.
//  PriceAtPurchase – catalog price frozen at transaction time.
//  PurchasedAt     – transaction timestamp; drives newest-first ordering.
type Purchase struct {
	ID              string    `json:"id"`                // purchases[].id
	UserID          string    `json:"user_id"`           // purchases[].user_id
	ProductID       string    `json:"product_id"`        // purchases[].product_id
	PriceAtPurchase float64   `json:"price_at_purchase"` // purchases[].price_at_purchase
	PurchasedAt     time.Time `json:"purchased_at"`      // purchases[].purchased_at
}
