package model

import "time"

// CartItem is one line in a user's cart, persisted in the
// `cart_items` collection. The (UserID, ProductID) pair is unique:
// re-adding a product increments Quantity on the existing line
// instead of creating a duplicate, and a quantity that drops to zero
// removes the line rather than persisting a zero row.
//
// Fields:
//  ID        – unique identifier of the line.
//  UserID    – owner of the cart line.
//  ProductID – product the line refers to.
//  Quantity  – number of units, always >= 1 while the line exists.
//  AddedAt   – when the line was first created.
type CartItem struct {
	ID        string    `json:"id"`         // cart_items[].id
	UserID    string    `json:"user_id"`    // cart_items[].user_id
	ProductID string    `json:"product_id"` // cart_items[].product_id
	Quantity  int       `json:"quantity"`   // cart_items[].quantity
	AddedAt   time.Time `json:"added_at"`   // cart_items[].added_at
}
