package model

import "time"

// Product is a single second-hand listing in the `products`
// collection. A product is created and mutated only by its owner;
// the sold flag flips when a checkout includes the product.
//
// Fields:
//  ID          – unique identifier of the listing.
//  OwnerID     – user who listed the product; must exist at creation.
//  Title       – short listing title.
//  Description – free-form description.
//  Category    – one of the fixed category set (see service.Categories).
//  Price       – asking price, never negative.
//  ImageURL    – optional photo URL.
//  IsSold      – whether the product has been purchased.
//  CreatedAt   – listing timestamp; drives the newest-first ordering.
type Product struct {
	ID          string    `json:"id"`                  // products[].id
	OwnerID     string    `json:"owner_id"`            // products[].owner_id
	Title       string    `json:"title"`               // products[].title
	Description string    `json:"description"`         // products[].description
	Category    string    `json:"category"`            // products[].category
	Price       float64   `json:"price"`               // products[].price
	ImageURL    string    `json:"image_url,omitempty"` // products[].image_url (optional)
	IsSold      bool      `json:"is_sold"`             // products[].is_sold
	CreatedAt   time.Time `json:"created_at"`          // products[].created_at
}
