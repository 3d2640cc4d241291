// Package queue defines message payloads exchanged over the message broker.
package queue

// PurchaseCompletedEvent is published after a checkout succeeds. It
// carries enough information for downstream consumers to log, notify
// or feed analytics without reading the primary store.
type PurchaseCompletedEvent struct {
	UserID      string   `json:"user_id"`
	PurchaseIDs []string `json:"purchase_ids"`
	ProductIDs  []string `json:"product_ids"`
	ItemCount   int      `json:"item_count"`
	Total       float64  `json:"total"`
	CompletedAt string   `json:"completed_at"`
}
