// Package memory implements an in-memory order repository.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"lessonshop/pkg/order"
)

// Repository provides an in-memory implementation of order.Repository.
type Repository struct {
	mu     sync.RWMutex
	orders []order.Order
}

// New creates a new in-memory repository.
func New() *Repository {
	return &Repository{}
}

// Create stores the order under a freshly generated ID.
func (r *Repository) Create(ctx context.Context, o order.Order) (string, error) {
	o.ID = uuid.NewString()
	o.Cart = append([]order.CartItem(nil), o.Cart...)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, o)
	return o.ID, nil
}

// List returns all orders in creation order.
func (r *Repository) List(ctx context.Context) ([]order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]order.Order, len(r.orders))
	copy(out, r.orders)
	return out, nil
}

// Len reports the number of stored orders.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders)
}
