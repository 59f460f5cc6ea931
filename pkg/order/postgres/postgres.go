package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"lessonshop/pkg/order"
)

// Schema creates the orders table. Each row keeps the full order as JSONB.
const Schema = `CREATE TABLE IF NOT EXISTS orders (
	id TEXT PRIMARY KEY,
	doc JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	seq BIGSERIAL
)`

// Repository persists orders in PostgreSQL.
type Repository struct {
	db *sql.DB
}

// New creates a PostgreSQL repository.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new order under a generated ID.
func (r *Repository) Create(ctx context.Context, o order.Order) (string, error) {
	o.ID = uuid.NewString()
	doc, err := json.Marshal(o)
	if err != nil {
		return "", fmt.Errorf("encode order: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, "INSERT INTO orders (id,doc,created_at) VALUES ($1,$2,$3)", o.ID, doc, o.CreatedAt); err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}
	return o.ID, nil
}

// List fetches all orders in creation order.
func (r *Repository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id,doc FROM orders ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()
	orders := []order.Order{}
	for rows.Next() {
		var (
			id  string
			doc []byte
			o   order.Order
		)
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if err := json.Unmarshal(doc, &o); err != nil {
			return nil, fmt.Errorf("decode order %s: %w", id, err)
		}
		o.ID = id
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
