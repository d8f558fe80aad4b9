package postgresql

import (
	"context"
	"fmt"

	"github.com/pupkingeorgij/proofbot/internal/db"
	"github.com/pupkingeorgij/proofbot/internal/repository"
	"github.com/pupkingeorgij/proofbot/internal/storage"
)

type OrderRepo struct {
	db db.DB
}

func NewOrderRepo(db db.DB) storage.OrderRepository {
	return &OrderRepo{db: db}
}

// Create appends a completed-order record. Records are never updated
// or deleted afterwards.
func (r *OrderRepo) Create(ctx context.Context, order *repository.OrderRecord) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO orders (
            user_id, order_number, success, comment, created_at
        ) VALUES ($1, $2, $3, $4, $5)
    `, order.UserID, order.OrderNumber, order.Success, order.Comment, order.CreatedAt)
	return err
}

func (r *OrderRepo) GetByUserID(ctx context.Context, userID int64, limit int) ([]*repository.OrderRecord, error) {
	query := "SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC"
	args := []interface{}{userID}

	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	var orders []*repository.OrderRecord
	err := r.db.Select(ctx, &orders, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders for user %d: %w", userID, err)
	}
	return orders, nil
}
