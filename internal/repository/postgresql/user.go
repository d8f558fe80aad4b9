package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"

	"github.com/pupkingeorgij/proofbot/internal/db"
	"github.com/pupkingeorgij/proofbot/internal/repository"
	"github.com/pupkingeorgij/proofbot/internal/storage"
)

type UserRepo struct {
	db db.DB
}

func NewUserRepo(db db.DB) storage.UserRepository {
	return &UserRepo{db: db}
}

func (r *UserRepo) GetByID(ctx context.Context, userID int64) (*repository.UserProfile, error) {
	var profile repository.UserProfile
	err := r.db.Get(ctx, &profile, "SELECT * FROM users WHERE user_id = $1", userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// UpsertAfterOrder creates the profile on first contact and on every
// call increments the lifetime order count and prepends orderNumber to
// the capped recent-order list.
func (r *UserRepo) UpsertAfterOrder(ctx context.Context, userID int64, displayName, orderNumber string) error {
	recent := ""
	profile, err := r.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrObjectNotFound) {
		return fmt.Errorf("failed to load profile for user %d: %w", userID, err)
	}
	if profile != nil {
		recent = profile.RecentOrders
	}

	recent = repository.PrependRecent(recent, orderNumber)

	_, err = r.db.Exec(ctx, `
        INSERT INTO users (user_id, display_name, orders_count, recent_orders)
        VALUES ($1, $2, 1, $3)
        ON CONFLICT (user_id) DO UPDATE
        SET display_name = EXCLUDED.display_name,
            orders_count = users.orders_count + 1,
            recent_orders = EXCLUDED.recent_orders
    `, userID, displayName, recent)
	if err != nil {
		return fmt.Errorf("failed to upsert profile for user %d: %w", userID, err)
	}
	return nil
}
