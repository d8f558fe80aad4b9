package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_database "github.com/pupkingeorgij/proofbot/internal/db/mocks"
	"github.com/pupkingeorgij/proofbot/internal/repository"
	"github.com/pupkingeorgij/proofbot/internal/repository/postgresql"
)

func TestOrderRepo_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewOrderRepo(mockDB)

		now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
		order := &repository.OrderRecord{
			UserID:      42,
			OrderNumber: "5001",
			Success:     true,
			Comment:     "all good",
			CreatedAt:   now,
		}

		mockDB.EXPECT().Exec(
			gomock.Any(),
			gomock.Any(),
			gomock.Eq(order.UserID),
			gomock.Eq(order.OrderNumber),
			gomock.Eq(order.Success),
			gomock.Eq(order.Comment),
			gomock.Eq(order.CreatedAt),
		).Return(nil, nil)

		err := repo.Create(ctx, order)
		assert.NoError(t, err)
	})

	t.Run("database error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewOrderRepo(mockDB)

		expectedErr := errors.New("database error")
		mockDB.EXPECT().
			Exec(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, expectedErr)

		err := repo.Create(ctx, &repository.OrderRecord{UserID: 42})
		assert.Equal(t, expectedErr, err)
	})
}

func TestOrderRepo_GetByUserID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns most recent first with limit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewOrderRepo(mockDB)

		mockDB.EXPECT().
			Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(int64(42)), gomock.Eq(5)).
			DoAndReturn(func(_ context.Context, dest interface{}, _ string, _ ...interface{}) error {
				orders := dest.(*[]*repository.OrderRecord)
				*orders = []*repository.OrderRecord{
					{ID: 2, UserID: 42, OrderNumber: "5002"},
					{ID: 1, UserID: 42, OrderNumber: "5001"},
				}
				return nil
			})

		orders, err := repo.GetByUserID(ctx, 42, 5)
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, "5002", orders[0].OrderNumber)
	})

	t.Run("no limit omits the argument", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewOrderRepo(mockDB)

		mockDB.EXPECT().
			Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(int64(42))).
			Return(nil)

		_, err := repo.GetByUserID(ctx, 42, 0)
		assert.NoError(t, err)
	})

	t.Run("database error wrapped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewOrderRepo(mockDB)

		mockDB.EXPECT().
			Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("database error"))

		_, err := repo.GetByUserID(ctx, 42, 5)
		assert.ErrorContains(t, err, "failed to get orders")
	})
}
