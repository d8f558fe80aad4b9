package ops

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pupkingeorgij/proofbot/internal/repository"
)

type fakeStorage struct {
	profile *repository.UserProfile
	orders  []*repository.OrderRecord
	err     error
}

func (f *fakeStorage) Profile(_ context.Context, _ int64) (*repository.UserProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.profile == nil {
		return nil, repository.ErrObjectNotFound
	}
	return f.profile, nil
}

func (f *fakeStorage) UserOrders(_ context.Context, _ int64, _ int) ([]*repository.OrderRecord, error) {
	return f.orders, nil
}

func doRequest(t *testing.T, storage Storage, path string) *httptest.ResponseRecorder {
	t.Helper()
	server := New(storage)
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	server.routes().ServeHTTP(w, req)
	return w
}

func TestHandleHealth(t *testing.T) {
	w := doRequest(t, &fakeStorage{}, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHandleUserOrders(t *testing.T) {
	t.Run("known user", func(t *testing.T) {
		storage := &fakeStorage{
			profile: &repository.UserProfile{
				UserID:       42,
				DisplayName:  "Test Worker",
				OrdersCount:  6,
				RecentOrders: "600,500,400,300,200",
			},
			orders: []*repository.OrderRecord{{ID: 6, UserID: 42, OrderNumber: "600"}},
		}

		w := doRequest(t, storage, "/users/42/orders")
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			UserID       int64    `json:"user_id"`
			OrdersCount  int      `json:"orders_count"`
			RecentOrders []string `json:"recent_orders"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, int64(42), body.UserID)
		assert.Equal(t, 6, body.OrdersCount)
		assert.Equal(t, []string{"600", "500", "400", "300", "200"}, body.RecentOrders)
	})

	t.Run("unknown user", func(t *testing.T) {
		w := doRequest(t, &fakeStorage{}, "/users/42/orders")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		w := doRequest(t, &fakeStorage{}, "/users/abc/orders")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("storage failure", func(t *testing.T) {
		w := doRequest(t, &fakeStorage{err: errors.New("database error")}, "/users/42/orders")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
