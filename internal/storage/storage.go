//go:generate mockgen -source ./storage.go -destination=./mocks/storage.go -package=mock_storage
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pupkingeorgij/proofbot/internal/repository"
)

type UserRepository interface {
	GetByID(ctx context.Context, userID int64) (*repository.UserProfile, error)
	UpsertAfterOrder(ctx context.Context, userID int64, displayName, orderNumber string) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *repository.OrderRecord) error
	GetByUserID(ctx context.Context, userID int64, limit int) ([]*repository.OrderRecord, error)
}

type ReportTaskRepository interface {
	Create(ctx context.Context, task *repository.ReportTask) error
	GetProcessable(ctx context.Context, maxAttempts, limit int) ([]*repository.ReportTask, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status repository.TaskStatus, attempts int, lastError *string, completedAt *time.Time) error
}

// CompletedOrder is everything the store has to record once a
// submission reaches its terminal state.
type CompletedOrder struct {
	UserID      int64
	DisplayName string
	OrderNumber string
	Success     bool
	Comment     string
	Address     string
}

type PostgresStorage struct {
	userRepo   UserRepository
	orderRepo  OrderRepository
	reportRepo ReportTaskRepository
}

func NewPostgresStorage(userRepo UserRepository, orderRepo OrderRepository, reportRepo ReportTaskRepository) *PostgresStorage {
	return &PostgresStorage{
		userRepo:   userRepo,
		orderRepo:  orderRepo,
		reportRepo: reportRepo,
	}
}

// ApplyCompletedOrder updates the user profile, appends the immutable
// order record and enqueues the report event for the outbox publisher.
func (s *PostgresStorage) ApplyCompletedOrder(ctx context.Context, co CompletedOrder) error {
	if err := s.userRepo.UpsertAfterOrder(ctx, co.UserID, co.DisplayName, co.OrderNumber); err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}

	now := time.Now().UTC()
	order := &repository.OrderRecord{
		UserID:      co.UserID,
		OrderNumber: co.OrderNumber,
		Success:     co.Success,
		Comment:     co.Comment,
		CreatedAt:   now,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return fmt.Errorf("failed to insert order record: %w", err)
	}

	payload, err := json.Marshal(repository.ReportPayload{
		UserID:      co.UserID,
		DisplayName: co.DisplayName,
		OrderNumber: co.OrderNumber,
		Success:     co.Success,
		Comment:     co.Comment,
		Address:     co.Address,
		ReportedAt:  now,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal report payload: %w", err)
	}

	if err := s.reportRepo.Create(ctx, &repository.ReportTask{Payload: payload}); err != nil {
		return fmt.Errorf("failed to enqueue report task: %w", err)
	}
	return nil
}

func (s *PostgresStorage) Profile(ctx context.Context, userID int64) (*repository.UserProfile, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *PostgresStorage) UserOrders(ctx context.Context, userID int64, lastN int) ([]*repository.OrderRecord, error) {
	return s.orderRepo.GetByUserID(ctx, userID, lastN)
}
