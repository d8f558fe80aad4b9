package repository

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrObjectNotFound = errors.New("not found")

// RecentOrdersCap bounds the per-user recent order list; the oldest
// entry is evicted on overflow.
const RecentOrdersCap = 5

type UserProfile struct {
	UserID       int64  `db:"user_id"`
	DisplayName  string `db:"display_name"`
	OrdersCount  int    `db:"orders_count"`
	RecentOrders string `db:"recent_orders"`
}

// RecentOrderList splits the stored delimited list, most recent first.
func (p *UserProfile) RecentOrderList() []string {
	if p.RecentOrders == "" {
		return nil
	}
	return strings.Split(p.RecentOrders, ",")
}

// PrependRecent puts orderNumber at the head of the delimited list and
// evicts entries past RecentOrdersCap.
func PrependRecent(existing, orderNumber string) string {
	items := []string{orderNumber}
	if existing != "" {
		items = append(items, strings.Split(existing, ",")...)
	}
	if len(items) > RecentOrdersCap {
		items = items[:RecentOrdersCap]
	}
	return strings.Join(items, ",")
}

type OrderRecord struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	OrderNumber string    `db:"order_number"`
	Success     bool      `db:"success"`
	Comment     string    `db:"comment"`
	CreatedAt   time.Time `db:"created_at"`
}

type TaskStatus string

const (
	TaskStatusCreated TaskStatus = "CREATED"
	TaskStatusFailed  TaskStatus = "FAILED"
	TaskStatusDone    TaskStatus = "DONE"
)

// ReportTask is an outbox row for a finalized submission report that
// still has to be published to the event topic.
type ReportTask struct {
	ID          uuid.UUID       `db:"id"`
	Status      TaskStatus      `db:"status"`
	Payload     json.RawMessage `db:"payload"`
	Attempts    int             `db:"attempts"`
	LastError   *string         `db:"last_error"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
	CompletedAt *time.Time      `db:"completed_at"`
}

type ReportPayload struct {
	UserID      int64     `json:"user_id"`
	DisplayName string    `json:"display_name,omitempty"`
	OrderNumber string    `json:"order_number"`
	Success     bool      `json:"success"`
	Comment     string    `json:"comment,omitempty"`
	Address     string    `json:"address,omitempty"`
	ReportedAt  time.Time `json:"reported_at"`
}
