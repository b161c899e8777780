package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the fulfilment state of a booking.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusDelivered Status = "delivered"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var statuses = []Status{
	StatusPending, StatusConfirmed, StatusPreparing,
	StatusDelivered, StatusCompleted, StatusCancelled,
}

func ParseStatus(s string) (Status, error) {
	for _, st := range statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", s)
}

// PaymentStatus is the order-level view of the payment.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return PaymentStatus(s), nil
	}
	return "", fmt.Errorf("invalid payment status %q", s)
}

type Order struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	ProductID     string          `json:"product_id"`
	Quantity      int             `json:"quantity"`
	EventDate     time.Time       `json:"event_date"`
	EventTime     string          `json:"event_time"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        Status          `json:"status"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Filter narrows admin listings: equality on the status fields and a
// case-insensitive substring match on id and notes.
type Filter struct {
	Status        Status
	PaymentStatus PaymentStatus
	Q             string
}

func (f Filter) Match(o Order) bool {
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.PaymentStatus != "" && o.PaymentStatus != f.PaymentStatus {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Q)); q != "" {
		if !strings.Contains(strings.ToLower(o.ID), q) && !strings.Contains(strings.ToLower(o.Notes), q) {
			return false
		}
	}
	return true
}

func (f Filter) Apply(in []Order) []Order {
	out := make([]Order, 0, len(in))
	for _, o := range in {
		if f.Match(o) {
			out = append(out, o)
		}
	}
	return out
}
