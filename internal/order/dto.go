package order

import (
	"fmt"
	"time"
)

// CreateOrderRequest payload de creación de reserva.
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	ProductID string `json:"product_id" binding:"required"       example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	Quantity  int    `json:"quantity"   binding:"required,min=1" example:"2"`
	EventDate string `json:"event_date" binding:"required"       example:"2026-12-24"`
	EventTime string `json:"event_time" binding:"required"       example:"18:30"`
	Notes     string `json:"notes"                               example:"No peanuts"`
}

// UpdateStatusRequest payload for admin status changes.
// swagger:model UpdateStatusRequest
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required" example:"preparing"`
}

// EventSchedule validates the event date (YYYY-MM-DD) and time (HH:MM).
func (r CreateOrderRequest) EventSchedule() (time.Time, string, error) {
	d, err := time.Parse("2006-01-02", r.EventDate)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid event_date %q", r.EventDate)
	}
	if _, err := time.Parse("15:04", r.EventTime); err != nil {
		return time.Time{}, "", fmt.Errorf("invalid event_time %q", r.EventTime)
	}
	return d, r.EventTime, nil
}
