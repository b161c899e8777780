package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/catering-ecom/internal/product"
)

var ErrInvalidOrder = errors.New("invalid order")

// Placer books catering packages. The total is always derived from the
// current product price, never taken from the client.
type Placer struct {
	Orders   Repository
	Products product.Repository
}

func (p *Placer) Place(ctx context.Context, userID string, req CreateOrderRequest) (*Order, error) {
	if req.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidOrder)
	}
	date, at, err := req.EventSchedule()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}
	prod, err := p.Products.GetByID(ctx, strings.TrimSpace(req.ProductID))
	if err != nil {
		return nil, err
	}
	o := &Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		ProductID:     prod.ID,
		Quantity:      req.Quantity,
		EventDate:     date,
		EventTime:     at,
		TotalAmount:   prod.Price.Mul(decimal.NewFromInt(int64(req.Quantity))),
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
		Notes:         strings.TrimSpace(req.Notes),
	}
	if err := p.Orders.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}
