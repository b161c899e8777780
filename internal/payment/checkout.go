package payment

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/catering-ecom/internal/gateway"
	"github.com/MikeMC777/catering-ecom/internal/order"
	"github.com/MikeMC777/catering-ecom/internal/product"
	"github.com/MikeMC777/catering-ecom/internal/user"
)

// DefaultPhone is sent when the customer has no phone on file.
const DefaultPhone = "081234567890"

var (
	ErrMissingOrderID = errors.New("order_id is required")
	ErrAlreadyPaid    = errors.New("order is already paid")
	ErrNotOwner       = errors.New("order belongs to another customer")
)

// Gateway is the part of the payment gateway Checkout depends on.
type Gateway interface {
	CreateTransaction(ctx context.Context, req gateway.TransactionRequest) (*gateway.TransactionToken, error)
	Status(ctx context.Context, orderID string) (*gateway.StatusResponse, error)
}

type Checkout struct {
	Orders   order.Repository
	Users    user.Repository
	Products product.Repository
	Gateway  Gateway
	// BaseURL is the storefront origin used for the finish/unfinish/error callbacks.
	BaseURL string
}

// OrderSummary is the denormalized order view returned with a token.
type OrderSummary struct {
	ID           string          `json:"id"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	CustomerName string          `json:"customer_name"`
	ProductName  string          `json:"product_name"`
}

type TokenResult struct {
	Token       string       `json:"token"`
	RedirectURL string       `json:"redirect_url"`
	Order       OrderSummary `json:"order"`
}

// CreateToken requests a checkout token for orderID on behalf of requester.
// A nil requester skips the ownership check. Paid orders are refused before
// the gateway is contacted, and no payment row is written here.
func (c *Checkout) CreateToken(ctx context.Context, orderID string, requester *user.User) (*TokenResult, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, ErrMissingOrderID
	}
	o, err := c.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if requester != nil && !requester.IsAdmin() && o.UserID != requester.ID {
		return nil, ErrNotOwner
	}
	if o.PaymentStatus == order.PaymentPaid {
		return nil, ErrAlreadyPaid
	}
	customer, err := c.Users.GetByID(ctx, o.UserID)
	if err != nil {
		return nil, fmt.Errorf("load customer for order %s: %w", orderID, err)
	}
	p, err := c.Products.GetByID(ctx, o.ProductID)
	if err != nil {
		return nil, fmt.Errorf("load product for order %s: %w", orderID, err)
	}

	tok, err := c.Gateway.CreateTransaction(ctx, c.transactionRequest(o, customer, p))
	if err != nil {
		return nil, fmt.Errorf("create payment token for order %s: %w", orderID, err)
	}
	return &TokenResult{
		Token:       tok.Token,
		RedirectURL: tok.RedirectURL,
		Order: OrderSummary{
			ID:           o.ID,
			TotalAmount:  o.TotalAmount,
			CustomerName: customer.Name,
			ProductName:  p.Name,
		},
	}, nil
}

// CheckStatus returns the gateway's view of orderID. It never writes.
func (c *Checkout) CheckStatus(ctx context.Context, orderID string) (*gateway.StatusResponse, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, ErrMissingOrderID
	}
	st, err := c.Gateway.Status(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("payment status for order %s: %w", orderID, err)
	}
	return st, nil
}

func (c *Checkout) transactionRequest(o *order.Order, u *user.User, p *product.Product) gateway.TransactionRequest {
	first, last := SplitName(u.Name)
	phone := strings.TrimSpace(u.Phone)
	if phone == "" {
		phone = DefaultPhone
	}
	return gateway.TransactionRequest{
		TransactionDetails: gateway.TransactionDetails{
			OrderID:     o.ID,
			GrossAmount: o.TotalAmount.Round(0).IntPart(),
		},
		CustomerDetails: gateway.CustomerDetails{
			FirstName: first,
			LastName:  last,
			Email:     u.Email,
			Phone:     phone,
		},
		ItemDetails: []gateway.ItemDetail{lineItem(o, p)},
		Callbacks:   c.callbacks(o.ID),
	}
}

// lineItem prices the booking so that price × quantity equals the order
// total, which the gateway requires. A total that does not divide evenly
// is sent as a single line.
func lineItem(o *order.Order, p *product.Product) gateway.ItemDetail {
	total := o.TotalAmount.Round(0)
	item := gateway.ItemDetail{
		ID:       p.ID,
		Price:    total.IntPart(),
		Quantity: 1,
		Name:     truncate(p.Name, 50),
		Category: p.Category,
	}
	if o.Quantity > 1 {
		qty := decimal.NewFromInt(int64(o.Quantity))
		unit := total.Div(qty)
		if unit.Equal(unit.Truncate(0)) {
			item.Price = unit.IntPart()
			item.Quantity = o.Quantity
		}
	}
	return item
}

func (c *Checkout) callbacks(orderID string) gateway.Callbacks {
	q := "?order_id=" + url.QueryEscape(orderID)
	base := strings.TrimRight(c.BaseURL, "/")
	return gateway.Callbacks{
		Finish:   base + "/payment/finish" + q,
		Unfinish: base + "/payment/unfinish" + q,
		Error:    base + "/payment/error" + q,
	}
}

// SplitName splits a full name into first name and the remainder.
func SplitName(full string) (first, last string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "Customer", ""
	case 1:
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
