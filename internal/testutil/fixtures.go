package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/catering-ecom/internal/gateway"
	"github.com/MikeMC777/catering-ecom/internal/order"
	"github.com/MikeMC777/catering-ecom/internal/product"
	"github.com/MikeMC777/catering-ecom/internal/user"
)

// SeedCustomer inserts a customer without a password.
func SeedCustomer(t *testing.T, s *Store, name, email string) *user.User {
	t.Helper()
	u := &user.User{ID: uuid.NewString(), Email: email, Name: name, Role: user.RoleCustomer}
	if err := s.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return u
}

func SeedAdmin(t *testing.T, s *Store) *user.User {
	t.Helper()
	u := &user.User{ID: uuid.NewString(), Email: "admin@catering.test", Name: "Admin", Role: user.RoleAdmin}
	if err := s.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return u
}

func SeedProduct(t *testing.T, s *Store, name string, price int64) *product.Product {
	t.Helper()
	p := &product.Product{
		ID:       uuid.NewString(),
		Name:     name,
		Price:    decimal.NewFromInt(price),
		Category: "buffet",
		Servings: 50,
		Features: []string{"Free delivery"},
	}
	if err := s.Products().Create(context.Background(), p); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

// SeedOrder inserts a pending order with the given id and total.
func SeedOrder(t *testing.T, s *Store, id string, u *user.User, p *product.Product, qty int, total int64) *order.Order {
	t.Helper()
	o := &order.Order{
		ID:            id,
		UserID:        u.ID,
		ProductID:     p.ID,
		Quantity:      qty,
		EventDate:     time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC),
		EventTime:     "18:30",
		TotalAmount:   decimal.NewFromInt(total),
		Status:        order.StatusPending,
		PaymentStatus: order.PaymentPending,
	}
	if err := s.Orders().Create(context.Background(), o); err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return o
}

// FakeGateway records calls and answers with canned values.
type FakeGateway struct {
	mu          sync.Mutex
	Requests    []gateway.TransactionRequest
	StatusCalls []string

	Token     *gateway.TransactionToken
	TokenErr  error
	StatusRes *gateway.StatusResponse
	StatusErr error
}

func (f *FakeGateway) CreateTransaction(_ context.Context, req gateway.TransactionRequest) (*gateway.TransactionToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Requests = append(f.Requests, req)
	if f.TokenErr != nil {
		return nil, f.TokenErr
	}
	if f.Token != nil {
		return f.Token, nil
	}
	return &gateway.TransactionToken{Token: "tok-" + req.TransactionDetails.OrderID, RedirectURL: "https://pay.test/" + req.TransactionDetails.OrderID}, nil
}

func (f *FakeGateway) Status(_ context.Context, orderID string) (*gateway.StatusResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.StatusCalls = append(f.StatusCalls, orderID)
	if f.StatusErr != nil {
		return nil, f.StatusErr
	}
	if f.StatusRes != nil {
		return f.StatusRes, nil
	}
	return &gateway.StatusResponse{StatusCode: "201", OrderID: orderID, TransactionStatus: "pending"}, nil
}

func (f *FakeGateway) CreateCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Requests)
}
