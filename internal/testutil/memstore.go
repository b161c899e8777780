// Package testutil holds in-memory stand-ins for the Postgres repositories
// and the payment gateway. Every repository built from one Store shares the
// same tables, so a ledger write is visible to the order and payment reads.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MikeMC777/catering-ecom/internal/order"
	"github.com/MikeMC777/catering-ecom/internal/payment"
	"github.com/MikeMC777/catering-ecom/internal/product"
	"github.com/MikeMC777/catering-ecom/internal/user"
)

type Store struct {
	mu       sync.Mutex
	users    map[string]user.User
	products map[string]product.Product
	orders   map[string]order.Order
	payments map[string]payment.Payment // keyed by order id

	// FailApply makes the next Ledger.Apply return this error.
	FailApply error
}

func NewStore() *Store {
	return &Store{
		users:    map[string]user.User{},
		products: map[string]product.Product{},
		orders:   map[string]order.Order{},
		payments: map[string]payment.Payment{},
	}
}

func (s *Store) Users() *UserRepo       { return &UserRepo{s} }
func (s *Store) Products() *ProductRepo { return &ProductRepo{s} }
func (s *Store) Orders() *OrderRepo     { return &OrderRepo{s} }
func (s *Store) Payments() *PaymentRepo { return &PaymentRepo{s} }
func (s *Store) Ledger() *Ledger        { return &Ledger{s} }

// PaymentCount returns the number of rows in the payments table.
func (s *Store) PaymentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payments)
}

// ---------- users ----------

type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, cur := range r.s.users {
		if strings.EqualFold(cur.Email, u.Email) {
			return user.ErrAlreadyExists
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (r *UserRepo) List(_ context.Context, q string) ([]user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q = strings.ToLower(strings.TrimSpace(q))
	out := []user.User{}
	for _, u := range r.s.users {
		if q == "" || strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Email), q) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r *UserRepo) UpdateProfile(_ context.Context, id string, p user.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return user.ErrNotFound
	}
	if p.Name != "" {
		u.Name = p.Name
	}
	if p.Phone != "" {
		u.Phone = p.Phone
	}
	if p.Address != "" {
		u.Address = p.Address
	}
	u.UpdatedAt = time.Now().UTC()
	r.s.users[id] = u
	return nil
}

func (r *UserRepo) UpdateAvatar(_ context.Context, id, avatarURL string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.AvatarURL = avatarURL
	r.s.users[id] = u
	return nil
}

func (r *UserRepo) Delete(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return false, nil
	}
	for _, o := range r.s.orders {
		if o.UserID == id {
			return false, user.ErrInUse
		}
	}
	delete(r.s.users, id)
	return true, nil
}

// ---------- products ----------

type ProductRepo struct{ s *Store }

func (r *ProductRepo) Create(_ context.Context, p *product.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*product.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &p, nil
}

func (r *ProductRepo) List(_ context.Context, q product.Query) ([]product.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	search := strings.ToLower(strings.TrimSpace(q.Q))
	out := []product.Product{}
	for _, p := range r.s.products {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	start := q.Offset
	if start > len(out) {
		return []product.Product{}, nil
	}
	end := start + q.Limit
	if end > len(out) || q.Limit <= 0 {
		end = len(out)
	}
	return out[start:end], nil
}

func (r *ProductRepo) Update(_ context.Context, p *product.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; !ok {
		return product.ErrNotFound
	}
	p.UpdatedAt = time.Now().UTC()
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) SetImage(_ context.Context, id, imageURL string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return product.ErrNotFound
	}
	p.ImageURL = imageURL
	r.s.products[id] = p
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return false, nil
	}
	for _, o := range r.s.orders {
		if o.ProductID == id {
			return false, product.ErrInUse
		}
	}
	delete(r.s.products, id)
	return true, nil
}

// ---------- orders ----------

type OrderRepo struct{ s *Store }

func (r *OrderRepo) Create(_ context.Context, o *order.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	o.CreatedAt = time.Now().UTC()
	o.UpdatedAt = o.CreatedAt
	r.s.orders[o.ID] = *o
	return nil
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*order.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	return &o, nil
}

func (r *OrderRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]order.Order, error) {
	all, _ := r.ListAll(context.Background())
	out := []order.Order{}
	for _, o := range all {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	if offset > len(out) {
		return []order.Order{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (r *OrderRepo) ListAll(_ context.Context) ([]order.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]order.Order, 0, len(r.s.orders))
	for _, o := range r.s.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *OrderRepo) UpdateStatus(_ context.Context, id string, status order.Status) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return order.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	r.s.orders[id] = o
	return nil
}

func (r *OrderRepo) Delete(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[id]; !ok {
		return false, nil
	}
	delete(r.s.orders, id)
	delete(r.s.payments, id)
	return true, nil
}

// ---------- payments ----------

type PaymentRepo struct{ s *Store }

func (r *PaymentRepo) GetByID(_ context.Context, id string) (*payment.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.payments {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, payment.ErrNotFound
}

func (r *PaymentRepo) GetByOrderID(_ context.Context, orderID string) (*payment.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[orderID]
	if !ok {
		return nil, payment.ErrNotFound
	}
	return &p, nil
}

func (r *PaymentRepo) ListAll(_ context.Context, status payment.Status) ([]payment.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []payment.Payment{}
	for _, p := range r.s.payments {
		if status == "" || p.Status == status {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderID < out[j].OrderID })
	return out, nil
}

// ---------- ledger ----------

// Ledger mirrors payment.PGLedger: one lock covers the order update and
// the payment upsert keyed on order id.
type Ledger struct{ s *Store }

func (l *Ledger) Apply(_ context.Context, e payment.Entry) (*payment.Applied, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	if err := l.s.FailApply; err != nil {
		l.s.FailApply = nil
		return nil, err
	}
	o, ok := l.s.orders[e.OrderID]
	if !ok {
		return nil, order.ErrNotFound
	}
	prev := o.PaymentStatus
	if !payment.Supersedes(prev, e.Outcome.PaymentStatus) {
		return &payment.Applied{Skipped: true, Previous: prev}, nil
	}
	if cur, ok := l.s.payments[e.OrderID]; ok && prev == order.PaymentPaid && cur.Method != e.Method {
		return &payment.Applied{Skipped: true, Previous: prev}, nil
	}
	now := time.Now().UTC()
	if prev != e.Outcome.PaymentStatus {
		o.Status = e.Outcome.OrderStatus
		o.PaymentStatus = e.Outcome.PaymentStatus
		o.UpdatedAt = now
		l.s.orders[o.ID] = o
	}

	p, exists := l.s.payments[e.OrderID]
	if !exists {
		p = payment.Payment{ID: uuid.NewString(), OrderID: e.OrderID, CreatedAt: now}
	}
	p.Amount = e.Amount
	p.Method = e.Method
	p.Status = e.Outcome.RecordStatus
	p.TransactionID = nil
	if e.TransactionID != "" {
		txID := e.TransactionID
		p.TransactionID = &txID
	}
	switch {
	case p.Status != payment.StatusCompleted:
		p.PaymentDate = nil
	case p.PaymentDate == nil:
		p.PaymentDate = e.PaidAt
	}
	p.UpdatedAt = now
	l.s.payments[e.OrderID] = p

	cp := p
	return &payment.Applied{Previous: prev, Payment: &cp}, nil
}
