package payment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/catering-ecom/internal/order"
)

// Entry is one reconciliation write: the order status pair and the payment
// row upserted on OrderID.
type Entry struct {
	OrderID       string
	Outcome       Outcome
	Amount        decimal.Decimal
	Method        string
	TransactionID string
	PaidAt        *time.Time
}

// Applied reports what a Ledger did with an Entry.
type Applied struct {
	// Skipped is true when the entry was stale and nothing was written.
	Skipped  bool
	Previous order.PaymentStatus
	Payment  *Payment
}

// Ledger writes the order update and the payment upsert as one unit.
// Implementations return order.ErrNotFound for an unknown order and keep
// the first payment date when a completed payment is written again. A paid
// order only accepts a redelivery from the method that paid it, and a
// redelivery leaves the order status alone.
type Ledger interface {
	Apply(ctx context.Context, e Entry) (*Applied, error)
}

type PGLedger struct{ db *pgxpool.Pool }

func NewPGLedger(db *pgxpool.Pool) *PGLedger { return &PGLedger{db: db} }

func (l *PGLedger) Apply(ctx context.Context, e Entry) (*Applied, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current order.PaymentStatus
	if err := tx.QueryRow(ctx, `SELECT payment_status FROM orders WHERE id=$1 FOR UPDATE`, e.OrderID).
		Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, err
	}
	if !Supersedes(current, e.Outcome.PaymentStatus) {
		return &Applied{Skipped: true, Previous: current}, nil
	}
	if current == order.PaymentPaid {
		var method string
		err := tx.QueryRow(ctx, `SELECT method FROM payments WHERE order_id=$1`, e.OrderID).Scan(&method)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		if err == nil && method != e.Method {
			return &Applied{Skipped: true, Previous: current}, nil
		}
	}

	// A redelivery keeps whatever fulfilment status the order has reached.
	if current != e.Outcome.PaymentStatus {
		if _, err := tx.Exec(ctx, `
			UPDATE orders
			SET status = $2, payment_status = $3, updated_at = NOW()
			WHERE id = $1
		`, e.OrderID, e.Outcome.OrderStatus, e.Outcome.PaymentStatus); err != nil {
			return nil, err
		}
	}

	var txID *string
	if e.TransactionID != "" {
		txID = &e.TransactionID
	}
	p, err := scanPayment(tx.QueryRow(ctx, `
		INSERT INTO payments (id, order_id, amount, method, status, transaction_id, payment_date, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NOW(),NOW())
		ON CONFLICT (order_id) DO UPDATE
		SET amount = EXCLUDED.amount,
		    method = EXCLUDED.method,
		    status = EXCLUDED.status,
		    transaction_id = EXCLUDED.transaction_id,
		    payment_date = CASE WHEN EXCLUDED.status = 'completed'
		                        THEN COALESCE(payments.payment_date, EXCLUDED.payment_date)
		                        ELSE NULL END,
		    updated_at = NOW()
		RETURNING `+paymentColumns,
		uuid.NewString(), e.OrderID, e.Amount.String(), e.Method, e.Outcome.RecordStatus, txID, e.PaidAt))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &Applied{Previous: current, Payment: p}, nil
}
