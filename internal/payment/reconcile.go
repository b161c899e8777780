package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/catering-ecom/internal/logx"
	"github.com/MikeMC777/catering-ecom/internal/order"
)

// MethodManual is recorded for payments confirmed by an administrator.
const MethodManual = "manual"

// Result is returned for every notification that passed verification.
type Result struct {
	OrderID           string
	TransactionStatus TransactionStatus
	Outcome           Outcome
	Applied           *Applied
}

type Reconciler struct {
	ledger    Ledger
	serverKey string
	now       func() time.Time
}

func NewReconciler(ledger Ledger, serverKey string) *Reconciler {
	return &Reconciler{ledger: ledger, serverKey: serverKey, now: time.Now}
}

// WithClock overrides the time source used for payment dates.
func (r *Reconciler) WithClock(now func() time.Time) *Reconciler {
	r.now = now
	return r
}

// HandleNotification verifies n and applies the mapped outcome. Nothing is
// written unless the signature matches. Applying the same notification
// again leaves a single payment row with the same values.
func (r *Reconciler) HandleNotification(ctx context.Context, n Notification) (*Result, error) {
	log := logx.FromContext(ctx)

	ts, err := n.Validate()
	if err != nil {
		log.Info("payment notification rejected", "event", "notification.invalid", "order_id", n.OrderID, "error", err)
		return nil, err
	}
	if err := n.Verify(r.serverKey); err != nil {
		log.Warn("payment notification signature mismatch",
			"event", "security.signature_mismatch",
			"order_id", n.OrderID,
			"transaction_status", n.TransactionStatus,
		)
		return nil, err
	}
	amount, err := ParseAmount(n.GrossAmount)
	if err != nil {
		log.Info("payment notification rejected", "event", "notification.invalid", "order_id", n.OrderID, "error", err)
		return nil, err
	}
	outcome, err := MapStatus(ts)
	if err != nil {
		return nil, err
	}

	res, err := r.apply(ctx, n.OrderID, outcome, amount, n.PaymentType, n.TransactionID)
	if err != nil {
		return nil, err
	}
	res.TransactionStatus = ts
	log.Info("payment notification reconciled",
		"order_id", n.OrderID,
		"transaction_status", ts,
		"payment_status", outcome.PaymentStatus,
		"skipped", res.Applied.Skipped,
	)
	return res, nil
}

// VerifyManually records an administrator-confirmed payment for orderID.
func (r *Reconciler) VerifyManually(ctx context.Context, orderID string, amount decimal.Decimal, transactionID string) (*Result, error) {
	if orderID == "" {
		return nil, fmt.Errorf("%w: missing order_id", ErrInvalidNotification)
	}
	res, err := r.apply(ctx, orderID, outcomePaid, amount, MethodManual, transactionID)
	if err != nil {
		return nil, err
	}
	logx.FromContext(ctx).Info("payment verified manually", "order_id", orderID)
	return res, nil
}

func (r *Reconciler) apply(ctx context.Context, orderID string, outcome Outcome, amount decimal.Decimal, method, txID string) (*Result, error) {
	e := Entry{
		OrderID:       orderID,
		Outcome:       outcome,
		Amount:        amount,
		Method:        method,
		TransactionID: txID,
	}
	if outcome.PaymentStatus == order.PaymentPaid {
		paidAt := r.now().UTC()
		e.PaidAt = &paidAt
	}
	applied, err := r.ledger.Apply(ctx, e)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("reconcile order %s: %w", orderID, err)
	}
	return &Result{OrderID: orderID, Outcome: outcome, Applied: applied}, nil
}
