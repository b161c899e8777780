package payment

import (
	"fmt"

	"github.com/MikeMC777/catering-ecom/internal/order"
)

// Outcome is the local state a transaction status maps to.
type Outcome struct {
	PaymentStatus order.PaymentStatus
	OrderStatus   order.Status
	RecordStatus  Status
}

var (
	outcomePaid    = Outcome{order.PaymentPaid, order.StatusConfirmed, StatusCompleted}
	outcomePending = Outcome{order.PaymentPending, order.StatusPending, StatusPending}
	outcomeFailed  = Outcome{order.PaymentFailed, order.StatusCancelled, StatusFailed}
)

// MapStatus is total over the TransactionStatus constants. Any other value
// is a programming error and is reported instead of defaulted.
func MapStatus(ts TransactionStatus) (Outcome, error) {
	switch ts {
	case TransactionCapture, TransactionSettlement:
		return outcomePaid, nil
	case TransactionPending:
		return outcomePending, nil
	case TransactionDeny, TransactionCancel, TransactionExpire, TransactionFailure:
		return outcomeFailed, nil
	}
	return Outcome{}, fmt.Errorf("%w: unmapped transaction status %q", ErrInvalidNotification, ts)
}

// Supersedes reports whether an outcome with payment status next may
// overwrite an order currently at current. Paid is terminal: only a paid
// redelivery is accepted once an order is paid. A pending outcome never
// replaces a paid or failed order; notifications are not sequenced, so a
// late pending delivery is treated as stale.
func Supersedes(current, next order.PaymentStatus) bool {
	switch current {
	case order.PaymentPaid:
		return next == order.PaymentPaid
	case order.PaymentFailed:
		return next != order.PaymentPending
	}
	return true
}
