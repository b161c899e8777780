package payment

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/catering-ecom/internal/order"
)

const testServerKey = "SB-Mid-server-test"

func signed(orderID, status, gross string) Notification {
	return Notification{
		OrderID:           orderID,
		StatusCode:        "200",
		GrossAmount:       gross,
		TransactionStatus: status,
		TransactionID:     "tx-" + orderID,
		PaymentType:       "bank_transfer",
		SignatureKey:      Signature(orderID, "200", gross, testServerKey),
	}
}

func TestSignature_CoversEveryField(t *testing.T) {
	sig := Signature("O1", "200", "1200000.00", "key")
	assert.Len(t, sig, 128)
	assert.Equal(t, sig, Signature("O1", "200", "1200000.00", "key"))
	assert.NotEqual(t, sig, Signature("O1", "200", "1200000.00", "other"))
	assert.NotEqual(t, sig, Signature("O1", "201", "1200000.00", "key"))
}

func TestVerify(t *testing.T) {
	n := signed("O1", "settlement", "1200000.00")
	require.NoError(t, n.Verify(testServerKey))

	upper := n
	upper.SignatureKey = "  " + strings.ToUpper(n.SignatureKey) + " "
	assert.NoError(t, upper.Verify(testServerKey), "hex comparison is case-insensitive")

	assert.ErrorIs(t, n.Verify("another-key"), ErrSignatureMismatch)
	assert.ErrorIs(t, n.Verify(""), ErrSignatureMismatch)

	tampered := n
	tampered.GrossAmount = "1.00"
	assert.ErrorIs(t, tampered.Verify(testServerKey), ErrSignatureMismatch)
}

func TestValidate(t *testing.T) {
	ts, err := signed("O1", "Settlement", "10").Validate()
	require.NoError(t, err)
	assert.Equal(t, TransactionSettlement, ts)

	_, err = Notification{}.Validate()
	require.ErrorIs(t, err, ErrInvalidNotification)
	assert.Contains(t, err.Error(), "order_id, status_code, gross_amount, signature_key, transaction_status")

	_, err = signed("O1", "refund", "10").Validate()
	assert.ErrorIs(t, err, ErrInvalidNotification)
}

func TestMapStatus_Total(t *testing.T) {
	cases := []struct {
		ts      TransactionStatus
		payment order.PaymentStatus
		order   order.Status
		record  Status
	}{
		{TransactionCapture, order.PaymentPaid, order.StatusConfirmed, StatusCompleted},
		{TransactionSettlement, order.PaymentPaid, order.StatusConfirmed, StatusCompleted},
		{TransactionPending, order.PaymentPending, order.StatusPending, StatusPending},
		{TransactionDeny, order.PaymentFailed, order.StatusCancelled, StatusFailed},
		{TransactionCancel, order.PaymentFailed, order.StatusCancelled, StatusFailed},
		{TransactionExpire, order.PaymentFailed, order.StatusCancelled, StatusFailed},
		{TransactionFailure, order.PaymentFailed, order.StatusCancelled, StatusFailed},
	}
	for _, tc := range cases {
		t.Run(string(tc.ts), func(t *testing.T) {
			got, err := MapStatus(tc.ts)
			require.NoError(t, err)
			assert.Equal(t, tc.payment, got.PaymentStatus)
			assert.Equal(t, tc.order, got.OrderStatus)
			assert.Equal(t, tc.record, got.RecordStatus)
		})
	}

	_, err := MapStatus("refund")
	assert.ErrorIs(t, err, ErrInvalidNotification)
}

func TestSupersedes(t *testing.T) {
	assert.True(t, Supersedes(order.PaymentPending, order.PaymentPending))
	assert.True(t, Supersedes(order.PaymentPending, order.PaymentPaid))
	assert.True(t, Supersedes(order.PaymentPaid, order.PaymentPaid))
	assert.True(t, Supersedes(order.PaymentFailed, order.PaymentPaid))
	assert.True(t, Supersedes(order.PaymentFailed, order.PaymentFailed))
	assert.False(t, Supersedes(order.PaymentPaid, order.PaymentFailed))
	assert.False(t, Supersedes(order.PaymentPaid, order.PaymentPending))
	assert.False(t, Supersedes(order.PaymentFailed, order.PaymentPending))
}

func TestParseAmount(t *testing.T) {
	for in, want := range map[string]int64{
		"1200000":    1200000,
		"1200000.00": 1200000,
		" 35000 ":    35000,
		"0":          0,
	} {
		got, err := ParseAmount(in)
		require.NoError(t, err, in)
		assert.True(t, got.Equal(decimal.NewFromInt(want)), "%s -> %s", in, got)
	}

	got, err := ParseAmount("99.50")
	require.NoError(t, err)
	assert.Equal(t, "99.5", got.String())

	big, err := ParseAmount("123456789012345.67")
	require.NoError(t, err)
	assert.Equal(t, "123456789012345.67", big.String())

	for _, bad := range []string{"", "abc", "-100", "10.001", "1,200,000", "1.2e6", "1E3", "+100", ".5", "10.", "0x10", "1 000"} {
		_, err := ParseAmount(bad)
		assert.ErrorIs(t, err, ErrInvalidNotification, bad)
	}
}
