package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"pending", "confirmed", "preparing", "delivered", "completed", "cancelled"} {
		st, err := ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, s, string(st))
	}
	_, err := ParseStatus("shipped")
	assert.Error(t, err)
}

func TestParsePaymentStatus(t *testing.T) {
	st, err := ParsePaymentStatus("paid")
	require.NoError(t, err)
	assert.Equal(t, PaymentPaid, st)

	_, err = ParsePaymentStatus("refunded")
	assert.Error(t, err)
}

func TestFilter(t *testing.T) {
	orders := []Order{
		{ID: "ord-1", Status: StatusPending, PaymentStatus: PaymentPending, Notes: "Vegetarian menu"},
		{ID: "ord-2", Status: StatusConfirmed, PaymentStatus: PaymentPaid},
		{ID: "ord-3", Status: StatusCancelled, PaymentStatus: PaymentFailed, Notes: "birthday"},
	}

	assert.Len(t, Filter{}.Apply(orders), 3)
	assert.Equal(t, "ord-2", Filter{Status: StatusConfirmed}.Apply(orders)[0].ID)
	assert.Equal(t, "ord-3", Filter{PaymentStatus: PaymentFailed}.Apply(orders)[0].ID)

	got := Filter{Q: "VEGETARIAN"}.Apply(orders)
	require.Len(t, got, 1)
	assert.Equal(t, "ord-1", got[0].ID)

	assert.Empty(t, Filter{Status: StatusPending, Q: "birthday"}.Apply(orders))
}

func TestEventSchedule(t *testing.T) {
	d, tm, err := CreateOrderRequest{EventDate: "2026-12-24", EventTime: "18:30"}.EventSchedule()
	require.NoError(t, err)
	assert.Equal(t, 24, d.Day())
	assert.Equal(t, "18:30", tm)

	_, _, err = CreateOrderRequest{EventDate: "24/12/2026", EventTime: "18:30"}.EventSchedule()
	assert.Error(t, err)
	_, _, err = CreateOrderRequest{EventDate: "2026-12-24", EventTime: "6pm"}.EventSchedule()
	assert.Error(t, err)
}
