package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(srv *httptest.Server) *Client {
	c := New("SB-server-key", false)
	c.HTTP = srv.Client()
	c.SnapBaseURL = srv.URL + "/snap/v1"
	c.APIBaseURL = srv.URL + "/v2"
	return c
}

func TestNew_SelectsEnvironment(t *testing.T) {
	assert.Equal(t, SandboxSnapURL, New("k", false).SnapBaseURL)
	assert.Equal(t, ProductionAPIURL, New("k", true).APIBaseURL)
}

func TestCreateTransaction_OK(t *testing.T) {
	var got TransactionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "SB-server-key" || pass != "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path != "/snap/v1/transactions" || r.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"token":"tok-123","redirect_url":"https://pay.example/tok-123"}`))
	}))
	defer srv.Close()

	out, err := newTestClient(srv).CreateTransaction(context.Background(), TransactionRequest{
		TransactionDetails: TransactionDetails{OrderID: "O1", GrossAmount: 1200000},
	})
	require.NoError(t, err)
	assert.Equal(t, "tok-123", out.Token)
	assert.Equal(t, "O1", got.TransactionDetails.OrderID)
	assert.EqualValues(t, 1200000, got.TransactionDetails.GrossAmount)
}

func TestCreateTransaction_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error_messages":["transaction_details.gross_amount is not equal to the sum of item_details"]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).CreateTransaction(context.Background(), TransactionRequest{})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "gross_amount")
}

func TestCreateTransaction_MissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"redirect_url":""}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).CreateTransaction(context.Background(), TransactionRequest{})
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/O1/status":
			_, _ = w.Write([]byte(`{"status_code":"200","status_message":"Success, transaction is found",
				"transaction_id":"tx-1","order_id":"O1","gross_amount":"1200000.00","payment_type":"bank_transfer",
				"transaction_time":"2026-10-16 10:00:00","transaction_status":"settlement","settlement_time":"2026-10-16 10:05:00"}`))
		default:
			_, _ = w.Write([]byte(`{"status_code":"404","status_message":"Transaction doesn't exist."}`))
		}
	}))
	defer srv.Close()

	c := newTestClient(srv)
	st, err := c.Status(context.Background(), "O1")
	require.NoError(t, err)
	assert.Equal(t, "settlement", st.TransactionStatus)
	assert.Equal(t, "1200000.00", st.GrossAmount)

	_, err = c.Status(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}
