// Package gateway is an HTTP client for the hosted payment gateway: the Snap
// API issues checkout tokens and the core API reports transaction status.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	SandboxSnapURL    = "https://app.sandbox.midtrans.com/snap/v1"
	ProductionSnapURL = "https://app.midtrans.com/snap/v1"
	SandboxAPIURL     = "https://api.sandbox.midtrans.com/v2"
	ProductionAPIURL  = "https://api.midtrans.com/v2"
)

var (
	ErrNoToken             = errors.New("gateway response carried no token")
	ErrTransactionNotFound = errors.New("transaction not found at gateway")
)

type Client struct {
	HTTP        *http.Client
	ServerKey   string
	SnapBaseURL string
	APIBaseURL  string
}

func New(serverKey string, production bool) *Client {
	c := &Client{
		HTTP:        &http.Client{Timeout: 10 * time.Second},
		ServerKey:   serverKey,
		SnapBaseURL: SandboxSnapURL,
		APIBaseURL:  SandboxAPIURL,
	}
	if production {
		c.SnapBaseURL = ProductionSnapURL
		c.APIBaseURL = ProductionAPIURL
	}
	return c
}

// APIError is a non-2xx answer from the gateway.
type APIError struct {
	StatusCode int
	Messages   []string
}

func (e *APIError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("gateway returned %d", e.StatusCode)
	}
	return fmt.Sprintf("gateway returned %d: %s", e.StatusCode, strings.Join(e.Messages, "; "))
}

func (c *Client) do(ctx context.Context, method, u string, body any, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.ServerKey, "")
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var e struct {
			ErrorMessages []string `json:"error_messages"`
			StatusMessage string   `json:"status_message"`
		}
		_ = json.NewDecoder(res.Body).Decode(&e)
		msgs := e.ErrorMessages
		if len(msgs) == 0 && e.StatusMessage != "" {
			msgs = []string{e.StatusMessage}
		}
		return &APIError{StatusCode: res.StatusCode, Messages: msgs}
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// CreateTransaction requests a Snap token for req.
func (c *Client) CreateTransaction(ctx context.Context, req TransactionRequest) (*TransactionToken, error) {
	var out TransactionToken
	if err := c.do(ctx, http.MethodPost, c.SnapBaseURL+"/transactions", req, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, ErrNoToken
	}
	return &out, nil
}

// Status fetches the current transaction status for orderID.
func (c *Client) Status(ctx context.Context, orderID string) (*StatusResponse, error) {
	var out StatusResponse
	u := fmt.Sprintf("%s/%s/status", c.APIBaseURL, url.PathEscape(orderID))
	if err := c.do(ctx, http.MethodGet, u, nil, &out); err != nil {
		return nil, err
	}
	// The core API answers HTTP 200 with status_code 404 for unknown orders.
	if out.StatusCode == "404" {
		return nil, ErrTransactionNotFound
	}
	return &out, nil
}
