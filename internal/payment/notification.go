package payment

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidNotification = errors.New("invalid payment notification")
	ErrSignatureMismatch   = errors.New("payment notification signature mismatch")
)

// TransactionStatus is the gateway's transaction lifecycle vocabulary.
type TransactionStatus string

const (
	TransactionCapture    TransactionStatus = "capture"
	TransactionSettlement TransactionStatus = "settlement"
	TransactionPending    TransactionStatus = "pending"
	TransactionDeny       TransactionStatus = "deny"
	TransactionCancel     TransactionStatus = "cancel"
	TransactionExpire     TransactionStatus = "expire"
	TransactionFailure    TransactionStatus = "failure"
)

func ParseTransactionStatus(s string) (TransactionStatus, error) {
	switch ts := TransactionStatus(strings.ToLower(strings.TrimSpace(s))); ts {
	case TransactionCapture, TransactionSettlement, TransactionPending,
		TransactionDeny, TransactionCancel, TransactionExpire, TransactionFailure:
		return ts, nil
	}
	return "", fmt.Errorf("%w: unknown transaction status %q", ErrInvalidNotification, s)
}

// Notification is the webhook payload posted by the gateway.
type Notification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	TransactionID     string `json:"transaction_id"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status,omitempty"`
	TransactionTime   string `json:"transaction_time,omitempty"`
	StatusMessage     string `json:"status_message,omitempty"`
}

// Validate checks that every field the signature and the mapping depend on
// is present and returns the parsed transaction status.
func (n Notification) Validate() (TransactionStatus, error) {
	var missing []string
	if n.OrderID == "" {
		missing = append(missing, "order_id")
	}
	if n.StatusCode == "" {
		missing = append(missing, "status_code")
	}
	if n.GrossAmount == "" {
		missing = append(missing, "gross_amount")
	}
	if n.SignatureKey == "" {
		missing = append(missing, "signature_key")
	}
	if n.TransactionStatus == "" {
		missing = append(missing, "transaction_status")
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: missing %s", ErrInvalidNotification, strings.Join(missing, ", "))
	}
	return ParseTransactionStatus(n.TransactionStatus)
}

// Signature computes hex(SHA-512(order_id + status_code + gross_amount + server_key)).
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

// Verify recomputes the signature with serverKey and compares it in
// constant time with the one carried by the notification.
func (n Notification) Verify(serverKey string) error {
	if serverKey == "" {
		return fmt.Errorf("%w: server key not configured", ErrSignatureMismatch)
	}
	want := Signature(n.OrderID, n.StatusCode, n.GrossAmount, serverKey)
	got := strings.ToLower(strings.TrimSpace(n.SignatureKey))
	if subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
		return ErrSignatureMismatch
	}
	return nil
}
