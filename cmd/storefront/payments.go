package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/catering-ecom/internal/gateway"
	"github.com/MikeMC777/catering-ecom/internal/httpx"
	"github.com/MikeMC777/catering-ecom/internal/logx"
	"github.com/MikeMC777/catering-ecom/internal/metrics"
	"github.com/MikeMC777/catering-ecom/internal/order"
	"github.com/MikeMC777/catering-ecom/internal/payment"
)

// TokenRequest payload for POST /payments/token.
// swagger:model TokenRequest
type TokenRequest struct {
	OrderID string `json:"order_id" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
}

// NotificationAck is the webhook answer for accepted notifications.
// swagger:model NotificationAck
type NotificationAck struct {
	Status  string `json:"status" example:"ok"`
	Skipped bool   `json:"skipped,omitempty"`
}

// createTokenHandler godoc
//
//	@Summary	Request a checkout token for a booking
//	@Tags		payments
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		TokenRequest	true	"order"
//	@Success	200		{object}	payment.TokenResult
//	@Failure	400		{object}	httpx.ErrorResponse
//	@Failure	404		{object}	httpx.ErrorResponse
//	@Failure	500		{object}	httpx.ErrorResponse
//	@Router		/payments/token [post]
func createTokenHandler(co *payment.Checkout, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid json")
			return
		}
		ctx := c.Request.Context()
		res, err := co.CreateToken(ctx, strings.TrimSpace(req.OrderID), httpx.CurrentUser(c))
		switch {
		case err == nil:
			m.Token("ok")
			c.JSON(http.StatusOK, res)
		case errors.Is(err, payment.ErrMissingOrderID), errors.Is(err, payment.ErrAlreadyPaid):
			m.Token("rejected")
			httpx.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, order.ErrNotFound), errors.Is(err, payment.ErrNotOwner):
			m.Token("rejected")
			httpx.Error(c, http.StatusNotFound, "order not found")
		default:
			m.Token("error")
			logx.FromContext(ctx).Error("payment token failed", "order_id", req.OrderID, "error", err)
			httpx.Error(c, http.StatusInternalServerError, "could not create payment token")
		}
	}
}

// paymentStatusHandler godoc
//
//	@Summary	Ask the gateway for the current transaction status
//	@Description	Read only. Local order state changes only through notifications or admin verification.
//	@Tags		payments
//	@Security	BearerAuth
//	@Produce	json
//	@Param		order_id	query		string	true	"order id"
//	@Success	200			{object}	gateway.StatusResponse
//	@Failure	400			{object}	httpx.ErrorResponse
//	@Failure	404			{object}	httpx.ErrorResponse
//	@Failure	500			{object}	httpx.ErrorResponse
//	@Router		/payments/status [get]
func paymentStatusHandler(orders order.Repository, co *payment.Checkout) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.Query("order_id"))
		if id == "" {
			httpx.Error(c, http.StatusBadRequest, payment.ErrMissingOrderID.Error())
			return
		}
		if _, ok := loadVisibleOrder(c, orders, id); !ok {
			return
		}
		st, err := co.CheckStatus(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, gateway.ErrTransactionNotFound) {
				httpx.Error(c, http.StatusNotFound, "no transaction for this order yet")
				return
			}
			logx.FromContext(c.Request.Context()).Error("payment status failed", "order_id", id, "error", err)
			httpx.Error(c, http.StatusInternalServerError, "could not fetch payment status")
			return
		}
		c.JSON(http.StatusOK, st)
	}
}

// notificationHandler godoc
//
//	@Summary	Payment gateway webhook
//	@Description	The signature is checked before anything is written. Unknown orders and stale notifications are acknowledged so the gateway stops retrying; store failures answer 500 so it retries.
//	@Tags		payments
//	@Accept		json
//	@Produce	json
//	@Param		body	body		payment.Notification	true	"notification"
//	@Success	200		{object}	NotificationAck
//	@Failure	400		{object}	httpx.ErrorResponse
//	@Failure	403		{object}	httpx.ErrorResponse
//	@Failure	500		{object}	httpx.ErrorResponse
//	@Router		/payments/notification [post]
func notificationHandler(r *payment.Reconciler, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var n payment.Notification
		if err := c.ShouldBindJSON(&n); err != nil {
			m.Notification(metrics.OutcomeInvalid)
			httpx.Error(c, http.StatusBadRequest, "invalid json")
			return
		}
		res, err := r.HandleNotification(ctx, n)
		switch {
		case err == nil:
			if res.Applied.Skipped {
				m.Notification(metrics.OutcomeSkipped)
			} else {
				m.Notification(metrics.OutcomeProcessed)
			}
			c.JSON(http.StatusOK, NotificationAck{Status: "ok", Skipped: res.Applied.Skipped})
		case errors.Is(err, payment.ErrSignatureMismatch):
			m.Notification(metrics.OutcomeBadSignature)
			httpx.Error(c, http.StatusForbidden, "invalid signature")
		case errors.Is(err, payment.ErrInvalidNotification):
			m.Notification(metrics.OutcomeInvalid)
			httpx.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, order.ErrNotFound):
			m.Notification(metrics.OutcomeUnknownOrder)
			logx.FromContext(ctx).Warn("notification for unknown order", "order_id", n.OrderID)
			c.JSON(http.StatusOK, NotificationAck{Status: "ignored"})
		default:
			m.Notification(metrics.OutcomeError)
			logx.FromContext(ctx).Error("notification not applied", "order_id", n.OrderID, "error", err)
			httpx.InternalError(c)
		}
	}
}
