package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/catering-ecom/internal/httpx"
	"github.com/MikeMC777/catering-ecom/internal/logx"
	"github.com/MikeMC777/catering-ecom/internal/order"
	"github.com/MikeMC777/catering-ecom/internal/payment"
	"github.com/MikeMC777/catering-ecom/internal/product"
	"github.com/MikeMC777/catering-ecom/internal/storage"
	"github.com/MikeMC777/catering-ecom/internal/user"
)

// createOrderHandler godoc
//
//	@Summary	Book a catering package
//	@Tags		orders
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		order.CreateOrderRequest	true	"booking"
//	@Success	201		{object}	order.Order
//	@Failure	400		{object}	httpx.ErrorResponse
//	@Failure	404		{object}	httpx.ErrorResponse
//	@Router		/orders [post]
func createOrderHandler(placer *order.Placer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, http.StatusBadRequest, "product_id, quantity (>=1), event_date and event_time are required")
			return
		}
		o, err := placer.Place(c.Request.Context(), httpx.CurrentUser(c).ID, req)
		switch {
		case err == nil:
			logx.FromContext(c.Request.Context()).Info("order created", "order_id", o.ID)
			c.JSON(http.StatusCreated, o)
		case errors.Is(err, order.ErrInvalidOrder):
			httpx.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, product.ErrNotFound):
			httpx.Error(c, http.StatusNotFound, "product not found")
		default:
			logx.FromContext(c.Request.Context()).Error("create order failed", "error", err)
			httpx.InternalError(c)
		}
	}
}

// listMyOrdersHandler godoc
//
//	@Summary	List the caller's bookings
//	@Tags		orders
//	@Security	BearerAuth
//	@Produce	json
//	@Param		limit	query	int	false	"page size (max 100)"
//	@Param		offset	query	int	false	"offset"
//	@Success	200		{array}	order.Order
//	@Router		/orders [get]
func listMyOrdersHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := repo.ListByUser(c.Request.Context(), httpx.CurrentUser(c).ID,
			intQuery(c, "limit", 20), intQuery(c, "offset", 0))
		if err != nil {
			logx.FromContext(c.Request.Context()).Error("list orders failed", "error", err)
			httpx.InternalError(c)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// getOrderHandler godoc
//
//	@Summary	One booking of the caller (any booking for admins)
//	@Tags		orders
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"order id"
//	@Success	200	{object}	order.Order
//	@Failure	404	{object}	httpx.ErrorResponse
//	@Router		/orders/{id} [get]
func getOrderHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, ok := loadVisibleOrder(c, repo, c.Param("id"))
		if !ok {
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// getOrderPaymentHandler godoc
//
//	@Summary	Payment record of a booking
//	@Tags		orders
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"order id"
//	@Success	200	{object}	payment.Payment
//	@Failure	404	{object}	httpx.ErrorResponse
//	@Router		/orders/{id}/payment [get]
func getOrderPaymentHandler(orders order.Repository, payments payment.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, ok := loadVisibleOrder(c, orders, c.Param("id"))
		if !ok {
			return
		}
		p, err := payments.GetByOrderID(c.Request.Context(), o.ID)
		if err != nil {
			if errors.Is(err, payment.ErrNotFound) {
				httpx.Error(c, http.StatusNotFound, "no payment recorded for this order")
				return
			}
			logx.FromContext(c.Request.Context()).Error("get payment failed", "order_id", o.ID, "error", err)
			httpx.InternalError(c)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// loadVisibleOrder answers 404 for orders that do not exist or belong to
// another customer, so ids cannot be probed.
func loadVisibleOrder(c *gin.Context, repo order.Repository, id string) (*order.Order, bool) {
	o, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		orderError(c, err)
		return nil, false
	}
	if !canSee(httpx.CurrentUser(c), o) {
		httpx.Error(c, http.StatusNotFound, "order not found")
		return nil, false
	}
	return o, true
}

func canSee(u *user.User, o *order.Order) bool {
	return u != nil && (u.IsAdmin() || u.ID == o.UserID)
}

func orderError(c *gin.Context, err error) {
	if errors.Is(err, order.ErrNotFound) {
		httpx.Error(c, http.StatusNotFound, "order not found")
		return
	}
	logx.FromContext(c.Request.Context()).Error("order store failed", "error", err)
	httpx.InternalError(c)
}

// ---------- admin ----------

// adminListOrdersHandler godoc
//
//	@Summary	List all bookings
//	@Tags		admin
//	@Security	BearerAuth
//	@Produce	json
//	@Param		status			query	string	false	"order status"
//	@Param		payment_status	query	string	false	"payment status"
//	@Param		q				query	string	false	"search in id and notes"
//	@Success	200				{array}	order.Order
//	@Failure	400				{object}	httpx.ErrorResponse
//	@Router		/admin/orders [get]
func adminListOrdersHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := order.Filter{Q: c.Query("q")}
		if s := c.Query("status"); s != "" {
			st, err := order.ParseStatus(s)
			if err != nil {
				httpx.Error(c, http.StatusBadRequest, err.Error())
				return
			}
			f.Status = st
		}
		if s := c.Query("payment_status"); s != "" {
			st, err := order.ParsePaymentStatus(s)
			if err != nil {
				httpx.Error(c, http.StatusBadRequest, err.Error())
				return
			}
			f.PaymentStatus = st
		}
		all, err := repo.ListAll(c.Request.Context())
		if err != nil {
			orderError(c, err)
			return
		}
		c.JSON(http.StatusOK, f.Apply(all))
	}
}

// adminUpdateOrderStatusHandler godoc
//
//	@Summary	Change the fulfilment status of a booking
//	@Tags		admin
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"order id"
//	@Param		body	body		order.UpdateStatusRequest	true	"new status"
//	@Success	200		{object}	order.Order
//	@Failure	400		{object}	httpx.ErrorResponse
//	@Failure	404		{object}	httpx.ErrorResponse
//	@Router		/admin/orders/{id}/status [put]
func adminUpdateOrderStatusHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, http.StatusBadRequest, "status is required")
			return
		}
		st, err := order.ParseStatus(strings.TrimSpace(req.Status))
		if err != nil {
			httpx.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		ctx := c.Request.Context()
		if err := repo.UpdateStatus(ctx, c.Param("id"), st); err != nil {
			orderError(c, err)
			return
		}
		o, err := repo.GetByID(ctx, c.Param("id"))
		if err != nil {
			orderError(c, err)
			return
		}
		logx.FromContext(ctx).Info("order status changed", "order_id", o.ID, "status", st)
		c.JSON(http.StatusOK, o)
	}
}

// adminDeleteOrderHandler godoc
//
//	@Summary	Delete a booking and its payment record
//	@Tags		admin
//	@Security	BearerAuth
//	@Param		id	path	string	true	"order id"
//	@Success	204
//	@Failure	404	{object}	httpx.ErrorResponse
//	@Router		/admin/orders/{id} [delete]
func adminDeleteOrderHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			orderError(c, err)
			return
		}
		if !ok {
			httpx.Error(c, http.StatusNotFound, "order not found")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// VerifyPaymentRequest is the optional body of a manual verification.
// swagger:model VerifyPaymentRequest
type VerifyPaymentRequest struct {
	TransactionID string `json:"transaction_id" example:"BCA-TRF-0098"`
}

// adminVerifyPaymentHandler godoc
//
//	@Summary	Mark a booking as paid after checking the transfer by hand
//	@Tags		admin
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"order id"
//	@Param		body	body		VerifyPaymentRequest	false	"reference"
//	@Success	200		{object}	payment.Payment
//	@Failure	404		{object}	httpx.ErrorResponse
//	@Failure	409		{object}	httpx.ErrorResponse
//	@Router		/admin/orders/{id}/payment/verify [post]
func adminVerifyPaymentHandler(orders order.Repository, r *payment.Reconciler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VerifyPaymentRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				httpx.Error(c, http.StatusBadRequest, "invalid json")
				return
			}
		}
		ctx := c.Request.Context()
		o, err := orders.GetByID(ctx, c.Param("id"))
		if err != nil {
			orderError(c, err)
			return
		}
		res, err := r.VerifyManually(ctx, o.ID, o.TotalAmount, strings.TrimSpace(req.TransactionID))
		if err != nil {
			orderError(c, err)
			return
		}
		if res.Applied.Skipped {
			httpx.Error(c, http.StatusConflict, "order was already paid through the gateway")
			return
		}
		c.JSON(http.StatusOK, res.Applied.Payment)
	}
}

// adminListPaymentsHandler godoc
//
//	@Summary	List payment records
//	@Tags		admin
//	@Security	BearerAuth
//	@Produce	json
//	@Param		status	query	string	false	"pending, completed or failed"
//	@Param		q		query	string	false	"search in order id and transaction id"
//	@Success	200		{array}	payment.Payment
//	@Router		/admin/payments [get]
func adminListPaymentsHandler(repo payment.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var st payment.Status
		if s := c.Query("status"); s != "" {
			parsed, err := payment.ParseStatus(s)
			if err != nil {
				httpx.Error(c, http.StatusBadRequest, err.Error())
				return
			}
			st = parsed
		}
		all, err := repo.ListAll(c.Request.Context(), st)
		if err != nil {
			logx.FromContext(c.Request.Context()).Error("list payments failed", "error", err)
			httpx.InternalError(c)
			return
		}
		q := strings.ToLower(strings.TrimSpace(c.Query("q")))
		out := make([]payment.Payment, 0, len(all))
		for _, p := range all {
			if q == "" || strings.Contains(strings.ToLower(p.OrderID), q) ||
				(p.TransactionID != nil && strings.Contains(strings.ToLower(*p.TransactionID), q)) {
				out = append(out, p)
			}
		}
		c.JSON(http.StatusOK, out)
	}
}

// adminListCustomersHandler godoc
//
//	@Summary	List registered users
//	@Tags		admin
//	@Security	BearerAuth
//	@Produce	json
//	@Param		q	query	string	false	"search in name and email"
//	@Success	200	{array}	user.User
//	@Router		/admin/customers [get]
func adminListCustomersHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := repo.List(c.Request.Context(), c.Query("q"))
		if err != nil {
			logx.FromContext(c.Request.Context()).Error("list customers failed", "error", err)
			httpx.InternalError(c)
			return
		}
		if out == nil {
			out = []user.User{}
		}
		c.JSON(http.StatusOK, out)
	}
}

// adminDeleteCustomerHandler godoc
//
//	@Summary	Delete a customer account without bookings
//	@Tags		admin
//	@Security	BearerAuth
//	@Param		id	path	string	true	"user id"
//	@Success	204
//	@Failure	400	{object}	httpx.ErrorResponse
//	@Failure	404	{object}	httpx.ErrorResponse
//	@Failure	409	{object}	httpx.ErrorResponse
//	@Router		/admin/customers/{id} [delete]
func adminDeleteCustomerHandler(repo user.Repository, disk storage.Disk) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id := c.Param("id")
		if id == httpx.CurrentUser(c).ID {
			httpx.Error(c, http.StatusBadRequest, "you cannot delete your own account")
			return
		}
		u, err := repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				httpx.Error(c, http.StatusNotFound, "customer not found")
				return
			}
			logx.FromContext(ctx).Error("load customer failed", "user_id", id, "error", err)
			httpx.InternalError(c)
			return
		}
		ok, err := repo.Delete(ctx, u.ID)
		switch {
		case errors.Is(err, user.ErrInUse):
			httpx.Error(c, http.StatusConflict, "customer cannot be deleted while they have orders")
			return
		case err != nil:
			logx.FromContext(ctx).Error("delete customer failed", "user_id", u.ID, "error", err)
			httpx.InternalError(c)
			return
		case !ok:
			httpx.Error(c, http.StatusNotFound, "customer not found")
			return
		}
		if key := storage.KeyFromURL(disk, u.AvatarURL); key != "" {
			if err := disk.Delete(ctx, key); err != nil {
				logx.FromContext(ctx).Warn("avatar not removed", "user_id", u.ID, "error", err)
			}
		}
		logx.FromContext(ctx).Info("customer deleted", "user_id", u.ID)
		c.Status(http.StatusNoContent)
	}
}
