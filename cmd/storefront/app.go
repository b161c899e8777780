package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/MikeMC777/catering-ecom/docs"
	"github.com/MikeMC777/catering-ecom/internal/httpx"
	"github.com/MikeMC777/catering-ecom/internal/metrics"
	"github.com/MikeMC777/catering-ecom/internal/order"
	"github.com/MikeMC777/catering-ecom/internal/payment"
	"github.com/MikeMC777/catering-ecom/internal/product"
	"github.com/MikeMC777/catering-ecom/internal/session"
	"github.com/MikeMC777/catering-ecom/internal/storage"
	"github.com/MikeMC777/catering-ecom/internal/user"
)

// app holds the dependencies shared by the HTTP handlers.
type app struct {
	log *slog.Logger

	users    user.Repository
	products product.Repository
	orders   order.Repository
	payments payment.Repository

	placer     *order.Placer
	checkout   *payment.Checkout
	reconciler *payment.Reconciler
	sessions   *session.Manager

	disk      storage.Disk
	localRoot string
	metrics   *metrics.Metrics
	ping      func(context.Context) error
}

func (a *app) router() *gin.Engine {
	r := gin.New()
	r.Use(httpx.RequestID(), httpx.Logger(a.log), httpx.Recovery(), a.metrics.Middleware())

	r.GET("/healthz", healthHandler(a.ping))
	r.GET("/metrics", gin.WrapH(a.metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if a.localRoot != "" {
		r.Static("/storage", a.localRoot)
	}

	r.GET("/products", listProductsHandler(a.products))
	r.GET("/products/:id", getProductHandler(a.products))
	r.POST("/auth/register", registerHandler(a.sessions))
	r.POST("/auth/login", loginHandler(a.sessions))
	r.POST("/payments/notification", notificationHandler(a.reconciler, a.metrics))

	auth := r.Group("/", httpx.Auth(a.sessions, isSessionError))
	auth.POST("/auth/logout", logoutHandler(a.sessions))
	auth.GET("/me", meHandler())
	auth.PUT("/me", updateMeHandler(a.sessions))
	auth.PUT("/me/avatar", updateAvatarHandler(a.sessions))
	auth.POST("/orders", createOrderHandler(a.placer))
	auth.GET("/orders", listMyOrdersHandler(a.orders))
	auth.GET("/orders/:id", getOrderHandler(a.orders))
	auth.GET("/orders/:id/payment", getOrderPaymentHandler(a.orders, a.payments))
	auth.POST("/payments/token", createTokenHandler(a.checkout, a.metrics))
	auth.GET("/payments/status", paymentStatusHandler(a.orders, a.checkout))

	admin := auth.Group("/admin", httpx.RequireRole(user.RoleAdmin))
	admin.GET("/orders", adminListOrdersHandler(a.orders))
	admin.PUT("/orders/:id/status", adminUpdateOrderStatusHandler(a.orders))
	admin.DELETE("/orders/:id", adminDeleteOrderHandler(a.orders))
	admin.POST("/orders/:id/payment/verify", adminVerifyPaymentHandler(a.orders, a.reconciler))
	admin.GET("/payments", adminListPaymentsHandler(a.payments))
	admin.GET("/customers", adminListCustomersHandler(a.users))
	admin.DELETE("/customers/:id", adminDeleteCustomerHandler(a.users, a.disk))
	admin.POST("/products", createProductHandler(a.products))
	admin.PUT("/products/:id", updateProductHandler(a.products))
	admin.DELETE("/products/:id", deleteProductHandler(a.products, a.disk))
	admin.PUT("/products/:id/image", uploadProductImageHandler(a.products, a.disk))
	return r
}

func isSessionError(err error) bool {
	return errors.Is(err, session.ErrInvalidToken)
}

// healthHandler godoc
//
//	@Summary	Liveness and database reachability
//	@Tags		ops
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Failure	503	{object}	httpx.ErrorResponse
//	@Router		/healthz [get]
func healthHandler(ping func(context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			if err := ping(c.Request.Context()); err != nil {
				httpx.Error(c, http.StatusServiceUnavailable, "database unavailable")
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func intQuery(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}
