package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/swaggo/swag"

	"github.com/MikeMC777/catering-ecom/internal/gateway"
	"github.com/MikeMC777/catering-ecom/internal/metrics"
	"github.com/MikeMC777/catering-ecom/internal/order"
	"github.com/MikeMC777/catering-ecom/internal/payment"
	"github.com/MikeMC777/catering-ecom/internal/product"
	"github.com/MikeMC777/catering-ecom/internal/session"
	"github.com/MikeMC777/catering-ecom/internal/storage"
	"github.com/MikeMC777/catering-ecom/internal/testutil"
	"github.com/MikeMC777/catering-ecom/internal/user"
)

const testServerKey = "SB-Mid-server-test"

func init() {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
}

//
// ---------- HELPERS ----------
//

type harness struct {
	app     *app
	store   *testutil.Store
	gw      *testutil.FakeGateway
	router  *gin.Engine
	product *product.Product
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	s := testutil.NewStore()
	gw := &testutil.FakeGateway{}
	disk, err := storage.NewLocalDisk(t.TempDir(), "http://localhost:8080/storage")
	if err != nil {
		t.Fatalf("disk: %v", err)
	}
	sessions := session.NewManager(s.Users(), session.NewMemoryRevoker(), disk, "test-secret", time.Hour)
	a := &app{
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		users:      s.Users(),
		products:   s.Products(),
		orders:     s.Orders(),
		payments:   s.Payments(),
		placer:     &order.Placer{Orders: s.Orders(), Products: s.Products()},
		checkout:   &payment.Checkout{Orders: s.Orders(), Users: s.Users(), Products: s.Products(), Gateway: gw, BaseURL: "https://shop.example"},
		reconciler: payment.NewReconciler(s.Ledger(), testServerKey),
		sessions:   sessions,
		disk:       disk,
		metrics:    metrics.New(),
	}
	return &harness{
		app:     a,
		store:   s,
		gw:      gw,
		router:  a.router(),
		product: testutil.SeedProduct(t, s, "Wedding Buffet", 120000),
	}
}

func (h *harness) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

// register signs up a customer through the API and returns its token and id.
func (h *harness) register(t *testing.T, email string) (string, string) {
	t.Helper()
	w := h.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": email, "password": "rahasia123", "name": "Budi Santoso",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register status=%d body=%s", w.Code, w.Body.String())
	}
	var sess session.Session
	if err := json.Unmarshal(w.Body.Bytes(), &sess); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return sess.Token, sess.User.ID
}

func (h *harness) adminToken(t *testing.T) string {
	t.Helper()
	hash, err := user.HashPassword("admin-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &user.User{ID: uuid.NewString(), Email: "admin@catering.test", PasswordHash: hash, Name: "Admin", Role: user.RoleAdmin}
	if err := h.store.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	w := h.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": u.Email, "password": "admin-pass"})
	if w.Code != http.StatusOK {
		t.Fatalf("admin login status=%d body=%s", w.Code, w.Body.String())
	}
	var sess session.Session
	_ = json.Unmarshal(w.Body.Bytes(), &sess)
	return sess.Token
}

func (h *harness) placeOrder(t *testing.T, token string) order.Order {
	t.Helper()
	w := h.do(t, http.MethodPost, "/orders", token, map[string]any{
		"product_id": h.product.ID,
		"quantity":   10,
		"event_date": "2026-12-24",
		"event_time": "18:30",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create order status=%d body=%s", w.Code, w.Body.String())
	}
	var o order.Order
	if err := json.Unmarshal(w.Body.Bytes(), &o); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	return o
}

func signedNotification(orderID, status, gross string) payment.Notification {
	return payment.Notification{
		OrderID:           orderID,
		StatusCode:        "200",
		GrossAmount:       gross,
		TransactionStatus: status,
		TransactionID:     "tx-" + orderID,
		PaymentType:       "bank_transfer",
		SignatureKey:      payment.Signature(orderID, "200", gross, testServerKey),
	}
}

func (h *harness) order(t *testing.T, id string) *order.Order {
	t.Helper()
	o, err := h.store.Orders().GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	return o
}

//
// ---------- TESTS ----------
//

func TestRegisterLoginMe(t *testing.T) {
	h := newHarness(t)
	h.register(t, "budi@example.com")

	w := h.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "BUDI@example.com", "password": "rahasia123", "name": "Other",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate status=%d body=%s", w.Code, w.Body.String())
	}

	w = h.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "budi@example.com", "password": "wrong-pass"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login status=%d body=%s", w.Code, w.Body.String())
	}

	w = h.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "budi@example.com", "password": "rahasia123"})
	if w.Code != http.StatusOK {
		t.Fatalf("login status=%d body=%s", w.Code, w.Body.String())
	}
	var sess session.Session
	_ = json.Unmarshal(w.Body.Bytes(), &sess)

	w = h.do(t, http.MethodGet, "/me", sess.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me status=%d body=%s", w.Code, w.Body.String())
	}

	w = h.do(t, http.MethodPost, "/auth/logout", sess.Token, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("logout status=%d body=%s", w.Code, w.Body.String())
	}
	w = h.do(t, http.MethodGet, "/me", sess.Token, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestCreateOrder(t *testing.T) {
	h := newHarness(t)
	token, uid := h.register(t, "budi@example.com")

	o := h.placeOrder(t, token)
	if o.UserID != uid || o.Status != order.StatusPending || o.PaymentStatus != order.PaymentPending {
		t.Fatalf("unexpected order %+v", o)
	}
	if o.TotalAmount.String() != "1200000" {
		t.Fatalf("total=%s", o.TotalAmount)
	}

	w := h.do(t, http.MethodPost, "/orders", token, map[string]any{
		"product_id": h.product.ID, "quantity": 1, "event_date": "24/12/2026", "event_time": "18:30",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad date status=%d body=%s", w.Code, w.Body.String())
	}

	w = h.do(t, http.MethodPost, "/orders", "", map[string]any{"product_id": h.product.ID})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestGetOrder_OtherCustomerIsHidden(t *testing.T) {
	h := newHarness(t)
	owner, _ := h.register(t, "budi@example.com")
	stranger, _ := h.register(t, "siti@example.com")
	o := h.placeOrder(t, owner)

	if w := h.do(t, http.MethodGet, "/orders/"+o.ID, stranger, nil); w.Code != http.StatusNotFound {
		t.Fatalf("stranger status=%d body=%s", w.Code, w.Body.String())
	}
	if w := h.do(t, http.MethodGet, "/orders/"+o.ID, owner, nil); w.Code != http.StatusOK {
		t.Fatalf("owner status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestNotification_Settlement(t *testing.T) {
	h := newHarness(t)
	token, _ := h.register(t, "budi@example.com")
	o := h.placeOrder(t, token)

	w := h.do(t, http.MethodPost, "/payments/notification", "", signedNotification(o.ID, "settlement", "1200000.00"))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	got := h.order(t, o.ID)
	if got.PaymentStatus != order.PaymentPaid || got.Status != order.StatusConfirmed {
		t.Fatalf("order not reconciled: %+v", got)
	}

	w = h.do(t, http.MethodGet, "/orders/"+o.ID+"/payment", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("payment status=%d body=%s", w.Code, w.Body.String())
	}
	var p payment.Payment
	_ = json.Unmarshal(w.Body.Bytes(), &p)
	if p.Status != payment.StatusCompleted || p.PaymentDate == nil {
		t.Fatalf("unexpected payment %+v", p)
	}
}

func TestNotification_BadSignatureChangesNothing(t *testing.T) {
	h := newHarness(t)
	token, _ := h.register(t, "budi@example.com")
	o := h.placeOrder(t, token)

	n := signedNotification(o.ID, "settlement", "1200000.00")
	n.SignatureKey = payment.Signature(o.ID, "200", "1200000.00", "forged")
	w := h.do(t, http.MethodPost, "/payments/notification", "", n)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if got := h.order(t, o.ID); got.PaymentStatus != order.PaymentPending {
		t.Fatalf("payment status changed to %s", got.PaymentStatus)
	}
	if h.store.PaymentCount() != 0 {
		t.Fatalf("payment row written on forged notification")
	}
}

func TestNotification_InvalidAndUnknown(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodPost, "/payments/notification", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed status=%d body=%s", w.Code, w.Body.String())
	}

	w = h.do(t, http.MethodPost, "/payments/notification", "", payment.Notification{OrderID: "x"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing fields status=%d body=%s", w.Code, w.Body.String())
	}

	w = h.do(t, http.MethodPost, "/payments/notification", "", signedNotification("no-such-order", "settlement", "5000"))
	if w.Code != http.StatusOK {
		t.Fatalf("unknown order status=%d body=%s", w.Code, w.Body.String())
	}
	var ack NotificationAck
	_ = json.Unmarshal(w.Body.Bytes(), &ack)
	if ack.Status != "ignored" {
		t.Fatalf("ack=%+v", ack)
	}
}

func TestCreateToken(t *testing.T) {
	h := newHarness(t)
	token, _ := h.register(t, "budi@example.com")
	o := h.placeOrder(t, token)

	w := h.do(t, http.MethodPost, "/payments/token", token, TokenRequest{OrderID: o.ID})
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var res payment.TokenResult
	_ = json.Unmarshal(w.Body.Bytes(), &res)
	if res.Token != "tok-"+o.ID || res.Order.ProductName != "Wedding Buffet" {
		t.Fatalf("unexpected token result %+v", res)
	}

	w = h.do(t, http.MethodPost, "/payments/token", token, TokenRequest{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing id status=%d body=%s", w.Code, w.Body.String())
	}
	w = h.do(t, http.MethodPost, "/payments/token", token, TokenRequest{OrderID: "nope"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown order status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestCreateToken_AlreadyPaid(t *testing.T) {
	h := newHarness(t)
	token, _ := h.register(t, "budi@example.com")
	o := h.placeOrder(t, token)

	if w := h.do(t, http.MethodPost, "/payments/notification", "", signedNotification(o.ID, "capture", "1200000")); w.Code != http.StatusOK {
		t.Fatalf("notification status=%d body=%s", w.Code, w.Body.String())
	}
	w := h.do(t, http.MethodPost, "/payments/token", token, TokenRequest{OrderID: o.ID})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if h.gw.CreateCalls() != 0 {
		t.Fatalf("gateway called for a paid order")
	}
}

func TestCreateToken_GatewayDown(t *testing.T) {
	h := newHarness(t)
	token, _ := h.register(t, "budi@example.com")
	o := h.placeOrder(t, token)
	h.gw.TokenErr = &gateway.APIError{StatusCode: 503, Messages: []string{"maintenance"}}

	w := h.do(t, http.MethodPost, "/payments/token", token, TokenRequest{OrderID: o.ID})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestPaymentStatus(t *testing.T) {
	h := newHarness(t)
	token, _ := h.register(t, "budi@example.com")
	o := h.placeOrder(t, token)
	h.gw.StatusRes = &gateway.StatusResponse{StatusCode: "200", OrderID: o.ID, TransactionStatus: "settlement"}

	if w := h.do(t, http.MethodGet, "/payments/status", token, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("missing id status=%d body=%s", w.Code, w.Body.String())
	}
	w := h.do(t, http.MethodGet, "/payments/status?order_id="+o.ID, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	// the status check never touches local state
	if got := h.order(t, o.ID); got.PaymentStatus != order.PaymentPending {
		t.Fatalf("payment status changed to %s", got.PaymentStatus)
	}

	h.gw.StatusErr = gateway.ErrTransactionNotFound
	if w := h.do(t, http.MethodGet, "/payments/status?order_id="+o.ID, token, nil); w.Code != http.StatusNotFound {
		t.Fatalf("no transaction status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestAdminRoutes(t *testing.T) {
	h := newHarness(t)
	customer, _ := h.register(t, "budi@example.com")
	admin := h.adminToken(t)
	o := h.placeOrder(t, customer)

	if w := h.do(t, http.MethodGet, "/admin/orders", customer, nil); w.Code != http.StatusForbidden {
		t.Fatalf("customer status=%d body=%s", w.Code, w.Body.String())
	}
	if w := h.do(t, http.MethodGet, "/admin/orders", admin, nil); w.Code != http.StatusOK {
		t.Fatalf("admin status=%d body=%s", w.Code, w.Body.String())
	}

	w := h.do(t, http.MethodPut, "/admin/orders/"+o.ID+"/status", admin, order.UpdateStatusRequest{Status: "shipped"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid status=%d body=%s", w.Code, w.Body.String())
	}
	w = h.do(t, http.MethodPut, "/admin/orders/"+o.ID+"/status", admin, order.UpdateStatusRequest{Status: "preparing"})
	if w.Code != http.StatusOK {
		t.Fatalf("update status=%d body=%s", w.Code, w.Body.String())
	}
	if got := h.order(t, o.ID); got.Status != order.StatusPreparing {
		t.Fatalf("status=%s", got.Status)
	}

	w = h.do(t, http.MethodPost, "/admin/orders/"+o.ID+"/payment/verify", admin, VerifyPaymentRequest{})
	if w.Code != http.StatusOK {
		t.Fatalf("verify status=%d body=%s", w.Code, w.Body.String())
	}
	if got := h.order(t, o.ID); got.PaymentStatus != order.PaymentPaid {
		t.Fatalf("payment status=%s", got.PaymentStatus)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t)
	if w := h.do(t, http.MethodGet, "/healthz", "", nil); w.Code != http.StatusOK {
		t.Fatalf("healthz status=%d body=%s", w.Code, w.Body.String())
	}
	h.do(t, http.MethodPost, "/payments/notification", "", payment.Notification{})
	w := h.do(t, http.MethodGet, "/metrics", "", nil)
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte(`outcome="invalid"`)) {
		t.Fatalf("metrics status=%d body=%s", w.Code, w.Body.String())
	}
}

// failingProducts lets a test break one repository call.
type failingProducts struct {
	product.Repository
	deleteErr error
}

func (f failingProducts) Delete(context.Context, string) (bool, error) { return false, f.deleteErr }

func TestGetProduct_MalformedID(t *testing.T) {
	h := newHarness(t)
	if w := h.do(t, http.MethodGet, "/products/not-a-uuid", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if w := h.do(t, http.MethodGet, "/products/"+h.product.ID, "", nil); w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestDeleteProduct(t *testing.T) {
	h := newHarness(t)
	customer, _ := h.register(t, "budi@example.com")
	admin := h.adminToken(t)
	h.placeOrder(t, customer)

	w := h.do(t, http.MethodDelete, "/admin/products/"+h.product.ID, admin, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("in use status=%d body=%s", w.Code, w.Body.String())
	}

	spare := testutil.SeedProduct(t, h.store, "Office Lunch Box", 35000)
	h.app.products = failingProducts{Repository: h.store.Products(), deleteErr: errors.New("connection reset")}
	h.router = h.app.router()
	w = h.do(t, http.MethodDelete, "/admin/products/"+spare.ID, admin, nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("store failure status=%d body=%s", w.Code, w.Body.String())
	}

	h.app.products = h.store.Products()
	h.router = h.app.router()
	w = h.do(t, http.MethodDelete, "/admin/products/"+spare.ID, admin, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d body=%s", w.Code, w.Body.String())
	}
	if w := h.do(t, http.MethodGet, "/products/"+spare.ID, "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("after delete status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestDeleteCustomer(t *testing.T) {
	h := newHarness(t)
	buyer, _ := h.register(t, "budi@example.com")
	_, idle := h.register(t, "siti@example.com")
	admin := h.adminToken(t)
	o := h.placeOrder(t, buyer)

	w := h.do(t, http.MethodDelete, "/admin/customers/"+o.UserID, admin, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("with orders status=%d body=%s", w.Code, w.Body.String())
	}
	w = h.do(t, http.MethodDelete, "/admin/customers/"+idle, buyer, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("customer status=%d body=%s", w.Code, w.Body.String())
	}
	w = h.do(t, http.MethodDelete, "/admin/customers/"+idle, admin, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d body=%s", w.Code, w.Body.String())
	}
	w = h.do(t, http.MethodDelete, "/admin/customers/"+idle, admin, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete status=%d body=%s", w.Code, w.Body.String())
	}

	me := h.do(t, http.MethodGet, "/me", admin, nil)
	var u user.User
	_ = json.Unmarshal(me.Body.Bytes(), &u)
	w = h.do(t, http.MethodDelete, "/admin/customers/"+u.ID, admin, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("self delete status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestNotification_RedeliveryKeepsFulfilment(t *testing.T) {
	h := newHarness(t)
	customer, _ := h.register(t, "budi@example.com")
	admin := h.adminToken(t)
	o := h.placeOrder(t, customer)
	n := signedNotification(o.ID, "settlement", "1200000.00")

	if w := h.do(t, http.MethodPost, "/payments/notification", "", n); w.Code != http.StatusOK {
		t.Fatalf("first delivery status=%d body=%s", w.Code, w.Body.String())
	}
	w := h.do(t, http.MethodPut, "/admin/orders/"+o.ID+"/status", admin, order.UpdateStatusRequest{Status: "delivered"})
	if w.Code != http.StatusOK {
		t.Fatalf("update status=%d body=%s", w.Code, w.Body.String())
	}
	if w := h.do(t, http.MethodPost, "/payments/notification", "", n); w.Code != http.StatusOK {
		t.Fatalf("redelivery status=%d body=%s", w.Code, w.Body.String())
	}
	if w := h.do(t, http.MethodPost, "/payments/notification", "", signedNotification(o.ID, "expire", "1200000.00")); w.Code != http.StatusOK {
		t.Fatalf("late expire status=%d body=%s", w.Code, w.Body.String())
	}

	got := h.order(t, o.ID)
	if got.Status != order.StatusDelivered || got.PaymentStatus != order.PaymentPaid {
		t.Fatalf("order changed by redelivery: status=%s payment_status=%s", got.Status, got.PaymentStatus)
	}
}

func TestVerifyPayment_AlreadyPaidByGateway(t *testing.T) {
	h := newHarness(t)
	customer, _ := h.register(t, "budi@example.com")
	admin := h.adminToken(t)
	o := h.placeOrder(t, customer)

	if w := h.do(t, http.MethodPost, "/payments/notification", "", signedNotification(o.ID, "settlement", "1200000")); w.Code != http.StatusOK {
		t.Fatalf("notification status=%d body=%s", w.Code, w.Body.String())
	}
	w := h.do(t, http.MethodPost, "/admin/orders/"+o.ID+"/payment/verify", admin, VerifyPaymentRequest{})
	if w.Code != http.StatusConflict {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	p, err := h.store.Payments().GetByOrderID(context.Background(), o.ID)
	if err != nil {
		t.Fatalf("payment: %v", err)
	}
	if p.Method != "bank_transfer" {
		t.Fatalf("method=%s", p.Method)
	}
}

func TestRoutesAreDocumented(t *testing.T) {
	h := newHarness(t)
	raw, err := swag.ReadDoc()
	if err != nil {
		t.Fatalf("read doc: %v", err)
	}
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("decode doc: %v", err)
	}

	undocumented := map[string]bool{"/metrics": true, "/swagger/*any": true}
	for _, r := range h.router.Routes() {
		if undocumented[r.Path] || strings.HasPrefix(r.Path, "/storage") {
			continue
		}
		parts := strings.Split(r.Path, "/")
		for i, p := range parts {
			if strings.HasPrefix(p, ":") {
				parts[i] = "{" + p[1:] + "}"
			}
		}
		path := strings.Join(parts, "/")
		if _, ok := doc.Paths[path][strings.ToLower(r.Method)]; !ok {
			t.Errorf("%s %s missing from the OpenAPI document", r.Method, path)
		}
	}
}
