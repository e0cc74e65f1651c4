package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"care4pets/internal/config"
	"care4pets/internal/database"
	"care4pets/internal/events"
	"care4pets/internal/gateways"
	"care4pets/internal/models"
	"care4pets/internal/repositories"
	"care4pets/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testEnv struct {
	app       *fiber.App
	db        *gorm.DB
	cfg       *config.Config
	productID string
}

type response struct {
	status int
	raw    string
	body   map[string]interface{}
}

func (r response) data() map[string]interface{} {
	d, _ := r.body["data"].(map[string]interface{})
	return d
}

func (r response) list() []interface{} {
	d, _ := r.body["data"].([]interface{})
	return d
}

func testConfig(name string) *config.Config {
	return &config.Config{
		Env:                "test",
		DBDriver:           "sqlite",
		DSN:                fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		JWTSecret:          "test_jwt_secret",
		JWTTTL:             time.Hour,
		CORSOrigins:        "*",
		RateLimitPerMinute: 100,
		Shipping:           config.ShippingConfig{Fee: 30000, FreeShippingThreshold: 500000},
		Bank: config.BankConfig{
			BankID:         "970422",
			BankName:       "MB Bank",
			AccountNo:      "0123456789",
			AccountName:    "CARE4PETS",
			QRTemplate:     "compact2",
			TransferPrefix: "C4P",
		},
		VNPay: config.VNPayConfig{
			TmnCode:    "TESTTMN1",
			HashSecret: "TESTSECRET",
			PayURL:     "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
			ReturnURL:  "http://localhost:5173/payment/vnpay-return",
		},
		SlotCapacity: 3,
	}
}

// setupApp builds the full application on an in-memory SQLite database with
// one product priced 200,000 VND and 10 in stock.
func setupApp(t *testing.T) *testEnv {
	t.Helper()
	cfg := testConfig(t.Name())

	db, err := database.Open(cfg.DBDriver, cfg.DSN, false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	log := zap.NewNop()
	publisher := events.NewInProcessPublisher()
	svc := server.NewServices(db, cfg, publisher, nil, log)
	publisher.Subscribe(svc.Notifications.HandleEvent)

	product := &models.Product{Name: "Royal Canin Mini Adult", Category: "food", Price: 200000, Stock: 10}
	require.NoError(t, repositories.NewGORMProductRepository(db).Create(product))

	return &testEnv{
		app:       server.New(cfg, svc, db, log),
		db:        db,
		cfg:       cfg,
		productID: product.ID,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1) // -1 for no timeout
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := response{status: resp.StatusCode, raw: string(raw)}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out.body), string(raw))
	}
	return out
}

func (e *testEnv) register(t *testing.T, username string) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.status, resp.raw)
	return e.login(t, username, "password123")
}

func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.status, resp.raw)
	token, _ := resp.data()["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, repositories.NewGORMUserRepository(e.db).Create(&models.User{
		Username: "admin",
		Email:    "admin@example.com",
		Password: string(hash),
		Role:     models.RoleAdmin,
	}))
	return e.login(t, "admin", "admin123")
}

func (e *testEnv) addToCart(t *testing.T, token string, quantity int) {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/v1/cart/items", token, map[string]interface{}{
		"productId": e.productID,
		"quantity":  quantity,
	})
	require.Equal(t, http.StatusOK, resp.status, resp.raw)
}

func checkoutBody(method string) map[string]interface{} {
	return map[string]interface{}{
		"shippingAddress": map[string]string{
			"fullName": "Nguyễn Văn A",
			"phone":    "0901234567",
			"address":  "12 Lê Lợi",
			"ward":     "Bến Nghé",
			"district": "Quận 1",
			"city":     "Hồ Chí Minh",
		},
		"paymentMethod": method,
	}
}

func (e *testEnv) checkout(t *testing.T, token, method string) response {
	t.Helper()
	e.addToCart(t, token, 2)
	resp := e.do(t, http.MethodPost, "/api/v1/orders", token, checkoutBody(method))
	require.Equal(t, http.StatusCreated, resp.status, resp.raw)
	return resp
}

func TestAuthRegisterAndLogin(t *testing.T) {
	env := setupApp(t)

	resp := env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "testuser",
		"email":    "Test@Example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.status, resp.raw)
	assert.Equal(t, "customer", resp.data()["role"])
	assert.Equal(t, "test@example.com", resp.data()["email"])
	assert.NotContains(t, resp.raw, "password")

	resp = env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "testuser",
		"email":    "other@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, resp.status)

	resp = env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "shorty",
		"email":    "not-an-email",
		"password": "123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.status)
	errs, _ := resp.body["errors"].(map[string]interface{})
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")

	resp = env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "testuser",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.status)

	token := env.login(t, "testuser", "password123")
	resp = env.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, "testuser", resp.data()["username"])

	resp = env.do(t, http.MethodPut, "/api/v1/auth/me", token, map[string]string{"fullName": "Lê Thị B", "phone": "+84912345678"})
	require.Equal(t, http.StatusOK, resp.status, resp.raw)
	assert.Equal(t, "Lê Thị B", resp.data()["fullName"])

	resp = env.do(t, http.MethodPut, "/api/v1/auth/me", token, map[string]string{"phone": "12345"})
	assert.Equal(t, http.StatusBadRequest, resp.status)

	resp = env.do(t, http.MethodGet, "/api/v1/auth/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.status)
}

func TestCatalog(t *testing.T) {
	env := setupApp(t)
	admin := env.adminToken(t)
	customer := env.register(t, "buyer")

	product := map[string]interface{}{"name": "Pate Whiskas cá ngừ", "category": "food", "price": 25000, "stock": 0}
	resp := env.do(t, http.MethodPost, "/api/v1/products", customer, product)
	assert.Equal(t, http.StatusForbidden, resp.status)

	resp = env.do(t, http.MethodPost, "/api/v1/products", admin, product)
	require.Equal(t, http.StatusCreated, resp.status, resp.raw)

	resp = env.do(t, http.MethodGet, "/api/v1/products?category=food", "", nil)
	require.Equal(t, http.StatusOK, resp.status)
	assert.EqualValues(t, 2, resp.body["total"])

	resp = env.do(t, http.MethodGet, "/api/v1/products?category=food&inStock=true", "", nil)
	require.Equal(t, http.StatusOK, resp.status)
	require.Len(t, resp.list(), 1)
	assert.Equal(t, env.productID, resp.list()[0].(map[string]interface{})["_id"])

	resp = env.do(t, http.MethodGet, "/api/v1/products?search=whiskas", "", nil)
	require.Equal(t, http.StatusOK, resp.status)
	assert.EqualValues(t, 1, resp.body["total"])

	resp = env.do(t, http.MethodDelete, "/api/v1/products/"+env.productID, admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.status)
	resp = env.do(t, http.MethodGet, "/api/v1/products/"+env.productID, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.status)
}

func TestCheckout_MissingFullNameCreatesNoOrder(t *testing.T) {
	env := setupApp(t)
	token := env.register(t, "buyer")
	env.addToCart(t, token, 1)

	body := checkoutBody(models.PaymentMethodCOD)
	address := body["shippingAddress"].(map[string]string)
	address["fullName"] = ""
	address["phone"] = "12345"

	resp := env.do(t, http.MethodPost, "/api/v1/orders", token, body)
	require.Equal(t, http.StatusBadRequest, resp.status, resp.raw)
	errs, _ := resp.body["errors"].(map[string]interface{})
	assert.Contains(t, errs, "fullName")
	assert.Contains(t, errs, "phone")

	resp = env.do(t, http.MethodGet, "/api/v1/orders", token, nil)
	require.Equal(t, http.StatusOK, resp.status)
	assert.EqualValues(t, 0, resp.body["total"])
	assert.Contains(t, resp.raw, `"data":[]`)
}

func TestCheckout_WhitespaceRecipientCreatesNoOrder(t *testing.T) {
	env := setupApp(t)
	token := env.register(t, "buyer")
	env.addToCart(t, token, 1)

	body := checkoutBody(models.PaymentMethodCOD)
	address := body["shippingAddress"].(map[string]string)
	address["fullName"] = "   "
	address["address"] = "\t"

	resp := env.do(t, http.MethodPost, "/api/v1/orders", token, body)
	require.Equal(t, http.StatusBadRequest, resp.status, resp.raw)
	errs, _ := resp.body["errors"].(map[string]interface{})
	assert.Equal(t, "fullName is required", errs["fullName"])
	assert.Equal(t, "address is required", errs["address"])

	resp = env.do(t, http.MethodGet, "/api/v1/orders", token, nil)
	require.Equal(t, http.StatusOK, resp.status)
	assert.EqualValues(t, 0, resp.body["total"])

	cart := env.do(t, http.MethodGet, "/api/v1/cart", token, nil)
	assert.EqualValues(t, 1, cart.data()["count"])
}

func TestCheckout_EmptyCart(t *testing.T) {
	env := setupApp(t)
	token := env.register(t, "buyer")

	resp := env.do(t, http.MethodPost, "/api/v1/orders", token, checkoutBody(models.PaymentMethodCOD))
	assert.Equal(t, http.StatusBadRequest, resp.status)
}

func TestCheckout_CODAndStatusMachine(t *testing.T) {
	env := setupApp(t)
	token := env.register(t, "buyer")
	admin := env.adminToken(t)

	resp := env.checkout(t, token, models.PaymentMethodCOD)
	order := resp.data()
	orderID := order["_id"].(string)
	assert.EqualValues(t, 430000, order["total"])
	assert.EqualValues(t, 400000, order["subtotal"])
	assert.EqualValues(t, 30000, order["shippingFee"])
	assert.True(t, strings.HasPrefix(order["orderNumber"].(string), "C4P"))
	assert.Equal(t, "unpaid", order["paymentStatus"])
	assert.Equal(t, true, order["canCancel"])
	assert.NotContains(t, resp.body, "nextAction")

	cart := env.do(t, http.MethodGet, "/api/v1/cart", token, nil)
	assert.EqualValues(t, 0, cart.data()["count"])

	for _, status := range []string{"confirmed", "processing", "in_progress", "completed"} {
		resp = env.do(t, http.MethodPatch, "/api/v1/admin/orders/"+orderID+"/status", admin, map[string]string{"status": status})
		require.Equal(t, http.StatusOK, resp.status, resp.raw)
	}
	delivered := resp.data()
	assert.Equal(t, "delivered", delivered["status"])
	assert.Equal(t, "paid", delivered["paymentStatus"])
	assert.Equal(t, false, delivered["canCancel"])

	resp = env.do(t, http.MethodPost, "/api/v1/orders/"+orderID+"/confirm-payment", admin, nil)
	assert.Equal(t, http.StatusConflict, resp.status)

	resp = env.do(t, http.MethodPatch, "/api/v1/admin/orders/"+orderID+"/status", admin, map[string]string{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, resp.status)

	resp = env.do(t, http.MethodPost, "/api/v1/orders/"+orderID+"/cancel", token, map[string]string{"reason": "too late"})
	assert.Equal(t, http.StatusBadRequest, resp.status)

	resp = env.do(t, http.MethodGet, "/api/v1/orders/"+orderID, token, nil)
	require.Equal(t, http.StatusOK, resp.status)
	history, _ := resp.data()["statusHistory"].([]interface{})
	assert.Len(t, history, 5)

	resp = env.do(t, http.MethodPatch, "/api/v1/admin/orders/"+orderID+"/status", token, map[string]string{"status": "refunded"})
	assert.Equal(t, http.StatusForbidden, resp.status)

	resp = env.do(t, http.MethodGet, "/api/v1/admin/orders?status=delivered", admin, nil)
	require.Equal(t, http.StatusOK, resp.status)
	assert.EqualValues(t, 1, resp.body["total"])
}

func TestCancelOrder_RestoresStock(t *testing.T) {
	env := setupApp(t)
	token := env.register(t, "buyer")
	other := env.register(t, "stranger")

	orderID := env.checkout(t, token, models.PaymentMethodCOD).data()["_id"].(string)

	product := env.do(t, http.MethodGet, "/api/v1/products/"+env.productID, "", nil)
	assert.EqualValues(t, 8, product.data()["stock"])

	resp := env.do(t, http.MethodGet, "/api/v1/orders/"+orderID, other, nil)
	assert.Equal(t, http.StatusNotFound, resp.status)

	resp = env.do(t, http.MethodPost, "/api/v1/orders/"+orderID+"/cancel", token, map[string]string{"reason": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.status)

	resp = env.do(t, http.MethodPost, "/api/v1/orders/"+orderID+"/cancel", token, map[string]string{"reason": "Đổi ý"})
	require.Equal(t, http.StatusOK, resp.status, resp.raw)
	assert.Equal(t, "cancelled", resp.data()["status"])
	assert.Equal(t, "Đổi ý", resp.data()["cancelReason"])

	product = env.do(t, http.MethodGet, "/api/v1/products/"+env.productID, "", nil)
	assert.EqualValues(t, 10, product.data()["stock"])
}

func TestBankTransferFlow(t *testing.T) {
	env := setupApp(t)
	token := env.register(t, "buyer")
	admin := env.adminToken(t)

	resp := env.checkout(t, token, models.PaymentMethodBankTransfer)
	assert.Equal(t, "qr_payment", resp.body["nextAction"])
	order := resp.data()
	orderID, _ := order["_id"].(string)
	require.NotEmpty(t, orderID)
	orderNumber := order["orderNumber"].(string)
	assert.Equal(t, "pending", order["paymentStatus"])

	resp = env.do(t, http.MethodPost, "/api/v1/orders/"+orderID+"/qr-payment", token, nil)
	require.Equal(t, http.StatusOK, resp.status, resp.raw)
	qr := resp.data()
	assert.True(t, strings.HasPrefix(qr["qrCodeUrl"].(string), "https://img.vietqr.io/image/970422-0123456789-compact2.png?"))
	assert.Equal(t, "C4P "+orderNumber, qr["transferContent"])
	assert.EqualValues(t, 430000, qr["amount"])
	assert.Equal(t, orderNumber, qr["orderNumber"])

	resp = env.do(t, http.MethodGet, "/api/v1/orders/awaiting-payment", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.status)

	for i := 0; i < 2; i++ {
		resp = env.do(t, http.MethodPost, "/api/v1/orders/"+orderID+"/confirm-transfer", token, nil)
		require.Equal(t, http.StatusOK, resp.status, resp.raw)
		assert.Equal(t, "awaiting_confirmation", resp.data()["paymentStatus"])
		assert.Equal(t, "pending", resp.data()["status"])
	}

	resp = env.do(t, http.MethodGet, "/api/v1/orders/awaiting-payment", admin, nil)
	require.Equal(t, http.StatusOK, resp.status, resp.raw)
	assert.EqualValues(t, 1, resp.body["total"])
	require.Len(t, resp.list(), 1)
	assert.Equal(t, orderID, resp.list()[0].(map[string]interface{})["_id"])

	resp = env.do(t, http.MethodPost, "/api/v1/orders/"+orderID+"/confirm-payment", admin, map[string]string{})
	require.Equal(t, http.StatusOK, resp.status, resp.raw)
	assert.Equal(t, "paid", resp.data()["paymentStatus"])
	assert.Equal(t, "confirmed", resp.data()["status"])
	assert.NotEmpty(t, resp.data()["paidAt"])

	resp = env.do(t, http.MethodPost, "/api/v1/orders/"+orderID+"/confirm-payment", admin, nil)
	assert.Equal(t, http.StatusConflict, resp.status)

	resp = env.do(t, http.MethodPost, "/api/v1/orders/"+orderID+"/qr-payment", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.status)

	resp = env.do(t, http.MethodGet, "/api/v1/notifications/unread-count", token, nil)
	require.Equal(t, http.StatusOK, resp.status)
	count, _ := resp.data()["count"].(float64)
	assert.GreaterOrEqual(t, count, float64(3))
}

func TestConfirmPayment_RejectsCODOrder(t *testing.T) {
	env := setupApp(t)
	token := env.register(t, "buyer")
	admin := env.adminToken(t)

	orderID := env.checkout(t, token, models.PaymentMethodCOD).data()["_id"].(string)

	resp := env.do(t, http.MethodPost, "/api/v1/orders/"+orderID+"/confirm-payment", admin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.status, resp.raw)

	resp = env.do(t, http.MethodGet, "/api/v1/orders/"+orderID, token, nil)
	require.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, "unpaid", resp.data()["paymentStatus"])
	assert.Equal(t, "pending", resp.data()["status"])
}

func TestAwaitingPayment_EmptyList(t *testing.T) {
	env := setupApp(t)
	admin := env.adminToken(t)

	resp := env.do(t, http.MethodGet, "/api/v1/orders/awaiting-payment?page=1&limit=500", admin, nil)
	require.Equal(t, http.StatusOK, resp.status, resp.raw)
	assert.Contains(t, resp.raw, `"data":[]`)
	assert.EqualValues(t, 0, resp.body["total"])
	assert.EqualValues(t, 0, resp.body["totalPages"])
	assert.EqualValues(t, 100, resp.body["limit"])
}

func TestEWallet_VNPayRoundTrip(t *testing.T) {
	env := setupApp(t)
	token := env.register(t, "buyer")

	resp := env.checkout(t, token, models.PaymentMethodEWallet)
	assert.Equal(t, "e_wallet", resp.body["nextAction"])
	orderID := resp.data()["_id"].(string)
	orderNumber := resp.data()["orderNumber"].(string)

	resp = env.do(t, http.MethodGet, "/api/v1/payments/e-wallets", token, nil)
	require.Equal(t, http.StatusOK, resp.status)
	assert.Len(t, resp.list(), 3)

	resp = env.do(t, http.MethodPost, "/api/v1/payments/zalopay/create-payment-url", token, map[string]string{"orderId": orderID})
	assert.Equal(t, http.StatusBadRequest, resp.status)

	resp = env.do(t, http.MethodPost, "/api/v1/payments/vnpay/create-payment-url", token, map[string]string{"orderId": orderID})
	require.Equal(t, http.StatusOK, resp.status, resp.raw)
	paymentURL, err := url.Parse(resp.data()["paymentUrl"].(string))
	require.NoError(t, err)
	assert.Equal(t, orderNumber, paymentURL.Query().Get("vnp_TxnRef"))
	assert.Equal(t, "43000000", paymentURL.Query().Get("vnp_Amount"))

	q := url.Values{}
	q.Set("vnp_TmnCode", env.cfg.VNPay.TmnCode)
	q.Set("vnp_TxnRef", orderNumber)
	q.Set("vnp_Amount", strconv.FormatInt(430000*100, 10))
	q.Set("vnp_ResponseCode", "00")
	q.Set("vnp_TransactionStatus", "00")
	q.Set("vnp_TransactionNo", "14123456")
	signature := gateways.NewVNPay(env.cfg.VNPay).Sign(q)

	resp = env.do(t, http.MethodGet, "/api/v1/payments/vnpay/return?"+q.Encode()+"&vnp_SecureHash=deadbeef", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.status)

	resp = env.do(t, http.MethodGet, "/api/v1/payments/vnpay/return?"+q.Encode()+"&vnp_SecureHash="+signature, "", nil)
	require.Equal(t, http.StatusOK, resp.status, resp.raw)
	assert.Equal(t, true, resp.data()["success"])
	assert.Equal(t, orderID, resp.data()["orderId"])

	resp = env.do(t, http.MethodGet, "/api/v1/orders/"+orderID, token, nil)
	assert.Equal(t, "paid", resp.data()["paymentStatus"])
}

func TestAppointmentsAndPets(t *testing.T) {
	env := setupApp(t)
	token := env.register(t, "owner")
	other := env.register(t, "neighbour")

	resp := env.do(t, http.MethodPost, "/api/v1/pets", token, map[string]interface{}{
		"name": "Milo", "species": "dog", "breed": "Poodle", "weight": 4.2,
	})
	require.Equal(t, http.StatusCreated, resp.status, resp.raw)
	petID := resp.data()["_id"].(string)

	resp = env.do(t, http.MethodPost, "/api/v1/pets", token, map[string]interface{}{"name": "Nemo", "species": "fish"})
	assert.Equal(t, http.StatusBadRequest, resp.status)

	resp = env.do(t, http.MethodPost, "/api/v1/pets/"+petID+"/vaccinations", token, map[string]string{
		"vaccineName": "Rabies", "date": "2024-05-01",
	})
	require.Equal(t, http.StatusCreated, resp.status, resp.raw)

	resp = env.do(t, http.MethodGet, "/api/v1/pets/"+petID+"/vaccinations", token, nil)
	require.Equal(t, http.StatusOK, resp.status)
	assert.Len(t, resp.list(), 1)

	resp = env.do(t, http.MethodGet, "/api/v1/pets/"+petID, other, nil)
	assert.Equal(t, http.StatusNotFound, resp.status)

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	booking := map[string]string{
		"petId":           petID,
		"serviceType":     "grooming",
		"appointmentDate": tomorrow,
		"timeSlot":        "09:00-10:00",
	}
	resp = env.do(t, http.MethodPost, "/api/v1/appointments", token, booking)
	require.Equal(t, http.StatusCreated, resp.status, resp.raw)
	appointmentID := resp.data()["_id"].(string)
	assert.Equal(t, "pending", resp.data()["status"])

	resp = env.do(t, http.MethodPost, "/api/v1/appointments", token, booking)
	assert.Equal(t, http.StatusConflict, resp.status)

	resp = env.do(t, http.MethodGet, "/api/v1/appointments/available-slots?date="+tomorrow, token, nil)
	require.Equal(t, http.StatusOK, resp.status, resp.raw)
	for _, s := range resp.list() {
		slot := s.(map[string]interface{})
		if slot["timeSlot"] == "09:00-10:00" {
			assert.EqualValues(t, 2, slot["remaining"])
		}
	}

	resp = env.do(t, http.MethodGet, "/api/v1/appointments/"+appointmentID, other, nil)
	assert.Equal(t, http.StatusNotFound, resp.status)

	resp = env.do(t, http.MethodPost, "/api/v1/appointments/"+appointmentID+"/cancel", token, map[string]string{"reason": "Bé bị ốm"})
	require.Equal(t, http.StatusOK, resp.status, resp.raw)
	assert.Equal(t, "cancelled", resp.data()["status"])

	resp = env.do(t, http.MethodDelete, "/api/v1/pets/"+petID, token, nil)
	assert.Equal(t, http.StatusNoContent, resp.status)
}

func TestAppointments_SlotCapacityIgnoresSpelling(t *testing.T) {
	env := setupApp(t)
	token := env.register(t, "owner")
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	book := func(name, slot string) response {
		t.Helper()
		pet := env.do(t, http.MethodPost, "/api/v1/pets", token, map[string]string{"name": name, "species": "cat"})
		require.Equal(t, http.StatusCreated, pet.status, pet.raw)
		return env.do(t, http.MethodPost, "/api/v1/appointments", token, map[string]string{
			"petId":           pet.data()["_id"].(string),
			"serviceType":     "bathing",
			"appointmentDate": tomorrow,
			"timeSlot":        slot,
		})
	}

	for _, name := range []string{"Mun", "Mướp", "Bông"} {
		resp := book(name, "09:00-10:00")
		require.Equal(t, http.StatusCreated, resp.status, resp.raw)
	}

	resp := book("Tom", "9:00-10:00")
	assert.Equal(t, http.StatusConflict, resp.status, resp.raw)

	resp = book("Jerry", "12:00-13:00")
	assert.Equal(t, http.StatusBadRequest, resp.status, resp.raw)
}
