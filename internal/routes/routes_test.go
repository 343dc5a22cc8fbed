package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/restaurant-app/internal/audit"
	"github.com/BruksfildServices01/restaurant-app/internal/config"
	dbpkg "github.com/BruksfildServices01/restaurant-app/internal/db"
	"github.com/BruksfildServices01/restaurant-app/internal/db/dbtest"
	"github.com/BruksfildServices01/restaurant-app/internal/events"
	"github.com/BruksfildServices01/restaurant-app/internal/logger"
	"github.com/BruksfildServices01/restaurant-app/internal/models"
)

const (
	cookieName    = "sid"
	adminEmail    = "admin@example.com"
	adminPassword = "admin123"
)

// ======================================================
// Harness
// ======================================================

type mailbox struct {
	mu    sync.Mutex
	codes map[string]string
	err   error
}

func (m *mailbox) SendOTP(_ context.Context, to, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.codes[to] = code
	return nil
}

func (m *mailbox) last(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[to]
}

type harness struct {
	t          *testing.T
	r          *gin.Engine
	db         *gorm.DB
	mail       *mailbox
	events     *events.Recorder
	dispatcher *audit.Dispatcher
}

func newHarness(t *testing.T, mutate ...func(*config.Config)) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Debug: true,
		Session: config.SessionConfig{
			Secret:     "test-secret",
			TTL:        time.Hour,
			CookieName: cookieName,
		},
		OTP: config.OTPConfig{TTL: time.Minute, FailOpen: true},
	}
	for _, m := range mutate {
		m(cfg)
	}

	db := dbtest.New(t)
	log := logger.Discard()
	if err := dbpkg.SeedAdmin(context.Background(), db, adminEmail, adminPassword, log); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	h := &harness{
		t:      t,
		r:      gin.New(),
		db:     db,
		mail:   &mailbox{codes: map[string]string{}},
		events: &events.Recorder{},
	}
	h.dispatcher = audit.NewDispatcher(audit.New(db), nil, log)
	t.Cleanup(h.dispatcher.Close)

	RegisterRoutes(h.r, Deps{
		DB:        db,
		Config:    cfg,
		Log:       log,
		Notifier:  h.mail,
		Publisher: h.events,
		Auditor:   h.dispatcher,
	})
	return h
}

// client carries one session cookie between requests.
type client struct {
	h      *harness
	cookie string
}

func (h *harness) client() *client { return &client{h: h} }

func (c *client) do(method, path string, body any, header ...string) *httptest.ResponseRecorder {
	c.h.t.Helper()

	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case string:
		rd = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			c.h.t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rd)
	if _, isForm := body.(string); isForm {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	if c.cookie != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: c.cookie})
	}

	w := httptest.NewRecorder()
	c.h.r.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		if ck.Name != cookieName {
			continue
		}
		if ck.MaxAge < 0 || ck.Value == "" {
			c.cookie = ""
		} else {
			c.cookie = ck.Value
		}
	}
	return w
}

func (c *client) json(method, path string, body any) *httptest.ResponseRecorder {
	return c.do(method, path, body, "Accept", "application/json")
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d; body=%s", w.Code, want, w.Body.String())
	}
}

func (h *harness) customer(email string) *client {
	h.t.Helper()
	c := h.client()
	expectStatus(h.t, c.json(http.MethodPost, "/register", gin.H{"email": email, "password": "pw"}), http.StatusCreated)
	expectStatus(h.t, c.json(http.MethodPost, "/otp_login", gin.H{"email": email, "password": "pw"}), http.StatusOK)
	return c
}

func (h *harness) admin() *client {
	h.t.Helper()
	c := h.client()
	expectStatus(h.t, c.json(http.MethodPost, "/admin/login", gin.H{"email": adminEmail, "password": adminPassword}), http.StatusOK)
	return c
}

func (h *harness) count(model any) int64 {
	h.t.Helper()
	var n int64
	if err := h.db.Model(model).Count(&n).Error; err != nil {
		h.t.Fatalf("count: %v", err)
	}
	return n
}

func (h *harness) userID(email string) uint {
	h.t.Helper()
	var u models.User
	if err := h.db.Where("email = ?", email).First(&u).Error; err != nil {
		h.t.Fatalf("find user %s: %v", email, err)
	}
	return u.ID
}

// ======================================================
// Public / auth
// ======================================================

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t)
	c := h.client()

	expectStatus(t, c.do(http.MethodGet, "/health", nil), http.StatusOK)

	w := c.do(http.MethodGet, "/metrics", nil)
	expectStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), "restaurant_http_requests_total") {
		t.Fatalf("metrics output missing request counter")
	}
}

func TestRegisterThenPasswordLogin(t *testing.T) {
	h := newHarness(t)
	c := h.client()

	w := c.json(http.MethodPost, "/register", gin.H{"email": "a@x.com", "password": "pw"})
	expectStatus(t, w, http.StatusCreated)

	w = c.json(http.MethodPost, "/otp_login", gin.H{"email": "a@x.com", "password": "pw"})
	expectStatus(t, w, http.StatusOK)
	body := decode(t, w)
	if body["redirect"] != "/customer/" {
		t.Fatalf("redirect = %v", body["redirect"])
	}
	if c.cookie == "" {
		t.Fatalf("expected a session cookie after login")
	}

	w = c.json(http.MethodGet, "/customer/dashboard", nil)
	expectStatus(t, w, http.StatusOK)
	if decode(t, w)["email"] != "a@x.com" {
		t.Fatalf("panel email = %s", w.Body.String())
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h := newHarness(t)
	h.customer("a@x.com")

	w := h.client().json(http.MethodPost, "/register", gin.H{"email": "A@X.com", "password": "other"})
	expectStatus(t, w, http.StatusConflict)
	if decode(t, w)["error"] != "email_already_registered" {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestWrongPasswordIsRejected(t *testing.T) {
	h := newHarness(t)
	h.customer("a@x.com")

	c := h.client()
	w := c.json(http.MethodPost, "/otp_login", gin.H{"email": "a@x.com", "password": "nope"})
	expectStatus(t, w, http.StatusUnauthorized)
	if c.cookie != "" {
		t.Fatalf("failed login must not authenticate")
	}
}

func TestLoginHonoursStoredNext(t *testing.T) {
	h := newHarness(t)
	h.customer("a@x.com")

	c := h.client()
	expectStatus(t, c.json(http.MethodGet, "/otp_login?next=/customer/api/customer-data", nil), http.StatusOK)

	w := c.do(http.MethodPost, "/otp_login", "email=a%40x.com&password=pw")
	expectStatus(t, w, http.StatusSeeOther)
	if loc := w.Header().Get("Location"); loc != "/customer/api/customer-data" {
		t.Fatalf("location = %q", loc)
	}
}

func TestLoginIgnoresOffsiteNext(t *testing.T) {
	h := newHarness(t)
	h.customer("a@x.com")

	c := h.client()
	c.json(http.MethodGet, "/otp_login?next=//evil.example", nil)

	w := c.do(http.MethodPost, "/otp_login", "email=a%40x.com&password=pw")
	expectStatus(t, w, http.StatusSeeOther)
	if loc := w.Header().Get("Location"); loc != "/customer/" {
		t.Fatalf("location = %q", loc)
	}
}

func TestOTPLoginIsOneTime(t *testing.T) {
	h := newHarness(t)
	h.customer("a@x.com")

	c := h.client()
	w := c.json(http.MethodPost, "/send-otp", gin.H{"email": "a@x.com"})
	expectStatus(t, w, http.StatusOK)
	code := h.mail.last("a@x.com")
	if len(code) != 6 {
		t.Fatalf("code = %q", code)
	}

	w = c.json(http.MethodPost, "/verify-otp", gin.H{"email": "a@x.com", "otp": code})
	expectStatus(t, w, http.StatusOK)

	other := h.client()
	w = other.json(http.MethodPost, "/verify-otp", gin.H{"email": "a@x.com", "otp": code})
	expectStatus(t, w, http.StatusUnauthorized)
	if decode(t, w)["error"] != "invalid_otp" {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestInvalidOTPFormRedirectsBack(t *testing.T) {
	h := newHarness(t)
	h.customer("a@x.com")

	w := h.client().do(http.MethodPost, "/verify-otp", "email=a%40x.com&otp=000000")
	expectStatus(t, w, http.StatusSeeOther)
	if loc := w.Header().Get("Location"); loc != "/otp_login?error=invalid_otp" {
		t.Fatalf("location = %q", loc)
	}
}

func TestSendOTPUnknownEmail(t *testing.T) {
	h := newHarness(t)

	w := h.client().json(http.MethodPost, "/send-otp", gin.H{"email": "ghost@x.com"})
	expectStatus(t, w, http.StatusBadRequest)
	if decode(t, w)["error"] != "email_not_registered" {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestSendOTPFailClosed(t *testing.T) {
	h := newHarness(t, func(cfg *config.Config) { cfg.OTP.FailOpen = false })
	h.customer("a@x.com")
	h.mail.err = errors.New("smtp down")

	w := h.client().json(http.MethodPost, "/send-otp", gin.H{"email": "a@x.com"})
	expectStatus(t, w, http.StatusBadGateway)
}

func TestSendOTPFailOpen(t *testing.T) {
	h := newHarness(t)
	h.customer("a@x.com")
	h.mail.err = errors.New("smtp down")

	w := h.client().json(http.MethodPost, "/send-otp", gin.H{"email": "a@x.com"})
	expectStatus(t, w, http.StatusOK)
	if decode(t, w)["success"] != true {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestLogoutClearsSession(t *testing.T) {
	h := newHarness(t)
	c := h.customer("a@x.com")

	expectStatus(t, c.do(http.MethodGet, "/logout", nil), http.StatusSeeOther)

	w := c.json(http.MethodGet, "/customer/api/customer-data", nil)
	expectStatus(t, w, http.StatusUnauthorized)
}

// ======================================================
// Customer
// ======================================================

func TestBookingsRequireSession(t *testing.T) {
	h := newHarness(t)
	c := h.client()

	cases := []struct {
		path    string
		body    any
		message string
	}{
		{"/customer/api/orders", gin.H{"items": []any{}, "total": 10}, "Please login to place an order."},
		{"/customer/api/private-room", gin.H{"date": "2026-01-01", "time": "19:00"}, "Please login to book a private room."},
		{"/customer/api/event-reservation", gin.H{"event_type": "birthday", "guests": 10}, "Please login to reserve an event."},
	}
	for _, tc := range cases {
		w := c.do(http.MethodPost, tc.path, tc.body)
		expectStatus(t, w, http.StatusUnauthorized)
		body := decode(t, w)
		if body["login_required"] != true || body["message"] != tc.message {
			t.Fatalf("%s: body = %s", tc.path, w.Body.String())
		}
	}

	if n := h.count(&models.Order{}) + h.count(&models.PrivateRoom{}) + h.count(&models.Event{}); n != 0 {
		t.Fatalf("anonymous requests persisted %d rows", n)
	}
}

func TestCustomerDataRequiresSession(t *testing.T) {
	h := newHarness(t)

	w := h.client().json(http.MethodGet, "/customer/api/customer-data", nil)
	expectStatus(t, w, http.StatusUnauthorized)
	if body := decode(t, w); body["error"] != "Unauthorized" || len(body) != 1 {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestCustomerPanelRedirectsAnonymousBrowsers(t *testing.T) {
	h := newHarness(t)

	w := h.client().do(http.MethodGet, "/customer/dashboard", nil)
	expectStatus(t, w, http.StatusSeeOther)
	if loc := w.Header().Get("Location"); loc != "/otp_login?next=%2Fcustomer%2Fdashboard" {
		t.Fatalf("location = %q", loc)
	}
}

func TestCustomerBookingsFlow(t *testing.T) {
	h := newHarness(t)
	c := h.customer("a@x.com")

	w := c.do(http.MethodPost, "/customer/api/orders", gin.H{
		"items": []gin.H{{"name": "Pizza", "price": 10, "quantity": 2}},
		"total": 20,
		"delivery": gin.H{
			"method":  "Delivery",
			"address": "1 Main St",
		},
	})
	expectStatus(t, w, http.StatusCreated)
	if decode(t, w)["order_id"] == nil {
		t.Fatalf("missing order_id: %s", w.Body.String())
	}

	w = c.do(http.MethodPost, "/customer/api/private-room", gin.H{
		"date":            "2026-02-14",
		"time":            "20:00",
		"specialRequests": "window seat",
	})
	expectStatus(t, w, http.StatusCreated)

	w = c.do(http.MethodPost, "/customer/api/event-reservation", gin.H{
		"event_type": "birthday",
		"guests":     "12",
		"date":       "2026-03-01",
	})
	expectStatus(t, w, http.StatusCreated)

	w = c.json(http.MethodGet, "/customer/api/customer-data", nil)
	expectStatus(t, w, http.StatusOK)

	var data struct {
		Email  string               `json:"email"`
		Orders []models.Order       `json:"orders"`
		Rooms  []models.PrivateRoom `json:"private_rooms"`
		Events []models.Event       `json:"events"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(data.Orders) != 1 || len(data.Rooms) != 1 || len(data.Events) != 1 {
		t.Fatalf("unexpected data: %+v", data)
	}
	if data.Orders[0].Status != "Pending" || data.Orders[0].Method != "Delivery" {
		t.Fatalf("order = %+v", data.Orders[0])
	}
	if data.Rooms[0].Name != "Anonymous" || data.Rooms[0].Message != "window seat" {
		t.Fatalf("room = %+v", data.Rooms[0])
	}
	if data.Events[0].Guests != 12 {
		t.Fatalf("event = %+v", data.Events[0])
	}

	want := []string{events.OrderCreated, events.PrivateRoomBooked, events.EventReserved}
	if got := h.events.Subjects(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("published = %v", got)
	}
}

func TestCustomerDataIsScoped(t *testing.T) {
	h := newHarness(t)
	a := h.customer("a@x.com")
	b := h.customer("b@x.com")

	expectStatus(t, a.do(http.MethodPost, "/customer/api/orders", gin.H{"total": 5}), http.StatusCreated)

	w := b.json(http.MethodGet, "/customer/api/customer-data", nil)
	expectStatus(t, w, http.StatusOK)
	if orders, _ := decode(t, w)["orders"].([]any); len(orders) != 0 {
		t.Fatalf("b sees a's orders: %s", w.Body.String())
	}
}

func TestCreateOrderRejectsBadJSON(t *testing.T) {
	h := newHarness(t)
	c := h.customer("a@x.com")

	w := c.do(http.MethodPost, "/customer/api/orders", "not json", "Content-Type", "application/json")
	expectStatus(t, w, http.StatusBadRequest)
	if h.count(&models.Order{}) != 0 {
		t.Fatalf("bad payload persisted an order")
	}
}

// ======================================================
// Admin
// ======================================================

func TestAdminRoutesRejectCustomers(t *testing.T) {
	h := newHarness(t)
	c := h.customer("a@x.com")

	w := c.json(http.MethodGet, "/admin/dashboard", nil)
	expectStatus(t, w, http.StatusForbidden)

	w = h.client().do(http.MethodGet, "/admin/dashboard", nil)
	expectStatus(t, w, http.StatusSeeOther)
	if loc := w.Header().Get("Location"); !strings.HasPrefix(loc, "/admin/login") {
		t.Fatalf("location = %q", loc)
	}
}

func TestAdminLoginRejectsCustomers(t *testing.T) {
	h := newHarness(t)
	h.customer("a@x.com")

	w := h.client().json(http.MethodPost, "/admin/login", gin.H{"email": "a@x.com", "password": "pw"})
	expectStatus(t, w, http.StatusUnauthorized)
}

func TestAdminCompletesAndDeletesOrders(t *testing.T) {
	h := newHarness(t)
	cust := h.customer("a@x.com")
	admin := h.admin()

	w := cust.do(http.MethodPost, "/customer/api/orders", gin.H{"total": 12.5})
	expectStatus(t, w, http.StatusCreated)
	id := int(decode(t, w)["order_id"].(float64))
	path := "/admin/order/" + strconv.Itoa(id)

	w = admin.json(http.MethodPost, path+"/complete", nil)
	expectStatus(t, w, http.StatusOK)

	w = admin.json(http.MethodPost, path+"/complete", nil)
	expectStatus(t, w, http.StatusBadRequest)
	if decode(t, w)["error_code"] != "invalid_state" {
		t.Fatalf("body = %s", w.Body.String())
	}

	w = admin.json(http.MethodGet, "/admin/dashboard", nil)
	expectStatus(t, w, http.StatusOK)
	summary := decode(t, w)["summary"].(map[string]any)
	if summary["completed"].(float64) != 1 || summary["pending"].(float64) != 0 {
		t.Fatalf("summary = %v", summary)
	}

	// plain form posts bounce back to the dashboard
	w = admin.do(http.MethodPost, path+"/delete", "")
	expectStatus(t, w, http.StatusSeeOther)

	expectStatus(t, admin.json(http.MethodGet, path, nil), http.StatusNotFound)
	expectStatus(t, admin.json(http.MethodPost, "/admin/order/999/complete", nil), http.StatusNotFound)

	h.dispatcher.Close()
	w = admin.json(http.MethodGet, "/admin/audit-logs?entity=order", nil)
	expectStatus(t, w, http.StatusOK)
	if total := decode(t, w)["total"].(float64); total != 2 {
		t.Fatalf("audit total = %v", total)
	}
}

func TestAdminRoleChanges(t *testing.T) {
	h := newHarness(t)
	cust := h.customer("a@x.com")
	admin := h.admin()
	custID := strconv.Itoa(int(h.userID("a@x.com")))
	adminID := strconv.Itoa(int(h.userID(adminEmail)))

	w := admin.json(http.MethodPost, "/admin/users/"+adminID+"/demote", nil)
	expectStatus(t, w, http.StatusBadRequest)
	if decode(t, w)["error_code"] != "cannot_demote_self" {
		t.Fatalf("body = %s", w.Body.String())
	}

	w = admin.json(http.MethodPost, "/admin/users/"+custID+"/promote", nil)
	expectStatus(t, w, http.StatusOK)
	if decode(t, w)["role"] != "admin" {
		t.Fatalf("body = %s", w.Body.String())
	}

	// the promoted user's existing session picks the new role up at once
	expectStatus(t, cust.json(http.MethodGet, "/admin/dashboard", nil), http.StatusOK)

	w = admin.json(http.MethodGet, "/admin/users?role=admin", nil)
	expectStatus(t, w, http.StatusOK)
	if total := decode(t, w)["total"].(float64); total != 2 {
		t.Fatalf("admins = %v", total)
	}

	expectStatus(t, admin.json(http.MethodPost, "/admin/users/"+custID+"/demote", nil), http.StatusOK)
	expectStatus(t, cust.json(http.MethodGet, "/admin/dashboard", nil), http.StatusForbidden)

	expectStatus(t, admin.json(http.MethodGet, "/admin/users?role=chef", nil), http.StatusBadRequest)
}

func TestAdminEditsAndDeletesUsers(t *testing.T) {
	h := newHarness(t)
	cust := h.customer("a@x.com")
	admin := h.admin()
	custID := strconv.Itoa(int(h.userID("a@x.com")))
	adminID := strconv.Itoa(int(h.userID(adminEmail)))

	expectStatus(t, cust.do(http.MethodPost, "/customer/api/orders", gin.H{"total": 3}), http.StatusCreated)

	w := admin.json(http.MethodPatch, "/admin/users/"+custID, gin.H{"name": "Ana"})
	expectStatus(t, w, http.StatusOK)
	if decode(t, w)["name"] != "Ana" {
		t.Fatalf("body = %s", w.Body.String())
	}

	w = admin.json(http.MethodPatch, "/admin/users/"+custID, gin.H{"email": adminEmail})
	expectStatus(t, w, http.StatusConflict)

	w = admin.json(http.MethodDelete, "/admin/users/"+adminID, nil)
	expectStatus(t, w, http.StatusBadRequest)

	expectStatus(t, admin.json(http.MethodDelete, "/admin/users/"+custID, nil), http.StatusNoContent)
	if h.count(&models.Order{}) != 0 {
		t.Fatalf("orders of a deleted user survived")
	}
}

func TestDeletedUserSessionCannotBook(t *testing.T) {
	h := newHarness(t)
	cust := h.customer("a@x.com")
	admin := h.admin()
	custID := strconv.Itoa(int(h.userID("a@x.com")))

	expectStatus(t, admin.json(http.MethodDelete, "/admin/users/"+custID, nil), http.StatusNoContent)

	w := cust.do(http.MethodPost, "/customer/api/orders", gin.H{"total": 3})
	expectStatus(t, w, http.StatusUnauthorized)
	if decode(t, w)["login_required"] != true {
		t.Fatalf("body = %s", w.Body.String())
	}
	expectStatus(t, cust.json(http.MethodGet, "/customer/api/customer-data", nil), http.StatusUnauthorized)

	if h.count(&models.Order{}) != 0 {
		t.Fatalf("deleted user persisted an order")
	}
}

func TestDebugDataOnlyInDebugMode(t *testing.T) {
	t.Run("on", func(t *testing.T) {
		h := newHarness(t)
		w := h.customer("a@x.com").json(http.MethodGet, "/customer/debug-data", nil)
		expectStatus(t, w, http.StatusOK)
		if _, ok := decode(t, w)["counts"]; !ok {
			t.Fatalf("body = %s", w.Body.String())
		}
	})

	t.Run("off", func(t *testing.T) {
		h := newHarness(t, func(cfg *config.Config) { cfg.Debug = false })
		w := h.customer("a@x.com").json(http.MethodGet, "/customer/debug-data", nil)
		expectStatus(t, w, http.StatusNotFound)
	})
}
