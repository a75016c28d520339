package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"taxiweb/internal/app"
	"taxiweb/internal/config"
	"taxiweb/internal/domain"
	"taxiweb/internal/handler"
	"taxiweb/internal/service"
	"taxiweb/internal/session"
)

const sessionCookie = "ar_session"

func init() {
	gin.SetMode(gin.TestMode)
}

// harness wires the real services and router against the mocks.
type harness struct {
	authAPI    *MockAuthAPI
	pricingAPI *MockPricingAPI
	bookingAPI *MockBookingAPI
	paymentAPI *MockPaymentAPI
	locks      *MockLockStore
	recons     *MockReconciliationRepository
	publisher  *MockPublisher
	replay     *MockResponseCache
	tokens     *session.MemoryTokenStore
	sessions   *session.Registry

	auth     *service.AuthService
	bookings *service.BookingsService
	form     *service.BookingFormService
	payments *service.PaymentService
	receipts *service.ReceiptService

	router *gin.Engine
}

func testPaymentConfig() config.PaymentConfig {
	return config.PaymentConfig{
		PublishableKey:    "pk_test_123",
		Currency:          "GBP",
		CountryCode:       "GB",
		MerchantName:      "Ezza Taxi Service",
		WalletEnvironment: "TEST",
		RedirectDelay:     2500 * time.Millisecond,
		ConfirmLockTTL:    time.Minute,
	}
}

func newHarness(t *testing.T) *harness {
	return newHarnessWithBootstrapTimeout(t, time.Second)
}

func newHarnessWithBootstrapTimeout(t *testing.T, bootstrapTimeout time.Duration) *harness {
	t.Helper()

	h := &harness{
		authAPI:    NewMockAuthAPI(),
		pricingAPI: NewMockPricingAPI(),
		bookingAPI: NewMockBookingAPI(),
		paymentAPI: NewMockPaymentAPI(),
		locks:      NewMockLockStore(),
		recons:     NewMockReconciliationRepository(),
		publisher:  NewMockPublisher(),
		replay:     NewMockResponseCache(),
		tokens:     session.NewMemoryTokenStore(),
		sessions:   session.NewRegistry(time.Hour),
	}

	payCfg := testPaymentConfig()
	notifications := service.NewNotificationService(h.publisher)
	h.auth = service.NewAuthService(h.authAPI, h.tokens)
	h.bookings = service.NewBookingsService(h.bookingAPI, h.tokens)
	h.auth.Subscribe(h.bookings)
	h.form = service.NewBookingFormService(h.pricingAPI, h.bookings, h.tokens, payCfg.Currency, time.UTC)
	h.payments = service.NewPaymentService(h.paymentAPI, h.bookings, h.tokens, h.locks, h.recons, notifications, payCfg)
	h.receipts = service.NewReceiptService(h.bookings, payCfg.MerchantName)
	quotes := service.NewQuoteService(h.pricingAPI)

	h.router = app.NewRouter(app.RouterDeps{
		AuthHandler:        handler.NewAuthHandler(h.auth),
		QuoteHandler:       handler.NewQuoteHandler(quotes, config.PlacesConfig{APIKey: "places-key", Country: "gb"}),
		BookingsHandler:    handler.NewBookingsHandler(h.bookings, h.receipts),
		BookingFormHandler: handler.NewBookingFormHandler(h.form, h.bookings),
		PaymentHandler:     handler.NewPaymentHandler(h.payments),
		AuthService:        h.auth,
		Sessions:           h.sessions,
		ResponseCache:      h.replay,
		SessionConfig: config.SessionConfig{
			CookieName:       sessionCookie,
			TokenTTL:         time.Hour,
			IdleTTL:          time.Hour,
			BootstrapTimeout: bootstrapTimeout,
		},
		CORSConfig: config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
	})

	return h
}

// signedIn returns a fresh session signed in through the auth service.
func (h *harness) signedIn(t *testing.T) *session.Session {
	t.Helper()
	sess := session.New(session.NewID())
	if _, err := h.auth.Login(context.Background(), sess, domain.Credentials{Email: "jane@example.com", Password: "secret"}, ""); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	return sess
}

// withDraft submits a valid form for sess.
func (h *harness) withDraft(t *testing.T, sess *session.Session) domain.DraftBooking {
	t.Helper()
	res, err := h.form.Submit(context.Background(), sess, validForm())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	return *res.Draft
}

// validForm is a one-way form two days ahead, read in UTC.
func validForm() service.BookingForm {
	pickup := time.Now().UTC().Add(48 * time.Hour)
	return service.BookingForm{
		FromPlace:       domain.Place{PlaceID: "place-lhr", Label: "Heathrow Airport, London"},
		ToPlace:         domain.Place{PlaceID: "place-oxf", Label: "Oxford, UK"},
		CarType:         domain.CarTypeSedan,
		NumberOfPersons: 2,
		Luggage:         1,
		PickupDate:      pickup.Format("2006-01-02"),
		PickupTime:      pickup.Format("15:04"),
	}
}

// ──────────────────────────────────────────────
// HTTP HELPERS
// ──────────────────────────────────────────────

type request struct {
	method  string
	path    string
	body    any
	cookie  string
	headers map[string]string
}

func (h *harness) do(t *testing.T, r request) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(r.method, r.path, body)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.cookie != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: r.cookie})
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

// sessionID returns the session cookie set on w, or "".
func sessionID(w *httptest.ResponseRecorder) string {
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookie {
			return c.Value
		}
	}
	return ""
}

// login signs a new browser session in over HTTP and returns its cookie value.
func (h *harness) login(t *testing.T) string {
	t.Helper()
	w := h.do(t, request{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   map[string]string{"email": "jane@example.com", "password": "secret"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	id := sessionID(w)
	if id == "" {
		t.Fatal("login: no session cookie set")
	}
	return id
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}
