package tests

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"taxiweb/internal/api"
	"taxiweb/internal/domain"
	"taxiweb/internal/queue"
	"taxiweb/internal/redis"
	"taxiweb/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK AUTH API
// ──────────────────────────────────────────────

// MockAuthAPI is a mock implementation of service.AuthClient.
type MockAuthAPI struct {
	mu    sync.RWMutex
	users map[string]*domain.User // by token

	// Counters for verification
	LoginCallCount       int32
	RegisterCallCount    int32
	CurrentUserCallCount int32

	// Error injection
	LoginError       error
	RegisterError    error
	CurrentUserError error

	// LoginToken is handed out by Login and Register.
	LoginToken string

	// CurrentUserDelay holds CurrentUser before it answers.
	CurrentUserDelay time.Duration
}

// NewMockAuthAPI creates a new mock auth API.
func NewMockAuthAPI() *MockAuthAPI {
	return &MockAuthAPI{
		users:      make(map[string]*domain.User),
		LoginToken: "tok-login",
	}
}

// AddUser makes token resolve to user.
func (m *MockAuthAPI) AddUser(token string, user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[token] = user
}

func (m *MockAuthAPI) Register(ctx context.Context, req domain.Registration) (*domain.AuthResult, error) {
	atomic.AddInt32(&m.RegisterCallCount, 1)
	if m.RegisterError != nil {
		return nil, m.RegisterError
	}
	user := &domain.User{ID: "u-new", FullName: req.FullName, Email: req.Email, Phone: req.Phone}
	m.AddUser(m.LoginToken, user)
	return &domain.AuthResult{Token: m.LoginToken, User: user}, nil
}

func (m *MockAuthAPI) Login(ctx context.Context, req domain.Credentials) (*domain.AuthResult, error) {
	atomic.AddInt32(&m.LoginCallCount, 1)
	if m.LoginError != nil {
		return nil, m.LoginError
	}
	user := &domain.User{ID: "u1", FullName: "Jane Doe", Email: req.Email}
	m.AddUser(m.LoginToken, user)
	return &domain.AuthResult{Token: m.LoginToken, User: user}, nil
}

func (m *MockAuthAPI) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	atomic.AddInt32(&m.CurrentUserCallCount, 1)
	if token == "" {
		return nil, api.ErrAuthRequired
	}
	if m.CurrentUserDelay > 0 {
		time.Sleep(m.CurrentUserDelay)
	}
	if m.CurrentUserError != nil {
		return nil, m.CurrentUserError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[token]
	if !ok {
		return nil, &api.Error{Kind: api.KindBackend, Status: http.StatusUnauthorized, Message: "Invalid token"}
	}
	cp := *user
	return &cp, nil
}

// ──────────────────────────────────────────────
// MOCK PRICING API
// ──────────────────────────────────────────────

// MockPricingAPI is a mock implementation of service.PricingClient.
type MockPricingAPI struct {
	mu sync.Mutex

	// Result returned by both endpoints.
	Result domain.Quote

	// Counters for verification
	CalculateCallCount int32
	QuoteCallCount     int32

	// Error injection
	CalculateError error
	QuoteError     error

	// Recorded arguments of the last call
	LastToken       string
	LastFromPlaceID string
	LastToPlaceID   string
}

// NewMockPricingAPI creates a new mock pricing API returning 12.4 miles at 2.5 per mile.
func NewMockPricingAPI() *MockPricingAPI {
	return &MockPricingAPI{
		Result: domain.Quote{
			Distance: domain.Distance{Meters: 19956, Miles: 12.4},
			Pricing:  domain.Fare{RatePerMile: 2.5, Total: 31.00},
		},
	}
}

func (m *MockPricingAPI) Calculate(ctx context.Context, token, fromPlaceID, toPlaceID string) (*domain.Quote, error) {
	atomic.AddInt32(&m.CalculateCallCount, 1)
	m.record(token, fromPlaceID, toPlaceID)
	if token == "" {
		return nil, api.ErrAuthRequired
	}
	if m.CalculateError != nil {
		return nil, m.CalculateError
	}
	q := m.Result
	return &q, nil
}

func (m *MockPricingAPI) Quote(ctx context.Context, fromPlaceID, toPlaceID string) (*domain.Quote, error) {
	atomic.AddInt32(&m.QuoteCallCount, 1)
	m.record("", fromPlaceID, toPlaceID)
	if m.QuoteError != nil {
		return nil, m.QuoteError
	}
	q := m.Result
	return &q, nil
}

func (m *MockPricingAPI) record(token, from, to string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastToken = token
	m.LastFromPlaceID = from
	m.LastToPlaceID = to
}

// Calls returns the total number of pricing requests.
func (m *MockPricingAPI) Calls() int32 {
	return atomic.LoadInt32(&m.CalculateCallCount) + atomic.LoadInt32(&m.QuoteCallCount)
}

// ──────────────────────────────────────────────
// MOCK BOOKING API
// ──────────────────────────────────────────────

// MockBookingAPI is a mock implementation of service.BookingClient.
type MockBookingAPI struct {
	mu       sync.RWMutex
	bookings []domain.Booking
	nextID   int32

	// Counters for verification
	CreateCallCount int32
	ListCallCount   int32
	GetCallCount    int32
	CancelCallCount int32

	// Error injection
	CreateError error
	ListError   error
	CancelError error

	// When set, Create signals CreateStarted and waits for CreateRelease.
	CreateStarted chan struct{}
	CreateRelease chan struct{}

	// LastCreate is the last create payload received.
	LastCreate domain.CreateBookingRequest
}

// NewMockBookingAPI creates a new mock booking API.
func NewMockBookingAPI() *MockBookingAPI {
	return &MockBookingAPI{}
}

// AddBooking seeds a booking owned by the signed-in user.
func (m *MockBookingAPI) AddBooking(b domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings = append([]domain.Booking{b}, m.bookings...)
}

func (m *MockBookingAPI) CreateWebsiteBooking(ctx context.Context, token string, req domain.CreateBookingRequest) (*domain.Booking, error) {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if token == "" {
		return nil, api.ErrAuthRequired
	}
	if m.CreateStarted != nil {
		m.CreateStarted <- struct{}{}
		<-m.CreateRelease
	}
	if m.CreateError != nil {
		return nil, m.CreateError
	}

	id := atomic.AddInt32(&m.nextID, 1)
	b := domain.Booking{
		ID:                    fmt.Sprintf("bk-%d", id),
		FromAddress:           req.FromAddress,
		ToAddress:             req.ToAddress,
		BookingDate:           req.BookingDate,
		BookingTime:           req.BookingTime,
		ReturnDate:            req.ReturnDate,
		ReturnTime:            req.ReturnTime,
		CarType:               req.CarType,
		NumberOfPersons:       req.NumberOfPersons,
		Luggage:               req.Luggage,
		Amount:                req.Amount,
		Currency:              req.Currency,
		PaymentStatus:         domain.PaymentStatusPaid,
		Status:                domain.BookingStatusConfirmed,
		StripePaymentIntentID: req.StripePaymentIntentID,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastCreate = req
	m.bookings = append([]domain.Booking{b}, m.bookings...)
	return &b, nil
}

func (m *MockBookingAPI) ListMine(ctx context.Context, token string) ([]domain.Booking, error) {
	atomic.AddInt32(&m.ListCallCount, 1)
	if token == "" {
		return nil, api.ErrAuthRequired
	}
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Booking, len(m.bookings))
	copy(out, m.bookings)
	return out, nil
}

func (m *MockBookingAPI) GetMine(ctx context.Context, token, id string) (*domain.Booking, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	if token == "" {
		return nil, api.ErrAuthRequired
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.bookings {
		if b.ID == id {
			cp := b
			return &cp, nil
		}
	}
	return nil, &api.Error{Kind: api.KindNotFound, Status: http.StatusNotFound, Message: "Booking not found"}
}

func (m *MockBookingAPI) CancelMine(ctx context.Context, token, id string) (*domain.Booking, error) {
	atomic.AddInt32(&m.CancelCallCount, 1)
	if token == "" {
		return nil, api.ErrAuthRequired
	}
	if m.CancelError != nil {
		return nil, m.CancelError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.bookings {
		if m.bookings[i].ID == id {
			m.bookings[i].Status = domain.BookingStatusCancelled
			cp := m.bookings[i]
			return &cp, nil
		}
	}
	return nil, &api.Error{Kind: api.KindNotFound, Status: http.StatusNotFound, Message: "Booking not found"}
}

// ──────────────────────────────────────────────
// MOCK PAYMENT API
// ──────────────────────────────────────────────

// MockPaymentAPI is a mock implementation of service.PaymentClient.
type MockPaymentAPI struct {
	mu sync.Mutex

	// Counters for verification
	CreateIntentCallCount int32

	// Error injection
	CreateIntentError error

	// LastRequest is the last intent request received.
	LastRequest domain.PaymentIntentRequest
}

// NewMockPaymentAPI creates a new mock payment API.
func NewMockPaymentAPI() *MockPaymentAPI {
	return &MockPaymentAPI{}
}

func (m *MockPaymentAPI) CreateIntent(ctx context.Context, token string, req domain.PaymentIntentRequest) (*domain.PaymentIntent, error) {
	atomic.AddInt32(&m.CreateIntentCallCount, 1)
	if token == "" {
		return nil, api.ErrAuthRequired
	}
	if m.CreateIntentError != nil {
		return nil, m.CreateIntentError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRequest = req
	return &domain.PaymentIntent{ClientSecret: "pi_test_secret_" + req.BookingID}, nil
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of redis.ConfirmLocker.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]bool),
	}
}

func (m *MockLockStore) AcquireConfirmLock(ctx context.Context, paymentIntentID string) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := "lock:payment:" + paymentIntentID
	if m.locks[key] {
		return false, nil
	}
	m.locks[key] = true
	return true, nil
}

func (m *MockLockStore) ReleaseConfirmLock(ctx context.Context, paymentIntentID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, "lock:payment:"+paymentIntentID)
	return nil
}

// IsLocked checks if a payment intent is locked (for test assertions).
func (m *MockLockStore) IsLocked(paymentIntentID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locks["lock:payment:"+paymentIntentID]
}

// ──────────────────────────────────────────────
// MOCK RESPONSE CACHE
// ──────────────────────────────────────────────

// MockResponseCache is an in-memory redis.ResponseCache.
type MockResponseCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

// NewMockResponseCache creates a new mock response cache.
func NewMockResponseCache() *MockResponseCache {
	return &MockResponseCache{items: make(map[string][]byte)}
}

func (m *MockResponseCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[key], nil
}

func (m *MockResponseCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = append([]byte(nil), data...)
	return nil
}

// Len returns the number of stored responses.
func (m *MockResponseCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// ──────────────────────────────────────────────
// MOCK RECONCILIATION REPOSITORY
// ──────────────────────────────────────────────

// MockReconciliationRepository is a mock implementation of ReconciliationRepository.
type MockReconciliationRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.Reconciliation

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockReconciliationRepository creates a new mock reconciliation repository.
func NewMockReconciliationRepository() *MockReconciliationRepository {
	return &MockReconciliationRepository{
		records: make(map[string]*domain.Reconciliation),
	}
}

func (m *MockReconciliationRepository) Create(ctx context.Context, rec *domain.Reconciliation) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	m.records[rec.PaymentIntentID] = &cp
	return nil
}

func (m *MockReconciliationRepository) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*domain.Reconciliation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[paymentIntentID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

// ──────────────────────────────────────────────
// MOCK PUBLISHER
// ──────────────────────────────────────────────

// PublishedEvent is one event captured by MockPublisher.
type PublishedEvent struct {
	RoutingKey string
	Body       []byte
}

// MockPublisher is a mock implementation of queue.Publisher.
type MockPublisher struct {
	mu     sync.Mutex
	events []PublishedEvent

	// Error injection
	PublishError error
}

// NewMockPublisher creates a new mock publisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	if m.PublishError != nil {
		return m.PublishError
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, PublishedEvent{RoutingKey: routingKey, Body: body})
	return nil
}

func (m *MockPublisher) Close() error { return nil }

// RoutingKeys returns the routing keys published so far, in order.
func (m *MockPublisher) RoutingKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.events))
	for _, e := range m.events {
		keys = append(keys, e.RoutingKey)
	}
	return keys
}

// Ensure mocks implement interfaces.
var (
	_ redis.ConfirmLocker                 = (*MockLockStore)(nil)
	_ redis.ResponseCache                 = (*MockResponseCache)(nil)
	_ repository.ReconciliationRepository = (*MockReconciliationRepository)(nil)
	_ queue.Publisher                     = (*MockPublisher)(nil)
)
