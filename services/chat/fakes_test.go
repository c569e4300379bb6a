package chat

import (
	"context"
	"errors"
	"time"

	bookingRepo "fundis/database/repository/booking"
	userRepo "fundis/database/repository/user"
	"fundis/models"
)

// memContextStore mimics the Redis store, including TTL expiry driven
// by a fake clock the tests advance by hand.
type memContextStore struct {
	ttl     time.Duration
	now     time.Time
	entries map[string]memContextEntry
}

type memContextEntry struct {
	ctx       models.ConversationContext
	expiresAt time.Time
}

func newMemContextStore(ttl time.Duration) *memContextStore {
	return &memContextStore{
		ttl:     ttl,
		now:     time.Date(2026, time.August, 26, 9, 0, 0, 0, time.UTC),
		entries: make(map[string]memContextEntry),
	}
}

func (s *memContextStore) advance(d time.Duration) {
	s.now = s.now.Add(d)
}

func (s *memContextStore) Get(ctx context.Context, key string) (*models.ConversationContext, error) {
	e, ok := s.entries[key]
	if !ok || !s.now.Before(e.expiresAt) {
		delete(s.entries, key)
		return nil, nil
	}
	out := e.ctx
	return &out, nil
}

func (s *memContextStore) Put(ctx context.Context, key string, c *models.ConversationContext) error {
	s.entries[key] = memContextEntry{ctx: *c, expiresAt: s.now.Add(s.ttl)}
	return nil
}

func (s *memContextStore) Delete(ctx context.Context, key string) error {
	delete(s.entries, key)
	return nil
}

type memUserRepo struct {
	users map[string]models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]models.User)}
}

func (r *memUserRepo) Create(u *models.User) error {
	r.users[u.ID] = *u
	return nil
}

func (r *memUserRepo) Update(u *models.User) error {
	r.users[u.ID] = *u
	return nil
}

func (r *memUserRepo) GetByID(id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *memUserRepo) GetByWhatsAppID(waID string) (*models.User, error) {
	for _, u := range r.users {
		if u.WhatsAppID == waID {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) SetActive(id string, active bool) error {
	u := r.users[id]
	u.Active = active
	r.users[id] = u
	return nil
}

func (r *memUserRepo) List(opts userRepo.ListOptions) ([]models.User, int64, error) {
	return nil, 0, nil
}

func (r *memUserRepo) Count() (int64, error) {
	return int64(len(r.users)), nil
}

type memProviderRepo struct {
	providers map[string]models.ServiceProvider
}

func newMemProviderRepo() *memProviderRepo {
	return &memProviderRepo{providers: make(map[string]models.ServiceProvider)}
}

func (r *memProviderRepo) Create(p *models.ServiceProvider) error {
	r.providers[p.ID] = *p
	return nil
}

func (r *memProviderRepo) Update(p *models.ServiceProvider) error {
	r.providers[p.ID] = *p
	return nil
}

func (r *memProviderRepo) GetByID(id string) (*models.ServiceProvider, error) {
	p, ok := r.providers[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memProviderRepo) GetByUserID(userID string) (*models.ServiceProvider, error) {
	for _, p := range r.providers {
		if p.UserID == userID {
			out := p
			return &out, nil
		}
	}
	return nil, nil
}

func (r *memProviderRepo) FindVerifiedByService(serviceType string, limit int) ([]models.ServiceProvider, error) {
	var out []models.ServiceProvider
	for _, p := range r.providers {
		if p.Verified && p.OffersService(serviceType) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProviderRepo) IncrementCompletedJobs(id string) error {
	p := r.providers[id]
	p.CompletedJobs++
	r.providers[id] = p
	return nil
}

func (r *memProviderRepo) SetVerified(id string, verified bool) error {
	p := r.providers[id]
	p.Verified = verified
	r.providers[id] = p
	return nil
}

func (r *memProviderRepo) List(page, limit int) ([]models.ServiceProvider, int64, error) {
	return nil, 0, nil
}

func (r *memProviderRepo) Count() (int64, error) {
	return int64(len(r.providers)), nil
}

type memBookingRepo struct {
	bookings map[string]models.Booking
	order    []string
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[string]models.Booking)}
}

func (r *memBookingRepo) Create(b *models.Booking) error {
	r.bookings[b.ID] = *b
	r.order = append(r.order, b.ID)
	return nil
}

func (r *memBookingRepo) Update(b *models.Booking) error {
	r.bookings[b.ID] = *b
	return nil
}

func (r *memBookingRepo) GetByID(id string) (*models.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *memBookingRepo) ListByClient(clientID string, limit int) ([]models.Booking, error) {
	var out []models.Booking
	for _, id := range r.order {
		b := r.bookings[id]
		if b.ClientID == clientID && len(out) < limit {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) ListByProvider(providerID string, limit int) ([]models.Booking, error) {
	var out []models.Booking
	for _, id := range r.order {
		b := r.bookings[id]
		if b.ProviderID == providerID && len(out) < limit {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) List(opts bookingRepo.ListOptions) ([]models.Booking, int64, error) {
	return nil, 0, nil
}

func (r *memBookingRepo) Count() (int64, error) {
	return int64(len(r.bookings)), nil
}

func (r *memBookingRepo) CountByStatuses(statuses ...string) (int64, error) {
	return 0, nil
}

// recordingTransport captures every outbound send. Sends to failFor
// return an error instead.
type recordingTransport struct {
	sent    []sentMessage
	failFor string
}

type sentMessage struct {
	To   string
	Body string
}

func (t *recordingTransport) SendText(ctx context.Context, to, body string) error {
	if t.failFor != "" && to == t.failFor {
		return errors.New("delivery failed")
	}
	t.sent = append(t.sent, sentMessage{To: to, Body: body})
	return nil
}

func (t *recordingTransport) SendInteractive(ctx context.Context, to string, payload models.InteractivePayload) error {
	return t.SendText(ctx, to, payload.Body.Text)
}

func (t *recordingTransport) lastTo(to string) string {
	for i := len(t.sent) - 1; i >= 0; i-- {
		if t.sent[i].To == to {
			return t.sent[i].Body
		}
	}
	return ""
}

// scriptedLifecycle records lifecycle calls and returns canned values.
type scriptedLifecycle struct {
	acceptCalls   []string
	declineCalls  []string
	payCalls      []string
	reviewCalls   []string
	booking       *models.Booking
	payment       *models.Payment
	acceptErr     error
	declineErr    error
	payErr        error
	reviewErr     error
	actingUserIDs []string
}

func (l *scriptedLifecycle) Accept(ctx context.Context, bookingID, actingUserID string) (*models.Booking, error) {
	l.acceptCalls = append(l.acceptCalls, bookingID)
	l.actingUserIDs = append(l.actingUserIDs, actingUserID)
	return l.booking, l.acceptErr
}

func (l *scriptedLifecycle) Decline(ctx context.Context, bookingID, actingUserID string) (*models.Booking, error) {
	l.declineCalls = append(l.declineCalls, bookingID)
	l.actingUserIDs = append(l.actingUserIDs, actingUserID)
	return l.booking, l.declineErr
}

func (l *scriptedLifecycle) UpdateStatus(ctx context.Context, bookingID, actingUserID, status, reason string) (*models.Booking, error) {
	return l.booking, nil
}

func (l *scriptedLifecycle) InitiatePayment(ctx context.Context, bookingID, payerPhone string, amount float64) (*models.Payment, error) {
	l.payCalls = append(l.payCalls, bookingID)
	return l.payment, l.payErr
}

func (l *scriptedLifecycle) HandlePaymentCallback(ctx context.Context, cb models.STKCallback) error {
	return nil
}

func (l *scriptedLifecycle) AddReview(ctx context.Context, bookingID, clientID string, rating int, comment string) (*models.Review, error) {
	l.reviewCalls = append(l.reviewCalls, bookingID)
	if l.reviewErr != nil {
		return nil, l.reviewErr
	}
	return &models.Review{BookingID: bookingID, Rating: rating}, nil
}
