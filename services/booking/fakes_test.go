package booking

import (
	"context"
	"time"

	bookingRepo "fundis/database/repository/booking"
	userRepo "fundis/database/repository/user"
	"fundis/models"
	"fundis/services/mpesa"
)

// In-memory repositories for service tests. They hold values, not
// pointers, so mutations only stick through an explicit Update.

type memBookingRepo struct {
	bookings map[string]models.Booking
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[string]models.Booking)}
}

func (r *memBookingRepo) Create(b *models.Booking) error {
	r.bookings[b.ID] = *b
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
	for _, b := range r.bookings {
		if b.ClientID == clientID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) ListByProvider(providerID string, limit int) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ProviderID == providerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) List(opts bookingRepo.ListOptions) ([]models.Booking, int64, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if opts.Status == "" || b.Status == opts.Status {
			out = append(out, b)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memBookingRepo) Count() (int64, error) {
	return int64(len(r.bookings)), nil
}

func (r *memBookingRepo) CountByStatuses(statuses ...string) (int64, error) {
	var n int64
	for _, b := range r.bookings {
		for _, s := range statuses {
			if b.Status == s {
				n++
				break
			}
		}
	}
	return n, nil
}

type memPaymentRepo struct {
	payments map[string]models.Payment
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{payments: make(map[string]models.Payment)}
}

func (r *memPaymentRepo) Create(p *models.Payment) error {
	r.payments[p.ID] = *p
	return nil
}

func (r *memPaymentRepo) Update(p *models.Payment) error {
	r.payments[p.ID] = *p
	return nil
}

func (r *memPaymentRepo) GetByID(id string) (*models.Payment, error) {
	p, ok := r.payments[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memPaymentRepo) GetByTransactionID(transactionID string) (*models.Payment, error) {
	if transactionID == "" {
		return nil, nil
	}
	for _, p := range r.payments {
		if p.TransactionID == transactionID {
			out := p
			return &out, nil
		}
	}
	return nil, nil
}

func (r *memPaymentRepo) FindActiveByBooking(bookingID string) (*models.Payment, error) {
	for _, p := range r.payments {
		if p.BookingID != bookingID {
			continue
		}
		switch p.Status {
		case models.PaymentPending, models.PaymentProcessing, models.PaymentCompleted:
			out := p
			return &out, nil
		}
	}
	return nil, nil
}

func (r *memPaymentRepo) SumPlatformFees() (float64, error) {
	var sum float64
	for _, p := range r.payments {
		if p.Status == models.PaymentCompleted {
			sum += p.PlatformFee
		}
	}
	return sum, nil
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
		if len(out) == limit {
			break
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
	var out []models.ServiceProvider
	for _, p := range r.providers {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *memProviderRepo) Count() (int64, error) {
	return int64(len(r.providers)), nil
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
	var out []models.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (r *memUserRepo) Count() (int64, error) {
	return int64(len(r.users)), nil
}

type memReviewRepo struct {
	reviews map[string]models.Review
}

func newMemReviewRepo() *memReviewRepo {
	return &memReviewRepo{reviews: make(map[string]models.Review)}
}

func (r *memReviewRepo) Create(rv *models.Review) error {
	r.reviews[rv.BookingID] = *rv
	return nil
}

func (r *memReviewRepo) GetByBookingID(bookingID string) (*models.Review, error) {
	rv, ok := r.reviews[bookingID]
	if !ok {
		return nil, nil
	}
	return &rv, nil
}

// fakeTransport records outbound messages.
type fakeTransport struct {
	sent []sentMessage
	err  error
}

type sentMessage struct {
	To   string
	Body string
}

func (t *fakeTransport) SendText(ctx context.Context, to, body string) error {
	if t.err != nil {
		return t.err
	}
	t.sent = append(t.sent, sentMessage{To: to, Body: body})
	return nil
}

func (t *fakeTransport) SendInteractive(ctx context.Context, to string, payload models.InteractivePayload) error {
	return t.SendText(ctx, to, payload.Body.Text)
}

// fakeGateway scripts the next charge response.
type fakeGateway struct {
	resp  *mpesa.ChargeResponse
	err   error
	calls int
}

func (g *fakeGateway) InitiateCharge(ctx context.Context, req mpesa.ChargeRequest) (*mpesa.ChargeResponse, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.resp, nil
}

// fakeScheduler records scheduled reminders.
type fakeScheduler struct {
	scheduled []models.ReminderPayload
	fireAt    []time.Time
}

func (s *fakeScheduler) SchedulePaymentReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error {
	s.scheduled = append(s.scheduled, payload)
	s.fireAt = append(s.fireAt, fireAt)
	return nil
}
