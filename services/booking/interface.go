package booking

import (
	"context"
	"time"

	bookingRepo "fundis/database/repository/booking"
	paymentRepo "fundis/database/repository/payment"
	providerRepo "fundis/database/repository/provider"
	reviewRepo "fundis/database/repository/review"
	userRepo "fundis/database/repository/user"
	"fundis/models"
	"fundis/services/mpesa"
	"fundis/services/whatsapp"

	"go.uber.org/zap"
)

// LifecycleService drives a booking through its state machine and owns
// the payment ledger attached to it. All mutations are authorized
// against the acting user and are safe to replay.
type LifecycleService interface {
	Accept(ctx context.Context, bookingID, actingUserID string) (*models.Booking, error)
	Decline(ctx context.Context, bookingID, actingUserID string) (*models.Booking, error)
	UpdateStatus(ctx context.Context, bookingID, actingUserID, status, reason string) (*models.Booking, error)
	InitiatePayment(ctx context.Context, bookingID, payerPhone string, amount float64) (*models.Payment, error)
	HandlePaymentCallback(ctx context.Context, cb models.STKCallback) error
	AddReview(ctx context.Context, bookingID, clientID string, rating int, comment string) (*models.Review, error)
}

// ReminderScheduler enqueues delayed payment reminders.
type ReminderScheduler interface {
	SchedulePaymentReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error
}

// DefaultLifecycleService is the production implementation backed by
// MongoDB repositories, the Daraja gateway and the WhatsApp transport.
type DefaultLifecycleService struct {
	Bookings      bookingRepo.BookingRepository
	Payments      paymentRepo.PaymentRepository
	Providers     providerRepo.ProviderRepository
	Users         userRepo.UserRepository
	Reviews       reviewRepo.ReviewRepository
	Gateway       mpesa.Gateway
	Transport     whatsapp.Transport
	Reminders     ReminderScheduler
	ReminderDelay time.Duration
	Logger        *zap.Logger
}

var _ LifecycleService = (*DefaultLifecycleService)(nil)
