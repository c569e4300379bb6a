package booking

import (
	"context"
	"fmt"
	"time"

	"fundis/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Accept confirms a pending booking on behalf of the owning provider.
// Accepting an already-confirmed booking is a no-op success so that a
// replayed "ACCEPT" message never surfaces an error to the provider.
func (s *DefaultLifecycleService) Accept(ctx context.Context, bookingID, actingUserID string) (*models.Booking, error) {
	bk, provider, err := s.loadForProvider(bookingID, actingUserID)
	if err != nil {
		return nil, err
	}

	if bk.Status == models.BookingConfirmed {
		return bk, nil
	}
	if bk.Status != models.BookingPending {
		return nil, NewConflict(fmt.Sprintf("booking %s is %s and can no longer be accepted", bk.ID, bk.Status))
	}

	bk.Status = models.BookingConfirmed
	bk.UpdatedAt = time.Now()
	if err := s.Bookings.Update(bk); err != nil {
		return nil, fmt.Errorf("failed to confirm booking %s: %w", bk.ID, err)
	}
	s.Logger.Info("booking confirmed",
		zap.String("booking_id", bk.ID),
		zap.String("provider_id", provider.ID))

	s.notifyClient(ctx, bk, fmt.Sprintf(
		"✅ Good news! %s accepted your %s booking.\n\nEstimated cost: KES %.0f\nReply PAY %s to pay via M-Pesa.",
		provider.BusinessName, bk.ServiceType, bk.EstimatedCost, bk.ID))

	s.schedulePaymentReminder(ctx, bk)
	return bk, nil
}

// Decline cancels a pending booking on behalf of the owning provider.
// Declining an already-cancelled booking is a no-op success.
func (s *DefaultLifecycleService) Decline(ctx context.Context, bookingID, actingUserID string) (*models.Booking, error) {
	bk, provider, err := s.loadForProvider(bookingID, actingUserID)
	if err != nil {
		return nil, err
	}

	if bk.Status == models.BookingCancelled {
		return bk, nil
	}
	if bk.Status != models.BookingPending && bk.Status != models.BookingConfirmed {
		return nil, NewConflict(fmt.Sprintf("booking %s is %s and can no longer be declined", bk.ID, bk.Status))
	}

	now := time.Now()
	bk.Status = models.BookingCancelled
	bk.CancellationReason = "Declined by provider"
	bk.CancelledAt = &now
	bk.UpdatedAt = now
	if err := s.Bookings.Update(bk); err != nil {
		return nil, fmt.Errorf("failed to cancel booking %s: %w", bk.ID, err)
	}
	s.Logger.Info("booking declined",
		zap.String("booking_id", bk.ID),
		zap.String("provider_id", provider.ID))

	s.notifyClient(ctx, bk, fmt.Sprintf(
		"😔 Sorry, the provider is not available for your %s booking. Reply 1 to try booking again.",
		bk.ServiceType))
	return bk, nil
}

// UpdateStatus moves a booking along its state machine. The acting
// user must be the booking's client, the owning provider, or an admin.
func (s *DefaultLifecycleService) UpdateStatus(ctx context.Context, bookingID, actingUserID, status, reason string) (*models.Booking, error) {
	if !ValidStatus(status) {
		return nil, NewConflict(fmt.Sprintf("unknown booking status %q", status))
	}

	bk, err := s.Bookings.GetByID(bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking %s: %w", bookingID, err)
	}
	if bk == nil {
		return nil, NewNotFound(fmt.Sprintf("booking %s not found", bookingID))
	}

	if err := s.authorizeActor(bk, actingUserID); err != nil {
		return nil, err
	}

	if bk.Status == status {
		return bk, nil
	}
	if !CanTransition(bk.Status, status) {
		return nil, NewConflict(fmt.Sprintf("booking %s cannot move from %s to %s", bk.ID, bk.Status, status))
	}

	now := time.Now()
	bk.Status = status
	bk.UpdatedAt = now
	switch status {
	case models.BookingCompleted:
		bk.CompletedAt = &now
		if bk.PaymentStatus != models.PaymentStatusPaid {
			s.Logger.Warn("booking completed without payment",
				zap.String("booking_id", bk.ID),
				zap.String("payment_status", bk.PaymentStatus))
		}
	case models.BookingCancelled:
		bk.CancelledAt = &now
		bk.CancellationReason = reason
	}

	if err := s.Bookings.Update(bk); err != nil {
		return nil, fmt.Errorf("failed to update booking %s: %w", bk.ID, err)
	}

	if status == models.BookingCompleted {
		if err := s.Providers.IncrementCompletedJobs(bk.ProviderID); err != nil {
			s.Logger.Error("failed to bump completed jobs",
				zap.String("provider_id", bk.ProviderID), zap.Error(err))
		}
	}

	s.Logger.Info("booking status updated",
		zap.String("booking_id", bk.ID),
		zap.String("status", status))
	return bk, nil
}

// AddReview records a client rating for a completed booking and folds
// it into the provider's running average. One review per booking.
func (s *DefaultLifecycleService) AddReview(ctx context.Context, bookingID, clientID string, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, NewConflict("rating must be between 1 and 5")
	}

	bk, err := s.Bookings.GetByID(bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking %s: %w", bookingID, err)
	}
	if bk == nil {
		return nil, NewNotFound(fmt.Sprintf("booking %s not found", bookingID))
	}
	if bk.ClientID != clientID {
		return nil, NewUnauthorized("only the booking client may leave a review")
	}
	if bk.Status != models.BookingCompleted {
		return nil, NewConflict("only completed bookings can be reviewed")
	}

	existing, err := s.Reviews.GetByBookingID(bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review for %s: %w", bookingID, err)
	}
	if existing != nil {
		return nil, NewConflict("booking has already been reviewed")
	}

	review := &models.Review{
		ID:         uuid.New().String(),
		BookingID:  bk.ID,
		ClientID:   clientID,
		ProviderID: bk.ProviderID,
		Rating:     rating,
		Comment:    comment,
		CreatedAt:  time.Now(),
	}
	if err := s.Reviews.Create(review); err != nil {
		return nil, fmt.Errorf("failed to save review: %w", err)
	}

	provider, err := s.Providers.GetByID(bk.ProviderID)
	if err != nil || provider == nil {
		s.Logger.Error("review saved but provider rating not updated",
			zap.String("provider_id", bk.ProviderID), zap.Error(err))
		return review, nil
	}

	total := provider.TotalReviews
	provider.Rating = (provider.Rating*float64(total) + float64(rating)) / float64(total+1)
	provider.TotalReviews = total + 1
	provider.UpdatedAt = time.Now()
	if err := s.Providers.Update(provider); err != nil {
		s.Logger.Error("failed to update provider rating",
			zap.String("provider_id", provider.ID), zap.Error(err))
	}
	return review, nil
}

// loadForProvider loads the booking and verifies the acting user owns
// the provider profile the booking is assigned to.
func (s *DefaultLifecycleService) loadForProvider(bookingID, actingUserID string) (*models.Booking, *models.ServiceProvider, error) {
	bk, err := s.Bookings.GetByID(bookingID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load booking %s: %w", bookingID, err)
	}
	if bk == nil {
		return nil, nil, NewNotFound(fmt.Sprintf("booking %s not found", bookingID))
	}

	provider, err := s.Providers.GetByID(bk.ProviderID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load provider %s: %w", bk.ProviderID, err)
	}
	if provider == nil {
		return nil, nil, NewNotFound(fmt.Sprintf("provider %s not found", bk.ProviderID))
	}
	if provider.UserID != actingUserID {
		return nil, nil, NewUnauthorized("booking is assigned to another provider")
	}
	return bk, provider, nil
}

func (s *DefaultLifecycleService) authorizeActor(bk *models.Booking, actingUserID string) error {
	if bk.ClientID == actingUserID {
		return nil
	}
	user, err := s.Users.GetByID(actingUserID)
	if err != nil {
		return fmt.Errorf("failed to load user %s: %w", actingUserID, err)
	}
	if user != nil && user.Role == models.RoleAdmin {
		return nil
	}
	provider, err := s.Providers.GetByID(bk.ProviderID)
	if err != nil {
		return fmt.Errorf("failed to load provider %s: %w", bk.ProviderID, err)
	}
	if provider != nil && provider.UserID == actingUserID {
		return nil
	}
	return NewUnauthorized("user has no access to this booking")
}

// notifyClient sends a best-effort WhatsApp message to the booking's
// client. Delivery failure never fails the state change.
func (s *DefaultLifecycleService) notifyClient(ctx context.Context, bk *models.Booking, body string) {
	client, err := s.Users.GetByID(bk.ClientID)
	if err != nil || client == nil {
		s.Logger.Warn("client not found for notification",
			zap.String("booking_id", bk.ID), zap.Error(err))
		return
	}
	if err := s.Transport.SendText(ctx, client.WhatsAppID, body); err != nil {
		s.Logger.Warn("client notification failed",
			zap.String("booking_id", bk.ID), zap.Error(err))
	}
}

func (s *DefaultLifecycleService) schedulePaymentReminder(ctx context.Context, bk *models.Booking) {
	if s.Reminders == nil {
		return
	}
	client, err := s.Users.GetByID(bk.ClientID)
	if err != nil || client == nil {
		return
	}
	payload := models.ReminderPayload{
		BookingID:   bk.ID,
		WhatsAppID:  client.WhatsAppID,
		ServiceType: bk.ServiceType,
		Amount:      bk.EstimatedCost,
	}
	fireAt := time.Now().Add(s.ReminderDelay)
	if err := s.Reminders.SchedulePaymentReminder(ctx, payload, fireAt); err != nil {
		s.Logger.Warn("failed to schedule payment reminder",
			zap.String("booking_id", bk.ID), zap.Error(err))
	}
}
