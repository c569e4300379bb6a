package chat

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	bookingRepo "fundis/database/repository/booking"
	providerRepo "fundis/database/repository/provider"
	userRepo "fundis/database/repository/user"
	"fundis/models"
	"fundis/services/booking"
	"fundis/services/whatsapp"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const listBookingsLimit = 5

// Engine is the conversational state machine behind the WhatsApp
// webhook. One inbound message produces zero or more outbound sends
// and at most one context write.
type Engine struct {
	Contexts  ContextStore
	Users     userRepo.UserRepository
	Providers providerRepo.ProviderRepository
	Bookings  bookingRepo.BookingRepository
	Matching  booking.MatchingService
	Lifecycle booking.LifecycleService
	Transport whatsapp.Transport
	Logger    *zap.Logger

	locks *userLocks
}

func NewEngine(
	contexts ContextStore,
	users userRepo.UserRepository,
	providers providerRepo.ProviderRepository,
	bookings bookingRepo.BookingRepository,
	matching booking.MatchingService,
	lifecycle booking.LifecycleService,
	transport whatsapp.Transport,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		Contexts:  contexts,
		Users:     users,
		Providers: providers,
		Bookings:  bookings,
		Matching:  matching,
		Lifecycle: lifecycle,
		Transport: transport,
		Logger:    logger,
		locks:     newUserLocks(),
	}
}

// HandleInbound processes one message from a WhatsApp identity.
// Messages from the same sender are serialized; the returned error is
// for logging only and must not change the webhook's 200 response.
func (e *Engine) HandleInbound(ctx context.Context, waID, text, profileName string) error {
	lock := e.locks.acquire(waID)
	defer lock.Unlock()

	blank := strings.TrimSpace(text) == ""

	user, err := e.Users.GetByWhatsAppID(waID)
	if err != nil {
		return fmt.Errorf("failed to look up user for %s: %w", waID, err)
	}
	if user == nil {
		return e.handleRegistration(ctx, waID, text, profileName)
	}
	if !user.Active {
		if blank {
			return nil
		}
		return e.reply(ctx, waID, deactivatedPrompt)
	}

	cmd := ParseCommand(text)

	// Provider and payment commands bypass any active flow: a provider
	// mid-registration can still accept a job.
	switch cmd.Kind {
	case CmdAccept:
		return e.handleAccept(ctx, waID, user, cmd.BookingID)
	case CmdDecline:
		return e.handleDecline(ctx, waID, user, cmd.BookingID)
	case CmdPay:
		return e.handlePay(ctx, waID, user, cmd.BookingID)
	case CmdRate:
		return e.handleRate(ctx, waID, user, cmd)
	}

	conv, err := e.Contexts.Get(ctx, waID)
	if err != nil {
		return fmt.Errorf("failed to load context for %s: %w", waID, err)
	}
	if conv != nil && conv.Step != "" {
		if cmd.Kind == CmdCancelFlow {
			if err := e.Contexts.Delete(ctx, waID); err != nil {
				return err
			}
			return e.reply(ctx, waID, cancelledPrompt)
		}
		// Blank answers reach handleStep so the user is re-prompted
		// for the step they are on.
		return e.handleStep(ctx, waID, user, conv, cmd.Text)
	}

	// Outside a flow there is nothing to re-prompt; blank noise is
	// dropped rather than answered with the menu.
	if blank {
		return nil
	}

	switch cmd.Kind {
	case CmdStartBooking:
		return e.startBookingFlow(ctx, waID, user)
	case CmdListBookings:
		return e.handleListBookings(ctx, waID, user)
	case CmdStartProviderReg:
		return e.startProviderFlow(ctx, waID, user)
	case CmdHelp:
		return e.reply(ctx, waID, helpPrompt)
	case CmdMainMenu:
		return e.reply(ctx, waID, greetingPrompt(user.Name))
	default:
		return e.reply(ctx, waID, mainMenuPrompt)
	}
}

// handleRegistration runs the first-contact flow for an unknown
// WhatsApp identity: ask for a name, then create the user.
func (e *Engine) handleRegistration(ctx context.Context, waID, text, profileName string) error {
	conv, err := e.Contexts.Get(ctx, waID)
	if err != nil {
		return fmt.Errorf("failed to load context for %s: %w", waID, err)
	}
	if conv == nil || conv.Step != models.StepAwaitingName {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		if err := e.reply(ctx, waID, namePrompt); err != nil {
			return err
		}
		return e.Contexts.Put(ctx, waID, &models.ConversationContext{Step: models.StepAwaitingName})
	}

	name := strings.TrimSpace(text)
	if name == "" {
		name = strings.TrimSpace(profileName)
	}
	if name == "" {
		return e.reply(ctx, waID, namePrompt)
	}

	now := time.Now()
	user := &models.User{
		ID:          uuid.New().String(),
		PhoneNumber: waID,
		WhatsAppID:  waID,
		Name:        name,
		Role:        models.RoleClient,
		Active:      true,
		LastSeenAt:  now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := e.Users.Create(user); err != nil {
		return fmt.Errorf("failed to create user for %s: %w", waID, err)
	}
	if err := e.Contexts.Delete(ctx, waID); err != nil {
		return err
	}
	e.Logger.Info("user registered", zap.String("user_id", user.ID))
	return e.reply(ctx, waID, fmt.Sprintf("Nice to meet you, %s! 🎉\n\n", name)+menuBody)
}

func (e *Engine) startBookingFlow(ctx context.Context, waID string, user *models.User) error {
	if err := e.reply(ctx, waID, serviceTypePrompt); err != nil {
		return err
	}
	return e.Contexts.Put(ctx, waID, &models.ConversationContext{
		UserID: user.ID,
		Step:   models.StepAwaitingServiceType,
	})
}

func (e *Engine) startProviderFlow(ctx context.Context, waID string, user *models.User) error {
	existing, err := e.Providers.GetByUserID(user.ID)
	if err != nil {
		return fmt.Errorf("failed to check provider profile: %w", err)
	}
	if existing != nil {
		return e.reply(ctx, waID, fmt.Sprintf("You're already registered as %s. 💪", existing.BusinessName))
	}
	if err := e.reply(ctx, waID, businessNamePrompt); err != nil {
		return err
	}
	return e.Contexts.Put(ctx, waID, &models.ConversationContext{
		UserID: user.ID,
		Step:   models.StepAwaitingBusinessName,
	})
}

// handleStep advances an active flow by one answer. The next prompt is
// sent before the context is written, so a failed send leaves the flow
// exactly where it was.
func (e *Engine) handleStep(ctx context.Context, waID string, user *models.User, conv *models.ConversationContext, answer string) error {
	answer = strings.TrimSpace(answer)

	switch conv.Step {
	case models.StepAwaitingServiceType:
		if answer == "" {
			return e.reply(ctx, waID, serviceTypePrompt)
		}
		conv.ServiceType = answer
		conv.Step = models.StepAwaitingDescription
		return e.advance(ctx, waID, conv, descriptionPrompt)

	case models.StepAwaitingDescription:
		if answer == "" {
			return e.reply(ctx, waID, descriptionPrompt)
		}
		conv.Description = answer
		conv.Step = models.StepAwaitingLocation
		return e.advance(ctx, waID, conv, locationPrompt)

	case models.StepAwaitingLocation:
		if answer == "" {
			return e.reply(ctx, waID, locationPrompt)
		}
		conv.Location = answer
		conv.Step = models.StepAwaitingDate
		return e.advance(ctx, waID, conv, datePrompt)

	case models.StepAwaitingDate:
		if answer == "" {
			return e.reply(ctx, waID, datePrompt)
		}
		conv.DateText = answer
		return e.finishBookingFlow(ctx, waID, user, conv)

	case models.StepAwaitingBusinessName:
		if answer == "" {
			return e.reply(ctx, waID, businessNamePrompt)
		}
		conv.BusinessName = answer
		conv.Step = models.StepAwaitingServices
		return e.advance(ctx, waID, conv, servicesPrompt)

	case models.StepAwaitingServices:
		if answer == "" {
			return e.reply(ctx, waID, servicesPrompt)
		}
		conv.Services = answer
		conv.Step = models.StepAwaitingHourlyRate
		return e.advance(ctx, waID, conv, hourlyRatePrompt)

	case models.StepAwaitingHourlyRate:
		rate, err := strconv.ParseFloat(answer, 64)
		if err != nil || rate <= 0 {
			return e.reply(ctx, waID, hourlyRatePrompt)
		}
		return e.finishProviderFlow(ctx, waID, user, conv, rate)

	default:
		// Unknown step means a stale context from an older release.
		if err := e.Contexts.Delete(ctx, waID); err != nil {
			return err
		}
		return e.reply(ctx, waID, mainMenuPrompt)
	}
}

// advance sends the next prompt and only then persists the new step.
func (e *Engine) advance(ctx context.Context, waID string, conv *models.ConversationContext, prompt string) error {
	if err := e.reply(ctx, waID, prompt); err != nil {
		return err
	}
	return e.Contexts.Put(ctx, waID, conv)
}

// finishBookingFlow matches a provider, persists the booking, then
// notifies both parties. The durable record always exists before any
// notification goes out.
func (e *Engine) finishBookingFlow(ctx context.Context, waID string, user *models.User, conv *models.ConversationContext) error {
	scheduled, recognized := ParseScheduledDate(conv.DateText, time.Now())

	provider, err := e.Matching.MatchProvider(ctx, conv.ServiceType)
	if err != nil {
		return fmt.Errorf("provider matching failed: %w", err)
	}
	if provider == nil {
		if err := e.Contexts.Delete(ctx, waID); err != nil {
			return err
		}
		return e.reply(ctx, waID, noProviderPrompt)
	}

	durationHours := 1
	now := time.Now()
	bk := &models.Booking{
		ID:            uuid.New().String(),
		ClientID:      user.ID,
		ProviderID:    provider.ID,
		ServiceType:   conv.ServiceType,
		Description:   conv.Description,
		Location:      conv.Location,
		ScheduledDate: scheduled,
		DurationHours: durationHours,
		Status:        models.BookingPending,
		EstimatedCost: provider.HourlyRate * float64(durationHours),
		PaymentStatus: models.PaymentStatusPending,
		PaymentMethod: "mpesa",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := e.Bookings.Create(bk); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	e.Logger.Info("booking created",
		zap.String("booking_id", bk.ID),
		zap.String("client_id", user.ID),
		zap.String("provider_id", provider.ID),
		zap.String("service_type", bk.ServiceType))

	if err := e.Contexts.Delete(ctx, waID); err != nil {
		e.Logger.Warn("failed to clear context after booking",
			zap.String("booking_id", bk.ID), zap.Error(err))
	}

	// Both sends are best effort once the booking row exists: a failed
	// client confirmation must not stop the provider request.
	if err := e.reply(ctx, waID, bookingConfirmationPrompt(bk, provider.BusinessName, recognized)); err != nil {
		e.Logger.Warn("client confirmation failed",
			zap.String("booking_id", bk.ID), zap.Error(err))
	}
	e.notifyProvider(ctx, provider, bk, user.Name)
	return nil
}

// notifyProvider sends the accept/decline request to the provider's
// WhatsApp identity. Best effort: the booking already exists.
func (e *Engine) notifyProvider(ctx context.Context, provider *models.ServiceProvider, bk *models.Booking, clientName string) {
	owner, err := e.Users.GetByID(provider.UserID)
	if err != nil || owner == nil {
		e.Logger.Warn("provider user not found for notification",
			zap.String("provider_id", provider.ID), zap.Error(err))
		return
	}
	if err := e.Transport.SendText(ctx, owner.WhatsAppID, providerRequestPrompt(bk, clientName)); err != nil {
		e.Logger.Warn("provider notification failed",
			zap.String("booking_id", bk.ID), zap.Error(err))
	}
}

func (e *Engine) finishProviderFlow(ctx context.Context, waID string, user *models.User, conv *models.ConversationContext, rate float64) error {
	var services []string
	for _, s := range strings.Split(conv.Services, ",") {
		if s = strings.TrimSpace(s); s != "" {
			services = append(services, s)
		}
	}
	if len(services) == 0 {
		return e.reply(ctx, waID, servicesPrompt)
	}

	now := time.Now()
	provider := &models.ServiceProvider{
		ID:           uuid.New().String(),
		UserID:       user.ID,
		BusinessName: conv.BusinessName,
		Services:     services,
		HourlyRate:   rate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := e.Providers.Create(provider); err != nil {
		return fmt.Errorf("failed to create provider profile: %w", err)
	}

	// Clients become providers, admins stay admins.
	if user.Role == models.RoleClient {
		user.Role = models.RoleProvider
		user.UpdatedAt = now
		if err := e.Users.Update(user); err != nil {
			e.Logger.Error("failed to upgrade user role",
				zap.String("user_id", user.ID), zap.Error(err))
		}
	}

	if err := e.Contexts.Delete(ctx, waID); err != nil {
		return err
	}
	e.Logger.Info("provider registered",
		zap.String("provider_id", provider.ID),
		zap.String("user_id", user.ID))
	return e.reply(ctx, waID, providerWelcomePrompt(provider.BusinessName))
}

func (e *Engine) handleListBookings(ctx context.Context, waID string, user *models.User) error {
	bookings, err := e.Bookings.ListByClient(user.ID, listBookingsLimit)
	if err != nil {
		return fmt.Errorf("failed to list bookings: %w", err)
	}
	if len(bookings) == 0 {
		return e.reply(ctx, waID, noBookingsPrompt)
	}
	var b strings.Builder
	b.WriteString("📋 Your recent bookings:\n\n")
	for i := range bookings {
		b.WriteString(bookingListLine(&bookings[i]))
		b.WriteString("\n")
	}
	b.WriteString("\nReply PAY <booking id> to pay a confirmed booking.")
	return e.reply(ctx, waID, b.String())
}

func (e *Engine) handleAccept(ctx context.Context, waID string, user *models.User, bookingID string) error {
	bk, err := e.Lifecycle.Accept(ctx, bookingID, user.ID)
	if err != nil {
		return e.replyLifecycleError(ctx, waID, err)
	}
	return e.reply(ctx, waID, fmt.Sprintf("✅ You accepted the %s booking. The client has been notified.", bk.ServiceType))
}

func (e *Engine) handleDecline(ctx context.Context, waID string, user *models.User, bookingID string) error {
	bk, err := e.Lifecycle.Decline(ctx, bookingID, user.ID)
	if err != nil {
		return e.replyLifecycleError(ctx, waID, err)
	}
	return e.reply(ctx, waID, fmt.Sprintf("👍 You declined the %s booking. The client has been notified.", bk.ServiceType))
}

func (e *Engine) handlePay(ctx context.Context, waID string, user *models.User, bookingID string) error {
	bk, err := e.Bookings.GetByID(bookingID)
	if err != nil {
		return fmt.Errorf("failed to load booking %s: %w", bookingID, err)
	}
	if bk == nil || bk.ClientID != user.ID {
		return e.reply(ctx, waID, "Booking not found. Reply 2 to see your bookings.")
	}

	payment, err := e.Lifecycle.InitiatePayment(ctx, bk.ID, user.PhoneNumber, bk.EstimatedCost)
	if err != nil {
		if booking.IsConflict(err) {
			return e.reply(ctx, waID, "A payment for this booking is already in progress. Check your phone for the M-Pesa prompt.")
		}
		e.Logger.Error("payment initiation failed",
			zap.String("booking_id", bk.ID), zap.Error(err))
		return e.reply(ctx, waID, "😔 Payment initiation failed. Please try again in a few minutes.")
	}
	return e.reply(ctx, waID, paymentPushedPrompt(payment.Amount))
}

func (e *Engine) handleRate(ctx context.Context, waID string, user *models.User, cmd Command) error {
	_, err := e.Lifecycle.AddReview(ctx, cmd.BookingID, user.ID, cmd.Rating, "")
	if err != nil {
		return e.replyLifecycleError(ctx, waID, err)
	}
	return e.reply(ctx, waID, "⭐ Thanks for your rating!")
}

func (e *Engine) replyLifecycleError(ctx context.Context, waID string, err error) error {
	switch {
	case booking.IsNotFound(err):
		return e.reply(ctx, waID, "Booking not found. Please check the booking ID.")
	case booking.IsUnauthorized(err):
		return e.reply(ctx, waID, "You are not authorized for this booking.")
	case booking.IsConflict(err):
		var se *booking.ServiceError
		msg := "This booking can no longer be changed."
		if errors.As(err, &se) && se.Message != "" {
			msg = strings.ToUpper(se.Message[:1]) + se.Message[1:] + "."
		}
		return e.reply(ctx, waID, msg)
	default:
		e.Logger.Error("lifecycle command failed", zap.Error(err))
		return e.reply(ctx, waID, "Something went wrong. Please try again.")
	}
}

func (e *Engine) reply(ctx context.Context, waID, body string) error {
	if err := e.Transport.SendText(ctx, waID, body); err != nil {
		return fmt.Errorf("failed to reply to %s: %w", waID, err)
	}
	return nil
}
