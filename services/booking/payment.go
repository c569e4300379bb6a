package booking

import (
	"context"
	"fmt"
	"math"
	"time"

	"fundis/models"
	"fundis/services/mpesa"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InitiatePayment creates a payment record for the booking and asks
// the gateway to push an STK charge to the payer's phone. At most one
// active payment (pending, processing or completed) may exist per
// booking, so a second "PAY" while one is in flight is a conflict.
func (s *DefaultLifecycleService) InitiatePayment(ctx context.Context, bookingID, payerPhone string, amount float64) (*models.Payment, error) {
	bk, err := s.Bookings.GetByID(bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking %s: %w", bookingID, err)
	}
	if bk == nil {
		return nil, NewNotFound(fmt.Sprintf("booking %s not found", bookingID))
	}

	active, err := s.Payments.FindActiveByBooking(bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to check active payments for %s: %w", bookingID, err)
	}
	if active != nil {
		return nil, NewConflict(fmt.Sprintf("booking %s already has a %s payment", bookingID, active.Status))
	}

	fee := math.Round(amount*models.PlatformFeeRate*100) / 100
	now := time.Now()
	payment := &models.Payment{
		ID:            uuid.New().String(),
		BookingID:     bk.ID,
		Amount:        amount,
		Currency:      "KES",
		Method:        "mpesa",
		Status:        models.PaymentPending,
		PhoneNumber:   mpesa.NormalizePhone(payerPhone),
		PlatformFee:   fee,
		ProviderShare: amount - fee,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Payments.Create(payment); err != nil {
		return nil, fmt.Errorf("failed to create payment record: %w", err)
	}

	resp, err := s.Gateway.InitiateCharge(ctx, mpesa.ChargeRequest{
		PhoneNumber: payment.PhoneNumber,
		Amount:      amount,
		Reference:   bk.ID,
		Description: fmt.Sprintf("%s booking", bk.ServiceType),
	})
	if err != nil {
		s.failPayment(payment, "gateway unreachable")
		return nil, NewTransient("payment gateway unreachable", err)
	}
	if !resp.Accepted {
		s.failPayment(payment, resp.Description)
		return nil, NewGatewayRejected(resp.Description)
	}

	payment.Status = models.PaymentProcessing
	payment.TransactionID = resp.CheckoutRequestID
	payment.UpdatedAt = time.Now()
	if err := s.Payments.Update(payment); err != nil {
		return nil, fmt.Errorf("failed to mark payment processing: %w", err)
	}

	s.Logger.Info("payment initiated",
		zap.String("booking_id", bk.ID),
		zap.String("payment_id", payment.ID),
		zap.String("transaction_id", payment.TransactionID))
	return payment, nil
}

// HandlePaymentCallback reconciles an asynchronous gateway result with
// the payment ledger. Unknown transactions are logged and dropped, and
// callbacks for terminal payments are ignored, so a replayed callback
// settles each payment exactly once.
func (s *DefaultLifecycleService) HandlePaymentCallback(ctx context.Context, cb models.STKCallback) error {
	payment, err := s.Payments.GetByTransactionID(cb.CheckoutRequestID)
	if err != nil {
		return fmt.Errorf("failed to look up transaction %s: %w", cb.CheckoutRequestID, err)
	}
	if payment == nil {
		s.Logger.Warn("callback for unknown transaction",
			zap.String("checkout_request_id", cb.CheckoutRequestID))
		return nil
	}
	if payment.Terminal() {
		s.Logger.Info("callback replay ignored",
			zap.String("payment_id", payment.ID),
			zap.String("status", payment.Status))
		return nil
	}

	now := time.Now()
	if cb.ResultCode != 0 {
		payment.Status = models.PaymentFailed
		payment.FailureReason = cb.ResultDesc
		payment.ProcessedAt = &now
		payment.UpdatedAt = now
		if err := s.Payments.Update(payment); err != nil {
			return fmt.Errorf("failed to mark payment failed: %w", err)
		}
		s.Logger.Info("payment failed",
			zap.String("payment_id", payment.ID),
			zap.Int("result_code", cb.ResultCode),
			zap.String("reason", cb.ResultDesc))
		return nil
	}

	payment.Status = models.PaymentCompleted
	payment.ReceiptNumber = cb.MetadataString("MpesaReceiptNumber")
	payment.ProcessedAt = &now
	payment.UpdatedAt = now
	if err := s.Payments.Update(payment); err != nil {
		return fmt.Errorf("failed to mark payment completed: %w", err)
	}

	bk, err := s.Bookings.GetByID(payment.BookingID)
	if err != nil {
		return fmt.Errorf("payment %s settled but booking load failed: %w", payment.ID, err)
	}
	if bk == nil {
		s.Logger.Error("payment settled for missing booking",
			zap.String("payment_id", payment.ID),
			zap.String("booking_id", payment.BookingID))
		return nil
	}

	bk.PaymentStatus = models.PaymentStatusPaid
	bk.UpdatedAt = now
	if err := s.Bookings.Update(bk); err != nil {
		return fmt.Errorf("payment %s settled but booking update failed: %w", payment.ID, err)
	}

	s.Logger.Info("payment completed",
		zap.String("payment_id", payment.ID),
		zap.String("booking_id", bk.ID),
		zap.String("receipt", payment.ReceiptNumber))

	s.notifyClient(ctx, bk, fmt.Sprintf(
		"🎉 Payment received! KES %.0f for your %s booking.\nM-Pesa receipt: %s\n\nThank you for using Fundis.",
		payment.Amount, bk.ServiceType, payment.ReceiptNumber))
	return nil
}

// failPayment records a failed initiation. Best effort: the caller is
// already returning the initiation error.
func (s *DefaultLifecycleService) failPayment(payment *models.Payment, reason string) {
	now := time.Now()
	payment.Status = models.PaymentFailed
	payment.FailureReason = reason
	payment.ProcessedAt = &now
	payment.UpdatedAt = now
	if err := s.Payments.Update(payment); err != nil {
		s.Logger.Error("failed to record payment failure",
			zap.String("payment_id", payment.ID), zap.Error(err))
	}
}
