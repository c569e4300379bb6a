package handlers

import (
	"net/http"

	bookingRepo "fundis/database/repository/booking"
	paymentRepo "fundis/database/repository/payment"
	"fundis/models"
	"fundis/services/booking"
	"fundis/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler exposes payment initiation, status and the gateway
// callback endpoint.
type PaymentHandler struct {
	Lifecycle booking.LifecycleService
	Payments  paymentRepo.PaymentRepository
	Bookings  bookingRepo.BookingRepository
}

type initiatePaymentRequest struct {
	BookingID string `json:"booking_id" binding:"required"`
}

// Initiate starts an M-Pesa charge for the caller's booking.
func (h *PaymentHandler) Initiate(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req initiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "booking_id is required"})
		return
	}

	bk, err := h.Bookings.GetByID(req.BookingID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load booking"})
		return
	}
	if bk == nil || bk.ClientID != user.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	payment, err := h.Lifecycle.InitiatePayment(c.Request.Context(), bk.ID, user.PhoneNumber, bk.EstimatedCost)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// Status returns a payment record for the caller's booking.
func (h *PaymentHandler) Status(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	payment, err := h.Payments.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payment"})
		return
	}
	if payment == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}

	bk, err := h.Bookings.GetByID(payment.BookingID)
	if err != nil || bk == nil || (bk.ClientID != user.ID && user.Role != models.RoleAdmin) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}
	c.JSON(http.StatusOK, payment)
}

// Callback receives the asynchronous Daraja result. It always answers
// 200: the gateway treats anything else as undelivered and replays,
// and reconciliation is already idempotent.
func (h *PaymentHandler) Callback(c *gin.Context) {
	logger := utils.GetLogger()

	var envelope models.STKCallbackEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		logger.Warn("Malformed payment callback", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"ResultCode": 0, "ResultDesc": "Accepted"})
		return
	}

	if err := h.Lifecycle.HandlePaymentCallback(c.Request.Context(), envelope.Body.StkCallback); err != nil {
		logger.Error("Payment callback processing failed",
			zap.String("checkout_request_id", envelope.Body.StkCallback.CheckoutRequestID),
			zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"ResultCode": 0, "ResultDesc": "Accepted"})
}
