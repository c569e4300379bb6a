package paymentRepo

import "fundis/models"

// PaymentRepository defines persistence for payment attempts. Lookups
// return (nil, nil) when no document matches.
type PaymentRepository interface {
	Create(payment *models.Payment) error
	Update(payment *models.Payment) error
	GetByID(id string) (*models.Payment, error)
	GetByTransactionID(transactionID string) (*models.Payment, error)
	// FindActiveByBooking returns a payment for the booking whose
	// status is pending, processing or completed, if one exists.
	FindActiveByBooking(bookingID string) (*models.Payment, error)
	SumPlatformFees() (float64, error)
}
