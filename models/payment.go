package models

import "time"

// Payment statuses.
const (
	PaymentPending    = "pending"
	PaymentProcessing = "processing"
	PaymentCompleted  = "completed"
	PaymentFailed     = "failed"
	PaymentCancelled  = "cancelled"
	PaymentRefunded   = "refunded"
)

// PlatformFeeRate is the fixed platform cut applied to every payment.
const PlatformFeeRate = 0.05

// Payment is one attempted mobile-money charge tied to exactly one
// booking. TransactionID holds the gateway's CheckoutRequestID once
// the charge has been accepted for processing.
type Payment struct {
	ID            string     `bson:"id" json:"id"`
	BookingID     string     `bson:"booking_id" json:"booking_id"`
	Amount        float64    `bson:"amount" json:"amount"`
	Currency      string     `bson:"currency" json:"currency"`
	Method        string     `bson:"method" json:"method"`
	Status        string     `bson:"status" json:"status"`
	TransactionID string     `bson:"transaction_id,omitempty" json:"transaction_id,omitempty"`
	ReceiptNumber string     `bson:"receipt_number,omitempty" json:"receipt_number,omitempty"`
	PhoneNumber   string     `bson:"phone_number" json:"phone_number"`
	ProviderShare float64    `bson:"provider_share" json:"provider_share"`
	PlatformFee   float64    `bson:"platform_fee" json:"platform_fee"`
	FailureReason string     `bson:"failure_reason,omitempty" json:"failure_reason,omitempty"`
	ProcessedAt   *time.Time `bson:"processed_at,omitempty" json:"processed_at,omitempty"`
	CreatedAt     time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `bson:"updated_at" json:"updated_at"`
}

// Terminal reports whether the payment has reached a final state and
// must not be mutated by a replayed gateway callback.
func (p *Payment) Terminal() bool {
	switch p.Status {
	case PaymentCompleted, PaymentFailed, PaymentCancelled, PaymentRefunded:
		return true
	}
	return false
}
