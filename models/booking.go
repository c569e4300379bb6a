package models

import "time"

// Booking statuses.
const (
	BookingPending    = "pending"
	BookingConfirmed  = "confirmed"
	BookingInProgress = "in_progress"
	BookingCompleted  = "completed"
	BookingCancelled  = "cancelled"
)

// Booking payment statuses.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Booking is a durable record of a client requesting a provider's
// service at a date and location.
type Booking struct {
	ID                 string     `bson:"id" json:"id"`
	ClientID           string     `bson:"client_id" json:"client_id"`
	ProviderID         string     `bson:"provider_id" json:"provider_id"`
	ServiceType        string     `bson:"service_type" json:"service_type"`
	Description        string     `bson:"description" json:"description"`
	Location           string     `bson:"location" json:"location"`
	ScheduledDate      time.Time  `bson:"scheduled_date" json:"scheduled_date"`
	DurationHours      int        `bson:"duration_hours,omitempty" json:"duration_hours,omitempty"`
	Status             string     `bson:"status" json:"status"`
	EstimatedCost      float64    `bson:"estimated_cost" json:"estimated_cost"`
	FinalCost          float64    `bson:"final_cost,omitempty" json:"final_cost,omitempty"`
	PaymentStatus      string     `bson:"payment_status" json:"payment_status"`
	PaymentMethod      string     `bson:"payment_method" json:"payment_method"`
	CancellationReason string     `bson:"cancellation_reason,omitempty" json:"cancellation_reason,omitempty"`
	CompletedAt        *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	CancelledAt        *time.Time `bson:"cancelled_at,omitempty" json:"cancelled_at,omitempty"`
	CreatedAt          time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `bson:"updated_at" json:"updated_at"`
}
