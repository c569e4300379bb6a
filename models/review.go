package models

import "time"

// Review is a client rating of a completed booking. One per booking.
type Review struct {
	ID         string    `bson:"id" json:"id"`
	BookingID  string    `bson:"booking_id" json:"booking_id"`
	ClientID   string    `bson:"client_id" json:"client_id"`
	ProviderID string    `bson:"provider_id" json:"provider_id"`
	Rating     int       `bson:"rating" json:"rating"`
	Comment    string    `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}
