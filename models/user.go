package models

import "time"

// User roles.
const (
	RoleClient   = "client"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
)

// User represents a platform user. Identity is anchored on the
// WhatsApp ID; email/password only exist for dashboard accounts.
type User struct {
	ID           string    `bson:"id" json:"id"`
	PhoneNumber  string    `bson:"phone_number" json:"phone_number"`
	WhatsAppID   string    `bson:"whatsapp_id" json:"whatsapp_id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email,omitempty" json:"email,omitempty"`
	PasswordHash string    `bson:"password_hash,omitempty" json:"-"`
	Role         string    `bson:"role" json:"role"`
	Verified     bool      `bson:"verified" json:"verified"`
	Active       bool      `bson:"active" json:"active"`
	LastSeenAt   time.Time `bson:"last_seen_at,omitempty" json:"last_seen_at,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}
