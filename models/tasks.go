package models

// ReminderPayload is the asynq task body for a scheduled payment
// reminder sent to a client over WhatsApp.
type ReminderPayload struct {
	BookingID   string  `json:"booking_id"`
	WhatsAppID  string  `json:"whatsapp_id"`
	ServiceType string  `json:"service_type"`
	Amount      float64 `json:"amount"`
}
