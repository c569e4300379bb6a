package handlers

// HandlerBundle groups all endpoint handlers into one struct so route
// registration takes a single dependency.
type HandlerBundle struct {
	Webhook  *WebhookHandler
	Payments *PaymentHandler
	Bookings *BookingHandler
	Admin    *AdminHandler
	Auth     *AuthHandler
}
