package models

// Conversation steps. A context whose Step is empty or unknown is
// treated the same as no context at all.
const (
	StepAwaitingName = "awaiting_name" // first-contact registration

	StepAwaitingServiceType = "awaiting_service_type"
	StepAwaitingDescription = "awaiting_description"
	StepAwaitingLocation    = "awaiting_location"
	StepAwaitingDate        = "awaiting_date"

	StepAwaitingBusinessName = "awaiting_business_name"
	StepAwaitingServices     = "awaiting_services"
	StepAwaitingHourlyRate   = "awaiting_hourly_rate"
)

// ConversationContext is the short-lived record of where a user is
// within a multi-step chat flow. It lives only in the context store;
// expiry mid-flow is equivalent to the user never having started.
type ConversationContext struct {
	UserID       string `json:"user_id,omitempty"`
	Step         string `json:"step"`
	ServiceType  string `json:"service_type,omitempty"`
	Description  string `json:"description,omitempty"`
	Location     string `json:"location,omitempty"`
	DateText     string `json:"date_text,omitempty"`
	BusinessName string `json:"business_name,omitempty"`
	Services     string `json:"services,omitempty"`
	Name         string `json:"name,omitempty"`
}
