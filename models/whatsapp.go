package models

// WhatsApp Cloud API webhook payload (only the fields the bot reads).

type WhatsAppWebhook struct {
	Object string          `json:"object"`
	Entry  []WhatsAppEntry `json:"entry"`
}

type WhatsAppEntry struct {
	ID      string           `json:"id"`
	Changes []WhatsAppChange `json:"changes"`
}

type WhatsAppChange struct {
	Field string        `json:"field"`
	Value WhatsAppValue `json:"value"`
}

type WhatsAppValue struct {
	MessagingProduct string            `json:"messaging_product"`
	Contacts         []WhatsAppContact `json:"contacts"`
	Messages         []WhatsAppMessage `json:"messages"`
}

type WhatsAppContact struct {
	WaID    string          `json:"wa_id"`
	Profile WhatsAppProfile `json:"profile"`
}

type WhatsAppProfile struct {
	Name string `json:"name"`
}

type WhatsAppMessage struct {
	From string        `json:"from"`
	ID   string        `json:"id"`
	Type string        `json:"type"`
	Text *WhatsAppText `json:"text,omitempty"`
}

type WhatsAppText struct {
	Body string `json:"body"`
}

// InteractivePayload is the structured message body for interactive
// (button/list) sends. The engine only uses button replies.
type InteractivePayload struct {
	Type   string             `json:"type"`
	Body   InteractiveBody    `json:"body"`
	Action *InteractiveAction `json:"action,omitempty"`
}

type InteractiveBody struct {
	Text string `json:"text"`
}

type InteractiveAction struct {
	Buttons []InteractiveButton `json:"buttons,omitempty"`
}

type InteractiveButton struct {
	Type  string          `json:"type"`
	Reply InteractiveItem `json:"reply"`
}

type InteractiveItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
