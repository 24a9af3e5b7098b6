package core

import (
	"encoding/json"
)

// Event type constants
const (
	EventOrderCompleted = "order.completed"
)

// Account represents one provisioned buyer account. The customer payload is
// captured verbatim from the completed-order event and never parsed; keeping
// it as raw JSON preserves the provider's field order byte for byte.
type Account struct {
	Customer json.RawMessage `json:"customer,omitempty"`
	Password string          `json:"password,omitempty"`
}

// Registered reports whether the account has been claimed with a password.
func (a Account) Registered() bool {
	return a.Password != ""
}

// Accounts is the full persisted mapping of account ID to account record.
type Accounts map[string]Account

// Event is a single provider webhook event.
type Event struct {
	ID   string    `json:"id,omitempty"`
	Type string    `json:"type"`
	Data EventData `json:"data"`
}

// EventData carries the fields of an order.completed event that matter here.
// The provider sends many more; they are ignored.
type EventData struct {
	Completed bool            `json:"completed"`
	Account   string          `json:"account"`
	Customer  json.RawMessage `json:"customer,omitempty"`
}

// WebhookPayload is the body of a provider webhook delivery.
type WebhookPayload struct {
	Events []Event `json:"events"`
}

// Order is an order as returned by the payment provider API.
type Order struct {
	ID        string `json:"order"`
	Reference string `json:"reference,omitempty"`
	Account   string `json:"account"`
	Completed bool   `json:"completed"`
}

// Stats summarizes the store contents for the status command.
type Stats struct {
	Accounts   int `json:"accounts"`
	Registered int `json:"registered"`
}
