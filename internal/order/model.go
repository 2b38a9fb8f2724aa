package order

import (
	"storefront/internal/catalog"
	"storefront/internal/pricing"
)

// Form is what the buyer types into the order dialog. Quantity is only asked
// for medicines; zero means not given.
type Form struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Pincode  string `json:"pincode"`
	Quantity int    `json:"quantity,omitempty"`
}

// Intent binds a validated form to one listing. It is never stored.
type Intent struct {
	Kind      catalog.Kind
	Item      catalog.Item
	Form      Form
	Breakdown pricing.Breakdown
}

// Mail is the message handed to the buyer's mail client.
type Mail struct {
	To      string
	Subject string
	Body    string
}

// SentMessage is shown after the mail client was asked to open.
const SentMessage = "Opening your email app. Please review and send the email to complete your request."
