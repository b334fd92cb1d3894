package entity

import "time"

type CheckoutMode string

const (
	CheckoutModePayment      CheckoutMode = "payment"
	CheckoutModeSubscription CheckoutMode = "subscription"
)

type CheckoutRequest struct {
	PriceID string       `json:"price_id"`
	Amount  int64        `json:"amount"` // cents, used when PriceID is empty
	Mode    CheckoutMode `json:"mode"`
}

type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Payment is a completed checkout reported by the billing webhook.
type Payment struct {
	EventID       string    `json:"event_id" bson:"event_id" db:"event_id"`
	SessionID     string    `json:"session_id" bson:"session_id" db:"session_id"`
	CustomerEmail string    `json:"customer_email,omitempty" bson:"customer_email,omitempty" db:"customer_email"`
	AmountTotal   int64     `json:"amount_total" bson:"amount_total" db:"amount_total"`
	Currency      string    `json:"currency" bson:"currency" db:"currency"`
	Status        string    `json:"status" bson:"status" db:"status"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at" db:"created_at"`
}
