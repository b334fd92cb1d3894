package repository

import (
	"context"

	"sitebuilder/internal/domain/entity"
)

// PaymentGateway wraps the external billing provider.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req entity.CheckoutRequest) (entity.CheckoutSession, error)
	// ParseWebhook verifies the signature and returns the completed payment, or
	// nil for events that carry none.
	ParseWebhook(payload []byte, signature string) (*entity.Payment, error)
}

type PaymentRepository interface {
	Save(ctx context.Context, payment *entity.Payment) error
}
