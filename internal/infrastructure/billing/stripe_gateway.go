package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"sitebuilder/internal/domain/entity"
	"sitebuilder/internal/domain/repository"
)

type checkoutSessions interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type StripeGateway struct {
	secretKey     string
	webhookSecret string
	currency      string
	productName   string
	successURL    string
	cancelURL     string
	sessions      checkoutSessions
}

func NewStripeGateway(secretKey, webhookSecret, frontendURL, currency, productName string) repository.PaymentGateway {
	return &StripeGateway{
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		currency:      currency,
		productName:   productName,
		successURL:    frontendURL + "/success?session_id={CHECKOUT_SESSION_ID}",
		cancelURL:     frontendURL + "/cancel",
		sessions:      client.New(secretKey, nil).CheckoutSessions,
	}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req entity.CheckoutRequest) (entity.CheckoutSession, error) {
	if g.secretKey == "" {
		return entity.CheckoutSession{}, fmt.Errorf("stripe secret key: %w", entity.ErrBillingNotConfigured)
	}

	item := &stripe.CheckoutSessionLineItemParams{Quantity: stripe.Int64(1)}
	if req.PriceID != "" {
		item.Price = stripe.String(req.PriceID)
	} else {
		item.PriceData = &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String(g.currency),
			UnitAmount: stripe.Int64(req.Amount),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String(g.productName),
			},
		}
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(req.Mode)),
		LineItems:  []*stripe.CheckoutSessionLineItemParams{item},
		SuccessURL: stripe.String(g.successURL),
		CancelURL:  stripe.String(g.cancelURL),
	}
	params.Context = ctx

	s, err := g.sessions.New(params)
	if err != nil {
		return entity.CheckoutSession{}, fmt.Errorf("stripe create checkout session: %w", err)
	}
	return entity.CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*entity.Payment, error) {
	if g.webhookSecret == "" {
		return nil, fmt.Errorf("stripe webhook secret: %w", entity.ErrBillingNotConfigured)
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: webhook signature: %v", entity.ErrInvalidArgument, err)
	}

	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		return nil, nil
	}
	if event.Data == nil {
		return nil, fmt.Errorf("%w: event %s has no data", entity.ErrInvalidArgument, event.ID)
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("%w: decode checkout session: %v", entity.ErrInvalidArgument, err)
	}

	email := session.CustomerEmail
	if session.CustomerDetails != nil && session.CustomerDetails.Email != "" {
		email = session.CustomerDetails.Email
	}

	return &entity.Payment{
		EventID:       event.ID,
		SessionID:     session.ID,
		CustomerEmail: email,
		AmountTotal:   session.AmountTotal,
		Currency:      string(session.Currency),
		Status:        string(session.PaymentStatus),
		CreatedAt:     time.Unix(event.Created, 0).UTC(),
	}, nil
}
