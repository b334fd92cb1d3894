package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"sitebuilder/internal/domain/entity"
	"sitebuilder/internal/domain/repository"
	"sitebuilder/internal/infrastructure/metrics"
)

type CheckoutUsecase interface {
	CreateCheckoutSession(ctx context.Context, req entity.CheckoutRequest) (entity.CheckoutSession, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

var _ CheckoutUsecase = (*CheckoutService)(nil)

type CheckoutService struct {
	gateway  repository.PaymentGateway
	payments repository.PaymentRepository
	logger   *slog.Logger
}

func NewCheckoutService(gw repository.PaymentGateway, payments repository.PaymentRepository, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{
		gateway:  gw,
		payments: payments,
		logger:   logger,
	}
}

func (s *CheckoutService) CreateCheckoutSession(ctx context.Context, req entity.CheckoutRequest) (entity.CheckoutSession, error) {
	if req.Mode == "" {
		req.Mode = entity.CheckoutModePayment
	}

	switch req.Mode {
	case entity.CheckoutModePayment:
		if req.PriceID == "" && req.Amount <= 0 {
			return entity.CheckoutSession{}, fmt.Errorf("%w: price_id or a positive amount is required", entity.ErrInvalidArgument)
		}
	case entity.CheckoutModeSubscription:
		if req.PriceID == "" {
			return entity.CheckoutSession{}, fmt.Errorf("%w: subscription checkout requires price_id", entity.ErrInvalidArgument)
		}
	default:
		return entity.CheckoutSession{}, fmt.Errorf("%w: unknown mode %q", entity.ErrInvalidArgument, req.Mode)
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, req)
	if err != nil {
		metrics.IncCheckoutSession(string(req.Mode), "error")
		return entity.CheckoutSession{}, err
	}

	metrics.IncCheckoutSession(string(req.Mode), "created")
	s.logger.Info("checkout session created", "session_id", session.ID, "mode", req.Mode)
	return session, nil
}

// HandleWebhook verifies a billing event and records completed checkouts.
func (s *CheckoutService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	payment, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		metrics.IncWebhookEvent("rejected")
		if !errors.Is(err, entity.ErrBillingNotConfigured) {
			s.logger.Warn("webhook rejected", "err", err)
		}
		return err
	}
	if payment == nil {
		metrics.IncWebhookEvent("ignored")
		return nil
	}

	if err := s.payments.Save(ctx, payment); err != nil {
		metrics.IncError("checkout", "save_payment")
		return fmt.Errorf("save payment %s: %w", payment.EventID, err)
	}

	metrics.IncWebhookEvent("recorded")
	s.logger.Info("payment recorded", "event_id", payment.EventID, "session_id", payment.SessionID,
		"amount_total", payment.AmountTotal, "currency", payment.Currency)
	return nil
}
