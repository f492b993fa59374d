package payment

import (
	"context"
	"strings"

	"francoggm/pagseguro-transparente/internal/app/gateway"
	"francoggm/pagseguro-transparente/internal/models"

	"go.uber.org/zap"
)

// Checkout delivers an order to the gateway and classifies the answer. Transport
// failures come back as retryable errors; a classified outcome that could not be
// handled comes back with a *gateway.DeliveryError.
func (s *PaymentService) Checkout(ctx context.Context, order models.Order, nextURL string) (gateway.Outcome, error) {
	if strings.TrimSpace(nextURL) == "" {
		return gateway.Outcome{}, &gateway.Error{Kind: gateway.KindPrecondition, Message: "cannot start checkout", Cause: gateway.ErrMissingNextURL}
	}
	if err := gateway.ValidateOrder(order); err != nil {
		return gateway.Outcome{}, err
	}

	payload := gateway.Build(order, s.settings.Credentials, gateway.BuildContext{
		NotificationBaseURL: s.callbackBase(),
		NextURL:             nextURL,
	})

	resp, err := s.client.PostCheckout(ctx, payload, s.settings.AuthorizationCode)
	if err != nil {
		s.logger.Warn("checkout delivery failed", zap.Int("order", order.Number), zap.Error(err))
		return gateway.Outcome{}, err
	}

	outcome, err := s.classifier.Classify(resp, gateway.Delivery{
		StoreID:     s.settings.StoreID,
		OrderNumber: order.Number,
		Payload:     payload,
	})
	if err != nil {
		s.logger.Error("checkout rejected",
			zap.Int("order", order.Number),
			zap.Int("status", outcome.StatusCode),
			zap.Strings("errors", outcome.Messages),
			zap.Error(err))
		return outcome, err
	}

	fields := []zap.Field{
		zap.Int("order", order.Number),
		zap.String("outcome", string(outcome.Kind)),
		zap.Int("status", outcome.StatusCode),
	}
	if outcome.Kind == gateway.OutcomeSuccess {
		s.logger.Info("checkout created", append(fields, zap.String("checkout_code", outcome.CheckoutCode))...)
	} else {
		s.logger.Warn("checkout not created", append(fields, zap.String("message", outcome.Display()))...)
	}

	return outcome, nil
}
