package payment

import (
	"context"

	"francoggm/pagseguro-transparente/internal/app/gateway"
	"francoggm/pagseguro-transparente/internal/models"

	"go.uber.org/zap"
)

// HandleRedirect records what is known when the buyer comes back from the gateway.
// The buyer is never blocked by a failed lookup: it only leaves the payment pending.
func (s *PaymentService) HandleRedirect(ctx context.Context, req gateway.RedirectRequest) (gateway.RedirectResult, error) {
	var resp *gateway.Response
	if req.ShouldFetch() {
		var err error
		resp, err = s.client.FetchTransaction(ctx, req.Transaction, s.settings.Credentials, s.settings.AuthorizationCode)
		if err != nil {
			s.logger.Warn("redirect transaction lookup failed", zap.String("transaction", req.Transaction), zap.Error(err))
		}
	}

	result := gateway.ReconcileRedirect(req, resp)
	if result.Status != gateway.RedirectSuccess || result.OrderNumber <= 0 {
		return result, nil
	}

	var applied models.PaymentDelta
	_, err := s.store.Update(ctx, result.OrderNumber, func(stored models.StoredPayment) (models.PaymentDelta, error) {
		applied = result.DeltaFor(stored)
		return applied, nil
	})
	if err != nil {
		return result, err
	}

	if applied.IsEmpty() {
		s.logger.Warn("redirect transaction differs from the recorded one",
			zap.Int("order", result.OrderNumber),
			zap.String("transaction_id", result.Delta.TransactionID))
		return result, nil
	}
	s.logger.Info("redirect payment recorded",
		zap.Int("order", result.OrderNumber),
		zap.String("transaction_id", result.Delta.TransactionID),
		zap.String("status", string(result.Delta.Status)))
	return result, nil
}
