package payment

import (
	"context"
	"strings"

	"francoggm/pagseguro-transparente/internal/app/gateway"
	"francoggm/pagseguro-transparente/internal/models"

	"go.uber.org/zap"
)

// ProcessNotification fetches the transaction behind a webhook notification and
// reconciles it with the stored payment under the order lock.
//
// A returned error means the notification should be tried again later. Anything
// the gateway answered comes back as a Reconciliation instead.
func (s *PaymentService) ProcessNotification(ctx context.Context, notificationCode string) (gateway.Reconciliation, error) {
	if strings.TrimSpace(notificationCode) == "" {
		return gateway.Reconciliation{}, &gateway.Error{
			Kind:    gateway.KindPrecondition,
			Message: "cannot process notification",
			Cause:   gateway.ErrMissingNotificationCode,
		}
	}

	resp, err := s.client.FetchNotification(ctx, notificationCode, s.settings.Credentials, s.settings.AuthorizationCode)
	if err != nil {
		return gateway.Reconciliation{}, err
	}
	if resp.ServerError || resp.Timeout {
		return gateway.FetchFailed(), gateway.Transient("notification fetch was not answered", nil)
	}

	tx, ok := gateway.TransactionFromFetch(resp)
	if !ok {
		rec := gateway.FetchFailed()
		s.logReconciliation(notificationCode, rec)
		return rec, nil
	}

	orderNumber, err := tx.OrderNumber()
	if err != nil {
		rec := gateway.Reconciliation{Result: gateway.ResultError, Details: []string{err.Error()}}
		s.logReconciliation(notificationCode, rec)
		return rec, nil
	}

	var rec gateway.Reconciliation
	_, err = s.store.Update(ctx, orderNumber, func(stored models.StoredPayment) (models.PaymentDelta, error) {
		rec = gateway.Reconcile(tx, stored)
		if rec.Result != gateway.ResultOK {
			return models.PaymentDelta{}, nil
		}
		return rec.Delta, nil
	})
	if err != nil {
		return gateway.Reconciliation{}, gateway.Transient("could not store reconciliation", err)
	}

	rec.OrderNumber = orderNumber
	s.logReconciliation(notificationCode, rec)
	return rec, nil
}

func (s *PaymentService) logReconciliation(notificationCode string, rec gateway.Reconciliation) {
	fields := []zap.Field{
		zap.String("notification_code", notificationCode),
		zap.Int("order", rec.OrderNumber),
		zap.String("result", string(rec.Result)),
		zap.String("decision", string(rec.Decision)),
		zap.Strings("details", rec.Details),
	}
	if rec.Result == gateway.ResultOK {
		s.logger.Info("notification reconciled", fields...)
		return
	}
	s.logger.Warn("notification not reconciled", fields...)
}
