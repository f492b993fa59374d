package payment

import (
	"context"
	"strconv"
	"strings"

	"francoggm/pagseguro-transparente/internal/app/gateway"
	"francoggm/pagseguro-transparente/internal/models"

	"go.uber.org/zap"
)

// maxSearchPages bounds one sync run.
const maxSearchPages = 50

// SyncReport summarizes one transaction search run.
type SyncReport struct {
	Pages   int `json:"pages"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// SyncTransactions searches the transactions changed in the query window and
// reconciles each one with the stored payment of its order.
func (s *PaymentService) SyncTransactions(ctx context.Context, query gateway.SearchQuery) (SyncReport, error) {
	var report SyncReport
	if query.Page < 1 {
		query.Page = 1
	}

	for {
		resp, err := s.client.SearchTransactions(ctx, query, s.settings.Credentials, s.settings.AuthorizationCode)
		if err != nil {
			return report, err
		}
		page, err := gateway.ParseSearch(resp)
		if err != nil {
			return report, err
		}
		report.Pages++

		for _, order := range page.Orders {
			if s.applySearchStatus(ctx, order) {
				report.Updated++
			} else {
				report.Skipped++
			}
		}

		if page.CurrentPage >= page.TotalPages || report.Pages >= maxSearchPages {
			break
		}
		query.Page = page.CurrentPage + 1
	}

	s.logger.Info("transactions synchronized",
		zap.String("initial_date", query.InitialDate),
		zap.Int("pages", report.Pages),
		zap.Int("updated", report.Updated),
		zap.Int("skipped", report.Skipped))
	return report, nil
}

// applySearchStatus reconciles one search hit like a notification, so an order
// already bound to another transaction keeps its status.
func (s *PaymentService) applySearchStatus(ctx context.Context, order gateway.OrderStatus) bool {
	orderNumber, err := strconv.Atoi(strings.TrimSpace(order.Reference))
	if err != nil {
		s.logger.Debug("search result without order reference", zap.String("reference", order.Reference))
		return false
	}
	if gateway.TranslateStatus(order.Status) == models.StatusUnknown {
		return false
	}

	tx := &gateway.Transaction{Code: order.Code, Reference: order.Reference, Status: order.Status}
	var rec gateway.Reconciliation
	_, err = s.store.Update(ctx, orderNumber, func(stored models.StoredPayment) (models.PaymentDelta, error) {
		rec = gateway.Reconcile(tx, stored)
		if rec.Result != gateway.ResultOK {
			return models.PaymentDelta{}, nil
		}
		return rec.Delta, nil
	})
	if err != nil {
		s.logger.Warn("could not store synchronized status", zap.Int("order", orderNumber), zap.Error(err))
		return false
	}

	switch rec.Decision {
	case gateway.DecisionAdopt, gateway.DecisionConfirm:
		return true
	default:
		s.logger.Debug("search result not applied",
			zap.Int("order", orderNumber),
			zap.String("result", string(rec.Result)),
			zap.Strings("details", rec.Details))
		return false
	}
}
