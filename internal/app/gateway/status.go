package gateway

import "francoggm/pagseguro-transparente/internal/models"

// Gateway transaction status codes. Code 4 (funds available) has no order status
// counterpart and translates to unknown.
var statusByCode = map[string]models.Status{
	"1": models.StatusAwaitingPayment,
	"2": models.StatusInAnalysis,
	"3": models.StatusPaid,
	"5": models.StatusInDispute,
	"6": models.StatusRefunded,
	"7": models.StatusCancelled,
	"8": models.StatusChargeback,
}

// TranslateStatus maps a gateway status code to the canonical payment status.
// Unrecognised codes yield models.StatusUnknown.
func TranslateStatus(code string) models.Status {
	return statusByCode[code]
}
