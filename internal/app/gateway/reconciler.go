package gateway

import (
	"fmt"
	"strconv"
	"strings"

	"francoggm/pagseguro-transparente/internal/models"
)

type Result string

const (
	ResultOK    Result = "OK"
	ResultError Result = "ERROR"
)

// Decision tells the store how a notification relates to what it already knows.
type Decision string

const (
	// DecisionNone is used with ResultError: nothing may change.
	DecisionNone Decision = ""
	// DecisionAdopt records the incoming transaction on a record that had none.
	DecisionAdopt Decision = "adopt"
	// DecisionConfirm refreshes the status of the transaction already recorded.
	DecisionConfirm Decision = "confirm"
	// DecisionIgnore leaves a record bound to another transaction untouched.
	DecisionIgnore Decision = "ignore"
)

const (
	detailNoResponse = "no valid response received from gateway"
	detailNoCode     = "gateway did not send a transaction code"
)

// Reconciliation is the outcome of matching a notified transaction against the
// stored payment. Delta is only a proposal; applying it is up to the store.
type Reconciliation struct {
	Result      Result
	Decision    Decision
	OrderNumber int
	Delta       models.PaymentDelta
	Details     []string
}

// FetchFailed is the reconciliation for a notification whose transaction could not
// be fetched.
func FetchFailed() Reconciliation {
	return Reconciliation{Result: ResultError, Details: []string{detailNoResponse}}
}

// TransactionFromFetch returns the transaction carried by a notification fetch.
func TransactionFromFetch(resp *Response) (*Transaction, bool) {
	if resp == nil || !resp.Success || resp.Body == nil || resp.Body.Transaction == nil {
		return nil, false
	}
	return resp.Body.Transaction, true
}

// OrderNumber parses the transaction reference, which the store sets to the order number.
func (t *Transaction) OrderNumber() (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(t.Reference))
	if err != nil {
		return 0, fmt.Errorf("transaction reference %q is not an order number: %w", t.Reference, err)
	}
	return n, nil
}

// Reconcile decides what a notified transaction may change on the stored payment.
// The first transaction recorded for an order wins: a notification for a different
// transaction never overwrites it.
func Reconcile(tx *Transaction, stored models.StoredPayment) Reconciliation {
	rec := Reconciliation{OrderNumber: stored.OrderNumber}
	if tx == nil || strings.TrimSpace(tx.Code) == "" {
		rec.Result = ResultError
		rec.Details = []string{detailNoCode}
		return rec
	}

	rec.Result = ResultOK
	code := strings.TrimSpace(tx.Code)

	if stored.TransactionID != "" {
		rec.Details = append(rec.Details, fmt.Sprintf("stored id present (%s)", stored.TransactionID))
		if code != stored.TransactionID {
			rec.Decision = DecisionIgnore
			rec.Details = append(rec.Details,
				fmt.Sprintf("codes differ: transaction code (%s) is not the stored transaction id (%s)", code, stored.TransactionID))
			return rec
		}

		rec.Decision = DecisionConfirm
		rec.Details = append(rec.Details,
			fmt.Sprintf("codes match: transaction code (%s) equals the stored transaction id", code))
		rec.Delta = amountAndStatus(tx, &rec)
		return rec
	}

	rec.Decision = DecisionAdopt
	rec.Details = append(rec.Details,
		fmt.Sprintf("stored record had no transaction id; adopting incoming one (%s)", code))
	rec.Delta = amountAndStatus(tx, &rec)
	rec.Delta.TransactionID = code
	return rec
}

func amountAndStatus(tx *Transaction, rec *Reconciliation) models.PaymentDelta {
	delta := models.PaymentDelta{Status: TranslateStatus(tx.Status)}
	gross, err := tx.Gross()
	if err != nil {
		rec.Details = append(rec.Details, "gross amount ignored: "+err.Error())
		return delta
	}
	delta.GrossAmount = gross
	return delta
}

// RedirectRequest is what the gateway appends when sending the buyer back to the store.
type RedirectRequest struct {
	Transaction string
	Reference   string
	NextURL     string
}

// ShouldFetch reports whether the redirect carries a transaction worth looking up.
func (r RedirectRequest) ShouldFetch() bool {
	return strings.TrimSpace(r.Transaction) != ""
}

type RedirectStatus string

const (
	RedirectSuccess RedirectStatus = "success"
	RedirectPending RedirectStatus = "pending"
)

// RedirectResult is the payment state known when the buyer returns from checkout.
type RedirectResult struct {
	Status      RedirectStatus
	OrderNumber int
	Delta       models.PaymentDelta
	NextURL     string
}

// ReconcileRedirect handles the buyer redirect. The order comes from the query
// string, so the fetched transaction must reference that same order before
// anything is proposed for it.
func ReconcileRedirect(req RedirectRequest, resp *Response) RedirectResult {
	result := RedirectResult{Status: RedirectPending, NextURL: req.NextURL}
	reference := strings.TrimSpace(req.Reference)
	if n, err := strconv.Atoi(reference); err == nil {
		result.OrderNumber = n
	}

	if !req.ShouldFetch() {
		return result
	}
	tx, ok := TransactionFromFetch(resp)
	if !ok || strings.TrimSpace(tx.Reference) != reference {
		return result
	}

	result.Status = RedirectSuccess
	result.Delta.IdentifierID = req.Transaction
	result.Delta.TransactionID = strings.TrimSpace(tx.Code)
	result.Delta.Status = TranslateStatus(tx.Status)
	if gross, err := tx.Gross(); err == nil {
		result.Delta.GrossAmount = gross
	}
	return result
}

// DeltaFor narrows the redirect delta to what may change on the stored record.
// A record already bound to a different transaction is left untouched.
func (r RedirectResult) DeltaFor(stored models.StoredPayment) models.PaymentDelta {
	if r.Status != RedirectSuccess {
		return models.PaymentDelta{}
	}
	if stored.TransactionID != "" && stored.TransactionID != r.Delta.TransactionID {
		return models.PaymentDelta{}
	}
	return r.Delta
}
