package gateway

import (
	"testing"

	"francoggm/pagseguro-transparente/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transactionResponse(tx *Transaction) *Response {
	return NewResponse(200, &Body{Root: "transaction", Transaction: tx})
}

func TestReconcile_AdoptsWhenStoredHasNoTransaction(t *testing.T) {
	tx := &Transaction{Code: "code-id", Reference: "1234", Status: "3"}
	stored := models.StoredPayment{OrderNumber: 1234}

	rec := Reconcile(tx, stored)

	assert.Equal(t, ResultOK, rec.Result)
	assert.Equal(t, DecisionAdopt, rec.Decision)
	assert.Equal(t, models.PaymentDelta{TransactionID: "code-id", Status: models.StatusPaid}, rec.Delta)
	require.NotEmpty(t, rec.Details)
	assert.Contains(t, rec.Details[len(rec.Details)-1], "had no transaction id")
}

func TestReconcile_ConfirmsMatchingTransaction(t *testing.T) {
	tx := &Transaction{Code: "code-id", Reference: "1234", Status: "6", GrossAmount: "90.00"}
	stored := models.StoredPayment{OrderNumber: 1234, TransactionID: "code-id", Status: models.StatusPaid}

	rec := Reconcile(tx, stored)

	assert.Equal(t, ResultOK, rec.Result)
	assert.Equal(t, DecisionConfirm, rec.Decision)
	assert.Empty(t, rec.Delta.TransactionID)
	assert.Equal(t, models.StatusRefunded, rec.Delta.Status)
	require.NotNil(t, rec.Delta.GrossAmount)
	assert.True(t, decimal.RequireFromString("90").Equal(*rec.Delta.GrossAmount))
	assert.Contains(t, rec.Details[0], "stored id present")
	assert.Contains(t, rec.Details[1], "codes match")
}

func TestReconcile_IgnoresDifferentTransaction(t *testing.T) {
	tx := &Transaction{Code: "B", Reference: "1234", Status: "7", GrossAmount: "10.00"}
	stored := models.StoredPayment{OrderNumber: 1234, TransactionID: "A", Status: models.StatusPaid}

	rec := Reconcile(tx, stored)

	assert.Equal(t, ResultOK, rec.Result)
	assert.Equal(t, DecisionIgnore, rec.Decision)
	assert.True(t, rec.Delta.IsEmpty())
	assert.Contains(t, rec.Details[1], "codes differ")
}

func TestReconcile_MissingTransactionCode(t *testing.T) {
	rec := Reconcile(&Transaction{Reference: "1234", Status: "3"}, models.StoredPayment{OrderNumber: 1234})

	assert.Equal(t, ResultError, rec.Result)
	assert.Equal(t, DecisionNone, rec.Decision)
	assert.True(t, rec.Delta.IsEmpty())
	assert.Equal(t, []string{"gateway did not send a transaction code"}, rec.Details)
}

func TestReconcile_GrossAmountIsOptional(t *testing.T) {
	rec := Reconcile(&Transaction{Code: "code-id", Status: "1"}, models.StoredPayment{})

	assert.Equal(t, ResultOK, rec.Result)
	assert.Nil(t, rec.Delta.GrossAmount)
	assert.Equal(t, models.StatusAwaitingPayment, rec.Delta.Status)
}

func TestReconcile_IsIdempotent(t *testing.T) {
	tx := &Transaction{Code: "code-id", Status: "3", GrossAmount: "49.90"}

	for _, stored := range []models.StoredPayment{
		{OrderNumber: 1, TransactionID: "code-id"},
		{OrderNumber: 1, TransactionID: "other"},
		{OrderNumber: 1},
	} {
		first := Reconcile(tx, stored)
		second := Reconcile(tx, stored)
		assert.Equal(t, first, second)
	}
}

func TestReconcile_ReplayAfterAdoptConfirms(t *testing.T) {
	tx := &Transaction{Code: "code-id", Status: "3"}
	stored := models.StoredPayment{OrderNumber: 1234}

	adopted := Reconcile(tx, stored)
	stored = adopted.Delta.Apply(stored)
	replayed := Reconcile(tx, stored)

	assert.Equal(t, DecisionConfirm, replayed.Decision)
	assert.Equal(t, models.StatusPaid, replayed.Delta.Status)
	assert.Equal(t, stored, replayed.Delta.Apply(stored))
}

func TestTransactionFromFetch(t *testing.T) {
	tx := &Transaction{Code: "code-id"}

	got, ok := TransactionFromFetch(transactionResponse(tx))
	assert.True(t, ok)
	assert.Same(t, tx, got)

	for name, resp := range map[string]*Response{
		"nil":            nil,
		"not successful": NewResponse(500, &Body{Root: "transaction", Transaction: tx}),
		"no body":        NewResponse(200, nil),
		"other document": NewResponse(200, &Body{Root: "checkout", Checkout: &Checkout{}}),
	} {
		_, ok := TransactionFromFetch(resp)
		assert.False(t, ok, name)
	}

	failed := FetchFailed()
	assert.Equal(t, ResultError, failed.Result)
	assert.Equal(t, []string{"no valid response received from gateway"}, failed.Details)
}

func TestTransactionOrderNumber(t *testing.T) {
	n, err := (&Transaction{Reference: " 1234 "}).OrderNumber()
	require.NoError(t, err)
	assert.Equal(t, 1234, n)

	_, err = (&Transaction{Reference: "abc"}).OrderNumber()
	assert.Error(t, err)
}

func TestReconcileRedirect(t *testing.T) {
	req := RedirectRequest{Transaction: "transacao-id", Reference: "1234", NextURL: "url-next"}
	tx := &Transaction{Code: "code-id", Reference: "1234", Status: "2", GrossAmount: "14.00"}

	result := ReconcileRedirect(req, transactionResponse(tx))

	assert.Equal(t, RedirectSuccess, result.Status)
	assert.Equal(t, 1234, result.OrderNumber)
	assert.Equal(t, "url-next", result.NextURL)
	assert.Equal(t, "transacao-id", result.Delta.IdentifierID)
	assert.Equal(t, "code-id", result.Delta.TransactionID)
	assert.Equal(t, models.StatusInAnalysis, result.Delta.Status)
	require.NotNil(t, result.Delta.GrossAmount)
	assert.Equal(t, "14", result.Delta.GrossAmount.String())
}

func TestReconcileRedirect_Pending(t *testing.T) {
	tx := &Transaction{Code: "code-id", Reference: "1234", Status: "3"}

	withoutTransaction := ReconcileRedirect(RedirectRequest{Reference: "1234"}, transactionResponse(tx))
	assert.Equal(t, RedirectPending, withoutTransaction.Status)
	assert.True(t, withoutTransaction.Delta.IsEmpty())

	failedFetch := ReconcileRedirect(RedirectRequest{Transaction: "t", Reference: "1234"}, NewResponse(500, nil))
	assert.Equal(t, RedirectPending, failedFetch.Status)
	assert.Equal(t, 1234, failedFetch.OrderNumber)
	assert.True(t, failedFetch.Delta.IsEmpty())
}

func TestReconcileRedirect_ReferenceMismatch(t *testing.T) {
	tx := &Transaction{Code: "TX-FOR-5", Reference: "5", Status: "3", GrossAmount: "1.00"}

	result := ReconcileRedirect(RedirectRequest{Transaction: "TX-FOR-5", Reference: "9"}, transactionResponse(tx))

	assert.Equal(t, RedirectPending, result.Status)
	assert.Equal(t, 9, result.OrderNumber)
	assert.True(t, result.Delta.IsEmpty())

	withoutReference := ReconcileRedirect(RedirectRequest{Transaction: "t", Reference: "9"},
		transactionResponse(&Transaction{Code: "t", Status: "3"}))
	assert.Equal(t, RedirectPending, withoutReference.Status)
}

func TestRedirectResult_DeltaFor(t *testing.T) {
	tx := &Transaction{Code: "code-id", Reference: "1234", Status: "3"}
	result := ReconcileRedirect(RedirectRequest{Transaction: "transacao-id", Reference: "1234"}, transactionResponse(tx))

	assert.Equal(t, result.Delta, result.DeltaFor(models.StoredPayment{OrderNumber: 1234}))
	assert.Equal(t, result.Delta, result.DeltaFor(models.StoredPayment{OrderNumber: 1234, TransactionID: "code-id"}))
	assert.True(t, result.DeltaFor(models.StoredPayment{OrderNumber: 1234, TransactionID: "other"}).IsEmpty())

	pending := RedirectResult{Status: RedirectPending, Delta: models.PaymentDelta{Status: models.StatusPaid}}
	assert.True(t, pending.DeltaFor(models.StoredPayment{}).IsEmpty())
}
