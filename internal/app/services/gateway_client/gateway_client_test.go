package gatewayclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"francoggm/pagseguro-transparente/internal/app/gateway"
	"francoggm/pagseguro-transparente/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testCreds = models.Credentials{AppID: "app-id", AppKey: "app-secret"}

type capturedRequest struct {
	method      string
	path        string
	query       url.Values
	contentType string
	body        string
}

func newTestClient(t *testing.T, status int, body string) (*GatewayClient, *capturedRequest) {
	t.Helper()

	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		captured.method = r.Method
		captured.path = r.URL.Path
		captured.query = r.URL.Query()
		captured.contentType = r.Header.Get("Content-Type")
		captured.body = string(raw)

		w.Header().Set("Content-Type", "application/xml;charset=ISO-8859-1")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	endpoints := gateway.Endpoints{WSBaseURL: srv.URL, SiteBaseURL: "https://pagseguro.uol.com.br"}
	return NewGatewayClient(endpoints, time.Second, zap.NewNop()), captured
}

func TestPostCheckout(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK,
		`<?xml version="1.0" encoding="ISO-8859-1" standalone="yes"?><checkout><code>ABC</code><date>2024-01-01</date></checkout>`)

	payload := &gateway.Payload{
		AppID:     "app-id",
		AppKey:    "app-secret",
		Currency:  "BRL",
		Reference: 1234,
		Items:     []gateway.ItemFragment{{ID: "P1", Description: "Produto", Amount: decimal.NewFromInt(10).StringFixed(2), Quantity: 1}},
	}

	resp, err := client.PostCheckout(context.Background(), payload, "AUTH")
	require.NoError(t, err)

	assert.True(t, resp.Success)
	require.NotNil(t, resp.Body.Checkout)
	assert.Equal(t, "ABC", resp.Body.Checkout.Code)

	assert.Equal(t, http.MethodPost, captured.method)
	assert.Equal(t, "/v2/checkout", captured.path)
	assert.Equal(t, "AUTH", captured.query.Get("authorizationCode"))
	assert.Contains(t, captured.contentType, "application/x-www-form-urlencoded")

	form, err := url.ParseQuery(captured.body)
	require.NoError(t, err)
	assert.Equal(t, "app-id", form.Get("appId"))
	assert.Equal(t, "1234", form.Get("reference"))
	assert.Equal(t, "10.00", form.Get("itemAmount1"))
}

func TestPostCheckout_Errors(t *testing.T) {
	client, _ := newTestClient(t, http.StatusBadRequest,
		`<errors><error><code>11013</code><message>senderAreaCode invalid value.</message></error></errors>`)

	resp, err := client.PostCheckout(context.Background(), &gateway.Payload{}, "AUTH")
	require.NoError(t, err)

	assert.False(t, resp.Success)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.True(t, resp.Body.HasErrors())
	assert.Equal(t, "11013", resp.Body.Errors[0].Code)
}

func TestFetchNotification(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK,
		`<transaction><code>T-1</code><reference>1234</reference><status>3</status><grossAmount>90.00</grossAmount></transaction>`)

	resp, err := client.FetchNotification(context.Background(), "N-1", testCreds, "AUTH")
	require.NoError(t, err)

	tx, ok := gateway.TransactionFromFetch(resp)
	require.True(t, ok)
	assert.Equal(t, "T-1", tx.Code)

	assert.Equal(t, http.MethodGet, captured.method)
	assert.Equal(t, "/v3/transactions/notifications/N-1", captured.path)
	assert.Equal(t, "app-id", captured.query.Get("appId"))
	assert.Equal(t, "app-secret", captured.query.Get("appKey"))
	assert.Equal(t, "AUTH", captured.query.Get("authorizationCode"))
}

func TestFetchTransaction(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, `<transaction><code>T-1</code></transaction>`)

	_, err := client.FetchTransaction(context.Background(), "T-1", testCreds, "")
	require.NoError(t, err)

	assert.Equal(t, "/v3/transactions/T-1", captured.path)
	assert.False(t, captured.query.Has("authorizationCode"))
}

func TestRequestAuthorization(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, `<authorizationRequest><code>REQ</code></authorizationRequest>`)

	body, err := gateway.BuildAuthorizationRequest(gateway.InstallRequest{StoreID: 8, RedirectBase: "http://x", NextURL: "n"})
	require.NoError(t, err)

	resp, err := client.RequestAuthorization(context.Background(), body, testCreds)
	require.NoError(t, err)

	page, err := gateway.AuthorizationPage(resp, client.Endpoints())
	require.NoError(t, err)
	assert.Equal(t, "https://pagseguro.uol.com.br/v2/authorization/request.jhtml?code=REQ", page)
	assert.Equal(t, "/v2/authorizations/request", captured.path)
	assert.Equal(t, string(body), captured.body)
	assert.Contains(t, captured.contentType, "application/xml")
}

func TestFetchAuthorization(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, `<authorization><code>GRANT</code><reference>8</reference></authorization>`)

	resp, err := client.FetchAuthorization(context.Background(), "N-2", testCreds)
	require.NoError(t, err)

	code, err := gateway.AuthorizationCode(resp)
	require.NoError(t, err)
	assert.Equal(t, "GRANT", code)
	assert.Equal(t, "/v2/authorizations/notifications/N-2/", captured.path)
}

func TestSearchTransactions(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK,
		`<transactionSearchResult><currentPage>1</currentPage><totalPages>1</totalPages><transactions><transaction><reference>1</reference><status>3</status></transaction></transactions></transactionSearchResult>`)

	resp, err := client.SearchTransactions(context.Background(), gateway.SearchQuery{InitialDate: "2024-01-01T00:00"}, testCreds, "AUTH")
	require.NoError(t, err)

	page, err := gateway.ParseSearch(resp)
	require.NoError(t, err)
	assert.Len(t, page.Orders, 1)
	assert.Equal(t, "2024-01-01T00:00", captured.query.Get("initialDate"))
	assert.Equal(t, "AUTH", captured.query.Get("authorizationCode"))

	_, err = client.SearchTransactions(context.Background(), gateway.SearchQuery{}, testCreds, "AUTH")
	assert.Error(t, err)
}

func TestUnreadableBodyIsKeptRaw(t *testing.T) {
	client, _ := newTestClient(t, http.StatusUnauthorized, "Unauthorized")

	resp, err := client.FetchTransaction(context.Background(), "T-1", testCreds, "AUTH")
	require.NoError(t, err)

	assert.True(t, resp.Unauthenticated)
	assert.Equal(t, "", resp.Body.Root)
	assert.Equal(t, "Unauthorized", string(resp.Body.Raw))
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	client := NewGatewayClient(gateway.Endpoints{WSBaseURL: srv.URL}, 50*time.Millisecond, zap.NewNop())

	resp, err := client.FetchTransaction(context.Background(), "T-1", testCreds, "")
	require.NoError(t, err)
	assert.True(t, resp.Timeout)
}

func TestTransportFailureIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	client := NewGatewayClient(gateway.Endpoints{WSBaseURL: baseURL}, time.Second, zap.NewNop())

	_, err := client.FetchTransaction(context.Background(), "T-1", testCreds, "")
	require.Error(t, err)
	assert.True(t, gateway.IsRetryable(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.FetchTransaction(ctx, "T-1", testCreds, "")
	assert.True(t, gateway.IsRetryable(err))
}

func TestRedact(t *testing.T) {
	redacted := redact("https://ws.pagseguro.uol.com.br/v3/transactions?appId=id&appKey=secret&authorizationCode=code")
	assert.NotContains(t, redacted, "secret")
	assert.NotContains(t, redacted, "code=code")
	assert.Contains(t, redacted, "appId=id")
}
