package gatewayclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"francoggm/pagseguro-transparente/internal/app/gateway"
	"francoggm/pagseguro-transparente/internal/models"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const (
	contentTypeForm = "application/x-www-form-urlencoded; charset=UTF-8"
	contentTypeXML  = "application/xml; charset=UTF-8"
)

// GatewayClient performs one blocking HTTP call per operation and reports the
// exchange as a gateway.Response. It never retries.
type GatewayClient struct {
	endpoints gateway.Endpoints
	timeout   time.Duration
	client    *fasthttp.Client
	logger    *zap.Logger
}

func NewGatewayClient(endpoints gateway.Endpoints, timeout time.Duration, logger *zap.Logger) *GatewayClient {
	return &GatewayClient{
		endpoints: endpoints,
		timeout:   timeout,
		client: &fasthttp.Client{
			Name:            "pagseguro-transparente",
			MaxConnsPerHost: 32,
		},
		logger: logger,
	}
}

func (c *GatewayClient) Endpoints() gateway.Endpoints {
	return c.endpoints
}

// PostCheckout delivers a checkout payload. The store authorization code travels
// in the query string.
func (c *GatewayClient) PostCheckout(ctx context.Context, payload *gateway.Payload, authorizationCode string) (*gateway.Response, error) {
	query := url.Values{}
	query.Set("authorizationCode", authorizationCode)

	return c.do(ctx, http.MethodPost, c.endpoints.CheckoutURL(), query, contentTypeForm, []byte(payload.Values().Encode()))
}

// RequestAuthorization posts an authorization request body built by
// gateway.BuildAuthorizationRequest.
func (c *GatewayClient) RequestAuthorization(ctx context.Context, body []byte, creds models.Credentials) (*gateway.Response, error) {
	return c.do(ctx, http.MethodPost, c.endpoints.AuthorizationRequestURL(), appQuery(creds, ""), contentTypeXML, body)
}

// FetchAuthorization looks up the authorization granted by the merchant.
func (c *GatewayClient) FetchAuthorization(ctx context.Context, notificationCode string, creds models.Credentials) (*gateway.Response, error) {
	return c.do(ctx, http.MethodGet, c.endpoints.AuthorizationNotificationURL(notificationCode), appQuery(creds, ""), "", nil)
}

// FetchTransaction looks up a transaction by its code.
func (c *GatewayClient) FetchTransaction(ctx context.Context, code string, creds models.Credentials, authorizationCode string) (*gateway.Response, error) {
	return c.do(ctx, http.MethodGet, c.endpoints.TransactionURL(code), appQuery(creds, authorizationCode), "", nil)
}

// FetchNotification looks up the transaction behind a notification code.
func (c *GatewayClient) FetchNotification(ctx context.Context, notificationCode string, creds models.Credentials, authorizationCode string) (*gateway.Response, error) {
	return c.do(ctx, http.MethodGet, c.endpoints.TransactionNotificationURL(notificationCode), appQuery(creds, authorizationCode), "", nil)
}

// SearchTransactions runs one page of a transaction search.
func (c *GatewayClient) SearchTransactions(ctx context.Context, search gateway.SearchQuery, creds models.Credentials, authorizationCode string) (*gateway.Response, error) {
	query, err := search.Values()
	if err != nil {
		return nil, err
	}
	for key, values := range appQuery(creds, authorizationCode) {
		query[key] = values
	}

	return c.do(ctx, http.MethodGet, c.endpoints.SearchURL(), query, "", nil)
}

func appQuery(creds models.Credentials, authorizationCode string) url.Values {
	query := url.Values{}
	query.Set("appId", creds.AppID)
	query.Set("appKey", creds.AppKey)
	if authorizationCode != "" {
		query.Set("authorizationCode", authorizationCode)
	}
	return query
}

func (c *GatewayClient) do(ctx context.Context, method, uri string, query url.Values, contentType string, body []byte) (*gateway.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, gateway.Transient("request cancelled", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	if len(query) > 0 {
		uri += "?" + query.Encode()
	}
	req.SetRequestURI(uri)
	req.Header.SetMethod(method)
	req.Header.Set("Accept", "application/xml")
	if contentType != "" {
		req.Header.SetContentType(contentType)
	}
	if body != nil {
		req.SetBody(body)
	}

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	started := time.Now()
	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) {
			c.logger.Warn("gateway request timed out",
				zap.String("method", method),
				zap.String("url", redact(uri)),
				zap.Duration("elapsed", time.Since(started)))
			return gateway.TimeoutResponse(), nil
		}
		return nil, gateway.Transient(fmt.Sprintf("%s %s failed", method, redact(uri)), err)
	}

	statusCode := resp.StatusCode()
	raw := append([]byte(nil), resp.Body()...)

	c.logger.Debug("gateway request completed",
		zap.String("method", method),
		zap.String("url", redact(uri)),
		zap.Int("status", statusCode),
		zap.Duration("elapsed", time.Since(started)))

	decoded, err := gateway.DecodeBody(raw)
	if err != nil {
		c.logger.Warn("gateway returned an unreadable body",
			zap.Int("status", statusCode),
			zap.Error(err))
		decoded = &gateway.Body{Raw: raw}
	}

	return gateway.NewResponse(statusCode, decoded), nil
}

// redact hides credentials before a URL is logged.
func redact(uri string) string {
	parsed, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	query := parsed.Query()
	for _, key := range []string{"appKey", "authorizationCode"} {
		if query.Has(key) {
			query.Set(key, "***")
		}
	}
	parsed.RawQuery = query.Encode()
	return parsed.String()
}
