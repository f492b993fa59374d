package payment

import (
	"context"

	"francoggm/pagseguro-transparente/internal/app/gateway"
	"francoggm/pagseguro-transparente/internal/app/storage"
	"francoggm/pagseguro-transparente/internal/models"

	"go.uber.org/zap"
)

type GatewayClient interface {
	Endpoints() gateway.Endpoints
	PostCheckout(ctx context.Context, payload *gateway.Payload, authorizationCode string) (*gateway.Response, error)
	RequestAuthorization(ctx context.Context, body []byte, creds models.Credentials) (*gateway.Response, error)
	FetchAuthorization(ctx context.Context, notificationCode string, creds models.Credentials) (*gateway.Response, error)
	FetchTransaction(ctx context.Context, code string, creds models.Credentials, authorizationCode string) (*gateway.Response, error)
	FetchNotification(ctx context.Context, notificationCode string, creds models.Credentials, authorizationCode string) (*gateway.Response, error)
	SearchTransactions(ctx context.Context, query gateway.SearchQuery, creds models.Credentials, authorizationCode string) (*gateway.Response, error)
}

type PaymentStore interface {
	GetPayment(ctx context.Context, orderNumber int) (models.StoredPayment, bool, error)
	Update(ctx context.Context, orderNumber int, decide storage.Decide) (models.StoredPayment, error)
}

// Settings is the store installation the service acts for.
type Settings struct {
	StoreID           int
	PublicURL         string
	Alternative       bool
	Credentials       models.Credentials
	AuthorizationCode string
}

type PaymentService struct {
	settings   Settings
	client     GatewayClient
	store      PaymentStore
	classifier *gateway.Classifier
	logger     *zap.Logger
}

func NewPaymentService(settings Settings, client GatewayClient, store PaymentStore, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		settings:   settings,
		client:     client,
		store:      store,
		classifier: gateway.NewClassifier(client.Endpoints()),
		logger:     logger.With(zap.Int("store_id", settings.StoreID)),
	}
}

func (s *PaymentService) callbackBase() string {
	return gateway.CallbackBase(s.settings.PublicURL, s.settings.StoreID)
}

// GetPayment returns the stored payment record of an order.
func (s *PaymentService) GetPayment(ctx context.Context, orderNumber int) (models.StoredPayment, bool, error) {
	return s.store.GetPayment(ctx, orderNumber)
}
