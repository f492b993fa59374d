package payment

import (
	"context"
	"strings"

	"francoggm/pagseguro-transparente/internal/app/gateway"

	"go.uber.org/zap"
)

// AuthorizationGrant is what the merchant granted the store.
type AuthorizationGrant struct {
	AuthorizationCode string `json:"authorizationCode"`
	Application       string `json:"application"`
}

// AuthorizationURL starts the install handshake and returns the gateway page where
// the merchant authorizes the application.
func (s *PaymentService) AuthorizationURL(ctx context.Context, nextURL string, alternative bool) (string, error) {
	body, err := gateway.BuildAuthorizationRequest(gateway.InstallRequest{
		StoreID:      s.settings.StoreID,
		RedirectBase: gateway.InstallRedirectBase(s.settings.PublicURL, s.settings.StoreID),
		NextURL:      nextURL,
		Alternative:  alternative,
	})
	if err != nil {
		return "", err
	}

	resp, err := s.client.RequestAuthorization(ctx, body, s.settings.Credentials)
	if err != nil {
		return "", err
	}

	page, err := gateway.AuthorizationPage(resp, s.client.Endpoints())
	if err != nil {
		s.logger.Error("authorization request rejected", zap.Error(err))
		return "", err
	}
	return page, nil
}

// CompleteAuthorization exchanges the notification sent after the merchant
// authorized the application for the store authorization code.
func (s *PaymentService) CompleteAuthorization(ctx context.Context, notificationCode string) (AuthorizationGrant, error) {
	if strings.TrimSpace(notificationCode) == "" {
		return AuthorizationGrant{}, &gateway.Error{
			Kind:    gateway.KindPrecondition,
			Message: "cannot complete installation",
			Cause:   gateway.ErrMissingNotificationCode,
		}
	}

	resp, err := s.client.FetchAuthorization(ctx, notificationCode, s.settings.Credentials)
	if err != nil {
		return AuthorizationGrant{}, err
	}

	code, err := gateway.AuthorizationCode(resp)
	if err != nil {
		s.logger.Error("authorization lookup rejected", zap.Error(err))
		return AuthorizationGrant{}, err
	}

	s.logger.Info("store authorized")
	return AuthorizationGrant{
		AuthorizationCode: code,
		Application:       gateway.ApplicationFor(s.settings.Alternative),
	}, nil
}

// UninstallURL is where the merchant revokes the application.
func (s *PaymentService) UninstallURL() string {
	return s.client.Endpoints().AuthorizationListURL()
}
