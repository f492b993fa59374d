package gateway

import (
	"fmt"
	"net/url"
	"strings"
)

// Name identifies this gateway in store callback paths.
const Name = "pstransparente"

// IsSandbox reports whether a deployment environment talks to the gateway sandbox.
func IsSandbox(environment string) bool {
	return environment == "local" || environment == "development"
}

// Endpoints resolves every gateway URL. Hosts default to the public gateway and
// may be overridden to point at a proxy or a test server.
type Endpoints struct {
	WSBaseURL     string
	SiteBaseURL   string
	StaticBaseURL string
}

// NewEndpoints returns the public gateway hosts for an environment.
func NewEndpoints(environment string) Endpoints {
	sandbox := ""
	if IsSandbox(environment) {
		sandbox = "sandbox."
	}

	return Endpoints{
		WSBaseURL:     fmt.Sprintf("https://ws.%spagseguro.uol.com.br", sandbox),
		SiteBaseURL:   fmt.Sprintf("https://%spagseguro.uol.com.br", sandbox),
		StaticBaseURL: fmt.Sprintf("https://stc.%spagseguro.uol.com.br", sandbox),
	}
}

func (e Endpoints) CheckoutURL() string {
	return e.WSBaseURL + "/v2/checkout"
}

func (e Endpoints) PaymentPageURL(checkoutCode string) string {
	return e.SiteBaseURL + "/v2/checkout/payment.html?code=" + url.QueryEscape(checkoutCode)
}

func (e Endpoints) TransactionURL(transactionCode string) string {
	return e.WSBaseURL + "/v3/transactions/" + url.PathEscape(transactionCode)
}

func (e Endpoints) TransactionNotificationURL(notificationCode string) string {
	return e.WSBaseURL + "/v3/transactions/notifications/" + url.PathEscape(notificationCode)
}

func (e Endpoints) SearchURL() string {
	return e.WSBaseURL + "/v3/transactions"
}

func (e Endpoints) AuthorizationRequestURL() string {
	return e.WSBaseURL + "/v2/authorizations/request"
}

func (e Endpoints) AuthorizationPageURL(requestCode string) string {
	return e.SiteBaseURL + "/v2/authorization/request.jhtml?code=" + url.QueryEscape(requestCode)
}

func (e Endpoints) AuthorizationNotificationURL(notificationCode string) string {
	return e.WSBaseURL + "/v2/authorizations/notifications/" + url.PathEscape(notificationCode) + "/"
}

func (e Endpoints) AuthorizationListURL() string {
	return e.SiteBaseURL + "/aplicacao/listarAutorizacoes.jhtml"
}

func (e Endpoints) DirectPaymentScriptURL() string {
	return e.StaticBaseURL + "/pagseguro/api/v2/checkout/pagseguro.directpayment.js"
}

// CallbackBase is the store specific root the gateway calls back into.
func CallbackBase(publicURL string, storeID int) string {
	return fmt.Sprintf("%s/pagador/meio-pagamento/%s/retorno/%d", strings.TrimRight(publicURL, "/"), Name, storeID)
}

// InstallRedirectBase is where the merchant lands after authorizing the application.
func InstallRedirectBase(publicURL string, storeID int) string {
	return fmt.Sprintf("%s/pagador/loja/%d/meio-pagamento/%s/instalar", strings.TrimRight(publicURL, "/"), storeID, Name)
}
