package gateway

import (
	"fmt"
	"net/url"
	"strconv"

	"francoggm/pagseguro-transparente/internal/models"
)

const (
	defaultCurrency    = "BRL"
	defaultPaymentMode = "default"
	creditCardMethod   = "creditCard"
	defaultCountry     = "BRA"
)

// BuildContext carries the per-request values the payload needs besides the order.
type BuildContext struct {
	// NotificationBaseURL is the store specific callback root, e.g.
	// https://shop.example/pagador/meio-pagamento/pstransparente/retorno/8
	NotificationBaseURL string
	// NextURL is where the buyer goes after the gateway redirects back.
	NextURL string
}

// ItemFragment is the wire form of one order line. Its index is its position in
// Payload.Items.
type ItemFragment struct {
	ID          string
	Description string
	Amount      string
	Quantity    int
}

// WireAddress holds the already formatted address fields.
type WireAddress struct {
	Street     string
	Number     string
	Complement string
	District   string
	PostalCode string
	City       string
	State      string
	Country    string
}

// Payload is the checkout request. It is plain data: callers may override any
// default before rendering.
type Payload struct {
	AppID               string
	AppKey              string
	PaymentMode         string
	PaymentMethod       string
	Currency            string
	InstallmentQuantity int
	Reference           int

	SenderName     string
	SenderAreaCode string
	SenderPhone    string
	SenderEmail    string

	ShippingType    ShippingType
	ShippingCost    string
	ShippingAddress WireAddress
	BillingCountry  string

	ExtraAmount     string
	RedirectURL     string
	NotificationURL string

	Items []ItemFragment
}

// ValidateOrder checks the caller contract of Build.
func ValidateOrder(order models.Order) error {
	var problem string
	switch {
	case order.Number <= 0:
		problem = "order number must be positive"
	case len(order.CustomerPhone) < 2:
		problem = "customer phone needs an area code and a number"
	case len(order.Items) == 0:
		problem = "order has no items"
	default:
		return nil
	}
	return &Error{Kind: KindPrecondition, Message: problem, Cause: ErrInvalidOrder}
}

// Build maps an order into a checkout payload. order.CustomerPhone must hold the
// area code and the local number.
func Build(order models.Order, creds models.Credentials, bc BuildContext) *Payload {
	p := &Payload{
		AppID:               creds.AppID,
		AppKey:              creds.AppKey,
		PaymentMode:         defaultPaymentMode,
		PaymentMethod:       creditCardMethod,
		Currency:            defaultCurrency,
		InstallmentQuantity: 1,
		Reference:           order.Number,

		SenderName:     ASCIILimited(order.CustomerName, maxSenderName),
		SenderAreaCode: order.CustomerPhone[0],
		SenderPhone:    order.CustomerPhone[1],
		SenderEmail:    ASCIILimited(order.CustomerEmail, maxEmail),

		ShippingType: ShippingTypeOf(order.ShippingMethod),
		ShippingCost: FormatAmount(order.ShippingCost),
		ShippingAddress: WireAddress{
			Street:     ASCIILimited(order.ShippingAddr.Street, maxStreet),
			Number:     order.ShippingAddr.Number,
			Complement: ASCIILimited(order.ShippingAddr.Complement, maxComplement),
			District:   ASCIILimited(order.ShippingAddr.District, maxDistrict),
			PostalCode: order.ShippingAddr.PostalCode,
			City:       ASCIILimited(order.ShippingAddr.City, maxCity),
			State:      order.ShippingAddr.State,
			Country:    defaultCountry,
		},
		BillingCountry: defaultCountry,

		ExtraAmount:     FormatAmount(order.Discount.Neg()),
		NotificationURL: bc.NotificationBaseURL + "/notificacao",
		RedirectURL:     redirectURL(bc, order.Number),
	}

	p.Items = make([]ItemFragment, 0, len(order.Items))
	for _, item := range order.Items {
		p.Items = append(p.Items, itemFragment(item))
	}

	return p
}

func itemFragment(item models.Item) ItemFragment {
	sku := ASCIILimited(item.SKU, maxItemID)
	description := ASCIILimited(item.Name, maxItemDescription)
	if description == "" {
		description = sku
	}

	return ItemFragment{
		ID:          sku,
		Description: description,
		Amount:      FormatAmount(item.UnitPrice),
		Quantity:    item.Quantity,
	}
}

func redirectURL(bc BuildContext, orderNumber int) string {
	query := url.Values{}
	query.Set("next_url", bc.NextURL)
	query.Set("referencia", strconv.Itoa(orderNumber))
	return bc.NotificationBaseURL + "/resultado?" + query.Encode()
}

// Render flattens the payload into wire field names. Unpopulated fields are left out.
func (p *Payload) Render() map[string]any {
	out := make(map[string]any, 32+4*len(p.Items))
	put := func(f Field, v any) {
		switch val := v.(type) {
		case string:
			if val == "" {
				return
			}
		case int:
			if val == 0 {
				return
			}
		}
		out[wireNames[f]] = v
	}

	put(FieldAppID, p.AppID)
	put(FieldAppKey, p.AppKey)
	put(FieldPaymentMode, p.PaymentMode)
	put(FieldPaymentMethod, p.PaymentMethod)
	put(FieldCurrency, p.Currency)
	put(FieldInstallmentQuantity, p.InstallmentQuantity)
	put(FieldReference, p.Reference)
	put(FieldSenderName, p.SenderName)
	put(FieldSenderAreaCode, p.SenderAreaCode)
	put(FieldSenderPhone, p.SenderPhone)
	put(FieldSenderEmail, p.SenderEmail)
	put(FieldShippingType, int(p.ShippingType))
	put(FieldShippingCost, p.ShippingCost)
	put(FieldShippingAddressStreet, p.ShippingAddress.Street)
	put(FieldShippingAddressNumber, p.ShippingAddress.Number)
	put(FieldShippingAddressComplement, p.ShippingAddress.Complement)
	put(FieldShippingAddressDistrict, p.ShippingAddress.District)
	put(FieldShippingAddressPostalCode, p.ShippingAddress.PostalCode)
	put(FieldShippingAddressCity, p.ShippingAddress.City)
	put(FieldShippingAddressState, p.ShippingAddress.State)
	put(FieldShippingAddressCountry, p.ShippingAddress.Country)
	put(FieldBillingAddressCountry, p.BillingCountry)
	put(FieldExtraAmount, p.ExtraAmount)
	put(FieldRedirectURL, p.RedirectURL)
	put(FieldNotificationURL, p.NotificationURL)

	for i, item := range p.Items {
		index := i + 1
		out[ItemWireName(ItemID, index)] = item.ID
		out[ItemWireName(ItemDescription, index)] = item.Description
		out[ItemWireName(ItemAmount, index)] = item.Amount
		out[ItemWireName(ItemQuantity, index)] = item.Quantity
	}

	return out
}

// Values renders the payload as form values for the urlencoded checkout call.
func (p *Payload) Values() url.Values {
	values := url.Values{}
	for key, v := range p.Render() {
		values.Set(key, fmt.Sprint(v))
	}
	return values
}
