package gateway

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Field is an internal payload attribute.
type Field string

const (
	FieldAppID                         Field = "app_id"
	FieldAppKey                        Field = "app_key"
	FieldPaymentMode                   Field = "payment_mode"
	FieldPaymentMethod                 Field = "payment_method"
	FieldCurrency                      Field = "currency"
	FieldCreditCardToken               Field = "credit_card_token"
	FieldInstallmentQuantity           Field = "installment_quantity"
	FieldInstallmentValue              Field = "installment_value"
	FieldNoInterestInstallmentQuantity Field = "no_interest_installment_quantity"
	FieldReference                     Field = "reference"
	FieldCreditCardHolderName          Field = "credit_card_holder_name"
	FieldCreditCardHolderCPF           Field = "credit_card_holder_cpf"
	FieldCreditCardHolderBirthDate     Field = "credit_card_holder_birth_date"
	FieldCreditCardHolderAreaCode      Field = "credit_card_holder_area_code"
	FieldCreditCardHolderPhone         Field = "credit_card_holder_phone"
	FieldSenderName                    Field = "sender_name"
	FieldSenderCPF                     Field = "sender_cpf"
	FieldSenderCNPJ                    Field = "sender_cnpj"
	FieldSenderHash                    Field = "sender_hash"
	FieldSenderAreaCode                Field = "sender_area_code"
	FieldSenderPhone                   Field = "sender_phone"
	FieldSenderEmail                   Field = "sender_email"
	FieldShippingType                  Field = "shipping_type"
	FieldShippingAddressStreet         Field = "shipping_address_street"
	FieldShippingAddressNumber         Field = "shipping_address_number"
	FieldShippingAddressComplement     Field = "shipping_address_complement"
	FieldShippingAddressDistrict       Field = "shipping_address_district"
	FieldShippingAddressPostalCode     Field = "shipping_address_postal_code"
	FieldShippingAddressCity           Field = "shipping_address_city"
	FieldShippingAddressState          Field = "shipping_address_state"
	FieldShippingAddressCountry        Field = "shipping_address_country"
	FieldShippingCost                  Field = "shipping_cost"
	FieldBillingAddressStreet          Field = "billing_address_street"
	FieldBillingAddressNumber          Field = "billing_address_number"
	FieldBillingAddressComplement      Field = "billing_address_complement"
	FieldBillingAddressDistrict        Field = "billing_address_district"
	FieldBillingAddressPostalCode      Field = "billing_address_postal_code"
	FieldBillingAddressCity            Field = "billing_address_city"
	FieldBillingAddressState           Field = "billing_address_state"
	FieldBillingAddressCountry         Field = "billing_address_country"
	FieldExtraAmount                   Field = "extra_amount"
	FieldRedirectURL                   Field = "redirect_url"
	FieldNotificationURL               Field = "notification_url"
)

var wireNames = map[Field]string{
	FieldAppID:                         "appId",
	FieldAppKey:                        "appKey",
	FieldPaymentMode:                   "paymentMode",
	FieldPaymentMethod:                 "paymentMethod",
	FieldCurrency:                      "currency",
	FieldCreditCardToken:               "creditCardToken",
	FieldInstallmentQuantity:           "installmentQuantity",
	FieldInstallmentValue:              "installmentValue",
	FieldNoInterestInstallmentQuantity: "noInterestInstallmentQuantity",
	FieldReference:                     "reference",
	FieldCreditCardHolderName:          "creditCardHolderName",
	FieldCreditCardHolderCPF:           "creditCardHolderCPF",
	FieldCreditCardHolderBirthDate:     "creditCardHolderBirthDate",
	FieldCreditCardHolderAreaCode:      "creditCardHolderAreaCode",
	FieldCreditCardHolderPhone:         "creditCardHolderPhone",
	FieldSenderName:                    "senderName",
	FieldSenderCPF:                     "senderCPF",
	FieldSenderCNPJ:                    "senderCNPJ",
	FieldSenderHash:                    "senderHash",
	FieldSenderAreaCode:                "senderAreaCode",
	FieldSenderPhone:                   "senderPhone",
	FieldSenderEmail:                   "senderEmail",
	FieldShippingType:                  "shippingType",
	FieldShippingAddressStreet:         "shippingAddressStreet",
	FieldShippingAddressNumber:         "shippingAddressNumber",
	FieldShippingAddressComplement:     "shippingAddressComplement",
	FieldShippingAddressDistrict:       "shippingAddressDistrict",
	FieldShippingAddressPostalCode:     "shippingAddressPostalCode",
	FieldShippingAddressCity:           "shippingAddressCity",
	FieldShippingAddressState:          "shippingAddressState",
	FieldShippingAddressCountry:        "shippingAddressCountry",
	FieldShippingCost:                  "shippingCost",
	FieldBillingAddressStreet:          "billingAddressStreet",
	FieldBillingAddressNumber:          "billingAddressNumber",
	FieldBillingAddressComplement:      "billingAddressComplement",
	FieldBillingAddressDistrict:        "billingAddressDistrict",
	FieldBillingAddressPostalCode:      "billingAddressPostalCode",
	FieldBillingAddressCity:            "billingAddressCity",
	FieldBillingAddressState:           "billingAddressState",
	FieldBillingAddressCountry:         "billingAddressCountry",
	FieldExtraAmount:                   "extraAmount",
	FieldRedirectURL:                   "redirectURL",
	FieldNotificationURL:               "notificationURL",
}

// WireName returns the gateway field name for an internal attribute.
func WireName(f Field) (string, bool) {
	name, ok := wireNames[f]
	return name, ok
}

// ItemField is one of the four per-item attributes.
type ItemField string

const (
	ItemID          ItemField = "Id"
	ItemDescription ItemField = "Description"
	ItemAmount      ItemField = "Amount"
	ItemQuantity    ItemField = "Quantity"
)

// ItemWireName builds the indexed wire name of an item attribute, index is 1-based.
func ItemWireName(f ItemField, index int) string {
	return fmt.Sprintf("item%s%d", f, index)
}

// Character limits imposed by the gateway.
const (
	maxItemID          = 100
	maxItemDescription = 100
	maxStreet          = 80
	maxComplement      = 40
	maxDistrict        = 60
	maxCity            = 60
	maxSenderName      = 50
	maxEmail           = 60
)

// ASCIILimited transliterates s to plain ASCII and then cuts it to limit characters.
func ASCIILimited(s string, limit int) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		folded = s
	}

	var b strings.Builder
	for _, r := range folded {
		if r < unicode.MaxASCII && (unicode.IsPrint(r) || r == ' ') {
			b.WriteRune(r)
		}
	}

	out := b.String()
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// FormatAmount renders money the way the gateway expects: two decimals, dot separator.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
