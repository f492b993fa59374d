package gateway

import "strings"

// ShippingType is the gateway's shipping classification.
type ShippingType int

const (
	ShippingEconomy ShippingType = 1
	ShippingExpress ShippingType = 2
	ShippingOther   ShippingType = 3
)

// ShippingTypeOf classifies a store shipping method code.
func ShippingTypeOf(method string) ShippingType {
	method = strings.ToLower(strings.TrimSpace(method))
	switch {
	case method == "pac":
		return ShippingEconomy
	case strings.Contains(method, "sedex"):
		return ShippingExpress
	default:
		return ShippingOther
	}
}
