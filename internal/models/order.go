package models

import "github.com/shopspring/decimal"

// Order is the checkout view of a store order. It is owned by the order platform
// and only read here.
type Order struct {
	Number         int             `json:"number"`
	CustomerName   string          `json:"customerName"`
	CustomerEmail  string          `json:"customerEmail"`
	CustomerPhone  []string        `json:"customerPhone"` // area code, local number
	ShippingMethod string          `json:"shippingMethod"`
	ShippingCost   decimal.Decimal `json:"shippingCost"`
	Discount       decimal.Decimal `json:"discount"`
	ShippingAddr   Address         `json:"shippingAddress"`
	Items          []Item          `json:"items"`
}

type Address struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
	District   string `json:"district"`
	PostalCode string `json:"postalCode"`
	City       string `json:"city"`
	State      string `json:"state"`
}

type Item struct {
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// Credentials are the application keys issued by the gateway.
type Credentials struct {
	AppID  string `mapstructure:"app_id" json:"appId"`
	AppKey string `mapstructure:"app_key" json:"appKey"`
}
