package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the canonical order payment state. The zero value means unknown.
type Status string

const (
	StatusUnknown         Status = ""
	StatusAwaitingPayment Status = "awaiting_payment"
	StatusInAnalysis      Status = "in_analysis"
	StatusPaid            Status = "paid"
	StatusInDispute       Status = "in_dispute"
	StatusRefunded        Status = "refunded"
	StatusCancelled       Status = "cancelled"
	StatusChargeback      Status = "chargeback"
)

// StoredPayment is the per-order payment record kept by the payment store.
type StoredPayment struct {
	OrderNumber   int              `json:"orderNumber"`
	TransactionID string           `json:"transactionId,omitempty"`
	IdentifierID  string           `json:"identifierId,omitempty"`
	Status        Status           `json:"status,omitempty"`
	PaidAmount    *decimal.Decimal `json:"paidAmount,omitempty"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// PaymentDelta is a proposed change to a StoredPayment. Empty fields are left untouched.
type PaymentDelta struct {
	TransactionID string           `json:"transactionId,omitempty"`
	IdentifierID  string           `json:"identifierId,omitempty"`
	Status        Status           `json:"status,omitempty"`
	GrossAmount   *decimal.Decimal `json:"grossAmount,omitempty"`
}

func (d PaymentDelta) IsEmpty() bool {
	return d.TransactionID == "" && d.IdentifierID == "" && d.Status == StatusUnknown && d.GrossAmount == nil
}

// Apply returns a copy of p with the delta merged in.
func (d PaymentDelta) Apply(p StoredPayment) StoredPayment {
	if d.TransactionID != "" {
		p.TransactionID = d.TransactionID
	}
	if d.IdentifierID != "" {
		p.IdentifierID = d.IdentifierID
	}
	if d.Status != StatusUnknown {
		p.Status = d.Status
	}
	if d.GrossAmount != nil {
		amount := *d.GrossAmount
		p.PaidAmount = &amount
	}
	return p
}

// StatusChange is published whenever a stored payment changes status.
type StatusChange struct {
	OrderNumber   int       `json:"orderNumber"`
	TransactionID string    `json:"transactionId"`
	From          Status    `json:"from"`
	To            Status    `json:"to"`
	ChangedAt     time.Time `json:"changedAt"`
}
