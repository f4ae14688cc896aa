package models

import (
	"time"

	"github.com/uptrace/bun"
)

type PaymentStatus string

const (
	StatusPending   PaymentStatus = "pending"
	StatusCompleted PaymentStatus = "completed"
	StatusFailed    PaymentStatus = "failed"
)

type PaymentMethod string

const (
	MethodCreditCard   PaymentMethod = "credit_card"
	MethodDebitCard    PaymentMethod = "debit_card"
	MethodPaypal       PaymentMethod = "paypal"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCash         PaymentMethod = "cash"
)

// ValidMethod reports whether m is one of the accepted payment methods.
func ValidMethod(m PaymentMethod) bool {
	switch m {
	case MethodCreditCard, MethodDebitCard, MethodPaypal, MethodBankTransfer, MethodCash:
		return true
	}
	return false
}

// StatusForMethod derives the recorded status from the method. Cash is
// collected at the event, so it stays pending; everything else is recorded as
// completed. This stands in for gateway settlement.
func StatusForMethod(m PaymentMethod) PaymentStatus {
	if m == MethodCash {
		return StatusPending
	}
	return StatusCompleted
}

type Payment struct {
	bun.BaseModel `bun:"table:payments"`

	ID             string        `json:"id" bun:"id,pk"`
	EventID        string        `json:"event_id" bun:"event_id,notnull"`
	UserID         string        `json:"user_id" bun:"user_id,notnull"`
	PaymentDate    time.Time     `json:"payment_date" bun:"payment_date,notnull"`
	PaymentMethod  PaymentMethod `json:"payment_method" bun:"payment_method,notnull"`
	Amount         float64       `json:"amount" bun:"amount,notnull"`
	Status         PaymentStatus `json:"status" bun:"status,notnull"`
	Provider       string        `json:"provider,omitempty" bun:"provider,nullzero"`
	AdditionalInfo string        `json:"additional_info,omitempty" bun:"additional_info,nullzero"`
	CreatedAt      time.Time     `json:"created_at" bun:"created_at,notnull"`
	UpdatedAt      time.Time     `json:"updated_at" bun:"updated_at,notnull"`
	CreatedBy      string        `json:"created_by,omitempty" bun:"created_by,nullzero"`
	UpdatedBy      string        `json:"updated_by,omitempty" bun:"updated_by,nullzero"`
}

// PaymentRequest is the payment form body. Amount may be omitted, in which
// case it is derived from the registration's family member count.
type PaymentRequest struct {
	PaymentMethod  PaymentMethod `json:"payment_method"`
	Amount         float64       `json:"amount,omitempty"`
	Provider       string        `json:"provider,omitempty"`
	AdditionalInfo string        `json:"additional_info,omitempty"`
}

// PaymentState is what the payment form needs on load.
type PaymentState struct {
	Event           *Event   `json:"event"`
	SuggestedAmount float64  `json:"suggested_amount"`
	Payment         *Payment `json:"payment,omitempty"`
	AlreadyPaid     bool     `json:"already_paid"`
}
