package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CheckoutState string

const (
	CheckoutIdle          CheckoutState = "Idle"
	CheckoutAwaitingInput CheckoutState = "AwaitingInput"
	CheckoutSubmitting    CheckoutState = "Submitting"
	CheckoutCommitted     CheckoutState = "Committed"
	CheckoutFailed        CheckoutState = "Failed"
)

type CheckoutAttempt struct {
	ID          string          `json:"id"`
	Method      PaymentMethod   `json:"method,omitempty"`
	State       CheckoutState   `json:"state"`
	Total       decimal.Decimal `json:"total"`
	Student     *Student        `json:"student,omitempty"`
	Transaction *Transaction    `json:"transaction,omitempty"`
	LastError   string          `json:"last_error,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (a *CheckoutAttempt) InProgress() bool {
	return a != nil && a.State == CheckoutSubmitting
}
