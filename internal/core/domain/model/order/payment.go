package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// PaymentMethod is a value object for the closed set of payment methods an
// order can carry. Only cash-on-delivery orders flow through the settlement
// ledger; prepaid variants settle through the external payment provider and
// never touch driver cash.
type PaymentMethod string

const (
	// CashOnDelivery means the customer pays the driver in cash at delivery
	// time, requiring later remittance to the vendor.
	CashOnDelivery PaymentMethod = "cash-on-delivery"

	// PrepaidCard means the order was paid by card through the external
	// payment provider before dispatch.
	PrepaidCard PaymentMethod = "prepaid-card"

	// PrepaidWallet means the order was paid from the customer's wallet
	// balance before dispatch.
	PrepaidWallet PaymentMethod = "prepaid-wallet"
)

// PaymentMethodFromString parses the persisted string form of a payment method.
func PaymentMethodFromString(s string) (PaymentMethod, error) {
	method := PaymentMethod(s)
	if err := method.Validate(); err != nil {
		return "", err
	}
	return method, nil
}

// Validate checks whether the payment method belongs to the closed set.
func (m PaymentMethod) Validate() error {
	switch m {
	case CashOnDelivery, PrepaidCard, PrepaidWallet:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"payment method",
			fmt.Errorf("%q is not a valid payment method", string(m)),
		)
	}
}

// IsCashOnDelivery reports whether the method requires cash settlement.
func (m PaymentMethod) IsCashOnDelivery() bool {
	return m == CashOnDelivery
}

// String returns the persisted string form.
func (m PaymentMethod) String() string {
	return string(m)
}
