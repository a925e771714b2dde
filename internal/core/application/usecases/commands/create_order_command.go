package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrOrderCodeIsRequired = errors.New("order code is required")
)

// CreateOrderCommand represents a vendor submitting a new order into the
// available pool. The order starts unassigned; drivers claim it later.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(
//	    "ORD-1001", vendorID, customerID, order.CashOnDelivery,
//	    total, commission, deliveryFee, false, pickupAddr, deliveryAddr,
//	)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	err = handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	orderCode       string
	vendorID        kernel.UUID
	customerID      kernel.UUID
	paymentMethod   order.PaymentMethod
	totalAmount     kernel.Money
	commissionFee   kernel.Money
	deliveryFee     kernel.Money
	pickupOrder     bool
	pickupAddress   string
	deliveryAddress string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to submit a new order.
// Automatically generates a unique ID for the order.
func NewCreateOrderCommand(
	orderCode string,
	vendorID kernel.UUID,
	customerID kernel.UUID,
	paymentMethod order.PaymentMethod,
	totalAmount kernel.Money,
	commissionFee kernel.Money,
	deliveryFee kernel.Money,
	pickupOrder bool,
	pickupAddress string,
	deliveryAddress string,
) (CreateOrderCommand, error) {
	command := CreateOrderCommand{
		totalAmount:     totalAmount,
		commissionFee:   commissionFee,
		deliveryFee:     deliveryFee,
		pickupOrder:     pickupOrder,
		pickupAddress:   pickupAddress,
		deliveryAddress: deliveryAddress,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(kernel.NewUUID()),
		command.setOrderCode(orderCode),
		command.setVendorID(vendorID),
		command.setCustomerID(customerID),
		command.setPaymentMethod(paymentMethod),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the generated order ID.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// OrderCode returns the human-readable order code.
func (c CreateOrderCommand) OrderCode() string {
	return c.orderCode
}

// VendorID returns the submitting vendor's ID.
func (c CreateOrderCommand) VendorID() kernel.UUID {
	return c.vendorID
}

// CustomerID returns the ordering customer's ID.
func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// PaymentMethod returns the order's payment method.
func (c CreateOrderCommand) PaymentMethod() order.PaymentMethod {
	return c.paymentMethod
}

// TotalAmount returns the order total in cents.
func (c CreateOrderCommand) TotalAmount() kernel.Money {
	return c.totalAmount
}

// CommissionFee returns the platform commission in cents.
func (c CreateOrderCommand) CommissionFee() kernel.Money {
	return c.commissionFee
}

// DeliveryFee returns the delivery fee in cents.
func (c CreateOrderCommand) DeliveryFee() kernel.Money {
	return c.deliveryFee
}

// IsPickupOrder reports whether the customer collects the order themselves.
func (c CreateOrderCommand) IsPickupOrder() bool {
	return c.pickupOrder
}

// PickupAddress returns the pickup address.
func (c CreateOrderCommand) PickupAddress() string {
	return c.pickupAddress
}

// DeliveryAddress returns the delivery address.
func (c CreateOrderCommand) DeliveryAddress() string {
	return c.deliveryAddress
}

func (c *CreateOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.orderID = id
	return nil
}

func (c *CreateOrderCommand) setOrderCode(code string) error {
	if code == "" {
		return ErrOrderCodeIsRequired
	}

	c.orderCode = code
	return nil
}

func (c *CreateOrderCommand) setVendorID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.vendorID = id
	return nil
}

func (c *CreateOrderCommand) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.customerID = id
	return nil
}

func (c *CreateOrderCommand) setPaymentMethod(method order.PaymentMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}

	c.paymentMethod = method
	return nil
}
