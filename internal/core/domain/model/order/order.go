package order

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through NewOrder or RestoreOrder. This ensures all orders are validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrNotOwner is returned when a driver attempts to act on an order that is
	// assigned to a different driver.
	ErrNotOwner = errors.New("order is assigned to a different driver")

	// ErrAlreadyDelivered is returned when delivery completion is attempted on
	// an order that already carries a delivered stamp. Callers treat this as
	// the idempotent-replay signal, not a failure.
	ErrAlreadyDelivered = errors.New("order is already delivered")
)

// Order is the aggregate root for a single delivery or pickup request. It owns
// the lifecycle state machine and the monetary facts the settlement ledger is
// derived from.
//
// Order maintains these invariants:
//   - driver is nil exactly while the order is Available; once set it only
//     reverts to nil through Release (the pre-pickup failure path)
//   - timestamps (assignedAt, pickedUpAt, deliveredAt) are monotonic and each
//     is set at most once; Release clears assignedAt as part of the revert
//   - the proof-of-delivery reference is set exactly once, at Delivered
//   - status transitions follow the fixed lifecycle in Status
//
// The struct uses private fields so every mutation flows through a validated
// method. Only NewOrder and RestoreOrder produce usable instances.
type Order struct {
	id         kernel.UUID
	orderCode  string
	vendorID   kernel.UUID
	customerID kernel.UUID

	// driverID and driverName are set together on claim. driverName is
	// denormalized so the vendor UI never joins against drivers.
	driverID   *kernel.UUID
	driverName string

	status        Status
	paymentMethod PaymentMethod

	totalAmount   kernel.Money
	commissionFee kernel.Money
	deliveryFee   kernel.Money

	// pickupOrder marks customer-pickup requests; addresses are opaque to the core.
	pickupOrder     bool
	pickupAddress   string
	deliveryAddress string

	proofOfDeliveryRef *string

	createdAt   time.Time
	assignedAt  *time.Time
	pickedUpAt  *time.Time
	deliveredAt *time.Time

	isConstructed bool
}

// NewOrder creates a vendor-submitted order in Available status with no driver.
//
// Parameters:
//   - id: unique identifier (must be a valid UUID)
//   - orderCode: human-readable code carried onto ledger entries (required)
//   - vendorID, customerID: owning parties (must be valid UUIDs)
//   - paymentMethod: one of the closed payment-method set
//   - totalAmount, commissionFee, deliveryFee: exact amounts in cents
//   - pickupOrder: whether the customer collects the order themselves
//   - pickupAddress, deliveryAddress: opaque address strings
//   - createdAt: creation time stamped by the caller
//
// Returns the constructed order, or a validation error if any parameter is
// invalid.
func NewOrder(
	id kernel.UUID,
	orderCode string,
	vendorID kernel.UUID,
	customerID kernel.UUID,
	paymentMethod PaymentMethod,
	totalAmount kernel.Money,
	commissionFee kernel.Money,
	deliveryFee kernel.Money,
	pickupOrder bool,
	pickupAddress string,
	deliveryAddress string,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		status:          Available,
		totalAmount:     totalAmount,
		commissionFee:   commissionFee,
		deliveryFee:     deliveryFee,
		pickupOrder:     pickupOrder,
		pickupAddress:   pickupAddress,
		deliveryAddress: deliveryAddress,
		createdAt:       createdAt,
		isConstructed:   true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setOrderCode(orderCode),
		o.setVendorID(vendorID),
		o.setCustomerID(customerID),
		o.setPaymentMethod(paymentMethod),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an order from persistence, re-validating the
// status/driver consistency invariant. The repository layer is the only
// intended caller.
func RestoreOrder(
	id kernel.UUID,
	orderCode string,
	vendorID kernel.UUID,
	customerID kernel.UUID,
	driverID *kernel.UUID,
	driverName string,
	status Status,
	paymentMethod PaymentMethod,
	totalAmount kernel.Money,
	commissionFee kernel.Money,
	deliveryFee kernel.Money,
	pickupOrder bool,
	pickupAddress string,
	deliveryAddress string,
	proofOfDeliveryRef *string,
	createdAt time.Time,
	assignedAt *time.Time,
	pickedUpAt *time.Time,
	deliveredAt *time.Time,
) (*Order, error) {
	o, err := NewOrder(
		id, orderCode, vendorID, customerID, paymentMethod,
		totalAmount, commissionFee, deliveryFee,
		pickupOrder, pickupAddress, deliveryAddress, createdAt,
	)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}
	if err = status.ValidateCanHaveDriver(driverID != nil); err != nil {
		return nil, err
	}
	if driverID != nil {
		if err = driverID.Validate(); err != nil {
			return nil, err
		}
	}

	o.status = status
	o.driverID = driverID
	o.driverName = driverName
	o.proofOfDeliveryRef = proofOfDeliveryRef
	o.assignedAt = assignedAt
	o.pickedUpAt = pickedUpAt
	o.deliveredAt = deliveredAt
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
// Returns ErrOrderIsNotConstructed for struct literals that bypassed the
// constructors.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// OrderCode returns the human-readable order code.
func (o *Order) OrderCode() string {
	return o.orderCode
}

// VendorID returns the owning vendor's identifier.
func (o *Order) VendorID() kernel.UUID {
	return o.vendorID
}

// CustomerID returns the ordering customer's identifier.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// Driver returns the assigned driver's ID, or nil while the order is Available.
func (o *Order) Driver() *kernel.UUID {
	return o.driverID
}

// DriverName returns the denormalized name of the assigned driver.
func (o *Order) DriverName() string {
	return o.driverName
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// PaymentMethod returns the order's payment method.
func (o *Order) PaymentMethod() PaymentMethod {
	return o.paymentMethod
}

// TotalAmount returns the gross order amount.
func (o *Order) TotalAmount() kernel.Money {
	return o.totalAmount
}

// CommissionFee returns the platform commission for the order.
func (o *Order) CommissionFee() kernel.Money {
	return o.commissionFee
}

// DeliveryFee returns the delivery fee for the order.
func (o *Order) DeliveryFee() kernel.Money {
	return o.deliveryFee
}

// IsPickupOrder reports whether the customer collects the order themselves.
func (o *Order) IsPickupOrder() bool {
	return o.pickupOrder
}

// PickupAddress returns the opaque pickup address.
func (o *Order) PickupAddress() string {
	return o.pickupAddress
}

// DeliveryAddress returns the opaque delivery address.
func (o *Order) DeliveryAddress() string {
	return o.deliveryAddress
}

// ProofOfDelivery returns the immutable proof-of-delivery reference, or nil
// before delivery.
func (o *Order) ProofOfDelivery() *string {
	return o.proofOfDeliveryRef
}

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// AssignedAt returns the claim timestamp, or nil while unclaimed.
func (o *Order) AssignedAt() *time.Time {
	return o.assignedAt
}

// PickedUpAt returns the pickup timestamp, or nil before the driver is enroute.
func (o *Order) PickedUpAt() *time.Time {
	return o.pickedUpAt
}

// DeliveredAt returns the delivery timestamp, or nil before delivery.
func (o *Order) DeliveredAt() *time.Time {
	return o.deliveredAt
}

// IsCashOnDelivery reports whether the order settles through the cash ledger.
func (o *Order) IsCashOnDelivery() bool {
	return o.paymentMethod.IsCashOnDelivery()
}

// Assign records the winning driver on the order and stamps assignedAt.
//
// This is the domain half of the claim protocol: it enforces that only an
// Available order can be assigned and that the driver identity is valid. The
// persistence layer pairs it with a conditional write so that of N concurrent
// claimants exactly one observes Available at write time.
func (o *Order) Assign(driverID kernel.UUID, driverName string, at time.Time) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if driverName == "" {
		return errs.NewValueIsRequiredError("driver name")
	}

	newStatus, err := o.status.Assign()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.driverID = &driverID
	o.driverName = driverName
	o.assignedAt = &at
	return nil
}

// Release reverts an assigned order back to Available, clearing the driver
// and the assignment timestamp. Only the owning driver may release; anyone
// else gets ErrNotOwner.
func (o *Order) Release(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if o.driverID == nil || !o.driverID.IsEqual(driverID) {
		return ErrNotOwner
	}

	newStatus, err := o.status.Release()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.driverID = nil
	o.driverName = ""
	o.assignedAt = nil
	return nil
}

// AdvanceTo moves the order one step forward along the manual portion of the
// lifecycle (Assigned -> Preparing -> Ready -> Enroute). Entering Enroute
// stamps pickedUpAt. Out-of-order and backward moves fail with
// ErrInvalidTransition.
func (o *Order) AdvanceTo(next Status, at time.Time) error {
	newStatus, err := o.status.Advance(next)
	if err != nil {
		return err
	}

	o.status = newStatus
	if newStatus == Enroute && o.pickedUpAt == nil {
		o.pickedUpAt = &at
	}
	return nil
}

// MarkDelivered stamps the delivered status, timestamp, and proof-of-delivery
// reference in one step.
//
// Replay safety: if the order is already Delivered the call fails with
// ErrAlreadyDelivered, which callers treat as "nothing left to do" rather than
// an error to surface. The proof reference is never overwritten.
func (o *Order) MarkDelivered(proofRef string, at time.Time) error {
	if o.status == Delivered {
		return ErrAlreadyDelivered
	}
	if proofRef == "" {
		return errs.NewValueIsRequiredError("proof of delivery reference")
	}

	newStatus, err := o.status.Deliver()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.deliveredAt = &at
	o.proofOfDeliveryRef = &proofRef
	return nil
}

// Cancel moves the order to Cancelled. Legal only from Available or Assigned.
func (o *Order) Cancel() error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

// MarkFailed moves the order to Failed from any non-terminal status.
// Cash already credited to a driver for this order is not reversed here;
// reconciliation of disputed deliveries is an explicit wallet adjustment.
func (o *Order) MarkFailed() error {
	newStatus, err := o.status.Fail()
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setOrderCode(code string) error {
	if code == "" {
		return errs.NewValueIsRequiredError("order code")
	}
	o.orderCode = code
	return nil
}

func (o *Order) setVendorID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.vendorID = id
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.customerID = id
	return nil
}

func (o *Order) setPaymentMethod(method PaymentMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}
	o.paymentMethod = method
	return nil
}
