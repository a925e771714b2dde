// Package http exposes the dispatch API over HTTP. It coordinates between
// echo handlers and application use cases, translating domain errors into
// status codes: contention on a claim is 409, an out-of-sequence status
// change is 422, and financial rejections are spelled out rather than folded
// into a generic failure.
package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/settlement"
	"dispatch/internal/pkg/errs"
)

// Server handles HTTP requests for the dispatch API.
type Server struct {
	// Command handlers
	createOrderHandler      commands.CreateOrderCommandHandler
	createDriverHandler     commands.CreateDriverCommandHandler
	claimOrderHandler       commands.ClaimOrderCommandHandler
	releaseOrderHandler     commands.ReleaseOrderCommandHandler
	advanceOrderHandler     commands.AdvanceOrderCommandHandler
	completeDeliveryHandler commands.CompleteDeliveryCommandHandler
	cancelOrderHandler      commands.CancelOrderCommandHandler
	failOrderHandler        commands.FailOrderCommandHandler
	remitCashHandler        commands.RemitCashCommandHandler
	setDriverStatusHandler  commands.SetDriverStatusCommandHandler
	adjustWalletHandler     commands.AdjustWalletCommandHandler

	// Query handlers
	getAvailableOrdersHandler  queries.GetAvailableOrdersQueryHandler
	getDriverLedgerHandler     queries.GetDriverLedgerQueryHandler
	getUnremittedTotalsHandler queries.GetUnremittedTotalsQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	createDriverHandler commands.CreateDriverCommandHandler,
	claimOrderHandler commands.ClaimOrderCommandHandler,
	releaseOrderHandler commands.ReleaseOrderCommandHandler,
	advanceOrderHandler commands.AdvanceOrderCommandHandler,
	completeDeliveryHandler commands.CompleteDeliveryCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	failOrderHandler commands.FailOrderCommandHandler,
	remitCashHandler commands.RemitCashCommandHandler,
	setDriverStatusHandler commands.SetDriverStatusCommandHandler,
	adjustWalletHandler commands.AdjustWalletCommandHandler,
	getAvailableOrdersHandler queries.GetAvailableOrdersQueryHandler,
	getDriverLedgerHandler queries.GetDriverLedgerQueryHandler,
	getUnremittedTotalsHandler queries.GetUnremittedTotalsQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:         createOrderHandler,
		createDriverHandler:        createDriverHandler,
		claimOrderHandler:          claimOrderHandler,
		releaseOrderHandler:        releaseOrderHandler,
		advanceOrderHandler:        advanceOrderHandler,
		completeDeliveryHandler:    completeDeliveryHandler,
		cancelOrderHandler:         cancelOrderHandler,
		failOrderHandler:           failOrderHandler,
		remitCashHandler:           remitCashHandler,
		setDriverStatusHandler:     setDriverStatusHandler,
		adjustWalletHandler:        adjustWalletHandler,
		getAvailableOrdersHandler:  getAvailableOrdersHandler,
		getDriverLedgerHandler:     getDriverLedgerHandler,
		getUnremittedTotalsHandler: getUnremittedTotalsHandler,
	}
}

// RegisterRoutes mounts all API routes on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/available", s.GetAvailableOrders)
	api.POST("/orders/:order_id/claim", s.ClaimOrder)
	api.POST("/orders/:order_id/release", s.ReleaseOrder)
	api.POST("/orders/:order_id/advance", s.AdvanceOrder)
	api.POST("/orders/:order_id/complete", s.CompleteDelivery)
	api.POST("/orders/:order_id/cancel", s.CancelOrder)
	api.POST("/orders/:order_id/fail", s.FailOrder)

	api.POST("/drivers", s.CreateDriver)
	api.POST("/drivers/:driver_id/status", s.SetDriverStatus)
	api.GET("/drivers/:driver_id/ledger", s.GetDriverLedger)

	api.GET("/settlements/unremitted", s.GetUnremittedTotals)
	api.POST("/settlements/:transaction_id/remit", s.RemitCash)

	api.POST("/wallets/:owner_id/adjust", s.AdjustWallet)
}

// CreateOrder handles POST /api/v1/orders - submits a new order to the pool.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req struct {
		OrderCode       string `json:"order_code"`
		VendorID        string `json:"vendor_id"`
		CustomerID      string `json:"customer_id"`
		PaymentMethod   string `json:"payment_method"`
		TotalAmount     int64  `json:"total_amount"`
		CommissionFee   int64  `json:"commission_fee"`
		DeliveryFee     int64  `json:"delivery_fee"`
		PickupOrder     bool   `json:"pickup_order"`
		PickupAddress   string `json:"pickup_address"`
		DeliveryAddress string `json:"delivery_address"`
	}
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	vendorID, err := kernel.UUIDFromString(req.VendorID)
	if err != nil {
		return badRequest(ctx, "Invalid vendor id: "+err.Error())
	}
	customerID, err := kernel.UUIDFromString(req.CustomerID)
	if err != nil {
		return badRequest(ctx, "Invalid customer id: "+err.Error())
	}
	paymentMethod, err := order.PaymentMethodFromString(req.PaymentMethod)
	if err != nil {
		return badRequest(ctx, "Invalid payment method: "+err.Error())
	}
	totalAmount, err := kernel.NewMoney(req.TotalAmount)
	if err != nil {
		return badRequest(ctx, "Invalid total amount: "+err.Error())
	}
	commissionFee, err := kernel.NewMoney(req.CommissionFee)
	if err != nil {
		return badRequest(ctx, "Invalid commission fee: "+err.Error())
	}
	deliveryFee, err := kernel.NewMoney(req.DeliveryFee)
	if err != nil {
		return badRequest(ctx, "Invalid delivery fee: "+err.Error())
	}

	cmd, err := commands.NewCreateOrderCommand(
		req.OrderCode, vendorID, customerID, paymentMethod,
		totalAmount, commissionFee, deliveryFee,
		req.PickupOrder, req.PickupAddress, req.DeliveryAddress,
	)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	if handleErr := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return commandError(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"id": cmd.OrderID().String()})
}

// GetAvailableOrders handles GET /api/v1/orders/available - the claimable pool.
func (s *Server) GetAvailableOrders(ctx echo.Context) error {
	query := queries.NewGetAvailableOrdersQuery()

	pool, err := s.getAvailableOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return internalError(ctx, "Failed to retrieve available orders")
	}

	response := make([]availableOrderResponse, len(pool))
	for i, item := range pool {
		response[i] = availableOrderResponse{
			ID:              item.ID.String(),
			OrderCode:       item.OrderCode,
			PickupAddress:   item.PickupAddress,
			DeliveryAddress: item.DeliveryAddress,
			TotalAmount:     item.TotalAmount.Cents(),
			DeliveryFee:     item.DeliveryFee.Cents(),
			PaymentMethod:   item.PaymentMethod,
			CreatedAt:       item.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// ClaimOrder handles POST /api/v1/orders/:order_id/claim.
// Exactly one of any number of concurrent claims succeeds; the rest get 409.
func (s *Server) ClaimOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "order_id")
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var req struct {
		DriverID string `json:"driver_id"`
	}
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	driverID, err := kernel.UUIDFromString(req.DriverID)
	if err != nil {
		return badRequest(ctx, "Invalid driver id: "+err.Error())
	}

	cmd, err := commands.NewClaimOrderCommand(orderID, driverID)
	if err != nil {
		return badRequest(ctx, "Invalid claim data: "+err.Error())
	}

	if handleErr := s.claimOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return commandError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusOK)
}

// ReleaseOrder handles POST /api/v1/orders/:order_id/release.
func (s *Server) ReleaseOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "order_id")
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var req struct {
		DriverID string `json:"driver_id"`
	}
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	driverID, err := kernel.UUIDFromString(req.DriverID)
	if err != nil {
		return badRequest(ctx, "Invalid driver id: "+err.Error())
	}

	cmd, err := commands.NewReleaseOrderCommand(orderID, driverID)
	if err != nil {
		return badRequest(ctx, "Invalid release data: "+err.Error())
	}

	if handleErr := s.releaseOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return commandError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusOK)
}

// AdvanceOrder handles POST /api/v1/orders/:order_id/advance - moves the
// order one step along preparing/ready/enroute.
func (s *Server) AdvanceOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "order_id")
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var req struct {
		DriverID string `json:"driver_id"`
		Next     string `json:"next"`
	}
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	driverID, err := kernel.UUIDFromString(req.DriverID)
	if err != nil {
		return badRequest(ctx, "Invalid driver id: "+err.Error())
	}
	next, err := order.StatusFromString(req.Next)
	if err != nil {
		return badRequest(ctx, "Invalid status: "+err.Error())
	}

	cmd, err := commands.NewAdvanceOrderCommand(orderID, driverID, next)
	if err != nil {
		return badRequest(ctx, "Invalid advance data: "+err.Error())
	}

	if handleErr := s.advanceOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return commandError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusOK)
}

// CompleteDelivery handles POST /api/v1/orders/:order_id/complete. The
// signature blob arrives base64-encoded; retries of the same completion are
// accepted and answered identically.
func (s *Server) CompleteDelivery(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "order_id")
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var req struct {
		DriverID    string `json:"driver_id"`
		Signature   []byte `json:"signature"`
		ContentType string `json:"content_type"`
	}
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	driverID, err := kernel.UUIDFromString(req.DriverID)
	if err != nil {
		return badRequest(ctx, "Invalid driver id: "+err.Error())
	}

	cmd, err := commands.NewCompleteDeliveryCommand(orderID, driverID, req.Signature, req.ContentType)
	if err != nil {
		return badRequest(ctx, "Invalid completion data: "+err.Error())
	}

	if handleErr := s.completeDeliveryHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return commandError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusOK)
}

// CancelOrder handles POST /api/v1/orders/:order_id/cancel - vendor-side
// cancellation of an order that is not yet out for delivery.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "order_id")
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var req struct {
		VendorID string `json:"vendor_id"`
	}
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	vendorID, err := kernel.UUIDFromString(req.VendorID)
	if err != nil {
		return badRequest(ctx, "Invalid vendor id: "+err.Error())
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, vendorID)
	if err != nil {
		return badRequest(ctx, "Invalid cancel data: "+err.Error())
	}

	if handleErr := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return commandError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusOK)
}

// FailOrder handles POST /api/v1/orders/:order_id/fail.
func (s *Server) FailOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "order_id")
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewFailOrderCommand(orderID, req.Reason)
	if err != nil {
		return badRequest(ctx, "Invalid failure data: "+err.Error())
	}

	if handleErr := s.failOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return commandError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusOK)
}

// CreateDriver handles POST /api/v1/drivers - registers a new driver.
func (s *Server) CreateDriver(ctx echo.Context) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewCreateDriverCommand(req.Name)
	if err != nil {
		return badRequest(ctx, "Invalid driver data: "+err.Error())
	}

	if handleErr := s.createDriverHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return commandError(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"id": cmd.DriverID().String()})
}

// SetDriverStatus handles POST /api/v1/drivers/:driver_id/status. Only
// available and inactive are accepted; busy is derived from the order set.
func (s *Server) SetDriverStatus(ctx echo.Context) error {
	driverID, err := pathUUID(ctx, "driver_id")
	if err != nil {
		return badRequest(ctx, "Invalid driver id")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	status, err := driver.StatusFromString(req.Status)
	if err != nil {
		return badRequest(ctx, "Invalid status: "+err.Error())
	}

	cmd, err := commands.NewSetDriverStatusCommand(driverID, status)
	if err != nil {
		return badRequest(ctx, "Invalid status data: "+err.Error())
	}

	if handleErr := s.setDriverStatusHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return commandError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusOK)
}

// GetDriverLedger handles GET /api/v1/drivers/:driver_id/ledger.
func (s *Server) GetDriverLedger(ctx echo.Context) error {
	driverID, err := pathUUID(ctx, "driver_id")
	if err != nil {
		return badRequest(ctx, "Invalid driver id")
	}

	query, err := queries.NewGetDriverLedgerQuery(driverID)
	if err != nil {
		return badRequest(ctx, "Invalid ledger query: "+err.Error())
	}

	entries, err := s.getDriverLedgerHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return internalError(ctx, "Failed to retrieve driver ledger")
	}

	response := make([]ledgerEntryResponse, len(entries))
	for i, entry := range entries {
		response[i] = ledgerEntryResponse{
			TransactionID:    entry.TransactionID.String(),
			OrderCode:        entry.OrderCode,
			GrossAmount:      entry.GrossAmount.Cents(),
			CommissionAmount: entry.CommissionAmount.Cents(),
			NetAmount:        entry.NetAmount.Cents(),
			Status:           entry.Status,
			CreatedAt:        entry.CreatedAt,
			RemittedAt:       entry.RemittedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetUnremittedTotals handles GET /api/v1/settlements/unremitted - the
// outstanding cash per driver.
func (s *Server) GetUnremittedTotals(ctx echo.Context) error {
	query := queries.NewGetUnremittedTotalsQuery()

	totals, err := s.getUnremittedTotalsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return internalError(ctx, "Failed to retrieve unremitted totals")
	}

	response := make([]unremittedTotalResponse, len(totals))
	for i, total := range totals {
		response[i] = unremittedTotalResponse{
			DriverID:     total.DriverID.String(),
			DriverName:   total.DriverName,
			EntryCount:   total.EntryCount,
			TotalPending: total.TotalPending.Cents(),
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// RemitCash handles POST /api/v1/settlements/:transaction_id/remit - settles
// one driver-side ledger entry against its vendor counterpart.
func (s *Server) RemitCash(ctx echo.Context) error {
	transactionID, err := pathUUID(ctx, "transaction_id")
	if err != nil {
		return badRequest(ctx, "Invalid transaction id")
	}

	var req struct {
		Actor       string `json:"actor"`
		Receipt     []byte `json:"receipt"`
		ContentType string `json:"content_type"`
	}
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	actor, err := settlement.ActorFromString(req.Actor)
	if err != nil {
		return badRequest(ctx, "Invalid actor: "+err.Error())
	}

	cmd, err := commands.NewRemitCashCommand(transactionID, actor, req.Receipt, req.ContentType)
	if err != nil {
		return badRequest(ctx, "Invalid remittance data: "+err.Error())
	}

	if handleErr := s.remitCashHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return commandError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusOK)
}

// AdjustWallet handles POST /api/v1/wallets/:owner_id/adjust - records a
// manual compensating entry against an owner's wallet.
func (s *Server) AdjustWallet(ctx echo.Context) error {
	ownerID, err := pathUUID(ctx, "owner_id")
	if err != nil {
		return badRequest(ctx, "Invalid owner id")
	}

	var req struct {
		Amount int64  `json:"amount"`
		Reason string `json:"reason"`
		Actor  string `json:"actor"`
	}
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewAdjustWalletCommand(ownerID, req.Amount, req.Reason, req.Actor)
	if err != nil {
		return badRequest(ctx, "Invalid adjustment data: "+err.Error())
	}

	if handleErr := s.adjustWalletHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return commandError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusOK)
}

type availableOrderResponse struct {
	ID              string    `json:"id"`
	OrderCode       string    `json:"order_code"`
	PickupAddress   string    `json:"pickup_address"`
	DeliveryAddress string    `json:"delivery_address"`
	TotalAmount     int64     `json:"total_amount"`
	DeliveryFee     int64     `json:"delivery_fee"`
	PaymentMethod   string    `json:"payment_method"`
	CreatedAt       time.Time `json:"created_at"`
}

type ledgerEntryResponse struct {
	TransactionID    string     `json:"transaction_id"`
	OrderCode        string     `json:"order_code"`
	GrossAmount      int64      `json:"gross_amount"`
	CommissionAmount int64      `json:"commission_amount"`
	NetAmount        int64      `json:"net_amount"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	RemittedAt       *time.Time `json:"remitted_at,omitempty"`
}

type unremittedTotalResponse struct {
	DriverID     string `json:"driver_id"`
	DriverName   string `json:"driver_name"`
	EntryCount   int    `json:"entry_count"`
	TotalPending int64  `json:"total_pending"`
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param(name))
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, errorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

func internalError(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusInternalServerError, errorResponse{
		Code:    http.StatusInternalServerError,
		Message: message,
	})
}

// commandError maps a use-case error to a status code. Contention and replay
// conflicts are 409, sequencing and financial rule violations are 422,
// missing aggregates are 404, ownership violations are 403.
func commandError(ctx echo.Context, err error) error {
	var code int
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, commands.ErrOrderAlreadyAssigned),
		errors.Is(err, commands.ErrDriverInactive),
		errors.Is(err, settlement.ErrAlreadyRemitted):
		code = http.StatusConflict
	case errors.Is(err, order.ErrNotOwner),
		errors.Is(err, commands.ErrOrderBelongsToAnotherVendor):
		code = http.StatusForbidden
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, driver.ErrManualBusy),
		errors.Is(err, driver.ErrHasActiveOrders),
		errors.Is(err, driver.ErrInsufficientCash),
		errors.Is(err, settlement.ErrNotLinked),
		errors.Is(err, settlement.ErrWalletOverdraft):
		code = http.StatusUnprocessableEntity
	default:
		code = http.StatusInternalServerError
	}

	return ctx.JSON(code, errorResponse{Code: code, Message: err.Error()})
}
