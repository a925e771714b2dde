package cmd

import (
	"log/slog"

	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	signatures ports.SignatureStore
	logger     *slog.Logger
}

func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	signatures ports.SignatureStore,
	logger *slog.Logger,
) CompositionRoot {
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		signatures: signatures,
		logger:     logger,
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) driverUoWFactory() commands.DriverUoWFactory {
	return FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) assignmentUoWFactory() commands.AssignmentUoWFactory {
	return FuncAssignmentUoWFactory(func() commands.AssignmentUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) settlementUoWFactory() commands.SettlementUoWFactory {
	return FuncSettlementUoWFactory(func() commands.SettlementUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) walletUoWFactory() commands.WalletUoWFactory {
	return FuncWalletUoWFactory(func() commands.WalletUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateCreateDriverCommandHandler() commands.CreateDriverCommandHandler {
	return commands.NewCreateDriverCommandHandler(c.driverUoWFactory())
}

func (c *CompositionRoot) CreateClaimOrderCommandHandler() commands.ClaimOrderCommandHandler {
	return commands.NewClaimOrderCommandHandler(c.assignmentUoWFactory())
}

func (c *CompositionRoot) CreateReleaseOrderCommandHandler() commands.ReleaseOrderCommandHandler {
	return commands.NewReleaseOrderCommandHandler(c.assignmentUoWFactory())
}

func (c *CompositionRoot) CreateAdvanceOrderCommandHandler() commands.AdvanceOrderCommandHandler {
	return commands.NewAdvanceOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateCompleteDeliveryCommandHandler() commands.CompleteDeliveryCommandHandler {
	return commands.NewCompleteDeliveryCommandHandler(c.settlementUoWFactory(), c.signatures)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.assignmentUoWFactory())
}

func (c *CompositionRoot) CreateFailOrderCommandHandler() commands.FailOrderCommandHandler {
	return commands.NewFailOrderCommandHandler(c.assignmentUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateRemitCashCommandHandler() commands.RemitCashCommandHandler {
	return commands.NewRemitCashCommandHandler(c.settlementUoWFactory(), c.signatures)
}

func (c *CompositionRoot) CreateSetDriverStatusCommandHandler() commands.SetDriverStatusCommandHandler {
	return commands.NewSetDriverStatusCommandHandler(c.assignmentUoWFactory())
}

func (c *CompositionRoot) CreateAdjustWalletCommandHandler() commands.AdjustWalletCommandHandler {
	return commands.NewAdjustWalletCommandHandler(c.walletUoWFactory())
}

func (c *CompositionRoot) CreateReconcileDriverStatusesCommandHandler() commands.ReconcileDriverStatusesCommandHandler {
	return commands.NewReconcileDriverStatusesCommandHandler(c.assignmentUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateSweepOrphanTransactionsCommandHandler() commands.SweepOrphanTransactionsCommandHandler {
	return commands.NewSweepOrphanTransactionsCommandHandler(c.settlementUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateGetAvailableOrdersQueryHandler() queries.GetAvailableOrdersQueryHandler {
	return queries.NewGetAvailableOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDriverLedgerQueryHandler() queries.GetDriverLedgerQueryHandler {
	return queries.NewGetDriverLedgerQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetUnremittedTotalsQueryHandler() queries.GetUnremittedTotalsQueryHandler {
	return queries.NewGetUnremittedTotalsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateReconcileDriverStatusesCommandHandler(),
		c.CreateSweepOrphanTransactionsCommandHandler(),
		c.config.ReconcileSchedule,
		c.config.OrphanSweepSchedule,
		c.logger,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncDriverUoWFactory func() commands.DriverUoW

func (f FuncDriverUoWFactory) Create() commands.DriverUoW {
	return f()
}

type FuncAssignmentUoWFactory func() commands.AssignmentUoW

func (f FuncAssignmentUoWFactory) Create() commands.AssignmentUoW {
	return f()
}

type FuncSettlementUoWFactory func() commands.SettlementUoW

func (f FuncSettlementUoWFactory) Create() commands.SettlementUoW {
	return f()
}

type FuncWalletUoWFactory func() commands.WalletUoW

func (f FuncWalletUoWFactory) Create() commands.WalletUoW {
	return f()
}
