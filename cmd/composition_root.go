package cmd

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shiptrack/internal/adapters/out/carrierapi"
	"shiptrack/internal/adapters/out/postgres"
	"shiptrack/internal/adapters/out/reportfeed"
	"shiptrack/internal/core/application/usecases/commands"
	"shiptrack/internal/core/application/usecases/queries"
	"shiptrack/internal/core/domain/model/subsidiary"
	"shiptrack/internal/core/domain/services"
	"shiptrack/internal/core/ports"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	gateway    ports.CarrierTrackingGateway
	reports    ports.ReportSource
	resolver   *subsidiary.Resolver
	logger     *zap.Logger
}

func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	cache carrierapi.Cache,
	resolver *subsidiary.Resolver,
	logger *zap.Logger,
) CompositionRoot {
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		gateway: carrierapi.NewExpressTrackingClient(
			config.CarrierAPIBaseURL, config.CarrierAPIKey, cache, logger),
		reports:  reportfeed.NewHTTPReportFeed(config.ReportFeedURL, logger),
		resolver: resolver,
		logger:   logger,
	}
}

func (c *CompositionRoot) CreateReconcileShipmentsCommandHandler() commands.ReconcileShipmentsCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewReconcileShipmentsCommandHandler(
		f,
		c.gateway,
		c.reports,
		c.resolver,
		services.NewEventSelector(),
		c.config.FetchWorkers,
		c.logger,
	)
}

func (c *CompositionRoot) CreateGetBacklogQueryHandler() queries.GetBacklogQueryHandler {
	return queries.NewGetBacklogQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetShipmentHistoryQueryHandler() queries.GetShipmentHistoryQueryHandler {
	return queries.NewGetShipmentHistoryQueryHandler(c.gormDB)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
