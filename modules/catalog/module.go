package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	"gorm.io/gorm"
)

// ModuleName is the mono module name; services live under services.products.*.
const ModuleName = "products"

// Config selects the store and the optional admin surface of the module.
type Config struct {
	Driver            string
	DSN               string
	Debug             bool
	HardDeleteEnabled bool
}

// Module exposes the catalog over mono request-reply services.
type Module struct {
	cfg      Config
	db       *gorm.DB
	service  ProductService
	eventBus mono.EventBus
	logger   types.Logger
}

// Compile-time interface checks
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
	_ mono.EventBusAwareModule   = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
)

// NewModule creates a catalog module. The store is opened in Start.
func NewModule(cfg Config, logger types.Logger) *Module {
	return &Module{
		cfg:    cfg,
		logger: logger,
	}
}

// NewModuleWithService creates a catalog module around an existing service.
// Start leaves the service untouched.
func NewModuleWithService(cfg Config, service ProductService, logger types.Logger) *Module {
	return &Module{
		cfg:     cfg,
		service: service,
		logger:  logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return ModuleName
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		ProductCreatedV1.ToBase(),
		ProductUpdatedV1.ToBase(),
		ProductRemovedV1.ToBase(),
		ProductPurgedV1.ToBase(),
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create_product", decodeRequest, json.Marshal, m.createProduct,
	); err != nil {
		return fmt.Errorf("failed to register create_product service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "find_all_products", decodeRequest, json.Marshal, m.findAllProducts,
	); err != nil {
		return fmt.Errorf("failed to register find_all_products service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "find_one_product", decodeRequest, json.Marshal, m.findOneProduct,
	); err != nil {
		return fmt.Errorf("failed to register find_one_product service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update_one_product", decodeRequest, json.Marshal, m.updateOneProduct,
	); err != nil {
		return fmt.Errorf("failed to register update_one_product service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete_one_product", decodeRequest, json.Marshal, m.deleteOneProduct,
	); err != nil {
		return fmt.Errorf("failed to register delete_one_product service: %w", err)
	}

	if m.cfg.HardDeleteEnabled {
		if err := helper.RegisterTypedRequestReplyService(
			container, "hard_delete_product", decodeRequest, json.Marshal, m.hardDeleteProduct,
		); err != nil {
			return fmt.Errorf("failed to register hard_delete_product service: %w", err)
		}
	}

	m.logger.Info("Registered services",
		"prefix", "services."+ModuleName,
		"hard_delete", m.cfg.HardDeleteEnabled)
	return nil
}

// Start opens the store unless a service was injected.
func (m *Module) Start(_ context.Context) error {
	if m.service != nil {
		m.logger.Info("Catalog module started", "store", "injected")
		return nil
	}

	var repo ProductRepository
	if m.cfg.Driver == DriverMemory {
		repo = NewMemoryRepository()
	} else {
		m.logger.Info("Connecting to database", "driver", m.cfg.Driver)
		db, err := OpenDatabase(m.cfg.Driver, m.cfg.DSN, m.cfg.Debug)
		if err != nil {
			return err
		}
		m.db = db
		repo = NewGormRepository(db)
	}
	m.service = NewProductService(repo)

	if m.eventBus == nil {
		m.logger.Warn("EventBus not set, product events will not be published")
	}
	m.logger.Info("Catalog module started", "store", m.cfg.Driver)
	return nil
}

// Stop closes the database connection if one was opened.
func (m *Module) Stop(_ context.Context) error {
	if m.db == nil {
		m.logger.Info("Catalog module stopped")
		return nil
	}

	if err := CloseDatabase(m.db); err != nil {
		return err
	}
	m.db = nil
	m.logger.Info("Catalog module stopped", "database", "closed")
	return nil
}

// Health reports whether the store is reachable.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "catalog not initialized",
		}
	}

	if m.db == nil {
		return mono.HealthStatus{
			Healthy: true,
			Message: "operational",
			Details: map[string]any{"store": m.storeName()},
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get sql.DB: %v", err),
		}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	stats := sqlDB.Stats()
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"store":            m.storeName(),
			"open_connections": stats.OpenConnections,
			"in_use":           stats.InUse,
		},
	}
}

func (m *Module) storeName() string {
	if m.cfg.Driver == "" {
		return "injected"
	}
	return m.cfg.Driver
}
