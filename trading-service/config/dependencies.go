package config

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	sharedinfra "github.com/playeconomy/trading-service/shared/infrastructure"
	"github.com/playeconomy/trading-service/shared/logger"
	"github.com/playeconomy/trading-service/shared/telemetry"
	"github.com/playeconomy/trading-service/trading-service/application"
	"github.com/playeconomy/trading-service/trading-service/handlers"
	"github.com/playeconomy/trading-service/trading-service/infrastructure"
	"github.com/playeconomy/trading-service/trading-service/notifications"
	"github.com/playeconomy/trading-service/trading-service/saga"
	"github.com/redis/go-redis/v9"
)

type Dependencies struct {
	// Database
	DB    *sqlx.DB
	Redis *redis.Client

	// Logging and telemetry
	Logger            *logger.Logger
	Telemetry         *telemetry.Telemetry
	telemetryShutdown func()

	// Saga
	Machine *saga.Machine
	Engine  *saga.Engine

	// Repositories and activities
	PurchaseRepository *infrastructure.PostgresPurchaseRepository
	Pricing            *infrastructure.CatalogPricing

	// Use Cases
	RequestPurchase  *application.RequestPurchase
	GetPurchaseState *application.GetPurchaseState

	// Notifications
	StatusHub *notifications.Hub

	// HTTP Handlers
	PurchaseHandlers *handlers.PurchaseHandlers

	// Event Handlers
	TradingEventHandlers *handlers.TradingEventHandlers

	// Infrastructure
	EventPublisher    *sharedinfra.SNSPublisherAdapter
	EventSubscriber   *sharedinfra.SQSSubscriberAdapter
	CommandDispatcher *infrastructure.BusCommandDispatcher
}

func BuildDependencies(ctx context.Context, config *Config) (*Dependencies, error) {
	deps := &Dependencies{}

	deps.Logger = logger.New(config.ServiceName, os.Stdout)

	// Initialize telemetry
	telemetryConfig := telemetry.NewConfigForService(config.ServiceName, "1.0.0", config.Telemetry.OTLPEndpoint)
	tel, telemetryShutdown, err := telemetry.InitTelemetry(ctx, telemetryConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to init telemetry: %w", err)
	}
	deps.Telemetry = tel
	deps.telemetryShutdown = telemetryShutdown

	// Initialize database
	db, err := sqlx.Connect("postgres", config.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	deps.DB = db

	// Initialize price cache
	deps.Redis = redis.NewClient(&redis.Options{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	})

	// Initialize AWS infrastructure
	eventPublisher, err := sharedinfra.NewSNSPublisherAdapter(config.AWS.SNSTopicArn)
	if err != nil {
		return nil, fmt.Errorf("failed to create SNS publisher: %w", err)
	}
	deps.EventPublisher = eventPublisher

	eventSubscriber, err := sharedinfra.NewSQSSubscriberAdapter(config.AWS.SQSQueueURL, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create SQS subscriber: %w", err)
	}
	deps.EventSubscriber = eventSubscriber

	// Initialize repositories and activities
	deps.PurchaseRepository = infrastructure.NewPostgresPurchaseRepository(db)
	deps.Pricing = infrastructure.NewCatalogPricing(db, deps.Redis, config.PriceCacheTTL(), deps.Logger)

	// Initialize the saga
	deps.StatusHub = notifications.NewHub(deps.Logger)
	deps.CommandDispatcher = infrastructure.NewBusCommandDispatcher(eventPublisher, deps.Logger)
	deps.Machine = saga.NewPurchaseStateMachine(deps.Pricing, deps.Logger)
	deps.Engine = saga.NewEngine(deps.Machine, deps.PurchaseRepository, deps.CommandDispatcher, deps.StatusHub, deps.Logger)

	// Initialize use cases
	deps.RequestPurchase = application.NewRequestPurchase(deps.Engine)
	deps.GetPurchaseState = application.NewGetPurchaseState(deps.Engine)

	// Initialize handlers
	deps.PurchaseHandlers = handlers.NewPurchaseHandlers(deps.RequestPurchase, deps.GetPurchaseState, deps.StatusHub, deps.Logger)
	deps.TradingEventHandlers = handlers.NewTradingEventHandlers(deps.Engine)

	return deps, nil
}

// Close closes all dependencies
func (d *Dependencies) Close() error {
	var errs []error

	if d.EventSubscriber != nil {
		if err := d.EventSubscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close event subscriber: %w", err))
		}
	}

	if d.EventPublisher != nil {
		if err := d.EventPublisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close event publisher: %w", err))
		}
	}

	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis client: %w", err))
		}
	}

	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if d.telemetryShutdown != nil {
		d.telemetryShutdown()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing dependencies: %v", errs)
	}

	return nil
}
