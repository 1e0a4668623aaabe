package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	accountCommands "github.com/felixgeelhaar/gymstore/internal/accounts/application/commands"
	accountQueries "github.com/felixgeelhaar/gymstore/internal/accounts/application/queries"
	accountServices "github.com/felixgeelhaar/gymstore/internal/accounts/application/services"
	"github.com/felixgeelhaar/gymstore/internal/accounts/infrastructure/auth"
	catalogCommands "github.com/felixgeelhaar/gymstore/internal/catalog/application/commands"
	catalogQueries "github.com/felixgeelhaar/gymstore/internal/catalog/application/queries"
	catalogServices "github.com/felixgeelhaar/gymstore/internal/catalog/application/services"
	"github.com/felixgeelhaar/gymstore/internal/catalog/infrastructure/cache"
	loyaltyQueries "github.com/felixgeelhaar/gymstore/internal/loyalty/application/queries"
	loyaltyServices "github.com/felixgeelhaar/gymstore/internal/loyalty/application/services"
	membershipCommands "github.com/felixgeelhaar/gymstore/internal/membership/application/commands"
	membershipQueries "github.com/felixgeelhaar/gymstore/internal/membership/application/queries"
	membershipServices "github.com/felixgeelhaar/gymstore/internal/membership/application/services"
	purchaseCommands "github.com/felixgeelhaar/gymstore/internal/purchasing/application/commands"
	purchaseQueries "github.com/felixgeelhaar/gymstore/internal/purchasing/application/queries"
	purchaseSubscribers "github.com/felixgeelhaar/gymstore/internal/purchasing/application/subscribers"
	sharedApplication "github.com/felixgeelhaar/gymstore/internal/shared/application"
	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/gymstore/pkg/config"
	"github.com/felixgeelhaar/gymstore/pkg/observability"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *observability.InMemoryMetrics
	Clock   sharedApplication.Clock
	Health  *observability.HealthRegistry

	// Database
	DBConn   database.Connection
	DBDriver database.Driver
	Repos    *Repositories

	// Redis backs the plan cache when configured.
	RedisClient *redis.Client

	// Messaging
	Consumers       *eventbus.ConsumerRegistry
	EventPublisher  eventbus.Publisher
	OutboxProcessor *outbox.Processor

	Tokens *auth.TokenService

	// Ledgers
	Inventory          *catalogServices.Inventory
	CouponLedger       *loyaltyServices.CouponLedger
	AccountLedger      *accountServices.AccountLedger
	SubscriptionLedger *membershipServices.SubscriptionLedger

	// Catalog
	CreateProductHandler   *catalogCommands.CreateProductHandler
	RestockProductHandler  *catalogCommands.RestockProductHandler
	AddProductImageHandler *catalogCommands.AddProductImageHandler
	CreateCategoryHandler  *catalogCommands.CreateCategoryHandler
	CreatePlanHandler      *catalogCommands.CreatePlanHandler
	GetProductHandler      *catalogQueries.GetProductHandler
	ListProductsHandler    *catalogQueries.ListProductsHandler
	ListCategoriesHandler  *catalogQueries.ListCategoriesHandler
	GetPlanHandler         *catalogQueries.GetPlanHandler
	ListPlansHandler       *catalogQueries.ListPlansHandler

	// Accounts
	OpenAccountHandler *accountCommands.OpenAccountHandler
	TopUpCreditHandler *accountCommands.TopUpCreditHandler
	IssueTokenHandler  *accountCommands.IssueTokenHandler
	GetAccountHandler  *accountQueries.GetAccountHandler

	// Loyalty
	GetCouponHandler          *loyaltyQueries.GetCouponHandler
	ListAccountCouponsHandler *loyaltyQueries.ListAccountCouponsHandler

	// Membership
	GetSubscriptionHandler *membershipQueries.GetSubscriptionHandler
	SetAutoRenewalHandler  *membershipCommands.SetAutoRenewalHandler

	// Purchasing
	CreatePurchaseHandler       *purchaseCommands.CreatePurchaseHandler
	GetPurchaseHandler          *purchaseQueries.GetPurchaseHandler
	ListAccountPurchasesHandler *purchaseQueries.ListAccountPurchasesHandler
}

// NewContainer connects to the configured store and broker and wires every
// handler. An empty DatabaseURL selects SQLite, which is migrated on open.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = observability.DiscardLogger()
	}
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewInMemoryMetrics(),
		Clock:   sharedApplication.SystemClock,
		Health:  observability.NewHealthRegistry(),
	}

	conn, err := database.NewConnection(ctx, database.Config{
		URL:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DBConn = conn
	c.DBDriver = conn.Driver()
	c.Health.Register("database", observability.PingChecker("database", observability.HealthStatusUnhealthy, conn.Ping))
	logger.Info("connected to database", "driver", c.DBDriver)

	if c.DBDriver == database.DriverSQLite {
		if _, err := c.Migrate(ctx); err != nil {
			c.Close()
			return nil, err
		}
	}

	factory := NewRepositoryFactory(conn)
	repos, err := factory.Repositories()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create repositories: %w", err)
	}
	c.Repos = repos

	c.connectRedis(ctx)
	if c.RedisClient != nil {
		c.Repos.Plans = cache.NewCachedPlanRepository(c.Repos.Plans, cache.NewRedisStore(c.RedisClient), cfg.PlanCacheTTL, logger, c.Metrics)
	}

	if err := c.connectBroker(); err != nil {
		c.Close()
		return nil, err
	}

	c.wire()
	return c, nil
}

// Migrate applies pending schema migrations for the connected driver and
// returns the versions applied.
func (c *Container) Migrate(ctx context.Context) ([]string, error) {
	var (
		applied []string
		err     error
	)
	switch conn := c.DBConn.(type) {
	case interface{ DB() *sql.DB }:
		applied, err = migrations.RunSQLite(ctx, conn.DB())
	case interface{ Pool() *pgxpool.Pool }:
		applied, err = migrations.RunPostgres(ctx, conn.Pool())
	default:
		return nil, fmt.Errorf("unsupported connection type %T", c.DBConn)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if len(applied) > 0 {
		c.Logger.Info("applied migrations", "driver", c.DBDriver, "versions", applied)
	}
	return applied, nil
}

// connectRedis enables the plan cache. Redis is optional: when it cannot be
// reached plans are read straight from the store.
func (c *Container) connectRedis(ctx context.Context) {
	if c.Config.RedisURL == "" {
		return
	}
	opt, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		c.Logger.Warn("invalid Redis URL, plan cache disabled", "error", err)
		return
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		c.Logger.Warn("Redis not available, plan cache disabled", "error", err)
		_ = client.Close()
		return
	}
	c.RedisClient = client
	c.Health.Register("redis", observability.PingChecker("redis", observability.HealthStatusDegraded, func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}))
	c.Logger.Info("connected to Redis")
}

// connectBroker picks the relay's publisher: RabbitMQ behind a circuit
// breaker when configured, otherwise in-process consumers.
func (c *Container) connectBroker() error {
	c.Consumers = eventbus.NewConsumerRegistry(c.Logger)
	c.Consumers.Register(purchaseSubscribers.NewReceiptLogger(c.Logger))

	if c.Config.RabbitMQURL == "" {
		c.EventPublisher = eventbus.NewInProcessPublisher(c.Consumers, c.Logger)
		return nil
	}

	rabbit, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Logger)
	if err != nil {
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		c.Logger.Warn("RabbitMQ not available, logging events instead", "error", err)
		c.EventPublisher = eventbus.NewLogPublisher(c.Logger)
		return nil
	}
	c.Health.Register("rabbitmq", observability.PingChecker("rabbitmq", observability.HealthStatusDegraded, rabbit.Ping))
	c.EventPublisher = eventbus.NewBreakerPublisher(rabbit, eventbus.BreakerConfig{
		FailureThreshold: c.Config.BreakerFailureThreshold,
		OpenTimeout:      c.Config.BreakerOpenTimeout,
	}, c.Logger)
	return nil
}

func (c *Container) wire() {
	cfg, r := c.Config, c.Repos

	c.Tokens = auth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)

	c.Inventory = catalogServices.NewInventory(r.Products, r.Plans)
	c.CouponLedger = loyaltyServices.NewCouponLedger(r.Coupons, c.Clock)
	c.AccountLedger = accountServices.NewAccountLedger(r.Users, r.Accounts, c.Tokens)
	c.SubscriptionLedger = membershipServices.NewSubscriptionLedger(r.Subscriptions, c.Clock)

	c.CreateProductHandler = catalogCommands.NewCreateProductHandler(r.Products, r.Categories, r.Outbox, r.UnitOfWork)
	c.RestockProductHandler = catalogCommands.NewRestockProductHandler(r.Products, r.Outbox, r.UnitOfWork)
	c.AddProductImageHandler = catalogCommands.NewAddProductImageHandler(r.Products)
	c.CreateCategoryHandler = catalogCommands.NewCreateCategoryHandler(r.Categories)
	c.CreatePlanHandler = catalogCommands.NewCreatePlanHandler(r.Plans)
	c.GetProductHandler = catalogQueries.NewGetProductHandler(r.Products)
	c.ListProductsHandler = catalogQueries.NewListProductsHandler(r.Products)
	c.ListCategoriesHandler = catalogQueries.NewListCategoriesHandler(r.Categories)
	c.GetPlanHandler = catalogQueries.NewGetPlanHandler(r.Plans)
	c.ListPlansHandler = catalogQueries.NewListPlansHandler(r.Plans)

	c.OpenAccountHandler = accountCommands.NewOpenAccountHandler(r.Users, r.Accounts, r.Subscriptions, r.UnitOfWork)
	c.TopUpCreditHandler = accountCommands.NewTopUpCreditHandler(r.Accounts, r.Outbox, r.UnitOfWork)
	c.IssueTokenHandler = accountCommands.NewIssueTokenHandler(r.Users, c.Tokens)
	c.GetAccountHandler = accountQueries.NewGetAccountHandler(r.Users, r.Accounts)

	c.GetCouponHandler = loyaltyQueries.NewGetCouponHandler(r.Coupons, c.Clock)
	c.ListAccountCouponsHandler = loyaltyQueries.NewListAccountCouponsHandler(r.Coupons, c.Clock)

	c.GetSubscriptionHandler = membershipQueries.NewGetSubscriptionHandler(r.Subscriptions, c.Clock)
	c.SetAutoRenewalHandler = membershipCommands.NewSetAutoRenewalHandler(c.SubscriptionLedger)

	c.CreatePurchaseHandler = purchaseCommands.NewCreatePurchaseHandler(
		c.Inventory, c.CouponLedger, c.AccountLedger, c.SubscriptionLedger,
		r.Purchases, r.Outbox, r.UnitOfWork,
		purchaseCommands.EngineOptions{
			MaxAttempts:         cfg.PurchaseMaxAttempts,
			HonorExpiredCoupons: cfg.HonorExpiredCoupons,
			Clock:               c.Clock,
			Logger:              c.Logger,
			Metrics:             c.Metrics,
		},
	)
	c.GetPurchaseHandler = purchaseQueries.NewGetPurchaseHandler(r.Purchases)
	c.ListAccountPurchasesHandler = purchaseQueries.NewListAccountPurchasesHandler(r.Purchases)

	c.OutboxProcessor = outbox.NewProcessor(r.Outbox, c.EventPublisher, outbox.ProcessorConfig{
		PollInterval:     cfg.OutboxPollInterval,
		BatchSize:        cfg.OutboxBatchSize,
		MaxRetries:       cfg.OutboxMaxRetries,
		RetryBackoffBase: time.Second,
		RetryBackoffMax:  time.Minute,
		RetentionDays:    cfg.OutboxRetentionDays,
		CleanupInterval:  cfg.OutboxCleanupInterval,
	}, c.Logger, c.Metrics)
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.OutboxProcessor != nil && c.OutboxProcessor.IsRunning() {
		c.OutboxProcessor.Stop()
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
			c.Logger.Warn("error closing Redis connection", "error", err)
		}
	}

	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "error", err)
		} else {
			c.Logger.Info("database connection closed", "driver", c.DBDriver)
		}
	}
}
