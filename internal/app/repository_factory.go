package app

import (
	"database/sql"
	"fmt"

	accountsDomain "github.com/felixgeelhaar/gymstore/internal/accounts/domain"
	accountsPersistence "github.com/felixgeelhaar/gymstore/internal/accounts/infrastructure/persistence"
	catalogDomain "github.com/felixgeelhaar/gymstore/internal/catalog/domain"
	catalogPersistence "github.com/felixgeelhaar/gymstore/internal/catalog/infrastructure/persistence"
	loyaltyDomain "github.com/felixgeelhaar/gymstore/internal/loyalty/domain"
	loyaltyPersistence "github.com/felixgeelhaar/gymstore/internal/loyalty/infrastructure/persistence"
	membershipDomain "github.com/felixgeelhaar/gymstore/internal/membership/domain"
	membershipPersistence "github.com/felixgeelhaar/gymstore/internal/membership/infrastructure/persistence"
	purchasingDomain "github.com/felixgeelhaar/gymstore/internal/purchasing/domain"
	purchasingPersistence "github.com/felixgeelhaar/gymstore/internal/purchasing/infrastructure/persistence"
	sharedApplication "github.com/felixgeelhaar/gymstore/internal/shared/application"
	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/outbox"
	sharedPersistence "github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/persistence"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories is the full set of stores for one connection.
type Repositories struct {
	Products      catalogDomain.ProductRepository
	Categories    catalogDomain.CategoryRepository
	Plans         catalogDomain.PlanRepository
	Users         accountsDomain.UserRepository
	Accounts      accountsDomain.AccountRepository
	Coupons       loyaltyDomain.CouponRepository
	Subscriptions membershipDomain.SubscriptionRepository
	Purchases     purchasingDomain.PurchaseRepository
	Outbox        outbox.Repository
	UnitOfWork    sharedApplication.UnitOfWork
}

// RepositoryFactory creates repositories based on the database driver.
type RepositoryFactory struct {
	conn   database.Connection
	driver database.Driver
}

// NewRepositoryFactory creates a new repository factory.
func NewRepositoryFactory(conn database.Connection) *RepositoryFactory {
	return &RepositoryFactory{
		conn:   conn,
		driver: conn.Driver(),
	}
}

// Repositories builds every repository for the configured driver. All of
// them share the connection, so one unit of work spans them.
func (f *RepositoryFactory) Repositories() (*Repositories, error) {
	switch f.driver {
	case database.DriverPostgres:
		pool, err := f.getPostgresPool()
		if err != nil {
			return nil, err
		}
		return &Repositories{
			Products:      catalogPersistence.NewPostgresProductRepository(pool),
			Categories:    catalogPersistence.NewPostgresCategoryRepository(pool),
			Plans:         catalogPersistence.NewPostgresPlanRepository(pool),
			Users:         accountsPersistence.NewPostgresUserRepository(pool),
			Accounts:      accountsPersistence.NewPostgresAccountRepository(pool),
			Coupons:       loyaltyPersistence.NewPostgresCouponRepository(pool),
			Subscriptions: membershipPersistence.NewPostgresSubscriptionRepository(pool),
			Purchases:     purchasingPersistence.NewPostgresPurchaseRepository(pool),
			Outbox:        outbox.NewPostgresRepository(pool),
			UnitOfWork:    sharedPersistence.NewPostgresUnitOfWork(pool),
		}, nil

	case database.DriverSQLite:
		db, err := f.getSQLiteDB()
		if err != nil {
			return nil, err
		}
		return &Repositories{
			Products:      catalogPersistence.NewSQLiteProductRepository(db),
			Categories:    catalogPersistence.NewSQLiteCategoryRepository(db),
			Plans:         catalogPersistence.NewSQLitePlanRepository(db),
			Users:         accountsPersistence.NewSQLiteUserRepository(db),
			Accounts:      accountsPersistence.NewSQLiteAccountRepository(db),
			Coupons:       loyaltyPersistence.NewSQLiteCouponRepository(db),
			Subscriptions: membershipPersistence.NewSQLiteSubscriptionRepository(db),
			Purchases:     purchasingPersistence.NewSQLitePurchaseRepository(db),
			Outbox:        outbox.NewSQLiteRepository(db),
			UnitOfWork:    sharedPersistence.NewSQLiteUnitOfWork(db),
		}, nil

	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

func (f *RepositoryFactory) getPostgresPool() (*pgxpool.Pool, error) {
	pgConn, ok := f.conn.(interface{ Pool() *pgxpool.Pool })
	if !ok {
		return nil, fmt.Errorf("postgres connection does not expose Pool()")
	}
	return pgConn.Pool(), nil
}

func (f *RepositoryFactory) getSQLiteDB() (*sql.DB, error) {
	sqliteConn, ok := f.conn.(interface{ DB() *sql.DB })
	if !ok {
		return nil, fmt.Errorf("sqlite connection does not expose DB()")
	}
	return sqliteConn.DB(), nil
}

// Driver returns the database driver type.
func (f *RepositoryFactory) Driver() database.Driver {
	return f.driver
}
