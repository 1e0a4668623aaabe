package app

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/database/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bareConnection struct {
	driver database.Driver
}

func (c bareConnection) Driver() database.Driver        { return c.driver }
func (c bareConnection) Ping(ctx context.Context) error { return nil }
func (c bareConnection) Close() error                   { return nil }

func TestRepositoryFactory_SQLite(t *testing.T) {
	conn, err := sqlite.NewConnection(context.Background(), database.Config{SQLitePath: sqlite.MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	factory := NewRepositoryFactory(conn)
	assert.Equal(t, database.DriverSQLite, factory.Driver())

	repos, err := factory.Repositories()
	require.NoError(t, err)
	assert.NotNil(t, repos.Products)
	assert.NotNil(t, repos.Categories)
	assert.NotNil(t, repos.Plans)
	assert.NotNil(t, repos.Users)
	assert.NotNil(t, repos.Accounts)
	assert.NotNil(t, repos.Coupons)
	assert.NotNil(t, repos.Subscriptions)
	assert.NotNil(t, repos.Purchases)
	assert.NotNil(t, repos.Outbox)
	assert.NotNil(t, repos.UnitOfWork)
}

func TestRepositoryFactory_MissingHandle(t *testing.T) {
	for _, driver := range []database.Driver{database.DriverSQLite, database.DriverPostgres} {
		t.Run(string(driver), func(t *testing.T) {
			_, err := NewRepositoryFactory(bareConnection{driver: driver}).Repositories()
			assert.Error(t, err)
		})
	}
}

func TestRepositoryFactory_UnsupportedDriver(t *testing.T) {
	_, err := NewRepositoryFactory(bareConnection{driver: "mysql"}).Repositories()
	assert.ErrorContains(t, err, "unsupported driver")
}
