package queries

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/felixgeelhaar/gymstore/internal/accounts/domain"
	"github.com/felixgeelhaar/gymstore/internal/accounts/infrastructure/persistence"
	loyaltyDomain "github.com/felixgeelhaar/gymstore/internal/loyalty/domain"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/migrations"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAccountHandler(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, sqlite.MemoryPath)
	require.NoError(t, err)
	defer db.Close()
	_, err = migrations.RunSQLite(ctx, db)
	require.NoError(t, err)

	users := persistence.NewSQLiteUserRepository(db)
	accounts := persistence.NewSQLiteAccountRepository(db)

	email, _ := domain.NewEmail("dee@example.com")
	name, _ := domain.NewFullName("Dee")
	user := domain.NewUser(email, name, domain.RoleCustomer)
	require.NoError(t, users.Create(ctx, user))
	account, err := domain.NewAccount(user.ID(), loyaltyDomain.TierSilver, sharedDomain.MustParseMoney("12.3"))
	require.NoError(t, err)
	require.NoError(t, accounts.Create(ctx, account))

	handler := NewGetAccountHandler(users, accounts)

	byID, err := handler.ByID(ctx, account.ID())
	require.NoError(t, err)
	assert.Equal(t, "SILVER", byID.Rank)
	assert.Equal(t, "dee@example.com", byID.Email)

	raw, err := json.Marshal(byID)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"creditBalance":12.30`)

	byEmail, err := handler.ByEmail(ctx, "DEE@example.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID(), byEmail.ID)

	_, err = handler.ByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = handler.ByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
