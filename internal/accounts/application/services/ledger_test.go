package services

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/gymstore/internal/accounts/domain"
	loyaltyDomain "github.com/felixgeelhaar/gymstore/internal/loyalty/domain"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email domain.Email) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type mockAccountRepo struct{ mock.Mock }

func (m *mockAccountRepo) Create(ctx context.Context, a *domain.Account) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAccountRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockAccountRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockAccountRepo) UpdateBalance(ctx context.Context, a *domain.Account) error {
	return m.Called(ctx, a).Error(0)
}

type stubVerifier struct {
	userID uuid.UUID
	err    error
}

func (s stubVerifier) Verify(string) (uuid.UUID, error) { return s.userID, s.err }

func testUser(role domain.Role) *domain.User {
	email, _ := domain.NewEmail("lee@example.com")
	name, _ := domain.NewFullName("Lee")
	return domain.NewUser(email, name, role)
}

func testAccount(t *testing.T, userID uuid.UUID, balance string) *domain.Account {
	t.Helper()
	a, err := domain.NewAccount(userID, loyaltyDomain.TierBronze, sharedDomain.MustParseMoney(balance))
	require.NoError(t, err)
	return a
}

func TestAccountLedger_GetCreditBalance(t *testing.T) {
	ctx := context.Background()
	accounts := new(mockAccountRepo)
	account := testAccount(t, uuid.New(), "42.50")
	missing := uuid.New()
	accounts.On("FindByID", ctx, account.ID()).Return(account, nil)
	accounts.On("FindByID", ctx, missing).Return(nil, nil)

	ledger := NewAccountLedger(new(mockUserRepo), accounts, stubVerifier{})
	balance, err := ledger.GetCreditBalance(ctx, account.ID())
	require.NoError(t, err)
	assert.Equal(t, "42.50", balance.String())

	_, err = ledger.GetCreditBalance(ctx, missing)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountLedger_Debit(t *testing.T) {
	ctx := context.Background()
	accounts := new(mockAccountRepo)
	account := testAccount(t, uuid.New(), "100")
	accounts.On("FindByID", ctx, account.ID()).Return(account, nil)
	accounts.On("UpdateBalance", ctx, account).Return(nil).Once()

	ledger := NewAccountLedger(new(mockUserRepo), accounts, stubVerifier{})
	require.NoError(t, ledger.Debit(ctx, account.ID(), sharedDomain.MustParseMoney("40")))
	assert.Equal(t, "60.00", account.CreditBalance().String())

	accounts.On("UpdateBalance", ctx, account).Return(sharedDomain.ErrConcurrentModification).Once()
	err := ledger.DebitAccount(ctx, account, sharedDomain.MustParseMoney("1"))
	assert.ErrorIs(t, err, sharedDomain.ErrConcurrentModification)
}

func TestAccountLedger_Authenticate(t *testing.T) {
	ctx := context.Background()
	user := testUser(domain.RoleCustomer)
	account := testAccount(t, user.ID(), "0")

	t.Run("resolves principal", func(t *testing.T) {
		users, accounts := new(mockUserRepo), new(mockAccountRepo)
		users.On("FindByID", ctx, user.ID()).Return(user, nil)
		accounts.On("FindByUserID", ctx, user.ID()).Return(account, nil)

		ledger := NewAccountLedger(users, accounts, stubVerifier{userID: user.ID()})
		principal, err := ledger.Authenticate(ctx, "token")
		require.NoError(t, err)
		assert.Equal(t, account.ID(), principal.Account.ID())
		assert.False(t, principal.IsAdmin())
		assert.True(t, principal.CanAccess(account.ID()))
		assert.False(t, principal.CanAccess(uuid.New()))

		got, err := ledger.GetAccountByToken(ctx, "token")
		require.NoError(t, err)
		assert.Equal(t, account, got)
	})

	t.Run("bad token", func(t *testing.T) {
		ledger := NewAccountLedger(new(mockUserRepo), new(mockAccountRepo), stubVerifier{err: domain.ErrUnauthorized})
		_, err := ledger.GetAccountByToken(ctx, "token")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("unknown user", func(t *testing.T) {
		users := new(mockUserRepo)
		users.On("FindByID", ctx, user.ID()).Return(nil, nil)
		ledger := NewAccountLedger(users, new(mockAccountRepo), stubVerifier{userID: user.ID()})
		_, err := ledger.GetAccountByToken(ctx, "token")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("user without account", func(t *testing.T) {
		users, accounts := new(mockUserRepo), new(mockAccountRepo)
		users.On("FindByID", ctx, user.ID()).Return(user, nil)
		accounts.On("FindByUserID", ctx, user.ID()).Return(nil, nil)
		ledger := NewAccountLedger(users, accounts, stubVerifier{userID: user.ID()})
		_, err := ledger.GetAccountByToken(ctx, "token")
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	})

	t.Run("storage failure", func(t *testing.T) {
		users := new(mockUserRepo)
		users.On("FindByID", ctx, user.ID()).Return(nil, errors.New("boom"))
		ledger := NewAccountLedger(users, new(mockAccountRepo), stubVerifier{userID: user.ID()})
		_, err := ledger.GetAccountByToken(ctx, "token")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("admin can access others", func(t *testing.T) {
		p := &Principal{User: testUser(domain.RoleAdmin), Account: account}
		assert.True(t, p.CanAccess(uuid.New()))
	})
}
