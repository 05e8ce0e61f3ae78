package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/imtiaz478/Sellora-full/internal/models"
	"github.com/imtiaz478/Sellora-full/internal/storage"
)

// StoreTestSuite runs every storage operation against a fresh in-memory database.
type StoreTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *Store
	alice models.User
	bob   models.User
}

func (s *StoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	store, err := NewStore(s.ctx, ":memory:")
	require.NoError(s.T(), err, "failed to create test database")
	s.store = store

	s.alice, err = store.CreateUser(s.ctx, models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "h1"})
	require.NoError(s.T(), err)
	s.bob, err = store.CreateUser(s.ctx, models.User{Username: "bob", Email: "bob@example.com", PasswordHash: "h2"})
	require.NoError(s.T(), err)
}

func (s *StoreTestSuite) TearDownTest() {
	if s.store != nil {
		s.store.Close()
	}
}

func (s *StoreTestSuite) date(v string) models.Date {
	d, err := models.ParseDate(v)
	require.NoError(s.T(), err)
	return d
}

func (s *StoreTestSuite) newTransaction(owner int64, product string) models.Transaction {
	return models.Transaction{
		UserID:         owner,
		Source:         "marketplace",
		UserOrMerchant: "merchant",
		Product:        product,
		TotalPrice:     99.5,
		BuyDate:        s.date("2024-01-01"),
	}
}

func (s *StoreTestSuite) TestUserLookups() {
	byEmail, err := s.store.FindByEmail(s.ctx, "alice@example.com")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), s.alice.ID, byEmail.ID)
	assert.Equal(s.T(), "h1", byEmail.PasswordHash)
	assert.False(s.T(), byEmail.CreatedAt.IsZero())

	_, err = s.store.FindByEmail(s.ctx, "nobody@example.com")
	assert.ErrorIs(s.T(), err, storage.ErrNotFound)
}

func (s *StoreTestSuite) TestCreateUserConflict() {
	_, err := s.store.CreateUser(s.ctx, models.User{Username: "alice", Email: "new@example.com", PasswordHash: "x"})
	assert.ErrorIs(s.T(), err, storage.ErrAlreadyExists)

	_, err = s.store.CreateUser(s.ctx, models.User{Username: "new", Email: "bob@example.com", PasswordHash: "x"})
	assert.ErrorIs(s.T(), err, storage.ErrAlreadyExists)
}

func (s *StoreTestSuite) TestCreateAndListRoundTrip() {
	sell := s.date("2024-01-11")
	in := s.newTransaction(s.alice.ID, "camera")
	in.SellDate = &sell

	created, err := s.store.CreateTransaction(s.ctx, in)
	require.NoError(s.T(), err)
	assert.Positive(s.T(), created.ID)
	assert.False(s.T(), created.CreatedAt.IsZero())

	items, err := s.store.ListTransactions(s.ctx, s.alice.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), items, 1)

	got := items[0]
	assert.Equal(s.T(), created.ID, got.ID)
	assert.Equal(s.T(), in.Source, got.Source)
	assert.Equal(s.T(), in.UserOrMerchant, got.UserOrMerchant)
	assert.Equal(s.T(), in.Product, got.Product)
	assert.Equal(s.T(), in.TotalPrice, got.TotalPrice)
	assert.Equal(s.T(), in.BuyDate, got.BuyDate)
	require.NotNil(s.T(), got.SellDate)
	assert.Equal(s.T(), sell, *got.SellDate)
	assert.Equal(s.T(), 10, *got.DateDiffDays())
}

func (s *StoreTestSuite) TestListIsScopedToOwner() {
	_, err := s.store.CreateTransaction(s.ctx, s.newTransaction(s.alice.ID, "a1"))
	require.NoError(s.T(), err)
	_, err = s.store.CreateTransaction(s.ctx, s.newTransaction(s.bob.ID, "b1"))
	require.NoError(s.T(), err)
	_, err = s.store.CreateTransaction(s.ctx, s.newTransaction(s.alice.ID, "a2"))
	require.NoError(s.T(), err)

	items, err := s.store.ListTransactions(s.ctx, s.alice.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), items, 2)
	assert.Equal(s.T(), "a1", items[0].Product, "insertion order")
	assert.Equal(s.T(), "a2", items[1].Product)
	for _, item := range items {
		assert.Equal(s.T(), s.alice.ID, item.UserID)
	}

	empty, err := s.store.ListTransactions(s.ctx, 9999)
	require.NoError(s.T(), err)
	assert.NotNil(s.T(), empty)
	assert.Empty(s.T(), empty)
}

func (s *StoreTestSuite) TestCreateForUnknownOwner() {
	_, err := s.store.CreateTransaction(s.ctx, s.newTransaction(9999, "ghost"))
	assert.ErrorIs(s.T(), err, storage.ErrNotFound)
}

func (s *StoreTestSuite) TestUpdateChangesOnlySuppliedFields() {
	created, err := s.store.CreateTransaction(s.ctx, s.newTransaction(s.alice.ID, "camera"))
	require.NoError(s.T(), err)

	price := 150.0
	updated, err := s.store.UpdateTransaction(s.ctx, created.ID, s.alice.ID, models.TransactionPatch{TotalPrice: &price})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 150.0, updated.TotalPrice)
	assert.Equal(s.T(), "camera", updated.Product)
	assert.Equal(s.T(), created.BuyDate, updated.BuyDate)
	assert.Nil(s.T(), updated.SellDate)
	assert.True(s.T(), created.CreatedAt.Equal(updated.CreatedAt))

	items, err := s.store.ListTransactions(s.ctx, s.alice.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), items, 1)
	assert.Equal(s.T(), 150.0, items[0].TotalPrice)
	assert.Equal(s.T(), "camera", items[0].Product)
}

func (s *StoreTestSuite) TestUpdateSetsAndClearsSellDate() {
	created, err := s.store.CreateTransaction(s.ctx, s.newTransaction(s.alice.ID, "camera"))
	require.NoError(s.T(), err)

	sell := s.date("2024-03-01")
	updated, err := s.store.UpdateTransaction(s.ctx, created.ID, s.alice.ID, models.TransactionPatch{SellDate: &sell})
	require.NoError(s.T(), err)
	require.NotNil(s.T(), updated.SellDate)
	assert.Equal(s.T(), 60, *updated.DateDiffDays())

	cleared, err := s.store.UpdateTransaction(s.ctx, created.ID, s.alice.ID, models.TransactionPatch{ClearSellDate: true})
	require.NoError(s.T(), err)
	assert.Nil(s.T(), cleared.SellDate)
}

func (s *StoreTestSuite) TestUpdateAndDeleteAreOwnerScoped() {
	created, err := s.store.CreateTransaction(s.ctx, s.newTransaction(s.alice.ID, "camera"))
	require.NoError(s.T(), err)

	product := "stolen"
	_, err = s.store.UpdateTransaction(s.ctx, created.ID, s.bob.ID, models.TransactionPatch{Product: &product})
	assert.ErrorIs(s.T(), err, storage.ErrNotFound)

	err = s.store.DeleteTransaction(s.ctx, created.ID, s.bob.ID)
	assert.ErrorIs(s.T(), err, storage.ErrNotFound)

	items, err := s.store.ListTransactions(s.ctx, s.alice.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), items, 1)
	assert.Equal(s.T(), "camera", items[0].Product)
}

func (s *StoreTestSuite) TestDelete() {
	created, err := s.store.CreateTransaction(s.ctx, s.newTransaction(s.alice.ID, "camera"))
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.store.DeleteTransaction(s.ctx, created.ID, s.alice.ID))

	items, err := s.store.ListTransactions(s.ctx, s.alice.ID)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), items)

	assert.ErrorIs(s.T(), s.store.DeleteTransaction(s.ctx, created.ID, s.alice.ID), storage.ErrNotFound)
	assert.ErrorIs(s.T(), s.store.DeleteTransaction(s.ctx, 12345, s.alice.ID), storage.ErrNotFound)
}

func (s *StoreTestSuite) TestUpdateMissing() {
	price := 1.0
	_, err := s.store.UpdateTransaction(s.ctx, 12345, s.alice.ID, models.TransactionPatch{TotalPrice: &price})
	assert.ErrorIs(s.T(), err, storage.ErrNotFound)
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sellora.db")

	store, err := NewStore(ctx, path)
	require.NoError(t, err)
	user, err := store.CreateUser(ctx, models.User{Username: "u", Email: "u@example.com", PasswordHash: "h"})
	require.NoError(t, err)
	buy, err := models.ParseDate("2024-06-01")
	require.NoError(t, err)
	_, err = store.CreateTransaction(ctx, models.Transaction{
		UserID: user.ID, Source: "s", UserOrMerchant: "m", Product: "p", TotalPrice: 1, BuyDate: buy,
	})
	require.NoError(t, err)
	store.Close()

	reopened, err := NewStore(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	items, err := reopened.ListTransactions(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "2024-06-01", items[0].BuyDate.String())
}

func TestForeignKeysOnEveryConnection(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(ctx, filepath.Join(t.TempDir(), "sellora.db"))
	require.NoError(t, err)
	defer store.Close()

	// drop idle connections so each statement runs on a fresh one
	store.db.SetMaxIdleConns(0)

	var enabled int
	require.NoError(t, store.db.GetContext(ctx, &enabled, `PRAGMA foreign_keys`))
	assert.Equal(t, 1, enabled)

	buy, err := models.ParseDate("2024-06-01")
	require.NoError(t, err)
	_, err = store.CreateTransaction(ctx, models.Transaction{
		UserID: 999, Source: "s", UserOrMerchant: "m", Product: "p", TotalPrice: 1, BuyDate: buy,
	})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDataSource(t *testing.T) {
	assert.Equal(t, ":memory:?_pragma=foreign_keys(1)", dataSource(":memory:"))
	assert.Equal(t, "file:x.db?mode=rwc&_pragma=foreign_keys(1)", dataSource("file:x.db?mode=rwc"))
}
