package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blobby-bot/internal/model"
	"blobby-bot/internal/store"
)

func newTestWallet(t *testing.T) *WalletService {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewWalletService(st)
}

func TestEnsureWallet_CreatesWithInitialBalance(t *testing.T) {
	s := newTestWallet(t)
	ctx := context.Background()

	wallet, created, err := s.EnsureWallet(ctx, 1)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(model.InitialBalance), wallet.Balance)

	_, created, err = s.EnsureWallet(ctx, 1)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestCredit(t *testing.T) {
	s := newTestWallet(t)
	ctx := context.Background()

	balance, err := s.Credit(ctx, 1, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(model.InitialBalance+500), balance)

	_, err = s.Credit(ctx, 1, -1)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestDebit(t *testing.T) {
	s := newTestWallet(t)
	ctx := context.Background()

	balance, err := s.Debit(ctx, 1, 400)
	require.NoError(t, err)
	assert.Equal(t, int64(600), balance)

	// Insufficient balance fails without mutation.
	_, err = s.Debit(ctx, 1, 601)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	balance, err = s.Balance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(600), balance)

	_, err = s.Debit(ctx, 1, -1)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestApply_ClampsAtZero(t *testing.T) {
	s := newTestWallet(t)
	ctx := context.Background()

	balance, err := s.Apply(ctx, 1, 250)
	require.NoError(t, err)
	assert.Equal(t, int64(1250), balance)

	balance, err = s.Apply(ctx, 1, -5000)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestWallets_Isolated(t *testing.T) {
	s := newTestWallet(t)
	ctx := context.Background()

	_, err := s.Credit(ctx, 1, 500)
	require.NoError(t, err)

	balance, err := s.Balance(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(model.InitialBalance), balance)
}
