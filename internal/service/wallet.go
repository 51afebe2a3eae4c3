// Package service provides business logic implementations.
package service

import (
	"context"
	"errors"
	"fmt"

	"blobby-bot/internal/model"
	"blobby-bot/internal/pkg/lock"
	"blobby-bot/internal/store"
)

// Common errors for wallet operations.
var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be positive")
)

// WalletService owns the per-user coin balance blob. New wallets start
// at the initial balance on first access.
type WalletService struct {
	store store.Store
	locks *lock.UserLock
}

// NewWalletService creates a new WalletService instance.
func NewWalletService(st store.Store) *WalletService {
	return &WalletService{
		store: st,
		locks: lock.NewUserLock(),
	}
}

// load returns the user's wallet, creating it with the initial balance
// when absent. Returns the wallet and whether it was newly created.
func (s *WalletService) load(ctx context.Context, userID int64) (*model.Wallet, bool, error) {
	wallet := &model.Wallet{}
	ok, err := s.store.Load(ctx, store.WalletKey(userID), wallet)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load wallet: %w", err)
	}
	if ok {
		return wallet, false, nil
	}

	wallet = &model.Wallet{Balance: model.InitialBalance}
	if err := s.save(ctx, userID, wallet); err != nil {
		return nil, false, err
	}
	return wallet, true, nil
}

// save writes the wallet blob back to the store.
func (s *WalletService) save(ctx context.Context, userID int64, wallet *model.Wallet) error {
	if err := s.store.Save(ctx, store.WalletKey(userID), wallet); err != nil {
		return fmt.Errorf("failed to save wallet: %w", err)
	}
	return nil
}

// EnsureWallet makes sure the user has a wallet, creating one with the
// initial balance if necessary. Returns the wallet and whether it was
// newly created.
func (s *WalletService) EnsureWallet(ctx context.Context, userID int64) (*model.Wallet, bool, error) {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)
	return s.load(ctx, userID)
}

// Balance retrieves the user's current coin balance.
func (s *WalletService) Balance(ctx context.Context, userID int64) (int64, error) {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	wallet, _, err := s.load(ctx, userID)
	if err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}

// Credit adds coins to the user's balance and returns the new balance.
func (s *WalletService) Credit(ctx context.Context, userID int64, amount int64) (int64, error) {
	if amount < 0 {
		return 0, ErrInvalidAmount
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	wallet, _, err := s.load(ctx, userID)
	if err != nil {
		return 0, err
	}

	wallet.Balance += amount
	if err := s.save(ctx, userID, wallet); err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}

// Debit removes coins from the user's balance and returns the new
// balance. Fails with ErrInsufficientBalance without mutation when the
// balance does not cover the amount.
func (s *WalletService) Debit(ctx context.Context, userID int64, amount int64) (int64, error) {
	if amount < 0 {
		return 0, ErrInvalidAmount
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	wallet, _, err := s.load(ctx, userID)
	if err != nil {
		return 0, err
	}

	if wallet.Balance < amount {
		return wallet.Balance, ErrInsufficientBalance
	}

	wallet.Balance -= amount
	if err := s.save(ctx, userID, wallet); err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}

// Apply adjusts the balance by a signed delta (game settlement), never
// below zero.
func (s *WalletService) Apply(ctx context.Context, userID int64, delta int64) (int64, error) {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	wallet, _, err := s.load(ctx, userID)
	if err != nil {
		return 0, err
	}

	wallet.Balance += delta
	if wallet.Balance < 0 {
		wallet.Balance = 0
	}
	if err := s.save(ctx, userID, wallet); err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}
