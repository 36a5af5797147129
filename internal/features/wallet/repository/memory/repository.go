// Package memory holds custody records in process memory. It is ephemeral:
// every record is lost on restart. Intended for development and tests only,
// and selected explicitly via WALLET_STORAGE=memory.
package memory

import (
	"context"
	"sync"

	"line-assistant-backend/internal/features/wallet/models"
	"line-assistant-backend/internal/features/wallet/repository"
)

type walletRepository struct {
	mu      sync.RWMutex
	wallets map[string]models.Wallet
}

func NewWalletRepository() repository.WalletRepository {
	return &walletRepository{
		wallets: make(map[string]models.Wallet),
	}
}

func (r *walletRepository) Insert(ctx context.Context, userID string, wallet *models.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.wallets[userID]; ok {
		return repository.ErrAlreadyExists
	}

	r.wallets[userID] = *wallet
	return nil
}

func (r *walletRepository) GetByUserID(ctx context.Context, userID string) (*models.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.wallets[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}

	out := w
	return &out, nil
}
