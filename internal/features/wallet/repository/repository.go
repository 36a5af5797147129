package repository

import (
	"context"
	"errors"

	"line-assistant-backend/internal/features/wallet/models"
)

// Custom errors for wallet repositories
var (
	ErrAlreadyExists = errors.New("wallet already exists")
	ErrNotFound      = errors.New("wallet not found")
)

// WalletRepository persists at most one key pair per LINE user ID. Insert is
// the only mutation: concurrent inserts for the same user must resolve to a
// single winner, every loser observing ErrAlreadyExists and never a partial
// record. Any other failure is a storage fault and surfaces as-is.
type WalletRepository interface {
	Insert(ctx context.Context, userID string, wallet *models.Wallet) error
	GetByUserID(ctx context.Context, userID string) (*models.Wallet, error)
}
