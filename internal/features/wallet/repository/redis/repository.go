// Package redis backs custody records with redis. SetNX is the atomic
// compare-and-insert: the first create for a user wins, later ones observe
// ErrAlreadyExists. Durability follows the redis persistence configuration
// of the deployment.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"line-assistant-backend/internal/features/wallet/models"
	"line-assistant-backend/internal/features/wallet/repository"
)

type walletRepository struct {
	client *redis.Client
}

func NewWalletRepository(client *redis.Client) repository.WalletRepository {
	return &walletRepository{client: client}
}

func (r *walletRepository) key(userID string) string {
	return fmt.Sprintf("wallet:%s", userID)
}

func (r *walletRepository) Insert(ctx context.Context, userID string, wallet *models.Wallet) error {
	data, err := json.Marshal(wallet)
	if err != nil {
		return fmt.Errorf("marshal wallet: %w", err)
	}

	// Records never expire: the key pair is custodial and never deleted.
	ok, err := r.client.SetNX(ctx, r.key(userID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("setnx wallet record: %w", err)
	}
	if !ok {
		return repository.ErrAlreadyExists
	}
	return nil
}

func (r *walletRepository) GetByUserID(ctx context.Context, userID string) (*models.Wallet, error) {
	data, err := r.client.Get(ctx, r.key(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get wallet record: %w", err)
	}

	var w models.Wallet
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode wallet record: %w", err)
	}
	return &w, nil
}
