// Package file stores one JSON document per user under a data directory.
// Records survive restarts; O_EXCL file creation is the atomic insert that
// decides the winner between concurrent creates for the same user.
package file

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"line-assistant-backend/internal/features/wallet/models"
	"line-assistant-backend/internal/features/wallet/repository"
)

type walletRepository struct {
	dir string
	// Serializes reads against in-flight writes within this process. Cross
	// process exclusivity comes from O_EXCL on the record file itself.
	mu sync.RWMutex
}

func NewWalletRepository(dir string) (repository.WalletRepository, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create wallet dir: %w", err)
	}
	return &walletRepository{dir: dir}, nil
}

// recordPath maps a user ID to a file name. User IDs are opaque platform
// strings, so they are encoded rather than trusted as path components.
func (r *walletRepository) recordPath(userID string) string {
	name := base64.RawURLEncoding.EncodeToString([]byte(userID))
	return filepath.Join(r.dir, name+".json")
}

func (r *walletRepository) Insert(ctx context.Context, userID string, wallet *models.Wallet) error {
	data, err := json.Marshal(wallet)
	if err != nil {
		return fmt.Errorf("marshal wallet: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.recordPath(userID), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return repository.ErrAlreadyExists
		}
		return fmt.Errorf("create wallet record: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		// A half-written record must not shadow a future create.
		os.Remove(r.recordPath(userID))
		return fmt.Errorf("write wallet record: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(r.recordPath(userID))
		return fmt.Errorf("sync wallet record: %w", err)
	}
	return f.Close()
}

func (r *walletRepository) GetByUserID(ctx context.Context, userID string) (*models.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(r.recordPath(userID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("read wallet record: %w", err)
	}

	var w models.Wallet
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode wallet record: %w", err)
	}
	return &w, nil
}
