package service

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "line-assistant-backend/internal/common/errors"
	"line-assistant-backend/internal/features/wallet/models"
	"line-assistant-backend/internal/features/wallet/repository"
	"line-assistant-backend/internal/features/wallet/repository/memory"
)

var (
	addressPattern    = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	privateKeyPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)
)

// failingRepository simulates a broken storage backing.
type failingRepository struct{}

func (failingRepository) Insert(ctx context.Context, userID string, wallet *models.Wallet) error {
	return errors.New("disk on fire")
}

func (failingRepository) GetByUserID(ctx context.Context, userID string) (*models.Wallet, error) {
	return nil, errors.New("disk on fire")
}

func TestCreateWalletGeneratesValidKeyPair(t *testing.T) {
	svc := NewWalletService(memory.NewWalletRepository())

	wallet, err := svc.CreateWallet(context.Background(), "U1")
	require.NoError(t, err)

	assert.Regexp(t, addressPattern, wallet.Address)
	assert.Regexp(t, privateKeyPattern, wallet.PrivateKey)
}

func TestCreateWalletIsUniquePerUser(t *testing.T) {
	svc := NewWalletService(memory.NewWalletRepository())

	a, err := svc.CreateWallet(context.Background(), "U1")
	require.NoError(t, err)
	b, err := svc.CreateWallet(context.Background(), "U2")
	require.NoError(t, err)

	assert.NotEqual(t, a.Address, b.Address)
	assert.NotEqual(t, a.PrivateKey, b.PrivateKey)
}

func TestCreateWalletTwiceConflicts(t *testing.T) {
	svc := NewWalletService(memory.NewWalletRepository())
	ctx := context.Background()

	first, err := svc.CreateWallet(ctx, "U1")
	require.NoError(t, err)

	_, err = svc.CreateWallet(ctx, "U1")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeWalletExists, appErr.Code)

	// The stored pair is still the first one.
	got, err := svc.GetWallet(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, first.Address, got.Address)
	assert.Equal(t, first.PrivateKey, got.PrivateKey)
}

func TestGetWalletWithoutRecord(t *testing.T) {
	svc := NewWalletService(memory.NewWalletRepository())

	_, err := svc.GetWallet(context.Background(), "U1")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeWalletNotFound, appErr.Code)
	assert.True(t, appErr.IsNotFound())
}

func TestGetWalletDoesNotCreate(t *testing.T) {
	repo := memory.NewWalletRepository()
	svc := NewWalletService(repo)
	ctx := context.Background()

	_, err := svc.GetWallet(ctx, "U1")
	require.Error(t, err)

	// Still absent after the failed lookup.
	_, err = repo.GetByUserID(ctx, "U1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStorageFaultIsDistinctFromConflict(t *testing.T) {
	svc := NewWalletService(failingRepository{})

	_, err := svc.CreateWallet(context.Background(), "U1")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeStorage, appErr.Code)
	assert.True(t, appErr.IsInternal())

	_, err = svc.GetWallet(context.Background(), "U1")
	require.Error(t, err)
	appErr, ok = apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeStorage, appErr.Code)
}

func TestConcurrentCreateSingleWinner(t *testing.T) {
	svc := NewWalletService(memory.NewWalletRepository())
	ctx := context.Background()

	const attempts = 16
	var wg sync.WaitGroup
	results := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.CreateWallet(ctx, "U1")
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
			continue
		}
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeWalletExists, appErr.Code)
	}
	assert.Equal(t, 1, winners)
}
