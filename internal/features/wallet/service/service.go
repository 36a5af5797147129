package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"

	apperrors "line-assistant-backend/internal/common/errors"
	"line-assistant-backend/internal/common/logger"
	"line-assistant-backend/internal/features/wallet/models"
	"line-assistant-backend/internal/features/wallet/repository"
	"line-assistant-backend/internal/platform/metrics"
)

// WalletService issues and looks up custodial key pairs.
type WalletService interface {
	// CreateWallet generates a fresh secp256k1 key pair for the user and
	// persists it. It is not idempotent: a second call for the same user
	// fails with ErrCodeWalletExists and never touches the stored pair.
	CreateWallet(ctx context.Context, userID string) (*models.Wallet, error)
	// GetWallet is a pure lookup; ErrCodeWalletNotFound when absent.
	GetWallet(ctx context.Context, userID string) (*models.Wallet, error)
}

type walletService struct {
	repo repository.WalletRepository
}

func NewWalletService(repo repository.WalletRepository) WalletService {
	return &walletService{repo: repo}
}

func (s *walletService) CreateWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	// go-ethereum's GenerateKey draws from crypto/rand, which is the only
	// acceptable randomness source for a private key.
	priv, err := crypto.GenerateKey()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeKeyGeneration, "Failed to generate key pair")
	}

	wallet := &models.Wallet{
		Address:    crypto.PubkeyToAddress(priv.PublicKey).Hex(),
		PrivateKey: fmt.Sprintf("%064x", crypto.FromECDSA(priv)),
	}

	if err := s.repo.Insert(ctx, userID, wallet); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			// A concurrent or earlier create won; the freshly generated
			// key is discarded and never observed by anyone.
			return nil, apperrors.NewWalletExistsError(userID)
		}
		return nil, apperrors.NewStorageError("insert", err).WithContext("user_id", userID)
	}

	metrics.WalletsCreated.Inc()
	logger.Info().
		Str("user_id", userID).
		Str("address", wallet.Address).
		Msg("Wallet created")

	return wallet, nil
}

func (s *walletService) GetWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	w, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeWalletNotFound, "No wallet for this user yet").
				WithContext("user_id", userID)
		}
		return nil, apperrors.NewStorageError("get", err).WithContext("user_id", userID)
	}
	return w, nil
}
