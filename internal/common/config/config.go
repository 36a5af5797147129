package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Storage backing modes for the custody store. The mode is an explicit
// deployment choice: memory is ephemeral, file and redis survive restarts.
const (
	WalletStorageMemory = "memory"
	WalletStorageFile   = "file"
	WalletStorageRedis  = "redis"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"*"`
	}

	Line struct {
		ChannelSecret string `env:"LINE_CHANNEL_SECRET,required"`
		ChannelToken  string `env:"LINE_CHANNEL_ACCESS_TOKEN,required"`
		BasicID       string `env:"LINE_BASIC_ID" envDefault:""`
		APIBaseURL    string `env:"LINE_API_BASE_URL" envDefault:"https://api.line.me"`
	}

	Wallet struct {
		// Storage selects the custody backing: memory, file or redis.
		// File is the default: private keys are not regenerable, so the
		// default backing must not lose them on restart.
		Storage string `env:"WALLET_STORAGE" envDefault:"file"`
		Path    string `env:"WALLET_STORAGE_PATH" envDefault:"./data/wallets"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`

		ProfileTTLSec int `env:"PROFILE_CACHE_TTL_SEC" envDefault:"3600"`
	}
}

func Load() (*Config, error) {
	// Missing .env is fine: in production the variables are set directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	switch cfg.Wallet.Storage {
	case WalletStorageMemory, WalletStorageFile, WalletStorageRedis:
	default:
		return nil, fmt.Errorf("invalid WALLET_STORAGE %q: expected memory, file or redis", cfg.Wallet.Storage)
	}

	return cfg, nil
}
