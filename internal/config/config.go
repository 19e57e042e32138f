package config

import (
	"context"
	"errors"
	"log"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

var ErrInvalidFactory = errors.New("FACTORY_ADDRESS is not a valid address")

type Config struct {
	RPCURL         string `env:"RPC_URL,default=http://localhost:8545"`
	RPCWSURL       string `env:"RPC_WS_URL,default=ws://localhost:8545"`
	ChainID        int64  `env:"CHAIN_ID"`
	FactoryAddress string `env:"FACTORY_ADDRESS,required"`
	EventWindow    uint64 `env:"EVENT_WINDOW,default=900000"`
	FilterRate     uint64 `env:"FILTER_RATE,default=10000"`
	SyncRate       int    `env:"SYNC_RATE,default=5"`
	APIKEY         string `env:"API_KEY"`
	SignerKey      string `env:"SIGNER_KEY"`
	SentryURL      string `env:"SENTRY_URL"`
	DiscordURL     string `env:"DISCORD_URL"`
	DBURL          string `env:"DB_URL"`
	Port           int    `env:"PORT,default=3000"`
}

// New loads envpath when given, then reads the environment.
func New(ctx context.Context, envpath string) (*Config, error) {
	if envpath != "" {
		log.Default().Println("loading env from file: ", envpath)
		err := godotenv.Load(envpath)
		if err != nil {
			return nil, err
		}
	}

	return FromLookuper(ctx, envconfig.OsLookuper())
}

// FromLookuper reads the config from l and validates it.
func FromLookuper(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	cfg := &Config{}
	err := envconfig.ProcessWith(ctx, cfg, l)
	if err != nil {
		return nil, err
	}

	if !common.IsHexAddress(cfg.FactoryAddress) {
		return nil, ErrInvalidFactory
	}

	return cfg, nil
}

func (c *Config) Factory() common.Address {
	return common.HexToAddress(c.FactoryAddress)
}
