package config

import (
	"context"
	"testing"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/require"
)

func TestFromLookuper(t *testing.T) {
	cfg, err := FromLookuper(context.Background(), envconfig.MapLookuper(map[string]string{
		"FACTORY_ADDRESS": "0x00000000000000000000000000000000000000f0",
		"SYNC_RATE":       "2",
	}))
	require.NoError(t, err)

	require.Equal(t, "http://localhost:8545", cfg.RPCURL)
	require.Equal(t, uint64(900000), cfg.EventWindow)
	require.Equal(t, uint64(10000), cfg.FilterRate)
	require.Equal(t, 2, cfg.SyncRate)
	require.Equal(t, 3000, cfg.Port)
	require.Equal(t, "0x00000000000000000000000000000000000000F0", cfg.Factory().Hex())
}

func TestFromLookuperInvalid(t *testing.T) {
	_, err := FromLookuper(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.Error(t, err)

	_, err = FromLookuper(context.Background(), envconfig.MapLookuper(map[string]string{
		"FACTORY_ADDRESS": "factory",
	}))
	require.ErrorIs(t, err, ErrInvalidFactory)
}
