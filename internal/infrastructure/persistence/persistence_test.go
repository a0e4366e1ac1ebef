package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookreview/internal/infrastructure/config"
)

func TestNewRepositories_Memory(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: config.StorageMemory}}

	repos, closeFn, err := NewRepositories(context.Background(), cfg)
	require.NoError(t, err)
	assert.NotNil(t, repos.Books)
	assert.NotNil(t, repos.Reviews)
	assert.NotNil(t, repos.Users)
	assert.NoError(t, closeFn(context.Background()))
}

func TestNewRepositories_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: "sqlite"}}

	_, _, err := NewRepositories(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNewSessionStore_RedisDisabled(t *testing.T) {
	cfg := &config.Config{Redis: config.RedisConfig{Enabled: false}}

	store, closeFn, err := NewSessionStore(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, store)
	assert.NoError(t, closeFn(context.Background()))
}
