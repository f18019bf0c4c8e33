package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.Equal(t, "sqlite", cfg.Store.Type)
	assert.Equal(t, "inventories", cfg.Store.InventoryTable)
	assert.Equal(t, "users", cfg.Store.UsersTable)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddress())
	assert.True(t, cfg.Reminders.CancelOnDelete)
	assert.Equal(t, 30*time.Second, cfg.Reminders.PollInterval)
	assert.Equal(t, 24*time.Hour, cfg.Reminders.SummaryInterval)
	assert.True(t, cfg.App.IsDevelopment())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_TYPE", "mongodb")
	t.Setenv("DYNAMODB_TABLE", "pantry")
	t.Setenv("REMINDER_CANCEL_ON_DELETE", "false")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "mongodb", cfg.Store.Type)
	assert.Equal(t, "pantry", cfg.Store.InventoryTable)
	assert.False(t, cfg.Reminders.CancelOnDelete)
	assert.False(t, cfg.App.IsDevelopment())
}

func TestUsersDBConfig_DSN(t *testing.T) {
	cfg := UsersDBConfig{
		Host: "db.internal", Port: 3306, Name: "wastenot",
		User: "app", Password: "secret",
	}
	assert.Equal(t, "app:secret@tcp(db.internal:3306)/wastenot?parseTime=true", cfg.DSN())
}
