package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, 1024, cfg.WebSocket.ReadBufferSize)
	require.NotEmpty(t, cfg.Database.URL)

	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		Server:   ServerConfig{Port: "8080"},
		Database: DatabaseConfig{URL: "postgres://localhost/marketplace"},
		Redis:    RedisConfig{Addr: "localhost:6379"},
	}
	require.NoError(t, valid.Validate())

	noPort := valid
	noPort.Server.Port = ""
	require.Error(t, noPort.Validate())

	noDB := valid
	noDB.Database.URL = ""
	require.Error(t, noDB.Validate())

	noRedis := valid
	noRedis.Redis.Addr = ""
	require.Error(t, noRedis.Validate())
}
