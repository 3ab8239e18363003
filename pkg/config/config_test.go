package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t")
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "Asia/Ho_Chi_Minh", cfg.App.Timezone)
	assert.Equal(t, 60, cfg.JWT.Expiration)
	assert.Equal(t, 7*24*60, cfg.JWT.RefreshExpiration)
	assert.Equal(t, "s3cr3t", cfg.JWT.RefreshSecret, "sin JWT_REFRESH_SECRET se reutiliza el secreto de acceso")
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_EnvTienePrioridad(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("DB_PORT", "no-es-numero")
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 5432, cfg.DB.Port)
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "pos", Password: "p@ss:w/rd", DBName: "pos", SSLMode: "disable"}
	assert.Equal(t, "postgres://pos:p%40ss%3Aw%2Frd@db:5432/pos?sslmode=disable", c.ConnectionString())
}
