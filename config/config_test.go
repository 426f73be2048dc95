package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_APIDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	var cfg API
	require.NoError(t, Load(&cfg))

	require.Equal(t, "localhost:8000", cfg.Addr)
	require.Equal(t, StorePostgres, cfg.Store)
	require.Equal(t, []string{
		"https://klimentsi.live",
		"https://api.klimentsi.live",
		"http://localhost",
		"http://localhost:8080",
	}, cfg.AllowedOrigins)
	require.Equal(t, Postgres{
		User:    "leopalladium",
		Host:    "db",
		Port:    "5432",
		Name:    "thoughts_db",
		SSLMode: "disable",
	}, cfg.DB)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr)
	require.Equal(t, Log{Level: "info", Format: "text"}, cfg.Log)

	require.ErrorIs(t, cfg.Validate(), ErrInvalid, "postgres store without a password")
}

func TestLoad_APIFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("API_ADDR", ":9000")
	t.Setenv("STORE", "redis")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_HOST", "pg.internal")
	t.Setenv("DB_ECHO_SQL", "True")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("LOG_LEVEL", "debug")

	var cfg API
	require.NoError(t, Load(&cfg))

	require.Equal(t, ":9000", cfg.Addr)
	require.Equal(t, StoreRedis, cfg.Store)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	require.Equal(t, "secret", cfg.DB.Password)
	require.Equal(t, "pg.internal", cfg.DB.Host)
	require.True(t, cfg.DB.EchoSQL)
	require.Equal(t, Redis{Addr: "cache:6380", DB: 2}, cfg.Redis)
	require.Equal(t, "debug", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("WEB_ADDR=:3000\nTHOUGHTBOARD_API_URL=http://localhost:8000\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("WEB_ADDR")
		os.Unsetenv("THOUGHTBOARD_API_URL")
	})

	var cfg Web
	require.NoError(t, Load(&cfg))

	require.Equal(t, ":3000", cfg.Addr)
	require.Equal(t, "http://localhost:8000", cfg.Client.APIURL)
	require.NoError(t, cfg.Client.Validate())
}

func TestLoad_EnvWinsOverDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("THOUGHTBOARD_API_URL=http://from-file\n"), 0o600))
	t.Setenv("THOUGHTBOARD_API_URL", "http://from-env")

	var cfg Client
	require.NoError(t, Load(&cfg))
	require.Equal(t, "http://from-env", cfg.APIURL)
}

func TestClient_Validate(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{url: "https://api.klimentsi.live"},
		{url: "http://localhost:8000"},
		{url: "localhost:8000", wantErr: true},
		{url: "ftp://example.com", wantErr: true},
		{url: "/relative", wantErr: true},
		{url: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := Client{APIURL: tt.url}.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalid)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestAPI_Validate(t *testing.T) {
	require.NoError(t, API{Store: StorePostgres, DB: Postgres{Password: "x"}}.Validate())
	require.ErrorIs(t, API{Store: StoreRedis}.Validate(), ErrInvalid)
	require.ErrorIs(t, API{Store: "mongo"}.Validate(), ErrInvalid)
}

func TestPostgres_DSN(t *testing.T) {
	p := Postgres{
		User:     "leopalladium",
		Password: "p@ss word",
		Host:     "db",
		Port:     "5432",
		Name:     "thoughts_db",
		SSLMode:  "disable",
	}
	require.Equal(t, "postgres://leopalladium:p%40ss%20word@db:5432/thoughts_db?sslmode=disable", p.DSN())
	require.Equal(t, "postgres://leopalladium:xxxxx@db:5432/thoughts_db?sslmode=disable", p.String())
	require.NotContains(t, p.String(), "p%40ss")

	p.Password = ""
	require.Equal(t, "postgres://leopalladium:@db:5432/thoughts_db?sslmode=disable", p.DSN())
}
