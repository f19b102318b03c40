package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults without a config file", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, "https://dog.ceo/api/", cfg.DogAPI.BaseURL)
		assert.Equal(t, 15, cfg.DogAPI.Timeout)
		assert.Equal(t, DriverMemory, cfg.Storage.Session.Driver)
		assert.Equal(t, DriverBolt, cfg.Storage.Persistent.Driver)
		assert.Equal(t, "localhost:8080", cfg.Server.Addr())
		assert.Equal(t, "info", cfg.Logging.Level)
	})

	t.Run("file values and env overrides", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dogbrowser.yaml")
		yaml := `
server:
  port: 9090
dogapi:
  base_url: http://localhost:1234/api
  proxies:
    - http://proxy-a:3128
storage:
  session:
    driver: redis
    ttl: 60
`
		require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))
		t.Setenv("STORAGE_PERSISTENT_DRIVER", "postgres")

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "http://localhost:1234/api", cfg.DogAPI.BaseURL)
		assert.Equal(t, []string{"http://proxy-a:3128"}, cfg.DogAPI.Proxies)
		assert.Equal(t, DriverRedis, cfg.Storage.Session.Driver)
		assert.Equal(t, 60, cfg.Storage.Session.TTL)
		assert.Equal(t, DriverPostgres, cfg.Storage.Persistent.Driver)
	})

	t.Run("explicit missing file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("STORAGE_SESSION_DRIVER", "cookies")

		_, err := Load("")
		assert.ErrorContains(t, err, "storage.session.driver")
	})
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, Name: "dogs", User: "u", Password: "p"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=dogs sslmode=disable", d.DSN())
}
