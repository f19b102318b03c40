package container

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"dogceo/browser/internal/config"
	"dogceo/browser/internal/domain"
	"dogceo/browser/internal/selection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0, ShutdownTimeout: 1},
		DogAPI: config.DogAPIConfig{BaseURL: baseURL, Timeout: 2},
		Storage: config.StorageConfig{
			Session:    config.SessionStorageConfig{Driver: config.DriverMemory},
			Persistent: config.PersistentStorageConfig{Driver: config.DriverBolt, Path: filepath.Join(t.TempDir(), "dogbrowser.db")},
		},
	}
}

func TestNewWiresBothKinds(t *testing.T) {
	ctx := context.Background()
	app, err := New(ctx, testConfig(t, "http://127.0.0.1:1/api"))
	require.NoError(t, err)
	defer app.Close()

	assert.True(t, app.Store.IsAvailable(ctx, selection.SessionScoped))
	assert.True(t, app.Store.IsAvailable(ctx, selection.Persistent))
	assert.Equal(t, selection.SessionScoped, app.WebService.Kind())
	assert.Equal(t, selection.Persistent, app.CLIService.Kind())
}

func TestDisabledDriversAreUnavailable(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, "http://127.0.0.1:1/api")
	cfg.Storage.Session.Driver = config.DriverNone
	cfg.Storage.Persistent.Driver = config.DriverNone

	app, err := New(ctx, cfg)
	require.NoError(t, err)
	defer app.Close()

	assert.False(t, app.Store.IsAvailable(ctx, selection.SessionScoped))
	assert.False(t, app.Store.IsAvailable(ctx, selection.Persistent))
	assert.ErrorContains(t, app.CLIService.SelectBreed(ctx, CLIProfile, "akita"), "could not be saved")
}

func TestCLIHandOffSurvivesRestart(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/breed/akita/images" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"status":"success","message":["url1"]}`))
	}))
	defer upstream.Close()

	ctx := context.Background()
	cfg := testConfig(t, upstream.URL+"/api")

	app, err := New(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, app.CLIService.SelectBreed(ctx, CLIProfile, "akita"))
	require.NoError(t, app.Close())

	app, err = New(ctx, cfg)
	require.NoError(t, err)
	defer app.Close()

	gallery, err := app.CLIService.LoadGallery(ctx, CLIProfile)
	require.NoError(t, err)
	assert.Equal(t, domain.ImageList{"url1"}, gallery.Images)
}

func TestRunStopsOnCancel(t *testing.T) {
	app, err := New(context.Background(), testConfig(t, "http://127.0.0.1:1/api"))
	require.NoError(t, err)
	defer app.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestProbeURL(t *testing.T) {
	assert.Equal(t, "https://dog.ceo/api/breeds/image/random", probeURL("https://dog.ceo/api/"))
}
