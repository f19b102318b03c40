package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeDogAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/breeds/list/all", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","message":{"hound":["afghan","basset"],"akita":[]}}`))
	})
	mux.HandleFunc("/api/breed/hound/images", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","message":["https://images.dog.ceo/breeds/hound-afghan/1.jpg"]}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	closeApp()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	upstream := fakeDogAPI(t)
	t.Chdir(t.TempDir())
	t.Setenv("DOGAPI_BASE_URL", upstream.URL+"/api/")
	t.Setenv("STORAGE_PERSISTENT_PATH", filepath.Join(t.TempDir(), "cli.db"))
	t.Setenv("LOGGING_LEVEL", "error")

	t.Run("breeds", func(t *testing.T) {
		out, err := execute(t, "breeds")
		require.NoError(t, err)
		assert.Equal(t, "a\n  akita\nh\n  hound (2 sub-breeds)\n", out)
	})

	t.Run("pictures without selection", func(t *testing.T) {
		_, err := execute(t, "pictures")
		assert.ErrorContains(t, err, "dogbrowser select")
	})

	t.Run("select then pictures", func(t *testing.T) {
		out, err := execute(t, "select", "Hound")
		require.NoError(t, err)
		assert.Equal(t, "Selected hound\n", out)

		out, err = execute(t, "pictures")
		require.NoError(t, err)
		assert.Contains(t, out, "https://images.dog.ceo/breeds/hound-afghan/1.jpg")
	})

	t.Run("clear", func(t *testing.T) {
		_, err := execute(t, "clear")
		require.NoError(t, err)

		_, err = execute(t, "pictures")
		assert.Error(t, err)
	})
}
