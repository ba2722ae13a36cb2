package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/BatikanHyt/ordertrack/pkg/config"
	"github.com/BatikanHyt/ordertrack/pkg/ledger"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ackServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		for item, qty := range r.PostForm {
			if qty[0] == "0" {
				w.WriteHeader(http.StatusUnprocessableEntity)
				return
			}
			fmt.Fprintf(w, `{"item":%q,"quantity":%s}`, item, qty[0])
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func quietConfig(t *testing.T, url string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Target.URL = url
	cfg.Ledger.Path = filepath.Join(dir, "orderTracking.json")
	cfg.Ledger.ScratchDir = dir
	cfg.Log.ToStdout = false
	return cfg
}

func readEntries(t *testing.T, path string) []map[string]interface{} {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entries []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &entries))
	return entries
}

func TestRunBatch(t *testing.T) {
	srv := ackServer(t)
	cfg := quietConfig(t, srv.URL)
	cfg.Orders = map[string]int{"apples": 500, "oranges": 0, "bananas": 750}
	cfg.Concurrency = 2

	require.NoError(t, runBatch(context.Background(), cfg))

	entries := readEntries(t, cfg.Ledger.Path)
	var items []string
	for _, e := range entries {
		items = append(items, e["item"].(string))
	}
	assert.ElementsMatch(t, []string{"apples", "bananas"}, items)

	left, err := filepath.Glob(filepath.Join(cfg.Ledger.ScratchDir, "order_*.json"))
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestRunBatchInvalidConfig(t *testing.T) {
	cfg := quietConfig(t, "http://127.0.0.1:1")
	cfg.Orders = map[string]int{"apples": -5}

	assert.Error(t, runBatch(context.Background(), cfg))
	assert.NoFileExists(t, cfg.Ledger.Path)
}

func TestRunBatchLedgerInitFailure(t *testing.T) {
	cfg := quietConfig(t, "http://127.0.0.1:1")
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	cfg.Ledger.Path = filepath.Join(blocker, "orderTracking.json")

	err := runBatch(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ledger.ErrInit))
}

func TestRunBatchRejectionsDoNotFail(t *testing.T) {
	srv := ackServer(t)
	cfg := quietConfig(t, srv.URL)
	cfg.Orders = map[string]int{"oranges": 0}

	require.NoError(t, runBatch(context.Background(), cfg))
	data, err := os.ReadFile(cfg.Ledger.Path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestPostCommand(t *testing.T) {
	srv := ackServer(t)
	dir := t.TempDir()
	ledgerPath := filepath.Join(dir, "orders.json")

	rootCmd.SetArgs([]string{"post", srv.URL,
		"--order", "apples=500",
		"--ledger", ledgerPath,
		"--scratch_dir", dir,
		"--log_level", "error",
	})
	require.NoError(t, rootCmd.Execute())

	entries := readEntries(t, ledgerPath)
	require.Len(t, entries, 1)
	assert.Equal(t, "apples", entries[0]["item"])
}

func TestValidatePostArgs(t *testing.T) {
	assert.Error(t, validatePostArgs(postCmd, nil))

	postArgs.Target.Version = "3"
	assert.Error(t, validatePostArgs(postCmd, []string{"http://localhost"}))

	postArgs.Target.Version = "2"
	assert.NoError(t, validatePostArgs(postCmd, []string{"http://localhost"}))
	postArgs.Target.Version = "1.1"
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ordertrack.yaml")

	require.NoError(t, writeDefaultConfig(path, false))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	assert.Error(t, writeDefaultConfig(path, false))
	assert.NoError(t, writeDefaultConfig(path, true))
}
