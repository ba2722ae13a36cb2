package protocols

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BatikanHyt/ordertrack/pkg/order"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPendingRequest(t *testing.T) {
	dir := t.TempDir()
	p, err := NewPendingRequest(dir, order.Order{Name: "apples", Quantity: 500})
	require.NoError(t, err)
	defer p.finalize(false)

	assert.Equal(t, "apples=500", p.Body)
	assert.Equal(t, dir, filepath.Dir(p.Path()))
	base := filepath.Base(p.Path())
	assert.True(t, strings.HasPrefix(base, "order_") && strings.HasSuffix(base, ".json"), base)
	assert.FileExists(t, p.Path())
}

func TestPendingRequestsGetDistinctFiles(t *testing.T) {
	dir := t.TempDir()
	o := order.Order{Name: "apples", Quantity: 1}
	a, err := NewPendingRequest(dir, o)
	require.NoError(t, err)
	b, err := NewPendingRequest(dir, o)
	require.NoError(t, err)

	assert.NotEqual(t, a.Path(), b.Path())
	assert.NoError(t, a.finalize(false))
	assert.NoError(t, b.finalize(false))
}

func TestNewPendingRequestMissingDir(t *testing.T) {
	_, err := NewPendingRequest(filepath.Join(t.TempDir(), "missing"), order.Order{Name: "apples"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrScratchAlloc))
	assert.Contains(t, err.Error(), "apples")
}

func TestFinalizeRejectedRemovesFile(t *testing.T) {
	p, err := NewPendingRequest(t.TempDir(), order.Order{Name: "apples"})
	require.NoError(t, err)
	_, err = p.Write([]byte("partial"))
	require.NoError(t, err)

	require.NoError(t, p.finalize(false))
	assert.NoFileExists(t, p.Path())
	// finalizing twice is harmless
	assert.NoError(t, p.finalize(false))
}

func TestFinalizeMergedKeepsFile(t *testing.T) {
	p, err := NewPendingRequest(t.TempDir(), order.Order{Name: "apples"})
	require.NoError(t, err)
	_, err = p.Write([]byte(`{"ok":true}`))
	require.NoError(t, err)

	require.NoError(t, p.finalize(true))
	data, err := os.ReadFile(p.Path())
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(data))

	_, err = p.Write([]byte("late"))
	assert.Error(t, err)
}
