package parser

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/savari-labs/go-transit/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "network.json")

	initial, err := DecodeNetworkFeed(valid_feed())
	require.NoError(t, err)
	store := graph.NewStore(initial)

	w := &Watcher{
		path:  path,
		store: store,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	var swapped int64
	w.OnSwap = func(version int64) { swapped = version }

	data := `{
		"nodes": [
			{"id": "A", "lon": 77.200, "lat": 28.600},
			{"id": "B", "lon": 77.210, "lat": 28.605}
		],
		"edges": [
			{"id": "AB", "from": "A", "to": "B", "mode": "bus", "travel_seconds": 600}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	w.reload()

	g, version := store.Snapshot()
	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, int64(2), version)
	assert.Equal(t, version, swapped)

	// a broken feed must not displace the active snapshot
	require.NoError(t, os.WriteFile(path, []byte(`{"nodes": [{"id": ""}]}`), 0644))
	w.reload()

	g, version = store.Snapshot()
	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, int64(2), version)
}
