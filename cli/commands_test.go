package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kutama/igv/internal/prefs"
)

func newBatchViewer(t *testing.T) *Viewer {
	t.Helper()
	store, err := prefs.Open(filepath.Join(t.TempDir(), "prefs.yaml"))
	require.NoError(t, err)
	return &Viewer{store: store, probes: make(map[string][]string)}
}

func TestBatchCommands(t *testing.T) {
	v := newBatchViewer(t)
	h := newBatchHandler(v)
	ctx := context.Background()

	tests := []struct {
		name string
		cmd  string
		want string
	}{
		{"echo", "echo", "echo"},
		{"echo ignores case", "ECHO", "echo"},
		{"get default", "preference port.number", "60151"},
		{"set", "preference track.default_height 30", "OK"},
		{"get after set", "preference track.default_height", "30"},
		{"set canonicalizes", "preference sam.hidden_tags SA MD SA", "OK"},
		{"canonical value", "preference sam.hidden_tags", "SA,MD,"},
		{"set rejects", "preference sam.sampling_window -5", "ERROR: Down-sampling window must be a positive integer."},
		{"missing key", "preference", "ERROR: usage: preference <key> [value]"},
		{"unknown", "goto chr1", `ERROR: unknown command "goto"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, h.Execute(ctx, tt.cmd))
		})
	}
	assert.Equal(t, "30", v.store.Get(prefs.KeyTrackHeight))
}

func TestBatchProbeLookup(t *testing.T) {
	v := newBatchViewer(t)
	h := newBatchHandler(v)
	ctx := context.Background()

	assert.Equal(t, "ERROR: probe mapping is disabled", h.Execute(ctx, "probe 1007_s_at"))

	path := filepath.Join(t.TempDir(), "probes.tab")
	require.NoError(t, os.WriteFile(path, []byte("# probe\tgenes\n1007_s_at\tDDR1, MIR4640\n1053_at\tRFC2\nbroken line\n"), 0644))
	require.NoError(t, v.store.PutAll([]prefs.Change{
		{Key: prefs.KeyProbeMapToGenes, Value: "true"},
		{Key: prefs.KeyProbeUseFile, Value: "true"},
		{Key: prefs.KeyProbeFile, Value: path},
	}))

	assert.Equal(t, "DDR1,MIR4640", h.Execute(ctx, "probe 1007_S_AT"))
	assert.Equal(t, "RFC2", h.Execute(ctx, "probe 1053_at"))
	assert.Equal(t, "ERROR: probe 117_at not mapped", h.Execute(ctx, "probe 117_at"))

	// Cached until cleared
	require.NoError(t, os.WriteFile(path, []byte("1053_at\tRFC3\n"), 0644))
	assert.Equal(t, "RFC2", h.Execute(ctx, "probe 1053_at"))

	v.mu.Lock()
	v.probes = make(map[string][]string)
	v.mu.Unlock()
	assert.Equal(t, "RFC3", h.Execute(ctx, "probe 1053_at"))
}
