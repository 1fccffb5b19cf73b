package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kutama/igv/internal/prefs"
)

func runPrefs(t *testing.T, path string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--prefs", path, "prefs"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestPrefsSetGetUnset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")

	out, err := runPrefs(t, path, "set", prefs.KeySamHiddenTags, "SA, MD")
	require.NoError(t, err)
	assert.Equal(t, "sam.hidden_tags = SA,MD,\n", out)

	out, err = runPrefs(t, path, "get", prefs.KeySamHiddenTags)
	require.NoError(t, err)
	assert.Equal(t, "SA,MD,\n", out)

	out, err = runPrefs(t, path, "unset", prefs.KeySamHiddenTags)
	require.NoError(t, err)
	assert.Equal(t, "sam.hidden_tags = SA,MD,XA,RG, (default)\n", out)
}

func TestPrefsSetValidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")

	tests := []struct {
		key, value string
		wantErr    string
		want       string
	}{
		{key: prefs.KeySamSamplingWindow, value: "0", wantErr: "Down-sampling window must be a positive integer."},
		{key: prefs.KeyMaxSequenceResolution, value: "10000.5", wantErr: "between 1 and 10000"},
		{key: prefs.KeyProxyType, value: "socks", want: prefs.ProxySOCKS},
		{key: prefs.KeyProxyType, value: "ftp", wantErr: "not an option"},
		{key: prefs.KeyBackgroundColor, value: "#ff0000", want: "255,0,0"},
		{key: prefs.KeyDBPort, value: "none", want: "-1"},
		{key: "custom.key", value: " anything ", want: "anything"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			_, err := runPrefs(t, path, "set", tt.key, tt.value)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			store, err := prefs.Open(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, store.Get(tt.key))
		})
	}
}

func TestPrefsList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	_, err := runPrefs(t, path, "set", prefs.KeyTrackHeight, "30")
	require.NoError(t, err)
	_, err = runPrefs(t, path, "set", prefs.KeyPortNumber, "60152")
	require.NoError(t, err)

	out, err := runPrefs(t, path, "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "port.number           60152", lines[0])
	assert.Equal(t, "track.default_height  30", lines[1])

	out, err = runPrefs(t, path, "list", "--all")
	require.NoError(t, err)
	assert.Greater(t, strings.Count(out, "\n"), 50)
	assert.Contains(t, out, "sam.hidden_tags")
}

func TestPrefsClearProxy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	store, err := prefs.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.PutAll([]prefs.Change{
		{Key: prefs.KeyUseProxy, Value: "true"},
		{Key: prefs.KeyProxyHost, Value: "proxy"},
		{Key: prefs.KeyTrackHeight, Value: "30"},
	}))

	out, err := runPrefs(t, path, "clear-proxy")
	require.NoError(t, err)
	assert.Equal(t, "Proxy settings cleared\n", out)

	reopened, err := prefs.Open(path)
	require.NoError(t, err)
	assert.Equal(t, []string{prefs.KeyTrackHeight}, reopened.Keys())
}
