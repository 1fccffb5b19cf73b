package prefs

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHost struct {
	mu       sync.Mutex
	calls    []string
	messages []string
	bg       color.Color
	moveErr  error
	moveHook func(target string) error
	credErr  error
}

func (h *recordingHost) record(call string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, call)
}

func (h *recordingHost) Calls() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.calls...)
}

func (h *recordingHost) Messages() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.messages...)
}

func (h *recordingHost) Refresh()               { h.record("refresh") }
func (h *recordingHost) ResetOverlayTracks()    { h.record("overlays") }
func (h *recordingHost) ReloadProxySettings()   { h.record("proxy") }
func (h *recordingHost) UpdateTooltipSettings() { h.record("tooltips") }
func (h *recordingHost) ClearProbeMappings()    { h.record("probes") }
func (h *recordingHost) UpdateDefaultFont()     { h.record("font") }

func (h *recordingHost) EnableGoogleMenu(enabled bool) {
	if enabled {
		h.record("google-menu:on")
	} else {
		h.record("google-menu:off")
	}
}

func (h *recordingHost) UpdateCredentialSaveOption(save bool) error {
	h.record("credentials")
	return h.credErr
}

func (h *recordingHost) ClearGenomeCache() error {
	h.record("genome-cache")
	return nil
}

func (h *recordingHost) SetBackground(c color.Color) {
	h.record("background")
	h.bg = c
}

func (h *recordingHost) ShowAttributeDisplay(show bool) { h.record("attributes") }

func (h *recordingHost) ShowMessage(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, msg)
}

func (h *recordingHost) SetBusy(busy bool) {
	if busy {
		h.record("busy")
	} else {
		h.record("idle")
	}
}

func (h *recordingHost) MoveDataDirectory(target string) error {
	h.record("move:" + target)
	if h.moveHook != nil {
		return h.moveHook(target)
	}
	return h.moveErr
}

type recordingListener struct {
	events   []string
	startErr error
	port     int
}

func (l *recordingListener) Halt() {
	l.events = append(l.events, "halt")
}

func (l *recordingListener) Start(port int) error {
	l.events = append(l.events, "start")
	l.port = port
	return l.startErr
}

func newTestEditor(t *testing.T, s *Store, opts Options) (*Editor, *recordingHost, *recordingListener) {
	t.Helper()
	h := &recordingHost{}
	l := &recordingListener{}
	if opts.Host == nil {
		opts.Host = h
	}
	if opts.Listener == nil {
		opts.Listener = l
	}
	return NewEditor(s, opts), h, l
}

func snapshot(t *testing.T, s *Store) []byte {
	t.Helper()
	raw, err := os.ReadFile(s.Path())
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return raw
}

// sampleEdit returns raw input that differs from the defaults and the
// value it should be stored as. ok is false for fields without text entry.
func sampleEdit(t *testing.T, e *Editor, f Field) (raw, stored string, ok bool) {
	switch f.Kind {
	case KindColor, KindFont:
		return "", "", false
	case KindBool:
		if e.Checked(f.Key) {
			return "false", f.uncheckedValue(), true
		}
		return "true", f.checkedValue(), true
	case KindChoice:
		if f.Deferred {
			return "", "", false
		}
		for _, o := range f.Options {
			if o.Value != e.Get(f.Key) {
				return o.Label, o.Value, true
			}
		}
		return "", "", false
	}

	raw = "abc"
	switch f.Kind {
	case KindInt, KindFloat:
		raw = "7"
	case KindPath:
		raw = "/data/probes.txt"
	}
	stored = raw
	if f.Rule != nil {
		v, err := f.Rule(raw)
		require.NoError(t, err, f.Key)
		stored = v
	}
	return raw, stored, true
}

func TestEditorStagingCurrentValueIsNoop(t *testing.T) {
	s := openTestStore(t)
	e, _, _ := newTestEditor(t, s, Options{})

	for _, f := range Fields() {
		if f.Kind == KindColor || f.Kind == KindFont || f.Deferred {
			continue
		}
		t.Run(f.Key, func(t *testing.T) {
			var r Result
			switch f.Kind {
			case KindBool:
				r = e.SetChecked(f.Key, e.Checked(f.Key))
			case KindChoice:
				r = e.Choose(f.Key, e.Selected(f.Key))
			default:
				r = e.Commit(f.Key, e.Display(f.Key))
			}
			assert.NotEqual(t, Rejected, r.Outcome, "%v", r.Err)
			assert.Empty(t, e.Pending())
		})
	}
}

func TestEditorEveryFieldFlushes(t *testing.T) {
	for _, f := range Fields() {
		t.Run(f.Key, func(t *testing.T) {
			s := openTestStore(t)
			e, _, _ := newTestEditor(t, s, Options{})
			raw, stored, ok := sampleEdit(t, e, f)
			if !ok {
				t.Skip("no text entry")
			}

			r := e.Commit(f.Key, raw)
			require.Equal(t, Accepted, r.Outcome, "%v", r.Err)

			require.NoError(t, e.ledger.Flush(s))
			assert.Equal(t, stored, s.Get(f.Key))
			assert.Zero(t, e.ledger.Len())
		})
	}
}

func TestEditorCancelNeverWrites(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Put(KeyProxyHost, "before"))
	before := snapshot(t, s)

	e, h, l := newTestEditor(t, s, Options{})
	e.Commit(KeyProxyHost, "after")
	e.SetChecked(KeyUseProxy, true)
	e.Commit(KeySamHiddenTags, "NM")
	require.NoError(t, e.SetColor(KeyHomRefColor, color.RGBA{R: 1, A: 255}))
	require.NoError(t, e.SetFont("Courier", 14, true, false))
	e.ClearProxySettings()
	e.ResetServerURLs()
	e.ChooseDataDirectory(t.TempDir())
	require.NotEmpty(t, e.Pending())

	e.Cancel()

	assert.True(t, e.IsCanceled())
	assert.Empty(t, e.Pending())
	assert.Equal(t, before, snapshot(t, s))
	assert.Empty(t, h.Calls())
	assert.Empty(t, l.events)

	ok, err := e.Confirm(context.Background())
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, before, snapshot(t, s))
}

func TestEditorRejection(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Put(KeySamSamplingWindow, "64"))
	e, h, _ := newTestEditor(t, s, Options{})

	r := e.Commit(KeySamSamplingWindow, "0")
	assert.Equal(t, Rejected, r.Outcome)
	assert.Equal(t, "64", r.Display, "display reverts to the stored value")
	assert.False(t, e.Valid())
	assert.Equal(t, []string{"Down-sampling window must be a positive integer."}, h.Messages())

	var verr *ValidationError
	require.ErrorAs(t, r.Err, &verr)
	assert.Equal(t, KeySamSamplingWindow, verr.Key)

	e.Commit(KeySamSamplingWindow, "128")
	r = e.Commit(KeySamSamplingWindow, "-3")
	assert.Equal(t, "128", r.Display, "display reverts to the staged value")
}

func TestEditorConfirmWhileInvalid(t *testing.T) {
	s := openTestStore(t)
	e, h, _ := newTestEditor(t, s, Options{})
	e.Commit(KeyTrackHeight, "30")
	e.Commit(KeyMaxSequenceResolution, "10000.001")

	ok, err := e.Confirm(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, e.Valid(), "validity is reset for the next attempt")
	assert.False(t, e.Closed())
	assert.False(t, s.Has(KeyTrackHeight))
	assert.NotContains(t, h.Calls(), "refresh")

	ok, err = e.Confirm(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "30", s.Get(KeyTrackHeight))
}

func TestEditorSameResultForBothTriggers(t *testing.T) {
	// Enter and focus loss both call Commit; two editors over equal stores
	// must agree on every input.
	inputs := []string{"0", "1", "abc", "-4", " 12 ", "1e3"}
	for _, in := range inputs {
		a, _, _ := newTestEditor(t, openTestStore(t), Options{})
		b, _, _ := newTestEditor(t, openTestStore(t), Options{})
		ra := a.Commit(KeySamSamplingCount, in)
		rb := b.Commit(KeySamSamplingCount, in)
		assert.Equal(t, ra.Outcome, rb.Outcome, in)
		assert.Equal(t, ra.Display, rb.Display, in)
	}
}

func TestEditorHiddenTags(t *testing.T) {
	s := openTestStore(t)
	e, _, _ := newTestEditor(t, s, Options{})

	r := e.Commit(KeySamHiddenTags, "NM, MD ,,XS")
	assert.Equal(t, Accepted, r.Outcome)
	assert.Equal(t, "NM,MD,XS", r.Display)

	c, ok := e.ledger.Value(KeySamHiddenTags)
	require.True(t, ok)
	assert.Equal(t, "NM,MD,XS,", c.Value)
}

func TestEditorListenerRestart(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Put(KeyPortEnabled, "false"))
	e, _, l := newTestEditor(t, s, Options{})

	assert.False(t, e.Enabled(KeyPortNumber))
	e.SetChecked(KeyPortEnabled, true)
	assert.True(t, e.Enabled(KeyPortNumber))
	require.Equal(t, Accepted, e.Commit(KeyPortNumber, "60200").Outcome)

	ok, err := e.Confirm(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"halt", "start"}, l.events)
	assert.Equal(t, 60200, l.port)
}

func TestEditorListenerUsesStoredPort(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.PutAll([]Change{{Key: KeyPortEnabled, Value: "false"}, {Key: KeyPortNumber, Value: "60300"}}))
	e, h, l := newTestEditor(t, s, Options{})
	l.startErr = errors.New("address in use")

	e.SetChecked(KeyPortEnabled, true)
	ok, err := e.Confirm(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, 60300, l.port)
	require.Len(t, h.Messages(), 1)
	assert.Contains(t, h.Messages()[0], "address in use")
}

func TestEditorListenerDisabled(t *testing.T) {
	s := openTestStore(t)
	e, _, l := newTestEditor(t, s, Options{})
	e.SetChecked(KeyPortEnabled, false)

	_, err := e.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"halt"}, l.events)
}

func TestEditorProxyToggle(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.PutAll([]Change{
		{Key: KeyUseProxy, Value: "true"},
		{Key: KeyProxyHost, Value: "proxy.example.org"},
		{Key: KeyProxyPort, Value: "3128"},
	}))
	e, h, _ := newTestEditor(t, s, Options{})

	e.SetChecked(KeyUseProxy, false)
	assert.False(t, e.Enabled(KeyProxyHost))
	e.Commit(KeyProxyHost, e.Display(KeyProxyHost))
	e.Commit(KeyProxyPort, e.Display(KeyProxyPort))
	r := e.SetChecked(KeyUseProxy, true)
	e.Commit(KeyProxyHost, "proxy.example.org")
	e.Commit(KeyProxyPort, "3128")

	// re-checking matches the store, so the earlier unchecked edit stays
	// staged and the result reports what will be written
	assert.Equal(t, Unchanged, r.Outcome)
	assert.Equal(t, "false", r.Display)
	assert.False(t, e.Checked(KeyUseProxy))
	assert.Equal(t, []string{KeyUseProxy}, e.Pending())

	_, err := e.Confirm(context.Background())
	require.NoError(t, err)
	assert.Contains(t, h.Calls(), "proxy")
	assert.Equal(t, "false", s.Get(KeyUseProxy))
}

func TestEditorUnchangedShowsStagedValue(t *testing.T) {
	s := openTestStore(t)
	e, _, _ := newTestEditor(t, s, Options{})

	require.Equal(t, Accepted, e.Commit(KeyPortNumber, "1234").Outcome)
	r := e.Commit(KeyPortNumber, s.Get(KeyPortNumber))

	assert.Equal(t, Unchanged, r.Outcome)
	assert.Equal(t, "1234", r.Display)
	assert.Equal(t, e.Display(KeyPortNumber), r.Display)
}

func TestEditorClearProxySettings(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.PutAll([]Change{
		{Key: KeyUseProxy, Value: "true"},
		{Key: KeyProxyHost, Value: "proxy"},
		{Key: KeyProxyPassword, Value: "cGFzcw=="},
	}))
	e, h, _ := newTestEditor(t, s, Options{})
	assert.Equal(t, "pass", e.Display(KeyProxyPassword))

	e.ClearProxySettings()
	assert.Equal(t, []string{KeyProxyHost, KeyProxyPassword, KeyUseProxy}, e.Pending())
	assert.Equal(t, "", e.Display(KeyProxyHost))
	assert.False(t, e.Checked(KeyUseProxy))

	_, err := e.Confirm(context.Background())
	require.NoError(t, err)
	assert.Empty(t, s.All())
	assert.Contains(t, h.Calls(), "proxy")
}

func TestEditorSideEffectsFollowFlushedKeys(t *testing.T) {
	s := openTestStore(t)
	e, h, l := newTestEditor(t, s, Options{})

	// Committing current values stages nothing, so nothing fires.
	e.SetChecked(KeyOverlayTracks, true)
	e.Commit(KeyTooltipInitialDelay, "50")
	e.Commit(KeyPortNumber, "60151")

	ok, err := e.Confirm(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"refresh"}, h.Calls())
	assert.Empty(t, l.events)
}

func TestEditorSideEffectOrder(t *testing.T) {
	s := openTestStore(t)
	e, h, _ := newTestEditor(t, s, Options{})

	e.SetChecked(KeyProbeMapToGenes, true)
	e.Commit(KeyOverlayAttribute, "PATIENT")
	e.Commit(KeyProxyHost, "proxy")
	e.Commit(KeyTooltipDismissDelay, "1000")
	e.SetChecked(KeyEnableGoogleMenu, true)
	e.SetChecked(KeySaveGoogleCredentials, false)
	require.NoError(t, e.SetFont("Courier", 12, false, true))
	require.NoError(t, e.SetColor(KeyBackgroundColor, color.RGBA{R: 10, G: 20, B: 30, A: 255}))
	e.SetChecked(KeyShowAttributes, false)

	ok, err := e.Confirm(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, []string{
		"probes", "overlays", "proxy", "tooltips", "google-menu:on",
		"credentials", "font", "background", "attributes", "refresh",
	}, h.Calls())
	assert.Equal(t, "10,20,30", FormatColor(h.bg))
	assert.Equal(t, "2", s.Get(KeyFontAttribute))
}

func TestEditorCredentialFailureIsLogged(t *testing.T) {
	s := openTestStore(t)
	var logs bytes.Buffer
	h := &recordingHost{credErr: errors.New("keychain locked")}
	e := NewEditor(s, Options{Host: h, Logger: log.New(&logs, "", 0)})
	e.SetChecked(KeySaveGoogleCredentials, false)
	e.SetChecked(KeyEnableGoogleMenu, true)

	ok, err := e.Confirm(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, h.Messages())
	assert.Contains(t, logs.String(), "keychain locked")
	assert.Contains(t, h.Calls(), "refresh")
}

func TestEditorDeferredColors(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Put(KeyHetVarColor, "0,0,255"))
	e, _, _ := newTestEditor(t, s, Options{})

	require.NoError(t, e.SetColor(KeyHetVarColor, color.RGBA{B: 255, A: 255}))
	require.NoError(t, e.SetColor(KeyHomVarColor, color.RGBA{R: 9, G: 9, B: 9, A: 255}))
	require.NoError(t, e.SetColor(KeyHomRefColor, ParseColor("235,235,235")))
	e.Choose(KeyColorByAlleleFreq, "Allele fraction")
	assert.Empty(t, e.Pending(), "choosers stage on confirm")
	assert.Equal(t, "Allele fraction", e.Selected(KeyColorByAlleleFreq))

	_, err := e.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		KeyHetVarColor:       "0,0,255",
		KeyHomVarColor:       "9,9,9",
		KeyColorByAlleleFreq: "false",
	}, s.All())
}

func TestEditorResetVariantColors(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Put(KeyNoCallColor, "1,1,1"))
	e, _, _ := newTestEditor(t, s, Options{})

	require.NoError(t, e.SetColor(KeyAFRefColor, color.RGBA{R: 5, A: 255}))
	e.ResetVariantColors()
	assert.Equal(t, "225,225,225", FormatColor(e.Color(KeyNoCallColor)))

	_, err := e.Confirm(context.Background())
	require.NoError(t, err)
	assert.Empty(t, s.All())
}

func TestEditorResetFontAndServers(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.PutAll([]Change{
		{Key: KeyFontFamily, Value: "Courier"},
		{Key: KeyGenomeServerURL, Value: "https://mirror/genomes.json"},
	}))
	e, h, _ := newTestEditor(t, s, Options{})

	e.ResetFont()
	e.ResetServerURLs()
	family, size, _, _ := e.Font()
	assert.Equal(t, "Arial", family)
	assert.Equal(t, 10, size)
	assert.Equal(t, DefaultGenomeServerURL, e.Display(KeyGenomeServerURL))

	_, err := e.Confirm(context.Background())
	require.NoError(t, err)
	assert.Empty(t, s.All())
	assert.Contains(t, h.Calls(), "font")
}

func TestEditorEnabledFollowsState(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Put(KeySamDownsample, "false"))
	e, _, _ := newTestEditor(t, s, Options{})

	assert.False(t, e.Enabled(KeySamSamplingWindow))
	e.SetChecked(KeySamDownsample, true)
	assert.True(t, e.Enabled(KeySamSamplingWindow))

	assert.True(t, e.Enabled(KeySamMinInsertPercentile))
	assert.False(t, e.Enabled(KeySamMinInsertSize))
	e.SetChecked(KeySamComputeInsertSizes, false)
	assert.False(t, e.Enabled(KeySamMinInsertPercentile))
	assert.True(t, e.Enabled(KeySamMinInsertSize))

	assert.False(t, e.Enabled(KeyProxyUser))
	e.SetChecked(KeyUseProxy, true)
	assert.False(t, e.Enabled(KeyProxyUser))
	e.SetChecked(KeyProxyAuthenticate, true)
	assert.True(t, e.Enabled(KeyProxyUser))
}

func TestEditorInvertedCheckboxes(t *testing.T) {
	s := openTestStore(t)
	e, _, _ := newTestEditor(t, s, Options{})

	assert.True(t, e.Checked(KeySamShowDuplicates), "duplicates are filtered by default")
	assert.True(t, e.Checked(KeySamShadeBases))

	e.SetChecked(KeySamShowDuplicates, false)
	e.SetChecked(KeySamShadeBases, false)
	require.NoError(t, e.ledger.Flush(s))
	assert.Equal(t, "true", s.Get(KeySamShowDuplicates))
	assert.Equal(t, ShadeNone, s.Get(KeySamShadeBases))
}

func TestEditorTabs(t *testing.T) {
	s := openTestStore(t)
	e, _, _ := newTestEditor(t, s, Options{})
	assert.NotContains(t, e.Tabs(), TabDatabase)

	e.SelectTab("proxy")
	assert.Equal(t, TabProxy, e.SelectedTab())
	e.SelectTab("nonexistent")
	assert.Equal(t, TabProxy, e.SelectedTab())

	require.NoError(t, s.Put(KeyDBEnabled, "true"))
	e, _, _ = newTestEditor(t, s, Options{})
	assert.Contains(t, e.Tabs(), TabDatabase)
}

func TestEditorRemembersTab(t *testing.T) {
	s := openTestStore(t)
	mem := &TabMemory{}

	e, _, _ := newTestEditor(t, s, Options{Tabs: mem})
	e.SelectTab("ADVANCED")
	e.Cancel()
	assert.Equal(t, 0, mem.Index(), "cancel does not remember the tab")

	e, _, _ = newTestEditor(t, s, Options{Tabs: mem})
	e.SelectTab("advanced")
	_, err := e.Confirm(context.Background())
	require.NoError(t, err)

	e, _, _ = newTestEditor(t, s, Options{Tabs: mem})
	assert.Equal(t, TabAdvanced, e.SelectedTab())

	mem.Set(99)
	e, _, _ = newTestEditor(t, s, Options{Tabs: mem})
	assert.Equal(t, 0, e.SelectedIndex())
}

type failingStore struct {
	*Store
	err error
}

func (f failingStore) PutAll([]Change) error {
	return f.err
}

func TestEditorFlushFailureKeepsSession(t *testing.T) {
	s := failingStore{Store: openTestStore(t), err: errors.New("read-only file system")}
	e := NewEditor(s, Options{Host: &recordingHost{}})
	e.Commit(KeyTrackHeight, "40")

	ok, err := e.Confirm(context.Background())
	assert.ErrorIs(t, err, s.err)
	assert.False(t, ok)
	assert.False(t, e.Closed())
	assert.Equal(t, []string{KeyTrackHeight}, e.Pending())
}

func TestEditorFlushFailureKeepsRememberedTab(t *testing.T) {
	s := failingStore{Store: openTestStore(t), err: errors.New("read-only file system")}
	mem := &TabMemory{}
	e := NewEditor(s, Options{Host: &recordingHost{}, Tabs: mem})
	e.SelectIndex(2)
	e.Commit(KeyTrackHeight, "40")

	_, err := e.Confirm(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, mem.Index())

	s.err = nil
	e.store = s
	ok, err := e.Confirm(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, mem.Index())
}

func TestEditorDataDirectoryMove(t *testing.T) {
	home := t.TempDir()
	current := filepath.Join(home, ".genoview")
	parent := t.TempDir()

	t.Run("same parent is ignored", func(t *testing.T) {
		e, _, _ := newTestEditor(t, openTestStore(t), Options{DataDir: current})
		_, ok := e.ChooseDataDirectory(home)
		assert.False(t, ok)
		assert.Equal(t, current, e.DataDirectory())
	})

	t.Run("success", func(t *testing.T) {
		e, h, _ := newTestEditor(t, openTestStore(t), Options{DataDir: current})
		target, ok := e.ChooseDataDirectory(parent)
		require.True(t, ok)
		assert.Equal(t, filepath.Join(parent, DataDirName), target)

		done, err := e.Confirm(context.Background())
		require.NoError(t, err)
		require.True(t, done)
		assert.Equal(t, []string{"busy", "move:" + target, "idle", "refresh"}, h.Calls())
		require.Len(t, h.Messages(), 1)
		assert.Contains(t, h.Messages()[0], "successfully moved to: "+target)
	})

	t.Run("failure", func(t *testing.T) {
		h := &recordingHost{moveErr: errors.New("permission denied")}
		e, _, _ := newTestEditor(t, openTestStore(t), Options{DataDir: current, Host: h})
		e.ChooseDataDirectory(parent)

		done, err := e.Confirm(context.Background())
		require.NoError(t, err)
		assert.True(t, done, "a failed move still closes the dialog")
		require.Len(t, h.Messages(), 1)
		assert.Contains(t, h.Messages()[0], "permission denied")
		assert.Contains(t, h.Messages()[0], restartHint)
	})

	t.Run("timeout", func(t *testing.T) {
		clk := testclock.NewClock(time.Now())
		release := make(chan struct{})
		defer close(release)
		h := &recordingHost{moveHook: func(string) error {
			<-release
			return nil
		}}
		e, _, _ := newTestEditor(t, openTestStore(t), Options{
			DataDir:     current,
			Host:        h,
			Clock:       clk,
			MoveTimeout: 30 * time.Second,
		})
		e.ChooseDataDirectory(parent)

		result := make(chan bool, 1)
		go func() {
			done, _ := e.Confirm(context.Background())
			result <- done
		}()

		require.NoError(t, clk.WaitAdvance(30*time.Second, time.Second, 1))
		select {
		case done := <-result:
			assert.True(t, done)
		case <-time.After(5 * time.Second):
			t.Fatal("confirm did not return after the move timed out")
		}
		msgs := h.Messages()
		require.Len(t, msgs, 1)
		assert.True(t, strings.HasPrefix(msgs[0], "Moving the data directory"), msgs[0])
		assert.Contains(t, h.Calls(), "idle")
	})
}

func TestEditorCramCacheMove(t *testing.T) {
	oldDir := filepath.Join(t.TempDir(), "cram")
	require.NoError(t, os.MkdirAll(oldDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(oldDir, "seq1.fa"), []byte(">1"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(oldDir, "seq2.fa"), []byte(">2"), 0644))

	s := openTestStore(t)
	e, _, _ := newTestEditor(t, s, Options{CramCacheDir: oldDir})
	assert.Equal(t, oldDir, e.CramCacheDirectory())

	parent := t.TempDir()
	target, ok := e.ChooseCramCacheDirectory(parent)
	require.True(t, ok)
	assert.Equal(t, target, e.CramCacheDirectory())

	_, err := e.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, target, s.Get(KeyCramCacheDirectory))
	assert.FileExists(t, filepath.Join(target, "seq1.fa"))
	assert.FileExists(t, filepath.Join(target, "seq2.fa"))
	assert.NoFileExists(t, filepath.Join(oldDir, "seq1.fa"))
}

func TestEditorClearGenomeCache(t *testing.T) {
	s := openTestStore(t)
	e, h, _ := newTestEditor(t, s, Options{})

	require.NoError(t, e.ClearGenomeCache())
	assert.Equal(t, []string{"genome-cache"}, h.Calls())
	assert.Equal(t, []string{cacheCleared}, h.Messages())
	assert.Empty(t, e.Pending())
}

func TestEditorUnknownKey(t *testing.T) {
	e, _, _ := newTestEditor(t, openTestStore(t), Options{})
	r := e.Commit("no.such.key", "1")
	assert.Equal(t, Rejected, r.Outcome)
	assert.ErrorIs(t, r.Err, ErrUnknownKey)
	assert.True(t, e.Valid(), "unknown keys are programming errors, not user input")
}
