package prefs

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/kutama/igv/internal/dirmove"
)

// Confirm commits the session. If an edit failed validation since the last
// attempt, nothing is committed: validity is reset and Confirm returns
// false so the dialog stays open. Otherwise the staged changes are written
// in one batch, the host is notified of what changed, and the session
// closes.
//
// A store write failure is returned and leaves the session open with its
// changes still staged. Failures of individual side effects are reported to
// the user or logged and never abort the commit.
func (e *Editor) Confirm(ctx context.Context) (bool, error) {
	if e.closed {
		return false, ErrClosed
	}
	if !e.valid {
		e.valid = true
		return false, nil
	}

	e.applyDeferred()

	if e.ledger.Contains(KeyProbeMapToGenes) {
		e.host.ClearProbeMappings()
	}

	changed := newChangeSet(e.ledger.Keys())
	oldCramDir := e.store.Get(KeyCramCacheDirectory)
	if oldCramDir == "" {
		oldCramDir = e.cramDir
	}
	if err := e.ledger.Flush(e.store); err != nil {
		e.logger.Printf("prefs[%s]: %v", e.id, err)
		return false, err
	}
	e.logger.Printf("prefs[%s]: committed %d preferences", e.id, len(changed))
	e.memory.Set(e.selected)

	if changed.any(listenerKeys...) {
		e.restartListener()
	}
	if changed.any(overlayKeys...) {
		e.host.ResetOverlayTracks()
	}
	if changed.any(proxyKeys...) {
		e.host.ReloadProxySettings()
	}
	e.moveDataDirectory(ctx)
	if changed.any(KeyCramCacheDirectory) && e.newCramDir != "" {
		e.moveCramCache(oldCramDir)
	}
	if changed.any(tooltipKeys...) {
		e.host.UpdateTooltipSettings()
	}
	if changed.any(KeyEnableGoogleMenu) {
		e.host.EnableGoogleMenu(AsBool(e.store, KeyEnableGoogleMenu))
	}
	if changed.any(KeySaveGoogleCredentials) {
		if err := e.host.UpdateCredentialSaveOption(AsBool(e.store, KeySaveGoogleCredentials)); err != nil {
			e.logger.Printf("prefs[%s]: error saving oauth token: %v", e.id, err)
		}
	}
	if changed.any(fontKeys...) || changed.any(KeyScaleFonts) {
		e.host.UpdateDefaultFont()
	}
	if changed.any(KeyBackgroundColor) {
		e.host.SetBackground(AsColor(e.store, KeyBackgroundColor))
	}
	if changed.any(KeyShowAttributes) {
		e.host.ShowAttributeDisplay(AsBool(e.store, KeyShowAttributes))
	}

	e.ledger.Clear()
	e.deferred = make(map[string]string)
	e.closed = true
	e.host.Refresh()
	return true, nil
}

// applyDeferred stages chooser selections that differ from the value the
// key would otherwise commit with.
func (e *Editor) applyDeferred() {
	keys := make([]string, 0, len(e.deferred))
	for k := range e.deferred {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := e.deferred[k]
		f, _ := Lookup(k)
		if f.Kind == KindColor {
			if SameColor(ParseColor(v), AsColor(e, k)) {
				continue
			}
		} else if v == e.Get(k) {
			continue
		}
		e.ledger.Stage(k, v)
	}
}

func (e *Editor) restartListener() {
	e.listener.Halt()
	if !AsBool(e.store, KeyPortEnabled) {
		return
	}
	port := AsInt(e.store, KeyPortNumber)
	if err := e.listener.Start(port); err != nil {
		e.logger.Printf("prefs[%s]: starting command listener on port %d: %v", e.id, port, err)
		e.host.ShowMessage(fmt.Sprintf("Could not start the batch command listener on port %d: %v", port, err))
	}
}

func (e *Editor) moveDataDirectory(ctx context.Context) {
	if e.dataMove.State() != dirmove.Pending {
		return
	}
	target := e.dataMove.Target()

	e.host.SetBusy(true)
	err := e.dataMove.Run(ctx, e.clock, e.timeout, e.host.MoveDataDirectory)
	e.host.SetBusy(false)

	switch {
	case err == nil:
		e.logger.Printf("prefs[%s]: data directory moved to %s", e.id, target)
		e.host.ShowMessage(fmt.Sprintf(
			"The data directory has been successfully moved to: %s\n"+
				"Some files might need to be manually removed from the previous directory.\n%s",
			target, restartHint))
	case errors.Is(err, dirmove.ErrTimeout):
		e.logger.Printf("prefs[%s]: data directory move to %s timed out after %s", e.id, target, e.timeout)
		e.host.ShowMessage(fmt.Sprintf(
			"Moving the data directory to %s did not finish within %s.\n%s",
			target, e.timeout, restartHint))
	default:
		e.logger.Printf("prefs[%s]: data directory move to %s failed: %v", e.id, target, err)
		e.host.ShowMessage(fmt.Sprintf(
			"Unexpected error occurred while moving the data directory: %s %v\n%s",
			target, err, restartHint))
	}
}

func (e *Editor) moveCramCache(from string) {
	if from == "" || from == e.newCramDir {
		return
	}
	n := dirmove.MoveFiles(from, e.newCramDir, e.logger)
	e.logger.Printf("prefs[%s]: moved %d cached sequence files to %s", e.id, n, e.newCramDir)
}

// changeSet is the set of keys a commit flushed.
type changeSet map[string]bool

func newChangeSet(keys []string) changeSet {
	s := make(changeSet, len(keys))
	for _, k := range keys {
		s[k] = true
	}
	return s
}

func (s changeSet) any(keys ...string) bool {
	for _, k := range keys {
		if s[k] {
			return true
		}
	}
	return false
}
