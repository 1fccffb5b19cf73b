// host.go - Viewer side effects triggered by committed preferences
package main

import (
	"fmt"
	"image/color"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"github.com/kutama/igv/internal/dirmove"
	"github.com/kutama/igv/internal/oauthstore"
	"github.com/kutama/igv/internal/prefs"
)

var _ prefs.Host = (*Viewer)(nil)

func (v *Viewer) Refresh() {
	text := v.genomeServerText()
	fyne.Do(func() {
		v.genomeInfo.SetText(text)
		v.window.Content().Refresh()
	})
}

func (v *Viewer) ResetOverlayTracks() {
	v.logger.Printf("Overlay tracks reset (overlay=%v, attribute=%q)",
		v.store.GetAsBool(prefs.KeyOverlayTracks), v.store.Get(prefs.KeyOverlayAttribute))
	v.status.SetMessage("Mutation overlays updated")
}

func (v *Viewer) ReloadProxySettings() {
	if err := v.proxy.Reload(v.store); err != nil {
		v.logger.Printf("Error reloading proxy settings: %v", err)
		v.ShowMessage("Proxy settings could not be applied: " + err.Error())
	}
}

func (v *Viewer) UpdateTooltipSettings() {
	v.mu.Lock()
	v.tooltips = [3]int{
		v.store.GetAsInt(prefs.KeyTooltipInitialDelay),
		v.store.GetAsInt(prefs.KeyTooltipReshowDelay),
		v.store.GetAsInt(prefs.KeyTooltipDismissDelay),
	}
	delays := v.tooltips
	v.mu.Unlock()
	v.logger.Printf("Tooltip delays: initial=%dms reshow=%dms dismiss=%dms", delays[0], delays[1], delays[2])
}

func (v *Viewer) EnableGoogleMenu(enabled bool) {
	fyne.Do(func() {
		v.buildMenu(enabled)
	})
}

func (v *Viewer) UpdateCredentialSaveOption(save bool) error {
	return v.tokenStore().UpdateSaveOption(save)
}

func (v *Viewer) ClearProbeMappings() {
	v.mu.Lock()
	n := len(v.probes)
	v.probes = make(map[string][]string)
	v.mu.Unlock()
	v.logger.Printf("Cleared %d probe mappings", n)
}

func (v *Viewer) ClearGenomeCache() error {
	dir := GetGenomeCacheDir(v.DataDir())
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing %s: %w", dir, err)
	}
	return os.MkdirAll(dir, 0755)
}

func (v *Viewer) UpdateDefaultFont() {
	v.applyFont()
	fyne.Do(func() {
		v.app.Settings().SetTheme(v.theme)
	})
}

func (v *Viewer) SetBackground(c color.Color) {
	v.theme.SetBackground(c)
	fyne.Do(func() {
		v.app.Settings().SetTheme(v.theme)
	})
}

func (v *Viewer) ShowAttributeDisplay(show bool) {
	fyne.Do(func() {
		if show {
			v.attributes.Show()
		} else {
			v.attributes.Hide()
		}
	})
}

func (v *Viewer) ShowMessage(msg string) {
	fyne.Do(func() {
		dialog.ShowInformation("GenoView", msg, v.window)
	})
}

func (v *Viewer) SetBusy(busy bool) {
	v.status.SetBusy(busy)
}

// MoveDataDirectory relocates the data directory and reopens the token
// store from its new home
func (v *Viewer) MoveDataDirectory(target string) error {
	from := v.DataDir()
	if err := dirmove.MoveDir(from, target); err != nil {
		return err
	}
	if err := v.store.Put(keyDataDirectory, target); err != nil {
		return fmt.Errorf("recording new data directory: %w", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.dataDir = target
	tokens, err := oauthstore.New(GetTokenPath(target), v.tokens.Saving())
	if err != nil {
		v.logger.Printf("Warning: reopening token store: %v", err)
		return nil
	}
	if tok := v.tokens.Token(); tok != nil && tokens.Token() == nil {
		if err := tokens.SetToken(tok); err != nil {
			v.logger.Printf("Warning: carrying token to %s: %v", target, err)
		}
	}
	v.tokens = tokens
	v.logger.Printf("Data directory moved from %s to %s", from, target)
	return nil
}
