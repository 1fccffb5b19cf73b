package prefs

import "image/color"

// Host is the application the editor notifies when committed preferences
// need more than a store write. Calls are made from the goroutine that
// called Confirm unless noted.
type Host interface {
	Refresh()
	ResetOverlayTracks()
	ReloadProxySettings()
	UpdateTooltipSettings()
	EnableGoogleMenu(enabled bool)
	UpdateCredentialSaveOption(save bool) error
	ClearProbeMappings()
	ClearGenomeCache() error
	UpdateDefaultFont()
	SetBackground(c color.Color)
	ShowAttributeDisplay(show bool)
	ShowMessage(msg string)
	// SetBusy toggles the wait indicator around long operations.
	SetBusy(busy bool)
	// MoveDataDirectory relocates the data directory to target. It runs on
	// a background goroutine.
	MoveDataDirectory(target string) error
}

// Listener is the batch command listener restarted when its port settings
// change.
type Listener interface {
	Halt()
	Start(port int) error
}

// NopHost ignores every call. Embed it to implement a subset of Host.
type NopHost struct{}

func (NopHost) Refresh() {}
func (NopHost) ResetOverlayTracks() {}
func (NopHost) ReloadProxySettings() {}
func (NopHost) UpdateTooltipSettings() {}
func (NopHost) EnableGoogleMenu(bool) {}
func (NopHost) UpdateCredentialSaveOption(bool) error { return nil }
func (NopHost) ClearProbeMappings() {}
func (NopHost) ClearGenomeCache() error { return nil }
func (NopHost) UpdateDefaultFont() {}
func (NopHost) SetBackground(color.Color) {}
func (NopHost) ShowAttributeDisplay(bool) {}
func (NopHost) ShowMessage(string) {}
func (NopHost) SetBusy(bool) {}
func (NopHost) MoveDataDirectory(string) error { return nil }

type nopListener struct{}

func (nopListener) Halt() {}
func (nopListener) Start(int) error { return nil }
