// viewer.go - Main window and the services the preferences act on
package main

import (
	"fmt"
	"log"
	"runtime"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/kutama/igv/internal/cmdlistener"
	"github.com/kutama/igv/internal/netproxy"
	"github.com/kutama/igv/internal/oauthstore"
	"github.com/kutama/igv/internal/prefs"
)

// keyDataDirectory records a relocated data directory. It has no field in
// the preferences dialog.
const keyDataDirectory = "data.directory"

// Viewer owns the main window and the long-lived services configured by
// the preferences: the HTTP client, the batch listener and the token store.
type Viewer struct {
	app    fyne.App
	window fyne.Window
	theme  *NativeTheme
	logger *log.Logger

	store    *prefs.Store
	proxy    *netproxy.Client
	listener *cmdlistener.Listener
	tabs     *prefs.TabMemory
	status   *StatusBar

	attributes *fyne.Container
	genomeInfo *widget.Label

	mu       sync.Mutex
	dataDir  string
	tokens   *oauthstore.Store
	tooltips [3]int
	probes   map[string][]string
}

// NewViewer wires the services to the store and builds the main window
func NewViewer(a fyne.App, store *prefs.Store, logger *log.Logger) (*Viewer, error) {
	v := &Viewer{
		app:    a,
		theme:  NewNativeTheme(false),
		logger: logger,
		store:  store,
		proxy:  netproxy.New(logger),
		tabs:   &prefs.TabMemory{},
		probes: make(map[string][]string),
	}

	v.dataDir = store.GetOr(keyDataDirectory, GetDataDir())
	tokens, err := oauthstore.New(GetTokenPath(v.dataDir), store.GetAsBool(prefs.KeySaveGoogleCredentials))
	if err != nil {
		// A corrupt token only costs a new sign-in
		logger.Printf("Warning: %v", err)
		tokens, _ = oauthstore.New(GetTokenPath(v.dataDir), false)
	}
	v.tokens = tokens

	if err := v.proxy.Reload(store); err != nil {
		logger.Printf("Warning: proxy settings: %v", err)
	}
	v.listener = cmdlistener.New(newBatchHandler(v), logger)
	if store.GetAsBool(prefs.KeyPortEnabled) {
		if err := v.listener.Start(store.GetAsInt(prefs.KeyPortNumber)); err != nil {
			logger.Printf("Warning: batch listener: %v", err)
		}
	}

	v.applyFont()
	v.theme.SetBackground(store.GetAsColor(prefs.KeyBackgroundColor))
	a.Settings().SetTheme(v.theme)

	v.window = a.NewWindow(fmt.Sprintf("GenoView - %s", runtime.GOOS))
	v.window.Resize(fyne.NewSize(1200, 800))
	v.status = NewStatusBar(v.listenerState)
	v.window.SetContent(v.buildUI())
	v.buildMenu(store.GetAsBool(prefs.KeyEnableGoogleMenu))
	if !store.GetAsBool(prefs.KeyShowAttributes) {
		v.attributes.Hide()
	}
	v.UpdateTooltipSettings()
	return v, nil
}

// Window returns the main window
func (v *Viewer) Window() fyne.Window {
	return v.window
}

// DataDir returns the current data directory
func (v *Viewer) DataDir() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.dataDir
}

func (v *Viewer) tokenStore() *oauthstore.Store {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tokens
}

// Shutdown stops background services
func (v *Viewer) Shutdown() {
	v.status.Stop()
	v.listener.Halt()
}

// ShowPreferences opens the preferences dialog, optionally on the named tab
func (v *Viewer) ShowPreferences(tab string) {
	editor := prefs.NewEditor(v.store, prefs.Options{
		Host:         v,
		Listener:     v.listener,
		Tabs:         v.tabs,
		Logger:       v.logger,
		DataDir:      v.DataDir(),
		CramCacheDir: GetCramCacheDir(),
	})
	if tab != "" {
		editor.SelectTab(tab)
	}
	v.logger.Printf("Opening preferences session %s", editor.ID())
	NewPreferencesDialog(editor, v.window).Show()
}

func (v *Viewer) listenerState() string {
	port, err := v.listener.Port()
	if err != nil {
		return "Batch: off"
	}
	return fmt.Sprintf("Batch: %d", port)
}

func (v *Viewer) buildUI() fyne.CanvasObject {
	prefsBtn := widget.NewButtonWithIcon("Preferences", theme.SettingsIcon(), func() {
		v.ShowPreferences("")
	})
	toolbar := container.NewHBox(prefsBtn)

	v.genomeInfo = widget.NewLabel(v.genomeServerText())
	v.genomeInfo.Wrapping = fyne.TextWrapWord

	v.attributes = container.NewVBox(
		widget.NewLabelWithStyle("Attributes", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewSeparator(),
	)

	return container.NewBorder(
		container.NewVBox(toolbar, widget.NewSeparator()),
		v.status.Container(),
		v.attributes,
		nil,
		container.NewPadded(v.genomeInfo),
	)
}

func (v *Viewer) genomeServerText() string {
	return fmt.Sprintf("Genome server: %s\nData registry: %s\nData directory: %s",
		v.store.Get(prefs.KeyGenomeServerURL),
		v.store.Get(prefs.KeyDataServerURL),
		v.DataDir(),
	)
}

func (v *Viewer) buildMenu(google bool) {
	prefsItem := fyne.NewMenuItem("Preferences...", func() {
		v.ShowPreferences("")
	})
	proxyItem := fyne.NewMenuItem("Proxy Settings...", func() {
		v.ShowPreferences(prefs.TabProxy)
	})
	menus := []*fyne.Menu{
		fyne.NewMenu("File", prefsItem),
		fyne.NewMenu("View", proxyItem),
	}
	if google {
		signOut := fyne.NewMenuItem("Sign Out", func() {
			if err := v.tokenStore().SetToken(nil); err != nil {
				dialog.ShowError(err, v.window)
			}
		})
		status := fyne.NewMenuItem("Account Status", func() {
			msg := "Not signed in."
			if tok := v.tokenStore().Token(); tok != nil && tok.Valid() {
				msg = fmt.Sprintf("Signed in until %s.", tok.Expiry.Format("2006/01/02 15:04"))
			}
			dialog.ShowInformation("Google", msg, v.window)
		})
		menus = append(menus, fyne.NewMenu("Google", signOut, status))
	}
	v.window.SetMainMenu(fyne.NewMainMenu(menus...))
}

// applyFont maps the font preferences onto the theme text size
func (v *Viewer) applyFont() {
	if v.store.GetAsBool(prefs.KeyScaleFonts) {
		v.theme.SetTextSize(0)
		return
	}
	v.theme.SetTextSize(float32(v.store.GetAsInt(prefs.KeyFontSize)))
}
