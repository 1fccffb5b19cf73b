// preferences_dialog.go - Tabbed preferences dialog bound to a prefs.Editor
package main

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/mattn/go-runewidth"

	"github.com/kutama/igv/internal/prefs"
)

// boundField is the widget rendering one preference
type boundField struct {
	key    string
	object fyne.CanvasObject
	sync   func()
	enable func(on bool)
}

// PreferencesDialog renders an editor session as a modal dialog. Widgets
// only talk to the editor; nothing is written until OK.
type PreferencesDialog struct {
	editor *prefs.Editor
	window fyne.Window

	bound   []*boundField
	entries map[string]*CommitEntry
	extras  []func()
	tabs    *container.AppTabs
	dialog  *dialog.ConfirmDialog

	// syncing suppresses widget callbacks while values are pushed in
	syncing bool

	// onDone is called once the session closes
	onDone func(confirmed bool)
}

// NewPreferencesDialog builds the dialog for editor
func NewPreferencesDialog(editor *prefs.Editor, window fyne.Window) *PreferencesDialog {
	d := &PreferencesDialog{
		editor:  editor,
		window:  window,
		entries: make(map[string]*CommitEntry),
	}
	d.tabs = d.buildTabs()
	d.dialog = dialog.NewCustomConfirm("Preferences", "OK", "Cancel", d.tabs, d.closed, window)
	d.dialog.Resize(fyne.NewSize(760, 620))
	d.refresh()
	return d
}

// Show displays the dialog
func (d *PreferencesDialog) Show() {
	d.dialog.Show()
}

func (d *PreferencesDialog) buildTabs() *container.AppTabs {
	names := d.editor.Tabs()
	items := make([]*container.TabItem, 0, len(names))
	for _, name := range names {
		items = append(items, container.NewTabItemWithIcon(name, tabIcon(name), container.NewVScroll(d.buildTab(name))))
	}
	tabs := container.NewAppTabs(items...)
	tabs.SetTabLocation(container.TabLocationTop)
	tabs.SelectIndex(d.editor.SelectedIndex())
	tabs.OnSelected = func(item *container.TabItem) {
		d.editor.SelectTab(item.Text)
	}
	return tabs
}

func tabIcon(name string) fyne.Resource {
	switch name {
	case prefs.TabGeneral:
		return theme.SettingsIcon()
	case prefs.TabTracks, prefs.TabCharts:
		return theme.ListIcon()
	case prefs.TabVariants:
		return theme.ColorPaletteIcon()
	case prefs.TabAlignments:
		return theme.ViewRestoreIcon()
	case prefs.TabProxy, prefs.TabDatabase:
		return theme.ComputerIcon()
	case prefs.TabCram, prefs.TabProbes:
		return theme.FolderIcon()
	}
	return theme.InfoIcon()
}

func (d *PreferencesDialog) buildTab(name string) fyne.CanvasObject {
	form := widget.NewForm()
	for _, f := range prefs.FieldsFor(name) {
		b := d.bind(f)
		if b == nil {
			continue
		}
		d.bound = append(d.bound, b)
		if f.Kind == prefs.KindBool {
			form.Append("", b.object)
		} else {
			form.Append(f.Label, b.object)
		}
	}

	content := container.NewVBox(form)
	if actions := d.tabActions(name); len(actions) > 0 {
		content.Add(widget.NewSeparator())
		for _, a := range actions {
			content.Add(a)
		}
	}
	return content
}

func (d *PreferencesDialog) bind(f prefs.Field) *boundField {
	key := f.Key
	switch f.Kind {
	case prefs.KindBool:
		check := widget.NewCheck(f.Label, nil)
		check.OnChanged = func(on bool) {
			if d.syncing {
				return
			}
			d.editor.SetChecked(key, on)
			if staged := d.editor.Checked(key); staged != on {
				// an older edit is still pending; show that one
				d.syncing = true
				check.SetChecked(staged)
				d.syncing = false
			}
			d.refreshEnabled()
		}
		return &boundField{
			key:    key,
			object: check,
			sync:   func() { check.SetChecked(d.editor.Checked(key)) },
			enable: func(on bool) { setEnabled(check, on) },
		}

	case prefs.KindChoice:
		labels := make([]string, len(f.Options))
		for i, o := range f.Options {
			labels[i] = o.Label
		}
		choose := func(label string) {
			if d.syncing || label == "" {
				return
			}
			if r := d.editor.Choose(key, label); r.Display != label {
				d.refresh()
			}
		}
		if f.Deferred {
			radio := widget.NewRadioGroup(labels, choose)
			radio.Horizontal = true
			radio.Required = true
			return &boundField{
				key:    key,
				object: radio,
				sync:   func() { radio.SetSelected(d.editor.Selected(key)) },
				enable: func(on bool) { setEnabled(radio, on) },
			}
		}
		sel := widget.NewSelect(labels, choose)
		return &boundField{
			key:    key,
			object: sel,
			sync:   func() { sel.SetSelected(d.editor.Selected(key)) },
			enable: func(on bool) { setEnabled(sel, on) },
		}

	case prefs.KindColor:
		swatch := canvas.NewRectangle(d.editor.Color(key))
		swatch.SetMinSize(fyne.NewSize(24, 24))
		swatch.StrokeColor = color.RGBA{128, 128, 128, 255}
		swatch.StrokeWidth = 1
		pick := widget.NewButtonWithIcon("", theme.ColorPaletteIcon(), func() {
			picker := dialog.NewColorPicker("Choose "+f.Label, "Select a color", func(c color.Color) {
				if err := d.editor.SetColor(key, c); err != nil {
					dialog.ShowError(err, d.window)
					return
				}
				d.refresh()
			}, d.window)
			picker.Advanced = true
			picker.SetColor(d.editor.Color(key))
			picker.Show()
		})
		return &boundField{
			key:    key,
			object: container.NewHBox(swatch, pick),
			sync: func() {
				swatch.FillColor = d.editor.Color(key)
				swatch.Refresh()
			},
			enable: func(on bool) { setEnabled(pick, on) },
		}

	case prefs.KindFont:
		if key != prefs.KeyFontFamily {
			// size and style share the family's row
			return nil
		}
		label := widget.NewLabel("")
		choose := widget.NewButton("Choose...", d.showFontDialog)
		reset := widget.NewButtonWithIcon("", theme.ContentUndoIcon(), func() {
			d.editor.ResetFont()
			d.refresh()
		})
		return &boundField{
			key:    key,
			object: container.NewBorder(nil, nil, nil, container.NewHBox(choose, reset), label),
			sync:   func() { label.SetText(d.fontText()) },
			enable: func(on bool) {
				setEnabled(choose, on)
				setEnabled(reset, on)
			},
		}

	case prefs.KindPath:
		entry := d.newEntry(key, prefs.KindText)
		browse := widget.NewButtonWithIcon("", theme.FolderOpenIcon(), func() {
			dialog.ShowFileOpen(func(r fyne.URIReadCloser, err error) {
				if err != nil {
					dialog.ShowError(err, d.window)
					return
				}
				if r == nil {
					return
				}
				path := r.URI().Path()
				r.Close()
				entry.SetText(path)
				d.commit(key, entry, path)
			}, d.window)
		})
		return &boundField{
			key:    key,
			object: container.NewBorder(nil, nil, nil, browse, entry),
			sync:   d.entrySync(key, entry),
			enable: func(on bool) {
				setEnabled(entry, on)
				setEnabled(browse, on)
			},
		}
	}

	entry := d.newEntry(key, f.Kind)
	return &boundField{
		key:    key,
		object: entry,
		sync:   d.entrySync(key, entry),
		enable: func(on bool) { setEnabled(entry, on) },
	}
}

func (d *PreferencesDialog) newEntry(key string, kind prefs.Kind) *CommitEntry {
	var entry *CommitEntry
	entry = NewCommitEntry(kind, func(text string) {
		d.commit(key, entry, text)
	})
	d.entries[key] = entry
	return entry
}

func (d *PreferencesDialog) entrySync(key string, entry *CommitEntry) func() {
	return func() {
		if text := d.editor.Display(key); entry.Text != text {
			entry.SetText(text)
		}
	}
}

// commit hands text to the editor and shows what it settled on: the
// canonical value, or the last good one after a rejection
func (d *PreferencesDialog) commit(key string, entry *CommitEntry, text string) {
	r := d.editor.Commit(key, text)
	if errors.Is(r.Err, prefs.ErrClosed) {
		return
	}
	if entry.Text != r.Display {
		entry.SetText(r.Display)
	}
}

// commitPending commits entries whose text was typed but never submitted
func (d *PreferencesDialog) commitPending() {
	for key, entry := range d.entries {
		if entry.Disabled() {
			continue
		}
		if entry.Text != d.editor.Display(key) {
			d.commit(key, entry, entry.Text)
		}
	}
}

func (d *PreferencesDialog) tabActions(name string) []fyne.CanvasObject {
	switch name {
	case prefs.TabGeneral:
		dataDir := widget.NewLabel("")
		d.extras = append(d.extras, func() { dataDir.SetText(d.editor.DataDirectory()) })
		move := widget.NewButton("Move...", func() {
			d.chooseFolder(func(parent string) {
				d.editor.ChooseDataDirectory(parent)
				d.refresh()
			})
		})
		return []fyne.CanvasObject{
			widget.NewForm(widget.NewFormItem("Data directory", container.NewBorder(nil, nil, nil, move, dataDir))),
			container.NewHBox(
				widget.NewButton("Reset Background", func() {
					d.editor.ResetBackground()
					d.refresh()
				}),
				widget.NewButton("Clear Genome Cache", func() {
					d.editor.ClearGenomeCache()
				}),
			),
		}
	case prefs.TabVariants:
		return []fyne.CanvasObject{
			container.NewHBox(widget.NewButton("Reset Colors", func() {
				d.editor.ResetVariantColors()
				d.refresh()
			})),
		}
	case prefs.TabProxy:
		return []fyne.CanvasObject{
			container.NewHBox(widget.NewButton("Clear All Proxy Settings", func() {
				d.editor.ClearProxySettings()
				d.refresh()
			})),
		}
	case prefs.TabAdvanced:
		return []fyne.CanvasObject{
			container.NewHBox(widget.NewButton("Reset Server URLs", func() {
				d.editor.ResetServerURLs()
				d.refresh()
			})),
		}
	case prefs.TabCram:
		cramDir := widget.NewLabel("")
		d.extras = append(d.extras, func() { cramDir.SetText(d.editor.CramCacheDirectory()) })
		move := widget.NewButton("Move...", func() {
			d.chooseFolder(func(parent string) {
				d.editor.ChooseCramCacheDirectory(parent)
				d.refresh()
			})
		})
		return []fyne.CanvasObject{
			widget.NewForm(widget.NewFormItem("Cache directory", container.NewBorder(nil, nil, nil, move, cramDir))),
		}
	}
	return nil
}

func (d *PreferencesDialog) chooseFolder(fn func(parent string)) {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, d.window)
			return
		}
		if uri != nil {
			fn(uri.Path())
		}
	}, d.window)
}

func (d *PreferencesDialog) showFontDialog() {
	family, size, bold, italic := d.editor.Font()

	familyEntry := widget.NewEntry()
	familyEntry.SetText(family)
	sizeEntry := widget.NewEntry()
	sizeEntry.SetText(strconv.Itoa(size))
	boldCheck := widget.NewCheck("Bold", nil)
	boldCheck.SetChecked(bold)
	italicCheck := widget.NewCheck("Italic", nil)
	italicCheck.SetChecked(italic)

	items := []*widget.FormItem{
		widget.NewFormItem("Family", familyEntry),
		widget.NewFormItem("Size", sizeEntry),
		widget.NewFormItem("Style", container.NewHBox(boldCheck, italicCheck)),
	}
	dialog.ShowForm("Default Font", "OK", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		n, err := strconv.Atoi(strings.TrimSpace(sizeEntry.Text))
		if err != nil {
			n = 0
		}
		if err := d.editor.SetFont(familyEntry.Text, n, boldCheck.Checked, italicCheck.Checked); err != nil {
			dialog.ShowError(err, d.window)
			return
		}
		d.refresh()
	}, d.window)
}

// fontText describes the pending default font in one short line
func (d *PreferencesDialog) fontText() string {
	family, size, bold, italic := d.editor.Font()
	text := fmt.Sprintf("%s %d", runewidth.Truncate(family, 24, "..."), size)
	if bold {
		text += " Bold"
	}
	if italic {
		text += " Italic"
	}
	return text
}

// refresh pushes every effective value into its widget
func (d *PreferencesDialog) refresh() {
	d.syncing = true
	for _, b := range d.bound {
		b.sync()
	}
	for _, fn := range d.extras {
		fn()
	}
	d.syncing = false
	d.refreshEnabled()
}

func (d *PreferencesDialog) refreshEnabled() {
	for _, b := range d.bound {
		b.enable(d.editor.Enabled(b.key))
	}
}

func (d *PreferencesDialog) closed(ok bool) {
	if !ok {
		d.editor.Cancel()
		d.done(false)
		return
	}
	d.commitPending()
	go d.confirm()
}

// confirm runs the commit off the UI goroutine; directory moves can take
// a while. The dialog comes back if the session is still open.
func (d *PreferencesDialog) confirm() {
	ok, err := d.editor.Confirm(context.Background())
	fyne.Do(func() {
		if err != nil {
			dialog.ShowError(fmt.Errorf("saving preferences: %w", err), d.window)
		}
		if ok {
			d.done(true)
			return
		}
		d.dialog.Show()
	})
}

func (d *PreferencesDialog) done(confirmed bool) {
	if d.onDone != nil {
		d.onDone(confirmed)
	}
}

func setEnabled(w fyne.Disableable, on bool) {
	if on {
		w.Enable()
	} else {
		w.Disable()
	}
}
