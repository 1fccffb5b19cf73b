package prefs

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/juju/clock"

	"github.com/kutama/igv/internal/dirmove"
)

// Directory names created under a user-chosen parent.
const (
	DataDirName = "genoview"
	CramDirName = "cram"
)

// Style bits stored under KeyFontAttribute.
const (
	fontPlain  = 0
	fontBold   = 1
	fontItalic = 2
)

const (
	restartHint  = "It is recommended that you restart GenoView."
	cacheCleared = "Cached genomes have been removed."
)

// Outcome classifies a field edit.
type Outcome int

const (
	// Accepted means the value was staged.
	Accepted Outcome = iota
	// Unchanged means the value was valid but equal to the store.
	Unchanged
	// Rejected means the value failed validation and was not staged.
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Unchanged:
		return "unchanged"
	case Rejected:
		return "rejected"
	default:
		return "Outcome(" + strconv.Itoa(int(o)) + ")"
	}
}

// Result is returned for every field edit. Display is the text the widget
// should show afterwards; on rejection it is the last good value.
type Result struct {
	Outcome Outcome
	Display string
	Err     error
}

// Options configures an Editor. Zero values select no-op collaborators,
// the wall clock and the standard logger.
type Options struct {
	Host        Host
	Listener    Listener
	Clock       clock.Clock
	Tabs        *TabMemory
	Logger      *log.Logger
	MoveTimeout time.Duration

	// DataDir is the current data directory.
	DataDir string
	// CramCacheDir is used when the store names no CRAM cache directory.
	CramCacheDir string
}

// Editor is the model behind the preferences dialog: it loads field values
// from the store, validates and stages edits, and commits them on Confirm.
//
// An Editor is driven from a single goroutine.
type Editor struct {
	id       string
	store    Preferences
	ledger   *Ledger
	host     Host
	listener Listener
	clock    clock.Clock
	memory   *TabMemory
	logger   *log.Logger
	timeout  time.Duration
	dataDir  string
	cramDir  string

	tabs     []string
	selected int
	valid    bool
	canceled bool
	closed   bool

	// deferred holds chooser selections applied on Confirm.
	deferred   map[string]string
	dataMove   dirmove.Move
	newCramDir string
}

// NewEditor opens an editing session over store.
func NewEditor(store Preferences, opts Options) *Editor {
	e := &Editor{
		id:       uuid.NewString(),
		store:    store,
		ledger:   NewLedger(store),
		host:     opts.Host,
		listener: opts.Listener,
		clock:    opts.Clock,
		memory:   opts.Tabs,
		logger:   opts.Logger,
		timeout:  opts.MoveTimeout,
		dataDir:  opts.DataDir,
		cramDir:  opts.CramCacheDir,
		valid:    true,
		deferred: make(map[string]string),
	}
	if e.host == nil {
		e.host = NopHost{}
	}
	if e.listener == nil {
		e.listener = nopListener{}
	}
	if e.clock == nil {
		e.clock = clock.WallClock
	}
	if e.memory == nil {
		e.memory = &TabMemory{}
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard, "", 0)
	}
	if e.timeout <= 0 {
		e.timeout = dirmove.DefaultTimeout
	}

	e.tabs = visibleTabs(store)
	e.selected = e.memory.Index()
	if e.selected < 0 || e.selected >= len(e.tabs) {
		e.selected = 0
	}
	return e
}

// ID identifies the editing session in log output.
func (e *Editor) ID() string {
	return e.id
}

// Get returns the value key will have after commit: the staged value, the
// default for a staged removal, or the store's value.
func (e *Editor) Get(key string) string {
	if c, ok := e.ledger.Value(key); ok {
		if c.Unset {
			return Default(key)
		}
		return c.Value
	}
	return e.store.Get(key)
}

// Has reports whether key will have an explicit value after commit.
func (e *Editor) Has(key string) bool {
	if c, ok := e.ledger.Value(key); ok {
		return !c.Unset
	}
	return e.store.Has(key)
}

// Display returns the text shown for key.
func (e *Editor) Display(key string) string {
	f, ok := Lookup(key)
	if !ok {
		return e.Get(key)
	}
	if v, ok := e.deferred[key]; ok {
		return f.format(v)
	}
	return f.format(e.Get(key))
}

// Checked reports whether the checkbox bound to key is checked.
func (e *Editor) Checked(key string) bool {
	f, ok := Lookup(key)
	if !ok {
		return AsBool(e, key)
	}
	return strings.EqualFold(e.Get(key), f.checkedValue())
}

// Enabled reports whether the widget for key accepts input, given the
// current state of its governing checkboxes.
func (e *Editor) Enabled(key string) bool {
	f, ok := Lookup(key)
	if !ok {
		return false
	}
	for _, r := range f.Requires {
		if e.Checked(r.Key) != r.Checked {
			return false
		}
	}
	return true
}

// Selected returns the label of the selected option of a choice field.
func (e *Editor) Selected(key string) string {
	f, ok := Lookup(key)
	if !ok {
		return ""
	}
	v := e.Get(key)
	if d, ok := e.deferred[key]; ok {
		v = d
	}
	for _, o := range f.Options {
		if strings.EqualFold(o.Value, v) {
			return o.Label
		}
	}
	return ""
}

// Color returns the colour shown by the chooser for key.
func (e *Editor) Color(key string) color.Color {
	if v, ok := e.deferred[key]; ok {
		if c := ParseColor(v); c != nil {
			return c
		}
	}
	return AsColor(e, key)
}

// Commit validates raw for key and stages it. Both the confirm keystroke
// and focus loss of a widget land here.
func (e *Editor) Commit(key, raw string) Result {
	f, err := e.field(key)
	if err != nil {
		return Result{Outcome: Rejected, Err: err}
	}

	switch f.Kind {
	case KindBool:
		checked, perr := strconv.ParseBool(strings.TrimSpace(raw))
		if perr != nil {
			return e.reject(f, fmt.Errorf("%s must be true or false.", f.Label))
		}
		return e.SetChecked(key, checked)
	case KindChoice:
		return e.Choose(key, raw)
	case KindColor:
		c := ParseColor(raw)
		if c == nil {
			return e.reject(f, fmt.Errorf("%s must be a colour.", f.Label))
		}
		if err := e.SetColor(key, c); err != nil {
			return Result{Outcome: Rejected, Err: err}
		}
		return Result{Outcome: Accepted, Display: e.Display(key)}
	case KindFont:
		return Result{Outcome: Rejected, Display: e.Display(key), Err: ErrNotText}
	}

	value := strings.TrimSpace(raw)
	if f.Rule != nil {
		v, rerr := f.Rule(raw)
		if rerr != nil {
			return e.reject(f, rerr)
		}
		value = v
	}
	return e.stage(f, value)
}

// SetChecked stages the state of a checkbox.
func (e *Editor) SetChecked(key string, checked bool) Result {
	f, err := e.field(key)
	if err != nil {
		return Result{Outcome: Rejected, Err: err}
	}
	if f.Kind != KindBool {
		return Result{Outcome: Rejected, Display: e.Display(key), Err: ErrNotText}
	}
	v := f.uncheckedValue()
	if checked {
		v = f.checkedValue()
	}
	return e.stage(f, v)
}

// Choose selects an option of a choice field by label or value.
func (e *Editor) Choose(key, option string) Result {
	f, err := e.field(key)
	if err != nil {
		return Result{Outcome: Rejected, Err: err}
	}
	v, ok := f.optionValue(option)
	if !ok {
		return e.reject(f, fmt.Errorf("%s: %q is not an option.", f.Label, option))
	}
	if f.Deferred {
		e.deferred[key] = v
		return Result{Outcome: Accepted, Display: e.Selected(key)}
	}
	r := e.stage(f, v)
	r.Display = e.Selected(key)
	return r
}

// SetColor records a chooser selection. It is staged on Confirm if it
// differs from the effective value.
func (e *Editor) SetColor(key string, c color.Color) error {
	f, err := e.field(key)
	if err != nil {
		return err
	}
	if f.Kind != KindColor || c == nil {
		return fmt.Errorf("%s: %w", key, ErrNotText)
	}
	e.deferred[key] = FormatColor(c)
	return nil
}

// ResetBackground restores the default background colour.
func (e *Editor) ResetBackground() {
	delete(e.deferred, KeyBackgroundColor)
	e.ledger.Unstage(KeyBackgroundColor)
}

// ResetVariantColors restores the default genotype colours.
func (e *Editor) ResetVariantColors() {
	for _, k := range variantColors {
		delete(e.deferred, k)
		e.ledger.Unstage(k)
	}
}

// SetFont stages the default display font.
func (e *Editor) SetFont(family string, size int, bold, italic bool) error {
	if e.closed {
		return ErrClosed
	}
	family = strings.TrimSpace(family)
	if family == "" || size <= 0 {
		return &ValidationError{Key: KeyFontFamily, Field: "Default font", Message: "Font family and a positive size are required."}
	}
	style := fontPlain
	if bold {
		style |= fontBold
	}
	if italic {
		style |= fontItalic
	}
	e.ledger.Stage(KeyFontFamily, family)
	e.ledger.Stage(KeyFontSize, strconv.Itoa(size))
	e.ledger.Stage(KeyFontAttribute, strconv.Itoa(style))
	return nil
}

// Font returns the font that will be in effect after commit.
func (e *Editor) Font() (family string, size int, bold, italic bool) {
	style := AsInt(e, KeyFontAttribute)
	return e.Get(KeyFontFamily), AsInt(e, KeyFontSize), style&fontBold != 0, style&fontItalic != 0
}

// ResetFont restores the default display font.
func (e *Editor) ResetFont() {
	for _, k := range fontKeys {
		e.ledger.Unstage(k)
	}
}

// ResetServerURLs restores the default genome and data server locations.
func (e *Editor) ResetServerURLs() {
	e.ledger.Unstage(KeyGenomeServerURL)
	e.ledger.Unstage(KeyDataServerURL)
}

// ClearProxySettings stages removal of every proxy key.
func (e *Editor) ClearProxySettings() {
	for _, k := range proxyKeys {
		e.ledger.Unstage(k)
	}
}

// ChooseDataDirectory selects parent as the new home of the data
// directory. It reports false if parent already holds it.
func (e *Editor) ChooseDataDirectory(parent string) (string, bool) {
	if parent == "" || filepath.Clean(parent) == filepath.Dir(e.dataDir) {
		return "", false
	}
	target := filepath.Join(parent, DataDirName)
	e.dataMove.Choose(target)
	return target, true
}

// DataDirectory returns the pending data directory, or the current one.
func (e *Editor) DataDirectory() string {
	if t := e.dataMove.Target(); t != "" {
		return t
	}
	return e.dataDir
}

// ChooseCramCacheDirectory selects parent as the new home of the CRAM
// sequence cache. It reports false if parent already holds it.
func (e *Editor) ChooseCramCacheDirectory(parent string) (string, bool) {
	current := e.CramCacheDirectory()
	if parent == "" || filepath.Clean(parent) == filepath.Dir(current) {
		return "", false
	}
	target := filepath.Join(parent, CramDirName)
	e.newCramDir = target
	e.ledger.Stage(KeyCramCacheDirectory, target)
	return target, true
}

// CramCacheDirectory returns the CRAM cache directory in effect after commit.
func (e *Editor) CramCacheDirectory() string {
	if v := e.Get(KeyCramCacheDirectory); v != "" {
		return v
	}
	return e.cramDir
}

// ClearGenomeCache asks the host to delete cached genomes. It takes effect
// immediately and does not touch the store.
func (e *Editor) ClearGenomeCache() error {
	if err := e.host.ClearGenomeCache(); err != nil {
		e.logger.Printf("prefs[%s]: clearing genome cache: %v", e.id, err)
		e.host.ShowMessage("Error clearing genome cache: " + err.Error())
		return err
	}
	e.host.ShowMessage(cacheCleared)
	return nil
}

// Valid reports whether every edit since the last Confirm attempt passed
// validation.
func (e *Editor) Valid() bool {
	return e.valid
}

// Pending returns the staged keys in sorted order.
func (e *Editor) Pending() []string {
	return e.ledger.Keys()
}

// IsCanceled reports whether the session ended with Cancel.
func (e *Editor) IsCanceled() bool {
	return e.canceled
}

// Closed reports whether the session ended.
func (e *Editor) Closed() bool {
	return e.closed
}

// Cancel ends the session. Nothing is written and no host callbacks run.
func (e *Editor) Cancel() {
	if e.closed {
		return
	}
	e.canceled = true
	e.closed = true
	e.ledger.Clear()
	e.deferred = make(map[string]string)
}

func (e *Editor) field(key string) (Field, error) {
	if e.closed {
		return Field{}, ErrClosed
	}
	f, ok := Lookup(key)
	if !ok {
		return Field{}, fmt.Errorf("%q: %w", key, ErrUnknownKey)
	}
	return f, nil
}

func (e *Editor) stage(f Field, value string) Result {
	if e.ledger.Stage(f.Key, value) {
		return Result{Outcome: Accepted, Display: f.format(value)}
	}
	return Result{Outcome: Unchanged, Display: e.Display(f.Key)}
}

// reject marks the dialog invalid, tells the user why, and hands back the
// last good value for the widget.
func (e *Editor) reject(f Field, err error) Result {
	e.valid = false
	verr := &ValidationError{Key: f.Key, Field: f.Label, Message: err.Error(), Err: err}
	var ve *ValidationError
	if errors.As(err, &ve) {
		verr = ve
	}
	e.host.ShowMessage(verr.Message)
	return Result{Outcome: Rejected, Display: e.Display(f.Key), Err: verr}
}
