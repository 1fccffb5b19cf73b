package prefs

import (
	"strings"
	"sync"
)

// TabMemory remembers the tab that was selected when the dialog was last
// confirmed. One value is shared by every editor it is passed to; it is not
// persisted.
type TabMemory struct {
	mu    sync.Mutex
	index int
}

// Index returns the remembered tab index.
func (m *TabMemory) Index() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index
}

// Set records index as the tab to open next time.
func (m *TabMemory) Set(index int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.index = index
}

// Tabs returns the tab titles shown for the store's current state. The
// Database tab is only present when database access is enabled.
func (e *Editor) Tabs() []string {
	return e.tabs
}

func visibleTabs(r Reader) []string {
	out := make([]string, 0, len(allTabs))
	for _, t := range allTabs {
		if t == TabDatabase && !AsBool(r, KeyDBEnabled) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// SelectTab selects the tab whose title matches name, ignoring case.
// Unknown names leave the selection unchanged.
func (e *Editor) SelectTab(name string) {
	for i, t := range e.tabs {
		if strings.EqualFold(t, name) {
			e.selected = i
			return
		}
	}
}

// SelectIndex selects the tab at i. Out-of-range indexes are ignored.
func (e *Editor) SelectIndex(i int) {
	if i >= 0 && i < len(e.tabs) {
		e.selected = i
	}
}

// SelectedIndex returns the index of the selected tab.
func (e *Editor) SelectedIndex() int {
	return e.selected
}

// SelectedTab returns the title of the selected tab.
func (e *Editor) SelectedTab() string {
	return e.tabs[e.selected]
}
