// commit_entry.go - Entry that commits its text on Enter and on focus loss
package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"github.com/kutama/igv/internal/prefs"
)

// CommitEntry is a text entry whose value is committed both when the user
// presses Enter and when the entry loses focus
type CommitEntry struct {
	widget.Entry
	onCommit func(text string)
}

// NewCommitEntry creates an entry suited to kind
func NewCommitEntry(kind prefs.Kind, onCommit func(text string)) *CommitEntry {
	e := &CommitEntry{onCommit: onCommit}
	switch kind {
	case prefs.KindPassword:
		e.Password = true
	case prefs.KindMultiline:
		e.MultiLine = true
		e.Wrapping = fyne.TextWrapWord
	}
	e.ExtendBaseWidget(e)
	if e.MultiLine {
		e.SetMinRowsVisible(4)
	}
	e.OnSubmitted = func(text string) {
		e.commit(text)
	}
	return e
}

// FocusLost implements fyne.Focusable
func (e *CommitEntry) FocusLost() {
	e.Entry.FocusLost()
	e.commit(e.Text)
}

func (e *CommitEntry) commit(text string) {
	if e.onCommit != nil && !e.Disabled() {
		e.onCommit(text)
	}
}
