// status_bar.go - Main window status bar with memory, listener and busy state
package main

import (
	"fmt"
	"runtime"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// StatusBar shows memory usage, the batch listener state and a transient
// message. Busy shows an activity indicator while long operations run.
type StatusBar struct {
	memory   *widget.Label
	listener *widget.Label
	message  *widget.Label
	busy     *widget.ProgressBarInfinite

	listenerState func() string
	stopChan      chan struct{}
}

// NewStatusBar creates a status bar. listenerState is polled on each tick.
func NewStatusBar(listenerState func() string) *StatusBar {
	sb := &StatusBar{
		memory:        widget.NewLabel(formatMemStats()),
		listener:      widget.NewLabel(""),
		message:       widget.NewLabel(""),
		busy:          widget.NewProgressBarInfinite(),
		listenerState: listenerState,
		stopChan:      make(chan struct{}),
	}
	sb.memory.TextStyle = fyne.TextStyle{Monospace: true}
	sb.listener.TextStyle = fyne.TextStyle{Monospace: true}
	sb.message.TextStyle = fyne.TextStyle{Italic: true}
	sb.busy.Hide()
	if listenerState != nil {
		sb.listener.SetText(listenerState())
	}
	return sb
}

// Start begins periodic updates
func (sb *StatusBar) Start(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sb.refresh()
			case <-sb.stopChan:
				return
			}
		}
	}()
}

// Stop stops the periodic updates
func (sb *StatusBar) Stop() {
	select {
	case <-sb.stopChan:
		// Already closed
	default:
		close(sb.stopChan)
	}
}

// SetMessage replaces the status message. Safe from any goroutine.
func (sb *StatusBar) SetMessage(msg string) {
	fyne.Do(func() {
		sb.message.SetText(msg)
	})
}

// SetBusy shows or hides the activity indicator. Safe from any goroutine.
func (sb *StatusBar) SetBusy(busy bool) {
	fyne.Do(func() {
		if busy {
			sb.busy.Show()
			sb.busy.Start()
			return
		}
		sb.busy.Stop()
		sb.busy.Hide()
	})
}

func (sb *StatusBar) refresh() {
	mem := formatMemStats()
	state := ""
	if sb.listenerState != nil {
		state = sb.listenerState()
	}
	fyne.Do(func() {
		sb.memory.SetText(mem)
		sb.listener.SetText(state)
	})
}

// Container lays out [message] --- [busy] [listener] | [memory]
func (sb *StatusBar) Container() *fyne.Container {
	return container.NewBorder(
		nil, nil,
		sb.message,
		container.NewHBox(sb.busy, sb.listener, widget.NewSeparator(), sb.memory),
	)
}

// formatMemStats returns a formatted memory statistics string
func formatMemStats() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return fmt.Sprintf("Mem: %.1f MB | GC: %d | Routines: %d",
		float64(m.Alloc)/1024/1024,
		m.NumGC,
		runtime.NumGoroutine(),
	)
}
