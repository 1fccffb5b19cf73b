package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"github.com/spf13/cobra"

	"github.com/kutama/igv/internal/prefs"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// options holds flags shared by every command
type options struct {
	prefsPath string
	tab       string
	out       io.Writer
}

func (o *options) openStore() (*prefs.Store, error) {
	path := o.prefsPath
	if path == "" {
		path = GetPrefsPath()
	}
	store, err := prefs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening preferences: %w", err)
	}
	return store, nil
}

func newRootCmd() *cobra.Command {
	opts := &options{out: os.Stdout}

	rootCmd := &cobra.Command{
		Use:   "genoview",
		Short: "Desktop genomics viewer",
		Long: `GenoView is a desktop genome browser. Run without a command to open
the main window; use "genoview prefs" to inspect or edit preferences from the
shell.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(opts)
		},
	}
	rootCmd.SetOut(opts.out)

	rootCmd.PersistentFlags().StringVar(&opts.prefsPath, "prefs", "", "Path to the preferences file (default: ~/.genoview/prefs.yaml)")
	rootCmd.Flags().StringVar(&opts.tab, "preferences", "", "Open the preferences dialog on the named tab at startup")

	rootCmd.AddCommand(newPrefsCmd(opts))
	return rootCmd
}

func runGUI(opts *options) error {
	logger := newLogger()
	logger.Printf("Starting GenoView on %s", runtime.GOOS)

	store, err := opts.openStore()
	if err != nil {
		return err
	}

	myApp := app.NewWithID("org.genoview.desktop")
	viewer, err := NewViewer(myApp, store, logger)
	if err != nil {
		return err
	}
	myWindow := viewer.Window()
	viewer.status.Start(2 * time.Second)

	myWindow.SetCloseIntercept(func() {
		dialog.ShowConfirm(
			"Close GenoView",
			"Quit GenoView?",
			func(confirmed bool) {
				if confirmed {
					viewer.Shutdown()
					myApp.Quit()
				}
			},
			myWindow,
		)
	})

	if opts.tab != "" {
		myApp.Lifecycle().SetOnStarted(func() {
			viewer.ShowPreferences(opts.tab)
		})
	}

	logger.Printf("Preferences: %s", store.Path())
	myWindow.ShowAndRun()
	return nil
}

// newLogger writes to stderr and, when possible, to genoview.log in the
// logs directory
func newLogger() *log.Logger {
	dir := GetLogsDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("Warning: Could not create logs directory %s: %v", dir, err)
		return log.Default()
	}
	f, err := os.OpenFile(filepath.Join(dir, "genoview.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Printf("Warning: Could not open log file: %v", err)
		return log.Default()
	}
	return log.New(io.MultiWriter(os.Stderr, f), "", log.LstdFlags)
}
