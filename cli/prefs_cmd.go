// prefs_cmd.go - "genoview prefs" commands for editing preferences from a shell
package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kutama/igv/internal/prefs"
)

func newPrefsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Inspect or change preferences",
		Long: `Inspect or change preferences without opening the main window.

Values are validated the same way the preferences dialog validates them.

Examples:
  genoview prefs list                     # Explicitly set preferences
  genoview prefs list --all               # Include defaults
  genoview prefs get port.number
  genoview prefs set sam.hidden_tags "SA, MD"
  genoview prefs unset proxy.host
  genoview prefs clear-proxy`,
	}
	cmd.AddCommand(newPrefsListCmd(opts))
	cmd.AddCommand(newPrefsGetCmd(opts))
	cmd.AddCommand(newPrefsSetCmd(opts))
	cmd.AddCommand(newPrefsUnsetCmd(opts))
	cmd.AddCommand(newPrefsClearProxyCmd(opts))
	return cmd
}

func newPrefsListCmd(opts *options) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore()
			if err != nil {
				return err
			}
			writePrefsTable(cmd.OutOrStdout(), store, all)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include preferences left at their defaults")
	return cmd
}

func newPrefsGetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the effective value of a preference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), store.Get(args[0]))
			return nil
		},
	}
}

func newPrefsSetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Validate and store a preference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore()
			if err != nil {
				return err
			}
			value, err := canonicalValue(args[0], args[1])
			if err != nil {
				return err
			}
			if err := store.Put(args[0], value); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], value)
			return nil
		},
	}
}

func newPrefsUnsetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a preference so its default applies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore()
			if err != nil {
				return err
			}
			if err := store.Remove(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s (default)\n", args[0], store.Get(args[0]))
			return nil
		},
	}
}

func newPrefsClearProxyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-proxy",
		Short: "Remove every proxy preference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore()
			if err != nil {
				return err
			}
			if err := store.ClearProxySettings(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Proxy settings cleared")
			return nil
		},
	}
}

// canonicalValue applies the dialog's validation for key. Checkbox and
// choice fields accept their stored values.
func canonicalValue(key, raw string) (string, error) {
	f, ok := prefs.Lookup(key)
	if !ok {
		return strings.TrimSpace(raw), nil
	}
	switch f.Kind {
	case prefs.KindColor:
		c := prefs.ParseColor(raw)
		if c == nil {
			return "", fmt.Errorf("%s: %q is not a colour", key, raw)
		}
		return prefs.FormatColor(c), nil
	case prefs.KindChoice:
		for _, o := range f.Options {
			if strings.EqualFold(o.Label, raw) || strings.EqualFold(o.Value, raw) {
				return o.Value, nil
			}
		}
		return "", fmt.Errorf("%s: %q is not an option", key, raw)
	}
	if f.Rule == nil {
		return strings.TrimSpace(raw), nil
	}
	return f.Rule(raw)
}

// writePrefsTable prints key/value rows with the values aligned. On a
// terminal, explicitly set values are highlighted and long values are
// cut to the window width.
func writePrefsTable(w io.Writer, store *prefs.Store, all bool) {
	keys := store.Keys()
	if all {
		seen := make(map[string]bool, len(keys))
		for _, k := range keys {
			seen[k] = true
		}
		for _, f := range prefs.Fields() {
			if !seen[f.Key] {
				keys = append(keys, f.Key)
				seen[f.Key] = true
			}
		}
		sort.Strings(keys)
	}

	tty, width := false, 0
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		tty = true
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil {
			width = cols
		}
	}

	keyWidth := 0
	for _, k := range keys {
		if n := runewidth.StringWidth(k); n > keyWidth {
			keyWidth = n
		}
	}

	for _, k := range keys {
		value := store.Get(k)
		if width > keyWidth+4 {
			value = runewidth.Truncate(value, width-keyWidth-3, "...")
		}
		if tty && store.Has(k) {
			value = "\033[1m" + value + "\033[0m"
		}
		fmt.Fprintf(w, "%s  %s\n", runewidth.FillRight(k, keyWidth), value)
	}
}
