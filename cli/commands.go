// commands.go - Batch commands accepted on the listener port
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kutama/igv/internal/cmdlistener"
	"github.com/kutama/igv/internal/prefs"
)

// newBatchHandler returns the handler serving one command per line.
// Replies are single lines; failures start with "ERROR".
func newBatchHandler(v *Viewer) cmdlistener.Handler {
	return cmdlistener.HandlerFunc(func(_ context.Context, line string) string {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			return ""
		}
		args := fields[1:]

		switch strings.ToLower(fields[0]) {
		case "echo":
			return "echo"
		case "preference", "preferences":
			return v.batchPreference(args)
		case "probe":
			if len(args) != 1 {
				return "ERROR: usage: probe <id>"
			}
			genes, err := v.lookupProbe(args[0])
			if err != nil {
				return "ERROR: " + err.Error()
			}
			return strings.Join(genes, ",")
		case "refresh":
			v.Refresh()
			return "OK"
		default:
			return fmt.Sprintf("ERROR: unknown command %q", fields[0])
		}
	})
}

// batchPreference reads a preference, or writes it straight to the store
// when a value is given
func (v *Viewer) batchPreference(args []string) string {
	switch len(args) {
	case 0:
		return "ERROR: usage: preference <key> [value]"
	case 1:
		return v.store.Get(args[0])
	}
	key, value := args[0], strings.Join(args[1:], " ")
	if f, ok := prefs.Lookup(key); ok && f.Rule != nil {
		canonical, err := f.Rule(value)
		if err != nil {
			return "ERROR: " + err.Error()
		}
		value = canonical
	}
	if err := v.store.Put(key, value); err != nil {
		return "ERROR: " + err.Error()
	}
	return "OK"
}

// lookupProbe maps a probe id to genes. With probe mapping enabled the
// mapping file is loaded on first use and cached until cleared.
func (v *Viewer) lookupProbe(id string) ([]string, error) {
	if !v.store.GetAsBool(prefs.KeyProbeMapToGenes) {
		return nil, fmt.Errorf("probe mapping is disabled")
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.probes) == 0 && v.store.GetAsBool(prefs.KeyProbeUseFile) {
		path := v.store.Get(prefs.KeyProbeFile)
		if path == "" {
			return nil, fmt.Errorf("no probe mapping file")
		}
		mappings, err := readProbeFile(path)
		if err != nil {
			return nil, err
		}
		v.probes = mappings
	}
	genes, ok := v.probes[strings.ToLower(id)]
	if !ok {
		return nil, fmt.Errorf("probe %s not mapped", id)
	}
	return genes, nil
}

// readProbeFile parses "probe<TAB>gene[,gene...]" lines. Lines starting
// with # are skipped.
func readProbeFile(path string) (map[string][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening probe file: %w", err)
	}
	defer f.Close()

	mappings := make(map[string][]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		probe, genes, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		for _, g := range strings.Split(genes, ",") {
			if g = strings.TrimSpace(g); g != "" {
				key := strings.ToLower(strings.TrimSpace(probe))
				mappings[key] = append(mappings[key], g)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading probe file: %w", err)
	}
	return mappings, nil
}
