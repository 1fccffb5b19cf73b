package dirmove

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// MoveFiles moves every entry of from into to, creating to if needed. Each
// entry is moved independently; failures are logged and skipped. It returns
// the number of entries moved. A missing from is not an error.
func MoveFiles(from, to string, logger *log.Logger) int {
	if logger == nil {
		logger = log.Default()
	}

	entries, err := os.ReadDir(from)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Printf("dirmove: reading %s: %v", from, err)
		}
		return 0
	}
	if err := os.MkdirAll(to, 0755); err != nil {
		logger.Printf("dirmove: creating %s: %v", to, err)
		return 0
	}

	moved := 0
	for _, e := range entries {
		src := filepath.Join(from, e.Name())
		dst := filepath.Join(to, e.Name())
		if err := moveEntry(src, dst); err != nil {
			logger.Printf("dirmove: moving cached file %s: %v", src, err)
			continue
		}
		moved++
	}
	return moved
}

// MoveDir relocates the directory from to to. to must not exist or be
// empty. When a rename is not possible (for example across file systems)
// the tree is copied and the source removed; a source that cannot be fully
// removed is left in place and reported in the returned error.
func MoveDir(from, to string) error {
	info, err := os.Stat(from)
	if err != nil {
		return fmt.Errorf("source directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source %s is not a directory", from)
	}
	if empty, err := isEmptyOrMissing(to); err != nil {
		return err
	} else if !empty {
		return fmt.Errorf("destination %s is not empty", to)
	}
	if err := os.MkdirAll(filepath.Dir(to), 0755); err != nil {
		return fmt.Errorf("creating destination parent: %w", err)
	}
	// Rename refuses an existing destination on some platforms.
	_ = os.Remove(to)

	if err := os.Rename(from, to); err == nil {
		return nil
	}
	if err := copyTree(from, to); err != nil {
		return fmt.Errorf("copying %s to %s: %w", from, to, err)
	}
	if err := os.RemoveAll(from); err != nil {
		return fmt.Errorf("copied to %s but could not remove %s: %w", to, from, err)
	}
	return nil
}

func isEmptyOrMissing(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return true, nil
		}
		return false, fmt.Errorf("reading destination: %w", err)
	}
	return len(entries) == 0, nil
}

func moveEntry(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		if err := copyTree(src, dst); err != nil {
			return err
		}
	} else if err := copyFile(src, dst, info.Mode()); err != nil {
		return err
	}
	return os.RemoveAll(src)
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		info, err := d.Info()
		if err != nil {
			return err
		}
		if d.IsDir() {
			return os.MkdirAll(target, info.Mode().Perm())
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		return copyFile(path, target, info.Mode())
	})
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
