package disk

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

type entry struct {
	path    string
	size    int64
	modTime time.Time
}

// walkEntries visits every committed cache file under root, skipping
// in-flight temp files.
func walkEntries(root string, fn func(entry)) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() || strings.HasPrefix(d.Name(), "cache-") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		fn(entry{path: path, size: info.Size(), modTime: info.ModTime()})
		return nil
	})
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func dirSize(root string) (int64, error) {
	var total int64
	err := walkEntries(root, func(e entry) {
		total += e.size
	})
	return total, err
}

func pruneDir(root string, targetBytes int64) (freed, remaining int64, err error) {
	var entries []entry
	if err := walkEntries(root, func(e entry) {
		entries = append(entries, e)
		remaining += e.size
	}); err != nil {
		return 0, 0, err
	}
	if remaining <= targetBytes {
		return 0, remaining, nil
	}

	slices.SortFunc(entries, func(a, b entry) int {
		if c := a.modTime.Compare(b.modTime); c != 0 {
			return c
		}
		return strings.Compare(a.path, b.path)
	})

	for _, e := range entries {
		if remaining <= targetBytes {
			break
		}
		if err := os.Remove(e.path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return freed, remaining, err
		}
		remaining -= e.size
		freed += e.size
	}
	return freed, remaining, nil
}
