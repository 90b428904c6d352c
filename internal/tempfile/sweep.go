package tempfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Sweep removes regular files in dir that carry Prefix and were last modified
// before now minus maxAge. It returns the number of files removed.
func Sweep(dir string, maxAge time.Duration, now time.Time) (int, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read temp dir: %w", err)
	}

	cutoff := now.Add(-maxAge)
	removed := 0
	var errList []error
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !strings.HasPrefix(entry.Name(), Prefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := removeFile(filepath.Join(dir, entry.Name())); err != nil {
			errList = append(errList, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errList...)
}
