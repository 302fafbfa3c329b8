// ABOUTME: Atomic write-tempfile-then-rename helper for LRC output files

package musicxml

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteAtomic writes lines to path by first writing a .tmp sibling and then
// renaming it into place, so a crash mid-write never leaves a half-written
// file at the target path.
func WriteAtomic(path string, lines []string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("musicxml: creating %s: %w", dir, err)
		}
	}

	tmp := strings.TrimSuffix(path, filepath.Ext(path)) + ".lrc.tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("musicxml: creating %s: %w", tmp, err)
	}

	w := bufio.NewWriterSize(f, 256*1024)
	for i, line := range lines {
		if i > 0 {
			if _, err := w.WriteString("\n"); err != nil {
				_ = f.Close()
				return fmt.Errorf("musicxml: writing %s: %w", tmp, err)
			}
		}
		if _, err := w.WriteString(line); err != nil {
			_ = f.Close()
			return fmt.Errorf("musicxml: writing %s: %w", tmp, err)
		}
	}
	if _, err := w.WriteString("\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("musicxml: writing %s: %w", tmp, err)
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("musicxml: flushing %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("musicxml: closing %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("musicxml: renaming %s to %s: %w", tmp, path, err)
	}
	return nil
}
