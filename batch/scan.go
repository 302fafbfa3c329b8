// ABOUTME: Directory walk that turns eligible MusicXML files into Jobs,
// ABOUTME: skipping anything already recorded done with the same mtime/size

package batch

import (
	"database/sql"
	"io/fs"
	"path/filepath"
	"strings"
	"time"
)

// ScanInputDir walks inputDir for files whose extension (case-insensitive,
// without the leading dot) is in exts, skips any already marked done in db
// with a matching mtime/size, and calls emit for each eligible Job as it is
// discovered rather than collecting them all first, so a caller running the
// walk in its own goroutine can hand jobs to a worker pool while deeper
// subdirectories are still being scanned. Every eligible file that is not
// skipped is upserted into db as pending before it is emitted, so a run that
// is interrupted mid-scan resumes correctly. A non-nil error from emit aborts
// the walk.
func ScanInputDir(db *sql.DB, inputDir string, exts map[string]bool, emit func(Job) error) error {
	return filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		if !exts[ext] {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		rel, err := filepath.Rel(inputDir, path)
		if err != nil {
			rel = path
		}

		mtime := info.ModTime().Unix()
		size := info.Size()

		done, err := IsDone(db, path, mtime, size)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		if err := UpsertPending(db, path, mtime, size, time.Now().Unix()); err != nil {
			return err
		}

		return emit(Job{InputPath: path, RelPath: rel, MTime: mtime, Size: size})
	})
}

// ParseExts turns a comma-separated extension list ("musicxml,xml") into a
// lowercase lookup set.
func ParseExts(raw string) map[string]bool {
	exts := make(map[string]bool)
	for _, e := range strings.Split(raw, ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			exts[e] = true
		}
	}
	return exts
}
