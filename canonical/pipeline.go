// ABOUTME: dedupe-lrclib pipeline: reads a source catalog, groups and
// ABOUTME: selects canonical tracks, and writes the searchable output database

package canonical

import (
	"database/sql"
	"fmt"
	"os"

	"go.uber.org/zap"

	"lrclib-match/safety"
)

// DedupeOptions controls one run of the dedupe-lrclib pipeline.
type DedupeOptions struct {
	SourceDB     string
	OutputDB     string
	ArtistFilter []string
	TestQuery    string
}

// RunDedupeLRCLib reads opts.SourceDB, selects one canonical track per
// normalized (title, artist) group, and writes opts.OutputDB with its
// tracks/tracks_fts schema.
func RunDedupeLRCLib(log *zap.SugaredLogger, opts DedupeOptions) error {
	if err := safety.ValidateOutputPath(opts.OutputDB, "enriched", []string{opts.SourceDB}); err != nil {
		return err
	}

	log.Infof("opening source database: %s", opts.SourceDB)
	srcDB, err := sql.Open("sqlite", opts.SourceDB)
	if err != nil {
		return fmt.Errorf("canonical: opening source %s: %w", opts.SourceDB, err)
	}
	defer srcDB.Close()

	if _, err := srcDB.Exec(`PRAGMA mmap_size = 8589934592; PRAGMA cache_size = -1000000; PRAGMA temp_store = MEMORY`); err != nil {
		return fmt.Errorf("canonical: tuning source pragmas: %w", err)
	}

	if len(opts.ArtistFilter) > 0 {
		log.Infof("filtering by artists: %v", opts.ArtistFilter)
	}

	log.Info("phase 1: reading tracks")
	tracks, err := ReadTracks(srcDB, opts.ArtistFilter)
	if err != nil {
		return err
	}
	log.Infof("phase 1: read %d valid tracks", len(tracks))

	groups := Group(tracks)
	log.Infof("found %d unique (title, artist) groups", len(groups))

	log.Info("phase 2: selecting canonical tracks")
	canonicalTracks := SelectAll(groups)
	log.Infof("phase 2: selected %d canonical tracks", len(canonicalTracks))

	if _, err := os.Stat(opts.OutputDB); err == nil {
		if err := os.Remove(opts.OutputDB); err != nil {
			return fmt.Errorf("canonical: removing existing output %s: %w", opts.OutputDB, err)
		}
	}

	log.Infof("creating output database: %s", opts.OutputDB)
	outDB, err := sql.Open("sqlite", opts.OutputDB)
	if err != nil {
		return fmt.Errorf("canonical: creating output %s: %w", opts.OutputDB, err)
	}
	defer outDB.Close()

	log.Info("phase 3: writing output")
	if err := WriteOutput(outDB, canonicalTracks); err != nil {
		return err
	}

	log.Info("phase 4: building FTS index")
	if err := BuildFTSIndex(outDB); err != nil {
		return err
	}

	log.Info("phase 5: optimizing database")
	if err := OptimizeDatabase(outDB); err != nil {
		return err
	}

	log.Infof("extraction complete: %d tracks written", len(canonicalTracks))

	if opts.TestQuery != "" {
		results, err := TestSearch(outDB, opts.TestQuery)
		if err != nil {
			return err
		}
		log.Infof("search results for %q:", opts.TestQuery)
		for _, r := range results {
			album := r.Album
			if album == "" {
				album = "Unknown"
			}
			log.Infof("[%d] %s - %s (%s) [%ds] quality=%d", r.ID, r.Artist, r.Title, album, r.DurationSec, r.Quality)
		}
		if len(results) == 0 {
			log.Info("no results found")
		}
	}

	return nil
}
