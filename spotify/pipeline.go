// ABOUTME: normalize-spotify pipeline: streams a Spotify-shaped catalog,
// ABOUTME: normalizes title/artist, and writes a candidate index database

package spotify

import (
	"database/sql"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"

	"lrclib-match/normalize"
	"lrclib-match/safety"
)

// NormalizeOptions controls one run of the normalize-spotify pipeline.
type NormalizeOptions struct {
	SpotifyDB      string
	OutputDB       string
	LogOnly        bool
	SkipPop0Tracks bool
}

type candidateKey struct {
	TitleNorm  string
	ArtistNorm string
}

// RunNormalizeSpotify reads opts.SpotifyDB, normalizes every (title, artist)
// pair, deduplicates duration variants, and writes opts.OutputDB with the
// track_norm candidate index plus (unless skipped) the pop0 fallback
// tables.
func RunNormalizeSpotify(log *zap.SugaredLogger, opts NormalizeOptions) error {
	if err := safety.ValidateOutputPath(opts.OutputDB, "normalized", []string{opts.SpotifyDB}); err != nil {
		return err
	}

	if _, err := os.Stat(opts.OutputDB); err == nil {
		log.Infof("removing existing output file: %s", opts.OutputDB)
		if err := os.Remove(opts.OutputDB); err != nil {
			return fmt.Errorf("spotify: removing existing output %s: %w", opts.OutputDB, err)
		}
	}

	log.Infof("opening spotify database: %s", opts.SpotifyDB)
	srcDB, err := sql.Open("sqlite", opts.SpotifyDB)
	if err != nil {
		return fmt.Errorf("spotify: opening source %s: %w", opts.SpotifyDB, err)
	}
	defer srcDB.Close()

	var total int64
	err = srcDB.QueryRow(`SELECT COUNT(*) FROM tracks t
		JOIN track_artists ta ON ta.track_rowid = t.rowid
		WHERE t.popularity >= 1`).Scan(&total)
	if err != nil {
		return fmt.Errorf("spotify: counting source tracks: %w", err)
	}
	log.Infof("found %d tracks to normalize", total)

	log.Infof("creating output database: %s", opts.OutputDB)
	outDB, err := sql.Open("sqlite", opts.OutputDB)
	if err != nil {
		return fmt.Errorf("spotify: creating output %s: %w", opts.OutputDB, err)
	}
	defer outDB.Close()

	if err := execBatch(outDB,
		"PRAGMA journal_mode = OFF",
		"PRAGMA synchronous = OFF",
		"PRAGMA cache_size = -512000",
		"PRAGMA temp_store = MEMORY",
	); err != nil {
		return err
	}

	if _, err := outDB.Exec(`CREATE TABLE IF NOT EXISTS track_norm (
		title_norm   TEXT NOT NULL,
		artist_norm  TEXT NOT NULL,
		track_rowid  INTEGER NOT NULL,
		popularity   INTEGER NOT NULL,
		duration_ms  INTEGER NOT NULL,
		PRIMARY KEY (title_norm, artist_norm, track_rowid)
	)`); err != nil {
		return fmt.Errorf("spotify: creating track_norm: %w", err)
	}

	log.Info("phase 1: normalizing tracks and collecting candidates")
	interner := NewInterner()
	candidatesMap := make(map[candidateKey][]RawCandidate)

	rows, err := srcDB.Query(`SELECT t.rowid, t.name, a.name, t.popularity, t.duration_ms
		FROM tracks t
		JOIN track_artists ta ON ta.track_rowid = t.rowid
		JOIN artists a ON a.rowid = ta.artist_rowid
		WHERE t.popularity >= 1`)
	if err != nil {
		return fmt.Errorf("spotify: querying source tracks: %w", err)
	}

	var count int64
	for rows.Next() {
		var trackRowID int64
		var title, artist string
		var popularity int32
		var durationMS int64
		if err := rows.Scan(&trackRowID, &title, &artist, &popularity, &durationMS); err != nil {
			rows.Close()
			return fmt.Errorf("spotify: scanning source row: %w", err)
		}

		titleNorm := interner.Intern(normalize.Title(title))
		artistNorm := interner.Intern(normalize.Artist(artist))
		key := candidateKey{TitleNorm: titleNorm, ArtistNorm: artistNorm}

		candidatesMap[key] = append(candidatesMap[key], RawCandidate{
			TrackRowID: trackRowID,
			Popularity: popularity,
			DurationMS: durationMS,
		})

		count++
		if opts.LogOnly && count%500_000 == 0 {
			log.Debugf("read %d/%d (%.1f%%)", count, total, 100.0*float64(count)/float64(total))
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("spotify: reading source tracks: %w", err)
	}
	rows.Close()

	uniqueKeys := len(candidatesMap)
	log.Infof("interned %d unique strings, %d unique keys from %d rows", interner.Len(), uniqueKeys, count)

	log.Infof("phase 2: sorting %d keys for sequential write order", uniqueKeys)
	sortedKeys := make([]candidateKey, 0, uniqueKeys)
	for k := range candidatesMap {
		sortedKeys = append(sortedKeys, k)
	}
	sort.Slice(sortedKeys, func(i, j int) bool {
		if sortedKeys[i].TitleNorm != sortedKeys[j].TitleNorm {
			return sortedKeys[i].TitleNorm < sortedKeys[j].TitleNorm
		}
		return sortedKeys[i].ArtistNorm < sortedKeys[j].ArtistNorm
	})

	log.Infof("phase 2b: deduplicating and writing (%dms buckets, max %d per key, batch %d)",
		DurationBucketMS, MaxCandidatesPerKey, BatchSize)

	tx, err := outDB.Begin()
	if err != nil {
		return fmt.Errorf("spotify: starting write transaction: %w", err)
	}

	fullBatchSQL := buildBatchInsertSQL(BatchSize)
	batch := make([]CandidateRow, 0, BatchSize)
	var written int64

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		sqlStmt := fullBatchSQL
		if len(batch) != BatchSize {
			sqlStmt = buildBatchInsertSQL(len(batch))
		}
		if err := execCandidateBatch(tx, sqlStmt, batch); err != nil {
			return err
		}
		written += int64(len(batch))
		batch = batch[:0]
		return nil
	}

	for _, key := range sortedKeys {
		deduped := DedupeByDurationBucket(candidatesMap[key])
		delete(candidatesMap, key)

		for _, cand := range deduped {
			batch = append(batch, CandidateRow{
				TitleNorm:  key.TitleNorm,
				ArtistNorm: key.ArtistNorm,
				TrackRowID: cand.TrackRowID,
				Popularity: cand.Popularity,
				DurationMS: cand.DurationMS,
			})
			if len(batch) >= BatchSize {
				if err := flush(); err != nil {
					tx.Rollback()
					return err
				}
			}
		}
	}
	if err := flush(); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("spotify: committing candidate writes: %w", err)
	}

	avg := 0.0
	if uniqueKeys > 0 {
		avg = float64(written) / float64(uniqueKeys)
	}
	log.Infof("%d total candidate rows written (avg %.2f per key)", written, avg)

	log.Info("creating indexes")
	if _, err := outDB.Exec(`CREATE INDEX IF NOT EXISTS idx_track_norm_key ON track_norm(title_norm, artist_norm)`); err != nil {
		return fmt.Errorf("spotify: creating key index: %w", err)
	}
	if _, err := outDB.Exec(`CREATE INDEX IF NOT EXISTS idx_track_norm_title ON track_norm(title_norm)`); err != nil {
		return fmt.Errorf("spotify: creating title index: %w", err)
	}

	log.Info("running ANALYZE")
	if _, err := outDB.Exec(`ANALYZE`); err != nil {
		return fmt.Errorf("spotify: running ANALYZE: %w", err)
	}

	if !opts.SkipPop0Tracks {
		if err := buildPop0TracksIndex(log, srcDB, outDB, opts.LogOnly); err != nil {
			return err
		}
		if err := buildPop0Enriched(log, srcDB, outDB, opts.LogOnly); err != nil {
			return err
		}
	}

	return nil
}

func execBatch(db *sql.DB, stmts ...string) error {
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("spotify: executing %q: %w", stmt, err)
		}
	}
	return nil
}

func execCandidateBatch(tx *sql.Tx, stmt string, batch []CandidateRow) error {
	args := make([]any, 0, len(batch)*5)
	for _, row := range batch {
		args = append(args, row.TitleNorm, row.ArtistNorm, row.TrackRowID, row.Popularity, row.DurationMS)
	}
	if _, err := tx.Exec(stmt, args...); err != nil {
		return fmt.Errorf("spotify: inserting candidate batch: %w", err)
	}
	return nil
}
