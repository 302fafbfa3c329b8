// ABOUTME: pop0 fallback tables: a title-only index and a pre-joined,
// ABOUTME: artist-enriched table for tracks with zero Spotify popularity

package spotify

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"lrclib-match/normalize"
)

const pop0BatchSize = 6000
const pop0EnrichedBatchSize = 3000

type pop0Row struct {
	TitleNorm  string
	TrackRowID int64
	DurationMS int64
	AlbumRowID int64
}

// buildPop0TracksIndex builds a title-only index (no artist join) over
// every popularity-0 track, for the fallback matching path that fetches
// artist data lazily only for candidates that pass the title check.
func buildPop0TracksIndex(log *zap.SugaredLogger, srcDB, outDB *sql.DB, logOnly bool) error {
	log.Info("building pop0_tracks_norm index for pop=0 fallback")

	if _, err := outDB.Exec(`CREATE TABLE IF NOT EXISTS pop0_tracks_norm (
		title_norm   TEXT NOT NULL,
		track_rowid  INTEGER NOT NULL,
		duration_ms  INTEGER NOT NULL,
		album_rowid  INTEGER NOT NULL
	)`); err != nil {
		return fmt.Errorf("spotify: creating pop0_tracks_norm: %w", err)
	}

	var total int64
	if err := srcDB.QueryRow(`SELECT COUNT(*) FROM tracks WHERE popularity = 0`).Scan(&total); err != nil {
		return fmt.Errorf("spotify: counting pop0 tracks: %w", err)
	}
	log.Infof("found %d pop=0 tracks to index", total)

	if err := execBatch(outDB,
		"PRAGMA synchronous = OFF",
		"PRAGMA journal_mode = OFF",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA cache_size = -2000000",
	); err != nil {
		return err
	}

	rows, err := srcDB.Query(`SELECT t.rowid, t.name, t.duration_ms, t.album_rowid
		FROM tracks t WHERE t.popularity = 0`)
	if err != nil {
		return fmt.Errorf("spotify: querying pop0 tracks: %w", err)
	}
	defer rows.Close()

	interner := NewInterner()

	tx, err := outDB.Begin()
	if err != nil {
		return fmt.Errorf("spotify: starting pop0 write transaction: %w", err)
	}

	batch := make([]pop0Row, 0, pop0BatchSize)
	var written int64

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		stmt := buildPop0BatchInsertSQL(len(batch))
		args := make([]any, 0, len(batch)*4)
		for _, r := range batch {
			args = append(args, r.TitleNorm, r.TrackRowID, r.DurationMS, r.AlbumRowID)
		}
		if _, err := tx.Exec(stmt, args...); err != nil {
			return fmt.Errorf("spotify: inserting pop0 batch: %w", err)
		}
		written += int64(len(batch))
		batch = batch[:0]
		return nil
	}

	for rows.Next() {
		var trackRowID, durationMS, albumRowID int64
		var title string
		if err := rows.Scan(&trackRowID, &title, &durationMS, &albumRowID); err != nil {
			tx.Rollback()
			return fmt.Errorf("spotify: scanning pop0 row: %w", err)
		}
		batch = append(batch, pop0Row{
			TitleNorm:  interner.Intern(normalize.Title(title)),
			TrackRowID: trackRowID,
			DurationMS: durationMS,
			AlbumRowID: albumRowID,
		})
		if len(batch) >= pop0BatchSize {
			if err := flush(); err != nil {
				tx.Rollback()
				return err
			}
		}
	}
	if err := rows.Err(); err != nil {
		tx.Rollback()
		return fmt.Errorf("spotify: reading pop0 tracks: %w", err)
	}
	if err := flush(); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("spotify: committing pop0 writes: %w", err)
	}
	log.Infof("wrote %d pop0_tracks_norm rows", written)

	log.Info("creating index on title_norm")
	if _, err := outDB.Exec(`CREATE INDEX IF NOT EXISTS idx_pop0_title ON pop0_tracks_norm(title_norm)`); err != nil {
		return fmt.Errorf("spotify: creating pop0 title index: %w", err)
	}

	log.Info("building pop0_title_counts table")
	if _, err := outDB.Exec(`CREATE TABLE IF NOT EXISTS pop0_title_counts (
		title_norm TEXT PRIMARY KEY,
		cnt INTEGER NOT NULL
	)`); err != nil {
		return fmt.Errorf("spotify: creating pop0_title_counts: %w", err)
	}
	if _, err := outDB.Exec(`INSERT INTO pop0_title_counts
		SELECT title_norm, COUNT(*) as cnt
		FROM pop0_tracks_norm
		GROUP BY title_norm
		HAVING cnt > 500`); err != nil {
		return fmt.Errorf("spotify: populating pop0_title_counts: %w", err)
	}

	var highCountTitles int64
	if err := outDB.QueryRow(`SELECT COUNT(*) FROM pop0_title_counts`).Scan(&highCountTitles); err != nil {
		return fmt.Errorf("spotify: counting pop0_title_counts: %w", err)
	}
	log.Infof("found %d titles with >500 tracks (common-title guardrail)", highCountTitles)

	log.Info("running ANALYZE on pop0 tables")
	if _, err := outDB.Exec(`ANALYZE pop0_tracks_norm`); err != nil {
		return fmt.Errorf("spotify: analyzing pop0_tracks_norm: %w", err)
	}
	if _, err := outDB.Exec(`ANALYZE pop0_title_counts`); err != nil {
		return fmt.Errorf("spotify: analyzing pop0_title_counts: %w", err)
	}

	return execBatch(outDB,
		"PRAGMA synchronous = NORMAL",
		"PRAGMA journal_mode = WAL",
	)
}

type pop0EnrichedRow struct {
	TrackRowID  int64
	TitleNorm   string
	DurationMS  int64
	TrackName   string
	TrackID     string
	ISRC        sql.NullString
	ArtistsJSON string
	AlbumRowID  int64
	AlbumName   sql.NullString
	AlbumType   int32
}

// buildPop0Enriched builds a fully pre-joined table (artists JSON-aggregated
// via SQL rather than an in-memory map) so the extraction path never needs
// a per-track artist fetch for pop=0 candidates.
func buildPop0Enriched(log *zap.SugaredLogger, srcDB, outDB *sql.DB, logOnly bool) error {
	log.Info("building pop0_tracks table with pre-joined artists")

	if _, err := outDB.Exec(`CREATE TABLE IF NOT EXISTS pop0_tracks (
		track_rowid INTEGER NOT NULL,
		title_norm TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		track_name TEXT NOT NULL,
		track_id TEXT NOT NULL,
		isrc TEXT,
		artists_json TEXT NOT NULL,
		album_rowid INTEGER NOT NULL,
		album_name TEXT,
		album_type INTEGER NOT NULL
	)`); err != nil {
		return fmt.Errorf("spotify: creating pop0_tracks: %w", err)
	}

	var total int64
	err := srcDB.QueryRow(`SELECT COUNT(DISTINCT t.rowid)
		FROM tracks t
		JOIN track_artists ta ON ta.track_rowid = t.rowid
		WHERE t.popularity = 0`).Scan(&total)
	if err != nil {
		return fmt.Errorf("spotify: counting pop0 enriched tracks: %w", err)
	}
	log.Infof("found %d pop=0 tracks with artists to enrich", total)

	rows, err := srcDB.Query(`SELECT
			sub.track_rowid,
			sub.track_name,
			sub.duration_ms,
			sub.album_rowid,
			sub.track_id,
			sub.isrc,
			sub.album_name,
			sub.album_type_int,
			'[' || group_concat(sub.artist_quoted, ',') || ']' AS artists_json
		FROM (
			SELECT
				t.rowid AS track_rowid,
				t.name AS track_name,
				t.duration_ms,
				t.album_rowid,
				t.id AS track_id,
				t.external_id_isrc AS isrc,
				al.name AS album_name,
				CASE al.album_type
					WHEN 'album' THEN 0
					WHEN 'single' THEN 1
					WHEN 'compilation' THEN 2
					ELSE 3
				END AS album_type_int,
				json_quote(a.name) AS artist_quoted,
				ta.rowid AS ta_order
			FROM tracks t
			JOIN track_artists ta ON ta.track_rowid = t.rowid
			JOIN artists a ON a.rowid = ta.artist_rowid
			LEFT JOIN albums al ON al.rowid = t.album_rowid
			WHERE t.popularity = 0
			ORDER BY t.rowid, ta.rowid
		) sub
		GROUP BY sub.track_rowid`)
	if err != nil {
		return fmt.Errorf("spotify: querying pop0 enriched tracks: %w", err)
	}
	defer rows.Close()

	if err := execBatch(outDB,
		"PRAGMA synchronous = OFF",
		"PRAGMA journal_mode = OFF",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA cache_size = -2000000",
	); err != nil {
		return err
	}

	tx, err := outDB.Begin()
	if err != nil {
		return fmt.Errorf("spotify: starting pop0 enriched transaction: %w", err)
	}

	interner := NewInterner()
	batch := make([]pop0EnrichedRow, 0, pop0EnrichedBatchSize)
	var written int64

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		stmt := buildPop0EnrichedBatchInsertSQL(len(batch))
		args := make([]any, 0, len(batch)*10)
		for _, r := range batch {
			args = append(args, r.TrackRowID, r.TitleNorm, r.DurationMS, r.TrackName, r.TrackID,
				r.ISRC, r.ArtistsJSON, r.AlbumRowID, r.AlbumName, r.AlbumType)
		}
		if _, err := tx.Exec(stmt, args...); err != nil {
			return fmt.Errorf("spotify: inserting pop0 enriched batch: %w", err)
		}
		written += int64(len(batch))
		batch = batch[:0]
		return nil
	}

	for rows.Next() {
		var r pop0EnrichedRow
		if err := rows.Scan(&r.TrackRowID, &r.TrackName, &r.DurationMS, &r.AlbumRowID,
			&r.TrackID, &r.ISRC, &r.AlbumName, &r.AlbumType, &r.ArtistsJSON); err != nil {
			tx.Rollback()
			return fmt.Errorf("spotify: scanning pop0 enriched row: %w", err)
		}
		r.TitleNorm = interner.Intern(normalize.Title(r.TrackName))
		batch = append(batch, r)
		if len(batch) >= pop0EnrichedBatchSize {
			if err := flush(); err != nil {
				tx.Rollback()
				return err
			}
		}
	}
	if err := rows.Err(); err != nil {
		tx.Rollback()
		return fmt.Errorf("spotify: reading pop0 enriched tracks: %w", err)
	}
	if err := flush(); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("spotify: committing pop0 enriched writes: %w", err)
	}
	log.Infof("wrote %d pop0_tracks rows", written)

	log.Info("creating index on (title_norm, duration_ms)")
	if _, err := outDB.Exec(`CREATE INDEX IF NOT EXISTS idx_pop0_title_duration ON pop0_tracks(title_norm, duration_ms)`); err != nil {
		return fmt.Errorf("spotify: creating pop0 compound index: %w", err)
	}
	if _, err := outDB.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_pop0_track_rowid ON pop0_tracks(track_rowid)`); err != nil {
		return fmt.Errorf("spotify: creating pop0 rowid index: %w", err)
	}

	log.Info("running ANALYZE on pop0_tracks")
	if _, err := outDB.Exec(`ANALYZE pop0_tracks`); err != nil {
		return fmt.Errorf("spotify: analyzing pop0_tracks: %w", err)
	}

	return execBatch(outDB,
		"PRAGMA synchronous = NORMAL",
		"PRAGMA journal_mode = WAL",
	)
}
