// ABOUTME: Writes the canonical selection to an output SQLite database with
// ABOUTME: a porter-tokenized FTS5 index over (title, artist)

package canonical

import (
	"database/sql"
	"fmt"
)

// writeBatchSize bounds how many rows go in one transaction, matching the
// teacher's bulk-write batching style used elsewhere in this module.
const writeBatchSize = 10000

// WriteOutput creates the tracks/tracks_fts schema in conn and writes
// tracks in batched transactions.
func WriteOutput(conn *sql.DB, tracks []ScoredTrack) error {
	_, err := conn.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;
		PRAGMA cache_size = -64000;
		PRAGMA temp_store = MEMORY;
	`)
	if err != nil {
		return fmt.Errorf("canonical: tuning output pragmas: %w", err)
	}

	if _, err := conn.Exec(`CREATE TABLE tracks (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		artist TEXT NOT NULL,
		album TEXT,
		duration_sec INTEGER NOT NULL,
		title_norm TEXT NOT NULL,
		artist_norm TEXT NOT NULL,
		quality INTEGER NOT NULL
	)`); err != nil {
		return fmt.Errorf("canonical: creating tracks table: %w", err)
	}

	if _, err := conn.Exec(`CREATE VIRTUAL TABLE tracks_fts USING fts5(
		title, artist,
		content='tracks',
		content_rowid='id',
		tokenize='porter'
	)`); err != nil {
		return fmt.Errorf("canonical: creating tracks_fts table: %w", err)
	}

	for start := 0; start < len(tracks); start += writeBatchSize {
		end := start + writeBatchSize
		if end > len(tracks) {
			end = len(tracks)
		}
		if err := writeChunk(conn, tracks[start:end]); err != nil {
			return err
		}
	}

	return nil
}

func writeChunk(conn *sql.DB, chunk []ScoredTrack) error {
	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("canonical: starting write transaction: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO tracks
		(id, title, artist, album, duration_sec, title_norm, artist_norm, quality)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("canonical: preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, st := range chunk {
		var album any
		if st.Track.Album != "" {
			album = st.Track.Album
		}
		if _, err := stmt.Exec(st.Track.ID, st.Track.Title, st.Track.Artist, album,
			st.Track.DurationSec, st.TitleNorm, st.ArtistNorm, st.Quality); err != nil {
			tx.Rollback()
			return fmt.Errorf("canonical: inserting track %d: %w", st.Track.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("canonical: committing track batch: %w", err)
	}
	return nil
}

// BuildFTSIndex populates tracks_fts from the already-written tracks table.
func BuildFTSIndex(conn *sql.DB) error {
	if _, err := conn.Exec(`INSERT INTO tracks_fts(tracks_fts) VALUES('rebuild')`); err != nil {
		return fmt.Errorf("canonical: rebuilding FTS index: %w", err)
	}
	return nil
}

// OptimizeDatabase reclaims space and refreshes the query planner's
// statistics after a bulk write.
func OptimizeDatabase(conn *sql.DB) error {
	if _, err := conn.Exec(`VACUUM`); err != nil {
		return fmt.Errorf("canonical: running VACUUM: %w", err)
	}
	if _, err := conn.Exec(`ANALYZE`); err != nil {
		return fmt.Errorf("canonical: running ANALYZE: %w", err)
	}
	return nil
}

// SearchResult is one row of a tracks_fts full-text query.
type SearchResult struct {
	ID          int64
	Title       string
	Artist      string
	Album       string
	DurationSec int64
	Quality     int32
}

// TestSearch runs a MATCH query against tracks_fts, ordered by quality, and
// returns up to the top 10 results.
func TestSearch(conn *sql.DB, query string) ([]SearchResult, error) {
	rows, err := conn.Query(`
		SELECT t.id, t.title, t.artist, t.album, t.duration_sec, t.quality
		FROM tracks_fts fts
		JOIN tracks t ON fts.rowid = t.id
		WHERE tracks_fts MATCH ?
		ORDER BY t.quality DESC
		LIMIT 10`, query)
	if err != nil {
		return nil, fmt.Errorf("canonical: running test search: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		var album sql.NullString
		if err := rows.Scan(&r.ID, &r.Title, &r.Artist, &album, &r.DurationSec, &r.Quality); err != nil {
			return nil, fmt.Errorf("canonical: scanning search result: %w", err)
		}
		r.Album = album.String
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("canonical: reading search results: %w", err)
	}
	return results, nil
}
