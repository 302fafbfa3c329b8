// ABOUTME: Streams the LRCLIB-shaped source database, applying the
// ABOUTME: synced-lyrics/duration-window/garbage-album rejection up front

package canonical

import (
	"database/sql"
	"fmt"
	"strings"
)

// ReadTracks streams every track with synced lyrics and a plausible song
// length (45s-600s) from conn, optionally restricted to artists whose name
// contains one of artistFilter's entries (case-insensitive). Garbage albums
// and known-broken titles are dropped before they ever reach grouping.
func ReadTracks(conn *sql.DB, artistFilter []string) ([]Track, error) {
	baseWhere := `t.last_lyrics_id IN (SELECT id FROM lyrics WHERE has_synced_lyrics = 1)
		AND t.duration > 45 AND t.duration < 600`

	var query string
	var args []any
	if len(artistFilter) > 0 {
		clauses := make([]string, len(artistFilter))
		for i, a := range artistFilter {
			clauses[i] = "LOWER(t.artist_name) LIKE ?"
			args = append(args, "%"+strings.ToLower(strings.TrimSpace(a))+"%")
		}
		query = fmt.Sprintf(`SELECT t.id, t.name, t.artist_name, t.album_name, t.duration
			FROM tracks t WHERE %s AND (%s)`, baseWhere, strings.Join(clauses, " OR "))
	} else {
		query = fmt.Sprintf(`SELECT t.id, t.name, t.artist_name, t.album_name, t.duration
			FROM tracks t WHERE %s`, baseWhere)
	}

	rows, err := conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("canonical: querying source tracks: %w", err)
	}
	defer rows.Close()

	var tracks []Track
	for rows.Next() {
		var id int64
		var title, artist string
		var album sql.NullString
		var durationFloat float64
		if err := rows.Scan(&id, &title, &artist, &album, &durationFloat); err != nil {
			return nil, fmt.Errorf("canonical: scanning source row: %w", err)
		}

		track := Track{
			ID:          id,
			Title:       title,
			Artist:      artist,
			Album:       album.String,
			DurationSec: int64(durationFloat + 0.5),
		}

		if IsGarbageAlbum(track.Album) || ShouldSkipTitle(track.Title) {
			continue
		}
		tracks = append(tracks, track)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("canonical: reading source tracks: %w", err)
	}

	return tracks, nil
}
