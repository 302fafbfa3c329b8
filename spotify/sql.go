// ABOUTME: Multi-value INSERT statement construction for batched writes
// ABOUTME: into the normalized candidate index

package spotify

import "strings"

// CandidateRow is one fully-normalized row ready for INSERT into
// track_norm.
type CandidateRow struct {
	TitleNorm  string
	ArtistNorm string
	TrackRowID int64
	Popularity int32
	DurationMS int64
}

// buildBatchInsertSQL builds a single "INSERT OR IGNORE ... VALUES
// (?,?,?,?,?),(?,?,?,?,?),..." statement for numRows rows. Building the SQL
// once per batch size (instead of once per row) lets the driver's prepared
// statement cache do its job.
func buildBatchInsertSQL(numRows int) string {
	if numRows == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("INSERT OR IGNORE INTO track_norm (title_norm, artist_norm, track_rowid, popularity, duration_ms) VALUES ")
	for i := 0; i < numRows; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString("(?,?,?,?,?)")
	}
	return b.String()
}

func buildPop0BatchInsertSQL(numRows int) string {
	if numRows == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("INSERT INTO pop0_tracks_norm (title_norm, track_rowid, duration_ms, album_rowid) VALUES ")
	for i := 0; i < numRows; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString("(?,?,?,?)")
	}
	return b.String()
}

func buildPop0EnrichedBatchInsertSQL(numRows int) string {
	if numRows == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("INSERT OR IGNORE INTO pop0_tracks " +
		"(track_rowid, title_norm, duration_ms, track_name, track_id, isrc, artists_json, album_rowid, album_name, album_type) VALUES ")
	for i := 0; i < numRows; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString("(?,?,?,?,?,?,?,?,?,?)")
	}
	return b.String()
}
