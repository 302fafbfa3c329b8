// ABOUTME: Groups tracks by normalized (title, artist) key and picks one
// ABOUTME: canonical representative per group, scored by ComputeQualityScore

package canonical

import (
	"sort"
	"sync"

	"lrclib-match/normalize"
	"lrclib-match/pool"
)

// Track is one source row eligible for canonical selection.
type Track struct {
	ID          int64
	Title       string
	Artist      string
	Album       string
	DurationSec int64
}

// ScoredTrack is a Track that has been picked as the canonical
// representative of its normalized group, carrying the normalized key and
// the score that won it.
type ScoredTrack struct {
	Track      Track
	TitleNorm  string
	ArtistNorm string
	Quality    int32
}

// NormKey identifies a group of variants of the same conceptual song.
type NormKey struct {
	TitleNorm  string
	ArtistNorm string
}

// Group buckets tracks by their normalized (title, artist) key.
func Group(tracks []Track) map[NormKey][]Track {
	groups := make(map[NormKey][]Track)
	for _, t := range tracks {
		key := NormKey{
			TitleNorm:  normalize.Title(t.Title),
			ArtistNorm: normalize.Artist(t.Artist),
		}
		groups[key] = append(groups[key], t)
	}
	return groups
}

// SelectCanonical scores every track in a group and returns the highest
// quality one, ties broken in favor of the lowest ID (older rows are more
// likely to be the original upload, not a reposted duplicate).
func SelectCanonical(tracks []Track) (ScoredTrack, bool) {
	if len(tracks) == 0 {
		return ScoredTrack{}, false
	}

	durations := make([]int64, len(tracks))
	for i, t := range tracks {
		durations[i] = t.DurationSec
	}
	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	median := durations[len(durations)/2]

	titleNorm := normalize.Title(tracks[0].Title)
	artistNorm := normalize.Artist(tracks[0].Artist)

	best := ScoredTrack{
		Track:      tracks[0],
		TitleNorm:  titleNorm,
		ArtistNorm: artistNorm,
		Quality:    ComputeQualityScore(tracks[0], median, true),
	}

	for _, t := range tracks[1:] {
		quality := ComputeQualityScore(t, median, true)
		switch {
		case quality > best.Quality:
			best = ScoredTrack{Track: t, TitleNorm: titleNorm, ArtistNorm: artistNorm, Quality: quality}
		case quality == best.Quality && t.ID < best.Track.ID:
			best = ScoredTrack{Track: t, TitleNorm: titleNorm, ArtistNorm: artistNorm, Quality: quality}
		}
	}

	return best, true
}

// SelectAll runs SelectCanonical over every group concurrently, bounded to
// the host's CPU count, since groups are scored independently of each
// other. Result order is unspecified; callers that need a stable order
// should sort the returned slice.
func SelectAll(groups map[NormKey][]Track) []ScoredTrack {
	wp := pool.NewWorkerPool(len(groups))

	var mu sync.Mutex
	out := make([]ScoredTrack, 0, len(groups))

	for _, tracks := range groups {
		tracks := tracks
		wp.Submit(func() {
			scored, ok := SelectCanonical(tracks)
			if !ok {
				return
			}
			mu.Lock()
			out = append(out, scored)
			mu.Unlock()
		})
	}

	wp.Wait()
	wp.Close()

	return out
}
