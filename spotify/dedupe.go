// ABOUTME: Duration-bucket deduplication for candidates sharing one
// ABOUTME: (title_norm, artist_norm) key, keeping the top-K by popularity

package spotify

import "sort"

// DurationBucketMS is the width of a duration bucket in milliseconds.
// Candidates whose durations fall in the same bucket are considered
// variants of the same recording (radio edit vs album version jitter)
// and are deduplicated to the highest-popularity one.
const DurationBucketMS = 5000

// MaxCandidatesPerKey bounds how many rows survive per (title_norm,
// artist_norm) key, to keep the index size bounded while preserving
// genuine duration diversity (singles vs extended mixes, etc.).
const MaxCandidatesPerKey = 20

// BatchSize is the number of rows per multi-value INSERT statement.
const BatchSize = 6000

// RawCandidate is one (track, popularity, duration) triple seen for a
// given normalized key, before duration-bucket deduplication.
type RawCandidate struct {
	TrackRowID int64
	Popularity int32
	DurationMS int64
}

// DedupeByDurationBucket groups candidates by duration bucket, keeps the
// highest-popularity candidate per bucket, and returns up to
// MaxCandidatesPerKey of them sorted by popularity descending.
func DedupeByDurationBucket(candidates []RawCandidate) []RawCandidate {
	if len(candidates) == 0 {
		return nil
	}

	buckets := make(map[int64]RawCandidate, len(candidates))
	for _, cand := range candidates {
		bucket := cand.DurationMS / DurationBucketMS
		existing, ok := buckets[bucket]
		if !ok || existing.Popularity < cand.Popularity {
			buckets[bucket] = cand
		}
	}

	result := make([]RawCandidate, 0, len(buckets))
	for _, cand := range buckets {
		result = append(result, cand)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Popularity > result[j].Popularity
	})

	if len(result) > MaxCandidatesPerKey {
		result = result[:MaxCandidatesPerKey]
	}
	return result
}
