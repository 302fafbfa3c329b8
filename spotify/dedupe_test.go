package spotify

import "testing"

func TestDedupeByDurationBucketEmpty(t *testing.T) {
	result := DedupeByDurationBucket(nil)
	if len(result) != 0 {
		t.Errorf("expected empty, got %d", len(result))
	}
}

func TestDedupeByDurationBucketSingle(t *testing.T) {
	result := DedupeByDurationBucket([]RawCandidate{
		{TrackRowID: 1, Popularity: 50, DurationMS: 180000},
	})
	if len(result) != 1 || result[0].TrackRowID != 1 {
		t.Fatalf("got %+v", result)
	}
}

func TestDedupeByDurationBucketSameBucketKeepsHighestPopularity(t *testing.T) {
	result := DedupeByDurationBucket([]RawCandidate{
		{TrackRowID: 1, Popularity: 30, DurationMS: 180000},
		{TrackRowID: 2, Popularity: 80, DurationMS: 181000},
	})
	if len(result) != 1 {
		t.Fatalf("expected 1 survivor, got %d", len(result))
	}
	if result[0].TrackRowID != 2 || result[0].Popularity != 80 {
		t.Errorf("got %+v", result[0])
	}
}

func TestDedupeByDurationBucketDifferentBuckets(t *testing.T) {
	result := DedupeByDurationBucket([]RawCandidate{
		{TrackRowID: 1, Popularity: 50, DurationMS: 180000},
		{TrackRowID: 2, Popularity: 60, DurationMS: 220000},
	})
	if len(result) != 2 {
		t.Fatalf("expected 2, got %d", len(result))
	}
	if result[0].TrackRowID != 2 || result[1].TrackRowID != 1 {
		t.Errorf("expected popularity-descending order, got %+v", result)
	}
}

func TestDedupeByDurationBucketMaxLimit(t *testing.T) {
	candidates := make([]RawCandidate, 30)
	for i := range candidates {
		candidates[i] = RawCandidate{
			TrackRowID: int64(i),
			Popularity: int32(100 - i),
			DurationMS: int64(i) * 10000,
		}
	}
	result := DedupeByDurationBucket(candidates)
	if len(result) != MaxCandidatesPerKey {
		t.Fatalf("expected %d, got %d", MaxCandidatesPerKey, len(result))
	}
	if result[0].Popularity != 100 {
		t.Errorf("got %d", result[0].Popularity)
	}
	if result[19].Popularity != 81 {
		t.Errorf("got %d", result[19].Popularity)
	}
}
