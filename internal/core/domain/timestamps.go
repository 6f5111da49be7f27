package domain

import (
	"sort"
	"strings"
	"time"
)

// StoreResolution is the precision timestamps are persisted with.
const StoreResolution = time.Millisecond

// Timestamps is an append-only sequence kept sorted ascending with no two
// entries equal at StoreResolution.
type Timestamps []time.Time

// NewTimestamps normalises arbitrary input into a Timestamps sequence.
func NewTimestamps(values ...time.Time) Timestamps {
	out := make(Timestamps, 0, len(values))
	for _, v := range values {
		if v.IsZero() {
			continue
		}
		out = append(out, v.UTC().Truncate(StoreResolution))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })

	deduped := out[:0]
	for i, v := range out {
		if i > 0 && v.Equal(deduped[len(deduped)-1]) {
			continue
		}
		deduped = append(deduped, v)
	}
	return deduped
}

// Append returns a new sequence with t merged in.
func (ts Timestamps) Append(t time.Time) Timestamps {
	merged := make([]time.Time, 0, len(ts)+1)
	merged = append(merged, ts...)
	merged = append(merged, t)
	return NewTimestamps(merged...)
}

func (ts Timestamps) Last() *time.Time {
	if len(ts) == 0 {
		return nil
	}
	last := ts[len(ts)-1]
	return &last
}

// MergeDocuments appends new URIs to existing ones, keeping first-seen order
// and dropping blanks and duplicates.
func MergeDocuments(existing []string, added ...string) []string {
	seen := make(map[string]struct{}, len(existing)+len(added))
	out := make([]string, 0, len(existing)+len(added))
	for _, list := range [][]string{existing, added} {
		for _, doc := range list {
			doc = strings.TrimSpace(doc)
			if doc == "" {
				continue
			}
			if _, ok := seen[doc]; ok {
				continue
			}
			seen[doc] = struct{}{}
			out = append(out, doc)
		}
	}
	return out
}
