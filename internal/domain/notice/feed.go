package notice

import "sort"

// Feed is the append-only, id-deduplicated local notice state. Entries are
// kept ordered per Notice.Before. Feed is not safe for concurrent use; the
// owning service serializes access.
type Feed struct {
	entries []Notice
	seen    map[string]struct{}
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{seen: make(map[string]struct{})}
}

// Merge folds incoming notices into the feed, dropping entries whose id has
// already been merged. It returns the notices actually inserted, in feed
// order; the caller may surface those as transient notifications. Merging the
// same input twice is a no-op the second time.
func (f *Feed) Merge(incoming ...Notice) []Notice {
	var inserted []Notice
	for _, n := range incoming {
		if n.ID == "" {
			continue
		}
		if _, dup := f.seen[n.ID]; dup {
			continue
		}
		f.seen[n.ID] = struct{}{}
		f.entries = append(f.entries, n)
		inserted = append(inserted, n)
	}
	if len(inserted) == 0 {
		return nil
	}
	sort.Slice(f.entries, func(i, j int) bool { return f.entries[i].Before(f.entries[j]) })
	sort.Slice(inserted, func(i, j int) bool { return inserted[i].Before(inserted[j]) })
	return inserted
}

// All returns a copy of the feed in display order.
func (f *Feed) All() []Notice {
	out := make([]Notice, len(f.entries))
	copy(out, f.entries)
	return out
}

// Len returns the number of merged notices.
func (f *Feed) Len() int { return len(f.entries) }
