package query

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/dictor/booru-dataset/internal/catalog"
	"github.com/dictor/booru-dataset/internal/dataset"
)

// Resolve matches the query against the catalog and returns the
// selected posts in catalog insertion order (score order under TopN).
//
// Required tags are intersected starting from the smallest index bucket,
// so the cost is proportional to the matching buckets, not the catalog.
// The one exception is a query without required tags: that is a full
// catalog scan, O(n), and is logged as such.
func Resolve(c *catalog.Catalog, q Query) (*dataset.Dataset, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	ids := intersectRequired(c, q.Required)
	if ids == nil {
		return dataset.New(c, nil), nil
	}

	if len(q.Excluded) > 0 {
		banned := make(map[int]bool)
		for _, tag := range q.Excluded {
			for _, id := range c.PostsForTag(tag) {
				banned[id] = true
			}
		}
		kept := ids[:0:0]
		for _, id := range ids {
			if !banned[id] {
				kept = append(kept, id)
			}
		}
		ids = kept
	}

	m := newMatcher(q)
	matched := make([]int, 0, len(ids))
	for _, id := range ids {
		p, ok := c.Post(id)
		if ok && m.matches(p) {
			matched = append(matched, id)
		}
	}

	if q.TopN > 0 && q.TopN < len(matched) {
		sort.SliceStable(matched, func(i, j int) bool {
			a, _ := c.Post(matched[i])
			b, _ := c.Post(matched[j])
			return a.Score > b.Score
		})
		matched = matched[:q.TopN]
	}
	return dataset.New(c, matched), nil
}

// intersectRequired returns the candidate ids in catalog order, or nil
// when some required tag matches nothing. An empty required set matches
// the whole catalog.
func intersectRequired(c *catalog.Catalog, required []string) []int {
	if len(required) == 0 {
		logrus.Warnf("query has no required tags, scanning all %d posts", c.Len())
		return c.IDs()
	}
	seen := make(map[string]bool, len(required))
	buckets := make([][]int, 0, len(required))
	for _, tag := range required {
		if seen[tag] {
			continue
		}
		seen[tag] = true
		bucket := c.PostsForTag(tag)
		if len(bucket) == 0 {
			return nil
		}
		buckets = append(buckets, bucket)
	}
	// rarest tag first keeps the working set small
	sort.Slice(buckets, func(i, j int) bool {
		return len(buckets[i]) < len(buckets[j])
	})
	ids := append([]int(nil), buckets[0]...)
	for _, other := range buckets[1:] {
		member := make(map[int]bool, len(other))
		for _, id := range other {
			member[id] = true
		}
		kept := ids[:0]
		for _, id := range ids {
			if member[id] {
				kept = append(kept, id)
			}
		}
		ids = kept
		if len(ids) == 0 {
			return nil
		}
	}
	return ids
}
