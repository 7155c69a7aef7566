// Package query resolves tag-set queries against a catalog's inverted
// index into datasets.
package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/dictor/booru-dataset/internal/catalog"
)

// Query describes one selection over the catalog. A Query is immutable
// once validated and may be resolved any number of times.
type Query struct {
	Required []string
	Excluded []string

	// Optional scalar filters, applied after tag matching.
	Ratings        []catalog.Rating
	Extensions     []string
	MinScore       int
	MinFavs        int
	MinArea        int
	MinDate        time.Time
	SkipIDs        []int
	SkipMD5s       []string
	IncludeDeleted bool

	// TopN keeps only the highest-scored posts, re-sorting the result
	// by score descending. 0 keeps everything in catalog order.
	TopN int
}

// ValidationError reports tags listed as both required and excluded.
type ValidationError struct {
	Tags []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("tags both required and excluded: %s", strings.Join(e.Tags, ", "))
}

// New builds a query over required and excluded tag sets, failing when
// the sets overlap.
func New(required, excluded []string) (Query, error) {
	q := Query{Required: required, Excluded: excluded}
	if err := q.Validate(); err != nil {
		return Query{}, err
	}
	return q, nil
}

// Validate checks the required/excluded sets are disjoint.
func (q Query) Validate() error {
	overlap := lo.Intersect(lo.Uniq(q.Required), lo.Uniq(q.Excluded))
	if len(overlap) > 0 {
		return &ValidationError{Tags: overlap}
	}
	return nil
}

// matcher precomputes the scalar-filter lookups for one resolution.
type matcher struct {
	q        Query
	skipIDs  map[int]bool
	skipMD5s map[string]bool
}

func newMatcher(q Query) *matcher {
	m := &matcher{q: q}
	if len(q.SkipIDs) > 0 {
		m.skipIDs = make(map[int]bool, len(q.SkipIDs))
		for _, id := range q.SkipIDs {
			m.skipIDs[id] = true
		}
	}
	if len(q.SkipMD5s) > 0 {
		m.skipMD5s = make(map[string]bool, len(q.SkipMD5s))
		for _, md5 := range q.SkipMD5s {
			m.skipMD5s[md5] = true
		}
	}
	return m
}

func (m *matcher) matches(p *catalog.Post) bool {
	q := m.q
	if p.IsDeleted && !q.IncludeDeleted {
		return false
	}
	if len(q.Ratings) > 0 && !lo.Contains(q.Ratings, p.Rating) {
		return false
	}
	if len(q.Extensions) > 0 && !lo.Contains(q.Extensions, p.Ext) {
		return false
	}
	if p.Score < q.MinScore {
		return false
	}
	if p.FavCount < q.MinFavs {
		return false
	}
	if q.MinArea > 0 && p.Area() < q.MinArea {
		return false
	}
	if !q.MinDate.IsZero() && p.CreatedAt.Before(q.MinDate) {
		return false
	}
	if m.skipIDs[p.ID] || m.skipMD5s[p.MD5] {
		return false
	}
	return true
}
