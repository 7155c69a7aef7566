// Package dataset wraps one query result: an ordered sequence of post
// references into a live catalog, plus the derived views built from it
// (captions, tag statistics). Nothing here touches the network.
package dataset

import (
	"github.com/samber/lo"

	"github.com/dictor/booru-dataset/internal/catalog"
)

// Dataset is the ordered subset of posts produced by resolving one
// query. It holds ids only and reads post data from the catalog, so it
// must not outlive it. No duplicate ids by construction.
type Dataset struct {
	cat *catalog.Catalog
	ids []int
}

func New(cat *catalog.Catalog, ids []int) *Dataset {
	return &Dataset{cat: cat, ids: ids}
}

func (d *Dataset) Len() int {
	return len(d.ids)
}

// IDs returns the post ids in dataset order.
func (d *Dataset) IDs() []int {
	return append([]int(nil), d.ids...)
}

// Posts returns the post references in dataset order.
func (d *Dataset) Posts() []*catalog.Post {
	posts := make([]*catalog.Post, 0, len(d.ids))
	for _, id := range d.ids {
		if p, ok := d.cat.Post(id); ok {
			posts = append(posts, p)
		}
	}
	return posts
}

// TagCounts returns the frequency of every tag across the dataset's
// posts. The result is independent of post order.
func (d *Dataset) TagCounts() map[string]int {
	tags := lo.FlatMap(d.Posts(), func(p *catalog.Post, _ int) []string {
		return p.Tags
	})
	return lo.CountValues(tags)
}
