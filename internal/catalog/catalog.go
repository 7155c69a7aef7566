// Package catalog holds an immutable snapshot of a booru dump: the post
// records, a tag -> post-id inverted index built once at load time, and
// the optional tag table with per-tag categories.
package catalog

import (
	"sort"

	"github.com/samber/lo"
)

// Catalog owns the posts loaded from one dump. It is built once by Load
// and never mutated afterwards, so all read methods are safe for
// concurrent use without locking. Reloading means building a brand new
// Catalog; the index is never updated incrementally.
type Catalog struct {
	posts    []Post
	byID     map[int]*Post
	tagIndex map[string][]int
	tagInfo  map[string]Tag
}

// Load validates records and builds the inverted index in a single pass.
// It fails with SchemaError on a missing or malformed required field,
// and with DuplicateIDError when two records share an id. The tags table
// is optional; pass nil when the dump has no tags file.
func Load(posts []Post, tags []Tag) (*Catalog, error) {
	c := &Catalog{
		posts:    make([]Post, len(posts)),
		byID:     make(map[int]*Post, len(posts)),
		tagIndex: make(map[string][]int),
	}
	copy(c.posts, posts)
	for i := range c.posts {
		p := &c.posts[i]
		if p.ID <= 0 {
			return nil, &SchemaError{Row: i, Field: "id", Reason: "missing or non-positive"}
		}
		if len(p.Tags) == 0 {
			return nil, &SchemaError{Row: i, Field: "tags", Reason: "post has no tags"}
		}
		if p.Ext == "" {
			return nil, &SchemaError{Row: i, Field: "file_ext", Reason: "missing extension"}
		}
		if _, exists := c.byID[p.ID]; exists {
			return nil, &DuplicateIDError{ID: p.ID}
		}
		p.Tags = lo.Uniq(p.Tags)
		c.byID[p.ID] = p
		for _, tag := range p.Tags {
			c.tagIndex[tag] = append(c.tagIndex[tag], p.ID)
		}
	}
	if tags != nil {
		c.tagInfo = make(map[string]Tag, len(tags))
		for _, tag := range tags {
			c.tagInfo[tag.Name] = tag
		}
	}
	return c, nil
}

func (c *Catalog) Len() int {
	return len(c.posts)
}

// Post looks a post up by id.
func (c *Catalog) Post(id int) (*Post, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// IDs returns all post ids in catalog insertion order.
func (c *Catalog) IDs() []int {
	ids := make([]int, len(c.posts))
	for i := range c.posts {
		ids[i] = c.posts[i].ID
	}
	return ids
}

// PostsForTag returns the ids of all posts bearing the tag, in catalog
// insertion order. Unknown tags yield an empty result, not an error.
// The returned slice is owned by the catalog and must not be mutated.
func (c *Catalog) PostsForTag(tag string) []int {
	return c.tagIndex[tag]
}

// TagInfo looks a tag up in the tags table, if one was loaded.
func (c *Catalog) TagInfo(name string) (Tag, bool) {
	tag, ok := c.tagInfo[name]
	return tag, ok
}

// FilterKnown returns the subset of tags present in the tags table.
func (c *Catalog) FilterKnown(tags []string) []string {
	return lo.Filter(tags, func(tag string, _ int) bool {
		_, ok := c.tagInfo[tag]
		return ok
	})
}

// ReorderTags orders a tag list by category: categories appear in the
// given order (DefaultCategoryOrder when nil), alphabetical within one
// category. Tags missing from the tags table keep their input order and
// go last. Without a tags table the input order is returned unchanged.
func (c *Catalog) ReorderTags(tags []string, order []TagCategory) []string {
	if c.tagInfo == nil {
		return append([]string(nil), tags...)
	}
	if order == nil {
		order = DefaultCategoryOrder
	}
	wanted := make(map[TagCategory]bool, len(order))
	for _, category := range order {
		wanted[category] = true
	}
	byCategory := make(map[TagCategory][]string)
	var rest []string
	for _, tag := range tags {
		info, ok := c.tagInfo[tag]
		if !ok || !wanted[info.Category] {
			rest = append(rest, tag)
			continue
		}
		byCategory[info.Category] = append(byCategory[info.Category], tag)
	}
	ordered := make([]string, 0, len(tags))
	for _, category := range order {
		names := byCategory[category]
		sort.Strings(names)
		ordered = append(ordered, names...)
	}
	return append(ordered, rest...)
}
