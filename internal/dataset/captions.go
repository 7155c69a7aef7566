package dataset

import (
	"strings"

	"github.com/samber/lo"

	"github.com/dictor/booru-dataset/internal/catalog"
	"github.com/dictor/booru-dataset/internal/naming"
)

// Caption is the text sidecar for one post, keyed by its filename stem.
type Caption struct {
	Stem string
	Text string
}

// CaptionOptions control caption text generation. The zero value
// produces the post's raw tag list joined by single spaces, order
// preserved, with ids as stems.
type CaptionOptions struct {
	Naming            naming.Mode
	Separator         string // default " "
	RemoveUnderscores bool
	RemoveParentheses bool
	AddRatingTag      bool

	// TagsToHead and TagsToTail are emitted verbatim before/after the
	// post's own tags and removed from them; ExcludeTags are dropped.
	TagsToHead  []string
	TagsToTail  []string
	ExcludeTags []string

	// Reorder sorts the post's tags by category using the catalog tag
	// table; CategoryOrder overrides the default ordering.
	Reorder       bool
	CategoryOrder []catalog.TagCategory
}

// Captions derives one caption per post, in dataset order. Fails when
// the naming mode needs an attribute a post does not have.
func (d *Dataset) Captions(opts CaptionOptions) ([]Caption, error) {
	separator := opts.Separator
	if separator == "" {
		separator = " "
	}
	skip := make(map[string]bool)
	for _, tag := range append(append(append([]string{}, opts.TagsToHead...), opts.TagsToTail...), opts.ExcludeTags...) {
		skip[tag] = true
	}

	captions := make([]Caption, 0, d.Len())
	for _, post := range d.Posts() {
		stem, err := naming.Stem(post, opts.Naming)
		if err != nil {
			return nil, err
		}
		tags := lo.Filter(post.Tags, func(tag string, _ int) bool {
			return !skip[tag]
		})
		if opts.Reorder {
			tags = d.cat.ReorderTags(tags, opts.CategoryOrder)
		}
		tags = formatTags(tags, opts.RemoveUnderscores, opts.RemoveParentheses)
		if opts.AddRatingTag && post.Rating != "" {
			tags = append(tags, post.Rating.Word())
		}
		words := make([]string, 0, len(opts.TagsToHead)+len(tags)+len(opts.TagsToTail))
		words = append(words, opts.TagsToHead...)
		words = append(words, tags...)
		words = append(words, opts.TagsToTail...)
		captions = append(captions, Caption{Stem: stem, Text: strings.Join(words, separator)})
	}
	return captions, nil
}

func formatTags(tags []string, removeUnderscores, removeParentheses bool) []string {
	return lo.Map(tags, func(tag string, _ int) string {
		if removeUnderscores {
			tag = strings.ReplaceAll(tag, "_", " ")
		}
		if removeParentheses {
			tag = strings.ReplaceAll(tag, "(", "")
			tag = strings.ReplaceAll(tag, ")", "")
		}
		return tag
	})
}
