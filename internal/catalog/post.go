package catalog

import (
	"fmt"
	"time"

	"github.com/samber/lo"
)

// StaticDataURL is the media CDN prefix used to derive file locations
// for dumps that only carry an MD5.
const StaticDataURL = "https://static1.e621.net/data"

// Rating is the one-letter content rating recorded in the dump.
type Rating string

const (
	RatingSafe         Rating = "s"
	RatingQuestionable Rating = "q"
	RatingExplicit     Rating = "e"
)

// Word returns the rating spelled out, usable as a caption tag.
func (r Rating) Word() string {
	switch r {
	case RatingSafe:
		return "safe"
	case RatingQuestionable:
		return "questionable"
	case RatingExplicit:
		return "explicit"
	}
	return string(r)
}

func ParseRating(raw string) (Rating, error) {
	switch Rating(raw) {
	case RatingSafe, RatingQuestionable, RatingExplicit:
		return Rating(raw), nil
	}
	return "", fmt.Errorf("unknown rating %q", raw)
}

// Post is one immutable catalog entry. Fields are filled once at load
// time and never mutated afterwards, so posts may be shared across
// goroutines freely.
type Post struct {
	ID          int
	MD5         string
	Tags        []string
	Rating      Rating
	Ext         string
	Score       int
	FavCount    int
	ImageWidth  int
	ImageHeight int
	CreatedAt   time.Time
	IsDeleted   bool

	// RawFileURL is the media URL as recorded in the dump, empty when
	// the dump does not carry one.
	RawFileURL string
}

// FileURL returns the recorded media URL, or derives the CDN location
// from the MD5 when the dump has none. Returns "" when the post has
// neither, which downstream code must treat as "nothing to download".
func (p *Post) FileURL() string {
	if p.RawFileURL != "" {
		return p.RawFileURL
	}
	if len(p.MD5) < 4 || p.Ext == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s/%s.%s", StaticDataURL, p.MD5[:2], p.MD5[2:4], p.MD5, p.Ext)
}

func (p *Post) HasTag(tag string) bool {
	return lo.Contains(p.Tags, tag)
}

// Area is the pixel area of the media, 0 when dimensions are unknown.
func (p *Post) Area() int {
	return p.ImageWidth * p.ImageHeight
}
