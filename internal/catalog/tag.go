package catalog

import "fmt"

// TagCategory is the numeric tag category from the tags dump.
type TagCategory int

const (
	CategoryGeneral   TagCategory = 0
	CategoryArtist    TagCategory = 1
	CategoryRating    TagCategory = 2
	CategoryCopyright TagCategory = 3
	CategoryCharacter TagCategory = 4
	CategorySpecies   TagCategory = 5
	CategoryInvalid   TagCategory = 6
	CategoryMeta      TagCategory = 7
	CategoryLore      TagCategory = 8
)

var categoryNames = map[string]TagCategory{
	"general":   CategoryGeneral,
	"artist":    CategoryArtist,
	"rating":    CategoryRating,
	"copyright": CategoryCopyright,
	"character": CategoryCharacter,
	"species":   CategorySpecies,
	"invalid":   CategoryInvalid,
	"meta":      CategoryMeta,
	"lore":      CategoryLore,
}

func ParseTagCategory(name string) (TagCategory, error) {
	category, ok := categoryNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown tag category %q", name)
	}
	return category, nil
}

// DefaultCategoryOrder is the caption ordering used when the caller does
// not pick one: characters and copyrights first, meta last.
var DefaultCategoryOrder = []TagCategory{
	CategoryCharacter,
	CategoryCopyright,
	CategoryLore,
	CategorySpecies,
	CategoryArtist,
	CategoryRating,
	CategoryGeneral,
	CategoryInvalid,
	CategoryMeta,
}

// Tag is one row of the tags dump.
type Tag struct {
	ID        int
	Name      string
	Category  TagCategory
	PostCount int
}
