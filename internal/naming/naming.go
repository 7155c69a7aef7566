// Package naming maps a post to its on-disk name. Pure functions, no
// state: the only failure is a missing attribute for the chosen mode.
package naming

import (
	"fmt"
	"strconv"

	"github.com/dictor/booru-dataset/internal/catalog"
)

// Mode selects which post attribute becomes the filename stem.
type Mode string

const (
	ModeID  Mode = "id"
	ModeMD5 Mode = "md5"
)

func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case ModeID, ModeMD5:
		return Mode(raw), nil
	}
	return "", fmt.Errorf("unknown naming mode %q (want \"id\" or \"md5\")", raw)
}

// MissingAttributeError reports a post lacking the attribute the chosen
// naming mode needs.
type MissingAttributeError struct {
	PostID    int
	Attribute string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("post %d has no %s attribute", e.PostID, e.Attribute)
}

// Stem returns the filename stem for the post under the given mode.
func Stem(p *catalog.Post, mode Mode) (string, error) {
	switch mode {
	case ModeMD5:
		if p.MD5 == "" {
			return "", &MissingAttributeError{PostID: p.ID, Attribute: "md5"}
		}
		return p.MD5, nil
	default:
		return strconv.Itoa(p.ID), nil
	}
}

// Filename returns the stem with the post's recorded extension appended.
// Uniqueness across a dataset is the caller's responsibility: the
// download pipeline does not deduplicate colliding names.
func Filename(p *catalog.Post, mode Mode) (string, error) {
	stem, err := Stem(p, mode)
	if err != nil {
		return "", err
	}
	return stem + "." + p.Ext, nil
}
