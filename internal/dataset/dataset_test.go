package dataset

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/dictor/booru-dataset/internal/catalog"
	"github.com/dictor/booru-dataset/internal/naming"
)

func testDataset(t *testing.T) *Dataset {
	t.Helper()
	c, err := catalog.Load([]catalog.Post{
		{ID: 1, MD5: "aaaa", Tags: []string{"red_fox", "tree_(plant)"}, Ext: "jpg", Rating: catalog.RatingSafe},
		{ID: 2, MD5: "bbbb", Tags: []string{"red_fox", "river"}, Ext: "png", Rating: catalog.RatingExplicit},
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return New(c, []int{1, 2})
}

func TestTagCounts(t *testing.T) {
	c, err := catalog.Load([]catalog.Post{
		{ID: 1, Tags: []string{"a", "b"}, Ext: "jpg"},
		{ID: 2, Tags: []string{"a", "c"}, Ext: "jpg"},
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ds := New(c, []int{1, 2})
	want := map[string]int{"a": 2, "b": 1, "c": 1}
	if got := ds.TagCounts(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v but got %v", want, got)
	}
}

func TestCaptions_RawRoundTrip(t *testing.T) {
	ds := testDataset(t)
	captions, err := ds.Captions(CaptionOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(captions) != 2 {
		t.Fatalf("expected 2 captions but got %d", len(captions))
	}
	if captions[0].Stem != "1" || captions[0].Text != "red_fox tree_(plant)" {
		t.Fatalf("unexpected caption: %+v", captions[0])
	}
	if captions[1].Stem != "2" || captions[1].Text != "red_fox river" {
		t.Fatalf("unexpected caption: %+v", captions[1])
	}
}

func TestCaptions_Formatting(t *testing.T) {
	ds := testDataset(t)
	captions, err := ds.Captions(CaptionOptions{
		Naming:            naming.ModeMD5,
		Separator:         ", ",
		RemoveUnderscores: true,
		RemoveParentheses: true,
		TagsToHead:        []string{"red_fox"},
		AddRatingTag:      true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captions[0].Stem != "aaaa" {
		t.Fatalf("unexpected stem: %q", captions[0].Stem)
	}
	// head tag stays verbatim, the rest is reformatted
	if captions[0].Text != "red_fox, tree plant, safe" {
		t.Fatalf("unexpected caption text: %q", captions[0].Text)
	}
	if captions[1].Text != "red_fox, river, explicit" {
		t.Fatalf("unexpected caption text: %q", captions[1].Text)
	}
}

func TestCaptions_ExcludeAndTail(t *testing.T) {
	ds := testDataset(t)
	captions, err := ds.Captions(CaptionOptions{
		ExcludeTags: []string{"river"},
		TagsToTail:  []string{"masterpiece"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captions[1].Text != "red_fox masterpiece" {
		t.Fatalf("unexpected caption text: %q", captions[1].Text)
	}
}

func TestCaptions_MissingMD5(t *testing.T) {
	c, err := catalog.Load([]catalog.Post{{ID: 1, Tags: []string{"a"}, Ext: "jpg"}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ds := New(c, []int{1})
	_, err = ds.Captions(CaptionOptions{Naming: naming.ModeMD5})
	var missing *naming.MissingAttributeError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingAttributeError but got %v", err)
	}
}

func TestWriteCaptions(t *testing.T) {
	ds := testDataset(t)
	dir := t.TempDir()
	if err := ds.WriteCaptions(dir, CaptionOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "1.txt"))
	if err != nil {
		t.Fatalf("caption file missing: %v", err)
	}
	if string(data) != "red_fox tree_(plant)" {
		t.Fatalf("unexpected caption file content: %q", string(data))
	}
}

func TestWriteStats(t *testing.T) {
	ds := testDataset(t)
	path := filepath.Join(t.TempDir(), "stats.csv")
	if err := ds.WriteStats(path, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("stats file missing: %v", err)
	}
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	joined := make([]string, len(rows))
	for i, row := range rows {
		joined[i] = strings.Join(row, ",")
	}
	want := []string{"tag,count", "red_fox,2", "river,1", "tree_(plant),1"}
	if !reflect.DeepEqual(joined, want) {
		t.Fatalf("expected %v but got %v", want, joined)
	}

	if err := ds.WriteStats(path, false); !errors.Is(err, os.ErrExist) {
		t.Fatalf("expected os.ErrExist but got %v", err)
	}
	if err := ds.WriteStats(path, true); err != nil {
		t.Fatalf("overwrite should succeed: %v", err)
	}
}
