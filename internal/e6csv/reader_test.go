package e6csv

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/dictor/booru-dataset/internal/catalog"
)

const postsCSV = `id,md5,rating,tag_string,file_ext,score,fav_count,image_width,image_height,created_at,is_deleted
1,aaaa,s,red_fox river,jpg,10,3,800,600,2023-05-01 10:20:30.123456,f
2,bbbb,e,river,png,-4,0,1024,768,2023-05-02 11:00:00,t
`

const tagsCSV = `id,name,category,post_count
10,red_fox,5,120
11,river,0,3000
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return path
}

func TestReadPosts(t *testing.T) {
	path := writeFile(t, t.TempDir(), "posts.csv", postsCSV)
	posts, err := ReadPosts(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts but got %d", len(posts))
	}

	first := posts[0]
	if first.ID != 1 || first.MD5 != "aaaa" || first.Rating != catalog.RatingSafe {
		t.Fatalf("unexpected post: %+v", first)
	}
	if !reflect.DeepEqual(first.Tags, []string{"red_fox", "river"}) {
		t.Fatalf("unexpected tags: %v", first.Tags)
	}
	if first.Score != 10 || first.FavCount != 3 || first.ImageWidth != 800 {
		t.Fatalf("unexpected scalars: %+v", first)
	}
	if first.CreatedAt.IsZero() || first.IsDeleted {
		t.Fatalf("unexpected flags: %+v", first)
	}

	second := posts[1]
	if !second.IsDeleted || second.Score != -4 {
		t.Fatalf("unexpected post: %+v", second)
	}
	if second.CreatedAt.IsZero() {
		t.Fatal("timestamp without fraction should parse")
	}
}

func TestReadPosts_MissingColumn(t *testing.T) {
	path := writeFile(t, t.TempDir(), "posts.csv", "id,md5\n1,aaaa\n")
	_, err := ReadPosts(path)
	var schema *catalog.SchemaError
	if !errors.As(err, &schema) {
		t.Fatalf("expected SchemaError but got %v", err)
	}
}

func TestReadPosts_MalformedRow(t *testing.T) {
	content := `id,md5,rating,tag_string,file_ext,score,fav_count,image_width,image_height,created_at,is_deleted
not_a_number,aaaa,s,a,jpg,0,0,0,0,,f
`
	path := writeFile(t, t.TempDir(), "posts.csv", content)
	_, err := ReadPosts(path)
	var schema *catalog.SchemaError
	if !errors.As(err, &schema) {
		t.Fatalf("expected SchemaError but got %v", err)
	}
	if schema.Field != "id" || schema.Row != 1 {
		t.Fatalf("unexpected error detail: %+v", schema)
	}
}

func TestReadTags(t *testing.T) {
	path := writeFile(t, t.TempDir(), "tags.csv", tagsCSV)
	tags, err := ReadTags(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []catalog.Tag{
		{ID: 10, Name: "red_fox", Category: catalog.CategorySpecies, PostCount: 120},
		{ID: 11, Name: "river", Category: catalog.CategoryGeneral, PostCount: 3000},
	}
	if !reflect.DeepEqual(tags, want) {
		t.Fatalf("expected %v but got %v", want, tags)
	}
}

func TestFindDump(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "posts-2023-04-01.csv", postsCSV)
	writeFile(t, dir, "tags-2023-04-01.csv", tagsCSV)
	writeFile(t, dir, "posts-2023-05-01.csv", postsCSV)
	// newest date has no tags file, so the older complete pair wins
	posts, tags, err := FindDump(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(posts) != "posts-2023-04-01.csv" || filepath.Base(tags) != "tags-2023-04-01.csv" {
		t.Fatalf("unexpected pair: %s, %s", posts, tags)
	}
}

func TestFindDump_Empty(t *testing.T) {
	if _, _, err := FindDump(t.TempDir()); err == nil {
		t.Fatal("expected error for directory without dumps")
	}
}
