// Package e6csv reads booru dump CSVs (posts-YYYY-MM-DD.csv and
// tags-YYYY-MM-DD.csv) into catalog records.
package e6csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dictor/booru-dataset/internal/catalog"
)

var postColumns = []string{
	"id", "md5", "rating", "tag_string", "file_ext",
	"score", "fav_count", "image_width", "image_height",
	"created_at", "is_deleted",
}

var tagColumns = []string{"id", "name", "category", "post_count"}

// ReadPosts parses a posts dump. Header columns are matched by name;
// a missing required column or a malformed row is a catalog.SchemaError.
func ReadPosts(path string) ([]catalog.Post, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.ReuseRecord = true
	columns, err := headerIndex(reader, postColumns)
	if err != nil {
		return nil, err
	}

	var posts []catalog.Post
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &catalog.SchemaError{Row: row, Field: "-", Reason: err.Error()}
		}
		post, err := parsePost(record, columns, row)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// ReadTags parses a tags dump into the tag table.
func ReadTags(path string) ([]catalog.Tag, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.ReuseRecord = true
	columns, err := headerIndex(reader, tagColumns)
	if err != nil {
		return nil, err
	}

	var tags []catalog.Tag
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &catalog.SchemaError{Row: row, Field: "-", Reason: err.Error()}
		}
		id, err := parseInt(record[columns["id"]])
		if err != nil {
			return nil, &catalog.SchemaError{Row: row, Field: "id", Reason: err.Error()}
		}
		categoryNum, err := parseInt(record[columns["category"]])
		if err != nil {
			return nil, &catalog.SchemaError{Row: row, Field: "category", Reason: err.Error()}
		}
		count, err := parseInt(record[columns["post_count"]])
		if err != nil {
			return nil, &catalog.SchemaError{Row: row, Field: "post_count", Reason: err.Error()}
		}
		tags = append(tags, catalog.Tag{
			ID:        id,
			Name:      record[columns["name"]],
			Category:  catalog.TagCategory(categoryNum),
			PostCount: count,
		})
	}
	return tags, nil
}

func headerIndex(reader *csv.Reader, required []string) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, &catalog.SchemaError{Row: 0, Field: "-", Reason: "missing header: " + err.Error()}
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			return nil, &catalog.SchemaError{Row: 0, Field: name, Reason: "column missing from header"}
		}
	}
	return columns, nil
}

func parsePost(record []string, columns map[string]int, row int) (catalog.Post, error) {
	var post catalog.Post
	var err error

	if post.ID, err = parseInt(record[columns["id"]]); err != nil {
		return post, &catalog.SchemaError{Row: row, Field: "id", Reason: err.Error()}
	}
	post.MD5 = record[columns["md5"]]
	if post.Rating, err = catalog.ParseRating(record[columns["rating"]]); err != nil {
		return post, &catalog.SchemaError{Row: row, Field: "rating", Reason: err.Error()}
	}
	post.Tags = strings.Fields(record[columns["tag_string"]])
	post.Ext = record[columns["file_ext"]]
	if post.Score, err = parseInt(record[columns["score"]]); err != nil {
		return post, &catalog.SchemaError{Row: row, Field: "score", Reason: err.Error()}
	}
	if post.FavCount, err = parseInt(record[columns["fav_count"]]); err != nil {
		return post, &catalog.SchemaError{Row: row, Field: "fav_count", Reason: err.Error()}
	}
	if post.ImageWidth, err = parseInt(record[columns["image_width"]]); err != nil {
		return post, &catalog.SchemaError{Row: row, Field: "image_width", Reason: err.Error()}
	}
	if post.ImageHeight, err = parseInt(record[columns["image_height"]]); err != nil {
		return post, &catalog.SchemaError{Row: row, Field: "image_height", Reason: err.Error()}
	}
	if post.CreatedAt, err = parseTime(record[columns["created_at"]]); err != nil {
		return post, &catalog.SchemaError{Row: row, Field: "created_at", Reason: err.Error()}
	}
	post.IsDeleted = record[columns["is_deleted"]] == "t"
	if i, ok := columns["file_url"]; ok {
		post.RawFileURL = record[i]
	}
	return post, nil
}

func parseInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

// parseTime accepts the dump timestamps with and without a fractional
// second; a handful of old rows lack it.
func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{"2006-01-02 15:04:05.999999", "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}
