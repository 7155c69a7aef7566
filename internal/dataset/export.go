package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// WriteCaptions writes one <stem>.txt per post into the directory.
func (d *Dataset) WriteCaptions(dir string, opts CaptionOptions) error {
	captions, err := d.Captions(opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, caption := range captions {
		path := filepath.Join(dir, caption.Stem+".txt")
		if err := os.WriteFile(path, []byte(caption.Text), 0o644); err != nil {
			return fmt.Errorf("write caption %q: %w", path, err)
		}
	}
	return nil
}

// WriteStats exports the dataset's tag counts as a two-column CSV,
// sorted by count descending then tag ascending. Refuses to overwrite
// an existing file unless allowOverwrite is set; the error then wraps
// os.ErrExist.
func (d *Dataset) WriteStats(path string, allowOverwrite bool) error {
	if !allowOverwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("stats file %q: %w", path, os.ErrExist)
		}
	}
	counts := d.TagCounts()
	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"tag", "count"}); err != nil {
		return err
	}
	for _, tag := range tags {
		if err := writer.Write([]string{tag, strconv.Itoa(counts[tag])}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
