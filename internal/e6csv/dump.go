package e6csv

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

var dumpNamePattern = regexp.MustCompile(`^(posts|tags)-(\d{4}-\d{2}-\d{2})\.csv$`)

// FindDump locates the newest date in the directory for which both a
// posts and a tags dump exist, and returns their paths.
func FindDump(dir string) (postsPath, tagsPath string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", "", err
	}

	type pair struct{ posts, tags string }
	byDate := map[string]*pair{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := dumpNamePattern.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		kind, date := match[1], match[2]
		p := byDate[date]
		if p == nil {
			p = &pair{}
			byDate[date] = p
		}
		if kind == "posts" {
			p.posts = filepath.Join(dir, entry.Name())
		} else {
			p.tags = filepath.Join(dir, entry.Name())
		}
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	// ISO dates sort lexicographically, newest last
	sort.Strings(dates)
	for i := len(dates) - 1; i >= 0; i-- {
		p := byDate[dates[i]]
		if p.posts != "" && p.tags != "" {
			return p.posts, p.tags, nil
		}
	}
	return "", "", fmt.Errorf("no complete posts/tags dump pair found in %q", dir)
}
