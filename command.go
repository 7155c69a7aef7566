package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dictor/booru-dataset/internal/catalog"
	"github.com/dictor/booru-dataset/internal/dataset"
	"github.com/dictor/booru-dataset/internal/download"
	"github.com/dictor/booru-dataset/internal/e6csv"
	"github.com/dictor/booru-dataset/internal/naming"
	"github.com/dictor/booru-dataset/internal/query"
)

func loadCatalog() (*catalog.Catalog, error) {
	posts, tags := postsPath, tagsPath
	if posts == "" || tags == "" {
		foundPosts, foundTags, err := e6csv.FindDump(dumpDir)
		if err != nil {
			return nil, err
		}
		if posts == "" {
			posts = foundPosts
		}
		if tags == "" {
			tags = foundTags
		}
	}
	Logger.WithFields(logrus.Fields{"posts": posts, "tags": tags}).Infoln("loading dump files")

	postRecords, err := e6csv.ReadPosts(posts)
	if err != nil {
		return nil, err
	}
	tagRecords, err := e6csv.ReadTags(tags)
	if err != nil {
		return nil, err
	}
	c, err := catalog.Load(postRecords, tagRecords)
	if err != nil {
		return nil, err
	}
	Logger.Infof("catalog loaded with %d posts", c.Len())
	return c, nil
}

func buildQuery() (query.Query, error) {
	q, err := query.New(requireTags, excludeTags)
	if err != nil {
		return query.Query{}, err
	}
	for _, raw := range ratings {
		rating, err := catalog.ParseRating(raw)
		if err != nil {
			return query.Query{}, err
		}
		q.Ratings = append(q.Ratings, rating)
	}
	if minDate != "" {
		date, err := time.Parse("2006-01-02", minDate)
		if err != nil {
			return query.Query{}, fmt.Errorf("bad --min-date: %w", err)
		}
		q.MinDate = date
	}
	q.Extensions = extensions
	q.MinScore = minScore
	q.MinFavs = minFavs
	q.MinArea = minArea
	q.TopN = topN
	q.IncludeDeleted = includeDeleted
	q.SkipIDs = skipIDs
	q.SkipMD5s = skipMD5s
	return q, nil
}

func selectPosts() (*dataset.Dataset, error) {
	c, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	q, err := buildQuery()
	if err != nil {
		return nil, err
	}
	ds, err := query.Resolve(c, q)
	if err != nil {
		return nil, err
	}
	Logger.Infof("%d posts matched the query", ds.Len())
	return ds, nil
}

/*
args = [target directory]
*/
func execDownload(cmd *cobra.Command, args []string) error {
	mode, err := naming.ParseMode(namingMode)
	if err != nil {
		return err
	}
	ds, err := selectPosts()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	downloader := download.New(download.Options{
		Naming:      mode,
		Concurrency: workerCount,
		Retry:       download.RetryPolicy{MaxAttempts: maxAttempts},
		ProxyURL:    proxyURL,
		Timeout:     time.Duration(timeoutSec) * time.Second,
		Log:         Logger,
	})
	results, err := downloader.DownloadPosts(ctx, ds.Posts(), args[0])
	if err != nil {
		return err
	}

	failed := 0
	for _, result := range results {
		if !result.OK() {
			failed++
		}
	}
	if failed > 0 {
		Logger.Warnf("%d of %d downloads failed", failed, len(results))
	} else {
		Logger.Infof("all %d downloads succeeded", len(results))
	}
	return nil
}

/*
args = [target directory]
*/
func execCaptions(cmd *cobra.Command, args []string) error {
	mode, err := naming.ParseMode(namingMode)
	if err != nil {
		return err
	}
	ds, err := selectPosts()
	if err != nil {
		return err
	}
	opts := dataset.CaptionOptions{
		Naming:            mode,
		Separator:         tagSeparator,
		RemoveUnderscores: removeUnderscores,
		RemoveParentheses: removeParentheses,
		AddRatingTag:      addRatingTag,
		TagsToHead:        tagsToHead,
		TagsToTail:        tagsToTail,
		ExcludeTags:       captionExclude,
		Reorder:           reorderByCategory,
	}
	if err := ds.WriteCaptions(args[0], opts); err != nil {
		return err
	}
	Logger.Infof("%d captions written to %s", ds.Len(), args[0])
	return nil
}

/*
args = [output csv path]
*/
func execStats(cmd *cobra.Command, args []string) error {
	ds, err := selectPosts()
	if err != nil {
		return err
	}
	if err := ds.WriteStats(args[0], allowOverwrite); err != nil {
		return err
	}
	Logger.Infof("tag stats for %d posts written to %s", ds.Len(), args[0])
	return nil
}
