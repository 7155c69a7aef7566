package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	isDebug bool
	Logger  = logrus.New()

	// catalog sources
	dumpDir   string
	postsPath string
	tagsPath  string

	// query flags, shared by every subcommand
	requireTags    []string
	excludeTags    []string
	ratings        []string
	extensions     []string
	minScore       int
	minFavs        int
	minArea        int
	minDate        string
	topN           int
	includeDeleted bool
	skipIDs        []int
	skipMD5s       []string

	// download flags
	namingMode  string
	workerCount int
	maxAttempts int
	proxyURL    string
	timeoutSec  int

	// caption flags
	removeUnderscores bool
	removeParentheses bool
	reorderByCategory bool
	addRatingTag      bool
	tagSeparator      string
	tagsToHead        []string
	tagsToTail        []string
	captionExclude    []string

	// stats flags
	allowOverwrite bool
)

func main() {
	cobra.OnInitialize(func() {
		if isDebug {
			Logger.SetLevel(logrus.DebugLevel)
		}
		Logger.SetFormatter(&logrus.TextFormatter{
			ForceColors:   true,
			DisableColors: false,
			ForceQuote:    false,
		})
	})

	root := &cobra.Command{
		Use:           "booru-dataset",
		Short:         "build training datasets from booru dump files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&isDebug, "debug", false, "print debug log")
	root.PersistentFlags().StringVar(&dumpDir, "dumps", ".", "directory with posts-YYYY-MM-DD.csv and tags-YYYY-MM-DD.csv dumps")
	root.PersistentFlags().StringVar(&postsPath, "posts-csv", "", "explicit posts dump path (overrides --dumps)")
	root.PersistentFlags().StringVar(&tagsPath, "tags-csv", "", "explicit tags dump path (overrides --dumps)")
	root.PersistentFlags().StringSliceVar(&requireTags, "require", nil, "tags every post must have")
	root.PersistentFlags().StringSliceVar(&excludeTags, "exclude", nil, "tags no post may have")
	root.PersistentFlags().StringSliceVar(&ratings, "rating", nil, "allowed ratings (s, q, e)")
	root.PersistentFlags().StringSliceVar(&extensions, "ext", nil, "allowed file extensions")
	root.PersistentFlags().IntVar(&minScore, "min-score", 0, "minimal post score")
	root.PersistentFlags().IntVar(&minFavs, "min-favs", 0, "minimal favorite count")
	root.PersistentFlags().IntVar(&minArea, "min-area", 0, "minimal image area in pixels")
	root.PersistentFlags().StringVar(&minDate, "min-date", "", "earliest creation date (YYYY-MM-DD)")
	root.PersistentFlags().IntVar(&topN, "top", 0, "keep only N highest scored posts")
	root.PersistentFlags().BoolVar(&includeDeleted, "include-deleted", false, "keep deleted posts in results")
	root.PersistentFlags().IntSliceVar(&skipIDs, "skip-id", nil, "post ids to skip")
	root.PersistentFlags().StringSliceVar(&skipMD5s, "skip-md5", nil, "post md5s to skip")

	downloadCmd := &cobra.Command{
		Use:   "download <target directory>",
		Short: "download media for all matching posts",
		Args:  cobra.ExactArgs(1),
		RunE:  execDownload,
	}
	downloadCmd.Flags().StringVar(&namingMode, "naming", "id", "file naming mode (id or md5)")
	downloadCmd.Flags().IntVar(&workerCount, "workers", 16, "concurrent downloads")
	downloadCmd.Flags().IntVar(&maxAttempts, "attempts", 3, "attempts per post on transient failure")
	downloadCmd.Flags().StringVar(&proxyURL, "proxy", "", "proxy url for downloads")
	downloadCmd.Flags().IntVar(&timeoutSec, "timeout", 120, "per-request timeout in seconds")

	captionsCmd := &cobra.Command{
		Use:   "captions <target directory>",
		Short: "write one caption text file per matching post",
		Args:  cobra.ExactArgs(1),
		RunE:  execCaptions,
	}
	captionsCmd.Flags().StringVar(&namingMode, "naming", "id", "caption file naming mode (id or md5)")
	captionsCmd.Flags().BoolVar(&removeUnderscores, "remove-underscores", false, "replace underscores in tags with spaces")
	captionsCmd.Flags().BoolVar(&removeParentheses, "remove-parentheses", false, "strip parentheses from tags")
	captionsCmd.Flags().BoolVar(&reorderByCategory, "reorder", false, "order caption tags by tag category")
	captionsCmd.Flags().BoolVar(&addRatingTag, "rating-tag", false, "append the post rating as a caption tag")
	captionsCmd.Flags().StringVar(&tagSeparator, "separator", " ", "separator between caption tags")
	captionsCmd.Flags().StringSliceVar(&tagsToHead, "head", nil, "tags moved to the caption start")
	captionsCmd.Flags().StringSliceVar(&tagsToTail, "tail", nil, "tags moved to the caption end")
	captionsCmd.Flags().StringSliceVar(&captionExclude, "drop", nil, "tags left out of captions")

	statsCmd := &cobra.Command{
		Use:   "stats <output csv>",
		Short: "export tag counts of all matching posts",
		Args:  cobra.ExactArgs(1),
		RunE:  execStats,
	}
	statsCmd.Flags().BoolVar(&allowOverwrite, "overwrite", false, "overwrite an existing stats file")

	root.AddCommand(downloadCmd, captionsCmd, statsCmd)

	if err := root.Execute(); err != nil {
		Logger.WithError(err).Fatalln("fail to execute command")
	}
}
