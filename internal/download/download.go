// Package download fetches media for a dataset with bounded concurrency.
// Per-post failures become failed results; only an inaccessible target
// directory aborts a batch.
package download

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dictor/booru-dataset/internal/catalog"
	"github.com/dictor/booru-dataset/internal/naming"
)

// RetryPolicy bounds per-post retries on transient failures. Waits grow
// exponentially between attempts up to MaxWait.
type RetryPolicy struct {
	MaxAttempts int
	Wait        time.Duration
	MaxWait     time.Duration
}

func (rp RetryPolicy) withDefaults() RetryPolicy {
	if rp.MaxAttempts < 1 {
		rp.MaxAttempts = 3
	}
	if rp.Wait <= 0 {
		rp.Wait = 500 * time.Millisecond
	}
	if rp.MaxWait <= 0 {
		rp.MaxWait = 10 * time.Second
	}
	return rp
}

// Options configure a Downloader. All knobs are explicit; there is no
// hidden global state.
type Options struct {
	Naming      naming.Mode
	Concurrency int
	Retry       RetryPolicy
	ProxyURL    string
	Timeout     time.Duration
	Log         *logrus.Logger
}

// Result is the outcome for one post, created once and never mutated.
type Result struct {
	PostID int
	Path   string
	Bytes  int64
	Err    error
}

func (r Result) OK() bool {
	return r.Err == nil
}

// Downloader fetches post media over a shared resty client. The client
// pools connections and applies the retry policy; retries are local to
// one post and never block other workers.
type Downloader struct {
	client  *resty.Client
	naming  naming.Mode
	workers int
	log     *logrus.Logger
}

func New(opts Options) *Downloader {
	retry := opts.Retry.withDefaults()
	client := resty.New().
		SetRetryCount(retry.MaxAttempts - 1).
		SetRetryWaitTime(retry.Wait).
		SetRetryMaxWaitTime(retry.MaxWait).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			// network errors and 5xx are transient; 4xx is not
			return err != nil || resp.StatusCode() >= http.StatusInternalServerError
		})
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.ProxyURL != "" {
		client.SetProxy(opts.ProxyURL)
	}
	workers := opts.Concurrency
	if workers < 1 {
		workers = 16
	}
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Downloader{client: client, naming: opts.Naming, workers: workers, log: log}
}

// DownloadPosts fetches media for every post into targetDir and returns
// one result per post, in input order regardless of completion order.
// Cancelling the context aborts in-flight fetches; results finished by
// then are still returned and the rest carry the context error. The
// caller must ensure naming mode plus dataset yield unique filenames.
func (d *Downloader) DownloadPosts(ctx context.Context, posts []*catalog.Post, targetDir string) ([]Result, error) {
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return nil, &FilesystemError{Path: targetDir, Err: err}
	}

	workers := d.workers
	if workers > len(posts) {
		workers = len(posts)
	}
	if workers < 1 {
		workers = 1
	}
	d.log.Infof("%d posts will be downloaded by %d workers", len(posts), workers)

	results := make([]Result, len(posts))
	jobs := make(chan int)
	var done int64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				post := posts[i]
				if err := ctx.Err(); err != nil {
					results[i] = Result{PostID: post.ID, Err: err}
					continue
				}
				result := d.downloadOne(ctx, post, targetDir)
				results[i] = result
				current := atomic.AddInt64(&done, 1)
				if result.OK() {
					d.log.Infof("(%d/%d) downloaded : %s", current, len(posts), result.Path)
				} else {
					d.log.WithFields(logrus.Fields{
						"error": result.Err,
						"id":    post.ID,
					}).Errorf("(%d/%d) error : download post", current, len(posts))
				}
			}
		}()
	}
	for i := range posts {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results, nil
}

func (d *Downloader) downloadOne(ctx context.Context, post *catalog.Post, targetDir string) Result {
	result := Result{PostID: post.ID}

	url := post.FileURL()
	if url == "" {
		result.Err = fmt.Errorf("post %d: %w", post.ID, ErrMissingURL)
		return result
	}
	name, err := naming.Filename(post, d.naming)
	if err != nil {
		result.Err = err
		return result
	}

	resp, err := d.client.R().SetContext(ctx).Get(url)
	if err != nil {
		result.Err = &TransportError{URL: url, Err: err}
		return result
	}
	if resp.StatusCode() != http.StatusOK {
		result.Err = &TransportError{URL: url, StatusCode: resp.StatusCode()}
		return result
	}
	body := resp.Body()
	if len(body) == 0 {
		result.Err = fmt.Errorf("post %d: %w", post.ID, ErrEmptyBody)
		return result
	}

	// write to a temp name first so a failed or cancelled write never
	// leaves a truncated file under the final name
	dest := filepath.Join(targetDir, name)
	tmp := filepath.Join(targetDir, fmt.Sprintf(".%s.%s.part", name, uuid.NewString()))
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		os.Remove(tmp)
		result.Err = &FilesystemError{Path: tmp, Err: err}
		return result
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		result.Err = &FilesystemError{Path: dest, Err: err}
		return result
	}
	result.Path = dest
	result.Bytes = int64(len(body))
	return result
}
