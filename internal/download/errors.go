package download

import (
	"errors"
	"fmt"
)

// ErrMissingURL marks results for posts with no file URL to fetch.
var ErrMissingURL = errors.New("post has no file url")

// ErrEmptyBody marks results where the server returned a zero-length
// body; a media file is never legitimately empty.
var ErrEmptyBody = errors.New("downloaded body is empty")

// TransportError is a failed fetch: either a network-level error or a
// non-200 status after retries were exhausted.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %q: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %q: status code is %d", e.URL, e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// FilesystemError is a failed write under the target directory.
type FilesystemError struct {
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("write %q: %v", e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}
