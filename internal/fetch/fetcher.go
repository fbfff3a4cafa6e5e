package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"quotebot/internal/imagestore"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	httpTimeoutEnvKey  = "QUOTEBOT_HTTP_TIMEOUT"
)

// Error reports a failed attachment download. Status is zero when the
// request never reached the remote end.
type Error struct {
	URL    string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Status > 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s failed", e.URL)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Fetcher downloads remote attachments into a local image directory.
type Fetcher struct {
	http   *http.Client
	images *imagestore.Dir
}

// New creates a Fetcher storing downloads in images.
func New(images *imagestore.Dir) *Fetcher {
	return &Fetcher{
		http:   &http.Client{Timeout: httpTimeoutFromEnv()},
		images: images,
	}
}

// FetchImage downloads the resource at rawURL and stores it under its
// basename, numerically prefixed on collision. Returns the stored name.
// A transport failure or non-2xx status yields an *Error and no file.
func (f *Fetcher) FetchImage(ctx context.Context, rawURL string) (string, error) {
	filename, err := basenameFromURL(rawURL)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &Error{URL: rawURL, Err: err}
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return "", &Error{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &Error{URL: rawURL, Status: resp.StatusCode}
	}

	name, err := f.images.Save(ctx, filename, resp.Body)
	if err != nil {
		return "", &Error{URL: rawURL, Err: err}
	}
	return name, nil
}

func basenameFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", &Error{URL: rawURL, Err: err}
	}
	base := path.Base(u.Path)
	if base == "" || base == "." || base == "/" {
		return "", &Error{URL: rawURL, Err: fmt.Errorf("no filename in url")}
	}
	return base, nil
}

func httpTimeoutFromEnv() time.Duration {
	raw := strings.TrimSpace(os.Getenv(httpTimeoutEnvKey))
	if raw == "" {
		return defaultHTTPTimeout
	}
	if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
		return parsed
	}
	return defaultHTTPTimeout
}
