package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/jsonviz/pkg/errors"
	"github.com/matzehuels/jsonviz/pkg/observability"
)

// Defaults for [Fetch].
const (
	DefaultTimeout  = 30 * time.Second
	DefaultAttempts = 3
	DefaultDelay    = time.Second
	DefaultMaxBytes = 32 << 20
)

// Options configures [Fetch]. Zero fields take defaults.
type Options struct {
	Client   *http.Client
	Timeout  time.Duration
	Attempts int
	Delay    time.Duration
	MaxBytes int64
}

func (o *Options) setDefaults() {
	if o.Client == nil {
		o.Client = http.DefaultClient
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Attempts <= 0 {
		o.Attempts = DefaultAttempts
	}
	if o.Delay <= 0 {
		o.Delay = DefaultDelay
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxBytes
	}
}

// Response is a fetched document.
type Response struct {
	Body        []byte
	ContentType string
}

// Fetch GETs url, retrying transient failures.
func Fetch(ctx context.Context, url string, opts Options) (*Response, error) {
	if err := errors.ValidateURL(url); err != nil {
		return nil, err
	}
	opts.setDefaults()

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	var out *Response
	err := Retry(ctx, opts.Attempts, opts.Delay, func() error {
		r, err := fetchOnce(ctx, url, opts)
		if err != nil {
			return err
		}
		out = r
		return nil
	})
	if err == nil {
		return out, nil
	}
	if ctx.Err() != nil {
		return nil, errors.Wrap(errors.ErrCodeTimeout, err, "fetch %s", url)
	}
	if errors.GetCode(err) != "" {
		return nil, err
	}
	return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", url)
}

func fetchOnce(ctx context.Context, url string, opts Options) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.5")

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := opts.Client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, Retryable(err)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, Retryable(fmt.Errorf("server returned %s", resp.Status))
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.New(errors.ErrCodeNotFound, "%s not found", url)
	case resp.StatusCode >= 400:
		return nil, errors.New(errors.ErrCodeNetwork, "%s returned %s", url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, opts.MaxBytes+1))
	if err != nil {
		return nil, Retryable(err)
	}
	if int64(len(body)) > opts.MaxBytes {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s is larger than %d bytes", url, opts.MaxBytes)
	}
	return &Response{Body: body, ContentType: resp.Header.Get("Content-Type")}, nil
}
