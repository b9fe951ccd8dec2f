// Package source loads documents to visualize from files, standard input or
// HTTP(S) URLs.
//
// Remote documents are fetched with retries through [httputil.Fetch] and,
// when a [cache.Cache] is configured, kept for [cache.TTLSource] so that
// repeated renders of the same URL do not hit the network.
package source

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jsonviz/pkg/cache"
	"github.com/matzehuels/jsonviz/pkg/errors"
	"github.com/matzehuels/jsonviz/pkg/httputil"
	"github.com/matzehuels/jsonviz/pkg/value"
)

// Stdin is the reference that reads standard input.
const Stdin = "-"

// Document is a loaded and decoded input.
type Document struct {
	Ref    string // File path, URL or "-"
	Format string // value.FormatJSON or value.FormatYAML after detection
	Data   []byte // Raw text
	Value  any    // Decoded value
	Cached bool   // True if a remote document came from the cache
}

// Loader resolves references to documents.
type Loader struct {
	Cache  cache.Cache      // Cache for remote documents (nil disables)
	Keyer  cache.Keyer      // Key builder (nil uses the default)
	Fetch  httputil.Options // HTTP options
	Stdin  io.Reader        // Standard input (nil uses os.Stdin)
	Format string           // Forced input format; empty detects
	Logger *log.Logger      // Logger (nil discards)
}

// Load reads ref with a zero Loader.
func Load(ctx context.Context, ref string) (*Document, error) {
	return (&Loader{}).Load(ctx, ref)
}

// Load reads and decodes ref. The input format is taken from l.Format,
// then the file extension or content type, and finally sniffed from the
// content.
func (l *Loader) Load(ctx context.Context, ref string) (*Document, error) {
	var (
		doc *Document
		err error
	)
	switch {
	case ref == Stdin:
		doc, err = l.readStdin()
	case isURL(ref):
		doc, err = l.fetch(ctx, ref)
	default:
		doc, err = readFile(ref)
	}
	if err != nil {
		return nil, err
	}

	if l.Format != "" && l.Format != value.FormatAuto {
		doc.Format = l.Format
	}
	v, err := value.Decode(doc.Data, doc.Format)
	if err != nil {
		return nil, err
	}
	doc.Value = v
	if doc.Format == value.FormatAuto {
		doc.Format = sniff(doc.Data)
	}
	return doc, nil
}

func (l *Loader) readStdin() (*Document, error) {
	r := l.Stdin
	if r == nil {
		r = os.Stdin
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read stdin")
	}
	return &Document{Ref: Stdin, Format: value.FormatAuto, Data: data}, nil
}

func readFile(name string) (*Document, error) {
	data, err := os.ReadFile(name)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "file %s not found", name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", name)
	}
	return &Document{Ref: name, Format: value.FormatFromName(name), Data: data}, nil
}

// cachedSource is the cache entry of a fetched document.
type cachedSource struct {
	Format string `json:"format"`
	Data   []byte `json:"data"`
}

func (l *Loader) fetch(ctx context.Context, url string) (*Document, error) {
	logger := l.logger()
	keyer := l.Keyer
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	key := keyer.SourceKey(url)

	if l.Cache != nil {
		if data, ok, err := l.Cache.Get(ctx, key); err == nil && ok {
			var entry cachedSource
			if json.Unmarshal(data, &entry) == nil {
				logger.Debug("source cache hit", "url", url)
				return &Document{Ref: url, Format: entry.Format, Data: entry.Data, Cached: true}, nil
			}
		} else if err != nil {
			logger.Warn("source cache read failed", "url", url, "error", err)
		}
	}

	logger.Debug("fetching", "url", url)
	resp, err := httputil.Fetch(ctx, url, l.Fetch)
	if err != nil {
		return nil, err
	}

	format := value.FormatFromName(urlPath(url))
	if format == value.FormatAuto {
		format = value.FormatFromContentType(resp.ContentType)
	}
	doc := &Document{Ref: url, Format: format, Data: resp.Body}

	if l.Cache != nil {
		if data, err := json.Marshal(cachedSource{Format: format, Data: resp.Body}); err == nil {
			if err := l.Cache.Set(ctx, key, data, cache.TTLSource); err != nil {
				logger.Warn("source cache write failed", "url", url, "error", err)
			}
		}
	}
	return doc, nil
}

func (l *Loader) logger() *log.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return log.New(io.Discard)
}

func isURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// urlPath strips the scheme, host and query from a URL.
func urlPath(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	return path.Base(url)
}

func sniff(data []byte) string {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return value.FormatJSON
	}
	return value.FormatYAML
}
