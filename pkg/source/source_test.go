package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/jsonviz/pkg/cache"
	"github.com/matzehuels/jsonviz/pkg/errors"
	"github.com/matzehuels/jsonviz/pkg/httputil"
	"github.com/matzehuels/jsonviz/pkg/value"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		file    string
		content string
		format  string
	}{
		{"json extension", "a.json", `{"b":1,"a":2}`, value.FormatJSON},
		{"yaml extension", "a.yaml", "b: 1\na: 2\n", value.FormatYAML},
		{"sniffed json", "a.txt", ` {"b":1,"a":2}`, value.FormatJSON},
		{"sniffed yaml", "a.conf", "b: 1\na: 2\n", value.FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name := filepath.Join(dir, tt.file)
			if err := os.WriteFile(name, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			doc, err := Load(context.Background(), name)
			if err != nil {
				t.Fatal(err)
			}
			if doc.Format != tt.format {
				t.Errorf("Format = %q, want %q", doc.Format, tt.format)
			}
			members, ok := value.Members(doc.Value)
			if !ok || len(members) != 2 || members[0].Key != "b" {
				t.Errorf("Value = %#v, want ordered object b, a", doc.Value)
			}
		})
	}
}

func TestLoadFileErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := Load(ctx, filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: err = %v", err)
	}

	name := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(name, []byte(`{"a":`), 0o644)
	if _, err := Load(ctx, name); !errors.Is(err, errors.ErrCodeParse) {
		t.Errorf("malformed file: err = %v", err)
	}
}

func TestLoadStdin(t *testing.T) {
	l := &Loader{Stdin: strings.NewReader(`[1, {"a": true}]`)}
	doc, err := l.Load(context.Background(), Stdin)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Ref != Stdin || doc.Format != value.FormatJSON || !value.IsArray(doc.Value) {
		t.Errorf("doc = %+v", doc)
	}
}

func TestLoadForcedFormat(t *testing.T) {
	l := &Loader{Stdin: strings.NewReader(`{"a": 1}`), Format: value.FormatYAML}
	doc, err := l.Load(context.Background(), Stdin)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Format != value.FormatYAML || !value.IsObject(doc.Value) {
		t.Errorf("doc = %+v", doc)
	}
}

func TestLoadURLCached(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/yaml")
		w.Write([]byte("name: x\ntags: [a, b]\n"))
	}))
	defer srv.Close()

	c := cache.NewMemoryCache()
	l := &Loader{Cache: c, Fetch: httputil.Options{Attempts: 1, Delay: time.Millisecond}}

	url := srv.URL + "/doc?rev=2"
	first, err := l.Load(context.Background(), url)
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached || first.Format != value.FormatYAML {
		t.Errorf("first = %+v", first)
	}

	second, err := l.Load(context.Background(), url)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached || second.Format != value.FormatYAML {
		t.Errorf("second = %+v", second)
	}
	if calls != 1 {
		t.Errorf("server calls = %d, want 1", calls)
	}
	if c.Len() != 1 {
		t.Errorf("cache entries = %d, want 1", c.Len())
	}
}

func TestLoadURLExtensionWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(`{"a":1}`))
	}))
	defer srv.Close()

	doc, err := Load(context.Background(), srv.URL+"/data.json")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Format != value.FormatJSON {
		t.Errorf("Format = %q", doc.Format)
	}
}

func TestURLPath(t *testing.T) {
	tests := map[string]string{
		"https://example.com/a/b.yaml?x=1": "b.yaml",
		"http://example.com/data.json#top": "data.json",
		"https://example.com/":             "example.com",
	}
	for in, want := range tests {
		if got := urlPath(in); got != want {
			t.Errorf("urlPath(%q) = %q, want %q", in, got, want)
		}
	}
}
