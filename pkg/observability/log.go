package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level.
// It implements all hook interfaces of this package.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{Logger: logger}
}

// RegisterLogHooks installs a LogHooks for every event category.
func RegisterLogHooks(logger *log.Logger) {
	h := NewLogHooks(logger)
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
	SetSessionHooks(h)
}

func (h *LogHooks) done(msg string, err error, kv ...any) {
	if err != nil {
		h.Logger.Debug(msg, append(kv, "error", err)...)
		return
	}
	h.Logger.Debug(msg, kv...)
}

func (h *LogHooks) OnBuild(_ context.Context, nodes int, d time.Duration, err error) {
	h.done("tree built", err, "nodes", nodes, "took", d)
}

func (h *LogHooks) OnPassStart(_ context.Context, expanded int) {
	h.Logger.Debug("pass started", "expanded", expanded)
}

func (h *LogHooks) OnPassComplete(_ context.Context, boxes, edges int, d time.Duration, err error) {
	h.done("pass complete", err, "boxes", boxes, "edges", edges, "took", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render started", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.done("render complete", err, "formats", formats, "took", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.Logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.Logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "took", d)
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.Logger.Debug("http error", "method", method, "host", host, "path", path, "error", err)
}

func (h *LogHooks) OnSessionCreated(_ context.Context, id string) {
	h.Logger.Debug("session created", "id", id)
}

func (h *LogHooks) OnSessionClosed(_ context.Context, id string, lifetime time.Duration) {
	h.Logger.Debug("session closed", "id", id, "lifetime", lifetime)
}

func (h *LogHooks) OnMessage(_ context.Context, id, msgType string, d time.Duration, err error) {
	h.done("session message", err, "id", id, "type", msgType, "took", d)
}
