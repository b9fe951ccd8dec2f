package sink

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"html/template"

	"github.com/matzehuels/jsonviz/pkg/scene"
	"github.com/matzehuels/jsonviz/pkg/scene/styles"
)

const pageTemplate = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="Content-Security-Policy" content="{{.CSP}}">
<title>{{.Title}}</title>
<style>
  html, body { margin: 0; height: 100%; background: {{.Background}}; font: 13px system-ui, sans-serif; }
  body { display: flex; flex-direction: column; }
  .toolbar { display: flex; gap: 8px; align-items: center; padding: 6px 10px; border-bottom: 1px solid #8884; }
  .toolbar .title { font-weight: 600; margin-right: auto; opacity: 0.8; }
  main { flex: 1; display: flex; min-height: 0; }
  #editor { width: 35%; min-width: 240px; resize: horizontal; font: 12px ui-monospace, monospace; border: 0; border-right: 1px solid #8884; padding: 8px; }
  #canvas { flex: 1; overflow: hidden; }
  #canvas svg { width: 100%; height: 100%; cursor: grab; }
  #error { position: fixed; bottom: 12px; left: 12px; right: 12px; padding: 8px 12px; background: #fce8e6; color: #a50e0e; border-radius: 4px; }
</style>
</head>
<body>
<header class="toolbar">
  <span class="title">{{.Title}}</span>
  {{- if .Live}}
  <button type="button" data-cmd="expand-all">Expand all</button>
  <button type="button" data-cmd="collapse-all">Collapse all</button>
  {{- end}}
  <button type="button" data-cmd="fit">Fit</button>
</header>
<main>
  {{- if .Editor}}
  <textarea id="editor" spellcheck="false" aria-label="JSON"></textarea>
  {{- end}}
  <div id="canvas">{{.SVG}}</div>
</main>
<div id="error" hidden></div>
<script nonce="{{.Nonce}}">
{{.Interaction}}
(function () {
  var canvas = document.getElementById('canvas');
  var editor = document.getElementById('editor');
  var errorBox = document.getElementById('error');
  var socketPath = {{.SocketPath}};
  var socket = null, handle = null;

  function post(msg) {
    if (socket && socket.readyState === 1) socket.send(JSON.stringify(msg));
  }
  function bind() {
    var svg = canvas.querySelector('svg');
    handle = svg ? jsonvizBind(svg, post) : null;
  }
  function showError(text) {
    errorBox.textContent = text || '';
    errorBox.hidden = !text;
  }

  document.querySelectorAll('[data-cmd]').forEach(function (b) {
    b.addEventListener('click', function () {
      var cmd = b.getAttribute('data-cmd');
      if (socket) post({type: cmd});
      else if (cmd === 'fit' && handle) handle.fit();
    });
  });
  if (editor) {
    var timer = null;
    editor.addEventListener('input', function () {
      clearTimeout(timer);
      timer = setTimeout(function () { post({type: 'set-text', text: editor.value}); }, 300);
    });
  }

  bind();
  if (!socketPath) return;

  var scheme = location.protocol === 'https:' ? 'wss://' : 'ws://';
  socket = new WebSocket(scheme + location.host + socketPath);
  socket.addEventListener('open', function () {
    post({type: 'ready', width: canvas.clientWidth, height: canvas.clientHeight});
  });
  socket.addEventListener('message', function (ev) {
    var msg = JSON.parse(ev.data);
    if (msg.type === 'set-json') {
      if (editor && document.activeElement !== editor) editor.value = JSON.stringify(msg.payload, null, 2);
    } else if (msg.type === 'update') {
      canvas.innerHTML = msg.svg;
      bind();
      showError(msg.error);
    } else if (msg.type === 'error') {
      showError(msg.message);
    }
  });
  socket.addEventListener('close', function () { showError('Connection closed.'); });
})();
</script>
</body>
</html>
`

var page = template.Must(template.New("page").Parse(pageTemplate))

// HTMLOption configures [RenderHTML].
type HTMLOption func(*htmlRenderer)

type htmlRenderer struct {
	title      string
	socketPath string
	nonce      string
	editor     bool
	svgOpts    []SVGOption
}

// WithTitle sets the page title.
func WithTitle(title string) HTMLOption { return func(r *htmlRenderer) { r.title = title } }

// WithSocket connects the page to a session websocket at path. Without it
// the page is static: only fitting works.
func WithSocket(path string) HTMLOption { return func(r *htmlRenderer) { r.socketPath = path } }

// WithNonce sets the script nonce. A fresh random nonce is used otherwise.
func WithNonce(nonce string) HTMLOption { return func(r *htmlRenderer) { r.nonce = nonce } }

// WithEditor adds a text pane that sends its content as set-text messages.
func WithEditor() HTMLOption { return func(r *htmlRenderer) { r.editor = true } }

// WithHTMLSVGOptions passes options through to the embedded SVG renderer.
func WithHTMLSVGOptions(opts ...SVGOption) HTMLOption {
	return func(r *htmlRenderer) { r.svgOpts = opts }
}

type pageData struct {
	Title       string
	CSP         string
	Nonce       string
	Background  string
	Live        bool
	Editor      bool
	SocketPath  string
	SVG         template.HTML
	Interaction template.JS
}

// RenderHTML renders s inside a page that binds the interaction script and,
// with [WithSocket], relays messages to and from a live session.
func RenderHTML(s *scene.Scene, opts ...HTMLOption) ([]byte, error) {
	r := htmlRenderer{title: "jsonviz"}
	for _, opt := range opts {
		opt(&r)
	}
	if r.nonce == "" {
		n, err := NewNonce()
		if err != nil {
			return nil, err
		}
		r.nonce = n
	}

	st, err := styles.Lookup(s.Style)
	if err != nil {
		return nil, err
	}
	svgOpts := append([]SVGOption{WithStyle(st)}, r.svgOpts...)
	svgOpts = append(svgOpts, WithoutScript())
	svg, err := RenderSVG(s, svgOpts...)
	if err != nil {
		return nil, err
	}

	data := pageData{
		Title:       r.title,
		CSP:         ContentSecurityPolicy(r.nonce),
		Nonce:       r.nonce,
		Background:  st.Background(),
		Live:        r.socketPath != "",
		Editor:      r.editor && r.socketPath != "",
		SocketPath:  r.socketPath,
		SVG:         template.HTML(svg),
		Interaction: template.JS(InteractionScript()),
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}

// ContentSecurityPolicy returns the policy for a page whose only script
// carries nonce.
func ContentSecurityPolicy(nonce string) string {
	return fmt.Sprintf("default-src 'none'; script-src 'nonce-%s'; style-src 'unsafe-inline'; "+
		"connect-src 'self' ws: wss:; img-src 'self' data:", nonce)
}

// NewNonce returns a random base64 nonce for [ContentSecurityPolicy].
func NewNonce() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
