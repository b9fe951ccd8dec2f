package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/matzehuels/jsonviz/pkg/errors"
	"github.com/matzehuels/jsonviz/pkg/session"
	"github.com/matzehuels/jsonviz/pkg/value"
)

func newTestServer(t *testing.T, cfg Config) (*Server, *httptest.Server) {
	t.Helper()
	srv := New(cfg)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func createSession(t *testing.T, ts *httptest.Server, body string) string {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/sessions", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var out createResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.URL != "/s/"+out.ID {
		t.Errorf("url = %s", out.URL)
	}
	return out.ID
}

func postMessage(t *testing.T, ts *httptest.Server, id, msg string) (int, []session.Message) {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/sessions/"+id+"/messages", "application/json", strings.NewReader(msg))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out []session.Message
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, out
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestIndexRedirectsToNewSession(t *testing.T) {
	initial, _ := value.DecodeJSON([]byte(`{"a": {"b": 1}}`))
	srv, ts := newTestServer(t, Config{Initial: initial, Title: "demo", Editor: true})

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.HasPrefix(resp.Request.URL.Path, "/s/") {
		t.Errorf("final path = %s", resp.Request.URL.Path)
	}
	if csp := resp.Header.Get("Content-Security-Policy"); !strings.Contains(csp, "script-src 'nonce-") {
		t.Errorf("CSP = %q", csp)
	}
	if srv.manager.Len() != 1 {
		t.Errorf("live sessions = %d, want 1", srv.manager.Len())
	}

	id := strings.TrimPrefix(resp.Request.URL.Path, "/s/")
	sess, err := srv.manager.Get(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if sess.Scene().IsPlaceholder() {
		t.Error("initial value was not loaded")
	}
}

func TestPageUnknownSession(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	resp, err := http.Get(ts.URL + "/s/missing")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	var body errorBody
	json.NewDecoder(resp.Body).Decode(&body)
	if body.Error.Code != errors.ErrCodeSessionNotFound {
		t.Errorf("code = %s", body.Error.Code)
	}
}

func TestCreateRejectsBadBody(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"malformed", `{"a": `, errors.ErrCodeParse},
		{"primitive root", `42`, errors.ErrCodeInvalidRoot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/api/sessions", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			var body errorBody
			json.NewDecoder(resp.Body).Decode(&body)
			if resp.StatusCode != http.StatusBadRequest || body.Error.Code != tt.code {
				t.Errorf("status = %d, code = %s", resp.StatusCode, body.Error.Code)
			}
		})
	}
}

func TestMessages(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	id := createSession(t, ts, `{"a": {"b": {"c": 1}}}`)

	status, out := postMessage(t, ts, id, `{"type": "toggle", "path": "(root)/a"}`)
	if status != http.StatusOK || len(out) != 1 || out[0].Type != session.TypeUpdate {
		t.Fatalf("toggle: status = %d, out = %+v", status, out)
	}
	if n := len(out[0].Scene.Boxes); n != 3 {
		t.Errorf("boxes after toggle = %d, want 3", n)
	}

	status, out = postMessage(t, ts, id, `{"type": "toggle", "path": "(root)/nope"}`)
	if status != http.StatusBadRequest || out[0].Type != session.TypeError || out[0].Code != errors.ErrCodeInvalidPath {
		t.Errorf("bad toggle: status = %d, out = %+v", status, out)
	}

	status, out = postMessage(t, ts, id, `not json`)
	if status != http.StatusBadRequest || out[0].Code != errors.ErrCodeInvalidMessage {
		t.Errorf("malformed: status = %d, out = %+v", status, out)
	}

	status, out = postMessage(t, ts, id, `{"type": "viewport", "transform": {"x": 5, "y": 5, "k": 2}}`)
	if status != http.StatusOK || len(out) != 0 {
		t.Errorf("viewport: status = %d, out = %+v", status, out)
	}
}

func TestScene(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	id := createSession(t, ts, `{"a": 1}`)

	tests := []struct {
		format string
		status int
		ctype  string
		prefix string
	}{
		{"svg", http.StatusOK, "image/svg+xml", "<svg"},
		{"json", http.StatusOK, "application/json", "{"},
		{"dot", http.StatusOK, "text/vnd.graphviz; charset=utf-8", "digraph G {"},
		{"png", http.StatusBadRequest, "application/json", `{"error"`},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp, err := http.Get(ts.URL + "/api/sessions/" + id + "/scene." + tt.format)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			var buf strings.Builder
			if _, err := io.Copy(&buf, resp.Body); err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.status || resp.Header.Get("Content-Type") != tt.ctype {
				t.Errorf("status = %d, content type = %s", resp.StatusCode, resp.Header.Get("Content-Type"))
			}
			if !strings.HasPrefix(buf.String(), tt.prefix) {
				t.Errorf("body = %.40s", buf.String())
			}
		})
	}
}

func TestDelete(t *testing.T) {
	srv, ts := newTestServer(t, Config{})
	id := createSession(t, ts, "")

	del := func() int {
		req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/sessions/"+id, nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}
	if got := del(); got != http.StatusNoContent {
		t.Errorf("first delete = %d", got)
	}
	if got := del(); got != http.StatusNotFound {
		t.Errorf("second delete = %d", got)
	}
	if srv.manager.Len() != 0 {
		t.Errorf("live sessions = %d", srv.manager.Len())
	}
}

func TestSocket(t *testing.T) {
	store := session.NewMemoryStore()
	manager := session.NewManager(store, session.Options{}, time.Hour)
	_, ts := newTestServer(t, Config{Manager: manager})
	id := createSession(t, ts, `{"a": {"b": {"c": 1}}}`)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/" + id
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}

	read := func() session.Message {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var m session.Message
		if err := conn.ReadJSON(&m); err != nil {
			t.Fatal(err)
		}
		return m
	}

	conn.WriteJSON(session.Message{Type: session.TypeReady, Width: 640, Height: 480})
	if m := read(); m.Type != session.TypeSetJSON || string(m.Payload) != `{"a":{"b":{"c":1}}}` {
		t.Errorf("echo = %+v", m)
	}
	if m := read(); m.Type != session.TypeUpdate || len(m.Scene.Boxes) != 2 {
		t.Errorf("first update = %+v", m)
	}

	conn.WriteJSON(session.Message{Type: session.TypeToggle, Path: "(root)/a"})
	if m := read(); m.Type != session.TypeUpdate || len(m.Scene.Boxes) != 3 {
		t.Errorf("toggle update boxes = %d", len(m.Scene.Boxes))
	}

	conn.WriteMessage(websocket.TextMessage, []byte(`{"type": "bogus"}`))
	if m := read(); m.Type != session.TypeError || m.Code != errors.ErrCodeInvalidMessage {
		t.Errorf("bogus = %+v", m)
	}

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()

	// The snapshot is written when the view disconnects.
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if snap, _ := store.Get(context.Background(), id); snap != nil {
			if len(snap.Expanded) != 2 {
				t.Errorf("saved expansion = %v", snap.Expanded)
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("session was not saved after disconnect")
}

func TestSocketUnknownSession(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/missing"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("dial succeeded for unknown session")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("resp = %v", resp)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	store := session.NewMemoryStore()
	manager := session.NewManager(store, session.Options{}, time.Hour)
	srv := New(Config{Manager: manager})
	sess := manager.Create(context.Background())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ctx, ln) }()

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("Serve = %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Serve did not return")
	}
	if snap, _ := store.Get(context.Background(), sess.ID); snap == nil {
		t.Error("live session was not saved on shutdown")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidPath, http.StatusBadRequest},
		{errors.ErrCodeParse, http.StatusBadRequest},
		{errors.ErrCodeSessionNotFound, http.StatusNotFound},
		{errors.ErrCodeUnsupported, http.StatusNotImplemented},
		{errors.ErrCodeTimeout, http.StatusGatewayTimeout},
		{errors.ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := statusFor(errors.New(tt.code, "x")); got != tt.want {
				t.Errorf("statusFor(%s) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}
