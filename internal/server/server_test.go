package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/docnav/internal/content"
	"github.com/ziadkadry99/docnav/internal/db"
	"github.com/ziadkadry99/docnav/internal/locale"
	"github.com/ziadkadry99/docnav/internal/navtree"
	"github.com/ziadkadry99/docnav/internal/session"
	"github.com/ziadkadry99/docnav/internal/site"
)

var testDocs = map[string]string{
	"index.md":          "# Home\n\nWelcome.\n",
	"guide/index.md":    "# Guide\n\nStart here.\n",
	"guide/intro.md":    "# Intro\n\n## Install\n\n## Usage\n",
	"guide/intro.de.md": "# Einführung\n\n## Installation\n",
	"api/ref.md":        "# Reference\n",
}

func writeDocs(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

type testEnv struct {
	srv     *Server
	docsDir string
}

func newTestServer(t *testing.T, states *session.StateStore, locales *locale.Resolver) *testEnv {
	t.Helper()
	docsDir := writeDocs(t, testDocs)
	sites, err := NewSites(content.NewLoader(docsDir, nil, nil, locales))
	if err != nil {
		t.Fatalf("NewSites: %v", err)
	}
	layout, err := site.NewLayout("Test Docs", site.NewPageRenderer("github", true))
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	sessions := session.NewManager(states, nil)
	t.Cleanup(sessions.Close)

	cfg := Config{Nav: navtree.Options{DefaultMenuCollapsed: true}}
	return &testEnv{
		srv:     New(cfg, sites, locales, layout, sessions, nil),
		docsDir: docsDir,
	}
}

// do serves one request and carries the session cookie over.
func (e *testEnv) do(t *testing.T, method, target, body string, cookie *http.Cookie) (*httptest.ResponseRecorder, *http.Cookie) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.srv.Router().ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			cookie = c
		}
	}
	return w, cookie
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("unmarshal %q: %v", w.Body.String(), err)
	}
}

func TestHealthCheck(t *testing.T) {
	env := newTestServer(t, nil, nil)

	w, _ := env.do(t, "GET", "/healthz", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	decode(t, w, &body)
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	env := newTestServer(t, nil, nil)
	env.srv.cfg.AllowAll = true
	env.srv.router = env.srv.buildRouter()

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	env.srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestPage(t *testing.T) {
	env := newTestServer(t, nil, nil)

	w, cookie := env.do(t, "GET", "/guide/intro", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /guide/intro = %d", w.Code)
	}
	if cookie == nil {
		t.Fatal("expected a session cookie")
	}
	body := w.Body.String()
	for _, want := range []string{`data-mode="server"`, `data-api="/api/nav"`, `id="usage"`, `href="/guide"`, `class="page active"`} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %s", want)
		}
	}

	w, _ = env.do(t, "GET", "/nope", "", cookie)
	if w.Code != http.StatusNotFound {
		t.Errorf("GET /nope = %d, want 404", w.Code)
	}

	w, _ = env.do(t, "GET", "/style.css", "", nil)
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Header().Get("Content-Type"), "text/css") {
		t.Errorf("GET /style.css = %d %q", w.Code, w.Header().Get("Content-Type"))
	}
}

func TestNavAPI(t *testing.T) {
	env := newTestServer(t, nil, nil)

	// Visiting the folder's own page forces it open and remembers that.
	w, cookie := env.do(t, "GET", "/api/nav?path=/guide&view=desktop", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/nav = %d: %s", w.Code, w.Body.String())
	}
	var resp navResponse
	decode(t, w, &resp)
	if resp.Mobile != nil {
		t.Error("expected only the desktop view")
	}
	guide := findRendered(resp.Desktop, "/guide")
	if guide == nil || !guide.Active || !guide.Open {
		t.Fatalf("expected /guide active and open, got %+v", guide)
	}

	w, _ = env.do(t, "GET", "/api/nav?path=/guide/intro&anchor=usage", "", cookie)
	resp = navResponse{}
	decode(t, w, &resp)
	if resp.Desktop == nil || resp.Mobile == nil {
		t.Fatal("expected both views")
	}
	intro := findRendered(resp.Desktop, "/guide/intro")
	if intro == nil {
		t.Fatal("expected /guide/intro under the remembered open folder")
	}
	if intro.Anchors == nil || intro.Anchors.ActiveIndex != 1 {
		t.Errorf("expected the usage anchor to be active, got %+v", intro.Anchors)
	}
	if guide := findRendered(resp.Desktop, "/guide"); guide.Active {
		t.Error("an ancestor folder must not be active")
	}

	body := `{"path": "/guide/intro", "view": "mobile", "active_anchors": {"install": {"isActive": true}}}`
	w, _ = env.do(t, "POST", "/api/nav", body, cookie)
	resp = navResponse{}
	decode(t, w, &resp)
	if intro := findRendered(resp.Mobile, "/guide/intro"); intro == nil || intro.Anchors == nil || intro.Anchors.ActiveIndex != 0 {
		t.Errorf("expected the install anchor to be active, got %+v", intro)
	}

	w, _ = env.do(t, "GET", "/api/nav?path=/guide&view=desktop&format=html", "", cookie)
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/html") || !strings.Contains(w.Body.String(), `data-route="/guide"`) {
		t.Errorf("expected sidebar markup, got %q", w.Body.String())
	}

	w, _ = env.do(t, "GET", "/api/nav?path=/&view=sideways", "", cookie)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad view = %d, want 400", w.Code)
	}
}

func findRendered(nodes []*navtree.RenderedNode, route string) *navtree.RenderedNode {
	for _, n := range nodes {
		if navtree.NormalizeRoute(n.Route) == navtree.NormalizeRoute(route) {
			return n
		}
		if found := findRendered(n.Children, route); found != nil {
			return found
		}
	}
	return nil
}

func TestToggle(t *testing.T) {
	env := newTestServer(t, nil, nil)

	var res navtree.ClickResult
	w, cookie := env.do(t, "POST", "/api/nav/toggle", `{"path": "/", "route": "/guide", "disclosure": true}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("toggle = %d: %s", w.Code, w.Body.String())
	}
	decode(t, w, &res)
	if res.Action != navtree.ActionToggle || !res.Expanded || res.Navigate != "" {
		t.Errorf("disclosure click = %+v", res)
	}

	w, _ = env.do(t, "POST", "/api/nav/toggle", `{"path": "/", "route": "/guide"}`, cookie)
	res = navtree.ClickResult{}
	decode(t, w, &res)
	if res.Action != navtree.ActionOpen || !res.Expanded || res.Navigate != "/guide" {
		t.Errorf("label click = %+v", res)
	}

	w, _ = env.do(t, "GET", "/api/nav/state", "", cookie)
	var state stateResponse
	decode(t, w, &state)
	if state.Session != cookie.Value {
		t.Errorf("state session = %q, want %q", state.Session, cookie.Value)
	}
	if !state.States["/guide/"] {
		t.Errorf("expected /guide/ expanded, got %v", state.States)
	}

	tests := map[string]int{
		`{"path": "/"}`:                      http.StatusBadRequest,
		`{"path": "/", "route": "/nope"}`:    http.StatusNotFound,
		`not json`:                           http.StatusBadRequest,
		`{"path": "/", "route": "/api/ref"}`: http.StatusOK,
	}
	for body, want := range tests {
		if w, _ := env.do(t, "POST", "/api/nav/toggle", body, cookie); w.Code != want {
			t.Errorf("toggle %s = %d, want %d", body, w.Code, want)
		}
	}
}

func TestCollapseSurvivesOtherTab(t *testing.T) {
	env := newTestServer(t, nil, nil)

	guideOpen := func(cookie *http.Cookie) bool {
		t.Helper()
		w, _ := env.do(t, "GET", "/api/nav?path=/guide&view=desktop", "", cookie)
		var resp navResponse
		decode(t, w, &resp)
		guide := findRendered(resp.Desktop, "/guide")
		if guide == nil {
			t.Fatal("expected /guide in the sidebar")
		}
		return guide.Open
	}

	// First tab lands on /guide, which forces it open, then collapses it.
	_, cookie := env.do(t, "GET", "/guide", "", nil)
	if !guideOpen(cookie) {
		t.Fatal("expected /guide forced open")
	}
	var res navtree.ClickResult
	w, _ := env.do(t, "POST", "/api/nav/toggle", `{"path": "/guide", "route": "/guide", "disclosure": true}`, cookie)
	decode(t, w, &res)
	if res.Expanded {
		t.Fatalf("toggle = %+v, want collapsed", res)
	}
	if guideOpen(cookie) {
		t.Fatal("collapse undone by a re-render of the same page")
	}

	// A second tab of the same visitor renders another page.
	env.do(t, "GET", "/api/nav?path=/api/ref", "", cookie)
	if guideOpen(cookie) {
		t.Error("collapse undone after another tab rendered a different page")
	}

	// Loading /guide again is a new navigation.
	env.do(t, "GET", "/guide", "", cookie)
	if !guideOpen(cookie) {
		t.Error("expected a page load to force /guide open again")
	}
}

func TestResetState(t *testing.T) {
	d, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	env := newTestServer(t, session.NewStateStore(d), nil)

	_, cookie := env.do(t, "POST", "/api/nav/toggle", `{"path": "/", "route": "/api", "disclosure": true}`, nil)
	w, _ := env.do(t, "DELETE", "/api/nav/state", "", cookie)
	if w.Code != http.StatusNoContent {
		t.Fatalf("DELETE /api/nav/state = %d", w.Code)
	}

	w, _ = env.do(t, "GET", "/api/nav/state", "", cookie)
	var state stateResponse
	decode(t, w, &state)
	if state.Session == cookie.Value || len(state.States) != 0 {
		t.Errorf("expected a fresh session, got %+v", state)
	}
}

func TestStateSurvivesRestart(t *testing.T) {
	d, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	states := session.NewStateStore(d)

	env := newTestServer(t, states, nil)
	_, cookie := env.do(t, "POST", "/api/nav/toggle", `{"path": "/", "route": "/api", "disclosure": true}`, nil)
	if cookie == nil {
		t.Fatal("expected a session cookie")
	}

	restarted := newTestServer(t, states, nil)
	w, _ := restarted.do(t, "GET", "/api/nav/state", "", cookie)
	var state stateResponse
	decode(t, w, &state)
	if state.Session != cookie.Value {
		t.Fatalf("expected the session to be restored, got %q", state.Session)
	}
	if !state.States["/api/"] {
		t.Errorf("expected /api/ expanded after restart, got %v", state.States)
	}
}

func TestLocales(t *testing.T) {
	res, err := locale.NewResolver([]string{"en", "de"}, "en")
	if err != nil {
		t.Fatal(err)
	}
	env := newTestServer(t, nil, res)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Accept-Language", "de-DE,de;q=0.9")
	w := httptest.NewRecorder()
	env.srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/de" {
		t.Errorf("GET / with German preference = %d %q", w.Code, w.Header().Get("Location"))
	}

	w, _ = env.do(t, "GET", "/de/guide/intro", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /de/guide/intro = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Einführung") || !strings.Contains(body, `lang="de"`) {
		t.Error("expected the German variant")
	}
	if !strings.Contains(body, `href="/de/guide"`) {
		t.Error("expected sidebar links under the locale prefix")
	}

	w, _ = env.do(t, "GET", "/api/nav?path=/guide.de", "", nil)
	var resp navResponse
	decode(t, w, &resp)
	if resp.Locale != "de" || resp.Route != "/guide" {
		t.Errorf("resolved %q in %q", resp.Route, resp.Locale)
	}
}

func TestWebSocket(t *testing.T) {
	env := newTestServer(t, nil, nil)
	ts := httptest.NewServer(env.srv.Router())
	defer ts.Close()
	defer env.srv.Shutdown(context.Background())

	_, cookie := env.do(t, "GET", "/api/nav/state", "", nil)

	header := http.Header{}
	header.Set("Cookie", cookie.String())
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + APIBase + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	env.do(t, "POST", "/api/nav/toggle", `{"path": "/", "route": "/guide", "disclosure": true}`, cookie)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var change navtree.Change
	if err := conn.ReadJSON(&change); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if change.Route != "/guide/" || !change.Expanded {
		t.Errorf("change = %+v", change)
	}
}

func TestWebSocketPushesSidebars(t *testing.T) {
	env := newTestServer(t, nil, nil)
	ts := httptest.NewServer(env.srv.Router())
	defer ts.Close()
	defer env.srv.Shutdown(context.Background())

	_, cookie := env.do(t, "GET", "/guide", "", nil)

	header := http.Header{}
	header.Set("Cookie", cookie.String())
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + APIBase + "/ws?path=/guide"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	type pushed struct {
		Route    string                  `json:"route"`
		Expanded bool                    `json:"expanded"`
		Desktop  []*navtree.RenderedNode `json:"desktop"`
		Mobile   []*navtree.RenderedNode `json:"mobile"`
	}
	read := func() pushed {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var m pushed
		if err := conn.ReadJSON(&m); err != nil {
			t.Fatalf("ReadJSON: %v", err)
		}
		return m
	}

	// A toggle from another tab arrives with both sidebars re-rendered.
	env.do(t, "POST", "/api/nav/toggle", `{"path": "/", "route": "/api", "disclosure": true}`, cookie)
	m := read()
	if m.Route != "/api/" || !m.Expanded {
		t.Errorf("change = %q %v", m.Route, m.Expanded)
	}
	for name, nodes := range map[string][]*navtree.RenderedNode{"desktop": m.Desktop, "mobile": m.Mobile} {
		api := findRendered(nodes, "/api")
		if api == nil || !api.Open {
			t.Errorf("%s: expected /api open, got %+v", name, api)
		}
		if guide := findRendered(nodes, "/guide"); guide == nil || !guide.Active || !guide.Open {
			t.Errorf("%s: expected /guide active and open, got %+v", name, guide)
		}
	}

	// Moving the connection to another page re-renders both trees there.
	if err := conn.WriteJSON(map[string]string{"path": "/api/ref"}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	m = read()
	if m.Route != "" {
		t.Errorf("expected a sidebar-only message, got change %q", m.Route)
	}
	if ref := findRendered(m.Mobile, "/api/ref"); ref == nil || !ref.Active {
		t.Errorf("expected /api/ref active after moving, got %+v", ref)
	}
}

func TestSitesReload(t *testing.T) {
	env := newTestServer(t, nil, nil)
	if w, _ := env.do(t, "GET", "/guide/new", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("GET /guide/new before reload = %d", w.Code)
	}

	if err := os.WriteFile(filepath.Join(env.docsDir, "guide", "new.md"), []byte("# New\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := env.srv.sites.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if w, _ := env.do(t, "GET", "/guide/new", "", nil); w.Code != http.StatusOK {
		t.Errorf("GET /guide/new after reload = %d", w.Code)
	}

	// A failed reload keeps the previous content.
	if err := os.RemoveAll(env.docsDir); err != nil {
		t.Fatal(err)
	}
	if err := env.srv.sites.Reload(); err == nil {
		t.Error("expected reload of a missing docs dir to fail")
	}
	if _, err := env.srv.sites.Get(env.srv.locales.Default()); err != nil {
		t.Errorf("expected the previous site to stay loaded: %v", err)
	}
}

func TestWatcher(t *testing.T) {
	dir := writeDocs(t, map[string]string{"index.md": "# Home\n"})

	changed := make(chan string, 8)
	w, err := NewWatcher(dir, func(rel string) error {
		changed <- rel
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	w.Start()
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "page.md"), []byte("# Page\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case rel := <-changed:
		if rel != "page.md" {
			t.Errorf("reloaded for %q, want page.md", rel)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}
