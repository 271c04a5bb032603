package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/ziadkadry99/docnav/internal/content"
	"github.com/ziadkadry99/docnav/internal/logging"
	"github.com/ziadkadry99/docnav/internal/navtree"
	"github.com/ziadkadry99/docnav/internal/session"
	"github.com/ziadkadry99/docnav/internal/site"
)

// navRequest is the body of POST /api/nav. GET takes the same fields as
// query parameters, with one anchor parameter per active slug.
type navRequest struct {
	Path          string                `json:"path"`
	View          string                `json:"view"`
	Format        string                `json:"format"`
	ActiveAnchors navtree.ActiveAnchors `json:"active_anchors"`
}

// navResponse is the rendered sidebar of one path. A view parameter limits
// the response to that view.
type navResponse struct {
	Route   string                  `json:"route"`
	Locale  string                  `json:"locale,omitempty"`
	Desktop []*navtree.RenderedNode `json:"desktop,omitempty"`
	Mobile  []*navtree.RenderedNode `json:"mobile,omitempty"`
}

// toggleRequest is the body of POST /api/nav/toggle.
type toggleRequest struct {
	Path       string `json:"path"`
	Route      string `json:"route"`
	Disclosure bool   `json:"disclosure"`
}

// stateResponse is the stored tree state of the caller's session.
type stateResponse struct {
	Session string          `json:"session"`
	States  map[string]bool `json:"states"`
}

// request is what every navigation handler resolves first.
type request struct {
	route   string
	tag     language.Tag
	site    *content.Site
	session *session.Session
}

func (s *Server) resolve(w http.ResponseWriter, r *http.Request, rawPath string) (*request, bool) {
	if rawPath == "" {
		rawPath = "/"
	}
	route, tag := s.locales.Resolve(rawPath)
	st, err := s.sites.Get(tag)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	sess, err := s.sessions.FromRequest(w, r)
	if err != nil {
		logging.FromContext(r.Context()).Error("loading session", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "loading session failed")
		return nil, false
	}
	return &request{route: route, tag: tag, site: st, session: sess}, true
}

func (s *Server) handleNav(w http.ResponseWriter, r *http.Request) {
	var req navRequest
	if r.Method == http.MethodPost {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	} else {
		q := r.URL.Query()
		req.Path = q.Get("path")
		req.View = q.Get("view")
		req.Format = q.Get("format")
		if anchors := q["anchor"]; len(anchors) > 0 {
			req.ActiveAnchors = navtree.ActiveAnchorsOf(anchors...)
		}
	}

	nr, ok := s.resolve(w, r, req.Path)
	if !ok {
		return
	}
	renderer := navtree.NewRenderer(nr.session.Store, s.cfg.Nav)
	frame := nr.site.Frame(nr.route, req.ActiveAnchors)

	if req.Format == "html" {
		var buf bytes.Buffer
		pr := s.pageRequest(nr, renderer, frame)
		if err := s.layout.RenderSidebar(&buf, navtree.ParseView(req.View), pr); err != nil {
			logging.FromContext(r.Context()).Error("rendering sidebar", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "rendering sidebar failed")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(buf.Bytes())
		return
	}

	resp := navResponse{Route: nr.route}
	if s.locales.Enabled() {
		resp.Locale = nr.tag.String()
	}
	switch req.View {
	case "":
		sb := renderer.Sidebar(nr.site.Dirs, frame)
		resp.Desktop, resp.Mobile = sb.Desktop, sb.Mobile
	case string(navtree.ViewMobile):
		resp.Mobile = renderer.RenderView(navtree.ViewMobile, nr.site.Dirs.Full, frame)
	case string(navtree.ViewDesktop):
		resp.Desktop = renderer.RenderView(navtree.ViewDesktop, nr.site.Dirs.Pruned, frame)
	default:
		writeError(w, http.StatusBadRequest, "view must be desktop or mobile")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Route == "" {
		writeError(w, http.StatusBadRequest, "route is required")
		return
	}

	nr, ok := s.resolve(w, r, req.Path)
	if !ok {
		return
	}
	// The full set, so folders only listed on mobile can be toggled too.
	if navtree.Find(nr.site.Dirs.Full, req.Route) == nil {
		writeError(w, http.StatusNotFound, req.Route+": "+content.ErrNotFound.Error())
		return
	}
	renderer := navtree.NewRenderer(nr.session.Store, s.cfg.Nav)
	res := renderer.Click(nr.site.Dirs.Full, nr.route, req.Route, req.Disclosure)
	if res.Navigate != "" {
		res.Navigate = site.ServerLinker(s.locales.Prefix(nr.tag))(res.Navigate)
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.FromRequest(w, r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "loading session failed")
		return
	}
	writeJSON(w, http.StatusOK, stateResponse{Session: sess.ID, States: sess.Store.Snapshot()})
}

// handleResetState forgets the caller's tree state.
func (s *Server) handleResetState(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Forget(w, r); err != nil {
		logging.FromContext(r.Context()).Error("forgetting session", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "resetting state failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// isNotFound reports whether err means the requested page does not exist.
func isNotFound(err error) bool {
	return errors.Is(err, content.ErrNotFound)
}
