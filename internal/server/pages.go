package server

import (
	"bytes"
	"mime"
	"net/http"
	"path"

	"go.uber.org/zap"

	"github.com/ziadkadry99/docnav/internal/logging"
	"github.com/ziadkadry99/docnav/internal/navtree"
	"github.com/ziadkadry99/docnav/internal/site"
)

// handlePage renders the page at the request path with the sidebar of the
// caller's session.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" && s.locales.Enabled() {
		if tag := s.locales.Match(r.Header.Get("Accept-Language")); tag != s.locales.Default() {
			http.Redirect(w, r, s.locales.Prefix(tag), http.StatusFound)
			return
		}
	}

	nr, ok := s.resolve(w, r, r.URL.Path)
	if !ok {
		return
	}
	page, err := nr.site.Page(nr.route)
	if err != nil {
		if isNotFound(err) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	renderer := navtree.NewRenderer(nr.session.Store, s.cfg.Nav)
	frame := nr.site.Frame(nr.route, nil)
	frame.Navigated = true
	req := s.pageRequest(nr, renderer, frame)
	req.Page = page
	for _, tag := range s.locales.Locales() {
		req.Locales = append(req.Locales, site.LocaleLink{
			Name:    tag.String(),
			Href:    site.ServerLinker(s.locales.Prefix(tag))(page.Route),
			Current: tag == nr.tag,
		})
	}

	var buf bytes.Buffer
	if err := s.layout.RenderPage(&buf, req); err != nil {
		logging.FromContext(r.Context()).Error("rendering page",
			zap.String("page", page.RelPath),
			zap.Error(err),
		)
		http.Error(w, "rendering page failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) pageRequest(nr *request, renderer *navtree.Renderer, frame navtree.Frame) site.PageRequest {
	return site.PageRequest{
		Site:     nr.site,
		Renderer: renderer,
		Frame:    frame,
		Mode:     site.ModeServer,
		BasePath: "/",
		APIBase:  APIBase,
		Link:     site.ServerLinker(s.locales.Prefix(nr.tag)),
	}
}

// handleAsset serves one of the files the page template links to.
func (s *Server) handleAsset(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assets, err := s.layout.Assets()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", mime.TypeByExtension(path.Ext(name)))
		w.Write(assets[name])
	}
}
