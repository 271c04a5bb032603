package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/ziadkadry99/docnav/internal/logging"
	"github.com/ziadkadry99/docnav/internal/navtree"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second

	// changeBuffer is how many messages may queue for a slow client before
	// further ones are dropped. The client repaints from scratch on its
	// next page load.
	changeBuffer = 64
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsMessage is pushed for every write to the session's tree state. When the
// connection names the page it displays, the message also carries both
// sidebars re-rendered for that page.
type wsMessage struct {
	*navtree.Change
	Desktop []*navtree.RenderedNode `json:"desktop,omitempty"`
	Mobile  []*navtree.RenderedNode `json:"mobile,omitempty"`
}

// wsRequest is sent by the client when it moves to another page without
// reconnecting.
type wsRequest struct {
	Path string `json:"path"`
}

// liveSidebar is the pair of trees a connection keeps mounted.
type liveSidebar struct {
	tag     language.Tag
	route   string
	desktop *navtree.Tree
	mobile  *navtree.Tree
}

func (l *liveSidebar) message(c *navtree.Change) wsMessage {
	m := wsMessage{Change: c}
	if l != nil {
		m.Desktop, m.Mobile = l.desktop.Nodes(), l.mobile.Nodes()
	}
	return m
}

func (l *liveSidebar) close() {
	if l != nil {
		l.desktop.Close()
		l.mobile.Close()
	}
}

// handleWebSocket streams every write to the caller's tree state, so all
// open tabs of one visitor stay in sync. With ?path= the connection mounts
// the desktop and mobile sidebars of that page and pushes them along.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	sess, err := s.sessions.FromRequest(w, r)
	if err != nil {
		logger.Error("loading session", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "loading session failed")
		return
	}
	renderer := navtree.NewRenderer(sess.Store, s.cfg.Nav)

	var live *liveSidebar
	if p := r.URL.Query().Get("path"); p != "" {
		route, tag := s.locales.Resolve(p)
		st, err := s.sites.Get(tag)
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		f := st.Frame(route, nil)
		live = &liveSidebar{
			tag:     tag,
			route:   navtree.NormalizeRoute(route),
			desktop: renderer.Mount(navtree.ViewDesktop, st.Dirs.Pruned, f, nil),
			mobile:  renderer.Mount(navtree.ViewMobile, st.Dirs.Full, f, nil),
		}
		defer live.close()
	}

	// Subscribe before the handshake completes so no change is missed. The
	// trees subscribed first, so they have re-rendered when this runs.
	messages := make(chan wsMessage, changeBuffer)
	cancel := sess.Store.Subscribe(func(c navtree.Change) {
		select {
		case messages <- live.message(&c):
		default:
			logger.Warn("dropping tree change for slow client", zap.String("route", c.Route))
		}
	})
	defer cancel()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	closed := make(chan struct{})
	quit := make(chan struct{})
	defer close(quit)
	requests := make(chan wsRequest)
	go func() {
		defer close(closed)
		for {
			var req wsRequest
			if err := conn.ReadJSON(&req); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Debug("websocket read", zap.Error(err))
				}
				return
			}
			select {
			case requests <- req:
			case <-quit:
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	write := func(m wsMessage) bool {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(m); err != nil {
			logger.Debug("websocket write", zap.Error(err))
			return false
		}
		return true
	}

	for {
		select {
		case m := <-messages:
			if !write(m) {
				return
			}
		case req := <-requests:
			if live == nil {
				continue
			}
			s.moveSidebar(live, req.Path)
			if !write(live.message(nil)) {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-closed:
			return
		case <-s.done:
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return
		}
	}
}

// moveSidebar points both trees of a connection at another page of the
// same locale. Repeating the current page leaves them as they are.
func (s *Server) moveSidebar(live *liveSidebar, rawPath string) {
	route, tag := s.locales.Resolve(rawPath)
	if tag != live.tag || navtree.NormalizeRoute(route) == live.route {
		return
	}
	st, err := s.sites.Get(tag)
	if err != nil {
		return
	}
	live.route = navtree.NormalizeRoute(route)
	navtree.NavigateAll(st.Frame(route, nil), live.desktop, live.mobile)
}
