package site

// sidebarTemplate renders sidebarItem lists. It is shared by the page
// template and the HTML fragment endpoint of the server.
const sidebarTemplate = `{{define "items"}}<ul>
{{- range .}}{{template "item" .}}{{end}}
</ul>{{end}}

{{define "item"}}
{{- if .Folder}}
<li class="folder{{if .Open}} open{{end}}{{if .Active}} active{{end}}{{if .Ancestor}} ancestor{{end}}" data-route="{{.Route}}"{{if .HasOwnPage}} data-own-page{{end}}{{if .Active}} data-active{{end}}>
  <div class="folder-row">
    {{- if .HasOwnPage}}<a class="label" href="{{.Href}}">{{.Title}}</a>{{else}}<span class="label">{{.Title}}</span>{{end -}}
    <button class="disclosure" type="button" aria-label="Toggle {{.Title}}" aria-expanded="{{.Open}}"></button>
  </div>
  {{- if .Items}}{{template "items" .Items}}{{end}}
</li>
{{- else}}
<li class="page{{if .Active}} active{{end}}"><a href="{{.Href}}"{{if .NewWindow}} target="_blank" rel="noopener noreferrer"{{end}}>{{.Title}}</a>
  {{- if .Anchors}}{{template "anchors" .Anchors}}{{end}}
</li>
{{- end}}
{{- end}}

{{define "anchors"}}<ul class="anchors">
{{- $active := .ActiveIndex}}
{{- range $i, $e := .Entries}}
  <li><a href="#{{$e.Slug}}"{{if eq $i $active}} class="active-anchor"{{end}}>{{$e.Text}}</a></li>
{{- end}}
</ul>{{end}}
`

// pageTemplate is the Go html/template for each documentation page.
const pageTemplate = `<!DOCTYPE html>
<html lang="{{.Lang}}" data-theme="light">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}} | {{.ProjectName}}</title>
  <link rel="stylesheet" href="{{.BasePath}}style.css">
  <link rel="stylesheet" href="{{.BasePath}}highlight.css">
</head>
<body>
  <nav class="sidebar" id="sidebar" data-mode="{{.Mode}}" data-route="{{.Route}}" data-default-collapsed="{{.DefaultCollapsed}}"{{if .APIBase}} data-api="{{.APIBase}}"{{end}}>
    <div class="sidebar-header">
      <a class="project-title" href="{{.HomeHref}}">{{.ProjectName}}</a>
      {{- if .Locales}}
      <select class="locale-switch" id="locale-switch" aria-label="Language">
        {{- range .Locales}}
        <option value="{{.Href}}"{{if .Current}} selected{{end}}>{{.Name}}</option>
        {{- end}}
      </select>
      {{- end}}
    </div>
    <div class="sidebar-tree desktop-only" data-view="desktop">
      {{template "items" .Desktop}}
    </div>
    <div class="sidebar-tree mobile-only" data-view="mobile">
      {{template "items" .Mobile}}
    </div>
  </nav>
  <div class="sidebar-overlay" id="sidebar-overlay"></div>
  <main class="content">
    <div class="top-bar">
      <button class="menu-toggle" id="menu-toggle" aria-label="Toggle sidebar">
        <svg width="24" height="24" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
          <line x1="3" y1="6" x2="21" y2="6"/><line x1="3" y1="12" x2="21" y2="12"/><line x1="3" y1="18" x2="21" y2="18"/>
        </svg>
      </button>
      <button class="theme-toggle" id="theme-toggle" aria-label="Toggle theme">
        <svg class="sun-icon" width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
          <circle cx="12" cy="12" r="5"/><line x1="12" y1="1" x2="12" y2="3"/><line x1="12" y1="21" x2="12" y2="23"/><line x1="1" y1="12" x2="3" y2="12"/><line x1="21" y1="12" x2="23" y2="12"/>
        </svg>
        <svg class="moon-icon" width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
          <path d="M21 12.79A9 9 0 1 1 11.21 3 7 7 0 0 0 21 12.79z"/>
        </svg>
      </button>
    </div>
    <div class="page">
      <article class="page-content">
        {{.Content}}
      </article>
      {{- if .TOC}}
      <aside class="toc desktop-only">
        <p class="toc-title">On this page</p>
        {{template "anchors" .TOC}}
      </aside>
      {{- end}}
    </div>
  </main>
  <script src="{{.BasePath}}script.js"></script>
</body>
</html>`

// cssContent is the stylesheet for the documentation site.
const cssContent = `:root {
  --bg: #ffffff;
  --bg-sidebar: #f6f7f9;
  --text: #1f2328;
  --text-secondary: #4a5159;
  --text-muted: #818b94;
  --border: #e1e4e8;
  --accent: #2563eb;
  --accent-light: #e8f0fe;
  --code-bg: #f3f4f6;
  --sidebar-width: 280px;
  --toc-width: 220px;
  --content-max-width: 860px;
}

[data-theme="dark"] {
  --bg: #16181d;
  --bg-sidebar: #111317;
  --text: #d8dee9;
  --text-secondary: #aab2bf;
  --text-muted: #6b7280;
  --border: #2a2f38;
  --accent: #7aa2f7;
  --accent-light: #1c2333;
  --code-bg: #1e2129;
}

*, *::before, *::after { box-sizing: border-box; margin: 0; padding: 0; }

body {
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
  color: var(--text);
  background: var(--bg);
  line-height: 1.7;
  display: flex;
  min-height: 100vh;
}

.sidebar {
  width: var(--sidebar-width);
  background: var(--bg-sidebar);
  border-right: 1px solid var(--border);
  position: fixed;
  top: 0;
  left: 0;
  bottom: 0;
  overflow-y: auto;
  z-index: 100;
}

.sidebar-header {
  padding: 20px 16px 12px;
  border-bottom: 1px solid var(--border);
  display: flex;
  align-items: center;
  gap: 8px;
}

.project-title {
  flex: 1;
  font-weight: 700;
  color: var(--accent);
  text-decoration: none;
  white-space: nowrap;
  overflow: hidden;
  text-overflow: ellipsis;
}

.locale-switch {
  background: var(--bg);
  color: var(--text);
  border: 1px solid var(--border);
  border-radius: 4px;
  font-size: 0.8rem;
}

.sidebar-tree { padding: 8px 0; }
.sidebar-tree ul { list-style: none; }
.sidebar-tree ul ul { padding-left: 14px; }

.sidebar-tree .folder-row {
  display: flex;
  align-items: center;
  padding: 2px 8px 2px 16px;
}

.sidebar-tree .label {
  flex: 1;
  font-size: 0.85rem;
  font-weight: 600;
  color: var(--text-secondary);
  text-decoration: none;
  cursor: pointer;
  user-select: none;
}

.sidebar-tree .disclosure {
  background: none;
  border: none;
  color: var(--text-muted);
  cursor: pointer;
  width: 20px;
  height: 20px;
}

.sidebar-tree .disclosure::before {
  content: "\25B6";
  display: inline-block;
  font-size: 0.6rem;
  transition: transform 0.15s;
}

.sidebar-tree .folder.open > .folder-row > .disclosure::before { transform: rotate(90deg); }
.sidebar-tree .folder > ul { display: none; }
.sidebar-tree .folder.open > ul { display: block; }
.sidebar-tree .folder.active > .folder-row > .label { color: var(--accent); }
.sidebar-tree .folder.ancestor > .folder-row > .label { font-weight: 600; }

.sidebar-tree .page > a {
  display: block;
  padding: 3px 16px;
  font-size: 0.85rem;
  color: var(--text-muted);
  text-decoration: none;
  border-radius: 4px;
}

.sidebar-tree .page > a:hover { background: var(--accent-light); color: var(--accent); }
.sidebar-tree .page.active > a { background: var(--accent-light); color: var(--accent); font-weight: 600; }

.anchors { border-left: 1px solid var(--border); margin: 4px 0 4px 22px; }
.anchors a {
  display: block;
  padding: 1px 10px;
  font-size: 0.8rem;
  color: var(--text-muted);
  text-decoration: none;
}
.anchors a.active-anchor { color: var(--accent); font-weight: 600; }

.mobile-only { display: none; }

.sidebar-overlay { display: none; position: fixed; inset: 0; background: rgba(0,0,0,0.4); z-index: 99; }
.sidebar-overlay.visible { display: block; }

.content { margin-left: var(--sidebar-width); flex: 1; min-width: 0; }

.top-bar {
  display: flex;
  justify-content: flex-end;
  align-items: center;
  padding: 8px 24px;
  border-bottom: 1px solid var(--border);
  position: sticky;
  top: 0;
  background: var(--bg);
  z-index: 50;
}

.menu-toggle { display: none; background: none; border: none; color: var(--text); cursor: pointer; margin-right: auto; }
.theme-toggle { background: none; border: 1px solid var(--border); border-radius: 6px; color: var(--text); cursor: pointer; padding: 4px 8px; }
[data-theme="dark"] .sun-icon { display: inline; }
[data-theme="dark"] .moon-icon { display: none; }
[data-theme="light"] .sun-icon { display: none; }
[data-theme="light"] .moon-icon { display: inline; }

.page { display: flex; gap: 32px; padding: 32px 40px; }
.page-content { flex: 1; max-width: var(--content-max-width); min-width: 0; }
.page-content h1 { font-size: 2rem; margin-bottom: 16px; }
.page-content h2 { font-size: 1.4rem; margin: 32px 0 12px; padding-bottom: 6px; border-bottom: 1px solid var(--border); }
.page-content h3 { font-size: 1.15rem; margin: 24px 0 8px; }
.page-content p, .page-content ul, .page-content ol { margin-bottom: 14px; }
.page-content ul, .page-content ol { padding-left: 24px; }
.page-content a { color: var(--accent); }
.page-content code { background: var(--code-bg); border-radius: 4px; padding: 1px 5px; font-size: 0.88em; }
.page-content pre { background: var(--code-bg); border-radius: 6px; padding: 14px 16px; overflow-x: auto; margin-bottom: 16px; }
.page-content pre code { background: none; padding: 0; }
.page-content table { border-collapse: collapse; margin-bottom: 16px; }
.page-content th, .page-content td { border: 1px solid var(--border); padding: 6px 12px; }

.toc { width: var(--toc-width); position: sticky; top: 72px; align-self: flex-start; }
.toc-title { font-size: 0.75rem; font-weight: 700; text-transform: uppercase; color: var(--text-muted); margin-bottom: 6px; }
.toc .anchors { margin-left: 0; }

@media (max-width: 768px) {
  .sidebar { transform: translateX(-100%); transition: transform 0.2s; }
  .sidebar.open { transform: translateX(0); }
  .content { margin-left: 0; }
  .menu-toggle { display: block; }
  .desktop-only { display: none; }
  .mobile-only { display: block; }
  .page { padding: 20px; }
}
`

// jsContent drives the sidebar on the client. Folder clicks follow the
// same policy as navtree.DecideToggle. On a generated site the expanded
// states live in sessionStorage; with the server they are posted to the
// toggle endpoint and pushed back over a websocket together with both
// sidebars re-rendered for the page.
const jsContent = `(function() {
  "use strict";

  var html = document.documentElement;
  var nav = document.getElementById("sidebar");
  if (!nav) return;

  var mode = nav.getAttribute("data-mode");
  var api = nav.getAttribute("data-api") || "";
  var currentRoute = nav.getAttribute("data-route") || "/";
  var defaultCollapsed = nav.getAttribute("data-default-collapsed") === "true";
  var KEY = "docnav-tree";
  var FORCED = "docnav-forced";

  // ===== Theme toggle =====
  var themeToggle = document.getElementById("theme-toggle");
  function setTheme(theme) {
    html.setAttribute("data-theme", theme);
    try { localStorage.setItem("docnav-theme", theme); } catch (e) {}
  }
  var storedTheme = null;
  try { storedTheme = localStorage.getItem("docnav-theme"); } catch (e) {}
  if (storedTheme) {
    setTheme(storedTheme);
  } else if (window.matchMedia && window.matchMedia("(prefers-color-scheme: dark)").matches) {
    setTheme("dark");
  }
  if (themeToggle) {
    themeToggle.addEventListener("click", function() {
      setTheme(html.getAttribute("data-theme") === "dark" ? "light" : "dark");
    });
  }

  // ===== Mobile menu =====
  var menuToggle = document.getElementById("menu-toggle");
  var overlay = document.getElementById("sidebar-overlay");
  function toggleMenu() {
    nav.classList.toggle("open");
    overlay.classList.toggle("visible");
  }
  if (menuToggle) menuToggle.addEventListener("click", toggleMenu);
  if (overlay) overlay.addEventListener("click", toggleMenu);

  // ===== Locale switch =====
  var localeSwitch = document.getElementById("locale-switch");
  if (localeSwitch) {
    localeSwitch.addEventListener("change", function() {
      window.location.href = this.value;
    });
  }

  // ===== Tree state =====
  function normalize(route) {
    route = route.split("#")[0];
    return route.replace(/\/+$/, "") + "/";
  }

  function load() {
    try { return JSON.parse(sessionStorage.getItem(KEY)) || {}; } catch (e) { return {}; }
  }

  function save() {
    try { sessionStorage.setItem(KEY, JSON.stringify(state)); } catch (e) {}
  }

  var state = mode === "static" ? load() : {};

  function resolve(route) {
    var key = normalize(route);
    return Object.prototype.hasOwnProperty.call(state, key) ? state[key] : !defaultCollapsed;
  }

  // Every folder with this route, in both the desktop and mobile trees.
  function folders(route) {
    var key = normalize(route);
    return Array.prototype.filter.call(nav.querySelectorAll("li.folder"), function(li) {
      return normalize(li.getAttribute("data-route")) === key;
    });
  }

  function paint(route, open) {
    folders(route).forEach(function(li) {
      li.classList.toggle("open", open);
      var button = li.querySelector(".folder-row > .disclosure");
      if (button) button.setAttribute("aria-expanded", open ? "true" : "false");
    });
  }

  function set(route, open) {
    state[normalize(route)] = open;
    paint(route, open);
    if (mode === "static") save();
  }

  function decide(hasOwnPage, active, disclosure) {
    if (hasOwnPage) return (active || disclosure) ? "toggle" : "open";
    return active ? "none" : "toggle";
  }

  if (mode === "static") {
    // Landing on a page forces its folder open once. Reloading the same
    // page keeps a collapse; the rest comes from the stored states.
    var landed = null;
    try { landed = sessionStorage.getItem(FORCED); } catch (e) {}
    if (landed !== normalize(currentRoute)) {
      nav.querySelectorAll("li.folder[data-active]").forEach(function(li) {
        state[normalize(li.getAttribute("data-route"))] = true;
      });
      save();
      try { sessionStorage.setItem(FORCED, normalize(currentRoute)); } catch (e) {}
    }
    nav.querySelectorAll("li.folder").forEach(function(li) {
      paint(li.getAttribute("data-route"), resolve(li.getAttribute("data-route")));
    });
  }

  function clickStatic(li, disclosure, event) {
    var route = li.getAttribute("data-route");
    var action = decide(li.hasAttribute("data-own-page"), li.hasAttribute("data-active"), disclosure);
    if (action === "toggle") set(route, !resolve(route));
    if (action === "open") set(route, true);
    if (disclosure || action !== "open") event.preventDefault();
  }

  function clickServer(li, disclosure, event) {
    var route = li.getAttribute("data-route");
    event.preventDefault();
    fetch(api + "/toggle", {
      method: "POST",
      credentials: "same-origin",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify({ path: window.location.pathname + window.location.hash, route: route, disclosure: disclosure })
    })
      .then(function(r) { return r.json(); })
      .then(function(res) {
        paint(route, res.expanded);
        if (res.navigate) {
          var link = li.querySelector(".folder-row > a.label");
          window.location.href = link ? link.getAttribute("href") : res.navigate;
        }
      });
  }

  nav.addEventListener("click", function(event) {
    var row = event.target.closest(".folder-row");
    if (!row) return;
    var li = row.parentElement;
    var disclosure = !!event.target.closest(".disclosure");
    if (mode === "server") {
      clickServer(li, disclosure, event);
    } else {
      clickStatic(li, disclosure, event);
    }
  });

  // ===== Server push =====
  if (mode === "server" && window.WebSocket) {
    var proto = window.location.protocol === "https:" ? "wss:" : "ws:";
    var here = window.location.pathname + window.location.hash;
    var socket = new WebSocket(proto + "//" + window.location.host + api + "/ws?path=" + encodeURIComponent(here));
    function paintTree(nodes) {
      (nodes || []).forEach(function(n) {
        if (n.folder) paint(n.route, !!n.open);
        paintTree(n.children);
      });
    }
    socket.addEventListener("message", function(msg) {
      var m;
      try { m = JSON.parse(msg.data); } catch (e) { return; }
      if (!m) return;
      if (m.route) paint(m.route, m.expanded);
      paintTree(m.desktop);
      paintTree(m.mobile);
    });
  }

  // ===== Active anchor =====
  var headings = document.querySelectorAll(".page-content h2[id]");
  if (headings.length && window.IntersectionObserver) {
    var visible = {};
    var observer = new IntersectionObserver(function(entries) {
      entries.forEach(function(e) { visible[e.target.id] = e.isIntersecting; });
      var links = document.querySelectorAll(".anchors a");
      var last = null;
      links.forEach(function(a) {
        var id = a.getAttribute("href").slice(1);
        if (visible[id]) last = id;
      });
      if (!last) return;
      links.forEach(function(a) {
        a.classList.toggle("active-anchor", a.getAttribute("href") === "#" + last);
      });
    });
    headings.forEach(function(h) { observer.observe(h); });
  }

  if (currentRoute && window.location.hash === "") {
    var active = nav.querySelector(".page.active > a");
    if (active && active.scrollIntoView) active.scrollIntoView({ block: "nearest" });
  }
})();
`
