package site

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/language"

	"github.com/ziadkadry99/docnav/internal/content"
	"github.com/ziadkadry99/docnav/internal/locale"
	"github.com/ziadkadry99/docnav/internal/navtree"
	"github.com/ziadkadry99/docnav/internal/progress"
)

// SiteGenerator converts a docs directory into a static HTML site.
type SiteGenerator struct {
	Loader    *content.Loader
	Locales   *locale.Resolver
	Layout    *Layout
	Options   navtree.Options
	OutputDir string
	Reporter  progress.Reporter
}

// NewSiteGenerator creates a SiteGenerator writing to outputDir.
func NewSiteGenerator(loader *content.Loader, locales *locale.Resolver, layout *Layout, opts navtree.Options, outputDir string) *SiteGenerator {
	return &SiteGenerator{
		Loader:    loader,
		Locales:   locales,
		Layout:    layout,
		Options:   opts,
		OutputDir: outputDir,
		Reporter:  progress.Nop{},
	}
}

// Generate builds the full static site. Returns the number of pages generated.
func (g *SiteGenerator) Generate() (int, error) {
	sites, err := g.Loader.LoadAll()
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return 0, err
	}
	if err := g.writeAssets(); err != nil {
		return 0, err
	}

	tags := g.Locales.Locales()
	if len(tags) == 0 {
		tags = []language.Tag{language.Und}
	}
	total := 0
	for _, tag := range tags {
		total += len(sites[tag].Pages())
	}

	g.Reporter.Start(total)
	done := 0
	for _, tag := range tags {
		site := sites[tag]
		for _, page := range site.Pages() {
			if err := g.renderPage(site, page, tags); err != nil {
				return done, fmt.Errorf("rendering %s: %w", page.RelPath, err)
			}
			done++
			g.Reporter.Update(done, page.RelPath)
		}
	}
	g.Reporter.Finish()

	return done, nil
}

func (g *SiteGenerator) writeAssets() error {
	assets, err := g.Layout.Assets()
	if err != nil {
		return err
	}
	for name, data := range assets {
		if err := os.WriteFile(filepath.Join(g.OutputDir, name), data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// renderPage writes one page. Every page starts from an empty tree state:
// the active folder is forced open and the client restores the visitor's
// own states from there.
func (g *SiteGenerator) renderPage(site *content.Site, page *content.Page, tags []language.Tag) error {
	prefix := g.Locales.Prefix(site.Locale)
	rel := staticPath(prefix, page.Route)
	basePath := basePathFor(rel)

	var locales []LocaleLink
	if g.Locales.Enabled() {
		for _, tag := range tags {
			locales = append(locales, LocaleLink{
				Name:    tag.String(),
				Href:    basePath + staticPath(g.Locales.Prefix(tag), page.Route),
				Current: tag == site.Locale,
			})
		}
	}

	req := PageRequest{
		Site:     site,
		Page:     page,
		Renderer: navtree.NewRenderer(navtree.NewStore(), g.Options),
		Frame:    site.Frame(page.Route, nil),
		Mode:     ModeStatic,
		BasePath: basePath,
		Link:     StaticLinker(prefix, basePath),
		Locales:  locales,
	}

	outPath := filepath.Join(g.OutputDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return g.Layout.RenderPage(f, req)
}
