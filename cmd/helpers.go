package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ziadkadry99/docnav/internal/config"
	"github.com/ziadkadry99/docnav/internal/content"
	"github.com/ziadkadry99/docnav/internal/locale"
	"github.com/ziadkadry99/docnav/internal/logging"
	"github.com/ziadkadry99/docnav/internal/navtree"
	"github.com/ziadkadry99/docnav/internal/site"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `docnav init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the logger for cfg. --verbose switches to debug level
// and console output.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level := string(cfg.LogLevel)
	if verbose {
		level = string(config.LogDebug)
	}
	return logging.New(level, verbose)
}

// docsSource holds everything needed to load and lay out the docs.
type docsSource struct {
	locales *locale.Resolver
	loader  *content.Loader
	layout  *site.Layout
	nav     navtree.Options
}

func newDocsSource(cfg *config.Config) (*docsSource, error) {
	if _, err := os.Stat(cfg.DocsDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("docs directory not found at %s\nSet docs_dir in %s or run `docnav init`", cfg.DocsDir, cfgFile)
	}
	locales, err := locale.NewResolver(cfg.I18n.Locales, cfg.I18n.DefaultLocale)
	if err != nil {
		return nil, err
	}
	layout, err := site.NewLayout(projectName(cfg), site.NewPageRenderer(cfg.Site.HighlightStyle, cfg.Site.Sanitize))
	if err != nil {
		return nil, err
	}
	return &docsSource{
		locales: locales,
		loader:  content.NewLoader(cfg.DocsDir, cfg.Include, cfg.Exclude, locales),
		layout:  layout,
		nav: navtree.Options{
			DefaultMenuCollapsed: cfg.Nav.DefaultMenuCollapsed,
			FloatTOC:             cfg.Nav.FloatTOC,
		},
	}, nil
}

// projectName falls back to the working directory's name.
func projectName(cfg *config.Config) string {
	if cfg.ProjectName != "" {
		return cfg.ProjectName
	}
	name := "Documentation"
	if wd, err := os.Getwd(); err == nil {
		name = filepath.Base(wd)
	}
	if name == "." || name == "" || name == string(filepath.Separator) {
		name = "Documentation"
	}
	return name
}
