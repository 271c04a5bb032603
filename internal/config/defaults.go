package config

// DefaultExcludes are glob patterns excluded from the docs tree by default.
var DefaultExcludes = []string{
	"node_modules/**",
	".git/**",
	"**/*.draft.md",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ProjectName: "Documentation",
		DocsDir:     "docs",
		OutputDir:   "site",
		Include:     []string{"**"},
		Exclude:     append([]string(nil), DefaultExcludes...),
		LogLevel:    LogInfo,
		Nav: NavConfig{
			DefaultMenuCollapsed: false,
			FloatTOC:             false,
		},
		Server: ServerConfig{
			Port:         8080,
			DataDir:      ".docnav",
			AllowAll:     false,
			PersistState: true,
		},
		Site: SiteConfig{
			Sanitize:       true,
			HighlightStyle: "monokai",
		},
	}
}
