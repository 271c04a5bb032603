package config

// LogLevel controls the verbosity of the zap logger.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// Config is the top-level docnav configuration, corresponding to .docnav.yml.
type Config struct {
	ProjectName string       `yaml:"project_name" koanf:"project_name"`
	DocsDir     string       `yaml:"docs_dir" koanf:"docs_dir"`
	OutputDir   string       `yaml:"output_dir" koanf:"output_dir"`
	Include     []string     `yaml:"include" koanf:"include"`
	Exclude     []string     `yaml:"exclude" koanf:"exclude"`
	LogLevel    LogLevel     `yaml:"log_level" koanf:"log_level"`
	Nav         NavConfig    `yaml:"nav" koanf:"nav"`
	I18n        I18nConfig   `yaml:"i18n" koanf:"i18n"`
	Server      ServerConfig `yaml:"server" koanf:"server"`
	Site        SiteConfig   `yaml:"site" koanf:"site"`
}

// NavConfig holds the sidebar behavior settings.
type NavConfig struct {
	DefaultMenuCollapsed bool `yaml:"default_menu_collapsed" koanf:"default_menu_collapsed"`
	FloatTOC             bool `yaml:"float_toc" koanf:"float_toc"`
}

// I18nConfig lists the site's locales.
type I18nConfig struct {
	Locales       []string `yaml:"locales" koanf:"locales"`
	DefaultLocale string   `yaml:"default_locale" koanf:"default_locale"`
}

// ServerConfig holds settings for `docnav serve`.
type ServerConfig struct {
	Port         int    `yaml:"port" koanf:"port"`
	DataDir      string `yaml:"data_dir" koanf:"data_dir"`
	AllowAll     bool   `yaml:"allow_all" koanf:"allow_all"`
	PersistState bool   `yaml:"persist_state" koanf:"persist_state"`
}

// SiteConfig holds page rendering settings.
type SiteConfig struct {
	Sanitize       bool   `yaml:"sanitize" koanf:"sanitize"`
	HighlightStyle string `yaml:"highlight_style" koanf:"highlight_style"`
}
