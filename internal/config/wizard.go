package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
)

// docsDirCandidates are directories commonly holding a docs site, in
// preference order.
var docsDirCandidates = []string{"docs", "pages", "content", "documentation"}

// detectDocsDir returns the first candidate directory that contains
// markdown, or "docs".
func detectDocsDir() string {
	for _, dir := range docsDirCandidates {
		matches, _ := filepath.Glob(filepath.Join(dir, "*.md"))
		if len(matches) > 0 {
			return dir
		}
	}
	return "docs"
}

// RunWizard runs an interactive configuration wizard and saves the result
// to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to docnav! Let's configure your docs site.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Project name.
	namePrompt := promptui.Prompt{
		Label:   "Project name",
		Default: projectNameDefault(),
	}
	name, err := namePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("project name: %w", err)
	}
	cfg.ProjectName = name

	// 2. Docs directory.
	docsPrompt := promptui.Prompt{
		Label:   "Directory containing your markdown pages",
		Default: detectDocsDir(),
	}
	docsDir, err := docsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("docs dir: %w", err)
	}
	cfg.DocsDir = docsDir

	// 3. Output directory.
	outputPrompt := promptui.Prompt{
		Label:   "Output directory for the static site",
		Default: cfg.OutputDir,
	}
	outputDir, err := outputPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}
	cfg.OutputDir = outputDir

	// 4. Sidebar behavior.
	collapsePrompt := promptui.Select{
		Label: "Initial state of sidebar folders",
		Items: []string{
			"expanded  - every folder starts open",
			"collapsed - only the folder of the current page opens",
		},
	}
	collapseIdx, _, err := collapsePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("sidebar state: %w", err)
	}
	cfg.Nav.DefaultMenuCollapsed = collapseIdx == 1

	tocPrompt := promptui.Select{
		Label: "Where should page headings be listed",
		Items: []string{
			"sidebar         - under the active page",
			"floating panel  - beside the content on desktop",
		},
	}
	tocIdx, _, err := tocPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("toc placement: %w", err)
	}
	cfg.Nav.FloatTOC = tocIdx == 1

	// 5. Locales.
	localePrompt := promptui.Prompt{
		Label:   "Locales (comma-separated, leave blank for a single language)",
		Default: "",
	}
	localeStr, err := localePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("locales: %w", err)
	}
	cfg.I18n.Locales = splitAndTrim(localeStr)
	if len(cfg.I18n.Locales) > 0 {
		cfg.I18n.DefaultLocale = cfg.I18n.Locales[0]
	}

	// 6. Extra exclude patterns.
	excludePrompt := promptui.Prompt{
		Label:   "Extra exclude patterns (comma-separated, leave blank for defaults)",
		Default: "",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	cfg.Exclude = append(cfg.Exclude, splitAndTrim(excludeStr)...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(cfg.DocsDir); os.IsNotExist(err) {
		fmt.Printf("\nNote: %s does not exist yet. Add markdown pages there before running docnav build.\n", cfg.DocsDir)
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func projectNameDefault() string {
	wd, err := os.Getwd()
	if err != nil {
		return "Documentation"
	}
	return filepath.Base(wd)
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
