package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docnav/internal/progress"
	"github.com/ziadkadry99/docnav/internal/site"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate a static documentation website",
	Long: `Generates a self-contained static HTML site from the docs directory. The
sidebar of every page starts with the page's folder open; visitors' own
expansion state is kept by the page script.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().Bool("serve", false, "start a local HTTP server after generating")
	buildCmd.Flags().Int("port", 0, "port for the local dev server (defaults to server.port)")
	buildCmd.Flags().Bool("open", false, "open browser automatically when serving")
	buildCmd.Flags().String("output", "", "override output directory (defaults to output_dir)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	src, err := newDocsSource(cfg)
	if err != nil {
		return err
	}

	outputDir, _ := cmd.Flags().GetString("output")
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}

	generator := site.NewSiteGenerator(src.loader, src.locales, src.layout, src.nav, outputDir)
	generator.Reporter = progress.NewReporter()
	pageCount, err := generator.Generate()
	if err != nil {
		return fmt.Errorf("generating site: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Static site generated: %s (%d pages)\n", outputDir, pageCount)

	serve, _ := cmd.Flags().GetBool("serve")
	if !serve {
		return nil
	}
	port, _ := cmd.Flags().GetInt("port")
	if port == 0 {
		port = cfg.Server.Port
	}
	openBrowser, _ := cmd.Flags().GetBool("open")
	if err := site.Serve(outputDir, port, openBrowser, logger); err != nil {
		return fmt.Errorf("serving site: %w", err)
	}
	return nil
}
