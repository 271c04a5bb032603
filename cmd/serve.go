package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/docnav/internal/db"
	"github.com/ziadkadry99/docnav/internal/server"
	"github.com/ziadkadry99/docnav/internal/session"
)

const (
	// sessionRetention is how long an idle visitor's tree state is kept.
	sessionRetention = 90 * 24 * time.Hour
	// sessionIdle is how long an idle session stays in memory.
	sessionIdle   = 30 * time.Minute
	sweepInterval = 5 * time.Minute
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the docs with per-visitor navigation state",
	Long: `Starts an HTTP server that renders pages on request. Each visitor gets a
session cookie; the folders they open or close are remembered across pages
and, with server.persist_state, across server restarts.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (defaults to server.port)")
	serveCmd.Flags().Bool("watch", true, "reload pages when the docs directory changes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
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
	sites, err := server.NewSites(src.loader)
	if err != nil {
		return err
	}

	var states *session.StateStore
	if cfg.Server.PersistState {
		if err := os.MkdirAll(cfg.Server.DataDir, 0o755); err != nil {
			return fmt.Errorf("creating data dir: %w", err)
		}
		dbPath := filepath.Join(cfg.Server.DataDir, db.FileName)
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()
		states = session.NewStateStore(database)

		pruned, err := states.Prune(cmd.Context(), time.Now().Add(-sessionRetention))
		if err != nil {
			logger.Warn("pruning idle sessions", zap.Error(err))
		}
		logger.Info("tree state persisted", zap.String("db", dbPath), zap.Int64("pruned_sessions", pruned))
	}
	sessions := session.NewManager(states, logger)
	defer sessions.Close()

	port, _ := cmd.Flags().GetInt("port")
	if port == 0 {
		port = cfg.Server.Port
	}
	srv := server.New(server.Config{
		Port:     port,
		AllowAll: cfg.Server.AllowAll,
		Nav:      src.nav,
	}, sites, src.locales, src.layout, sessions, logger)

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		watcher, err := server.NewWatcher(cfg.DocsDir, func(string) error { return sites.Reload() }, logger)
		if err != nil {
			return fmt.Errorf("watching %s: %w", cfg.DocsDir, err)
		}
		watcher.Start()
		defer watcher.Stop()
	}

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sessions.Run(ctx, sweepInterval, sessionIdle, sessionRetention)

	go func() {
		<-ctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	fmt.Fprintf(cmd.ErrOrStderr(), "docnav %s serving %s at http://localhost:%d\n", Version, cfg.DocsDir, port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
