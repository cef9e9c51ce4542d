package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/stepwise/internal/config"
	"github.com/abhisek/stepwise/internal/llm"
	"github.com/abhisek/stepwise/internal/server"
	"github.com/abhisek/stepwise/internal/store"
	"github.com/abhisek/stepwise/internal/teaching"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tutoring service",
	Long: "Run the HTTP tutoring service. Configuration comes from STEPWISE_* environment\n" +
		"variables, optionally loaded from .env files. Without an LLM API key the\n" +
		"service answers with built-in offline content.",
	RunE: func(cmd *cobra.Command, args []string) error {
		envFiles, _ := cmd.Flags().GetStringSlice("env-file")
		cfg, err := config.LoadServer(envFiles...)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}
		offline, _ := cmd.Flags().GetBool("offline")

		logger, err := newLogger(cfg, os.Stderr)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)

		dbPath, err := serveDBPath(cmd, cfg)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
		logger.Info("database opened", "path", dbPath)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var provider llm.Provider
		if !offline {
			provider, err = llm.NewProvider(ctx, cfg.LLM, st.EventRepo(), logger)
			switch {
			case errors.Is(err, llm.ErrNotConfigured):
				logger.Warn("no LLM provider configured, serving offline content")
			case err != nil:
				return fmt.Errorf("configure LLM provider: %w", err)
			default:
				logger.Info("LLM provider configured", "provider", provider.Name(), "model", provider.ModelID())
			}
		}

		tcfg := teaching.DefaultConfig()
		tcfg.HistoryLimit = cfg.HistoryLimit
		tcfg.OfflineFallback = cfg.OfflineFallback
		if cfg.LLM.MaxTokens > 0 {
			tcfg.MaxTokens = cfg.LLM.MaxTokens
		}
		svc := teaching.NewService(provider, st.SessionRepo(), tcfg, logger)

		server.StartPruner(ctx, st.SessionRepo(), cfg.SessionTTL, cfg.PruneInterval, logger)

		srv := server.New(svc, server.Options{
			Version:         version,
			CORSOrigins:     cfg.CORSOrigins,
			RequestTimeout:  cfg.LLM.Timeout,
			ShutdownTimeout: cfg.ShutdownTimeout,
			DB:              st,
			Logger:          logger,
			AccessLog:       true,
		})
		return srv.Run(ctx, cfg.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides STEPWISE_ADDR)")
	serveCmd.Flags().StringSlice("env-file", nil, "Load environment from these files (default .env)")
	serveCmd.Flags().Bool("offline", false, "Ignore LLM configuration and serve offline content only")
}

// serveDBPath prefers --db, then STEPWISE_DB from the loaded config, then
// the default XDG path.
func serveDBPath(cmd *cobra.Command, cfg config.Server) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p == "" && cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return resolveDBPath(cmd)
}

// newLogger builds the service logger from the configured format and level.
func newLogger(cfg config.Server, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if strings.EqualFold(cfg.LogFormat, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h).With("service", "stepwise"), nil
}
