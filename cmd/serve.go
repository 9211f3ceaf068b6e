package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/regdash/internal/config"
	"github.com/zjrosen/regdash/internal/infrastructure/sqlite"
	"github.com/zjrosen/regdash/internal/log"
	"github.com/zjrosen/regdash/internal/server"
	"github.com/zjrosen/regdash/internal/tracing"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local auth API to register against",
	Long: `Run a stand-in for the account API the TUI talks to. Accounts and
sessions are stored in SQLite.

Endpoints:
  GET  /sanctum/csrf-cookie   issue the XSRF-TOKEN cookie
  POST /register              create an account and sign in (422 on field errors)
  GET  /api/user              the signed-in user (401 for guests)
  POST /logout                end the session
  GET  /health                storage health
  GET  /metrics               Prometheus metrics

Example:
  regdash serve                       # Listen on server.addr
  regdash serve --addr :9000          # Listen on port 9000
  regdash serve --db /tmp/regdash.db  # Use a throwaway database`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "address to listen on (overrides server.addr)")
	serveCmd.Flags().String("db", "", "sqlite database path (overrides server.db_path)")

	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.db_path", serveCmd.Flags().Lookup("db"))
}

func runServe(_ *cobra.Command, _ []string) error {
	if debugFlag || os.Getenv("REGDASH_DEBUG") != "" {
		cleanup, err := initLogging("regdash-server")
		if err != nil {
			return err
		}
		defer cleanup()
	} else {
		log.InitWriter(os.Stderr)
		log.SetMinLevel(log.LevelInfo)
	}

	if err := config.ValidateServer(cfg.Server); err != nil {
		return fmt.Errorf("invalid server configuration: %w", err)
	}
	if err := config.ValidateTracing(cfg.Tracing); err != nil {
		return fmt.Errorf("invalid tracing configuration: %w", err)
	}

	provider, err := tracing.NewProvider(cfg.Tracing, tracing.ServiceServer)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer shutdownTracing(provider)

	db, err := sqlite.NewDB(cfg.Server.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	srv, err := server.New(server.Config{
		Addr:       cfg.Server.Addr,
		SessionTTL: cfg.Server.SessionTTL,
		Secret:     []byte(cfg.Server.SessionSecret),
		Tracing:    provider,
	}, server.Deps{
		Accounts: db.AccountRepository(),
		Sessions: db.SessionRepository(),
		Ping:     db.Connection().PingContext,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	// Handle shutdown signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("regdash API listening on %s (db: %s)\n", cfg.Server.Addr, cfg.Server.DBPath)
	fmt.Println("Press Ctrl+C to stop")

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	fmt.Println("Server stopped")
	return nil
}
