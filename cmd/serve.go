package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/intellisql/intellisql/internal/config"
	"github.com/intellisql/intellisql/internal/filestore"
	"github.com/intellisql/intellisql/internal/filestore/minio"
	"github.com/intellisql/intellisql/internal/llm"
	"github.com/intellisql/intellisql/internal/logger"
	"github.com/intellisql/intellisql/internal/server"
	"github.com/intellisql/intellisql/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `The serve command starts the JSON HTTP API. A database is attached via
POST /api/attach (a local path, a DSN, or an object key in the configured
bucket) and questions are answered via POST /api/ask.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		log := logger.New(&cfg.Log)

		provider, err := llm.NewProvider(cfg.LLM)
		if err != nil {
			// The query and schema endpoints still work without a provider.
			log.Warnf("completion provider disabled: %v", err)
			provider = nil
		} else {
			log.Infof("completion provider: %s", provider.Name())
		}

		var store filestore.Store
		if cfg.Filestore.Endpoint != "" {
			store, err = minio.New(cmd.Context(), &cfg.Filestore)
			if err != nil {
				return err
			}
			defer store.Close()
			log.Infof("object storage connected: %s", cfg.Filestore.Endpoint)
		}

		mgr := session.NewManager(provider, cfg.Query.MaxRows)
		srv := server.New(cfg, log, mgr, store)

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-stop:
			log.Infof("received %s, shutting down", sig)
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Std())
		defer cancel()
		return srv.Shutdown(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
