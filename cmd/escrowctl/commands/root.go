package commands

import (
	"context"
	"encoding/json"
	"io"
	"marketplace_escrow/internal/app"
	"marketplace_escrow/internal/infrastructure/config"
	"marketplace_escrow/pkg/logger"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	cfg      config.Config
	logLevel string
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "escrowctl",
		Short:         "Operate the marketplace escrow store",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initStderrLogger(logLevel); err != nil {
				return err
			}
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level written to stderr (debug, info, warn, error)")

	root.AddCommand(migrateCmd(), quoteCmd(), statementCmd(), verifyLedgerCmd(), relayCmd())
	return root
}

func initStderrLogger(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{"stderr"}
	l, err := zc.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	logger.SetLogger(l)
	return nil
}

// withWire builds the dependency graph for one command run.
func withWire(cmd *cobra.Command, fn func(w *app.Wire) error) error {
	w, err := app.NewWire(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer w.Close()
	return fn(w)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
