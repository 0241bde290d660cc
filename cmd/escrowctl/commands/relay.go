package commands

import (
	"errors"
	"marketplace_escrow/internal/app"

	"github.com/spf13/cobra"
)

func relayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "relay",
		Short: "Publish outbox events and apply broker decisions until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cfg.Kafka.Enabled() {
				return errors.New("KAFKA_BROKERS is not set")
			}
			return withWire(cmd, func(w *app.Wire) error {
				return w.RunWorkers(cmd.Context())
			})
		},
	}
}
