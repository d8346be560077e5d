package cmd

import (
	"github.com/spf13/cobra"

	"github.com/foomo/docsite-mcp/serve"
)

var (
	flagServeAddr    string
	flagServeNoWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the documentation tree over HTTP with live reload",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if flagServeAddr != "" {
			cfg.Serve.Addr = flagServeAddr
		}
		if flagServeNoWatch {
			cfg.Serve.Watch = false
		}

		server, err := serve.New(logger, cfg.Docs, cfg.Serve)
		if err != nil {
			return err
		}
		return server.Run(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().BoolVar(&flagServeNoWatch, "no-watch", false, "disable the file watcher and live reload")
	rootCmd.AddCommand(serveCmd)
}
