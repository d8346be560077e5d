package cmd

import (
	"net/http"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/foomo/docsite-mcp/mcp"
	"github.com/foomo/docsite-mcp/service"
	"github.com/foomo/docsite-mcp/site"
	"github.com/foomo/docsite-mcp/store"
)

var flagMCPHTTP string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose the documentation tree over MCP (stdio by default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		tree, err := loadTree(cfg)
		if err != nil {
			return err
		}
		treeProvider := func() *site.Tree { return tree }

		checker, err := buildChecker(cfg, logger)
		if err != nil {
			return err
		}

		deps := mcp.Deps{
			Service: service.New(logger, treeProvider),
			Tree:    treeProvider,
			Checker: checker,
		}

		// The search tool needs an index; skip it when none was built.
		if _, err := os.Stat(cfg.Index.Path); err == nil {
			st, err := store.Open(logger, cfg.Index.Path)
			if err != nil {
				return err
			}
			defer st.Close()
			deps.Store = st
		}

		s := mcp.NewServer(deps)

		if flagMCPHTTP != "" {
			logger.Info("starting MCP server over HTTP",
				zap.String("addr", flagMCPHTTP),
				zap.String("endpoint", cfg.MCP.Endpoint),
			)
			handler := mcp.NewHTTPSSEServer(logger, s, deps, cfg.MCP.Endpoint)
			return http.ListenAndServe(flagMCPHTTP, handler)
		}

		logger.Info("starting MCP server on stdio")
		return mcpserver.ServeStdio(s)
	},
}

func init() {
	mcpCmd.Flags().StringVar(&flagMCPHTTP, "http", "", "serve MCP over HTTP on this address instead of stdio")
	rootCmd.AddCommand(mcpCmd)
}
