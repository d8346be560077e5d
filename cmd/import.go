package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/foomo/docsite-mcp/ingest"
)

var (
	flagImportSelector string
	flagImportPage     string
)

var importCmd = &cobra.Command{
	Use:   "import <html file or URL>",
	Short: "Import a legacy HTML page into the tree as markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if flagImportPage == "" {
			return fmt.Errorf("--page is required")
		}

		importer := ingest.New(logger, http.DefaultClient, flagImportSelector)
		result, err := importer.Import(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		file, err := importer.WritePage(cfg.Docs, flagImportPage, result)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %s -> %s\n", args[0], file)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&flagImportSelector, "selector", "body", "CSS selector of the content element (#id, .class or tag)")
	importCmd.Flags().StringVar(&flagImportPage, "page", "", "target page path, e.g. 'Coding/Profiling'")
	rootCmd.AddCommand(importCmd)
}
