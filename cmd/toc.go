package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/foomo/docsite-mcp/site"
)

var tocCmd = &cobra.Command{
	Use:   "toc <page>",
	Short: "Print the table of contents of a page",
	Args:  cobra.ExactArgs(1),
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

		page, ok := tree.Lookup(args[0])
		if !ok {
			return fmt.Errorf("page not found: %s", args[0])
		}

		if cfg.Debug {
			// Full page dump including sections and raw links.
			spew.Fdump(cmd.OutOrStdout(), page)
		}

		toc := site.BuildTOC(tree, page)
		out, err := json.MarshalIndent(toc, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tocCmd)
}
