package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/foomo/docsite-mcp/store"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the sqlite page index",
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

		st, err := store.Open(logger, cfg.Index.Path)
		if err != nil {
			return err
		}
		defer st.Close()

		snapshot, err := st.Reindex(cmd.Context(), tree)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "indexed %d pages, snapshot %s\n", tree.Len(), snapshot)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the page index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		st, err := store.Open(logger, cfg.Index.Path)
		if err != nil {
			return err
		}
		defer st.Close()

		hits, err := st.Search(cmd.Context(), args[0], 20)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(hits, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(searchCmd)
}
