package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/foomo/docsite-mcp/check"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the documentation tree",
	Long:  "Checks every page: links must resolve, no page lists the same target twice, no TOC section is empty, no link syntax is malformed. Exits non-zero when error findings exist.",
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

		checker, err := buildChecker(cfg, logger)
		if err != nil {
			return err
		}

		findings, err := checker.Run(cmd.Context(), tree)
		if err != nil {
			return err
		}

		for _, finding := range findings {
			fmt.Fprintln(cmd.OutOrStdout(), finding.String())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d pages checked, %d findings\n", tree.Len(), len(findings))

		if check.HasErrors(findings) {
			return fmt.Errorf("tree has errors")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
