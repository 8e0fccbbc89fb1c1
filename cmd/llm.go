package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect language model usage",
}

var llmUsageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show token totals across every recorded model call",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		u, err := e.store.Events().LLMUsageTotals(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}

		w := cmd.OutOrStdout()
		if u.Requests == 0 {
			fmt.Fprintln(w, "No LLM usage recorded yet.")
			return nil
		}
		fmt.Fprintf(w, "Requests:  %d (%d failed)\n", u.Requests, u.Failures)
		fmt.Fprintf(w, "Tokens:    %d in / %d out\n", u.InputTokens, u.OutputTokens)
		return nil
	},
}

func init() {
	llmCmd.AddCommand(llmUsageCmd)
}
