package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/careerquest/internal/catalog"
	"github.com/abhisek/careerquest/internal/debrief"
	"github.com/abhisek/careerquest/internal/llm"
)

var debriefCmd = &cobra.Command{
	Use:   "debrief <career-id>",
	Short: "Ask a language model for feedback on one career",
	Long: "Builds a coach-style debrief from your scores in one career. Needs an API key " +
		"for Gemini, OpenAI, Anthropic or OpenRouter in the environment.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		c, err := e.catalog.Career(args[0])
		if err != nil {
			return err
		}

		cfg, ok := llm.ConfigFromEnv(e.cfg.LLM.Provider)
		if !ok {
			return fmt.Errorf("no LLM provider configured; set GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY or OPENROUTER_API_KEY")
		}
		cfg = cfg.WithModel(e.cfg.LLM.Model)
		if e.cfg.LLM.Timeout > 0 {
			cfg.Timeout = e.cfg.LLM.Timeout
		}

		ctx := cmd.Context()
		provider, err := llm.NewProvider(ctx, cfg, e.store.Events(), e.log)
		if err != nil {
			return err
		}

		ov, err := e.svc.Overview(ctx, e.userID, []catalog.Career{c})
		if err != nil {
			return fmt.Errorf("load overview: %w", err)
		}

		d, err := debrief.NewService(provider, cfg.Timeout).Generate(ctx, debrief.Input{
			UserID: e.userID,
			Career: ov.Careers[0],
			Level:  ov.Level,
		})
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s\n\n", d.Headline)
		if len(d.Strengths) > 0 {
			fmt.Fprintln(w, "Strengths")
			for _, s := range d.Strengths {
				fmt.Fprintf(w, "  • %s\n", s)
			}
		}
		if len(d.NextSteps) > 0 {
			fmt.Fprintln(w, "Next steps")
			for _, s := range d.NextSteps {
				fmt.Fprintf(w, "  • %s\n", s)
			}
		}
		return nil
	},
}
