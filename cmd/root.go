package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "careerquest",
	Short: "Try on careers through short terminal challenges",
	Long: "CareerQuest: play short challenges from real careers, earn experience, " +
		"and finish careers one challenge at a time.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides CAREERQUEST_DB env var)")
	pf.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/careerquest/config.yaml)")
	pf.String("user", "", "Player id (overrides CAREERQUEST_USER env var)")
	pf.String("log-mode", "", "Log mode: dev, prod or quiet")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(careersCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resyncCmd)
	rootCmd.AddCommand(debriefCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}
