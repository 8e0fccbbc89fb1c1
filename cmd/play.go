package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/careerquest/internal/app"
	"github.com/abhisek/careerquest/internal/progression"
	"github.com/abhisek/careerquest/internal/screen"
	"github.com/abhisek/careerquest/internal/screens/home"
	"github.com/abhisek/careerquest/internal/screens/play"
)

var playCmd = &cobra.Command{
	Use:   "play [challenge-id]",
	Short: "Open the game, optionally straight into one challenge",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := ""
		if len(args) == 1 {
			id = args[0]
		}
		return runApp(cmd, id)
	},
}

// runApp launches the terminal UI. A non-empty challengeID opens that
// challenge above the home menu after checking it is unlocked.
func runApp(cmd *cobra.Command, challengeID string) error {
	e, err := openEnv(cmd, true)
	if err != nil {
		return err
	}
	defer e.Close()

	opts := play.Options{UserID: e.userID, Logger: e.log}
	deps := home.Deps{
		Catalog:     e.catalog,
		Progression: e.svc,
		History:     e.store.Events(),
		UserID:      e.userID,
		Logger:      e.log,
	}

	var first screen.Screen
	if challengeID != "" {
		def, err := e.catalog.Challenge(challengeID)
		if err != nil {
			return err
		}
		if err := e.svc.CheckUnlocked(cmd.Context(), e.userID, def); err != nil {
			if errors.Is(err, progression.ErrLocked) {
				return fmt.Errorf("%s is locked: %w", def.Title, err)
			}
			return err
		}
		if !play.Playable(def) {
			return fmt.Errorf("%s has no terminal board; use `careerquest record %s <score>`", def.Title, def.ID)
		}
		ps, err := play.New(def, e.svc, opts)
		if err != nil {
			return err
		}
		first = ps
	}

	return app.Run(deps, first)
}
