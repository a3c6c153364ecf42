package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/oozu/internal/gameserver"
)

func (c *cli) playerCmd() *cobra.Command {
	players := &cobra.Command{
		Use:   "player",
		Short: "Manage stored players",
	}

	show := &cobra.Command{
		Use:   "show <user_id>",
		Short: "Print a stored profile as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			game, cleanup, err := c.openGame(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			p, ok, err := game.GetPlayer(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("player %q: %w", args[0], gameserver.ErrNotRegistered)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		},
	}

	var confirm bool
	reset := &cobra.Command{
		Use:   "reset <user_id>",
		Short: "Delete a stored profile and any active hunt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("refusing to delete %q without --yes", args[0])
			}
			game, cleanup, err := c.openGame(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			existed, err := game.ResetPlayer(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !existed {
				fmt.Fprintf(cmd.OutOrStdout(), "No profile stored for %s.\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", args[0])
			return nil
		},
	}
	reset.Flags().BoolVar(&confirm, "yes", false, "confirm deletion")

	players.AddCommand(show, reset)
	return players
}
