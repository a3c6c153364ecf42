package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/oozu/internal/game/battle"
	"github.com/cory-johannsen/oozu/internal/game/catalog"
	"github.com/cory-johannsen/oozu/internal/game/dice"
)

type simulation struct {
	wins       [2]int
	totalRound int
	runs       int
}

func (c *cli) battleCmd() *cobra.Command {
	battles := &cobra.Command{
		Use:   "battle",
		Short: "Battle tools",
	}

	var (
		level    int
		runs     int
		seed     uint64
		showLog  bool
		foeLevel int
	)
	simulate := &cobra.Command{
		Use:   "simulate <challenger species> <opponent species>",
		Short: "Run repeated battles between two templates and report win rates",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if runs < 1 || level < 1 {
				return fmt.Errorf("--runs and --level must be >= 1")
			}
			cat, _, logger, err := c.catalog()
			if err != nil {
				return err
			}
			a, ok := cat.FindTemplate(args[0])
			if !ok {
				return fmt.Errorf("challenger %q: %w", args[0], catalog.ErrUnknownTemplate)
			}
			b, ok := cat.FindTemplate(args[1])
			if !ok {
				return fmt.Errorf("opponent %q: %w", args[1], catalog.ErrUnknownTemplate)
			}

			src := dice.NewCryptoSource()
			if cmd.Flags().Changed("seed") {
				src = dice.NewSeededSource(seed)
			}
			roller := dice.NewLoggedRoller(src, logger)

			opponentLevel := level
			if foeLevel > 0 {
				opponentLevel = foeLevel
			}
			challenger := battle.Combatant{Trainer: "challenger", Nickname: a.Name, Level: level, Template: a}
			opponent := battle.Combatant{Trainer: "opponent", Nickname: b.Name, Level: opponentLevel, Template: b}

			out := cmd.OutOrStdout()
			var sim simulation
			for i := 0; i < runs; i++ {
				s := battle.Resolve(challenger, opponent, roller.Source())
				sim.wins[s.WinnerSide]++
				sim.totalRound += s.Rounds
				sim.runs++
				if showLog {
					for _, e := range s.Log {
						fmt.Fprintf(out, "  %s %s for %d\n", e.Actor, e.Action, e.Damage)
					}
					fmt.Fprintf(out, "  -> %s wins in %d rounds\n", s.WinnerSide, s.Rounds)
				}
			}

			fmt.Fprintf(out, "%s Lv%d vs %s Lv%d over %d battles\n", a.Name, level, b.Name, opponentLevel, sim.runs)
			fmt.Fprintf(out, "  challenger wins: %d (%.1f%%)\n", sim.wins[battle.Challenger], sim.rate(battle.Challenger))
			fmt.Fprintf(out, "  opponent wins:   %d (%.1f%%)\n", sim.wins[battle.Opponent], sim.rate(battle.Opponent))
			fmt.Fprintf(out, "  average rounds:  %.2f\n", float64(sim.totalRound)/float64(sim.runs))
			return nil
		},
	}
	simulate.Flags().IntVar(&level, "level", 5, "challenger level (and opponent level unless --opponent-level is set)")
	simulate.Flags().IntVar(&foeLevel, "opponent-level", 0, "opponent level override")
	simulate.Flags().IntVar(&runs, "runs", 1000, "number of battles")
	simulate.Flags().Uint64Var(&seed, "seed", 0, "seed for reproducible runs")
	simulate.Flags().BoolVar(&showLog, "log", false, "print every exchange")

	battles.AddCommand(simulate)
	return battles
}

func (s simulation) rate(side battle.Side) float64 {
	if s.runs == 0 {
		return 0
	}
	return 100 * float64(s.wins[side]) / float64(s.runs)
}
