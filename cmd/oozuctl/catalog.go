package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/oozu/internal/game/catalog"
	"github.com/cory-johannsen/oozu/internal/game/stats"
)

func (c *cli) speciesCmd() *cobra.Command {
	species := &cobra.Command{
		Use:   "species",
		Short: "Inspect creature templates",
	}

	var level int
	find := &cobra.Command{
		Use:   "find <name or id>",
		Short: "Look up a template by id, name, or alias",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, _, _, err := c.catalog()
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")
			t, ok := cat.FindTemplate(query)
			if !ok {
				return fmt.Errorf("species %q: %w", query, catalog.ErrUnknownTemplate)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (ID: %s)\n", t.Name, t.ID)
			fmt.Fprintf(out, "   Tier: %s  Element: %s\n", t.Tier, t.Element)
			if t.Description != "" {
				fmt.Fprintf(out, "   %s\n", t.Description)
			}
			s := stats.Derive(t, level)
			fmt.Fprintf(out, "   Level %d: HP %d  ATK %d  DEF %d  MP %d\n", level, s.HP, s.Attack, s.Defense, s.MP)
			for _, m := range t.Moves {
				fmt.Fprintf(out, "     - %s (power %d)\n", m.Name, m.Power)
			}
			return nil
		},
	}
	find.Flags().IntVar(&level, "level", 1, "level to derive stats at")

	list := &cobra.Command{
		Use:   "list",
		Short: "List every template",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, _, _, err := c.catalog()
			if err != nil {
				return err
			}
			for _, t := range cat.ListTemplates() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %-16s %s\n", t.ID, t.Name, t.Tier)
			}
			return nil
		},
	}

	species.AddCommand(find, list)
	return species
}

func (c *cli) itemsCmd() *cobra.Command {
	items := &cobra.Command{
		Use:   "items",
		Short: "Inspect item definitions",
	}

	var itemType string
	list := &cobra.Command{
		Use:   "list",
		Short: "List items, optionally filtered by type",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, _, _, err := c.catalog()
			if err != nil {
				return err
			}
			matches := cat.ItemsWhere(func(it *catalog.ItemTemplate) bool {
				return itemType == "" || strings.EqualFold(it.Type, itemType)
			})
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Found %d items:\n", len(matches))
			for _, it := range matches {
				fmt.Fprintf(out, "%-14s %-14s %s", it.ID, it.Name, it.Type)
				if it.Effect != nil {
					fmt.Fprintf(out, "  %s", it.Effect.Type)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	list.Flags().StringVar(&itemType, "type", "", "only list items of this type (consumable, held, general)")

	items.AddCommand(list)
	return items
}
