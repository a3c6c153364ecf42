package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/oozu/internal/config"
	"github.com/cory-johannsen/oozu/internal/game/assets"
	"github.com/cory-johannsen/oozu/internal/game/catalog"
	"github.com/cory-johannsen/oozu/internal/game/dice"
	"github.com/cory-johannsen/oozu/internal/game/quest"
	"github.com/cory-johannsen/oozu/internal/gameserver"
	"github.com/cory-johannsen/oozu/internal/observability"
	"github.com/cory-johannsen/oozu/internal/storage"
)

// cli holds the flags shared by every subcommand.
type cli struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "oozuctl",
		Short:         "Oozu admin and simulation tool",
		Long:          `oozuctl inspects the creature catalog, manages stored players, and simulates battles.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "configs/dev.yaml", "path to configuration file; defaults apply when it is missing")
	root.PersistentFlags().BoolVar(&c.verbose, "verbose", false, "log to stderr at debug level")

	root.AddCommand(c.speciesCmd())
	root.AddCommand(c.itemsCmd())
	root.AddCommand(c.playerCmd())
	root.AddCommand(c.battleCmd())
	return root
}

// config reads the configuration file, or defaults plus OOZU_ overrides when
// the file does not exist.
func (c *cli) config() (config.Config, error) {
	if _, err := os.Stat(c.configPath); errors.Is(err, fs.ErrNotExist) {
		return config.LoadFromViper(config.NewViper())
	}
	return config.Load(c.configPath)
}

func (c *cli) logger(cfg config.Config) (*zap.Logger, error) {
	if !c.verbose {
		return zap.NewNop(), nil
	}
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "console"
	return observability.NewLogger(cfg.Logging)
}

func (c *cli) catalog() (*catalog.Catalog, config.Config, *zap.Logger, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	logger, err := c.logger(cfg)
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	cat, err := catalog.Load(cfg.Game.SpeciesPath(), cfg.Game.ItemsPath(), logger)
	if err != nil {
		return nil, config.Config{}, nil, fmt.Errorf("loading catalog: %w", err)
	}
	return cat, cfg, logger, nil
}

// openGame loads the catalog and the configured store into a GameService.
// The returned cleanup closes the store.
func (c *cli) openGame(ctx context.Context) (*gameserver.GameService, func(), error) {
	cat, cfg, logger, err := c.catalog()
	if err != nil {
		return nil, nil, err
	}
	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing store", zap.Error(err))
		}
	}
	var questStore quest.Store
	if cfg.Quest.Durability == config.DurabilityPersist {
		questStore = store
	}
	roller := dice.NewLoggedRoller(dice.NewCryptoSource(), logger)
	game := gameserver.NewGameService(cat, store, questStore, assets.Static{}, roller,
		gameserver.SettingsFromConfig(cfg.Game), logger)
	if err := game.Load(ctx); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("loading game state: %w", err)
	}
	return game, cleanup, nil
}
