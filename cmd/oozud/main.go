// Package main runs the Oozu game core with the text console as its front end.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/oozu/internal/config"
	"github.com/cory-johannsen/oozu/internal/console"
	"github.com/cory-johannsen/oozu/internal/game/assets"
	"github.com/cory-johannsen/oozu/internal/game/catalog"
	"github.com/cory-johannsen/oozu/internal/game/dice"
	"github.com/cory-johannsen/oozu/internal/game/quest"
	"github.com/cory-johannsen/oozu/internal/gameserver"
	"github.com/cory-johannsen/oozu/internal/observability"
	"github.com/cory-johannsen/oozu/internal/server"
	"github.com/cory-johannsen/oozu/internal/storage"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	userID := flag.String("user", os.Getenv("USER"), "player id the console acts as")
	color := flag.Bool("color", true, "colorize console output")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Console.Stdin && *userID == "" {
		logger.Fatal("no player id for the stdin console: pass -user")
	}

	catStart := time.Now()
	cat, err := catalog.Load(cfg.Game.SpeciesPath(), cfg.Game.ItemsPath(), observability.Component(logger, "catalog"))
	if err != nil {
		logger.Fatal("loading catalog", zap.Error(err))
	}
	logger.Info("catalog loaded",
		zap.Int("templates", len(cat.ListTemplates())),
		zap.Int("items", len(cat.ListItems())),
		zap.Duration("elapsed", time.Since(catStart)),
	)

	roller := dice.NewLoggedRoller(dice.NewCryptoSource(), observability.Component(logger, "dice"))

	var sampler assets.Sampler = assets.Static{}
	dirs := assets.NewDirSampler(cfg.Game.SpritesRoot, roller.Source())
	scenes, events, oozu, err := dirs.Count()
	switch {
	case err != nil:
		logger.Warn("scanning sprites, quest art disabled", zap.Error(err))
	case scenes == 0 || events == 0 || oozu == 0:
		logger.Warn("sprite directories incomplete, quest art disabled",
			zap.String("root", cfg.Game.SpritesRoot),
			zap.Int("scenes", scenes), zap.Int("events", events), zap.Int("oozu", oozu),
		)
	default:
		sampler = dirs
		logger.Info("sprites indexed", zap.Int("scenes", scenes), zap.Int("events", events), zap.Int("oozu", oozu))
	}

	store, err := storage.Open(ctx, cfg, observability.Component(logger, "store"))
	if err != nil {
		logger.Fatal("opening store", zap.Error(err))
	}
	var questStore quest.Store
	if cfg.Quest.Durability == config.DurabilityPersist {
		questStore = store
	}

	game := gameserver.NewGameService(cat, store, questStore, sampler, roller,
		gameserver.SettingsFromConfig(cfg.Game), observability.Component(logger, "game"))
	if err := game.Load(ctx); err != nil {
		logger.Fatal("loading game state", zap.Error(err))
	}

	lifecycle := server.NewLifecycle(logger, server.DefaultShutdownTimeout)
	lifecycle.Add("store", &server.FuncService{
		StartFn: func(ctx context.Context) error {
			<-ctx.Done()
			return nil
		},
		StopFn: func(context.Context) {
			if err := store.Close(); err != nil {
				logger.Warn("closing store", zap.Error(err))
			}
		},
	})
	if addr := cfg.Console.ListenAddr; addr != "" {
		ln := console.NewListener(addr, game, observability.Component(logger, "listener"))
		lifecycle.Add("listener", &server.FuncService{StartFn: ln.Serve, StopFn: ln.Stop})
	}
	if cfg.Console.Stdin {
		term := console.New(game, os.Stdin, os.Stdout, *userID, *color, observability.Component(logger, "console"))
		lifecycle.Add("console", &server.FuncService{StartFn: term.Run})
	}

	logger.Info("oozu initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("store", cfg.Store.Backend),
		zap.String("quest_durability", cfg.Quest.Durability),
		zap.Bool("stdin_console", cfg.Console.Stdin),
		zap.String("listen_addr", cfg.Console.ListenAddr),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
