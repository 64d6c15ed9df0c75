// Package main is the reforge server entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/emberfall/reforge/internal/config"
	"github.com/emberfall/reforge/internal/game/command"
	"github.com/emberfall/reforge/internal/game/item"
	"github.com/emberfall/reforge/internal/game/reforge"
	"github.com/emberfall/reforge/internal/game/session"
	"github.com/emberfall/reforge/internal/game/stats"
	"github.com/emberfall/reforge/internal/observability"
	"github.com/emberfall/reforge/internal/scripting"
	"github.com/emberfall/reforge/internal/server"
	"github.com/emberfall/reforge/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "reforged: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	start := time.Now()
	ctx := context.Background()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, logLevel, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	charRepo := postgres.NewCharacterRepository(pool.DB())
	itemRepo := postgres.NewItemInstanceRepository(pool.DB())
	reforgeRepo := postgres.NewReforgeRepository(pool.DB())

	templates, err := item.LoadTemplates(cfg.Content.ItemsDir)
	if err != nil {
		return fmt.Errorf("loading item templates: %w", err)
	}
	directory, err := item.NewDirectory(templates)
	if err != nil {
		return fmt.Errorf("building item directory: %w", err)
	}

	instances, err := itemRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("loading item instances: %w", err)
	}
	for _, inst := range instances {
		if err := directory.Add(inst); err != nil {
			logger.Warn("skipping item instance",
				zap.String("item_id", inst.ID.String()),
				zap.Error(err),
			)
		}
	}

	settings := reforge.NewSettings()
	settings.ApplyConfig(cfg.Reforge)

	store := reforge.NewStore(reforgeRepo, logger)
	if err := store.Load(ctx); err != nil {
		return fmt.Errorf("loading reforge records: %w", err)
	}

	tracker := stats.NewTracker(logger)
	sessions := session.NewManager()

	scripts := scripting.NewManager(logger)
	broadcast := &scriptedBroadcaster{sessions: sessions, scripts: scripts}

	engine := reforge.NewEngine(settings, store, directory, tracker, charRepo, broadcast, logger)

	registry := command.DefaultRegistry()
	handler := command.NewHandler(engine, directory, registry, logger)

	if cfg.Content.ScriptsDir != "" {
		wireScriptCallbacks(scripts, engine)
		if err := scripts.Load(cfg.Content.ScriptsDir, cfg.Server.ScriptInstructionLimit); err != nil {
			return fmt.Errorf("loading scripts: %w", err)
		}
		defer scripts.Close()
	}

	telnet := server.NewTelnetServer(cfg.Server.Addr, charRepo, sessions, handler, engine, logger)

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("telnet", telnet)
	lifecycle.OnReload(func() error {
		next, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("reloading config: %w", err)
		}
		if err := observability.SetLevel(logLevel, next.Logging.Level); err != nil {
			logger.Warn("keeping current log level", zap.Error(err))
		}
		engine.ReloadConfig(next.Reforge, sessions.Online())
		return nil
	})

	logger.Info("reforged server starting",
		zap.String("addr", cfg.Server.Addr),
		zap.Int("templates", len(templates)),
		zap.Int("instances", len(instances)),
		zap.Int("reforge_records", store.Count()),
		zap.Duration("startup", time.Since(start)),
	)

	return lifecycle.Run(ctx)
}

// scriptedBroadcaster fans item change notifications out to connected
// sessions and to the on_item_changed Lua hook.
type scriptedBroadcaster struct {
	sessions *session.Manager
	scripts  *scripting.Manager
}

func (b *scriptedBroadcaster) ItemChanged(ownerID int64, itemID uuid.UUID, stats []item.StatValue) {
	b.sessions.ItemChanged(ownerID, itemID, stats)
	_, _ = b.scripts.CallHook("on_item_changed",
		lua.LNumber(ownerID), lua.LString(itemID.String()))
}

// wireScriptCallbacks bridges Lua string handles to engine UUID identities.
func wireScriptCallbacks(scripts *scripting.Manager, engine *reforge.Engine) {
	scripts.IsReforgeable = func(ownerID int64, itemID string) bool {
		id, err := uuid.Parse(itemID)
		if err != nil {
			return false
		}
		return engine.IsReforgeable(ownerID, id)
	}
	scripts.Preview = func(itemID, attribute string) (int, int, error) {
		id, err := uuid.Parse(itemID)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid item id %q", itemID)
		}
		attr, err := item.ParseAttribute(attribute)
		if err != nil {
			return 0, 0, err
		}
		return engine.Preview(id, attr)
	}
	scripts.Reforge = func(ownerID int64, itemID, from, to string) error {
		id, err := uuid.Parse(itemID)
		if err != nil {
			return fmt.Errorf("invalid item id %q", itemID)
		}
		decreased, err := item.ParseAttribute(from)
		if err != nil {
			return err
		}
		increased, err := item.ParseAttribute(to)
		if err != nil {
			return err
		}
		return engine.Reforge(context.Background(), ownerID, id, decreased, increased)
	}
	scripts.RemoveReforge = func(itemID string) error {
		id, err := uuid.Parse(itemID)
		if err != nil {
			return fmt.Errorf("invalid item id %q", itemID)
		}
		return engine.RemoveReforge(context.Background(), id)
	}
	scripts.Percentage = engine.Settings().Percentage
	scripts.Cost = engine.Settings().Cost
}
