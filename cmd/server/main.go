package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/open-betalpha/server/internal/config"
	"github.com/open-betalpha/server/internal/ecs"
	"github.com/open-betalpha/server/internal/events"
	"github.com/open-betalpha/server/internal/netio"
	"github.com/open-betalpha/server/internal/provision"
	"github.com/open-betalpha/server/internal/sched"
	"github.com/open-betalpha/server/internal/systems"
	"github.com/open-betalpha/server/internal/world"
)

func main() {
	cfg := config.Default()

	var dataDir string
	flag.StringVar(&dataDir, "data-dir", "data", "directory for persistent config")
	flag.StringVar(&cfg.World, "world", cfg.World, "world directory path or go-getter source")
	flag.IntVar(&cfg.Port, "port", cfg.Port, "server port")
	flag.IntVar(&cfg.RenderDistance, "render-distance", cfg.RenderDistance, "render distance radius in chunks")
	flag.IntVar(&cfg.TickMillis, "tick-ms", cfg.TickMillis, "TICK phase gate in milliseconds")
	flag.IntVar(&cfg.SecondMillis, "second-ms", cfg.SecondMillis, "SECOND phase gate in milliseconds")
	flag.StringVar(&cfg.MOTD, "motd", cfg.MOTD, "server description")
	flag.IntVar(&cfg.MaxPlayers, "max-players", cfg.MaxPlayers, "maximum players shown in server list")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Error("create data dir", "error", err)
		os.Exit(1)
	}

	// Load config from file, then merge with CLI flags.
	// CLI flags take precedence when explicitly set.
	configPath := filepath.Join(dataDir, "config.yaml")
	fileCfg := config.Default()
	if err := config.Load(configPath, fileCfg); err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	explicitFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		explicitFlags[f.Name] = true
	})
	config.Merge(cfg, fileCfg, explicitFlags)

	if err := config.Save(configPath, cfg); err != nil {
		log.Error("save config", "error", err)
	}

	worldDir, err := provision.Resolve(filepath.Join(dataDir, "world"), cfg.World)
	if err != nil {
		log.Error("provision world", "error", err)
		os.Exit(1)
	}

	game, err := world.Open(worldDir)
	if err != nil {
		log.Error("open world", "error", err)
		os.Exit(1)
	}

	ln, err := netio.Listen(fmt.Sprintf("0.0.0.0:%d", cfg.Port))
	if err != nil {
		log.Error("listen", "error", err)
		os.Exit(1)
	}

	deps := &systems.Deps{
		World:                ecs.NewWorld(),
		Bus:                  events.NewBus(),
		Game:                 game,
		Listener:             ln,
		Log:                  log,
		RenderDistanceRadius: int32(cfg.RenderDistance),
	}

	scheduler := sched.New(cfg.TickInterval(), cfg.SecondInterval())
	scheduler.AddCore(
		systems.Accept(deps),
		systems.Login(deps),
		systems.Initializing(deps),
		systems.EventEmit(deps),
	)
	scheduler.AddChunk(
		systems.LoadChunks(deps),
		systems.UnloadChunks(deps),
	)
	scheduler.AddTick(
		systems.KeepAlive(deps),
		systems.ChatMessage(deps),
		systems.SystemMessage(deps),
		systems.Disconnecting(deps),
		systems.Digging(deps),
		systems.BlockChange(deps),
		systems.CalculateVisiblePlayers(deps),
		systems.CorrectPlayerPosition(deps),
		systems.PlayerMovement(deps),
		systems.MovePlayer(deps),
	)
	scheduler.AddSecond(systems.IncrementTime(deps))
	scheduler.AddPostTick(
		systems.SendPackets(deps),
		systems.RemoveInvalidPlayers(deps),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("server listening", "addr", ln.Addr(), "world", worldDir, "motd", cfg.MOTD)
	scheduler.Run(ctx, time.Millisecond)

	log.Info("shutting down")
	if err := ln.Close(); err != nil {
		log.Warn("close listener", "error", err)
	}
	if err := game.Close(); err != nil {
		log.Error("close world", "error", err)
	}
}
