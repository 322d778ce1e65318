package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	"unicode"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/width"

	"github.com/weditgo/weditd/internal/config"
	"github.com/weditgo/weditd/internal/core/event"
	coresys "github.com/weditgo/weditd/internal/core/system"
	"github.com/weditgo/weditd/internal/data"
	"github.com/weditgo/weditd/internal/entity"
	"github.com/weditgo/weditd/internal/persist"
	"github.com/weditgo/weditd/internal/platform"
	"github.com/weditgo/weditd/internal/platform/local"
	"github.com/weditgo/weditd/internal/platform/offline"
	"github.com/weditgo/weditd/internal/scripting"
	"github.com/weditgo/weditd/internal/system"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              weditd  v0.1.0               \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s\n\n", serverName)
}

// displayWidth returns the terminal columns s occupies: wide East Asian
// runes take two, combining marks none.
func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		switch {
		case unicode.Is(unicode.Mn, r):
		case isWide(width.LookupRune(r).Kind()):
			w += 2
		default:
			w++
		}
	}
	return w
}

func isWide(k width.Kind) bool {
	return k == width.EastAsianWide || k == width.EastAsianFullwidth
}

func printSection(title string) {
	lineLen := 46 - displayWidth(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - displayWidth(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/server.toml"
	if p := os.Getenv("WEDITD_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name)

	// 3. Optional snapshot archive
	var archive *persist.SnapshotRepo
	if cfg.Database.Enabled {
		printSection("database")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		applied, err := persist.RunMigrations(ctx, db)
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printStat("migrations applied", applied)

		archive = persist.NewSnapshotRepo(db)
		summaries, err := archive.Worlds(ctx)
		if err != nil {
			return fmt.Errorf("list archived worlds: %w", err)
		}
		for _, s := range summaries {
			printStat("archived "+s.World, s.Entities)
		}
		fmt.Println()
	}

	// 4. Data tables
	printSection("data")
	types, err := data.LoadEntityTypes(cfg.Data.EntityTypes)
	if err != nil {
		return fmt.Errorf("load entity types: %w", err)
	}
	printStat("entity types", types.Count())

	spawns, err := data.LoadSpawnList(cfg.Data.SpawnList)
	if err != nil {
		return fmt.Errorf("load spawn list: %w", err)
	}
	printStat("spawn entries", len(spawns))

	scripts, err := scripting.NewEngine(cfg.Scripting.Dir, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer scripts.Close()
	printStat("lua tasks", len(scripts.Tasks()))
	fmt.Println()

	// 5. Platforms and worlds
	bus := event.NewBus()
	platforms := platform.NewManager()
	live := local.NewPlatform(types, bus, log)
	platforms.Register(live)
	platforms.Register(offline.Platform{})
	for _, p := range platforms.All() {
		log.Debug("platform registered", zap.String("platform", p.Name()), zap.Stringer("caps", p.Capabilities()))
	}
	subscribeLogging(bus, live, log)
	if p, ok := platforms.Preferred(platform.CapScheduling); ok {
		log.Debug("scheduling platform", zap.String("platform", p.Name()), zap.Stringer("caps", p.Capabilities()))
	}

	printSection("worlds")
	spawned, err := spawnEntities(live, spawns, scripts, log)
	if err != nil {
		return err
	}
	for _, w := range live.Worlds() {
		printStat(w.Name(), w.Len())
	}
	printStat("scheduled scripts", spawned)
	fmt.Println()

	// 6. Systems
	ops := system.NewOperationSystem(cfg.Operations.ResumesPerTick, bus, log)
	var archiver system.Archiver
	if archive != nil {
		archiver = archive
	}
	snapshots := system.NewSnapshotSystem(func() []system.SnapshotWorld {
		ws := live.Worlds()
		out := make([]system.SnapshotWorld, len(ws))
		for i, w := range ws {
			out[i] = w
		}
		return out
	}, archiver, log, cfg.Snapshots.IntervalTicks)

	runner := coresys.NewRunner()
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(live)
	runner.Register(ops)
	runner.Register(snapshots)
	runner.Register(system.NewCleanupSystem(live))

	// 7. Game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Server.TickRate)
	defer ticker.Stop()

	printSection("ready")
	printReady(fmt.Sprintf("tick loop started (tick: %s)", cfg.Server.TickRate))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Server.TickRate)
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			ops.Stop()
			dropped := live.Stop()
			runner.TickPhase(coresys.PhaseCleanup, 0)
			snapshots.CaptureAll()
			log.Info("server stopped",
				zap.Uint64("ticks", runner.Ticks()),
				zap.Int("dropped_tasks", dropped))
			return nil
		}
	}
}

// spawnEntities places the spawn list and schedules each entry's script.
// It returns the number of scheduled scripts.
func spawnEntities(live *local.Platform, spawns []data.SpawnEntry, scripts *scripting.Engine, log *zap.Logger) (int, error) {
	scheduled := 0
	for i, s := range spawns {
		world := s.World
		if world == "" {
			world = "overworld"
		}
		loc := entity.Location{
			Position: entity.Vec3{X: s.X, Y: s.Y, Z: s.Z},
			Yaw:      s.Yaw,
			Pitch:    s.Pitch,
		}
		e, err := live.World(world).Spawn(s.Type, loc, s.Data)
		if err != nil {
			return scheduled, fmt.Errorf("spawn entry %d: %w", i, err)
		}
		if s.Script == "" {
			continue
		}
		task, err := scripts.Task(s.Script, e)
		if err != nil {
			log.Warn("spawn script skipped", zap.Int("entry", i), zap.Error(err))
			continue
		}
		if err := entity.RunDelayed(e, task, entity.Ticks(s.Delay)); err != nil {
			return scheduled, fmt.Errorf("schedule spawn script %d: %w", i, err)
		}
		scheduled++
	}
	return scheduled, nil
}

func subscribeLogging(bus *event.Bus, live *local.Platform, log *zap.Logger) {
	event.Subscribe(bus, func(ev event.EntityRemoved) {
		log.Debug("entity removed",
			zap.String("world", ev.World),
			zap.String("type", ev.Type),
			zap.Uint64("id", uint64(ev.ID)))
	})
	event.Subscribe(bus, func(ev event.TaskFailed) {
		fields := []zap.Field{
			zap.String("world", ev.World),
			zap.Uint64("owner", uint64(ev.Owner)),
			zap.Error(ev.Err),
		}
		if e, ok := live.World(ev.World).Lookup(ev.Owner); ok {
			fields = append(fields, zap.String("type", e.Type()), zap.Stringer("uuid", e.UUID()))
		}
		log.Warn("entity task failed", fields...)
	})
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
