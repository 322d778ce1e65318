// snapexport dumps the archived entity snapshots of one world to YAML.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/weditgo/weditd/internal/config"
	"github.com/weditgo/weditd/internal/entity"
	"github.com/weditgo/weditd/internal/operation"
	"github.com/weditgo/weditd/internal/persist"
	"github.com/weditgo/weditd/internal/platform/offline"
)

// Exported is one entity in the output file.
type Exported struct {
	Type  string         `yaml:"type"`
	X     float64        `yaml:"x"`
	Y     float64        `yaml:"y"`
	Z     float64        `yaml:"z"`
	Yaw   float64        `yaml:"yaw"`
	Pitch float64        `yaml:"pitch"`
	Data  map[string]any `yaml:"data,omitempty"`
}

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: snapexport <world> <output.yaml> [exclude-type...]")
		os.Exit(1)
	}
	if err := run(os.Args[1], os.Args[2], os.Args[3:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(world, outPath string, exclude []string) error {
	cfgPath := "config/server.toml"
	if p := os.Getenv("WEDITD_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := persist.NewDB(ctx, cfg.Database, zap.NewNop())
	if err != nil {
		return err
	}
	defer db.Close()

	captured, err := persist.NewSnapshotRepo(db).Load(ctx, world)
	if err != nil {
		return err
	}

	w := offline.NewWorld(world, captured)
	removed, err := excludeTypes(ctx, w, exclude)
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(export(w.Remaining()))
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return err
	}
	fmt.Printf("Exported %d entities from %s (%d excluded) to %s\n", len(w.Remaining()), world, removed, outPath)
	return nil
}

// excludeTypes removes every entity whose type is listed and returns how
// many were removed.
func excludeTypes(ctx context.Context, w *offline.World, types []string) (int, error) {
	if len(types) == 0 {
		return 0, nil
	}
	skip := make(map[string]bool, len(types))
	for _, t := range types {
		skip[t] = true
	}
	remover := operation.NewEntityRemover()
	filter := operation.EntityFunc(func(e entity.Entity) (bool, error) {
		base, ok := e.State().Get()
		if !ok || !skip[base.Type] {
			return false, nil
		}
		return remover.Apply(e)
	})
	v := operation.NewEntityVisitor(w.Entities(), filter)
	if err := operation.Complete(ctx, v); err != nil {
		return 0, err
	}
	return remover.Count(entity.Removed), nil
}

func export(captured []operation.CapturedEntity) []Exported {
	out := make([]Exported, 0, len(captured))
	for _, c := range captured {
		p := c.Location.Position
		out = append(out, Exported{
			Type:  c.State.Type,
			X:     p.X,
			Y:     p.Y,
			Z:     p.Z,
			Yaw:   c.Location.Yaw,
			Pitch: c.Location.Pitch,
			Data:  c.State.Data,
		})
	}
	return out
}
