package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SpawnEntry places one entity in a world at startup.
type SpawnEntry struct {
	World  string         `yaml:"world"`
	Type   string         `yaml:"type"`
	X      float64        `yaml:"x"`
	Y      float64        `yaml:"y"`
	Z      float64        `yaml:"z"`
	Yaw    float64        `yaml:"yaw"`
	Pitch  float64        `yaml:"pitch"`
	Data   map[string]any `yaml:"data"`   // overrides the type defaults
	Script string         `yaml:"script"` // lua task to schedule at the entity, optional
	Delay  int64          `yaml:"delay"`  // ticks before the script runs
}

// LoadSpawnList loads spawn_list.yaml.
func LoadSpawnList(path string) ([]SpawnEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spawn list: %w", err)
	}
	return ParseSpawnList(raw)
}

// ParseSpawnList parses spawn entries and checks them against types.
func ParseSpawnList(raw []byte, types ...*EntityTypeTable) ([]SpawnEntry, error) {
	var entries []SpawnEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse spawn list: %w", err)
	}
	for i, e := range entries {
		if e.Type == "" {
			return nil, fmt.Errorf("spawn %d: missing type", i)
		}
		if e.Delay < 0 {
			return nil, fmt.Errorf("spawn %d: negative delay %d", i, e.Delay)
		}
		for _, t := range types {
			if t.Get(e.Type) == nil {
				return nil, fmt.Errorf("spawn %d: unknown entity type %s", i, e.Type)
			}
		}
	}
	return entries, nil
}
