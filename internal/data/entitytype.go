package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EntityType describes one kind of entity the world host knows about.
type EntityType struct {
	ID        string         `yaml:"id"` // namespaced, e.g. minecraft:pig
	Name      string         `yaml:"name"`
	Snapshot  bool           `yaml:"snapshot"`  // false for kinds with no detached form (players)
	Removable bool           `yaml:"removable"` // false for kinds the host never gives up
	Data      map[string]any `yaml:"data"`      // default state for new instances
}

// EntityTypeTable provides lookup of entity types by ID.
type EntityTypeTable struct {
	types map[string]*EntityType
	order []string
}

// LoadEntityTypes loads entity_types.yaml.
func LoadEntityTypes(path string) (*EntityTypeTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read entity types: %w", err)
	}
	return ParseEntityTypes(raw)
}

// ParseEntityTypes parses a YAML list of entity types.
func ParseEntityTypes(raw []byte) (*EntityTypeTable, error) {
	var entries []EntityType
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse entity types: %w", err)
	}
	t := &EntityTypeTable{types: make(map[string]*EntityType, len(entries))}
	for i := range entries {
		e := &entries[i]
		if e.ID == "" {
			return nil, fmt.Errorf("entity type %d: missing id", i)
		}
		if _, dup := t.types[e.ID]; dup {
			return nil, fmt.Errorf("entity type %s: duplicate id", e.ID)
		}
		if e.Name == "" {
			e.Name = e.ID
		}
		t.types[e.ID] = e
		t.order = append(t.order, e.ID)
	}
	return t, nil
}

// Get returns the type with the given ID, or nil.
func (t *EntityTypeTable) Get(id string) *EntityType {
	return t.types[id]
}

// IDs returns every type ID in file order.
func (t *EntityTypeTable) IDs() []string {
	return append([]string(nil), t.order...)
}

func (t *EntityTypeTable) Count() int {
	return len(t.types)
}
