package data

import (
	"cmp"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Catalog is the read-only registry of item types.
// It is built once at startup and never mutated afterwards.
type Catalog struct {
	types map[int32]*ItemType
	coins []*ItemType // by worth, highest first
}

// catalogFile is the on-disk layout of the item catalog.
type catalogFile struct {
	Items []ItemType `yaml:"items"`
}

// NewCatalog builds a catalog from definitions.
func NewCatalog(defs ...ItemType) (*Catalog, error) {
	c := &Catalog{types: make(map[int32]*ItemType, len(defs))}

	for i := range defs {
		def := defs[i]
		if err := def.validate(); err != nil {
			return nil, err
		}
		if _, dup := c.types[def.ID]; dup {
			return nil, fmt.Errorf("duplicate item type id %d", def.ID)
		}
		c.types[def.ID] = &def
		if def.Group == GroupCoin && def.Worth > 0 {
			c.coins = append(c.coins, &def)
		}
	}
	slices.SortFunc(c.coins, func(a, b *ItemType) int {
		return cmp.Compare(b.Worth, a.Worth)
	})

	return c, nil
}

// LoadCatalog reads the item catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading item catalog %s: %w", path, err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing item catalog %s: %w", path, err)
	}

	c, err := NewCatalog(file.Items...)
	if err != nil {
		return nil, fmt.Errorf("building item catalog %s: %w", path, err)
	}

	// Dangling decay targets are tolerated: the decay action removes the
	// item instead of half-transforming it.
	for _, t := range c.types {
		if t.DecayTo != 0 {
			if _, ok := c.types[t.DecayTo]; !ok {
				slog.Warn("item decays into unknown type",
					"type", t.ID,
					"decayTo", t.DecayTo)
			}
		}
	}

	slog.Info("loaded item catalog", "path", path, "count", len(c.types))
	return c, nil
}

// Lookup returns the item type with the given id.
func (c *Catalog) Lookup(id int32) (*ItemType, bool) {
	t, ok := c.types[id]
	return t, ok
}

// Len returns the number of item types.
func (c *Catalog) Len() int {
	return len(c.types)
}

// Coins returns the coin types ordered by worth, highest first.
func (c *Catalog) Coins() []*ItemType {
	return c.coins
}
