package spell

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

//go:embed catalog.json
var defaultCatalogJSON []byte

var defaultCatalog = sync.OnceValue(func() *Catalog {
	catalog, err := LoadCatalog(bytes.NewReader(defaultCatalogJSON))
	if err != nil {
		panic(fmt.Sprintf("load embedded spell catalog: %v", err))
	}
	return catalog
})

// Catalog is a read-only id to Spell lookup. Iteration follows load order.
type Catalog struct {
	spells map[string]Spell
	order  []string
}

// DefaultCatalog returns the embedded spell catalog.
func DefaultCatalog() *Catalog {
	return defaultCatalog()
}

// NewCatalog validates spells and builds a catalog. Ids must be unique.
func NewCatalog(spells []Spell) (*Catalog, error) {
	c := &Catalog{
		spells: make(map[string]Spell, len(spells)),
		order:  make([]string, 0, len(spells)),
	}
	for _, s := range spells {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, exists := c.spells[s.ID]; exists {
			return nil, fmt.Errorf("spell %q is defined more than once", s.ID)
		}
		c.spells[s.ID] = cloneSpell(s)
		c.order = append(c.order, s.ID)
	}
	return c, nil
}

// LoadCatalog decodes a JSON array of spells.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var spells []Spell
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&spells); err != nil {
		return nil, fmt.Errorf("decode spell catalog: %w", err)
	}
	return NewCatalog(spells)
}

// Lookup returns the spell with the given id.
func (c *Catalog) Lookup(id string) (Spell, bool) {
	if c == nil {
		return Spell{}, false
	}
	s, ok := c.spells[id]
	if !ok {
		return Spell{}, false
	}
	return cloneSpell(s), true
}

// Has reports whether id is in the catalog.
func (c *Catalog) Has(id string) bool {
	if c == nil {
		return false
	}
	_, ok := c.spells[id]
	return ok
}

// All returns every spell in load order.
func (c *Catalog) All() []Spell {
	if c == nil {
		return nil
	}
	out := make([]Spell, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, cloneSpell(c.spells[id]))
	}
	return out
}

// IDs returns every spell id in load order.
func (c *Catalog) IDs() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.order...)
}

// Len returns the number of spells.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

func cloneSpell(s Spell) Spell {
	if s.Effects == nil {
		return s
	}
	effects := make([]Effect, len(s.Effects))
	for i, e := range s.Effects {
		if e.Duration != nil {
			d := *e.Duration
			e.Duration = &d
		}
		effects[i] = e
	}
	s.Effects = effects
	return s
}
