package material

import (
	"context"
	"sync"

	"Boltcalc/internal/apperr"
)

// Catalog is an ordered, read-mostly set of materials. Sizing runs only read
// from it, so one catalog may be shared between concurrent runs.
type Catalog struct {
	mu    sync.RWMutex
	items []Material
}

func NewCatalog(mats ...Material) (*Catalog, error) {
	c := &Catalog{}
	if err := c.Replace(mats); err != nil {
		return nil, err
	}
	return c, nil
}

func LoadCatalog(ctx context.Context, s Store) (*Catalog, error) {
	mats, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return NewCatalog(mats...)
}

func (c *Catalog) Add(m Material) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := checkUnique(c.items, m); err != nil {
		return err
	}
	c.items = append(c.items, m)
	return nil
}

// Replace swaps the whole content; on error the catalog is left untouched.
func (c *Catalog) Replace(mats []Material) error {
	next := make([]Material, 0, len(mats))
	for _, m := range mats {
		if err := checkUnique(next, m); err != nil {
			return err
		}
		next = append(next, m)
	}
	c.mu.Lock()
	c.items = next
	c.mu.Unlock()
	return nil
}

func (c *Catalog) All() []Material {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Material, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Catalog) ByName(name string) (Material, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, m := range c.items {
		if m.name == name {
			return m, nil
		}
	}
	return Material{}, apperr.NotFound("material.Catalog", "no material named %q", name)
}

func (c *Catalog) ByNumber(number string) (Material, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, m := range c.items {
		if m.number == number {
			return m, nil
		}
	}
	return Material{}, apperr.NotFound("material.Catalog", "no material with number %q", number)
}

func checkUnique(items []Material, m Material) error {
	if m.IsZero() {
		return apperr.Validation("material.Catalog", "empty material")
	}
	for _, existing := range items {
		if existing.name == m.name {
			return apperr.Validation("material.Catalog", "duplicate material name %q", m.name)
		}
		if existing.number == m.number {
			return apperr.Validation("material.Catalog", "duplicate material number %q", m.number)
		}
	}
	return nil
}
