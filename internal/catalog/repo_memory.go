package catalog

import (
	"context"
	"slices"
)

// MemoryRepo serves a fixed catalog from memory. It is never mutated after
// construction, so concurrent reads need no locking.
type MemoryRepo struct {
	beans    []CoffeeBean
	machines []BrewingMachine
}

// NewMemoryRepo constructs a MemoryRepo over copies of the given entries.
func NewMemoryRepo(beans []CoffeeBean, machines []BrewingMachine) *MemoryRepo {
	r := &MemoryRepo{
		beans:    make([]CoffeeBean, 0, len(beans)),
		machines: slices.Clone(machines),
	}
	for _, b := range beans {
		b.FlavorProfile = slices.Clone(b.FlavorProfile)
		r.beans = append(r.beans, b)
	}
	return r
}

// NewDefaultRepo returns the built-in catalog.
func NewDefaultRepo() *MemoryRepo {
	return NewMemoryRepo(DefaultBeans(), DefaultMachines())
}

// FindBean returns the bean with the given id.
func (r *MemoryRepo) FindBean(ctx context.Context, id string) (CoffeeBean, error) {
	if err := ctx.Err(); err != nil {
		return CoffeeBean{}, err
	}
	for _, b := range r.beans {
		if b.ID == id {
			b.FlavorProfile = slices.Clone(b.FlavorProfile)
			return b, nil
		}
	}
	return CoffeeBean{}, ErrNotFound
}

// FindMachine returns the machine with the given id.
func (r *MemoryRepo) FindMachine(ctx context.Context, id string) (BrewingMachine, error) {
	if err := ctx.Err(); err != nil {
		return BrewingMachine{}, err
	}
	for _, m := range r.machines {
		if m.ID == id {
			return m, nil
		}
	}
	return BrewingMachine{}, ErrNotFound
}

// ListBeans returns all beans in catalog order.
func (r *MemoryRepo) ListBeans(ctx context.Context) ([]CoffeeBean, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]CoffeeBean, 0, len(r.beans))
	for _, b := range r.beans {
		b.FlavorProfile = slices.Clone(b.FlavorProfile)
		out = append(out, b)
	}
	return out, nil
}

// ListMachines returns all machines in catalog order.
func (r *MemoryRepo) ListMachines(ctx context.Context) ([]BrewingMachine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(r.machines), nil
}

var _ Repo = (*MemoryRepo)(nil)
