package catalog

import (
	"context"
	"fmt"
)

// Load snapshots src into a MemoryRepo. It runs once at start so request
// handling never depends on the source staying reachable.
func Load(ctx context.Context, src Repo) (*MemoryRepo, error) {
	beans, err := src.ListBeans(ctx)
	if err != nil {
		return nil, fmt.Errorf("load beans: %w", err)
	}
	machines, err := src.ListMachines(ctx)
	if err != nil {
		return nil, fmt.Errorf("load machines: %w", err)
	}
	if len(beans) == 0 || len(machines) == 0 {
		return nil, fmt.Errorf("catalog is empty: beans=%d machines=%d", len(beans), len(machines))
	}

	seenBeans := make(map[string]bool, len(beans))
	for _, b := range beans {
		if err := validateBean(b); err != nil {
			return nil, err
		}
		if seenBeans[b.ID] {
			return nil, fmt.Errorf("%w: duplicate bean id %q", ErrInvalidEntry, b.ID)
		}
		seenBeans[b.ID] = true
	}
	seenMachines := make(map[string]bool, len(machines))
	for _, m := range machines {
		if err := validateMachine(m); err != nil {
			return nil, err
		}
		if seenMachines[m.ID] {
			return nil, fmt.Errorf("%w: duplicate machine id %q", ErrInvalidEntry, m.ID)
		}
		seenMachines[m.ID] = true
	}
	return NewMemoryRepo(beans, machines), nil
}
