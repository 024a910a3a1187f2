package catalog

import "context"

// Repo is read-only access to beans and machines.
type Repo interface {
	FindBean(ctx context.Context, id string) (CoffeeBean, error)
	FindMachine(ctx context.Context, id string) (BrewingMachine, error)
	ListBeans(ctx context.Context) ([]CoffeeBean, error)
	ListMachines(ctx context.Context) ([]BrewingMachine, error)
}
