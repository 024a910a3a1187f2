package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const beanColumns = `id, brand, origin, roast_level, array_to_json(flavor_profile)::text`

const machineColumns = `id, machine_type, brand, model`

// FindBean returns the bean with the given id.
func (r *PGRepo) FindBean(ctx context.Context, id string) (CoffeeBean, error) {
	query := `SELECT ` + beanColumns + `
FROM coffee_beans
WHERE id = $1`
	bean, err := scanBean(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CoffeeBean{}, ErrNotFound
		}
		return CoffeeBean{}, err
	}
	return bean, nil
}

// FindMachine returns the machine with the given id.
func (r *PGRepo) FindMachine(ctx context.Context, id string) (BrewingMachine, error) {
	query := `SELECT ` + machineColumns + `
FROM brewing_machines
WHERE id = $1`
	machine, err := scanMachine(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return BrewingMachine{}, ErrNotFound
		}
		return BrewingMachine{}, err
	}
	return machine, nil
}

// ListBeans returns all beans ordered by catalog position.
func (r *PGRepo) ListBeans(ctx context.Context) ([]CoffeeBean, error) {
	query := `SELECT ` + beanColumns + `
FROM coffee_beans
ORDER BY position, id`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CoffeeBean
	for rows.Next() {
		bean, err := scanBean(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, bean)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListMachines returns all machines ordered by catalog position.
func (r *PGRepo) ListMachines(ctx context.Context) ([]BrewingMachine, error) {
	query := `SELECT ` + machineColumns + `
FROM brewing_machines
ORDER BY position, id`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BrewingMachine
	for rows.Next() {
		machine, err := scanMachine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, machine)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBean(row rowScanner) (CoffeeBean, error) {
	var bean CoffeeBean
	var roast string
	var flavors sql.NullString
	if err := row.Scan(&bean.ID, &bean.Brand, &bean.Origin, &roast, &flavors); err != nil {
		return CoffeeBean{}, err
	}
	bean.RoastLevel = RoastLevel(roast)
	bean.FlavorProfile = []string{}
	if flavors.Valid && flavors.String != "" {
		if err := json.Unmarshal([]byte(flavors.String), &bean.FlavorProfile); err != nil {
			return CoffeeBean{}, fmt.Errorf("%w: bean %q flavor profile: %v", ErrInvalidEntry, bean.ID, err)
		}
	}
	if err := validateBean(bean); err != nil {
		return CoffeeBean{}, err
	}
	return bean, nil
}

func scanMachine(row rowScanner) (BrewingMachine, error) {
	var machine BrewingMachine
	var machineType string
	if err := row.Scan(&machine.ID, &machineType, &machine.Brand, &machine.Model); err != nil {
		return BrewingMachine{}, err
	}
	machine.Type = MachineType(machineType)
	if err := validateMachine(machine); err != nil {
		return BrewingMachine{}, err
	}
	return machine, nil
}

var _ Repo = (*PGRepo)(nil)
