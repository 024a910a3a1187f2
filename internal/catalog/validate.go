package catalog

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var entryValidator = validator.New()

func validateBean(b CoffeeBean) error {
	if err := entryValidator.Struct(b); err != nil {
		return fmt.Errorf("%w: bean %q: %v", ErrInvalidEntry, b.ID, err)
	}
	return nil
}

func validateMachine(m BrewingMachine) error {
	if err := entryValidator.Struct(m); err != nil {
		return fmt.Errorf("%w: machine %q: %v", ErrInvalidEntry, m.ID, err)
	}
	return nil
}
