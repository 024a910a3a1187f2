package catalog

// RoastLevel is the processing intensity of a bean.
type RoastLevel string

const (
	RoastMedium RoastLevel = "medium"
	RoastDark   RoastLevel = "dark"
)

// RoastLevels lists every supported roast level.
var RoastLevels = []RoastLevel{RoastMedium, RoastDark}

// MachineType is the brew method of a machine.
type MachineType string

const (
	MachineEspresso      MachineType = "espresso"
	MachinePourOver      MachineType = "pour-over"
	MachineFrenchPress   MachineType = "french-press"
	MachineAeropress     MachineType = "aeropress"
	MachineDrip          MachineType = "drip"
	MachineFullAutomatic MachineType = "full-automatic"
)

// MachineTypes lists every supported machine type.
var MachineTypes = []MachineType{
	MachineEspresso,
	MachinePourOver,
	MachineFrenchPress,
	MachineAeropress,
	MachineDrip,
	MachineFullAutomatic,
}

// CoffeeBean is an immutable catalog entry.
type CoffeeBean struct {
	ID            string     `json:"id" validate:"required"`
	Brand         string     `json:"brand" validate:"required"`
	Origin        string     `json:"origin" validate:"required"`
	RoastLevel    RoastLevel `json:"roastLevel" validate:"oneof=medium dark"`
	FlavorProfile []string   `json:"flavorProfile" validate:"dive,required"`
}

// BrewingMachine is an immutable catalog entry.
type BrewingMachine struct {
	ID    string      `json:"id" validate:"required"`
	Type  MachineType `json:"type" validate:"oneof=espresso pour-over french-press aeropress drip full-automatic"`
	Brand string      `json:"brand" validate:"required"`
	Model string      `json:"model" validate:"required"`
}
