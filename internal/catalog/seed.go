package catalog

// DefaultBeans returns the built-in bean catalog.
func DefaultBeans() []CoffeeBean {
	return []CoffeeBean{
		{ID: "1", Brand: "Dark Roast", Origin: "Australian", RoastLevel: RoastDark, FlavorProfile: []string{"bold", "smoky", "rich"}},
		{ID: "2", Brand: "Medium Roast", Origin: "Australian", RoastLevel: RoastMedium, FlavorProfile: []string{"balanced", "smooth", "caramel"}},
		{ID: "3", Brand: "Illy", Origin: "Brazil", RoastLevel: RoastMedium, FlavorProfile: []string{"smooth", "nutty", "classic"}},
		{ID: "4", Brand: "Illy", Origin: "Guatemala", RoastLevel: RoastDark, FlavorProfile: []string{"rich", "chocolatey", "full-bodied"}},
	}
}

// DefaultMachines returns the built-in machine catalog.
func DefaultMachines() []BrewingMachine {
	return []BrewingMachine{
		{ID: "1", Type: MachinePourOver, Brand: "Hario", Model: "V60"},
		{ID: "2", Type: MachineFrenchPress, Brand: "Bodum", Model: "Chambord"},
		{ID: "3", Type: MachineEspresso, Brand: "Breville/Sage", Model: "Barista Express"},
		{ID: "4", Type: MachineEspresso, Brand: "Breville/Sage", Model: "Barista Pro"},
		{ID: "5", Type: MachineEspresso, Brand: "De'Longhi", Model: "La Specialista"},
		{ID: "6", Type: MachineFullAutomatic, Brand: "Jura", Model: "E8"},
		{ID: "7", Type: MachineFullAutomatic, Brand: "Saeco", Model: "PicoBaristo"},
		{ID: "8", Type: MachineEspresso, Brand: "Gaggia", Model: "Classic Pro"},
		{ID: "9", Type: MachineAeropress, Brand: "AeroPress", Model: "Original"},
	}
}
