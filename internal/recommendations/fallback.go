package recommendations

import "brew-backend/internal/catalog"

// DefaultFallbackKey names the entry used when no pair is tabulated.
const DefaultFallbackKey = "default"

// DefaultFallback suits most bean and equipment combinations.
var DefaultFallback = BrewingRecommendation{
	Temperature: Temperature{Fahrenheit: 200, Celsius: 93},
	GrindSize:   "medium",
	BrewTime:    BrewTime{Minutes: 4, Seconds: 0},
	WaterRatio:  WaterRatio{Coffee: 1, Water: 15, Description: "1:15 ratio"},
	Explanation: "Balanced brewing parameters suitable for most coffee and equipment combinations.",
}

// fallbackTable holds the tailored entries. Pairs missing here resolve to
// DefaultFallback.
var fallbackTable = map[catalog.RoastLevel]map[catalog.MachineType]BrewingRecommendation{
	catalog.RoastDark: {
		catalog.MachineEspresso: {
			Temperature: Temperature{Fahrenheit: 200, Celsius: 93},
			GrindSize:   "fine",
			BrewTime:    BrewTime{Minutes: 0, Seconds: 25},
			WaterRatio:  WaterRatio{Coffee: 1, Water: 2, Description: "1:2 ratio"},
			Explanation: "Dark roast with espresso requires slightly lower temperature to avoid over-extraction and bitter flavors.",
		},
		catalog.MachinePourOver: {
			Temperature: Temperature{Fahrenheit: 195, Celsius: 90},
			GrindSize:   "medium-coarse",
			BrewTime:    BrewTime{Minutes: 4, Seconds: 0},
			WaterRatio:  WaterRatio{Coffee: 1, Water: 15, Description: "1:15 ratio"},
			Explanation: "Dark roast pour-over needs lower temperature and shorter contact time to prevent over-extraction.",
		},
	},
	catalog.RoastMedium: {
		catalog.MachineEspresso: {
			Temperature: Temperature{Fahrenheit: 205, Celsius: 96},
			GrindSize:   "fine",
			BrewTime:    BrewTime{Minutes: 0, Seconds: 30},
			WaterRatio:  WaterRatio{Coffee: 1, Water: 2, Description: "1:2 ratio"},
			Explanation: "Medium roast with espresso benefits from higher temperature for optimal extraction.",
		},
		catalog.MachinePourOver: {
			Temperature: Temperature{Fahrenheit: 205, Celsius: 96},
			GrindSize:   "medium",
			BrewTime:    BrewTime{Minutes: 4, Seconds: 30},
			WaterRatio:  WaterRatio{Coffee: 1, Water: 16, Description: "1:16 ratio"},
			Explanation: "Medium roast pour-over allows for higher temperature and longer extraction time.",
		},
	},
}

// Key returns the table key for a pair, or DefaultFallbackKey when the pair
// has no tailored entry.
func Key(roast catalog.RoastLevel, machine catalog.MachineType) string {
	if _, ok := fallbackTable[roast][machine]; ok {
		return string(roast) + "-" + string(machine)
	}
	return DefaultFallbackKey
}

// Resolve returns the rule-based recommendation for a pair. It never fails.
func Resolve(roast catalog.RoastLevel, machine catalog.MachineType) BrewingRecommendation {
	if rec, ok := fallbackTable[roast][machine]; ok {
		return rec.Clone()
	}
	return DefaultFallback.Clone()
}
