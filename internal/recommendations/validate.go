package recommendations

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed recommendation.schema.json
var recommendationSchemaJSON []byte

var (
	schemaOnce     sync.Once
	compiledSchema *gojsonschema.Schema
	schemaErr      error

	structValidator = validator.New()
)

// ValidationResult is the outcome of checking untrusted model output.
// Recommendation is only meaningful when Valid is true.
type ValidationResult struct {
	Valid          bool
	Reason         string
	Recommendation BrewingRecommendation
}

func invalid(format string, args ...any) ValidationResult {
	return ValidationResult{Reason: fmt.Sprintf(format, args...)}
}

func loadSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(recommendationSchemaJSON))
	})
	return compiledSchema, schemaErr
}

// Validate checks raw JSON against the recommendation schema and value
// constraints. Nothing is coerced: a numeric string or a null string field
// makes the whole candidate invalid.
func Validate(raw []byte) ValidationResult {
	schema, err := loadSchema()
	if err != nil {
		return invalid("schema load: %v", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return invalid("unparseable json: %v", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return invalid("schema: %s", strings.Join(errs, "; "))
	}

	var decoded candidate
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return invalid("decode: %v", err)
	}
	rec, err := decoded.recommendation()
	if err != nil {
		return invalid("decode: %v", err)
	}

	if err := structValidator.Struct(rec); err != nil {
		return invalid("constraints: %v", err)
	}
	return ValidationResult{Valid: true, Recommendation: rec}
}

// candidate mirrors BrewingRecommendation with float fields so integral
// values written as 93.0 decode. The schema has already checked they are
// integers; recommendation still refuses any value an int cannot hold.
type candidate struct {
	Temperature struct {
		Fahrenheit float64 `json:"fahrenheit"`
		Celsius    float64 `json:"celsius"`
	} `json:"temperature"`
	GrindSize string `json:"grindSize"`
	BrewTime  struct {
		Minutes float64 `json:"minutes"`
		Seconds float64 `json:"seconds"`
	} `json:"brewTime"`
	WaterRatio  WaterRatio `json:"waterRatio"`
	Explanation string     `json:"explanation"`
	Confidence  *float64   `json:"confidence"`
}

func (c candidate) recommendation() (BrewingRecommendation, error) {
	rec := BrewingRecommendation{
		GrindSize:   c.GrindSize,
		WaterRatio:  c.WaterRatio,
		Explanation: c.Explanation,
		Confidence:  c.Confidence,
	}
	for _, f := range []struct {
		name string
		in   float64
		out  *int
	}{
		{"temperature.fahrenheit", c.Temperature.Fahrenheit, &rec.Temperature.Fahrenheit},
		{"temperature.celsius", c.Temperature.Celsius, &rec.Temperature.Celsius},
		{"brewTime.minutes", c.BrewTime.Minutes, &rec.BrewTime.Minutes},
		{"brewTime.seconds", c.BrewTime.Seconds, &rec.BrewTime.Seconds},
	} {
		v, err := exactInt(f.in)
		if err != nil {
			return BrewingRecommendation{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.out = v
	}
	return rec, nil
}

// exactInt converts v when it is integral and fits in 32 bits.
func exactInt(v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, fmt.Errorf("%v is not an integer", v)
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("%v out of range", v)
	}
	return int(v), nil
}
