package recommendations

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Temperature is a target water temperature in both scales.
type Temperature struct {
	Fahrenheit int `json:"fahrenheit"`
	Celsius    int `json:"celsius"`
}

// BrewTime is a target contact time.
type BrewTime struct {
	Minutes int `json:"minutes" validate:"gte=0"`
	Seconds int `json:"seconds" validate:"gte=0,lte=59"`
}

// WaterRatio is coffee mass to water mass.
type WaterRatio struct {
	Coffee      float64 `json:"coffee" validate:"gt=0"`
	Water       float64 `json:"water" validate:"gt=0"`
	Description string  `json:"description" validate:"required"`
}

// BrewingRecommendation is built per request and never stored.
type BrewingRecommendation struct {
	Temperature Temperature `json:"temperature"`
	GrindSize   string      `json:"grindSize"`
	BrewTime    BrewTime    `json:"brewTime"`
	WaterRatio  WaterRatio  `json:"waterRatio"`
	Explanation string      `json:"explanation"`
	Confidence  *float64    `json:"confidence,omitempty"`
}

// Clone returns a deep copy.
func (r BrewingRecommendation) Clone() BrewingRecommendation {
	out := r
	if r.Confidence != nil {
		v := *r.Confidence
		out.Confidence = &v
	}
	return out
}

// RecommendationRequest is the POST body.
type RecommendationRequest struct {
	BeanID    string `json:"beanId"`
	MachineID string `json:"machineId"`
}

var errNullRequest = errors.New("request body is null")

// UnmarshalJSON accepts any JSON value except null. An id that is not a
// string, or a body that is not an object, decodes to blank ids so the
// catalog lookup reports an invalid selection.
func (r *RecommendationRequest) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return errNullRequest
	}
	var raw struct {
		BeanID    json.RawMessage `json:"beanId"`
		MachineID json.RawMessage `json:"machineId"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return err
		}
	}
	*r = RecommendationRequest{BeanID: stringID(raw.BeanID), MachineID: stringID(raw.MachineID)}
	return nil
}

func stringID(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// RecommendationResponse is the envelope returned to clients. Data and
// FallbackUsed are set on success, Error on failure.
type RecommendationResponse struct {
	Success      bool                   `json:"success"`
	Data         *BrewingRecommendation `json:"data,omitempty"`
	Error        string                 `json:"error,omitempty"`
	FallbackUsed *bool                  `json:"fallbackUsed,omitempty"`
}

func successResponse(rec BrewingRecommendation, fallbackUsed bool) RecommendationResponse {
	return RecommendationResponse{
		Success:      true,
		Data:         &rec,
		FallbackUsed: &fallbackUsed,
	}
}

func failureResponse(message string) RecommendationResponse {
	return RecommendationResponse{Success: false, Error: message}
}
