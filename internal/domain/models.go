// Package domain defines the request-scoped records that flow through the
// diet-plan pipeline, plus the single persistence model used by the optional
// diagnostics log. None of the profile or plan types are ever stored.
package domain

import "time"

// Profile defaults applied whenever an optional field is missing or unparsable.
const (
	DefaultAge                = 30
	DefaultGender             = "Female"
	DefaultHeightCM           = 165.0
	DefaultWeightKG           = 60.0
	DefaultDosha              = "mixed"
	DefaultCondition          = "None"
	DefaultWaterIntakeLiters  = 2.0
	DefaultBMI                = 22.0
	DefaultSleepQuality       = "Good"
	DefaultAppetite           = "Normal"
	DefaultLocation           = "Unknown"
	DefaultSecondaryCondition = "None"
)

// WeatherNotAvailable is the literal weather description used whenever
// enrichment is skipped or fails.
const WeatherNotAvailable = "Not available"

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// UserProfile is the canonical, fully-defaulted health and lifestyle profile.
//
// Fields:
//   - Age, Gender, HeightCM, WeightKG: demographics (cm/kg).
//   - Dosha: Ayurvedic constitution, opaque to the service ("Vata", "Pitta-Kapha").
//   - PrimaryCondition / SecondaryCondition: free text health conditions.
//   - WaterIntakeLiters, BMI: numeric lifestyle markers.
//   - SleepQuality, Appetite: enumerated free text.
//   - FallbackLocation: user supplied location text used when enrichment fails.
//   - Coordinates: optional GPS position for weather enrichment.
//   - Notes: a free-text self-description. When set it stands in for the
//     structured fields, which then only hold defaults.
type UserProfile struct {
	Age                int          `json:"age"`
	Gender             string       `json:"gender"`
	HeightCM           float64      `json:"height_cm"`
	WeightKG           float64      `json:"weight_kg"`
	Dosha              string       `json:"dosha"`
	PrimaryCondition   string       `json:"primary_condition"`
	SecondaryCondition string       `json:"secondary_condition"`
	WaterIntakeLiters  float64      `json:"water_intake_liters"`
	BMI                float64      `json:"bmi"`
	SleepQuality       string       `json:"sleep_quality"`
	Appetite           string       `json:"appetite"`
	FallbackLocation   string       `json:"location"`
	Coordinates        *Coordinates `json:"coordinates,omitempty"`
	Notes              string       `json:"notes,omitempty"`
}

// DefaultProfile returns a profile with every field set to its documented default.
func DefaultProfile() UserProfile {
	return UserProfile{
		Age:                DefaultAge,
		Gender:             DefaultGender,
		HeightCM:           DefaultHeightCM,
		WeightKG:           DefaultWeightKG,
		Dosha:              DefaultDosha,
		PrimaryCondition:   DefaultCondition,
		SecondaryCondition: DefaultSecondaryCondition,
		WaterIntakeLiters:  DefaultWaterIntakeLiters,
		BMI:                DefaultBMI,
		SleepQuality:       DefaultSleepQuality,
		Appetite:           DefaultAppetite,
		FallbackLocation:   DefaultLocation,
	}
}

// LocationContext is the output of weather enrichment. It is produced once per
// request and never modified afterwards.
type LocationContext struct {
	ResolvedLocation string       `json:"resolved_location"`
	Weather          string       `json:"weather"`
	Source           *Coordinates `json:"source,omitempty"`
}

// FallbackLocation builds the context used when enrichment is skipped or fails.
func FallbackLocation(p UserProfile) LocationContext {
	return LocationContext{
		ResolvedLocation: p.FallbackLocation,
		Weather:          WeatherNotAvailable,
		Source:           p.Coordinates,
	}
}

// GeneratedPlan is the raw model output for one request.
type GeneratedPlan struct {
	RawText       string `json:"plan"`
	GenerationDay string `json:"current_day"`
}

// RenderedDocument is the finished, standalone document attached to a delivery.
type RenderedDocument struct {
	Filename    string
	ContentType string
	Content     []byte
}

// DeliveryOutcome is the terminal state of a delivery.
type DeliveryOutcome string

const (
	DeliverySent    DeliveryOutcome = "sent"
	DeliverySkipped DeliveryOutcome = "skipped"
	DeliveryFailed  DeliveryOutcome = "failed"
)

// DeliveryResult summarizes one dispatcher run.
type DeliveryResult struct {
	Outcome   DeliveryOutcome
	Attempts  int
	LastError error
	Duration  time.Duration
}

// OK reports whether the document was handed to the mail server.
func (r DeliveryResult) OK() bool { return r.Outcome == DeliverySent }
