// Package profile turns request input into a complete domain.UserProfile.
//
// Three shapes are accepted: the flat form posted by the landing page, the
// nested JSON payload `{email, metadata}` sent by upstream services, where
// metadata is an arbitrarily structured object, and a single free-text
// description kept for older clients. Every optional field falls back to its
// documented default; only an absent or unparsable JSON body, or an empty
// description, is rejected.
package profile

import (
	"errors"
	"math"
	"net/url"
	"strings"

	"github.com/Akshaypareek01/DietProject-samsara/internal/domain"
	"github.com/Akshaypareek01/DietProject-samsara/internal/sysutil"
	"github.com/Akshaypareek01/DietProject-samsara/internal/utils"
)

// Canonical field names shared by both input shapes.
const (
	FieldAge              = "age"
	FieldGender           = "gender"
	FieldHeight           = "height"
	FieldWeight           = "weight"
	FieldDosha            = "dosha"
	FieldDisease          = "disease"
	FieldSecondaryDisease = "secondary_disease"
	FieldWater            = "water"
	FieldBMI              = "bmi"
	FieldSleep            = "sleep"
	FieldAppetite         = "appetite"
	FieldLocation         = "location"
	FieldLatitude         = "latitude"
	FieldLongitude        = "longitude"
	FieldEmail            = "email"
)

// Input is a normalized request: the profile plus the optional recipient.
type Input struct {
	Profile domain.UserProfile
	Email   string
}

// ErrEmptyDescription rejects a free-text request with nothing to describe.
var ErrEmptyDescription = errors.New("profile: empty free-text description")

// FromFreeText builds an Input from a user's own description of themselves.
// The text is carried verbatim as the profile notes; every structured field
// keeps its default and no delivery is requested.
func FromFreeText(text string) (Input, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Input{}, ErrEmptyDescription
	}
	p := domain.DefaultProfile()
	p.Notes = text
	return Input{Profile: p}, nil
}

// FromForm builds an Input from flat form values. It never fails.
func FromForm(form url.Values) Input {
	raw := make(map[string]string, len(form))
	for _, f := range formFields {
		if v := strings.TrimSpace(form.Get(f)); v != "" {
			raw[f] = v
		}
	}
	return build(raw)
}

var formFields = []string{
	FieldAge, FieldGender, FieldHeight, FieldWeight, FieldDosha, FieldDisease,
	FieldSecondaryDisease, FieldWater, FieldBMI, FieldSleep, FieldAppetite,
	FieldLocation, FieldLatitude, FieldLongitude, FieldEmail,
}

// build applies defaults and derivations to raw field text.
func build(raw map[string]string) Input {
	p := domain.DefaultProfile()

	if age := utils.AtoiDefault(raw[FieldAge], 0); age > 0 {
		p.Age = age
	}
	p.Gender = text(raw[FieldGender], p.Gender)
	p.Dosha = text(raw[FieldDosha], p.Dosha)
	p.PrimaryCondition = text(raw[FieldDisease], p.PrimaryCondition)
	p.SecondaryCondition = text(raw[FieldSecondaryDisease], p.SecondaryCondition)
	p.SleepQuality = text(raw[FieldSleep], p.SleepQuality)
	p.Appetite = text(raw[FieldAppetite], p.Appetite)
	p.FallbackLocation = text(raw[FieldLocation], p.FallbackLocation)

	height, heightOK := positive(raw[FieldHeight])
	weight, weightOK := positive(raw[FieldWeight])
	if heightOK {
		p.HeightCM = height
	}
	if weightOK {
		p.WeightKG = weight
	}
	if water, ok := positive(raw[FieldWater]); ok {
		p.WaterIntakeLiters = water
	}
	if bmi, ok := positive(raw[FieldBMI]); ok {
		p.BMI = bmi
	} else if heightOK && weightOK {
		p.BMI = DeriveBMI(height, weight)
	}

	p.Coordinates = coordinates(raw[FieldLatitude], raw[FieldLongitude])

	return Input{
		Profile: p,
		Email:   strings.TrimSpace(raw[FieldEmail]),
	}
}

// DeriveBMI returns weight / (height/100)^2 rounded to one decimal.
func DeriveBMI(heightCM, weightKG float64) float64 {
	m := heightCM / 100
	if m <= 0 || weightKG <= 0 {
		return domain.DefaultBMI
	}
	return utils.Round1(weightKG / (m * m))
}

func text(v, def string) string {
	return strings.TrimSpace(sysutil.FirstNonEmpty(v, def))
}

func positive(s string) (float64, bool) {
	f := utils.ParseFloatDefault(s, 0)
	return f, f > 0
}

// coordinates returns nil unless both values parse and lie in range.
func coordinates(lat, lon string) *domain.Coordinates {
	if strings.TrimSpace(lat) == "" || strings.TrimSpace(lon) == "" {
		return nil
	}
	la := utils.ParseFloatDefault(lat, math.NaN())
	lo := utils.ParseFloatDefault(lon, math.NaN())
	if math.IsNaN(la) || math.IsNaN(lo) || la < -90 || la > 90 || lo < -180 || lo > 180 {
		return nil
	}
	return &domain.Coordinates{Lat: la, Lon: lo}
}
