package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Akshaypareek01/DietProject-samsara/internal/domain"
)

func sample() (domain.UserProfile, domain.LocationContext) {
	p := domain.DefaultProfile()
	p.Dosha = "Pitta"
	p.PrimaryCondition = "GERD"
	p.BMI = 25
	p.FallbackLocation = "Chennai"
	return p, domain.FallbackLocation(p)
}

func TestCompose_Deterministic(t *testing.T) {
	p, loc := sample()
	opts := Options{Days: 7, AgeAware: true}
	a := Compose(p, loc, "Monday", opts)
	b := Compose(p, loc, "Monday", opts)
	assert.Equal(t, a, b)
}

func TestCompose_SystemInstructionPolicy(t *testing.T) {
	p, loc := sample()
	sys := Compose(p, loc, "Monday", Options{Days: 7}).System

	for _, s := range Sections {
		assert.Contains(t, sys, "## "+s)
	}
	assert.Contains(t, sys, "7-day")
	assert.Contains(t, sys, "grams (g) or milliliters (ml)")
	assert.Contains(t, sys, "seasonal")
	assert.Contains(t, sys, "Do not repeat")
	assert.Contains(t, sys, "# Personalized Ayurvedic Diet Plan")
	assert.Contains(t, sys, "1800 kcal")
}

func TestCompose_OneDayVariant(t *testing.T) {
	p, loc := sample()
	pr := Compose(p, loc, "Friday", Options{Days: 1})
	assert.Contains(t, pr.System, "1-day")
	assert.NotContains(t, pr.System, "Do not repeat")
	assert.Contains(t, pr.User, "Day 1 is Friday")
}

func TestCompose_UnknownDaysFallsBackToWeek(t *testing.T) {
	p, loc := sample()
	assert.Equal(t, Compose(p, loc, "Sunday", Options{Days: 7}), Compose(p, loc, "Sunday", Options{Days: 3}))
}

func TestCompose_UserInstructionListsEveryField(t *testing.T) {
	p, loc := sample()
	loc.Weather = "Clear Sky, Temp: 31°C"
	user := Compose(p, loc, "Wednesday", Options{Days: 7}).User

	for _, want := range []string{
		"Age: 30", "Gender: Female", "Height: 165 cm", "Weight: 60 kg", "BMI: 25",
		"Dosha: Pitta", "Primary health condition: GERD", "Secondary health condition: None",
		"Daily water intake: 2 liters", "Sleep quality: Good", "Appetite: Normal",
		"Location: Chennai", "Current weather: Clear Sky, Temp: 31°C", "Today: Wednesday",
		"Day 1 is Wednesday",
	} {
		assert.Contains(t, user, want)
	}
	assert.NotContains(t, user, "Age group")
}

func TestCompose_AgeAware(t *testing.T) {
	p, loc := sample()
	p.Age = 67
	user := Compose(p, loc, "Monday", Options{Days: 7, AgeAware: true}).User
	assert.Contains(t, user, "Age group: Senior")
	assert.True(t, strings.Contains(user, "senior age group"))
}

func TestAgeGroup(t *testing.T) {
	cases := map[int]string{5: "Child", 12: "Child", 13: "Teen", 19: "Teen", 20: "Adult", 59: "Adult", 60: "Senior"}
	for age, want := range cases {
		assert.Equal(t, want, AgeGroup(age), "age %d", age)
	}
}

func TestCompose_FreeTextProfileIsPassedThrough(t *testing.T) {
	p := domain.DefaultProfile()
	p.Notes = "Age 52, Kapha, type 2 diabetes, heavy dinners"
	loc := domain.FallbackLocation(p)

	out := Compose(p, loc, "Thursday", Options{Days: 1, AgeAware: true})

	assert.Contains(t, out.User, "in the user's own words:\n"+p.Notes+"\n")
	assert.Contains(t, out.User, "- Current weather: "+domain.WeatherNotAvailable)
	assert.Contains(t, out.User, "Plan for today only. Day 1 is Thursday.")
	// Defaults must not be presented as facts about the user.
	for _, s := range []string{"- Dosha:", "- Age:", "- Location:", "Age group"} {
		assert.NotContains(t, out.User, s)
	}
	// The system policy is shared with structured profiles.
	structured, _ := sample()
	assert.Equal(t, Compose(structured, loc, "Thursday", Options{Days: 1}).System, out.System)

	loc.ResolvedLocation = "Ahmedabad"
	assert.Contains(t, Compose(p, loc, "Thursday", Options{Days: 7}).User, "- Location: Ahmedabad\n")
}
