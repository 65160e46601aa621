// Package prompt composes the system and user instructions sent to the
// language model. Composition is pure: identical inputs give identical text.
package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Akshaypareek01/DietProject-samsara/internal/domain"
)

// Sections every generated day must contain, in order.
var Sections = []string{
	"General Recommendations",
	"Early Morning",
	"Breakfast",
	"Mid-Morning Snack",
	"Lunch",
	"Evening Snack",
	"Dinner",
	"Bedtime",
}

// Options toggles prompt variants.
type Options struct {
	Days     int  // 1 or 7; anything else is treated as 7
	AgeAware bool // add an age-group line
}

// Prompt is the pair of instructions for one generation call.
type Prompt struct {
	System string
	User   string
}

// Compose builds the prompt for p at loc, numbering days from weekday.
func Compose(p domain.UserProfile, loc domain.LocationContext, weekday string, opts Options) Prompt {
	days := opts.Days
	if days != 1 {
		days = 7
	}
	return Prompt{
		System: systemInstruction(days),
		User:   userInstruction(p, loc, weekday, days, opts.AgeAware),
	}
}

func systemInstruction(days int) string {
	var b strings.Builder
	span := "a 7-day"
	if days == 1 {
		span = "a 1-day"
	}

	b.WriteString("You are a certified Ayurvedic clinical dietician and Indian nutrition expert.\n")
	fmt.Fprintf(&b, "Create %s personalized diet plan for the user described in the next message.\n\n", span)

	b.WriteString("Structure:\n")
	b.WriteString("- Start with one level-1 heading: `# Personalized Ayurvedic Diet Plan`.\n")
	if days == 1 {
		b.WriteString("- Use one level-2 heading for the day: `## Day 1 - <Weekday>`.\n")
	} else {
		b.WriteString("- Use one level-2 heading per day: `## Day N - <Weekday>`, N from 1 to 7.\n")
	}
	b.WriteString("- Inside each day, use these level-2 section headings in this order: ")
	for i, s := range Sections {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("`## " + s + "`")
	}
	b.WriteString(".\n")
	b.WriteString("- Write every food item as a bullet starting with `- `.\n")
	b.WriteString("- Do not use tables, code blocks or JSON.\n\n")

	b.WriteString("Content rules:\n")
	b.WriteString("- Give every food item a quantity in grams (g) or milliliters (ml).\n")
	b.WriteString("- After each meal, add one short line explaining why it suits the user's dosha, health conditions, BMI, appetite and current weather.\n")
	b.WriteString("- Prefer locally available, seasonal foods for the user's location.\n")
	if days > 1 {
		b.WriteString("- Do not repeat the exact same meal on two different days.\n")
	}
	b.WriteString("- Avoid contraindicated foods: spicy or sour foods for GERD or acidity, fried foods for PCOS, refined sugar for diabetes.\n")
	b.WriteString("- If BMI is above 28, keep total daily calories below 1800 kcal.\n")
	b.WriteString("- Be specific. Never give generic advice.\n")
	return b.String()
}

func userInstruction(p domain.UserProfile, loc domain.LocationContext, weekday string, days int, ageAware bool) string {
	if p.Notes != "" {
		return describedInstruction(p.Notes, loc, weekday, days)
	}
	var b strings.Builder
	b.WriteString("User profile:\n")
	line := func(label, value string) { fmt.Fprintf(&b, "- %s: %s\n", label, value) }

	line("Age", strconv.Itoa(p.Age))
	if ageAware {
		line("Age group", AgeGroup(p.Age))
	}
	line("Gender", p.Gender)
	line("Height", num(p.HeightCM)+" cm")
	line("Weight", num(p.WeightKG)+" kg")
	line("BMI", num(p.BMI))
	line("Dosha", p.Dosha)
	line("Primary health condition", p.PrimaryCondition)
	line("Secondary health condition", p.SecondaryCondition)
	line("Daily water intake", num(p.WaterIntakeLiters)+" liters")
	line("Sleep quality", p.SleepQuality)
	line("Appetite", p.Appetite)
	line("Location", loc.ResolvedLocation)
	line("Current weather", loc.Weather)
	line("Today", weekday)

	b.WriteString("\n")
	if days == 1 {
		fmt.Fprintf(&b, "Plan for today only. Day 1 is %s.\n", weekday)
	} else {
		fmt.Fprintf(&b, "Day 1 is %s. Continue the weekday names in order for Days 2 to 7.\n", weekday)
	}
	if ageAware {
		fmt.Fprintf(&b, "Adapt portion sizes and food choices to the %s age group.\n", strings.ToLower(AgeGroup(p.Age)))
	}
	return b.String()
}

// describedInstruction passes a free-text profile through untouched. The
// structured fields only hold defaults here, so they are left out.
func describedInstruction(notes string, loc domain.LocationContext, weekday string, days int) string {
	var b strings.Builder
	b.WriteString("User profile, in the user's own words:\n")
	b.WriteString(notes)
	b.WriteString("\n\n")
	b.WriteString("Infer age, dosha, health conditions, BMI, appetite, water intake and sleep quality from the description where it gives them.\n")
	if loc.ResolvedLocation != domain.DefaultLocation {
		fmt.Fprintf(&b, "- Location: %s\n", loc.ResolvedLocation)
	}
	fmt.Fprintf(&b, "- Current weather: %s\n", loc.Weather)
	fmt.Fprintf(&b, "- Today: %s\n\n", weekday)
	if days == 1 {
		fmt.Fprintf(&b, "Plan for today only. Day 1 is %s.\n", weekday)
	} else {
		fmt.Fprintf(&b, "Day 1 is %s. Continue the weekday names in order for Days 2 to 7.\n", weekday)
	}
	return b.String()
}

// AgeGroup buckets an age for personalization.
func AgeGroup(age int) string {
	switch {
	case age < 13:
		return "Child"
	case age < 20:
		return "Teen"
	case age < 60:
		return "Adult"
	default:
		return "Senior"
	}
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
