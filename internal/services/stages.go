package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Akshaypareek01/DietProject-samsara/internal/domain"
	"github.com/Akshaypareek01/DietProject-samsara/internal/llm"
	"github.com/Akshaypareek01/DietProject-samsara/internal/profile"
	"github.com/Akshaypareek01/DietProject-samsara/internal/prompt"
)

// Enricher resolves a profile's coordinates into location and weather text.
// Implementations never fail; they fall back to the profile's own location.
type Enricher interface {
	Enrich(ctx context.Context, p domain.UserProfile) domain.LocationContext
	Configured() bool
}

// Generator produces plan text from a composed prompt.
type Generator interface {
	Generate(ctx context.Context, p prompt.Prompt) (string, error)
	Provider() string
	Configured() bool
}

var _ Generator = (*llm.Client)(nil)

// State carries one request through the pipeline. Each stage reads what the
// previous stages produced and fills in its own output.
type State struct {
	Input    profile.Input
	Weekday  string
	Location domain.LocationContext
	Prompt   prompt.Prompt
	Plan     domain.GeneratedPlan
}

// Stage is one step of plan generation.
type Stage interface {
	Name() string
	Run(ctx context.Context, st *State) error
}

// credentialStage fails fast when the model has no API key, before the
// weather lookup or any other outbound call.
type credentialStage struct{ gen Generator }

func (credentialStage) Name() string { return "credentials" }

func (s credentialStage) Run(_ context.Context, _ *State) error {
	if s.gen == nil || !s.gen.Configured() {
		return fmt.Errorf("%w: language model key missing", ErrConfiguration)
	}
	return nil
}

// enrichStage resolves location and weather. A nil enricher yields the
// fallback context.
type enrichStage struct{ enricher Enricher }

func (enrichStage) Name() string { return "enrich" }

func (s enrichStage) Run(ctx context.Context, st *State) error {
	if s.enricher == nil {
		st.Location = domain.FallbackLocation(st.Input.Profile)
		return nil
	}
	st.Location = s.enricher.Enrich(ctx, st.Input.Profile)
	return nil
}

type composeStage struct{ opts prompt.Options }

func (composeStage) Name() string { return "compose" }

func (s composeStage) Run(_ context.Context, st *State) error {
	st.Prompt = prompt.Compose(st.Input.Profile, st.Location, st.Weekday, s.opts)
	return nil
}

type generateStage struct{ gen Generator }

func (generateStage) Name() string { return "generate" }

func (s generateStage) Run(ctx context.Context, st *State) error {
	text, err := s.gen.Generate(ctx, st.Prompt)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	case err != nil:
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	st.Plan = domain.GeneratedPlan{RawText: text, GenerationDay: st.Weekday}
	return nil
}
