package turn

import (
	"context"
	"strings"

	"github.com/sandevgo/tastybot/internal/core"
	"github.com/sandevgo/tastybot/pkg/log"
)

// PrefsStep normalizes free text into a structured preference record. It
// fails closed: whatever the extractor returns is validated here, and a
// broken response is replaced with a minimal record carrying only the
// best-guess language.
type PrefsStep struct {
	extractor core.Extractor
}

func NewPrefsStep(extractor core.Extractor) *PrefsStep {
	return &PrefsStep{extractor: extractor}
}

func (s *PrefsStep) Extract(ctx context.Context, tc *Context) core.Preferences {
	prefs, err := s.extractor.Extract(ctx, tc.Input, tc.History)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("preference extraction failed, using minimal record")
		prefs = core.Preferences{}
	}

	prefs = sanitizePreferences(prefs)
	if prefs.Language == "" {
		prefs.Language = tc.Lang()
	}

	tc.Preferences = prefs
	tc.Language = prefs.Language
	return prefs
}

func sanitizePreferences(p core.Preferences) core.Preferences {
	p.Language = strings.TrimSpace(p.Language)
	p.Cuisine = strings.TrimSpace(p.Cuisine)
	p.Dish = strings.TrimSpace(p.Dish)
	p.MealType = strings.TrimSpace(p.MealType)
	p.Dietary = cleanList(p.Dietary)
	p.Ingredients = cleanList(p.Ingredients)
	p.Allergies = cleanList(p.Allergies)
	if p.MaxCookingTime < 0 {
		p.MaxCookingTime = 0
	}
	return p
}

func cleanList(items []string) []string {
	var out []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
