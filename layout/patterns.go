package layout

import (
	"strings"

	"layoutdna/types"
)

// Archetype names
const (
	PatternSplitBalanced   = "hero-split-screen-balanced"
	PatternSplitAsymmetric = "hero-split-screen-asymmetric"
	PatternGrid            = "features-grid-3-col"
	PatternDefault         = "features-with-media"

	VariantBalanced   = "balanced"
	VariantAsymmetric = "asymmetric"
)

// balancedTolerance is the largest percent difference two columns may have and still be balanced
const balancedTolerance = 10

// KeywordPattern maps a label keyword to an archetype
type KeywordPattern struct {
	Keyword string
	Pattern string
}

// KeywordPatterns is consulted in order; the first keyword found wins
var KeywordPatterns = []KeywordPattern{
	{"hero", "hero-cover"},
	{"banner", "hero-cover"},
	{"features", "features-grid-3-col"},
	{"services", "services-cards"},
	{"gallery", "gallery-masonry"},
	{"faq", "faq-accordion"},
	{"testimonials", "testimonials-slider"},
	{"pricing", "pricing-table"},
	{"contact", "contact-form"},
	{"newsletter", "newsletter-signup"},
	{"team", "team-grid"},
	{"portfolio", "portfolio-grid"},
	{"cta", "cta-banner"},

	// Slugs of the Spanish display labels
	{"caracteristicas", "features-grid-3-col"},
	{"servicios", "services-cards"},
	{"galeria", "gallery-masonry"},
	{"preguntas", "faq-accordion"},
	{"testimonios", "testimonials-slider"},
	{"precios", "pricing-table"},
	{"equipo", "team-grid"},
	{"portafolio", "portfolio-grid"},
	{"llamada", "cta-banner"},
}

// ClassifyPattern names the layout archetype of a section from its first
// row's column structure, falling back to label keywords
func ClassifyPattern(s types.Section) string {
	if pattern, _, ok := classifyColumns(s); ok {
		return pattern
	}

	haystack := strings.ToLower(s.Label + " " + s.Slug)
	for _, kp := range KeywordPatterns {
		if strings.Contains(haystack, kp.Keyword) {
			return kp.Pattern
		}
	}
	return PatternDefault
}

// ClassifyPatternVariant returns "balanced" or "asymmetric" for two-column
// first rows and "" otherwise
func ClassifyPatternVariant(s types.Section) string {
	_, variant, _ := classifyColumns(s)
	return variant
}

func classifyColumns(s types.Section) (pattern, variant string, ok bool) {
	if len(s.LayoutRows) == 0 {
		return "", "", false
	}

	first := s.LayoutRows[0]
	switch n := len(first.Columns); {
	case n == 2 && len(first.RatiosPercent) == 2:
		diff := first.RatiosPercent[0] - first.RatiosPercent[1]
		if diff < 0 {
			diff = -diff
		}
		if diff <= balancedTolerance {
			return PatternSplitBalanced, VariantBalanced, true
		}
		return PatternSplitAsymmetric, VariantAsymmetric, true
	case n >= 3:
		return PatternGrid, "", true
	}
	return "", "", false
}
