// Package sections orders raw design images and groups them into named page
// sections using their filenames.
package sections

import (
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"layoutdna/types"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// UnorderedPosition is the order of a sample whose name carries no digits
const UnorderedPosition = 9999

// DefaultSlug is used when a label has no ASCII characters left after normalization
const DefaultSlug = "section"

// KeywordLabel maps a filename keyword to a display label
type KeywordLabel struct {
	Keyword string
	Label   string
}

// KeywordLabels is consulted in order; the first keyword found in the name wins
var KeywordLabels = []KeywordLabel{
	{"hero", "Hero"},
	{"banner", "Banner"},
	{"header", "Cabecera"},
	{"features", "Características"},
	{"services", "Servicios"},
	{"gallery", "Galería"},
	{"faq", "Preguntas frecuentes"},
	{"testimonials", "Testimonios"},
	{"pricing", "Precios"},
	{"contact", "Contacto"},
	{"newsletter", "Newsletter"},
	{"team", "Equipo"},
	{"portfolio", "Portafolio"},
	{"cta", "Llamada a la acción"},
	{"about", "Nosotros"},
	{"blog", "Blog"},
	{"footer", "Footer"},
}

var (
	orderPrefix = regexp.MustCompile(`^(\d{1,3})[-_\s]`)
	anyDigits   = regexp.MustCompile(`\d+`)
	slugInvalid = regexp.MustCompile(`[^A-Za-z0-9_-]+`)
	separators  = strings.NewReplacer("-", " ", "_", " ")
)

// ParseSample derives ordering, label and slug from an image path
func ParseSample(path string) types.ImageSample {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	label := Label(name)
	return types.ImageSample{
		Path:  path,
		Name:  name,
		Order: Order(name),
		Label: label,
		Slug:  Slugify(label),
	}
}

// Order parses a leading 1-3 digit prefix followed by a separator, else the
// first digit run anywhere in name, else UnorderedPosition
func Order(name string) int {
	if m := orderPrefix.FindStringSubmatch(name); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	if m := anyDigits.FindString(name); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			return n
		}
	}
	return UnorderedPosition
}

// Label returns the display label of the first keyword in name, or the name
// without its ordering prefix, title-cased
func Label(name string) string {
	lower := strings.ToLower(name)
	for _, kl := range KeywordLabels {
		if strings.Contains(lower, kl.Keyword) {
			return kl.Label
		}
	}

	trimmed := orderPrefix.ReplaceAllString(name, "")
	trimmed = strings.Join(strings.Fields(separators.Replace(trimmed)), " ")
	if trimmed == "" {
		trimmed = name
	}
	// Casers carry state, so each call gets its own
	return cases.Title(language.Und).String(trimmed)
}

// Slugify folds label to ASCII (compatibility decomposition, then every
// non-ASCII rune dropped), collapses each run outside [A-Za-z0-9_-] into a
// dash and lowercases the result
func Slugify(label string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	ascii, _, err := transform.String(t, label)
	if err != nil {
		ascii = label
	}

	slug := slugInvalid.ReplaceAllString(ascii, "-")
	slug = strings.ToLower(strings.Trim(slug, "-"))
	if slug == "" {
		return DefaultSlug
	}
	return slug
}

// Group orders the images by (order, name) and folds images sharing a slug
// into one section. The input slice is not modified.
func Group(paths []string) *types.Plan {
	samples := make([]types.ImageSample, 0, len(paths))
	for _, p := range paths {
		samples = append(samples, ParseSample(p))
	}

	sort.SliceStable(samples, func(i, j int) bool {
		if samples[i].Order != samples[j].Order {
			return samples[i].Order < samples[j].Order
		}
		if samples[i].Name != samples[j].Name {
			return samples[i].Name < samples[j].Name
		}
		return samples[i].Path < samples[j].Path
	})

	plan := &types.Plan{
		Sections: []types.Section{},
		Count:    len(samples),
	}
	if len(samples) > 0 {
		plan.Title = samples[0].Label
	}

	bySlug := make(map[string]int)
	for _, sample := range samples {
		if idx, ok := bySlug[sample.Slug]; ok {
			plan.Sections[idx].Images = append(plan.Sections[idx].Images, sample.Path)
			continue
		}
		bySlug[sample.Slug] = len(plan.Sections)
		plan.Sections = append(plan.Sections, types.Section{
			Name:       sample.Name,
			Label:      sample.Label,
			Slug:       sample.Slug,
			Images:     []string{sample.Path},
			LayoutRows: []types.Row{},
		})
	}
	return plan
}
