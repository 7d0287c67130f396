// Package i18n defines the languages the game is offered in.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	// Registers the embedded catalogs with x/text/message.
	_ "github.com/louisbranch/ontsnapping/internal/platform/i18n/catalog"
)

var (
	english = language.MustParse("en-US")
	dutch   = language.MustParse("nl-NL")

	supported = []language.Tag{dutch, english}
	matcher   = language.NewMatcher(supported)
)

// SupportedTags returns the supported language tags, default first.
func SupportedTags() []language.Tag {
	out := make([]language.Tag, len(supported))
	copy(out, supported)
	return out
}

// DefaultTag returns the language the game text is written in.
func DefaultTag() language.Tag {
	return dutch
}

// ParseTag parses value and reports whether it maps to a supported language.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return language.Und, false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return language.Und, false
	}
	matched, _, confidence := matcher.Match(tag)
	if confidence == language.No {
		return language.Und, false
	}
	return supportedTag(matched), true
}

// Match reports the best supported tag for tags and whether any matched.
func Match(tags ...language.Tag) (language.Tag, bool) {
	if len(tags) == 0 {
		return language.Und, false
	}
	matched, _, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return language.Und, false
	}
	return supportedTag(matched), true
}

// Printer returns a message printer bound to tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// LabelKey returns the catalog key naming a language in its own tongue.
func LabelKey(tag language.Tag) string {
	if base, _ := tag.Base(); base.String() == "en" {
		return "core.lang_en"
	}
	return "core.lang_nl"
}

// Matcher results may carry -u- extensions; fold them back onto the
// supported tag with the same base language.
func supportedTag(tag language.Tag) language.Tag {
	base, _ := tag.Base()
	for _, candidate := range supported {
		if candidateBase, _ := candidate.Base(); candidateBase == base {
			return candidate
		}
	}
	return DefaultTag()
}
