// Package textfilter post-processes narration text to match a world's
// content rating. Narration comes from a model; the rating promise on
// a world file has to hold regardless of what the model returns.
package textfilter

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Words softened for G and PG13 rated worlds.
var replacements = map[string]string{
	"fuck":       "fudge",
	"shit":       "shoot",
	"damn":       "dang",
	"hell":       "heck",
	"ass":        "butt",
	"bitch":      "jerk",
	"bastard":    "scoundrel",
	"crap":       "crud",
	"asshole":    "jerk",
	"bullshit":   "baloney",
	"goddamn":    "gosh-dang",
	"dickhead":   "jerk",
	"prick":      "jerk",
	"piss":       "ticked",
	"motherfucker": "mother-trucker",
}

var wordRegexes = buildRegexes()

func buildRegexes() map[string]*regexp.Regexp {
	regexes := make(map[string]*regexp.Regexp, len(replacements))
	for word := range replacements {
		regexes[word] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
	}
	return regexes
}

// Apply filters text according to the world's rating. Ratings "R" and
// above pass through untouched; everything else gets softened.
func Apply(text, rating string) string {
	switch strings.ToUpper(rating) {
	case "R", "M", "ADULT":
		return text
	default:
		return Soften(text)
	}
}

// Soften replaces strong language with mild alternatives, preserving
// the case pattern of each match.
func Soften(text string) string {
	result := text
	for word, replacement := range replacements {
		result = wordRegexes[word].ReplaceAllStringFunc(result, func(match string) string {
			return preserveCase(match, replacement)
		})
	}
	return result
}

// preserveCase applies the case shape of the matched word to its
// replacement.
func preserveCase(original, replacement string) string {
	if original == "" {
		return replacement
	}
	if strings.ToUpper(original) == original {
		return strings.ToUpper(replacement)
	}
	if strings.ToLower(original) == original {
		return replacement
	}
	titleCaser := cases.Title(language.English)
	if titleCaser.String(strings.ToLower(original)) == original {
		return titleCaser.String(replacement)
	}

	out := make([]rune, 0, len(replacement))
	origRunes := []rune(original)
	for i, r := range replacement {
		if i < len(origRunes) && unicode.IsUpper(origRunes[i]) {
			out = append(out, unicode.ToUpper(r))
		} else {
			out = append(out, unicode.ToLower(r))
		}
	}
	return string(out)
}
