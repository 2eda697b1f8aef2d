package nlp

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Dotless i has no decomposition, fold it by hand.
var letterFolds = strings.NewReplacer("ı", "i")

// Normalize lowercases text, strips combining marks and punctuation and
// collapses whitespace. Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ToLower(text)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, text)
	if err != nil {
		result = text
	}

	result = letterFolds.Replace(result)

	result = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, result)

	return strings.Join(strings.Fields(result), " ")
}

// Slug turns a display name into its URL path form, "Kahramanmaraş" -> "kahramanmaras".
func Slug(text string) string {
	return strings.ReplaceAll(Normalize(text), " ", "-")
}

func containsToken(text, token string) bool {
	for _, field := range strings.Fields(text) {
		if field == token {
			return true
		}
	}
	return false
}
