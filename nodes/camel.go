package nodes

import (
	"encoding/json"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CamelCaseString is a name normalized to camelCase.
type CamelCaseString string

// Camel normalizes s to camelCase.
func Camel(s string) CamelCaseString {
	return CamelCaseString(CamelCase(s))
}

func (s CamelCaseString) String() string { return string(s) }

// UnmarshalJSON normalizes decoded names.
func (s *CamelCaseString) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Camel(raw)
	return nil
}

// CamelCase splits s into words and joins them with the first word in lower
// case and every following word title-cased. Words break at any character
// that is not a letter or digit, between a lower-case letter or digit and an
// upper-case letter, and before the last upper-case letter of an acronym
// followed by a lower-case letter (`HTTPServer` is `http`, `Server`).
func CamelCase(s string) string {
	words := splitWords(s)
	if len(words) == 0 {
		return ""
	}
	lower := cases.Lower(language.Und)
	title := cases.Title(language.Und)
	var b strings.Builder
	b.WriteString(lower.String(words[0]))
	for _, w := range words[1:] {
		b.WriteString(title.String(w))
	}
	return b.String()
}

func splitWords(s string) []string {
	var words []string
	runes := []rune(s)
	start := -1
	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, string(runes[start:end]))
		}
		start = -1
	}
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		prev := runes[i-1]
		switch {
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			flush(i)
			start = i
		case unicode.IsUpper(r) && unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
			flush(i)
			start = i
		}
	}
	flush(len(runes))
	return words
}
