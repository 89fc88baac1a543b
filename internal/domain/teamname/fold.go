package teamname

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// stripAccents removes combining marks ("Atlético" -> "Atletico").
func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// foldKey is the lookup form of a spelling: lower case, single spaces, no
// accents.
func foldKey(s string) string {
	return stripAccents(strings.ToLower(collapseSpaces(s)))
}

func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}
