package teamname

import "strings"

const (
	// NormalizeThreshold is the fuzzy score a name must exceed to map onto a
	// known canonical name.
	NormalizeThreshold = 0.85
	// MatchThreshold is the score FindBestMatch requires.
	MatchThreshold = 0.80
)

var (
	prefixTokens = []string{"fc ", "afc ", "ssc ", "as ", "fk ", "sc ", "rc ", "ud "}
	suffixTokens = []string{" fc", " afc", " ssc", " as", " cf"}
)

type Option func(*Canonicalizer)

// WithSimilarity swaps the fuzzy scoring function.
func WithSimilarity(fn Similarity) Option {
	return func(c *Canonicalizer) {
		if fn != nil {
			c.similarity = fn
		}
	}
}

// Canonicalizer maps provider spellings of team names to one canonical form.
// It never fails: unknown names come back title-cased. Safe for concurrent use.
type Canonicalizer struct {
	table      *AliasTable
	candidates []candidate
	similarity Similarity
}

type candidate struct {
	key       string
	canonical string
}

func NewCanonicalizer(table *AliasTable, opts ...Option) *Canonicalizer {
	if table == nil {
		table = DefaultAliasTable()
	}
	c := &Canonicalizer{
		table:      table,
		similarity: LevenshteinRatio,
	}
	for _, e := range table.entries {
		c.candidates = append(c.candidates, candidate{key: foldKey(e.Canonical), canonical: e.Canonical})
		for _, alias := range e.Aliases {
			c.candidates = append(c.candidates, candidate{key: foldKey(alias), canonical: e.Canonical})
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Normalize returns the canonical spelling of name. Lookup order: exact
// alias, alias after stripping club prefixes/suffixes, fuzzy match against
// every known spelling, then title case of the stripped name.
func (c *Canonicalizer) Normalize(name string) string {
	return c.normalize(name, 2)
}

func (c *Canonicalizer) normalize(name string, retries int) string {
	trimmed := collapseSpaces(name)
	if trimmed == "" {
		return ""
	}
	if canonical, ok := c.table.Lookup(trimmed); ok {
		return canonical
	}

	stripped := stripAffixes(strings.ToLower(trimmed))
	if canonical, ok := c.table.Lookup(stripped); ok {
		return canonical
	}

	if canonical, ok := c.fuzzy(foldKey(stripped)); ok {
		return canonical
	}

	titled := titleCase(stripped)
	// Title casing can expand letters ("ß" -> "Ss") into a new club token.
	if retries > 0 && strings.ToLower(titled) != stripped {
		return c.normalize(titled, retries-1)
	}
	return titled
}

func (c *Canonicalizer) fuzzy(key string) (string, bool) {
	best, bestScore := "", NormalizeThreshold
	for _, cand := range c.candidates {
		if score := c.similarity(key, cand.key); score > bestScore {
			best, bestScore = cand.canonical, score
		}
	}
	return best, best != ""
}

// FindBestMatch returns the candidate whose canonical form is most similar to
// name's, provided the score exceeds MatchThreshold. Ties keep the first.
func (c *Canonicalizer) FindBestMatch(name string, candidates []string) (string, bool) {
	if strings.TrimSpace(name) == "" || len(candidates) == 0 {
		return "", false
	}

	target := foldKey(c.Normalize(name))
	best, bestScore, found := "", MatchThreshold, false
	for _, cand := range candidates {
		score := c.similarity(target, foldKey(c.Normalize(cand)))
		if score > bestScore {
			best, bestScore, found = cand, score, true
		}
	}
	return best, found
}

// stripAffixes removes club tokens until none remain. An input made only of
// tokens is returned unchanged.
func stripAffixes(s string) string {
	for {
		next := s
		for _, p := range prefixTokens {
			if strings.HasPrefix(next, p) && len(next) > len(p) {
				next = strings.TrimSpace(next[len(p):])
			}
		}
		for _, suf := range suffixTokens {
			if strings.HasSuffix(next, suf) && len(next) > len(suf) {
				next = strings.TrimSpace(next[:len(next)-len(suf)])
			}
		}
		if next == s {
			return s
		}
		s = next
	}
}
