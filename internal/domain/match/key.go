package match

import "github.com/riskibarqy/football-data-pipeline/internal/domain/teamname"

// UnknownDate replaces the date component of keys for undated records.
// Undated records of the same pairing share a key.
const UnknownDate = "unknown"

// KeyBuilder derives the source-independent identity of a match.
type KeyBuilder struct {
	names *teamname.Canonicalizer
}

func NewKeyBuilder(names *teamname.Canonicalizer) *KeyBuilder {
	if names == nil {
		names = teamname.NewCanonicalizer(nil)
	}
	return &KeyBuilder{names: names}
}

// Build returns "<YYYY-MM-DD|unknown>_<team>_vs_<team>" with both names
// canonicalized and sorted, so swapping home and away yields the same key.
func (b *KeyBuilder) Build(date any, home, away string) string {
	day := UnknownDate
	if t, ok := ParseDate(date); ok {
		day = t.Format(DateLayout)
	}

	first, second := b.names.Normalize(home), b.names.Normalize(away)
	if second < first {
		first, second = second, first
	}
	return day + "_" + first + "_vs_" + second
}
