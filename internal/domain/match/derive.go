package match

import "strings"

// DeriveFields fills result, goal and xG aggregates from the base fields.
// Aggregates whose inputs are incomplete are cleared.
func DeriveFields(c *Canonical) {
	if c == nil {
		return
	}

	c.Result = ""
	c.TotalGoals = nil
	c.GoalDifference = nil
	if c.HasScore() {
		h, a := *c.HomeScore, *c.AwayScore
		total, diff := h+a, h-a
		c.TotalGoals = &total
		c.GoalDifference = &diff
		switch {
		case h > a:
			c.Result = ResultHome
		case h < a:
			c.Result = ResultAway
		default:
			c.Result = ResultDraw
		}
	}

	c.TotalXG = nil
	c.XGDifference = nil
	if c.HasXG() {
		total, diff := *c.HomeXG+*c.AwayXG, *c.HomeXG-*c.AwayXG
		c.TotalXG = &total
		c.XGDifference = &diff
	}
}

// FromRecord builds a canonical record from merged field values. Known
// numeric fields that fail conversion are kept verbatim in Extra.
func FromRecord(key string, rec RawRecord, sources []string) Canonical {
	c := Canonical{
		MatchKey: key,
		Sources:  append([]string(nil), sources...),
	}

	for field, value := range rec {
		if IsMissing(value) {
			continue
		}
		switch field {
		case FieldMatchKey, FieldSources, FieldResult, FieldTotalGoals, FieldGoalDifference, FieldTotalXG, FieldXGDifference:
			// recomputed or supplied by the caller
		case FieldMatchID:
			c.MatchID = ToText(value)
		case FieldDate:
			if day, ok := ParseDate(value); ok {
				c.Date = day
			} else {
				c.setExtra(field, value)
			}
		case FieldHomeTeam:
			c.HomeTeam = ToText(value)
		case FieldAwayTeam:
			c.AwayTeam = ToText(value)
		case FieldCompetition:
			c.Competition = ToText(value)
		case FieldSeason:
			c.Season = ToText(value)
		case FieldHomeScore:
			c.HomeScore = c.intField(field, value)
		case FieldAwayScore:
			c.AwayScore = c.intField(field, value)
		case FieldHomeXG:
			c.HomeXG = c.floatField(field, value)
		case FieldAwayXG:
			c.AwayXG = c.floatField(field, value)
		case FieldHomeOdds:
			c.HomeOdds = c.floatField(field, value)
		case FieldDrawOdds:
			c.DrawOdds = c.floatField(field, value)
		case FieldAwayOdds:
			c.AwayOdds = c.floatField(field, value)
		default:
			c.setExtra(field, value)
		}
	}

	DeriveFields(&c)
	return c
}

// IsXGField reports whether a field carries expected-goals data.
func IsXGField(field string) bool {
	return strings.Contains(strings.ToLower(field), "xg")
}

func (c *Canonical) intField(field string, value any) *int {
	if n, ok := ToInt(value); ok {
		return &n
	}
	c.setExtra(field, value)
	return nil
}

func (c *Canonical) floatField(field string, value any) *float64 {
	if f, ok := ToFloat(value); ok {
		return &f
	}
	c.setExtra(field, value)
	return nil
}

func (c *Canonical) setExtra(field string, value any) {
	if c.Extra == nil {
		c.Extra = make(map[string]any)
	}
	c.Extra[field] = value
}
