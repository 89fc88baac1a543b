package match

import (
	"testing"
	"time"
)

func TestKeyBuilder_Build(t *testing.T) {
	t.Parallel()

	b := NewKeyBuilder(nil)
	cases := []struct {
		name string
		date any
		home string
		away string
		want string
	}{
		{name: "string date", date: "2024-03-09", home: "Arsenal", away: "Chelsea", want: "2024-03-09_Arsenal_vs_Chelsea"},
		{name: "aliases canonicalized", date: "2024-03-09T15:00:00Z", home: "Man Utd", away: "Spurs", want: "2024-03-09_Manchester United_vs_Tottenham Hotspur"},
		{name: "time value", date: time.Date(2024, 3, 9, 20, 45, 0, 0, time.UTC), home: "Inter", away: "Milan", want: "2024-03-09_AC Milan_vs_Inter Milan"},
		{name: "missing date", date: nil, home: "Roma", away: "Lazio", want: "unknown_AS Roma_vs_SS Lazio"},
		{name: "unparseable date", date: "next tuesday", home: "Roma", away: "Lazio", want: "unknown_AS Roma_vs_SS Lazio"},
		{name: "offset normalized to UTC day", date: "2024-03-09T23:30:00-03:00", home: "Arsenal", away: "Chelsea", want: "2024-03-10_Arsenal_vs_Chelsea"},
	}

	for _, tc := range cases {
		if got := b.Build(tc.date, tc.home, tc.away); got != tc.want {
			t.Fatalf("%s: Build=%q want %q", tc.name, got, tc.want)
		}
	}
}

func TestKeyBuilder_SymmetricAndSpellingInsensitive(t *testing.T) {
	t.Parallel()

	b := NewKeyBuilder(nil)
	a := b.Build("2024-03-09", "Manchester United", "Chelsea")
	if swapped := b.Build("2024-03-09", "Chelsea", "Manchester United"); swapped != a {
		t.Fatalf("key not symmetric: %q vs %q", a, swapped)
	}
	if alias := b.Build("2024-03-09 17:30:00", "Chelsea FC", "Man Utd"); alias != a {
		t.Fatalf("aliases produced different key: %q vs %q", a, alias)
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	want := time.Date(2023, 8, 11, 0, 0, 0, 0, time.UTC)
	for _, in := range []any{
		"2023-08-11",
		"2023-08-11 19:00:00",
		"2023-08-11T19:00:00Z",
		"2023-08-11T19:00:00.123Z",
		"11/08/2023",
		time.Date(2023, 8, 11, 19, 0, 0, 0, time.UTC),
	} {
		got, ok := ParseDate(in)
		if !ok || !got.Equal(want) {
			t.Fatalf("ParseDate(%v)=%v,%v want %v", in, got, ok, want)
		}
	}

	offset := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for _, in := range []any{
		"2024-05-01T01:00:00+02:00",
		"2024-05-01T23:30:00-05:00",
		time.Date(2024, 5, 1, 1, 0, 0, 0, time.FixedZone("CEST", 2*60*60)),
	} {
		got, ok := ParseDate(in)
		if !ok || !got.Equal(offset) {
			t.Fatalf("ParseDate(%v)=%v,%v want provider-local day %v", in, got, ok, offset)
		}
	}

	for _, in := range []any{nil, "", "  ", "yesterday", 20230811, time.Time{}, (*time.Time)(nil)} {
		if _, ok := ParseDate(in); ok {
			t.Fatalf("ParseDate(%v) should fail", in)
		}
	}
}
