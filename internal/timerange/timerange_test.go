package timerange_test

import (
	"testing"
	"time"

	"github.com/jonesrussell/north-cloud/query-api/internal/domain"
	"github.com/jonesrussell/north-cloud/query-api/internal/timerange"
)

// Wednesday.
var fixedNow = time.Date(2024, time.May, 15, 13, 45, 30, 0, time.UTC)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"epoch seconds", "1700000000", time.Unix(1700000000, 0).UTC()},
		{"epoch zero", "0", time.Unix(0, 0).UTC()},
		{"now", "now", fixedNow},
		{"date math minus day", "now-1d", fixedNow.AddDate(0, 0, -1)},
		{"date math chained", "now-1d+2h", fixedNow.AddDate(0, 0, -1).Add(2 * time.Hour)},
		{"date math month", "now-1M", fixedNow.AddDate(0, -1, 0)},
		{"date math rounding", "now/d", time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC)},
		{"date math week rounding", "now/w", time.Date(2024, time.May, 13, 0, 0, 0, 0, time.UTC)},
		{"relative plural", "3 days ago", fixedNow.AddDate(0, 0, -3)},
		{"relative article", "a day ago", fixedNow.AddDate(0, 0, -1)},
		{"relative hour", "an hour ago", fixedNow.Add(-time.Hour)},
		{"relative mixed case", "2 Weeks Ago", fixedNow.AddDate(0, 0, -14)},
		{"today", "today", time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC)},
		{"yesterday", "yesterday", time.Date(2024, time.May, 14, 0, 0, 0, 0, time.UTC)},
		{"iso with zone", "2022-01-01T00:00:00Z", time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{"iso offset normalised", "2022-01-01T02:00:00+02:00", time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{"date only", "1970-01-01", time.Unix(0, 0).UTC()},
		{"surrounding space", "  1700000000 ", time.Unix(1700000000, 0).UTC()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := timerange.Parse(tt.input, fixedNow)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if got.Location() != time.UTC {
				t.Errorf("Parse(%q) location = %v, want UTC", tt.input, got.Location())
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"soonish", "now-1x", "now+", "99999999999999999999"} {
		_, err := timerange.Parse(input, fixedNow)
		if err == nil {
			t.Errorf("Parse(%q) expected error", input)
			continue
		}
		if kind := domain.KindOf(err); kind != domain.KindParse {
			t.Errorf("Parse(%q) kind = %s, want ParseError", input, kind)
		}
	}
}

func TestResolve_Defaults(t *testing.T) {
	t.Parallel()

	r, err := timerange.Resolve("", "", timerange.AggregationDefaults, fixedNow)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !r.Start.Equal(fixedNow.AddDate(0, 0, -1)) || !r.End.Equal(fixedNow) {
		t.Errorf("Resolve() = %v..%v, want last day", r.Start, r.End)
	}

	r, err = timerange.Resolve("", "", timerange.DocumentDefaults, fixedNow)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if r.StartMillis() != 0 {
		t.Errorf("document default start = %d ms, want 0", r.StartMillis())
	}
}

func TestResolve_SuppliedButInvalid(t *testing.T) {
	t.Parallel()

	if _, err := timerange.Resolve("garbage", "now", timerange.AggregationDefaults, fixedNow); err == nil {
		t.Fatal("Resolve() expected error for unparseable from")
	}
}

func TestRange_InvertedAllowed(t *testing.T) {
	t.Parallel()

	r, err := timerange.Resolve("now", "now-1d", timerange.AggregationDefaults, fixedNow)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !r.Start.After(r.End) {
		t.Errorf("expected inverted range to be preserved")
	}
}

func TestRange_Seconds(t *testing.T) {
	t.Parallel()

	r := timerange.Range{
		Start: time.UnixMilli(1_500).UTC(),
		End:   time.UnixMilli(-1_500).UTC(),
	}
	got := r.Seconds()
	if got != [2]int64{1, -2} {
		t.Errorf("Seconds() = %v, want [1 -2]", got)
	}
}
