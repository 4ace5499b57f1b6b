// Package timerange turns free-form time expressions into absolute UTC
// instants.
//
// Accepted forms, tried in order:
//
//	1700000000            UNIX epoch seconds
//	now, now-1d, now-2h/h engine date math
//	3 days ago, an hour ago, today, yesterday
//	2024-05-01T10:00:00Z  anything github.com/araddon/dateparse understands (UTC assumed)
package timerange

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/jonesrussell/north-cloud/query-api/internal/domain"
)

// Defaults are the expressions used for a missing end of the range.
type Defaults struct {
	From string
	To   string
}

var (
	// AggregationDefaults cover the last day.
	AggregationDefaults = Defaults{From: "1 day ago", To: "now"}
	// DocumentDefaults cover all time.
	DocumentDefaults = Defaults{From: "1970-01-01", To: "now"}
)

// Range is an inclusive time window. Start after End is allowed and simply
// matches nothing.
type Range struct {
	Start time.Time
	End   time.Time
}

// StartMillis returns the start as epoch milliseconds.
func (r Range) StartMillis() int64 { return r.Start.UnixMilli() }

// EndMillis returns the end as epoch milliseconds.
func (r Range) EndMillis() int64 { return r.End.UnixMilli() }

// Seconds returns both ends as epoch seconds, rounded toward negative infinity.
func (r Range) Seconds() [2]int64 {
	return [2]int64{floorDiv(r.StartMillis(), 1000), floorDiv(r.EndMillis(), 1000)}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Resolve parses from and to, substituting defaults for empty values.
func Resolve(from, to string, defaults Defaults, now time.Time) (Range, error) {
	if strings.TrimSpace(from) == "" {
		from = defaults.From
	}
	if strings.TrimSpace(to) == "" {
		to = defaults.To
	}

	start, err := Parse(from, now)
	if err != nil {
		return Range{}, err
	}
	end, err := Parse(to, now)
	if err != nil {
		return Range{}, err
	}
	return Range{Start: start, End: end}, nil
}

var (
	digitsRe   = regexp.MustCompile(`^\d+$`)
	mathOpRe   = regexp.MustCompile(`^([+-])(\d+)([yMwdhHms])`)
	roundingRe = regexp.MustCompile(`^/([yMwdhHms])$`)
	agoRe      = regexp.MustCompile(`(?i)^(\d+|an?)\s+(second|minute|hour|day|week|month|year)s?\s+ago$`)
)

// Parse resolves one expression relative to now. The result is always UTC.
func Parse(value string, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(value)
	now = now.UTC()

	switch {
	case s == "":
		return time.Time{}, domain.ParseErr("empty time expression")

	case digitsRe.MatchString(s):
		secs, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, domain.ParseErr("epoch seconds %q out of range", s)
		}
		return time.Unix(secs, 0).UTC(), nil

	case strings.HasPrefix(strings.ToLower(s), "now"):
		return parseDateMath(s, now)
	}

	switch strings.ToLower(s) {
	case "today":
		return truncate(now, 'd'), nil
	case "yesterday":
		return truncate(now, 'd').AddDate(0, 0, -1), nil
	}

	if m := agoRe.FindStringSubmatch(s); m != nil {
		n := 1
		if amount := strings.ToLower(m[1]); amount != "a" && amount != "an" {
			var err error
			if n, err = strconv.Atoi(amount); err != nil {
				return time.Time{}, domain.ParseErr("invalid amount in %q", s)
			}
		}
		return shift(now, -n, unitFromWord(strings.ToLower(m[2]))), nil
	}

	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, domain.ParseErr("unparseable time expression %q", value)
	}
	return t.UTC(), nil
}

func parseDateMath(s string, now time.Time) (time.Time, error) {
	t := now
	rest := s[len("now"):]

	for rest != "" {
		if m := mathOpRe.FindStringSubmatch(rest); m != nil {
			n, err := strconv.Atoi(m[2])
			if err != nil {
				return time.Time{}, domain.ParseErr("invalid amount in %q", s)
			}
			if m[1] == "-" {
				n = -n
			}
			t = shift(t, n, m[3][0])
			rest = rest[len(m[0]):]
			continue
		}
		if m := roundingRe.FindStringSubmatch(rest); m != nil {
			return truncate(t, m[1][0]), nil
		}
		return time.Time{}, domain.ParseErr("invalid date math %q", s)
	}
	return t, nil
}

func unitFromWord(word string) byte {
	switch word {
	case "second":
		return 's'
	case "minute":
		return 'm'
	case "hour":
		return 'h'
	case "day":
		return 'd'
	case "week":
		return 'w'
	case "month":
		return 'M'
	default:
		return 'y'
	}
}

func shift(t time.Time, n int, unit byte) time.Time {
	switch unit {
	case 'y':
		return t.AddDate(n, 0, 0)
	case 'M':
		return t.AddDate(0, n, 0)
	case 'w':
		return t.AddDate(0, 0, 7*n)
	case 'd':
		return t.AddDate(0, 0, n)
	case 'h', 'H':
		return t.Add(time.Duration(n) * time.Hour)
	case 'm':
		return t.Add(time.Duration(n) * time.Minute)
	default:
		return t.Add(time.Duration(n) * time.Second)
	}
}

// truncate rounds t down to the start of unit. Weeks start on Monday.
func truncate(t time.Time, unit byte) time.Time {
	y, mo, d := t.Date()
	switch unit {
	case 'y':
		return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	case 'M':
		return time.Date(y, mo, 1, 0, 0, 0, 0, time.UTC)
	case 'w':
		offset := (int(t.Weekday()) + 6) % 7
		return time.Date(y, mo, d-offset, 0, 0, 0, 0, time.UTC)
	case 'd':
		return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
	case 'h', 'H':
		return t.Truncate(time.Hour)
	case 'm':
		return t.Truncate(time.Minute)
	default:
		return t.Truncate(time.Second)
	}
}
