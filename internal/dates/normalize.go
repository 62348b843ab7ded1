// Package dates turns free-text date expressions into concrete query dates.
// The grammar is a fixed, enumerable list of phrase patterns, not general
// NLP: the rule table below is checked in order and the first match wins.
package dates

import (
	"strconv"
	"strings"
	"time"

	"coinbot/internal/domain"
)

// Kind discriminates the two query variants.
type Kind int

const (
	Relative Kind = iota // offset in calendar days back from the reference
	Absolute             // explicit calendar date
)

// Query is a normalized date expression.
type Query struct {
	Kind       Kind
	OffsetDays int
	Year       int
	Month      time.Month
	Day        int
}

// Resolve anchors the query to a reference instant. Relative queries
// subtract calendar days; absolute queries keep the reference's
// time-of-day so the upstream search window lands mid-day rather than at
// midnight. Everything is computed in UTC to avoid day-boundary drift.
func (q Query) Resolve(ref time.Time) time.Time {
	ref = ref.UTC()
	if q.Kind == Relative {
		return ref.AddDate(0, 0, -q.OffsetDays)
	}
	return time.Date(q.Year, q.Month, q.Day, ref.Hour(), ref.Minute(), 0, 0, time.UTC)
}

// Rule is one pattern/resolver pair. Match reports whether the rule claims
// the text; a claimed match may still fail with an unparseable-date error
// (e.g. "many days ago").
type Rule struct {
	Name  string
	Match func(text string) (Query, bool, error)
}

// PriceRules is the rule set for price lookups, in priority order.
var PriceRules = []Rule{
	{Name: "yesterday", Match: matchYesterday},
	{Name: "last-week", Match: matchLastWeek},
	{Name: "days-ago", Match: matchDaysAgo},
	{Name: "slash-date", Match: matchSlashDate},
	{Name: "iso-date", Match: matchISODate},
}

// FearGreedRules additionally accepts textual month-day-year forms
// ("November 11 2024"), which only the fear-greed path recognizes.
var FearGreedRules = append(append([]Rule{}, PriceRules...), Rule{
	Name:  "textual-date",
	Match: matchTextualDate,
})

// Normalize runs text through the rule table and returns the first match.
// Unclaimed text yields an unparseable-date error carrying the original
// expression so the user sees what was rejected.
func Normalize(text string, rules []Rule) (Query, error) {
	trimmed := strings.TrimSpace(text)
	for _, r := range rules {
		q, ok, err := r.Match(trimmed)
		if err != nil {
			return Query{}, err
		}
		if ok {
			return q, nil
		}
	}
	return Query{}, domain.NewToolError(domain.ErrUnparseableDate,
		"could not understand the date format: %s. Use YYYY-MM-DD or MM/DD/YYYY.", text)
}

// Classify validates a resolved date against the reference instant and a
// function-specific retention floor (in days). Dates after the reference
// date are future errors regardless of time-of-day; dates older than the
// floor are out of range.
func Classify(resolved, ref time.Time, floorDays int) error {
	resolved = resolved.UTC()
	ref = ref.UTC()
	rd := dateOnly(resolved)
	cd := dateOnly(ref)
	if rd.After(cd) {
		return domain.NewToolError(domain.ErrFutureDate,
			"the date %s is in the future", resolved.Format("2006-01-02"))
	}
	age := int(cd.Sub(rd).Hours() / 24)
	if age > floorDays {
		return domain.NewToolError(domain.ErrOutOfRange,
			"data is only available for the past %d days; cannot fetch data for %s",
			floorDays, resolved.Format("2006-01-02"))
	}
	return nil
}

// AgeDays returns whole calendar days between a resolved date and the
// reference, UTC date parts only.
func AgeDays(resolved, ref time.Time) int {
	return int(dateOnly(ref.UTC()).Sub(dateOnly(resolved.UTC())).Hours() / 24)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func matchYesterday(text string) (Query, bool, error) {
	if strings.EqualFold(text, "yesterday") {
		return Query{Kind: Relative, OffsetDays: 1}, true, nil
	}
	return Query{}, false, nil
}

func matchLastWeek(text string) (Query, bool, error) {
	lower := strings.ToLower(text)
	if lower == "last week" || lower == "a week ago" {
		return Query{Kind: Relative, OffsetDays: 7}, true, nil
	}
	return Query{}, false, nil
}

// matchDaysAgo handles "<N> days ago". A bare "days ago" with no leading
// number means one day.
func matchDaysAgo(text string) (Query, bool, error) {
	lower := strings.ToLower(text)
	idx := strings.Index(lower, "days ago")
	if idx < 0 {
		return Query{}, false, nil
	}
	prefix := strings.TrimSpace(lower[:idx])
	if prefix == "" {
		return Query{Kind: Relative, OffsetDays: 1}, true, nil
	}
	n, err := strconv.Atoi(prefix)
	if err != nil || n < 0 {
		return Query{}, true, domain.NewToolError(domain.ErrUnparseableDate,
			"could not understand the date format: %s", text)
	}
	return Query{Kind: Relative, OffsetDays: n}, true, nil
}

// matchSlashDate handles MM/DD/YYYY. Two-digit years map to 2000+YY.
func matchSlashDate(text string) (Query, bool, error) {
	if !strings.Contains(text, "/") {
		return Query{}, false, nil
	}
	parts := strings.Split(text, "/")
	if len(parts) != 3 {
		return Query{}, true, domain.NewToolError(domain.ErrUnparseableDate,
			"invalid date format: %s. Use MM/DD/YYYY.", text)
	}
	month, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	day, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	year, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err1 != nil || err2 != nil || err3 != nil {
		return Query{}, true, domain.NewToolError(domain.ErrUnparseableDate,
			"invalid date values in: %s", text)
	}
	if year >= 0 && year < 100 {
		year += 2000
	}
	if !validDate(year, month, day) {
		return Query{}, true, domain.NewToolError(domain.ErrUnparseableDate,
			"invalid date values in: %s", text)
	}
	return Query{Kind: Absolute, Year: year, Month: time.Month(month), Day: day}, true, nil
}

// matchISODate handles YYYY-MM-DD, exactly 10 characters.
func matchISODate(text string) (Query, bool, error) {
	if len(text) != 10 || !strings.Contains(text, "-") {
		return Query{}, false, nil
	}
	t, err := time.Parse("2006-01-02", text)
	if err != nil {
		return Query{}, true, domain.NewToolError(domain.ErrUnparseableDate,
			"invalid date format: %s. Use YYYY-MM-DD.", text)
	}
	return Query{Kind: Absolute, Year: t.Year(), Month: t.Month(), Day: t.Day()}, true, nil
}

// matchTextualDate handles "November 11 2024" and "Nov 11 2024".
func matchTextualDate(text string) (Query, bool, error) {
	for _, layout := range []string{"January 2 2006", "Jan 2 2006"} {
		if t, err := time.Parse(layout, text); err == nil {
			return Query{Kind: Absolute, Year: t.Year(), Month: t.Month(), Day: t.Day()}, true, nil
		}
	}
	return Query{}, false, nil
}

func validDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && t.Month() == time.Month(month) && t.Day() == day
}
