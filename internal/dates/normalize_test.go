package dates

import (
	"testing"
	"time"

	"coinbot/internal/domain"
)

func kindOf(t *testing.T, err error) domain.ErrorKind {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	return domain.AsToolError(err).Kind
}

func TestNormalize_Yesterday(t *testing.T) {
	q, err := Normalize("yesterday", PriceRules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Kind != Relative || q.OffsetDays != 1 {
		t.Errorf("expected Relative(1), got %+v", q)
	}
}

func TestNormalize_LastWeek(t *testing.T) {
	for _, text := range []string{"last week", "a week ago", "Last Week"} {
		q, err := Normalize(text, PriceRules)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", text, err)
		}
		if q.Kind != Relative || q.OffsetDays != 7 {
			t.Errorf("%q: expected Relative(7), got %+v", text, q)
		}
	}
}

func TestNormalize_DaysAgo(t *testing.T) {
	q, err := Normalize("14 days ago", PriceRules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Kind != Relative || q.OffsetDays != 14 {
		t.Errorf("expected Relative(14), got %+v", q)
	}
}

func TestNormalize_BareDaysAgo(t *testing.T) {
	// No leading number means one day back.
	q, err := Normalize("days ago", PriceRules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Kind != Relative || q.OffsetDays != 1 {
		t.Errorf("expected Relative(1), got %+v", q)
	}
}

func TestNormalize_BadDaysAgo(t *testing.T) {
	for _, text := range []string{"many days ago", "-3 days ago"} {
		_, err := Normalize(text, PriceRules)
		if kindOf(t, err) != domain.ErrUnparseableDate {
			t.Errorf("%q: expected unparseable date error, got %v", text, err)
		}
	}
}

func TestNormalize_SlashDate(t *testing.T) {
	q, err := Normalize("3/10/2025", PriceRules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Kind != Absolute || q.Year != 2025 || q.Month != time.March || q.Day != 10 {
		t.Errorf("expected 2025-03-10, got %+v", q)
	}
}

func TestNormalize_SlashDateTwoDigitYear(t *testing.T) {
	q, err := Normalize("3/10/25", PriceRules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Year != 2025 {
		t.Errorf("expected two-digit year mapped to 2025, got %d", q.Year)
	}
}

func TestNormalize_SlashDateInvalid(t *testing.T) {
	for _, text := range []string{"13/40/2025", "3/2025", "a/b/c"} {
		_, err := Normalize(text, PriceRules)
		if kindOf(t, err) != domain.ErrUnparseableDate {
			t.Errorf("%q: expected unparseable date error, got %v", text, err)
		}
	}
}

func TestNormalize_ISODate(t *testing.T) {
	q, err := Normalize("2025-03-10", PriceRules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Kind != Absolute || q.Year != 2025 || q.Month != time.March || q.Day != 10 {
		t.Errorf("expected 2025-03-10, got %+v", q)
	}
}

func TestNormalize_TextualDateOnlyForFearGreed(t *testing.T) {
	if _, err := Normalize("November 11 2024", PriceRules); err == nil {
		t.Error("price rules should reject textual month dates")
	}

	q, err := Normalize("November 11 2024", FearGreedRules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Year != 2024 || q.Month != time.November || q.Day != 11 {
		t.Errorf("expected 2024-11-11, got %+v", q)
	}

	if _, err := Normalize("Nov 11 2024", FearGreedRules); err != nil {
		t.Errorf("abbreviated month should parse: %v", err)
	}
}

func TestNormalize_Unrecognized(t *testing.T) {
	_, err := Normalize("the day the towers fell", PriceRules)
	if kindOf(t, err) != domain.ErrUnparseableDate {
		t.Fatalf("expected unparseable date error, got %v", err)
	}
}

func TestResolve_RelativeAtMidnight(t *testing.T) {
	ref := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	got := Query{Kind: Relative, OffsetDays: 1}.Resolve(ref)
	want := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("yesterday from %v: got %v, want %v", ref, got, want)
	}
}

func TestResolve_AbsoluteKeepsTimeOfDay(t *testing.T) {
	ref := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)
	got := Query{Kind: Absolute, Year: 2025, Month: time.March, Day: 10}.Resolve(ref)
	if got.Hour() != 14 || got.Minute() != 30 {
		t.Errorf("absolute resolve should keep reference time-of-day, got %v", got)
	}
	if got.Year() != 2025 || got.Month() != time.March || got.Day() != 10 {
		t.Errorf("wrong date: %v", got)
	}
}

func TestClassify_FutureDate(t *testing.T) {
	ref := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	resolved := time.Date(2025, 6, 16, 1, 0, 0, 0, time.UTC)
	err := Classify(resolved, ref, 30)
	if kindOf(t, err) != domain.ErrFutureDate {
		t.Fatalf("expected future date error, got %v", err)
	}
}

func TestClassify_SameDayNotFuture(t *testing.T) {
	// Later time-of-day on the reference day is still today, not future.
	ref := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)
	resolved := time.Date(2025, 6, 15, 20, 0, 0, 0, time.UTC)
	if err := Classify(resolved, ref, 30); err != nil {
		t.Errorf("same calendar day should pass: %v", err)
	}
}

func TestClassify_RetentionFloors(t *testing.T) {
	ref := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	resolved := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) // 97 days back

	err := Classify(resolved, ref, 30)
	if kindOf(t, err) != domain.ErrOutOfRange {
		t.Fatalf("97 days against 30-day floor: expected out of range, got %v", err)
	}

	if err := Classify(resolved, ref, 500); err != nil {
		t.Errorf("97 days against 500-day floor should pass: %v", err)
	}
}

func TestClassify_ExactFloorBoundary(t *testing.T) {
	ref := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	resolved := ref.AddDate(0, 0, -30)
	if err := Classify(resolved, ref, 30); err != nil {
		t.Errorf("age equal to the floor should pass: %v", err)
	}
	if err := Classify(ref.AddDate(0, 0, -31), ref, 30); err == nil {
		t.Error("age one past the floor should fail")
	}
}

func TestAgeDays(t *testing.T) {
	ref := time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC)
	resolved := time.Date(2025, 6, 14, 0, 1, 0, 0, time.UTC)
	if got := AgeDays(resolved, ref); got != 1 {
		t.Errorf("expected 1 calendar day, got %d", got)
	}
}
