package model

import (
    "testing"
    "time"
)

func mustDate(t *testing.T, s string) time.Time {
    t.Helper()
    d, err := ParseDate(s)
    if err != nil {
        t.Fatalf("parse %q: %v", s, err)
    }
    return d
}

func TestParseDateRejectsGarbage(t *testing.T) {
    for _, s := range []string{"", "2026-13-01", "2026/01/02", "yesterday"} {
        if _, err := ParseDate(s); err == nil {
            t.Errorf("expected error for %q", s)
        }
    }
}

func TestDateTruncatesToMidnightUTC(t *testing.T) {
    in := time.Date(2026, 9, 10, 17, 45, 3, 12, time.FixedZone("X", 3*3600))
    got := Date(in)
    if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
        t.Fatalf("expected midnight, got %v", got)
    }
    if got.Location() != time.UTC {
        t.Fatalf("expected UTC, got %v", got.Location())
    }
}

func TestStayRangeNightsAndDates(t *testing.T) {
    r := StayRange{From: mustDate(t, "2026-09-10"), To: mustDate(t, "2026-09-13")}
    if r.Nights() != 3 {
        t.Fatalf("expected 3 nights, got %d", r.Nights())
    }
    dates := r.Dates()
    if len(dates) != 3 {
        t.Fatalf("expected 3 dates, got %d", len(dates))
    }
    // End-exclusive: the check-out date itself is never occupied.
    last := dates[len(dates)-1]
    if !last.Equal(mustDate(t, "2026-09-12")) {
        t.Fatalf("expected last occupied night 2026-09-12, got %v", last)
    }
}

func TestStayRangeZeroNights(t *testing.T) {
    d := mustDate(t, "2026-09-10")
    r := StayRange{From: d, To: d}
    if r.Nights() != 0 {
        t.Fatalf("expected 0 nights, got %d", r.Nights())
    }
    if len(r.Dates()) != 0 {
        t.Fatalf("expected no dates, got %v", r.Dates())
    }
}

func TestStayRangeOverlaps(t *testing.T) {
    base := StayRange{From: mustDate(t, "2026-09-10"), To: mustDate(t, "2026-09-13")}
    cases := []struct {
        name  string
        other StayRange
        want  bool
    }{
        {"identical", base, true},
        {"inside", StayRange{From: mustDate(t, "2026-09-11"), To: mustDate(t, "2026-09-12")}, true},
        {"straddles start", StayRange{From: mustDate(t, "2026-09-08"), To: mustDate(t, "2026-09-11")}, true},
        {"straddles end", StayRange{From: mustDate(t, "2026-09-12"), To: mustDate(t, "2026-09-15")}, true},
        // Back-to-back stays share a turnover date but not a night.
        {"checkout equals checkin", StayRange{From: mustDate(t, "2026-09-13"), To: mustDate(t, "2026-09-15")}, false},
        {"checkin equals checkout", StayRange{From: mustDate(t, "2026-09-08"), To: mustDate(t, "2026-09-10")}, false},
        {"disjoint", StayRange{From: mustDate(t, "2026-09-20"), To: mustDate(t, "2026-09-22")}, false},
    }
    for _, tc := range cases {
        if got := base.Overlaps(tc.other); got != tc.want {
            t.Errorf("%s: got %v want %v", tc.name, got, tc.want)
        }
        if got := tc.other.Overlaps(base); got != tc.want {
            t.Errorf("%s (reversed): got %v want %v", tc.name, got, tc.want)
        }
    }
}

func TestStayRangeContains(t *testing.T) {
    r := StayRange{From: mustDate(t, "2026-09-10"), To: mustDate(t, "2026-09-13")}
    if !r.Contains(mustDate(t, "2026-09-10")) || !r.Contains(mustDate(t, "2026-09-12")) {
        t.Fatal("expected occupied nights to be contained")
    }
    if r.Contains(mustDate(t, "2026-09-13")) {
        t.Fatal("check-out date must not be contained")
    }
    if r.Contains(mustDate(t, "2026-09-09")) {
        t.Fatal("date before check-in must not be contained")
    }
}
