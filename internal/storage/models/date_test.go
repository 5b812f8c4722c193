package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-12-25")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if d.String() != "2025-12-25" {
		t.Errorf("round trip mismatch: got %s", d)
	}

	for _, bad := range []string{"", "2025-13-01", "25-12-2025", "2025/12/25", "tomorrow"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) should fail", bad)
		}
	}
}

func TestDateNextCrossesMonthBoundary(t *testing.T) {
	d := NewDate(2025, time.December, 31)
	if got := d.Next().String(); got != "2026-01-01" {
		t.Errorf("Next after year end: got %s, want 2026-01-01", got)
	}
}

func TestExpandRangeSingleDay(t *testing.T) {
	day := NewDate(2025, time.December, 25)
	days := ExpandRange(day, day)
	if len(days) != 1 || !days[0].Equal(day) {
		t.Fatalf("single-day range: got %v", days)
	}
}

func TestExpandRangeInclusive(t *testing.T) {
	start := NewDate(2025, time.December, 24)
	end := NewDate(2025, time.December, 26)

	days := ExpandRange(start, end)
	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}
	want := []string{"2025-12-24", "2025-12-25", "2025-12-26"}
	for i, d := range days {
		if d.String() != want[i] {
			t.Errorf("day %d: got %s, want %s", i, d, want[i])
		}
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2025, time.December, 25)

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `"2025-12-25"` {
		t.Errorf("marshal: got %s", data)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !back.Equal(d) {
		t.Errorf("unmarshal: got %s, want %s", back, d)
	}
}

func TestRentalPeriodLabel(t *testing.T) {
	if got := RentalPeriodLabel(PeriodOneNight); got != "1박 2일 (15,000원)" {
		t.Errorf("known period: got %q", got)
	}
	// Unknown values are echoed back, matching the submission contract.
	if got := RentalPeriodLabel("weekly"); got != "weekly" {
		t.Errorf("unknown period: got %q", got)
	}
}
