package models

import (
	"testing"
	"time"
)

func TestFormatSlotDate(t *testing.T) {
	d := time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC)
	if got := FormatSlotDate(d); got != "5_6_2025" {
		t.Errorf("FormatSlotDate = %q, want %q", got, "5_6_2025")
	}
	// Components must not be zero padded.
	d = time.Date(2026, time.January, 9, 0, 0, 0, 0, time.UTC)
	if got := FormatSlotDate(d); got != "9_1_2026" {
		t.Errorf("FormatSlotDate = %q, want %q", got, "9_1_2026")
	}
}

func TestFormatSlotTime(t *testing.T) {
	cases := []struct {
		hour, min int
		want      string
	}{
		{10, 0, "10:00 AM"},
		{10, 30, "10:30 AM"},
		{12, 0, "12:00 PM"},
		{20, 30, "08:30 PM"},
	}
	for _, tc := range cases {
		ts := time.Date(2025, time.June, 5, tc.hour, tc.min, 0, 0, time.UTC)
		if got := FormatSlotTime(ts); got != tc.want {
			t.Errorf("FormatSlotTime(%02d:%02d) = %q, want %q", tc.hour, tc.min, got, tc.want)
		}
	}
}

func TestParseSlotRoundTrip(t *testing.T) {
	ts := time.Date(2025, time.June, 5, 14, 30, 0, 0, time.UTC)
	slotDate := FormatSlotDate(ts)
	slotTime := FormatSlotTime(ts)

	parsed, err := ParseSlot(slotDate, slotTime, time.UTC)
	if err != nil {
		t.Fatalf("ParseSlot(%q, %q): %v", slotDate, slotTime, err)
	}
	if !parsed.Equal(ts) {
		t.Errorf("ParseSlot = %v, want %v", parsed, ts)
	}
}

func TestParseSlotRejectsInvalid(t *testing.T) {
	cases := []struct {
		name     string
		slotDate string
		slotTime string
	}{
		{"empty date", "", "10:00 AM"},
		{"malformed date", "2025-06-05", "10:00 AM"},
		{"non-numeric day", "x_6_2025", "10:00 AM"},
		{"month out of range", "5_13_2025", "10:00 AM"},
		{"day overflows month", "31_2_2025", "10:00 AM"},
		{"empty time", "5_6_2025", ""},
		{"24h time", "5_6_2025", "14:30"},
		{"garbage time", "5_6_2025", "noon"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseSlot(tc.slotDate, tc.slotTime, time.UTC); err == nil {
				t.Errorf("ParseSlot(%q, %q) accepted invalid input", tc.slotDate, tc.slotTime)
			}
		})
	}
}

func TestSlotTaken(t *testing.T) {
	doc := Doctor{}
	if doc.SlotTaken("5_6_2025", "10:00 AM") {
		t.Error("nil slots map should count as free")
	}

	doc.SlotsBooked = map[string][]string{"5_6_2025": {"10:00 AM", "02:30 PM"}}
	if !doc.SlotTaken("5_6_2025", "02:30 PM") {
		t.Error("booked slot reported free")
	}
	if doc.SlotTaken("5_6_2025", "11:00 AM") {
		t.Error("free slot reported taken")
	}
	if doc.SlotTaken("6_6_2025", "10:00 AM") {
		t.Error("other-day slot reported taken")
	}
}
