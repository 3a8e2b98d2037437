package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SlotTimeLayout renders times as "hh:mm AM/PM", the display format stored in
// a doctor's booked-slots map.
const SlotTimeLayout = "03:04 PM"

// AvailableSlot is a single bookable 30-minute slot.
type AvailableSlot struct {
	Datetime time.Time `json:"datetime"`
	Time     string    `json:"time"`
}

// DaySlots is one day bucket of the availability horizon.
type DaySlots struct {
	Date  string          `json:"date"`
	Slots []AvailableSlot `json:"slots"`
}

// FormatSlotDate renders the date key for a doctor's booked-slots map,
// e.g. 5 June 2025 -> "5_6_2025". Components are not zero padded.
func FormatSlotDate(t time.Time) string {
	return fmt.Sprintf("%d_%d_%d", t.Day(), int(t.Month()), t.Year())
}

// FormatSlotTime renders the display time for a slot, e.g. "10:30 AM".
func FormatSlotTime(t time.Time) string {
	return t.Format(SlotTimeLayout)
}

// ParseSlot combines a "D_M_YYYY" date key and an "hh:mm AM/PM" display time
// into a wall-clock timestamp in the given location.
func ParseSlot(slotDate, slotTime string, loc *time.Location) (time.Time, error) {
	parts := strings.Split(slotDate, "_")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("invalid slot date %q", slotDate)
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid slot date %q", slotDate)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid slot date %q", slotDate)
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid slot date %q", slotDate)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1 {
		return time.Time{}, fmt.Errorf("invalid slot date %q", slotDate)
	}

	clock, err := time.Parse(SlotTimeLayout, slotTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid slot time %q", slotTime)
	}

	ts := time.Date(year, time.Month(month), day, clock.Hour(), clock.Minute(), 0, 0, loc)
	// time.Date normalizes overflows (e.g. 31_2_2025), which would silently
	// shift the booking to another day.
	if ts.Day() != day || int(ts.Month()) != month || ts.Year() != year {
		return time.Time{}, fmt.Errorf("invalid slot date %q", slotDate)
	}
	return ts, nil
}
