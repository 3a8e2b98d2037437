package booking

import (
	"testing"
	"time"

	"prescripto/models"
)

func availableDoctor() *models.Doctor {
	return &models.Doctor{
		ID:          "doc-1",
		Name:        "Dr. Richard James",
		Available:   true,
		Fees:        50,
		SlotsBooked: map[string][]string{},
	}
}

func TestAvailableSlotsHorizonShape(t *testing.T) {
	now := time.Date(2025, time.June, 5, 8, 0, 0, 0, time.UTC)
	days := AvailableSlots(availableDoctor(), now)

	if len(days) != horizonDays {
		t.Fatalf("got %d day buckets, want %d", len(days), horizonDays)
	}
	for i, day := range days {
		want := models.FormatSlotDate(now.AddDate(0, 0, i))
		if day.Date != want {
			t.Errorf("day %d key = %q, want %q", i, day.Date, want)
		}
	}
}

func TestAvailableSlotsFutureDayFullGrid(t *testing.T) {
	now := time.Date(2025, time.June, 5, 8, 0, 0, 0, time.UTC)
	days := AvailableSlots(availableDoctor(), now)

	// 10:00 through 20:30 at 30-minute steps is 22 slots.
	day := days[1]
	if len(day.Slots) != 22 {
		t.Fatalf("future day has %d slots, want 22", len(day.Slots))
	}
	if day.Slots[0].Time != "10:00 AM" {
		t.Errorf("first slot = %q, want %q", day.Slots[0].Time, "10:00 AM")
	}
	if last := day.Slots[len(day.Slots)-1].Time; last != "08:30 PM" {
		t.Errorf("last slot = %q, want %q", last, "08:30 PM")
	}
	for i := 1; i < len(day.Slots); i++ {
		if got := day.Slots[i].Datetime.Sub(day.Slots[i-1].Datetime); got != slotInterval {
			t.Fatalf("slot %d gap = %v, want %v", i, got, slotInterval)
		}
	}
}

func TestAvailableSlotsDayZeroLeadTime(t *testing.T) {
	cases := []struct {
		name      string
		now       time.Time
		wantFirst string
	}{
		{
			name:      "before opening keeps full grid",
			now:       time.Date(2025, time.June, 5, 7, 0, 0, 0, time.UTC),
			wantFirst: "10:00 AM",
		},
		{
			name:      "mid-day rounds lead up to the grid",
			now:       time.Date(2025, time.June, 5, 12, 10, 0, 0, time.UTC),
			wantFirst: "01:30 PM",
		},
		{
			name:      "lead already on the grid is kept",
			now:       time.Date(2025, time.June, 5, 14, 0, 0, 0, time.UTC),
			wantFirst: "03:00 PM",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			days := AvailableSlots(availableDoctor(), tc.now)
			if len(days[0].Slots) == 0 {
				t.Fatal("day zero has no slots")
			}
			if got := days[0].Slots[0].Time; got != tc.wantFirst {
				t.Errorf("first slot = %q, want %q", got, tc.wantFirst)
			}
		})
	}
}

func TestAvailableSlotsDayZeroExhaustedLate(t *testing.T) {
	// One hour of lead past the last slot leaves day zero empty but present.
	now := time.Date(2025, time.June, 5, 20, 0, 0, 0, time.UTC)
	days := AvailableSlots(availableDoctor(), now)
	if len(days) != horizonDays {
		t.Fatalf("got %d day buckets, want %d", len(days), horizonDays)
	}
	if len(days[0].Slots) != 0 {
		t.Errorf("late-evening day zero has %d slots, want 0", len(days[0].Slots))
	}
}

func TestAvailableSlotsExcludesBooked(t *testing.T) {
	now := time.Date(2025, time.June, 5, 8, 0, 0, 0, time.UTC)
	tomorrow := models.FormatSlotDate(now.AddDate(0, 0, 1))

	doc := availableDoctor()
	doc.SlotsBooked[tomorrow] = []string{"10:00 AM", "03:30 PM"}

	days := AvailableSlots(doc, now)
	if len(days[1].Slots) != 20 {
		t.Fatalf("got %d slots, want 20", len(days[1].Slots))
	}
	for _, s := range days[1].Slots {
		if s.Time == "10:00 AM" || s.Time == "03:30 PM" {
			t.Errorf("booked slot %q still offered", s.Time)
		}
	}
}

func TestAvailableSlotsUnavailableDoctor(t *testing.T) {
	doc := availableDoctor()
	doc.Available = false

	days := AvailableSlots(doc, time.Date(2025, time.June, 5, 8, 0, 0, 0, time.UTC))
	if len(days) != horizonDays {
		t.Fatalf("got %d day buckets, want %d", len(days), horizonDays)
	}
	for i, day := range days {
		if len(day.Slots) != 0 {
			t.Errorf("day %d has %d slots for an unavailable doctor", i, len(day.Slots))
		}
	}
}

func TestAvailableSlotsNilBookedMap(t *testing.T) {
	doc := availableDoctor()
	doc.SlotsBooked = nil

	days := AvailableSlots(doc, time.Date(2025, time.June, 5, 8, 0, 0, 0, time.UTC))
	if len(days[1].Slots) != 22 {
		t.Errorf("nil booked map: got %d slots, want 22", len(days[1].Slots))
	}
}

func TestAlignToGrid(t *testing.T) {
	base := time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		in, want time.Time
	}{
		{base.Add(10 * time.Hour), base.Add(10 * time.Hour)},
		{base.Add(10*time.Hour + time.Minute), base.Add(10*time.Hour + 30*time.Minute)},
		{base.Add(10*time.Hour + 29*time.Minute), base.Add(10*time.Hour + 30*time.Minute)},
		{base.Add(10*time.Hour + 31*time.Minute), base.Add(11 * time.Hour)},
	}
	for _, tc := range cases {
		if got := alignToGrid(tc.in); !got.Equal(tc.want) {
			t.Errorf("alignToGrid(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
