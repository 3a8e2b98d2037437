package booking

import (
	"time"

	"prescripto/models"
)

// Clinic working-hours policy: fixed 30-minute slots between 10:00 and 21:00,
// computed over a rolling 7-day horizon. Same-day bookings require at least
// one hour of lead time, rounded up to the half-hour grid.
const (
	horizonDays  = 7
	openingHour  = 10
	closingHour  = 21
	slotInterval = 30 * time.Minute
	bookingLead  = time.Hour
)

// alignToGrid rounds t up to the next half-hour boundary. A time already on
// the boundary is kept as-is.
func alignToGrid(t time.Time) time.Time {
	aligned := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), (t.Minute()/30)*30, 0, 0, t.Location())
	if aligned.Before(t) {
		aligned = aligned.Add(slotInterval)
	}
	return aligned
}

// AvailableSlots computes the bookable slots for a doctor over the horizon
// starting at now. The result always has horizonDays day buckets, in order;
// a fully booked or unreachable day yields an empty bucket. An unavailable
// doctor yields empty buckets for every day. A nil slots_booked map is
// treated as no slots booked.
func AvailableSlots(doc *models.Doctor, now time.Time) []models.DaySlots {
	days := make([]models.DaySlots, 0, horizonDays)

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for i := 0; i < horizonDays; i++ {
		day := midnight.AddDate(0, 0, i)
		start := day.Add(openingHour * time.Hour)
		end := day.Add(closingHour * time.Hour)

		if i == 0 {
			if lead := alignToGrid(now.Add(bookingLead)); lead.After(start) {
				start = lead
			}
		}

		var slots []models.AvailableSlot
		if doc.Available {
			for t := start; t.Before(end); t = t.Add(slotInterval) {
				display := models.FormatSlotTime(t)
				if doc.SlotTaken(models.FormatSlotDate(t), display) {
					continue
				}
				slots = append(slots, models.AvailableSlot{Datetime: t, Time: display})
			}
		}
		days = append(days, models.DaySlots{Date: models.FormatSlotDate(day), Slots: slots})
	}
	return days
}

// slotBookable re-runs the availability computation server-side and reports
// whether the requested date/time pair is currently offered for this doctor.
// Client-computed availability is advisory only and never trusted for the
// commit decision.
func slotBookable(doc *models.Doctor, now time.Time, slotDate, slotTime string) bool {
	for _, day := range AvailableSlots(doc, now) {
		if day.Date != slotDate {
			continue
		}
		for _, s := range day.Slots {
			if s.Time == slotTime {
				return true
			}
		}
	}
	return false
}
