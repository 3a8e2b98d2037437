package models

import "time"

// Address is the doctor's practice address.
type Address struct {
	Line1 string `bson:"line1" json:"line1"`
	Line2 string `bson:"line2,omitempty" json:"line2,omitempty"`
}

// Doctor represents a doctor profile managed by the admin console.
// SlotsBooked maps a slot date key ("D_M_YYYY") to the ordered list of
// reserved display times ("hh:mm AM/PM") for that day.
type Doctor struct {
	ID           string              `bson:"id" json:"id"`
	Name         string              `bson:"name" json:"name"`
	Email        string              `bson:"email" json:"email,omitempty"`
	PasswordHash string              `bson:"passwordHash" json:"-"`
	Image        string              `bson:"image" json:"image"`
	Speciality   string              `bson:"speciality" json:"speciality"`
	Degree       string              `bson:"degree" json:"degree"`
	Experience   string              `bson:"experience" json:"experience"`
	About        string              `bson:"about" json:"about"`
	Available    bool                `bson:"available" json:"available"`
	Fees         float64             `bson:"fees" json:"fees"`
	Address      Address             `bson:"address" json:"address"`
	SlotsBooked  map[string][]string `bson:"slots_booked" json:"slots_booked"`
	CreatedAt    time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time           `bson:"updated_at" json:"updated_at"`
}

// SlotTaken reports whether the given date/time pair is already reserved.
// A nil or missing slots map counts as fully free.
func (d *Doctor) SlotTaken(slotDate, slotTime string) bool {
	if d.SlotsBooked == nil {
		return false
	}
	for _, t := range d.SlotsBooked[slotDate] {
		if t == slotTime {
			return true
		}
	}
	return false
}

// DoctorUpdateRequest carries the fields a doctor may change on their own profile.
type DoctorUpdateRequest struct {
	Fees      *float64 `json:"fees,omitempty"`
	Address   *Address `json:"address,omitempty"`
	About     *string  `json:"about,omitempty"`
	Available *bool    `json:"available,omitempty"`
}
