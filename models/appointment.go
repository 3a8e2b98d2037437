package models

import "time"

// UserSnapshot is the immutable copy of patient data captured at booking time.
type UserSnapshot struct {
	Name   string `bson:"name" json:"name"`
	Email  string `bson:"email" json:"email"`
	Phone  string `bson:"phone,omitempty" json:"phone,omitempty"`
	Gender string `bson:"gender,omitempty" json:"gender,omitempty"`
	Dob    string `bson:"dob,omitempty" json:"dob,omitempty"`
	Image  string `bson:"image,omitempty" json:"image,omitempty"`
}

// DoctorSnapshot is the immutable copy of doctor data captured at booking time.
type DoctorSnapshot struct {
	Name       string  `bson:"name" json:"name"`
	Speciality string  `bson:"speciality" json:"speciality"`
	Degree     string  `bson:"degree" json:"degree"`
	Experience string  `bson:"experience" json:"experience"`
	Fees       float64 `bson:"fees" json:"fees"`
	Image      string  `bson:"image,omitempty" json:"image,omitempty"`
	Address    Address `bson:"address" json:"address"`
}

// Appointment is a booked slot. Records are never deleted; terminal states are
// the cancelled and isCompleted flags, which are distinct and mutually exclusive.
type Appointment struct {
	ID              string         `bson:"id" json:"id"`
	UserID          string         `bson:"userId" json:"userId"`
	DocID           string         `bson:"docId" json:"docId"`
	SlotDate        string         `bson:"slotDate" json:"slotDate"`
	SlotTime        string         `bson:"slotTime" json:"slotTime"`
	UserData        UserSnapshot   `bson:"userData" json:"userData"`
	DocData         DoctorSnapshot `bson:"docData" json:"docData"`
	Amount          float64        `bson:"amount" json:"amount"`
	Cancelled       bool           `bson:"cancelled" json:"cancelled"`
	IsCompleted     bool           `bson:"isCompleted" json:"isCompleted"`
	Payment         bool           `bson:"payment" json:"payment"`
	PaymentIntentID string         `bson:"paymentIntentId,omitempty" json:"-"`
	CreatedAt       time.Time      `bson:"created_at" json:"created_at"`
}
