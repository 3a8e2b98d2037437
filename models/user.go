package models

import "time"

// User represents a patient account.
type User struct {
	ID           string    `bson:"id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	Image        string    `bson:"image,omitempty" json:"image,omitempty"`
	Phone        string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Address      Address   `bson:"address,omitempty" json:"address,omitempty"`
	Gender       string    `bson:"gender,omitempty" json:"gender,omitempty"`
	Dob          string    `bson:"dob,omitempty" json:"dob,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// UserUpdateRequest carries the self-service profile fields a patient may change.
type UserUpdateRequest struct {
	Name    string   `form:"name" json:"name"`
	Phone   string   `form:"phone" json:"phone"`
	Address *Address `form:"-" json:"address,omitempty"`
	Gender  string   `form:"gender" json:"gender"`
	Dob     string   `form:"dob" json:"dob"`
}
