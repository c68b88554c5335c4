package model

import (
	"strings"
	"time"
)

type Preferences struct {
	Notifications  bool `json:"notifications"`
	SeatPreference bool `json:"seatPreference"`
}

type User struct {
	Id           string      `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"passwordHash"`
	Name         string      `json:"name"`
	Phone        string      `json:"phone"`
	Address      string      `json:"address"`
	Preferences  Preferences `json:"preferences"`
	Bookings     []Booking   `json:"bookings"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// FindBooking returns the index of the booking with ref, or -1.
func (u User) FindBooking(ref string) int {
	ref = strings.TrimSpace(ref)
	for i, booking := range u.Bookings {
		if ref != "" && booking.BookingRef == ref {
			return i
		}
	}
	return -1
}

// Session mirrors what the browser kept in sessionStorage plus the login token.
type Session struct {
	Token     string        `json:"token,omitempty"`
	Search    *SearchData   `json:"search,omitempty"`
	Pending   *BookingDraft `json:"pending,omitempty"`
	UpdatedAt time.Time     `json:"updatedAt"`
}
