package model

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// BookingDraft is what checkout hands to the recorder before a reference exists.
type BookingDraft struct {
	Train       string `json:"train"`
	TrainNo     string `json:"trainNo"`
	Seats       string `json:"seats"`
	Departure   string `json:"departure"`
	Arrival     string `json:"arrival"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
	Passengers  int    `json:"passengers"`
	Fare        int    `json:"fare"`
	Coach       string `json:"coach,omitempty"`
	Class       string `json:"class,omitempty"`
}

type Booking struct {
	Train       string        `json:"train"`
	TrainNo     string        `json:"trainNo"`
	Seats       string        `json:"seats"`
	Departure   string        `json:"departure"`
	Arrival     string        `json:"arrival"`
	Origin      string        `json:"origin"`
	Destination string        `json:"destination"`
	Date        string        `json:"date"`
	Passengers  int           `json:"passengers"`
	Fare        int           `json:"fare"`
	Coach       string        `json:"coach,omitempty"`
	Class       string        `json:"class,omitempty"`
	BookingRef  string        `json:"bookingRef"`
	BookingDate time.Time     `json:"bookingDate"`
	Status      BookingStatus `json:"status"`
}

func NewBooking(draft BookingDraft, ref string, bookedAt time.Time) Booking {
	return Booking{
		Train:       draft.Train,
		TrainNo:     draft.TrainNo,
		Seats:       draft.Seats,
		Departure:   draft.Departure,
		Arrival:     draft.Arrival,
		Origin:      draft.Origin,
		Destination: draft.Destination,
		Date:        draft.Date,
		Passengers:  draft.Passengers,
		Fare:        draft.Fare,
		Coach:       draft.Coach,
		Class:       draft.Class,
		BookingRef:  ref,
		BookingDate: bookedAt,
		Status:      StatusConfirmed,
	}
}

// TravelDate parses Date as a calendar day in loc.
func (b Booking) TravelDate(loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	day, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(b.Date), loc)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

// IsUpcoming reports whether the trip day is today or later. Bookings with an
// unreadable date are treated as past.
func (b Booking) IsUpcoming(now time.Time) bool {
	day, ok := b.TravelDate(now.Location())
	if !ok {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return !day.Before(today)
}

// DisplayStatus folds the trip date into the stored status.
func (b Booking) DisplayStatus(now time.Time) BookingStatus {
	switch b.Status {
	case StatusCancelled, StatusCompleted:
		return b.Status
	}
	if b.IsUpcoming(now) {
		return StatusConfirmed
	}
	return StatusCompleted
}

// BookedAt falls back to the travel date for records without a booking time.
func (b Booking) BookedAt() time.Time {
	if !b.BookingDate.IsZero() {
		return b.BookingDate
	}
	day, _ := b.TravelDate(time.UTC)
	return day
}

// SeatIDs splits the comma-joined seat string.
func (b Booking) SeatIDs() []string {
	var ids []string
	for _, part := range strings.Split(b.Seats, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
