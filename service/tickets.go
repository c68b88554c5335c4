package service

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"railbook-cli/model"
)

type TicketFilter string

const (
	FilterAll      TicketFilter = "all"
	FilterUpcoming TicketFilter = "upcoming"
	FilterPast     TicketFilter = "past"
)

func ParseTicketFilter(value string) (TicketFilter, error) {
	switch TicketFilter(strings.ToLower(strings.TrimSpace(value))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterUpcoming:
		return FilterUpcoming, nil
	case FilterPast:
		return FilterPast, nil
	}
	return "", fmt.Errorf("unknown filter %q (use all, upcoming or past)", value)
}

const dashboardPreview = 3

// Dashboard summarizes a user's bookings for the landing view. Upcoming
// counts the same trips as Active.
type Dashboard struct {
	Total    int
	Active   int
	Upcoming int
	Next     []model.Booking
	Recent   []model.Booking
}

type Tickets struct {
	auth  *Auth
	users UserStore
	clock Clock
	log   *slog.Logger
}

func NewTickets(auth *Auth, users UserStore, clock Clock, logger *slog.Logger) *Tickets {
	return &Tickets{auth: auth, users: users, clock: clock, log: logger}
}

// List returns the logged-in user's bookings in stored order.
func (t *Tickets) List(filter TicketFilter) ([]model.Booking, error) {
	user, err := t.auth.RequireUser()
	if err != nil {
		return nil, err
	}
	now := t.clock.Now()
	var out []model.Booking
	for _, booking := range user.Bookings {
		switch filter {
		case FilterUpcoming:
			if !booking.IsUpcoming(now) {
				continue
			}
		case FilterPast:
			if booking.IsUpcoming(now) {
				continue
			}
		}
		out = append(out, booking)
	}
	return out, nil
}

func (t *Tickets) Find(ref string) (model.Booking, error) {
	user, err := t.auth.RequireUser()
	if err != nil {
		return model.Booking{}, err
	}
	i := user.FindBooking(ref)
	if i < 0 {
		return model.Booking{}, fmt.Errorf("%w: %s", ErrBookingNotFound, ref)
	}
	return user.Bookings[i], nil
}

// Cancel marks an upcoming booking cancelled. Past and already cancelled
// bookings are refused.
func (t *Tickets) Cancel(ref string) (model.Booking, error) {
	user, err := t.auth.RequireUser()
	if err != nil {
		return model.Booking{}, err
	}
	now := t.clock.Now()
	var cancelled model.Booking
	_, err = updateUser(t.users, user.Email, func(u *model.User) error {
		i := u.FindBooking(ref)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrBookingNotFound, ref)
		}
		booking := &u.Bookings[i]
		if booking.Status == model.StatusCancelled || !booking.IsUpcoming(now) {
			return ErrNotCancellable
		}
		booking.Status = model.StatusCancelled
		cancelled = *booking
		return nil
	})
	if err != nil {
		return model.Booking{}, err
	}
	t.log.Info("booking cancelled", slog.String("ref", cancelled.BookingRef))
	return cancelled, nil
}

// History lists bookings newest first by booking time. A year of zero keeps
// every booking.
func (t *Tickets) History(year int) ([]model.Booking, error) {
	user, err := t.auth.RequireUser()
	if err != nil {
		return nil, err
	}
	var out []model.Booking
	for _, booking := range user.Bookings {
		if year != 0 && booking.BookedAt().Year() != year {
			continue
		}
		out = append(out, booking)
	}
	slices.SortStableFunc(out, func(a, b model.Booking) int {
		return b.BookedAt().Compare(a.BookedAt())
	})
	return out, nil
}

// Years lists the booking years present in the history, newest first.
func (t *Tickets) Years() ([]int, error) {
	user, err := t.auth.RequireUser()
	if err != nil {
		return nil, err
	}
	seen := map[int]bool{}
	var years []int
	for _, booking := range user.Bookings {
		at := booking.BookedAt()
		if at.IsZero() || seen[at.Year()] {
			continue
		}
		seen[at.Year()] = true
		years = append(years, at.Year())
	}
	slices.Sort(years)
	slices.Reverse(years)
	return years, nil
}

func (t *Tickets) Dashboard() (Dashboard, error) {
	user, err := t.auth.RequireUser()
	if err != nil {
		return Dashboard{}, err
	}
	now := t.clock.Now()
	dash := Dashboard{Total: len(user.Bookings)}

	var upcoming []model.Booking
	for _, booking := range user.Bookings {
		if !booking.IsUpcoming(now) || booking.Status == model.StatusCancelled {
			continue
		}
		upcoming = append(upcoming, booking)
	}
	dash.Active = len(upcoming)
	dash.Upcoming = len(upcoming)
	slices.SortStableFunc(upcoming, func(a, b model.Booking) int {
		return travelDay(a, now).Compare(travelDay(b, now))
	})
	dash.Next = upcoming[:min(dashboardPreview, len(upcoming))]

	recent := slices.Clone(user.Bookings)
	slices.SortStableFunc(recent, func(a, b model.Booking) int {
		return b.BookedAt().Compare(a.BookedAt())
	})
	dash.Recent = recent[:min(dashboardPreview, len(recent))]
	return dash, nil
}

func travelDay(b model.Booking, now time.Time) time.Time {
	day, _ := b.TravelDate(now.Location())
	return day
}
