package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"railbook-cli/model"
)

type Search struct {
	sessions          SessionStore
	clock             Clock
	maxPassengers     int
	defaultPassengers int
}

func NewSearch(sessions SessionStore, clock Clock, maxPassengers int, defaultPassengers int) *Search {
	if maxPassengers < 1 {
		maxPassengers = 6
	}
	if defaultPassengers < 1 || defaultPassengers > maxPassengers {
		defaultPassengers = min(2, maxPassengers)
	}
	return &Search{
		sessions:          sessions,
		clock:             clock,
		maxPassengers:     maxPassengers,
		defaultPassengers: defaultPassengers,
	}
}

func (s *Search) MaxPassengers() int { return s.maxPassengers }

// Validate trims the form and checks it the way the search page did: every
// field required, a travel date no earlier than today, distinct stations and
// a passenger count within range.
func (s *Search) Validate(in model.SearchData) (model.SearchData, error) {
	in = model.SearchData{
		Origin:      strings.TrimSpace(in.Origin),
		Destination: strings.TrimSpace(in.Destination),
		Date:        strings.TrimSpace(in.Date),
		Passengers:  strings.TrimSpace(in.Passengers),
	}

	var fields FieldErrors
	if in.Origin == "" {
		fields.add("origin", "This field is required")
	}
	switch {
	case in.Destination == "":
		fields.add("destination", "This field is required")
	case in.Origin != "" && strings.EqualFold(in.Origin, in.Destination):
		fields.add("destination", "Origin and destination must be different")
	}

	if in.Date == "" {
		fields.add("date", "This field is required")
	} else {
		now := s.clock.Now()
		day, err := time.ParseInLocation(time.DateOnly, in.Date, now.Location())
		switch {
		case err != nil:
			fields.add("date", "Please enter a valid date (YYYY-MM-DD)")
		case day.Before(startOfDay(now)):
			fields.add("date", "Please select a future date")
		}
	}

	if in.Passengers == "" {
		fields.add("passengers", "This field is required")
	} else if n, err := strconv.Atoi(in.Passengers); err != nil || n < 1 || n > s.maxPassengers {
		fields.add("passengers", fmt.Sprintf("Please choose between 1 and %d passengers", s.maxPassengers))
	}

	if err := fields.err(); err != nil {
		return in, err
	}
	return in, nil
}

// Submit validates the form and keeps it in the session for the seat page.
func (s *Search) Submit(in model.SearchData) (model.SearchData, error) {
	search, err := s.Validate(in)
	if err != nil {
		return search, err
	}
	session, _, err := s.sessions.LoadSession()
	if err != nil {
		return search, fmt.Errorf("loading session: %w", err)
	}
	session.Search = &search
	if err := s.sessions.SaveSession(session); err != nil {
		return search, fmt.Errorf("saving session: %w", err)
	}
	return search, nil
}

// Current returns the saved search, if the session still has one.
func (s *Search) Current() (model.SearchData, bool, error) {
	session, fresh, err := s.sessions.LoadSession()
	if err != nil {
		return model.SearchData{}, false, fmt.Errorf("loading session: %w", err)
	}
	if !fresh || session.Search == nil {
		return model.SearchData{}, false, nil
	}
	return *session.Search, true, nil
}

// PassengerLimit reads the passenger count, falling back to the default when
// it is missing or not a positive number.
func (s *Search) PassengerLimit(search model.SearchData) int {
	n, err := strconv.Atoi(strings.TrimSpace(search.Passengers))
	if err != nil || n < 1 {
		return s.defaultPassengers
	}
	return n
}
