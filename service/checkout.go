package service

import (
	"errors"
	"fmt"
	"log/slog"

	"railbook-cli/model"
	"railbook-cli/seating"
)

type Checkout struct {
	auth     *Auth
	recorder *Recorder
	sessions SessionStore
	trains   *Trains
	search   *Search
	log      *slog.Logger
}

func NewCheckout(auth *Auth, recorder *Recorder, sessions SessionStore, trains *Trains, search *Search, logger *slog.Logger) *Checkout {
	return &Checkout{
		auth:     auth,
		recorder: recorder,
		sessions: sessions,
		trains:   trains,
		search:   search,
		log:      logger,
	}
}

// Draft builds the booking draft for seats on train. The fare is charged per
// searched passenger, not per seat.
func (c *Checkout) Draft(search model.SearchData, train model.Train, seats string) model.BookingDraft {
	passengers := c.search.PassengerLimit(search)
	return model.BookingDraft{
		Train:       train.Name,
		TrainNo:     train.Number,
		Seats:       seats,
		Departure:   train.Departure,
		Arrival:     train.Arrival,
		Origin:      search.Origin,
		Destination: search.Destination,
		Date:        search.Date,
		Passengers:  passengers,
		Fare:        c.trains.Fare(passengers),
		Coach:       train.Coach,
		Class:       train.Class,
	}
}

// Confirm finalizes sel and files the booking for the logged-in user. When
// nobody is logged in the draft is kept in the session and ErrLoginRequired
// is returned; the next login records it. The selection is cleared only after
// a booking is recorded.
func (c *Checkout) Confirm(search model.SearchData, train model.Train, sel *seating.Selection) (model.Booking, error) {
	seats, err := sel.Finalize()
	if err != nil {
		return model.Booking{}, err
	}
	draft := c.Draft(search, train, seats)

	user, err := c.auth.CurrentUser()
	if errors.Is(err, ErrNotLoggedIn) {
		if err := c.keepPending(draft); err != nil {
			return model.Booking{}, err
		}
		c.log.Info("booking kept until login", slog.String("train", draft.TrainNo), slog.String("seats", seats))
		return model.Booking{}, ErrLoginRequired
	}
	if err != nil {
		return model.Booking{}, err
	}

	booking, err := c.recorder.Record(user.Email, draft)
	if err != nil {
		return model.Booking{}, err
	}
	sel.Clear()
	return booking, nil
}

// Pending returns the draft waiting for a login, if any.
func (c *Checkout) Pending() (model.BookingDraft, bool, error) {
	session, fresh, err := c.sessions.LoadSession()
	if err != nil {
		return model.BookingDraft{}, false, fmt.Errorf("loading session: %w", err)
	}
	if !fresh || session.Pending == nil {
		return model.BookingDraft{}, false, nil
	}
	return *session.Pending, true, nil
}

func (c *Checkout) keepPending(draft model.BookingDraft) error {
	session, _, err := c.sessions.LoadSession()
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	session.Pending = &draft
	if err := c.sessions.SaveSession(session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}
