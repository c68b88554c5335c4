// Package service implements the booking flows on top of the local record
// store: sign-in, search, seat maps, checkout, tickets, history, profile and
// accessibility settings.
package service

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"railbook-cli/config"
	"railbook-cli/model"
)

type UserStore interface {
	LoadUsers() ([]model.User, error)
	SaveUsers(users []model.User) error
}

type SessionStore interface {
	LoadSession() (model.Session, bool, error)
	SaveSession(session model.Session) error
	ClearSession() error
	SigningKey() ([]byte, error)
}

type SettingsStore interface {
	LoadSettings() (model.Settings, error)
	SaveSettings(settings model.Settings) error
}

type SeatMapStore interface {
	LoadSeatMap(trainNo string, date string) (model.SeatMap, bool, error)
}

// Store is everything the services persist through.
type Store interface {
	UserStore
	SessionStore
	SettingsStore
	SeatMapStore
}

// App bundles the services one front end needs.
type App struct {
	Auth          *Auth
	Search        *Search
	Trains        *Trains
	SeatMaps      *SeatMaps
	Recorder      *Recorder
	Checkout      *Checkout
	Tickets       *Tickets
	Profile       *Profile
	Accessibility *Accessibility
}

func New(st Store, cfg config.Config, logger *slog.Logger, clock Clock) *App {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = SystemClock()
	}
	recorder := NewRecorder(st, clock, cfg.BookingPrefix, logger)
	auth := NewAuth(st, st, clock, cfg.SessionTTL.Duration, recorder, logger)
	trains := NewTrains(cfg.Trains, cfg.Fare)
	search := NewSearch(st, clock, cfg.MaxPassengers, cfg.DefaultPassengers)
	return &App{
		Auth:          auth,
		Search:        search,
		Trains:        trains,
		SeatMaps:      NewSeatMaps(st, st, cfg.Seats),
		Recorder:      recorder,
		Checkout:      NewCheckout(auth, recorder, st, trains, search, logger),
		Tickets:       NewTickets(auth, st, clock, logger),
		Profile:       NewProfile(auth, st, logger),
		Accessibility: NewAccessibility(st, logger),
	}
}

func findUser(users []model.User, email string) int {
	email = strings.TrimSpace(email)
	for i, user := range users {
		if email != "" && strings.EqualFold(user.Email, email) {
			return i
		}
	}
	return -1
}

// updateUser loads the table, applies fn to the user with email and writes the
// whole table back once. fn returning an error leaves the store untouched.
func updateUser(users UserStore, email string, fn func(*model.User) error) (model.User, error) {
	all, err := users.LoadUsers()
	if err != nil {
		return model.User{}, fmt.Errorf("loading users: %w", err)
	}
	i := findUser(all, email)
	if i < 0 {
		return model.User{}, ErrUserNotFound
	}
	if err := fn(&all[i]); err != nil {
		return model.User{}, err
	}
	if err := users.SaveUsers(all); err != nil {
		return model.User{}, fmt.Errorf("saving users: %w", err)
	}
	return all[i], nil
}

func newUserID() string {
	return uuid.NewString()
}
