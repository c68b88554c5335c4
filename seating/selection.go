// Package seating holds the per-session seat selection state for one train
// and date. It knows nothing about storage or rendering: callers feed it a
// catalog and a passenger limit, drive it with Toggle, and observe changes
// through an optional callback.
package seating

import (
	"fmt"
	"slices"
	"strings"

	"railbook-cli/model"
)

// SeatSeparator joins finalized seat ids into the booking's seat string.
const SeatSeparator = ", "

type EventKind int

const (
	EventSelected EventKind = iota
	EventDeselected
	EventReset
)

func (k EventKind) String() string {
	switch k {
	case EventSelected:
		return "selected"
	case EventDeselected:
		return "deselected"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Event describes a committed mutation.
type Event struct {
	Kind   EventKind
	SeatID string
	Count  int
	Limit  int
}

type Option func(*Selection)

// WithObserver registers fn to run after every successful mutation.
func WithObserver(fn func(Event)) Option {
	return func(s *Selection) {
		s.observer = fn
	}
}

type Selection struct {
	catalog  map[string]model.Seat
	order    []string
	selected []string
	limit    int
	observer func(Event)
}

func New(catalog []model.Seat, limit int, opts ...Option) (*Selection, error) {
	s := &Selection{}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.load(catalog, limit); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset replaces the catalog and limit and empties the selection. On error the
// previous state is kept.
func (s *Selection) Reset(catalog []model.Seat, limit int) error {
	if err := s.load(catalog, limit); err != nil {
		return err
	}
	s.notify(Event{Kind: EventReset})
	return nil
}

func (s *Selection) load(catalog []model.Seat, limit int) error {
	if limit <= 0 {
		return &ConfigError{Limit: limit}
	}
	seats := make(map[string]model.Seat, len(catalog))
	order := make([]string, 0, len(catalog))
	for _, seat := range catalog {
		id := strings.TrimSpace(seat.Id)
		if id == "" {
			return &ConfigError{Limit: limit, Reason: "seat with empty id in catalog"}
		}
		if _, dup := seats[id]; dup {
			return &ConfigError{Limit: limit, Reason: fmt.Sprintf("duplicate seat %s in catalog", id)}
		}
		seat.Id = id
		seats[id] = seat
		order = append(order, id)
	}
	s.catalog = seats
	s.order = order
	s.selected = nil
	s.limit = limit
	return nil
}

// Toggle selects seatID, or deselects it when already selected.
func (s *Selection) Toggle(seatID string) (Event, error) {
	seat, ok := s.catalog[seatID]
	if !ok {
		return Event{}, &UnknownSeatError{SeatID: seatID}
	}
	if !seat.Usable() {
		return Event{}, &SeatUnavailableError{SeatID: seatID, Occupied: !seat.Available}
	}

	if i := slices.Index(s.selected, seatID); i >= 0 {
		s.selected = slices.Delete(s.selected, i, i+1)
		return s.notify(Event{Kind: EventDeselected, SeatID: seatID}), nil
	}

	if len(s.selected) >= s.limit {
		return Event{}, &SelectionLimitExceededError{Limit: s.limit}
	}
	s.selected = append(s.selected, seatID)
	return s.notify(Event{Kind: EventSelected, SeatID: seatID}), nil
}

// Clear empties the selection. Callers use it after a booking is committed.
func (s *Selection) Clear() {
	if len(s.selected) == 0 {
		return
	}
	s.selected = nil
	s.notify(Event{Kind: EventReset})
}

// Selected returns a copy of the selected seat ids in selection order.
func (s *Selection) Selected() []string {
	return slices.Clone(s.selected)
}

func (s *Selection) IsSelected(seatID string) bool {
	return slices.Contains(s.selected, seatID)
}

func (s *Selection) Len() int {
	return len(s.selected)
}

func (s *Selection) Limit() int {
	return s.limit
}

// Seat looks up a catalog entry.
func (s *Selection) Seat(seatID string) (model.Seat, bool) {
	seat, ok := s.catalog[seatID]
	return seat, ok
}

// Catalog returns the seats in the order they were supplied.
func (s *Selection) Catalog() []model.Seat {
	seats := make([]model.Seat, 0, len(s.order))
	for _, id := range s.order {
		seats = append(seats, s.catalog[id])
	}
	return seats
}

// CanConfirm allows confirming with fewer seats than passengers.
func (s *Selection) CanConfirm() bool {
	return len(s.selected) >= 1
}

// Finalize returns the selected ids joined in selection order. The selection
// itself is left untouched.
func (s *Selection) Finalize() (string, error) {
	if len(s.selected) == 0 {
		return "", &EmptySelectionError{}
	}
	return strings.Join(s.selected, SeatSeparator), nil
}

func (s *Selection) notify(e Event) Event {
	e.Count = len(s.selected)
	e.Limit = s.limit
	if s.observer != nil {
		s.observer(e)
	}
	return e
}
