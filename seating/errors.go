package seating

import "fmt"

// ConfigError is returned when a selection is initialized with a bad limit or catalog.
type ConfigError struct {
	Limit  int
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Reason != "" {
		return "invalid seat selection: " + e.Reason
	}
	return fmt.Sprintf("invalid seat selection: passenger limit must be positive, got %d", e.Limit)
}

type UnknownSeatError struct {
	SeatID string
}

func (e *UnknownSeatError) Error() string {
	return fmt.Sprintf("seat %s does not exist on this train", e.SeatID)
}

type SeatUnavailableError struct {
	SeatID   string
	Occupied bool
}

func (e *SeatUnavailableError) Error() string {
	if e.Occupied {
		return fmt.Sprintf("seat %s is occupied", e.SeatID)
	}
	return fmt.Sprintf("seat %s is not available", e.SeatID)
}

// SelectionLimitExceededError carries the guidance shown when every passenger
// already has a seat.
type SelectionLimitExceededError struct {
	Limit int
}

func (e *SelectionLimitExceededError) Error() string {
	return fmt.Sprintf("You can select up to %d seat(s) for %d passenger(s).", e.Limit, e.Limit)
}

type EmptySelectionError struct{}

func (e *EmptySelectionError) Error() string {
	return "Please select at least one seat to continue."
}
