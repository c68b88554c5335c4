package seating

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"railbook-cli/model"
)

func freeSeats(ids ...string) []model.Seat {
	seats := make([]model.Seat, 0, len(ids))
	for _, id := range ids {
		seats = append(seats, model.Seat{Id: id, Berth: model.BerthLower, Available: true, Eligible: true})
	}
	return seats
}

func TestNew_RejectsNonPositiveLimit(t *testing.T) {
	for _, limit := range []int{0, -1} {
		_, err := New(freeSeats("A"), limit)
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, limit, cfgErr.Limit)
	}
}

func TestNew_RejectsDuplicateSeats(t *testing.T) {
	_, err := New(freeSeats("A", "A"), 2)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "duplicate seat A")
}

func TestReset_KeepsStateOnError(t *testing.T) {
	s, err := New(freeSeats("A", "B"), 2)
	require.NoError(t, err)
	_, err = s.Toggle("A")
	require.NoError(t, err)

	err = s.Reset(freeSeats("C"), 0)
	require.Error(t, err)
	assert.Equal(t, []string{"A"}, s.Selected())
	assert.Equal(t, 2, s.Limit())

	require.NoError(t, s.Reset(freeSeats("C"), 1))
	assert.Empty(t, s.Selected())
	assert.Equal(t, 1, s.Limit())
}

func TestToggle_UnknownSeat(t *testing.T) {
	s, err := New(freeSeats("A"), 2)
	require.NoError(t, err)
	_, err = s.Toggle("A")
	require.NoError(t, err)

	for _, id := range []string{"Z", "", "a", "LB-1"} {
		_, err := s.Toggle(id)
		var unknown *UnknownSeatError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, id, unknown.SeatID)
		assert.Equal(t, []string{"A"}, s.Selected())
	}
}

func TestToggle_UnavailableSeat(t *testing.T) {
	catalog := []model.Seat{
		{Id: "OCC", Available: false, Eligible: true},
		{Id: "BLK", Available: true, Eligible: false},
	}
	s, err := New(catalog, 2)
	require.NoError(t, err)

	_, err = s.Toggle("OCC")
	var unavailable *SeatUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.True(t, unavailable.Occupied)

	_, err = s.Toggle("BLK")
	require.ErrorAs(t, err, &unavailable)
	assert.False(t, unavailable.Occupied)
	assert.Empty(t, s.Selected())
}

func TestToggle_TwiceRestoresPriorState(t *testing.T) {
	s, err := New(freeSeats("A", "B", "C"), 3)
	require.NoError(t, err)
	_, err = s.Toggle("B")
	require.NoError(t, err)
	before := s.Selected()

	_, err = s.Toggle("A")
	require.NoError(t, err)
	_, err = s.Toggle("A")
	require.NoError(t, err)

	assert.Equal(t, before, s.Selected())
}

func TestToggle_PreservesSelectionOrder(t *testing.T) {
	s, err := New(freeSeats("A", "B", "C"), 3)
	require.NoError(t, err)

	for _, id := range []string{"A", "B", "A", "C"} {
		_, err := s.Toggle(id)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"B", "C"}, s.Selected())
}

func TestToggle_LimitScenario(t *testing.T) {
	s, err := New(freeSeats("A", "B", "C"), 2)
	require.NoError(t, err)

	_, err = s.Toggle("A")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, s.Selected())

	_, err = s.Toggle("B")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, s.Selected())

	_, err = s.Toggle("C")
	var limitErr *SelectionLimitExceededError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, "You can select up to 2 seat(s) for 2 passenger(s).", err.Error())
	assert.Equal(t, []string{"A", "B"}, s.Selected())

	_, err = s.Toggle("A")
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, s.Selected())

	seats, err := s.Finalize()
	require.NoError(t, err)
	assert.Equal(t, "B", seats)
}

func TestToggle_NeverExceedsLimit(t *testing.T) {
	ids := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	catalog := freeSeats(ids...)
	catalog = append(catalog, model.Seat{Id: "X", Available: false, Eligible: true})
	r := rand.New(rand.NewSource(1))

	for limit := 1; limit <= 4; limit++ {
		s, err := New(catalog, limit)
		require.NoError(t, err)
		for i := 0; i < 500; i++ {
			id := "X"
			if n := r.Intn(len(ids) + 2); n < len(ids) {
				id = ids[n]
			} else if n == len(ids) {
				id = "missing"
			}
			_, _ = s.Toggle(id)
			require.LessOrEqual(t, s.Len(), limit)

			seen := map[string]bool{}
			for _, sel := range s.Selected() {
				require.False(t, seen[sel], "duplicate %s", sel)
				seen[sel] = true
				seat, ok := s.Seat(sel)
				require.True(t, ok)
				require.True(t, seat.Usable())
			}
		}
	}
}

func TestFinalize_Empty(t *testing.T) {
	s, err := New(freeSeats("A"), 1)
	require.NoError(t, err)

	seats, err := s.Finalize()
	var empty *EmptySelectionError
	require.ErrorAs(t, err, &empty)
	assert.Empty(t, seats)
	assert.False(t, s.CanConfirm())
}

func TestFinalize_JoinsAndKeepsState(t *testing.T) {
	s, err := New(freeSeats("LB-1", "LB-2", "UB-7"), 6)
	require.NoError(t, err)
	for _, id := range []string{"UB-7", "LB-1"} {
		_, err := s.Toggle(id)
		require.NoError(t, err)
	}
	assert.True(t, s.CanConfirm())

	seats, err := s.Finalize()
	require.NoError(t, err)
	assert.Equal(t, "UB-7, LB-1", seats)
	assert.Equal(t, []string{"UB-7", "LB-1"}, s.Selected())
}

func TestSelected_ReturnsCopy(t *testing.T) {
	s, err := New(freeSeats("A", "B"), 2)
	require.NoError(t, err)
	_, err = s.Toggle("A")
	require.NoError(t, err)

	view := s.Selected()
	view[0] = "B"
	assert.Equal(t, []string{"A"}, s.Selected())
}

func TestObserver_OnlyOnSuccess(t *testing.T) {
	var events []Event
	s, err := New(freeSeats("A", "B"), 1, WithObserver(func(e Event) {
		events = append(events, e)
	}))
	require.NoError(t, err)

	_, err = s.Toggle("A")
	require.NoError(t, err)
	_, err = s.Toggle("B")
	require.Error(t, err)
	_, err = s.Toggle("nope")
	require.Error(t, err)
	_, err = s.Toggle("A")
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, Event{Kind: EventSelected, SeatID: "A", Count: 1, Limit: 1}, events[0])
	assert.Equal(t, Event{Kind: EventDeselected, SeatID: "A", Count: 0, Limit: 1}, events[1])
}

func TestClear(t *testing.T) {
	var resets int
	s, err := New(freeSeats("A"), 1, WithObserver(func(e Event) {
		if e.Kind == EventReset {
			resets++
		}
	}))
	require.NoError(t, err)

	s.Clear()
	assert.Equal(t, 0, resets)

	_, err = s.Toggle("A")
	require.NoError(t, err)
	s.Clear()
	assert.Equal(t, 1, resets)
	assert.Zero(t, s.Len())
}

func TestErrorsAreDistinct(t *testing.T) {
	var unknown *UnknownSeatError
	err := error(&SelectionLimitExceededError{Limit: 1})
	assert.False(t, errors.As(err, &unknown))
}

func TestGuidance(t *testing.T) {
	assert.Equal(t, "LB-3 seat selected. 2 seat(s) selected.", Announcement(Event{Kind: EventSelected, SeatID: "LB-3", Count: 2}))
	assert.Equal(t, "LB-3 seat deselected. 1 seat(s) selected.", Announcement(Event{Kind: EventDeselected, SeatID: "LB-3", Count: 1}))

	assert.Equal(t, "Please select at least one seat to continue", ConfirmHint(0, 2))
	assert.Equal(t, "You have selected 1 seat(s). You can select up to 2 seat(s) or proceed.", ConfirmHint(1, 2))
	assert.Equal(t, "2 seat(s) selected. Ready to confirm.", ConfirmHint(2, 2))

	assert.Equal(t, "No seats selected yet", Progress(0, 3))
	assert.Equal(t, "1 of 3 seat(s) selected", Progress(1, 3))
}
