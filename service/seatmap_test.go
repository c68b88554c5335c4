package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"railbook-cli/model"
)

func seatByID(t *testing.T, seatMap model.SeatMap, id string) model.Seat {
	t.Helper()
	for _, seat := range seatMap.Seats {
		if seat.Id == id {
			return seat
		}
	}
	t.Fatalf("seat %s not in map", id)
	return model.Seat{}
}

func TestSeatMap_DefaultLayout(t *testing.T) {
	app, _ := newTestApp(t, testNow)
	seatMap, err := app.SeatMaps.SeatMap("12345", "2026-12-15")
	require.NoError(t, err)
	assert.Len(t, seatMap.Seats, 54)
	assert.Equal(t, []model.Berth{model.BerthLower, model.BerthMiddle, model.BerthUpper}, seatMap.Berths())
	assert.True(t, seatByID(t, seatMap, "UB-18").Usable())
	assert.Equal(t, 6, app.SeatMaps.PerRow())
}

func TestSeatMap_BookedSeatsAreOccupied(t *testing.T) {
	app, _ := newTestApp(t, testNow)
	signupTestUser(t, app, "rider@example.com")
	search := testSearch("2026-12-15")
	sel := newTestSelection(t, app, search.Date, "LB-4", "MB-4")
	booking, err := app.Checkout.Confirm(search, app.Trains.Lookup("12345"), sel)
	require.NoError(t, err)

	seatMap, err := app.SeatMaps.SeatMap("12345", "2026-12-15")
	require.NoError(t, err)
	assert.False(t, seatByID(t, seatMap, "LB-4").Available)
	assert.False(t, seatByID(t, seatMap, "MB-4").Available)

	other, err := app.SeatMaps.SeatMap("12345", "2026-12-16")
	require.NoError(t, err)
	assert.True(t, seatByID(t, other, "LB-4").Available)

	_, err = app.Tickets.Cancel(booking.BookingRef)
	require.NoError(t, err)
	seatMap, err = app.SeatMaps.SeatMap("12345", "2026-12-15")
	require.NoError(t, err)
	assert.True(t, seatByID(t, seatMap, "LB-4").Available)
}

func TestSeatMap_SavedOverride(t *testing.T) {
	app, st := newTestApp(t, testNow)
	require.NoError(t, st.SaveSeatMap(model.SeatMap{
		TrainNo: "12002",
		Date:    "2026-12-15",
		Seats: []model.Seat{
			{Id: "A-1", Berth: model.BerthLower, Available: true, Eligible: true},
			{Id: "A-2", Berth: model.BerthLower, Available: false, Eligible: true},
		},
	}))

	seatMap, err := app.SeatMaps.SeatMap("12002", "2026-12-15")
	require.NoError(t, err)
	require.Len(t, seatMap.Seats, 2)
	assert.True(t, seatByID(t, seatMap, "A-1").Usable())
	assert.False(t, seatByID(t, seatMap, "A-2").Usable())
}

func TestSeatMap_Blocked(t *testing.T) {
	app, _ := newTestApp(t, testNow)
	app.SeatMaps.layout.Blocked = []string{"LB-1"}

	seatMap, err := app.SeatMaps.SeatMap("12345", "2026-12-15")
	require.NoError(t, err)
	seat := seatByID(t, seatMap, "LB-1")
	assert.True(t, seat.Available)
	assert.False(t, seat.Eligible)
}

func TestSeatMap_RequiresTrainAndDate(t *testing.T) {
	app, _ := newTestApp(t, testNow)
	_, err := app.SeatMaps.SeatMap("", "2026-12-15")
	assert.Error(t, err)
}
