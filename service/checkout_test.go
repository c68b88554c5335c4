package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"railbook-cli/seating"
)

func newTestSelection(t *testing.T, app *App, search string, seats ...string) *seating.Selection {
	t.Helper()
	seatMap, err := app.SeatMaps.SeatMap("12345", search)
	require.NoError(t, err)
	sel, err := seating.New(seatMap.Seats, 2)
	require.NoError(t, err)
	for _, id := range seats {
		_, err := sel.Toggle(id)
		require.NoError(t, err)
	}
	return sel
}

func TestCheckout_RecordsForLoggedInUser(t *testing.T) {
	app, st := newTestApp(t, testNow)
	signupTestUser(t, app, "rider@example.com")
	search := testSearch("2026-12-15")
	train := app.Trains.Lookup("Rajdhani Express")
	sel := newTestSelection(t, app, search.Date, "LB-1", "LB-2")

	booking, err := app.Checkout.Confirm(search, train, sel)
	require.NoError(t, err)
	assert.Equal(t, "IR-2026-10-19-000042", booking.BookingRef)
	assert.Equal(t, "LB-1, LB-2", booking.Seats)
	assert.Equal(t, 5050, booking.Fare)
	assert.Equal(t, "12345", booking.TrainNo)
	assert.Equal(t, 0, sel.Len())

	users, err := st.LoadUsers()
	require.NoError(t, err)
	require.Len(t, users[0].Bookings, 1)
	assert.Equal(t, booking.BookingRef, users[0].Bookings[0].BookingRef)
}

func TestCheckout_FareFollowsPassengers(t *testing.T) {
	app, _ := newTestApp(t, testNow)
	search := testSearch("2026-12-15")
	search.Passengers = "3"

	draft := app.Checkout.Draft(search, app.Trains.Lookup("12002"), "UB-1")
	assert.Equal(t, 3, draft.Passengers)
	assert.Equal(t, 3*2500+50, draft.Fare)
	assert.Equal(t, "Shatabdi Express", draft.Train)
}

func TestCheckout_KeepsPendingUntilLogin(t *testing.T) {
	app, _ := newTestApp(t, testNow)
	require.NoError(t, app.Auth.EnsureDemoUser())
	search := testSearch("2026-12-15")
	sel := newTestSelection(t, app, search.Date, "MB-3")

	_, err := app.Checkout.Confirm(search, app.Trains.Lookup(""), sel)
	require.ErrorIs(t, err, ErrLoginRequired)
	assert.Equal(t, 1, sel.Len())

	draft, ok, err := app.Checkout.Pending()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "MB-3", draft.Seats)

	user, err := app.Auth.Login(DemoEmail, DemoPassword)
	require.NoError(t, err)
	require.Len(t, user.Bookings, 1)
	assert.Equal(t, "MB-3", user.Bookings[0].Seats)

	_, ok, err = app.Checkout.Pending()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckout_EmptySelection(t *testing.T) {
	app, _ := newTestApp(t, testNow)
	signupTestUser(t, app, "rider@example.com")
	sel := newTestSelection(t, app, "2026-12-15")

	_, err := app.Checkout.Confirm(testSearch("2026-12-15"), app.Trains.Lookup(""), sel)
	var empty *seating.EmptySelectionError
	assert.True(t, errors.As(err, &empty), "got %v", err)
}

func TestBookingReference(t *testing.T) {
	assert.Equal(t, "IR-2026-10-19-000007", BookingReference("IR", testNow, 7))
	assert.Equal(t, "IR-2026-10-19-999999", BookingReference("IR", testNow, 999_999))
}
