package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"railbook-cli/applog"
	"railbook-cli/config"
	"railbook-cli/model"
	"railbook-cli/store"
)

var testNow = time.Date(2026, time.October, 19, 10, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T, now time.Time) (*App, *store.Store) {
	t.Helper()
	st, err := store.Open(t.TempDir(), time.Hour)
	require.NoError(t, err)
	return newTestAppWithStore(t, st, now), st
}

func newTestAppWithStore(t *testing.T, st *store.Store, now time.Time) *App {
	t.Helper()
	app := New(st, config.Default(), applog.Discard(), FixedClock(now))
	app.Auth.hashCost = bcrypt.MinCost
	app.Recorder.randN = func(int) int { return 42 }
	return app
}

func signupTestUser(t *testing.T, app *App, email string) model.User {
	t.Helper()
	user, err := app.Auth.Signup(SignupInput{
		Name:            "Test User",
		Email:           email,
		Password:        "secret1",
		ConfirmPassword: "secret1",
		AgreeTerms:      true,
	})
	require.NoError(t, err)
	return user
}

func testSearch(date string) model.SearchData {
	return model.SearchData{Origin: "Delhi", Destination: "Mumbai", Date: date, Passengers: "2"}
}
