package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"railbook-cli/model"
)

func setTestConfigDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))
	return root
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	setTestConfigDir(t)
	s, err := Open("", time.Hour)
	require.NoError(t, err)
	return s
}

func TestOpen_UsesUserDirs(t *testing.T) {
	root := setTestConfigDir(t)
	s, err := Open("", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "config", "railbook"), s.ConfigDir())
	assert.Equal(t, filepath.Join(root, "cache", "railbook"), s.CacheDir())

	s, err = Open(filepath.Join(root, "data"), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "data"), s.ConfigDir())
	assert.Equal(t, filepath.Join(root, "data", "cache"), s.CacheDir())
}

func TestUsers_RoundTrip(t *testing.T) {
	s := openTestStore(t)

	users, err := s.LoadUsers()
	require.NoError(t, err)
	assert.Empty(t, users)

	want := []model.User{{
		Id:    "u1",
		Email: "a@example.com",
		Name:  "A",
		Bookings: []model.Booking{{
			Train: "Rajdhani Express", TrainNo: "12345", Seats: "LB-1, LB-2",
			Date: "2026-12-15", Passengers: 2, Fare: 5050, BookingRef: "IR-2026-10-19-000042",
			Status: model.StatusConfirmed,
		}},
	}}
	require.NoError(t, s.SaveUsers(want))

	users, err = s.LoadUsers()
	require.NoError(t, err)
	assert.Equal(t, want, users)

	entries, err := os.ReadDir(s.ConfigDir())
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
}

func TestUsers_LegacyArray(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, os.MkdirAll(s.ConfigDir(), 0o755))
	legacy := `[{"email":"demo@example.com","name":"Demo User","bookings":[]}]`
	require.NoError(t, os.WriteFile(filepath.Join(s.ConfigDir(), usersFile), []byte(legacy), 0o600))

	users, err := s.LoadUsers()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Demo User", users[0].Name)
}

func TestUsers_InvalidFormat(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, os.MkdirAll(s.ConfigDir(), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(s.ConfigDir(), usersFile), []byte(`"nope"`), 0o600))

	_, err := s.LoadUsers()
	require.Error(t, err)
}

func TestSession_TTL(t *testing.T) {
	s := openTestStore(t)

	_, fresh, err := s.LoadSession()
	require.NoError(t, err)
	assert.False(t, fresh)

	search := &model.SearchData{Origin: "Mumbai", Destination: "Delhi", Date: "2026-12-15", Passengers: "2"}
	require.NoError(t, s.SaveSession(model.Session{Token: "t", Search: search}))

	session, fresh, err := s.LoadSession()
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.Equal(t, "t", session.Token)
	assert.Equal(t, search, session.Search)

	s.sessionTTL = time.Nanosecond
	time.Sleep(time.Millisecond)
	session, fresh, err = s.LoadSession()
	require.NoError(t, err)
	assert.False(t, fresh)
	assert.Empty(t, session.Token)

	require.NoError(t, s.ClearSession())
	require.NoError(t, s.ClearSession())
}

func TestSettings_MergeAndValidate(t *testing.T) {
	s := openTestStore(t)

	settings, err := s.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), settings)

	require.NoError(t, os.MkdirAll(s.ConfigDir(), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(s.ConfigDir(), settingsFile), []byte(`{"highContrast":true}`), 0o644))
	settings, err = s.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, model.Settings{FontSize: 3, HighContrast: true}, settings)

	require.Error(t, s.SaveSettings(model.Settings{FontSize: 9}))
	require.NoError(t, s.SaveSettings(model.Settings{FontSize: 5, DyslexiaFont: true}))
	settings, err = s.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, model.Settings{FontSize: 5, DyslexiaFont: true}, settings)
}

func TestSigningKey_Stable(t *testing.T) {
	s := openTestStore(t)

	first, err := s.SigningKey()
	require.NoError(t, err)
	assert.Len(t, first, signingKeyBytes)

	second, err := s.SigningKey()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSeatMap_RoundTrip(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.LoadSeatMap("12345", "2026-12-15")
	require.NoError(t, err)
	assert.False(t, ok)

	seatMap := model.SeatMap{TrainNo: "12345", Date: "2026-12-15", Seats: []model.Seat{
		{Id: "LB-1", Berth: model.BerthLower, Available: true, Eligible: true},
	}}
	require.NoError(t, s.SaveSeatMap(seatMap))

	got, ok, err := s.LoadSeatMap("12345", "2026-12-15")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, seatMap, got)

	_, _, err = s.LoadSeatMap("../etc", "2026-12-15")
	require.Error(t, err)
	_, _, err = s.LoadSeatMap("", "2026-12-15")
	require.Error(t, err)
}
