package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"railbook-cli/model"
)

func TestProfile_Update(t *testing.T) {
	app, _ := newTestApp(t, testNow)
	signupTestUser(t, app, "rider@example.com")

	_, err := app.Profile.Update(ProfileInput{Name: "  "})
	fields, ok := AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Name is required", fields.Get("name"))

	user, err := app.Profile.Update(ProfileInput{Name: "Asha", Phone: " 98765 ", Address: "Pune"})
	require.NoError(t, err)
	assert.Equal(t, "Asha", user.Name)
	assert.Equal(t, "98765", user.Phone)

	shown, err := app.Profile.Show()
	require.NoError(t, err)
	assert.Equal(t, "Pune", shown.Address)
}

func TestProfile_SavePreferences(t *testing.T) {
	app, _ := newTestApp(t, testNow)
	signupTestUser(t, app, "rider@example.com")

	user, err := app.Profile.SavePreferences(model.Preferences{Notifications: true})
	require.NoError(t, err)
	assert.True(t, user.Preferences.Notifications)
	assert.False(t, user.Preferences.SeatPreference)
}

func TestProfile_ChangePassword(t *testing.T) {
	app, _ := newTestApp(t, testNow)
	signupTestUser(t, app, "rider@example.com")

	err := app.Profile.ChangePassword(PasswordChange{Current: "wrong1", New: "newpass", Confirm: "newpass"})
	assert.ErrorIs(t, err, ErrIncorrectPassword)

	err = app.Profile.ChangePassword(PasswordChange{Current: "secret1", New: "short", Confirm: "other"})
	fields, ok := AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "newPassword", fields.First())
	assert.Equal(t, "Passwords do not match", fields.Get("confirmPassword"))

	require.NoError(t, app.Profile.ChangePassword(PasswordChange{Current: "secret1", New: "newpass", Confirm: "newpass"}))
	require.NoError(t, app.Auth.Logout())
	_, err = app.Auth.Login("rider@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = app.Auth.Login("rider@example.com", "newpass")
	assert.NoError(t, err)
}

func TestProfile_DeleteAccount(t *testing.T) {
	app, st := newTestApp(t, testNow)
	signupTestUser(t, app, "keep@example.com")
	signupTestUser(t, app, "rider@example.com")

	require.NoError(t, app.Profile.DeleteAccount())
	assert.False(t, app.Auth.IsLoggedIn())

	users, err := st.LoadUsers()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "keep@example.com", users[0].Email)
}
