package service

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"railbook-cli/model"
)

type ProfileInput struct {
	Name    string
	Phone   string
	Address string
}

type PasswordChange struct {
	Current string
	New     string
	Confirm string
}

type Profile struct {
	auth  *Auth
	users UserStore
	log   *slog.Logger
}

func NewProfile(auth *Auth, users UserStore, logger *slog.Logger) *Profile {
	return &Profile{auth: auth, users: users, log: logger}
}

func (p *Profile) Show() (model.User, error) {
	return p.auth.RequireUser()
}

func (p *Profile) Update(in ProfileInput) (model.User, error) {
	user, err := p.auth.RequireUser()
	if err != nil {
		return model.User{}, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return model.User{}, FieldErrors{{Field: "name", Message: "Name is required"}}
	}
	return updateUser(p.users, user.Email, func(u *model.User) error {
		u.Name = in.Name
		u.Phone = strings.TrimSpace(in.Phone)
		u.Address = strings.TrimSpace(in.Address)
		return nil
	})
}

func (p *Profile) SavePreferences(prefs model.Preferences) (model.User, error) {
	user, err := p.auth.RequireUser()
	if err != nil {
		return model.User{}, err
	}
	return updateUser(p.users, user.Email, func(u *model.User) error {
		u.Preferences = prefs
		return nil
	})
}

func (p *Profile) ChangePassword(change PasswordChange) error {
	user, err := p.auth.RequireUser()
	if err != nil {
		return err
	}
	var fields FieldErrors
	if change.Current == "" {
		fields.add("currentPassword", "Current password is required")
	}
	if len(change.New) < MinPasswordLength {
		fields.add("newPassword", fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}
	if change.New != change.Confirm {
		fields.add("confirmPassword", "Passwords do not match")
	}
	if err := fields.err(); err != nil {
		return err
	}
	if !p.auth.checkPassword(user, change.Current) {
		return ErrIncorrectPassword
	}
	hash, err := p.auth.hashPassword(change.New)
	if err != nil {
		return err
	}
	_, err = updateUser(p.users, user.Email, func(u *model.User) error {
		u.PasswordHash = hash
		return nil
	})
	if err != nil {
		return err
	}
	p.log.Info("password changed", slog.String("user", user.Id))
	return nil
}

// DeleteAccount removes the user with all of their bookings and logs out.
func (p *Profile) DeleteAccount() error {
	user, err := p.auth.RequireUser()
	if err != nil {
		return err
	}
	users, err := p.users.LoadUsers()
	if err != nil {
		return fmt.Errorf("loading users: %w", err)
	}
	i := findUser(users, user.Email)
	if i < 0 {
		return ErrUserNotFound
	}
	users = slices.Delete(users, i, i+1)
	if err := p.users.SaveUsers(users); err != nil {
		return fmt.Errorf("saving users: %w", err)
	}
	p.log.Info("account deleted", slog.String("user", user.Id))
	return p.auth.Logout()
}
