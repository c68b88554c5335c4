package service

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"railbook-cli/model"
)

const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "demo123"
	DemoName     = "Demo User"

	MinPasswordLength = 6
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

type SignupInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	AgreeTerms      bool
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Auth struct {
	users    UserStore
	sessions SessionStore
	clock    Clock
	ttl      time.Duration
	recorder *Recorder
	log      *slog.Logger
	hashCost int
}

func NewAuth(users UserStore, sessions SessionStore, clock Clock, ttl time.Duration, recorder *Recorder, logger *slog.Logger) *Auth {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Auth{
		users:    users,
		sessions: sessions,
		clock:    clock,
		ttl:      ttl,
		recorder: recorder,
		log:      logger,
		hashCost: bcrypt.DefaultCost,
	}
}

// EnsureDemoUser seeds the demo account into an empty user store.
func (a *Auth) EnsureDemoUser() error {
	users, err := a.users.LoadUsers()
	if err != nil {
		return fmt.Errorf("loading users: %w", err)
	}
	if len(users) > 0 {
		return nil
	}
	hash, err := a.hashPassword(DemoPassword)
	if err != nil {
		return err
	}
	users = append(users, model.User{
		Id:           newUserID(),
		Email:        DemoEmail,
		PasswordHash: hash,
		Name:         DemoName,
		Bookings:     []model.Booking{},
		CreatedAt:    a.clock.Now().UTC(),
	})
	if err := a.users.SaveUsers(users); err != nil {
		return fmt.Errorf("saving users: %w", err)
	}
	a.log.Info("seeded demo user", slog.String("email", DemoEmail))
	return nil
}

func ValidateLogin(email string, password string) error {
	var fields FieldErrors
	validateEmail(&fields, "email", email)
	if password == "" {
		fields.add("password", "Password is required")
	}
	return fields.err()
}

func ValidateSignup(in SignupInput) error {
	var fields FieldErrors
	if strings.TrimSpace(in.Name) == "" {
		fields.add("name", "Name is required")
	}
	validateEmail(&fields, "email", in.Email)
	switch {
	case in.Password == "":
		fields.add("password", "Password is required")
	case len(in.Password) < MinPasswordLength:
		fields.add("password", fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}
	if in.Password != in.ConfirmPassword {
		fields.add("confirmPassword", "Passwords do not match")
	}
	if !in.AgreeTerms {
		fields.add("terms", "You must agree to the terms and conditions")
	}
	return fields.err()
}

func validateEmail(fields *FieldErrors, field string, email string) {
	email = strings.TrimSpace(email)
	switch {
	case email == "":
		fields.add(field, "Email is required")
	case !emailPattern.MatchString(email):
		fields.add(field, "Please enter a valid email")
	}
}

// Login checks the credentials, starts a session and files any booking that
// was confirmed while logged out. Signup does the same for a new account.
func (a *Auth) Login(email string, password string) (model.User, error) {
	email = strings.TrimSpace(email)
	if err := ValidateLogin(email, password); err != nil {
		return model.User{}, err
	}

	users, err := a.users.LoadUsers()
	if err != nil {
		return model.User{}, fmt.Errorf("loading users: %w", err)
	}
	i := findUser(users, email)
	if i < 0 {
		return model.User{}, ErrInvalidCredentials
	}
	if !a.checkPassword(users[i], password) {
		a.log.Warn("login rejected", slog.String("email", email))
		return model.User{}, ErrInvalidCredentials
	}
	if users[i].Id == "" {
		users[i].Id = newUserID()
		if err := a.users.SaveUsers(users); err != nil {
			return model.User{}, fmt.Errorf("saving users: %w", err)
		}
	}
	user := users[i]

	if err := a.startSession(user); err != nil {
		return model.User{}, err
	}
	a.log.Info("logged in", slog.String("user", user.Id))

	claimed, err := a.claimPending(user)
	if err != nil {
		return user, err
	}
	return claimed, nil
}

func (a *Auth) Signup(in SignupInput) (model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := ValidateSignup(in); err != nil {
		return model.User{}, err
	}

	users, err := a.users.LoadUsers()
	if err != nil {
		return model.User{}, fmt.Errorf("loading users: %w", err)
	}
	if findUser(users, in.Email) >= 0 {
		return model.User{}, ErrEmailTaken
	}
	hash, err := a.hashPassword(in.Password)
	if err != nil {
		return model.User{}, err
	}
	user := model.User{
		Id:           newUserID(),
		Email:        in.Email,
		PasswordHash: hash,
		Name:         in.Name,
		Bookings:     []model.Booking{},
		CreatedAt:    a.clock.Now().UTC(),
	}
	users = append(users, user)
	if err := a.users.SaveUsers(users); err != nil {
		return model.User{}, fmt.Errorf("saving users: %w", err)
	}
	if err := a.startSession(user); err != nil {
		return model.User{}, err
	}
	a.log.Info("signed up", slog.String("user", user.Id))
	return a.claimPending(user)
}

// Logout drops the login but keeps the saved search.
func (a *Auth) Logout() error {
	session, fresh, err := a.sessions.LoadSession()
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	if !fresh {
		return a.sessions.ClearSession()
	}
	session.Token = ""
	return a.sessions.SaveSession(session)
}

// CurrentUser resolves the logged-in user from the session token.
func (a *Auth) CurrentUser() (model.User, error) {
	session, fresh, err := a.sessions.LoadSession()
	if err != nil {
		return model.User{}, fmt.Errorf("loading session: %w", err)
	}
	if !fresh || session.Token == "" {
		return model.User{}, ErrNotLoggedIn
	}
	claims, err := a.parseToken(session.Token)
	if err != nil {
		a.log.Debug("discarding session token", slog.String("reason", err.Error()))
		return model.User{}, ErrNotLoggedIn
	}

	users, err := a.users.LoadUsers()
	if err != nil {
		return model.User{}, fmt.Errorf("loading users: %w", err)
	}
	i := findUser(users, claims.Email)
	if i < 0 || users[i].Id != claims.Subject {
		return model.User{}, ErrNotLoggedIn
	}
	return users[i], nil
}

// RequireUser is CurrentUser for flows that cannot continue logged out.
func (a *Auth) RequireUser() (model.User, error) {
	user, err := a.CurrentUser()
	if errors.Is(err, ErrNotLoggedIn) {
		return model.User{}, fmt.Errorf("%w: run railbook login first", ErrNotLoggedIn)
	}
	return user, err
}

func (a *Auth) IsLoggedIn() bool {
	_, err := a.CurrentUser()
	return err == nil
}

func (a *Auth) startSession(user model.User) error {
	token, err := a.issueToken(user)
	if err != nil {
		return err
	}
	session, _, err := a.sessions.LoadSession()
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	session.Token = token
	if err := a.sessions.SaveSession(session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

func (a *Auth) claimPending(user model.User) (model.User, error) {
	session, _, err := a.sessions.LoadSession()
	if err != nil {
		return user, fmt.Errorf("loading session: %w", err)
	}
	if session.Pending == nil || a.recorder == nil {
		return user, nil
	}
	booking, err := a.recorder.Record(user.Email, *session.Pending)
	if err != nil {
		return user, fmt.Errorf("recording pending booking: %w", err)
	}
	session.Pending = nil
	if err := a.sessions.SaveSession(session); err != nil {
		return user, fmt.Errorf("saving session: %w", err)
	}
	user.Bookings = append(user.Bookings, booking)
	return user, nil
}

func (a *Auth) issueToken(user model.User) (string, error) {
	key, err := a.sessions.SigningKey()
	if err != nil {
		return "", fmt.Errorf("loading session key: %w", err)
	}
	now := a.clock.Now()
	claims := sessionClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return token, nil
}

func (a *Auth) parseToken(raw string) (*sessionClaims, error) {
	key, err := a.sessions.SigningKey()
	if err != nil {
		return nil, fmt.Errorf("loading session key: %w", err)
	}
	claims := &sessionClaims{}
	_, err = jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.clock.Now))
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" || claims.Email == "" {
		return nil, errors.New("session token without subject")
	}
	return claims, nil
}

func (a *Auth) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.hashCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

func (a *Auth) checkPassword(user model.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
