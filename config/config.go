// Package config loads railbook settings from a single JSONC file.
//
// The file is chosen by the --config flag or the RAILBOOK_CONFIG environment
// variable. Without either, built-in defaults are used. Values present in the
// file replace the defaults field by field; // and /* */ comments and
// trailing commas are allowed.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tidwall/jsonc"

	"railbook-cli/model"
)

const EnvConfig = "RAILBOOK_CONFIG"

type Config struct {
	// DataDir overrides where users, settings and session files live.
	// Empty means the per-user config and cache directories.
	DataDir string `json:"data_dir"`

	// BookingPrefix starts every booking reference.
	BookingPrefix string `json:"booking_prefix"`

	// SessionTTL is how long a login and the saved search stay valid.
	SessionTTL Duration `json:"session_ttl"`

	MaxPassengers     int `json:"max_passengers"`
	DefaultPassengers int `json:"default_passengers"`

	// DemoUser seeds demo@example.com into an empty user store.
	DemoUser bool `json:"demo_user"`

	Fare   FareConfig    `json:"fare"`
	Seats  SeatConfig    `json:"seats"`
	Trains []model.Train `json:"trains"`
	Log    LogConfig     `json:"log"`
}

type FareConfig struct {
	// BasePerPassenger is charged once per passenger in the search.
	BasePerPassenger int `json:"base_per_passenger"`
	// ServiceCharge is added once per booking.
	ServiceCharge int    `json:"service_charge"`
	Currency      string `json:"currency"`
}

type BerthConfig struct {
	Name   model.Berth `json:"name"`
	Prefix string      `json:"prefix"`
	Count  int         `json:"count"`
}

type SeatConfig struct {
	Berths []BerthConfig `json:"berths"`
	// PerRow is the seat grid width used for rendering and up/down movement.
	PerRow int `json:"per_row"`
	// Blocked lists seat ids that can never be assigned.
	Blocked []string `json:"blocked"`
}

type LogConfig struct {
	// Level is one of debug, info, warn, error, off.
	Level string `json:"level"`
	// File defaults to railbook.log in the cache directory.
	File string `json:"file"`
}

// Duration reads "24h" style strings.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("duration must be a string like \"24h\": %w", err)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func Default() Config {
	return Config{
		BookingPrefix:     "IR",
		SessionTTL:        Duration{24 * time.Hour},
		MaxPassengers:     6,
		DefaultPassengers: 2,
		DemoUser:          true,
		Fare: FareConfig{
			BasePerPassenger: 2500,
			ServiceCharge:    50,
			Currency:         "₹",
		},
		Seats: SeatConfig{
			Berths: []BerthConfig{
				{Name: model.BerthLower, Prefix: "LB", Count: 18},
				{Name: model.BerthMiddle, Prefix: "MB", Count: 18},
				{Name: model.BerthUpper, Prefix: "UB", Count: 18},
			},
			PerRow: 6,
		},
		Trains: []model.Train{
			{Name: "Rajdhani Express", Number: "12345", Departure: "08:00", Arrival: "20:30", Coach: "A2", Class: "AC 2 Tier"},
			{Name: "Shatabdi Express", Number: "12002", Departure: "10:15", Arrival: "21:30", Coach: "A2", Class: "AC 2 Tier"},
			{Name: "Duronto Express", Number: "12213", Departure: "14:30", Arrival: "03:30", Coach: "A2", Class: "AC 2 Tier"},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path, or the file named by RAILBOOK_CONFIG when path is empty.
func Load(path string) (Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = strings.TrimSpace(os.Getenv(EnvConfig))
	}
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes JSONC data over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.BookingPrefix) == "" {
		errs = append(errs, errors.New("booking_prefix is required"))
	}
	if c.SessionTTL.Duration <= 0 {
		errs = append(errs, errors.New("session_ttl must be positive"))
	}
	if c.MaxPassengers < 1 {
		errs = append(errs, errors.New("max_passengers must be at least 1"))
	}
	if c.DefaultPassengers < 1 || c.DefaultPassengers > c.MaxPassengers {
		errs = append(errs, fmt.Errorf("default_passengers must be between 1 and %d", c.MaxPassengers))
	}
	if c.Fare.BasePerPassenger < 0 || c.Fare.ServiceCharge < 0 {
		errs = append(errs, errors.New("fare amounts cannot be negative"))
	}
	if c.Seats.PerRow < 1 {
		errs = append(errs, errors.New("seats.per_row must be at least 1"))
	}
	if len(c.Seats.Berths) == 0 {
		errs = append(errs, errors.New("seats.berths must list at least one berth"))
	}
	prefixes := map[string]bool{}
	for _, berth := range c.Seats.Berths {
		if berth.Prefix == "" || berth.Count < 1 {
			errs = append(errs, fmt.Errorf("berth %q needs a prefix and a positive count", berth.Name))
		}
		if prefixes[berth.Prefix] {
			errs = append(errs, fmt.Errorf("berth prefix %q used twice", berth.Prefix))
		}
		prefixes[berth.Prefix] = true
	}
	if len(c.Trains) == 0 {
		errs = append(errs, errors.New("trains must list at least one train"))
	}
	for _, train := range c.Trains {
		if strings.TrimSpace(train.Name) == "" || strings.TrimSpace(train.Number) == "" {
			errs = append(errs, errors.New("every train needs a name and a number"))
			break
		}
	}
	return errors.Join(errs...)
}
