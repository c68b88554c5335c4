package store

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"railbook-cli/model"
)

const (
	appDir          = "railbook"
	usersFile       = "users.json"
	settingsFile    = "settings.json"
	sessionFile     = "session.json"
	signingKeyFile  = "session.key"
	seatMapsDir     = "seatmaps"
	signingKeyBytes = 32
)

type cacheEnvelope[T any] struct {
	UpdatedAt time.Time `json:"updated_at"`
	Data      T         `json:"data"`
}

type userTable struct {
	Users []model.User `json:"users"`
}

// Store keeps durable records (users, settings, signing key, seat maps) in
// the config directory and the short-lived session in the cache directory.
type Store struct {
	configDir  string
	cacheDir   string
	sessionTTL time.Duration
}

// Open resolves the directories. A non-empty dataDir holds everything, with
// the session under dataDir/cache.
func Open(dataDir string, sessionTTL time.Duration) (*Store, error) {
	dataDir = strings.TrimSpace(dataDir)
	if dataDir != "" {
		return &Store{
			configDir:  dataDir,
			cacheDir:   filepath.Join(dataDir, "cache"),
			sessionTTL: sessionTTL,
		}, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}
	return &Store{
		configDir:  filepath.Join(configDir, appDir),
		cacheDir:   filepath.Join(cacheDir, appDir),
		sessionTTL: sessionTTL,
	}, nil
}

func (s *Store) ConfigDir() string { return s.configDir }

func (s *Store) CacheDir() string { return s.cacheDir }

func (s *Store) LoadUsers() ([]model.User, error) {
	data, err := os.ReadFile(s.configPath(usersFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var table userTable
	if err := json.Unmarshal(data, &table); err == nil {
		return table.Users, nil
	}

	// Bare array, as the browser kept it under localStorage "users".
	var legacy []model.User
	if err := json.Unmarshal(data, &legacy); err == nil {
		return legacy, nil
	}

	return nil, errors.New("invalid user store format")
}

// SaveUsers replaces the whole user table in one write.
func (s *Store) SaveUsers(users []model.User) error {
	if users == nil {
		users = []model.User{}
	}
	return writeJSON(s.configPath(usersFile), userTable{Users: users}, 0o600)
}

// LoadSession returns the saved session and whether it is still within the
// session TTL. A missing or stale session comes back empty.
func (s *Store) LoadSession() (model.Session, bool, error) {
	cache, err := loadCache[model.Session](s.cachePath(sessionFile))
	if err != nil {
		return model.Session{}, false, err
	}
	if cache.UpdatedAt.IsZero() {
		return model.Session{}, false, nil
	}
	if s.sessionTTL > 0 && time.Since(cache.UpdatedAt) > s.sessionTTL {
		return model.Session{}, false, nil
	}
	return cache.Data, true, nil
}

func (s *Store) SaveSession(session model.Session) error {
	session.UpdatedAt = time.Now()
	return saveCache(s.cachePath(sessionFile), session)
}

func (s *Store) ClearSession() error {
	err := os.Remove(s.cachePath(sessionFile))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// LoadSettings merges the saved settings over the defaults.
func (s *Store) LoadSettings() (model.Settings, error) {
	settings := model.DefaultSettings()
	data, err := os.ReadFile(s.configPath(settingsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, err
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		return model.DefaultSettings(), errors.New("invalid accessibility settings format")
	}
	if settings.Validate() != nil {
		settings.FontSize = model.DefaultFontSize
	}
	return settings, nil
}

func (s *Store) SaveSettings(settings model.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	return writeJSON(s.configPath(settingsFile), settings, 0o644)
}

// SigningKey returns the session signing key, creating it on first use.
func (s *Store) SigningKey() ([]byte, error) {
	path := s.configPath(signingKeyFile)
	key, err := os.ReadFile(path)
	if err == nil && len(key) == signingKeyBytes {
		return key, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	key = make([]byte, signingKeyBytes)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generating session key: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, key, 0o600); err != nil {
		return nil, err
	}
	return key, nil
}

// LoadSeatMap reads an explicit seat map for a train and date. ok is false
// when none was saved.
func (s *Store) LoadSeatMap(trainNo string, date string) (model.SeatMap, bool, error) {
	path, err := s.seatMapPath(trainNo, date)
	if err != nil {
		return model.SeatMap{}, false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.SeatMap{}, false, nil
		}
		return model.SeatMap{}, false, err
	}
	var seatMap model.SeatMap
	if err := json.Unmarshal(data, &seatMap); err != nil {
		return model.SeatMap{}, false, fmt.Errorf("invalid seat map %s: %w", filepath.Base(path), err)
	}
	return seatMap, true, nil
}

func (s *Store) SaveSeatMap(seatMap model.SeatMap) error {
	path, err := s.seatMapPath(seatMap.TrainNo, seatMap.Date)
	if err != nil {
		return err
	}
	return writeJSON(path, seatMap, 0o644)
}

func (s *Store) seatMapPath(trainNo string, date string) (string, error) {
	trainNo = strings.TrimSpace(trainNo)
	date = strings.TrimSpace(date)
	if trainNo == "" || date == "" {
		return "", errors.New("train number and date are required")
	}
	if strings.ContainsAny(trainNo+date, `/\`) || strings.Contains(trainNo+date, "..") {
		return "", errors.New("invalid train number or date")
	}
	return s.configPath(filepath.Join(seatMapsDir, fmt.Sprintf("%s_%s.json", trainNo, date))), nil
}

func loadCache[T any](path string) (cacheEnvelope[T], error) {
	var cache cacheEnvelope[T]
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cache, nil
		}
		return cache, err
	}
	if err := json.Unmarshal(data, &cache); err != nil {
		return cache, err
	}
	return cache, nil
}

func saveCache[T any](path string, data T) error {
	cache := cacheEnvelope[T]{
		UpdatedAt: time.Now(),
		Data:      data,
	}
	return writeJSON(path, cache, 0o600)
}

// writeJSON replaces path through a temp file and rename.
func writeJSON(path string, value any, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

func (s *Store) configPath(name string) string {
	return filepath.Join(s.configDir, name)
}

func (s *Store) cachePath(name string) string {
	return filepath.Join(s.cacheDir, name)
}
