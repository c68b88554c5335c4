package service

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"railbook-cli/model"
)

// Setting keys accepted by Accessibility.Set.
const (
	SettingFontSize     = "font-size"
	SettingHighContrast = "high-contrast"
	SettingDyslexiaFont = "dyslexia-font"
)

// Accessibility holds one caller-owned copy of the display settings and
// writes every change through to the store.
type Accessibility struct {
	store   SettingsStore
	current model.Settings
	loaded  bool
	log     *slog.Logger
}

func NewAccessibility(store SettingsStore, logger *slog.Logger) *Accessibility {
	return &Accessibility{store: store, current: model.DefaultSettings(), log: logger}
}

func (a *Accessibility) Load() (model.Settings, error) {
	settings, err := a.store.LoadSettings()
	if err != nil {
		return a.current, fmt.Errorf("loading settings: %w", err)
	}
	a.current = settings
	a.loaded = true
	return settings, nil
}

// Current returns the settings, loading them on first use. A broken settings
// file falls back to defaults.
func (a *Accessibility) Current() model.Settings {
	if !a.loaded {
		if _, err := a.Load(); err != nil {
			a.log.Warn("using default settings", slog.String("error", err.Error()))
			a.loaded = true
		}
	}
	return a.current
}

func (a *Accessibility) SetFontSize(size int) (model.Settings, error) {
	return a.update(func(s *model.Settings) { s.FontSize = size })
}

func (a *Accessibility) SetHighContrast(on bool) (model.Settings, error) {
	return a.update(func(s *model.Settings) { s.HighContrast = on })
}

func (a *Accessibility) SetDyslexiaFont(on bool) (model.Settings, error) {
	return a.update(func(s *model.Settings) { s.DyslexiaFont = on })
}

// Set updates one setting from its textual key and value.
func (a *Accessibility) Set(key string, value string) (model.Settings, error) {
	value = strings.TrimSpace(value)
	switch strings.ToLower(strings.TrimSpace(key)) {
	case SettingFontSize, "fontsize":
		size, err := strconv.Atoi(value)
		if err != nil {
			return a.current, fmt.Errorf("font size must be a number between %d and %d", model.MinFontSize, model.MaxFontSize)
		}
		return a.SetFontSize(size)
	case SettingHighContrast, "highcontrast":
		on, err := strconv.ParseBool(value)
		if err != nil {
			return a.current, fmt.Errorf("high contrast must be true or false")
		}
		return a.SetHighContrast(on)
	case SettingDyslexiaFont, "dyslexiafont":
		on, err := strconv.ParseBool(value)
		if err != nil {
			return a.current, fmt.Errorf("dyslexia font must be true or false")
		}
		return a.SetDyslexiaFont(on)
	}
	return a.current, fmt.Errorf("unknown setting %q (use %s, %s or %s)", key, SettingFontSize, SettingHighContrast, SettingDyslexiaFont)
}

func (a *Accessibility) Reset() (model.Settings, error) {
	return a.save(model.DefaultSettings())
}

func (a *Accessibility) update(fn func(*model.Settings)) (model.Settings, error) {
	next := a.Current()
	fn(&next)
	return a.save(next)
}

func (a *Accessibility) save(next model.Settings) (model.Settings, error) {
	if err := next.Validate(); err != nil {
		return a.current, err
	}
	if err := a.store.SaveSettings(next); err != nil {
		return a.current, fmt.Errorf("saving settings: %w", err)
	}
	a.current = next
	a.loaded = true
	return next, nil
}
