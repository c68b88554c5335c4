package model

import "fmt"

const (
	MinFontSize     = 1
	MaxFontSize     = 5
	DefaultFontSize = 3
)

var fontSizeLabels = []string{"Small", "Default", "Large", "Extra Large", "Maximum"}

type Settings struct {
	FontSize     int  `json:"fontSize"`
	HighContrast bool `json:"highContrast"`
	DyslexiaFont bool `json:"dyslexiaFont"`
}

func DefaultSettings() Settings {
	return Settings{FontSize: DefaultFontSize}
}

func (s Settings) Validate() error {
	if s.FontSize < MinFontSize || s.FontSize > MaxFontSize {
		return fmt.Errorf("font size must be between %d and %d, got %d", MinFontSize, MaxFontSize, s.FontSize)
	}
	return nil
}

// FontSizeLabel names the font size step. Out-of-range values read as Default.
func (s Settings) FontSizeLabel() string {
	if s.FontSize < MinFontSize || s.FontSize > MaxFontSize {
		return fontSizeLabels[DefaultFontSize-1]
	}
	return fontSizeLabels[s.FontSize-1]
}
