package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"railbook-cli/applog"
	"railbook-cli/model"
)

func TestAccessibility_DefaultsAndSet(t *testing.T) {
	app, st := newTestApp(t, testNow)
	assert.Equal(t, model.DefaultSettings(), app.Accessibility.Current())

	settings, err := app.Accessibility.Set("font-size", "5")
	require.NoError(t, err)
	assert.Equal(t, "Maximum", settings.FontSizeLabel())
	_, err = app.Accessibility.Set("high-contrast", "true")
	require.NoError(t, err)

	reloaded := NewAccessibility(st, applog.Discard())
	got, err := reloaded.Load()
	require.NoError(t, err)
	assert.Equal(t, model.Settings{FontSize: 5, HighContrast: true}, got)
}

func TestAccessibility_RejectsBadValues(t *testing.T) {
	app, _ := newTestApp(t, testNow)

	_, err := app.Accessibility.SetFontSize(9)
	assert.Error(t, err)
	_, err = app.Accessibility.Set("dyslexia-font", "maybe")
	assert.Error(t, err)
	_, err = app.Accessibility.Set("colour", "blue")
	assert.Error(t, err)
	assert.Equal(t, model.DefaultSettings(), app.Accessibility.Current())
}

func TestAccessibility_Reset(t *testing.T) {
	app, _ := newTestApp(t, testNow)
	_, err := app.Accessibility.SetDyslexiaFont(true)
	require.NoError(t, err)
	_, err = app.Accessibility.SetFontSize(1)
	require.NoError(t, err)

	settings, err := app.Accessibility.Reset()
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), settings)
	assert.Equal(t, model.DefaultSettings(), app.Accessibility.Current())
}
