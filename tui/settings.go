package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"railbook-cli/model"
	"railbook-cli/service"
)

type settingItem struct {
	key   string
	label string
	value string
}

func (s settingItem) Title() string       { return s.label }
func (s settingItem) Description() string { return s.value }
func (s settingItem) FilterValue() string { return s.label }

func buildSettingItems(s model.Settings) []list.Item {
	return []list.Item{
		settingItem{key: service.SettingFontSize, label: "Font size", value: fmt.Sprintf("%s (%d of %d) • wider seat cells", s.FontSizeLabel(), s.FontSize, model.MaxFontSize)},
		settingItem{key: service.SettingHighContrast, label: "High contrast", value: onOff(s.HighContrast)},
		settingItem{key: service.SettingDyslexiaFont, label: "Dyslexia friendly text", value: onOff(s.DyslexiaFont)},
	}
}

func (m appModel) handleSettingsKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	item, _ := m.settingsList.SelectedItem().(settingItem)
	current := m.app.Accessibility.Current()
	var (
		settings model.Settings
		err      error
	)
	switch msg.String() {
	case "enter", " ":
		switch item.key {
		case service.SettingFontSize:
			next := current.FontSize%model.MaxFontSize + 1
			settings, err = m.app.Accessibility.Set(item.key, strconv.Itoa(next))
		case service.SettingHighContrast:
			settings, err = m.app.Accessibility.SetHighContrast(!current.HighContrast)
		case service.SettingDyslexiaFont:
			settings, err = m.app.Accessibility.SetDyslexiaFont(!current.DyslexiaFont)
		default:
			return m, nil, true
		}
	case "+", "=":
		settings, err = m.app.Accessibility.SetFontSize(min(current.FontSize+1, model.MaxFontSize))
	case "-":
		settings, err = m.app.Accessibility.SetFontSize(max(current.FontSize-1, model.MinFontSize))
	case "r":
		settings, err = m.app.Accessibility.Reset()
	default:
		return m, nil, false
	}
	if err != nil {
		m.notice = err.Error()
		return m, nil, true
	}
	m.applySettings(settings)
	m.notice = "Settings saved."
	return m, nil, true
}

func (m *appModel) applySettings(s model.Settings) {
	m.theme = newTheme(s)
	index := m.settingsList.Index()
	m.settingsList.SetItems(buildSettingItems(s))
	m.settingsList.Select(index)
}

func onOff(on bool) string {
	if on {
		return "On"
	}
	return "Off"
}
