package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"railbook-cli/service"
)

type formField struct {
	key         string
	label       string
	placeholder string
	secret      bool
}

// form is a column of text inputs with per-field validation messages.
type form struct {
	fields []formField
	inputs []textinput.Model
	errors map[string]string
	focus  int
}

func newForm(fields ...formField) form {
	f := form{fields: fields, errors: map[string]string{}}
	for _, field := range fields {
		in := textinput.New()
		in.Placeholder = field.placeholder
		in.Prompt = ""
		in.CharLimit = 64
		if field.secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		f.inputs = append(f.inputs, in)
	}
	f.focusField(0)
	return f
}

func (f *form) focusField(i int) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	i = (i + len(f.inputs)) % len(f.inputs)
	for j := range f.inputs {
		f.inputs[j].Blur()
	}
	f.focus = i
	return f.inputs[i].Focus()
}

func (f *form) next() tea.Cmd { return f.focusField(f.focus + 1) }

func (f *form) prev() tea.Cmd { return f.focusField(f.focus - 1) }

// onLast reports whether enter should submit rather than advance.
func (f form) onLast() bool { return f.focus == len(f.inputs)-1 }

func (f form) value(key string) string {
	for i, field := range f.fields {
		if field.key == key {
			return strings.TrimSpace(f.inputs[i].Value())
		}
	}
	return ""
}

func (f *form) setValue(key string, value string) {
	for i, field := range f.fields {
		if field.key == key {
			f.inputs[i].SetValue(value)
		}
	}
}

// setErrors shows field messages and moves focus to the first invalid field.
func (f *form) setErrors(fields service.FieldErrors) tea.Cmd {
	f.errors = map[string]string{}
	for _, fe := range fields {
		if _, ok := f.errors[fe.Field]; !ok {
			f.errors[fe.Field] = fe.Message
		}
	}
	first := fields.First()
	for i, field := range f.fields {
		if field.key == first {
			return f.focusField(i)
		}
	}
	return nil
}

func (f *form) clearErrors() {
	f.errors = map[string]string{}
}

func (f form) update(msg tea.Msg) (form, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f form) view(t theme) string {
	var b strings.Builder
	for i, field := range f.fields {
		marker := "  "
		if i == f.focus {
			marker = "> "
		}
		b.WriteString(marker + t.title.Render(field.label) + "\n")
		b.WriteString("  " + f.inputs[i].View() + "\n")
		if msg := f.errors[field.key]; msg != "" {
			b.WriteString("  " + t.errText.Render(msg) + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}
