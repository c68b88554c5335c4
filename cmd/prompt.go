package cmd

import (
	"errors"
	"strings"

	"github.com/manifoldco/promptui"
)

func promptText(label string, current string) (string, error) {
	prompt := promptui.Prompt{
		Label:   label,
		Default: current,
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("required")
			}
			return nil
		},
	}
	return prompt.Run()
}

func promptSecret(label string) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Mask:  '*',
	}
	return prompt.Run()
}

// promptConfirm asks a yes/no question. Anything but yes reads as no.
func promptConfirm(label string) bool {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	_, err := prompt.Run()
	return err == nil
}

func promptSelect(label string, items []string) (string, error) {
	selectItem := promptui.Select{
		Label: label,
		Items: items,
		Size:  10,
		Searcher: func(input string, index int) bool {
			return strings.Contains(strings.ToLower(items[index]), strings.ToLower(input))
		},
	}
	_, item, err := selectItem.Run()
	return item, err
}

// valueOrPrompt returns value, prompting for it when it is empty.
func valueOrPrompt(value string, label string, secret bool) (string, error) {
	if value != "" {
		return value, nil
	}
	if secret {
		return promptSecret(label)
	}
	return promptText(label, "")
}
