package cmd

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"railbook-cli/model"
	"railbook-cli/service"
)

func (c *cli) settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Accessibility settings for the interactive app",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderSettings(cmd.OutOrStdout(), c.app.Accessibility.Current())
			return nil
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the current settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				renderSettings(cmd.OutOrStdout(), c.app.Accessibility.Current())
				return nil
			},
		},
		&cobra.Command{
			Use:       "set KEY VALUE",
			Short:     "Change one setting",
			Long:      `Change one setting: font-size (1-5), high-contrast (true/false) or dyslexia-font (true/false).`,
			Args:      cobra.ExactArgs(2),
			ValidArgs: []string{service.SettingFontSize, service.SettingHighContrast, service.SettingDyslexiaFont},
			RunE: func(cmd *cobra.Command, args []string) error {
				settings, err := c.app.Accessibility.Set(args[0], args[1])
				if err != nil {
					return err
				}
				renderSettings(cmd.OutOrStdout(), settings)
				return nil
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Restore the default settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				settings, err := c.app.Accessibility.Reset()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Settings reset to defaults.")
				renderSettings(cmd.OutOrStdout(), settings)
				return nil
			},
		},
	)
	return cmd
}

func renderSettings(out io.Writer, s model.Settings) {
	t := newTable(out, table.Row{"Setting", "Value"})
	t.AppendRows([]table.Row{
		{service.SettingFontSize, fmt.Sprintf("%d (%s)", s.FontSize, s.FontSizeLabel())},
		{service.SettingHighContrast, onOff(s.HighContrast)},
		{service.SettingDyslexiaFont, onOff(s.DyslexiaFont)},
	})
	t.Render()
}
