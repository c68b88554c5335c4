package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"railbook-cli/model"
	"railbook-cli/service"
)

func (c *cli) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show and edit your account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.showProfile(cmd)
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show your account details",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.showProfile(cmd)
			},
		},
		c.profileUpdateCmd(),
		c.profilePrefsCmd(),
		c.profilePasswordCmd(),
		c.profileDeleteCmd(),
	)
	return cmd
}

func (c *cli) showProfile(cmd *cobra.Command) error {
	user, err := c.app.Profile.Show()
	if err != nil {
		return err
	}
	t := newTable(cmd.OutOrStdout(), nil)
	t.SetTitle("Profile")
	t.AppendRows([]table.Row{
		{"Name", user.Name},
		{"Email", user.Email},
		{"Phone", orDash(user.Phone)},
		{"Address", orDash(user.Address)},
		{"Notifications", onOff(user.Preferences.Notifications)},
		{"Remember seat preference", onOff(user.Preferences.SeatPreference)},
		{"Bookings", len(user.Bookings)},
	})
	t.Render()
	return nil
}

func (c *cli) profileUpdateCmd() *cobra.Command {
	var in service.ProfileInput
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update name, phone or address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.app.Profile.Show()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("name") {
				in.Name = user.Name
			}
			if !flags.Changed("phone") {
				in.Phone = user.Phone
			}
			if !flags.Changed("address") {
				in.Address = user.Address
			}
			if _, err := c.app.Profile.Update(in); err != nil {
				return formError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Profile updated.")
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "full name")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&in.Address, "address", "", "postal address")
	return cmd
}

func (c *cli) profilePrefsCmd() *cobra.Command {
	var prefs model.Preferences
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Save notification and seat preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.app.Profile.Show()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("notifications") {
				prefs.Notifications = user.Preferences.Notifications
			}
			if !flags.Changed("seat-preference") {
				prefs.SeatPreference = user.Preferences.SeatPreference
			}
			if _, err := c.app.Profile.SavePreferences(prefs); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Preferences saved.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&prefs.Notifications, "notifications", false, "email me about my bookings")
	cmd.Flags().BoolVar(&prefs.SeatPreference, "seat-preference", false, "remember my seat preference")
	return cmd
}

func (c *cli) profilePasswordCmd() *cobra.Command {
	var change service.PasswordChange
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change your password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.app.Auth.RequireUser(); err != nil {
				return err
			}
			var err error
			if change.Current, err = valueOrPrompt(change.Current, "Current password", true); err != nil {
				return err
			}
			if change.New, err = valueOrPrompt(change.New, "New password", true); err != nil {
				return err
			}
			if change.Confirm, err = valueOrPrompt(change.Confirm, "Confirm new password", true); err != nil {
				return err
			}
			if err := c.app.Profile.ChangePassword(change); err != nil {
				return formError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password changed.")
			return nil
		},
	}
	cmd.Flags().StringVar(&change.Current, "current", "", "current password")
	cmd.Flags().StringVar(&change.New, "new", "", "new password")
	cmd.Flags().StringVar(&change.Confirm, "confirm", "", "new password again")
	return cmd
}

func (c *cli) profileDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete your account and all of its bookings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.app.Auth.RequireUser(); err != nil {
				return err
			}
			if !yes && !promptConfirm("Delete your account and every booking? This cannot be undone") {
				fmt.Fprintln(cmd.OutOrStdout(), "Account kept.")
				return nil
			}
			if err := c.app.Profile.DeleteAccount(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Account deleted.")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
