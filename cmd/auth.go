package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"railbook-cli/service"
)

func (c *cli) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to your account",
		Long:  `Log in with email and password. A booking confirmed while logged out is filed to your account.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if email, err = valueOrPrompt(email, "Email", false); err != nil {
				return err
			}
			if password, err = valueOrPrompt(password, "Password", true); err != nil {
				return err
			}
			user, err := c.app.Auth.Login(email, password)
			if err != nil {
				return formError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome back, %s!\n", user.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when empty)")
	return cmd
}

func (c *cli) signupCmd() *cobra.Command {
	var in service.SignupInput
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if in.Name, err = valueOrPrompt(in.Name, "Full name", false); err != nil {
				return err
			}
			if in.Email, err = valueOrPrompt(in.Email, "Email", false); err != nil {
				return err
			}
			if in.Password, err = valueOrPrompt(in.Password, "Password", true); err != nil {
				return err
			}
			if in.ConfirmPassword, err = valueOrPrompt(in.ConfirmPassword, "Confirm password", true); err != nil {
				return err
			}
			if !in.AgreeTerms {
				in.AgreeTerms = promptConfirm("I agree to the terms and conditions")
			}
			user, err := c.app.Auth.Signup(in)
			if err != nil {
				return formError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account created. Welcome, %s!\n", user.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "full name")
	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	cmd.Flags().StringVar(&in.Password, "password", "", "password, at least 6 characters")
	cmd.Flags().StringVar(&in.ConfirmPassword, "confirm", "", "password again")
	cmd.Flags().BoolVar(&in.AgreeTerms, "agree", false, "agree to the terms and conditions")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out, keeping the current search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Auth.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.app.Auth.CurrentUser()
			if errors.Is(err, service.ErrNotLoggedIn) {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", user.Name, user.Email)
			return nil
		},
	}
}

// formError spells out every invalid field on its own line.
func formError(err error) error {
	fields, ok := service.AsFieldErrors(err)
	if !ok {
		return err
	}
	msg := "please fix the following:"
	for _, f := range fields {
		msg += fmt.Sprintf("\n  %s: %s", f.Field, f.Message)
	}
	return errors.New(msg)
}
