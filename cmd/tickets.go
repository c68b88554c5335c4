package cmd

import (
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"

	"railbook-cli/service"
	"railbook-cli/ticket"
)

const allYears = "All years"

func (c *cli) ticketsCmd() *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "tickets",
		Short: "List your tickets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := service.ParseTicketFilter(filter)
			if err != nil {
				return err
			}
			bookings, err := c.app.Tickets.List(f)
			if err != nil {
				return err
			}
			c.renderBookings(cmd.OutOrStdout(), bookings, c.now())
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "all", "which tickets to show: all, upcoming or past")
	return cmd
}

func (c *cli) cancelCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "cancel REF",
		Short: "Cancel an upcoming booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			booking, err := c.app.Tickets.Find(args[0])
			if err != nil {
				return err
			}
			if !yes && !promptConfirm(fmt.Sprintf("Cancel %s on %s (%s)", booking.Train, booking.Date, booking.Seats)) {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing cancelled.")
				return nil
			}
			if _, err := c.app.Tickets.Cancel(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Booking %s cancelled.\n", booking.BookingRef)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (c *cli) printCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "print REF",
		Short: "Save a booking as a PDF e-ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.printTicket(args[0], output)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "E-ticket saved to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default e-ticket-REF.pdf)")
	return cmd
}

func (c *cli) printTicket(ref string, output string) (string, error) {
	user, err := c.app.Auth.RequireUser()
	if err != nil {
		return "", err
	}
	booking, err := c.app.Tickets.Find(ref)
	if err != nil {
		return "", err
	}
	data, err := ticket.Render(booking, ticket.Details{
		Passenger: user.Name,
		Email:     user.Email,
		Fare:      c.app.Trains.FormatFare(booking.Fare),
		Now:       c.now(),
	})
	if err != nil {
		return "", err
	}
	if output == "" {
		output = ticket.FileName(booking)
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return "", fmt.Errorf("writing e-ticket: %w", err)
	}
	return output, nil
}

func (c *cli) historyCmd() *cobra.Command {
	var year string
	var pick bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show your booking history, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pick {
				picked, err := c.promptYear()
				if err != nil {
					return err
				}
				year = picked
			}
			y, err := parseYear(year)
			if err != nil {
				return err
			}
			bookings, err := c.app.Tickets.History(y)
			if err != nil {
				return err
			}
			c.renderBookings(cmd.OutOrStdout(), bookings, c.now())
			return nil
		},
	}
	cmd.Flags().StringVar(&year, "year", "all", "booking year to show, or all")
	cmd.Flags().BoolVar(&pick, "pick", false, "choose the year from a menu")
	return cmd
}

func (c *cli) promptYear() (string, error) {
	years, err := c.app.Tickets.Years()
	if err != nil {
		return "", err
	}
	yearByLabel := make(map[string]int)
	for _, y := range years {
		yearByLabel[strconv.Itoa(y)] = y
	}
	items := maps.Keys(yearByLabel)
	slices.Sort(items)
	slices.Reverse(items)
	item, err := promptSelect("Select Year", append([]string{allYears}, items...))
	if err != nil {
		return "", err
	}
	if item == allYears {
		return "all", nil
	}
	return item, nil
}

func parseYear(value string) (int, error) {
	if value == "" || value == "all" {
		return 0, nil
	}
	y, err := strconv.Atoi(value)
	if err != nil || y < 1 {
		return 0, fmt.Errorf("invalid year %q", value)
	}
	return y, nil
}

func (c *cli) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Summary of your trips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.app.Auth.RequireUser()
			if err != nil {
				return err
			}
			dash, err := c.app.Tickets.Dashboard()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Welcome, %s!\n", user.Name)

			t := newTable(out, table.Row{"Total bookings", "Active tickets", "Upcoming trips"})
			t.AppendRow(table.Row{dash.Total, dash.Active, dash.Upcoming})
			t.Render()

			fmt.Fprintln(out, "Upcoming trips")
			c.renderBookings(out, dash.Next, c.now())
			fmt.Fprintln(out, "Recent bookings")
			c.renderBookings(out, dash.Recent, c.now())
			return nil
		},
	}
}
