package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"railbook-cli/model"
	"railbook-cli/seating"
	"railbook-cli/service"
)

const doneItem = "Done, confirm these seats"

type searchFlags struct {
	origin      string
	destination string
	date        string
	passengers  string
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.origin, "from", "", "origin station")
	cmd.Flags().StringVar(&f.destination, "to", "", "destination station")
	cmd.Flags().StringVar(&f.date, "date", "", "travel date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.passengers, "passengers", "", "number of passengers")
}

func (f *searchFlags) empty() bool {
	return f.origin == "" && f.destination == "" && f.date == "" && f.passengers == ""
}

// over fills the flags over a saved search.
func (f *searchFlags) over(base model.SearchData) model.SearchData {
	if f.origin != "" {
		base.Origin = f.origin
	}
	if f.destination != "" {
		base.Destination = f.destination
	}
	if f.date != "" {
		base.Date = f.date
	}
	if f.passengers != "" {
		base.Passengers = f.passengers
	}
	return base
}

// currentSearch returns the saved search with flags applied, saving it again
// when the flags changed it.
func (c *cli) currentSearch(flags *searchFlags) (model.SearchData, error) {
	saved, ok, err := c.app.Search.Current()
	if err != nil {
		return model.SearchData{}, err
	}
	if !ok && flags.empty() {
		return model.SearchData{}, fmt.Errorf("no search yet (run %s search first)", appName)
	}
	if flags.empty() {
		return saved, nil
	}
	search, err := c.app.Search.Submit(flags.over(saved))
	return search, formError(err)
}

func (c *cli) searchCmd() *cobra.Command {
	var flags searchFlags
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search trains between two stations",
		Long:  `Search trains for a date and passenger count. The search is kept for the seats and book commands.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if flags.origin, err = valueOrPrompt(flags.origin, "From", false); err != nil {
				return err
			}
			if flags.destination, err = valueOrPrompt(flags.destination, "To", false); err != nil {
				return err
			}
			if flags.date, err = valueOrPrompt(flags.date, "Travel date (YYYY-MM-DD)", false); err != nil {
				return err
			}
			if flags.passengers == "" {
				flags.passengers = strconv.Itoa(c.cfg.DefaultPassengers)
			}
			search, err := c.app.Search.Submit(flags.over(model.SearchData{}))
			if err != nil {
				return formError(err)
			}
			c.renderTrains(cmd.OutOrStdout(), search)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *cli) seatsCmd() *cobra.Command {
	var flags searchFlags
	var trainKey string
	cmd := &cobra.Command{
		Use:   "seats",
		Short: "Show the coach seat map for a train",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			search, err := c.currentSearch(&flags)
			if err != nil {
				return err
			}
			train := c.app.Trains.Lookup(trainKey)
			seatMap, err := c.app.SeatMaps.SeatMap(train.Number, search.Date)
			if err != nil {
				return err
			}
			c.renderSeatMap(cmd.OutOrStdout(), train, seatMap)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&trainKey, "train", "", "train name or number (default the first train)")
	return cmd
}

func (c *cli) bookCmd() *cobra.Command {
	var flags searchFlags
	var trainKey, seats string
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Pick seats and confirm a booking",
		Long: `Pick seats for the current search and confirm the booking.
Seats are given with --seats as a comma separated list, or picked one by one from a menu.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			search, err := c.currentSearch(&flags)
			if err != nil {
				return err
			}
			train := c.app.Trains.Lookup(trainKey)
			seatMap, err := c.app.SeatMaps.SeatMap(train.Number, search.Date)
			if err != nil {
				return err
			}
			sel, err := seating.New(seatMap.Seats, c.app.Search.PassengerLimit(search), seating.WithObserver(func(e seating.Event) {
				fmt.Fprintln(out, seating.Announcement(e))
			}))
			if err != nil {
				return err
			}

			if seats != "" {
				for _, id := range strings.Split(seats, ",") {
					if _, err := sel.Toggle(strings.TrimSpace(id)); err != nil {
						return err
					}
				}
			} else if err := c.pickSeats(out, sel); err != nil {
				return err
			}

			booking, err := c.app.Checkout.Confirm(search, train, sel)
			if errors.Is(err, service.ErrLoginRequired) {
				fmt.Fprintf(out, "Seats %s are held for you. Run %s login to finish the booking.\n", strings.Join(sel.Selected(), seating.SeatSeparator), appName)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "Booking confirmed!")
			c.renderBooking(out, booking)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&trainKey, "train", "", "train name or number (default the first train)")
	cmd.Flags().StringVar(&seats, "seats", "", "comma separated seat ids, e.g. LB-1,LB-2")
	return cmd
}

// pickSeats toggles seats from a menu until the traveller confirms.
func (c *cli) pickSeats(out io.Writer, sel *seating.Selection) error {
	for {
		items := []string{doneItem}
		for _, seat := range sel.Catalog() {
			if !seat.Usable() {
				continue
			}
			label := seat.Id
			if sel.IsSelected(seat.Id) {
				label += " (selected)"
			}
			items = append(items, label)
		}
		fmt.Fprintln(out, seating.ConfirmHint(sel.Len(), sel.Limit()))
		item, err := promptSelect(seating.Progress(sel.Len(), sel.Limit()), items)
		if err != nil {
			return err
		}
		if item == doneItem {
			return nil
		}
		id := strings.TrimSuffix(item, " (selected)")
		if _, err := sel.Toggle(id); err != nil {
			fmt.Fprintln(out, err)
		}
	}
}

func (c *cli) renderSeatMap(out io.Writer, train model.Train, seatMap model.SeatMap) {
	perRow := c.app.SeatMaps.PerRow()
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle("%s (%s) coach %s on %s", train.Name, train.Number, train.Coach, seatMap.Date)
	for _, berth := range seatMap.Berths() {
		var row table.Row
		row = append(row, strings.ToUpper(string(berth)))
		for _, seat := range seatMap.Seats {
			if seat.Berth != berth {
				continue
			}
			if len(row) > perRow {
				t.AppendRow(row)
				row = table.Row{""}
			}
			row = append(row, seatCell(seat))
		}
		t.AppendRow(row)
		t.AppendSeparator()
	}
	t.SetCaption("x = booked, - = not available for this booking")
	t.Render()
}

func seatCell(seat model.Seat) string {
	switch {
	case !seat.Eligible:
		return seat.Id + " -"
	case !seat.Available:
		return seat.Id + " x"
	}
	return seat.Id
}
