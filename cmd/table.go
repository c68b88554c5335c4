package cmd

import (
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"railbook-cli/model"
)

func newTable(out io.Writer, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	if len(header) > 0 {
		t.AppendHeader(header)
	}
	return t
}

func (c *cli) renderTrains(out io.Writer, search model.SearchData) {
	t := newTable(out, table.Row{"Train", "Number", "Departure", "Arrival", "Class", "Fare"})
	t.SetTitle("%s to %s on %s", search.Origin, search.Destination, search.Date)
	fare := c.app.Trains.FormatFare(c.app.Trains.Fare(c.app.Search.PassengerLimit(search)))
	for _, train := range c.app.Trains.List() {
		t.AppendRow(table.Row{train.Name, train.Number, train.Departure, train.Arrival, train.Class, fare})
	}
	t.Render()
}

func (c *cli) renderBookings(out io.Writer, bookings []model.Booking, now time.Time) {
	t := newTable(out, table.Row{"Reference", "Train", "Route", "Date", "Seats", "Fare", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, WidthMax: 24},
	})
	for _, b := range bookings {
		t.AppendRow(table.Row{
			b.BookingRef,
			b.Train + " (" + b.TrainNo + ")",
			b.Origin + " → " + b.Destination,
			b.Date,
			b.Seats,
			c.app.Trains.FormatFare(b.Fare),
			statusLabel(b.DisplayStatus(now)),
		})
	}
	if len(bookings) == 0 {
		t.SetCaption("No bookings found.")
	}
	t.Render()
}

func (c *cli) renderBooking(out io.Writer, b model.Booking) {
	t := newTable(out, nil)
	t.SetTitle("Booking %s", b.BookingRef)
	t.AppendRows([]table.Row{
		{"Train", b.Train + " (" + b.TrainNo + ")"},
		{"Route", b.Origin + " → " + b.Destination},
		{"Date", b.Date},
		{"Departure", b.Departure},
		{"Arrival", b.Arrival},
		{"Coach", strings.TrimSpace(b.Coach + " " + b.Class)},
		{"Seats", b.Seats},
		{"Passengers", b.Passengers},
		{"Total fare", c.app.Trains.FormatFare(b.Fare)},
		{"Booked", humanize.Time(b.BookedAt())},
	})
	t.Render()
}

func statusLabel(status model.BookingStatus) string {
	switch status {
	case model.StatusConfirmed:
		return "Upcoming"
	case model.StatusCompleted:
		return "Completed"
	case model.StatusCancelled:
		return "Cancelled"
	}
	return string(status)
}
