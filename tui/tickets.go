package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"railbook-cli/model"
	"railbook-cli/service"
	"railbook-cli/ticket"
)

var ticketFilters = []service.TicketFilter{service.FilterAll, service.FilterUpcoming, service.FilterPast}

type ticketItem struct {
	booking model.Booking
	status  model.BookingStatus
	fare    string
}

func (t ticketItem) Title() string {
	return fmt.Sprintf("%s • %s (%s)", t.booking.BookingRef, t.booking.Train, t.booking.TrainNo)
}

func (t ticketItem) Description() string {
	return fmt.Sprintf("%s → %s • %s • seats %s • %s • %s",
		t.booking.Origin, t.booking.Destination, t.booking.Date, t.booking.Seats, t.fare, statusLabel(t.status))
}

func (t ticketItem) FilterValue() string {
	return t.booking.BookingRef + " " + t.booking.Train
}

type ticketsMsg struct {
	bookings []model.Booking
	err      error
}

type cancelledMsg struct {
	booking model.Booking
	err     error
}

type printedMsg struct {
	path string
	err  error
}

func (m appModel) loadTicketsCmd() tea.Cmd {
	tickets := m.app.Tickets
	filter := m.ticketFilter
	return func() tea.Msg {
		bookings, err := tickets.List(filter)
		return ticketsMsg{bookings: bookings, err: err}
	}
}

func (m appModel) cancelTicketCmd(ref string) tea.Cmd {
	tickets := m.app.Tickets
	return func() tea.Msg {
		booking, err := tickets.Cancel(ref)
		return cancelledMsg{booking: booking, err: err}
	}
}

func (m appModel) printTicketCmd(booking model.Booking) tea.Cmd {
	app := m.app
	dir := m.printDir
	now := m.now()
	return func() tea.Msg {
		user, err := app.Auth.RequireUser()
		if err != nil {
			return printedMsg{err: err}
		}
		data, err := ticket.Render(booking, ticket.Details{
			Passenger: user.Name,
			Email:     user.Email,
			Fare:      app.Trains.FormatFare(booking.Fare),
			Now:       now,
		})
		if err != nil {
			return printedMsg{err: err}
		}
		path := ticket.FileName(booking)
		if dir != "" {
			path = dir + string(os.PathSeparator) + path
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return printedMsg{err: fmt.Errorf("writing e-ticket: %w", err)}
		}
		return printedMsg{path: path}
	}
}

func (m *appModel) setTickets(bookings []model.Booking) {
	now := m.now()
	items := make([]list.Item, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, ticketItem{booking: b, status: b.DisplayStatus(now), fare: m.app.Trains.FormatFare(b.Fare)})
	}
	m.ticketList.Title = "My Tickets • " + strings.ToUpper(string(m.ticketFilter[:1])) + string(m.ticketFilter[1:])
	m.ticketList.SetItems(items)
}

func (m appModel) handleTicketsKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	switch msg.String() {
	case "tab":
		m.ticketFilter = nextFilter(m.ticketFilter)
		return m, m.loadTicketsCmd(), true
	case "x":
		item, ok := m.ticketList.SelectedItem().(ticketItem)
		if !ok {
			return m, nil, true
		}
		if item.status != model.StatusConfirmed {
			m.notice = service.ErrNotCancellable.Error()
			return m, nil, true
		}
		return m, m.cancelTicketCmd(item.booking.BookingRef), true
	case "p":
		item, ok := m.ticketList.SelectedItem().(ticketItem)
		if !ok {
			return m, nil, true
		}
		return m, m.printTicketCmd(item.booking), true
	}
	return m, nil, false
}

func (m appModel) handleTicketMsg(msg tea.Msg) (appModel, tea.Cmd) {
	switch msg := msg.(type) {
	case ticketsMsg:
		if msg.err != nil {
			return m, m.authErrCmd(msg.err, stateTickets)
		}
		m.setTickets(msg.bookings)
		m.state = stateTickets
	case cancelledMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
			return m, nil
		}
		m.notice = fmt.Sprintf("Booking %s cancelled.", msg.booking.BookingRef)
		return m, m.loadTicketsCmd()
	case printedMsg:
		if msg.err != nil {
			return m, errCmd(msg.err)
		}
		m.notice = "E-ticket saved to " + msg.path
	}
	return m, nil
}

// authErrCmd sends a logged-out user to the login form instead of the error
// screen, continuing to then after a successful login.
func (m appModel) authErrCmd(err error, then appState) tea.Cmd {
	if errors.Is(err, service.ErrNotLoggedIn) {
		return func() tea.Msg { return needLoginMsg{then: then} }
	}
	return errCmd(err)
}

func nextFilter(f service.TicketFilter) service.TicketFilter {
	for i, candidate := range ticketFilters {
		if candidate == f {
			return ticketFilters[(i+1)%len(ticketFilters)]
		}
	}
	return service.FilterAll
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

func (m appModel) renderDashboard() string {
	d := m.dashboard
	var b strings.Builder
	if m.user != nil {
		b.WriteString(m.theme.heading("Welcome, "+m.user.Name+"!") + "\n\n")
	}
	b.WriteString(fmt.Sprintf("Total bookings: %d • Active tickets: %d • Upcoming trips: %d\n\n", d.Total, d.Active, d.Upcoming))

	b.WriteString(m.theme.heading("Upcoming trips") + "\n")
	if len(d.Next) == 0 {
		b.WriteString(m.theme.hint("No upcoming trips scheduled") + "\n")
	}
	for _, booking := range d.Next {
		b.WriteString(fmt.Sprintf("  %s  %s → %s  %s  %s\n", booking.Date, booking.Origin, booking.Destination, booking.Train, booking.Seats))
	}

	b.WriteString("\n" + m.theme.heading("Recent bookings") + "\n")
	if len(d.Recent) == 0 {
		b.WriteString(m.theme.hint("No bookings yet") + "\n")
	}
	for _, booking := range d.Recent {
		b.WriteString(fmt.Sprintf("  %s  %s  %s  booked %s\n", booking.BookingRef, booking.Train, statusLabel(booking.DisplayStatus(m.now())), humanize.Time(booking.BookedAt())))
	}
	return b.String()
}
