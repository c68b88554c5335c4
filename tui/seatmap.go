package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"railbook-cli/model"
	"railbook-cli/seating"
)

// seatGrid places catalog indexes into display rows: each berth starts a new
// row and rows wrap at perRow seats.
type seatGrid struct {
	berths []model.Berth
	rows   [][]int
	berth  []model.Berth
}

func buildSeatGrid(catalog []model.Seat, perRow int) seatGrid {
	if perRow < 1 {
		perRow = 6
	}
	var g seatGrid
	seen := map[model.Berth]bool{}
	for _, seat := range catalog {
		if !seen[seat.Berth] {
			seen[seat.Berth] = true
			g.berths = append(g.berths, seat.Berth)
		}
	}
	for _, berth := range g.berths {
		var row []int
		for i, seat := range catalog {
			if seat.Berth != berth {
				continue
			}
			if len(row) == perRow {
				g.rows = append(g.rows, row)
				g.berth = append(g.berth, berth)
				row = nil
			}
			row = append(row, i)
		}
		if len(row) > 0 {
			g.rows = append(g.rows, row)
			g.berth = append(g.berth, berth)
		}
	}
	return g
}

func (g seatGrid) locate(index int) (int, int) {
	for r, row := range g.rows {
		for c, i := range row {
			if i == index {
				return r, c
			}
		}
	}
	return 0, 0
}

// move returns the catalog index reached from index by dr rows and dc
// columns, clamped to the grid.
func (g seatGrid) move(index int, dr int, dc int) int {
	if len(g.rows) == 0 {
		return index
	}
	r, c := g.locate(index)
	r = min(max(r+dr, 0), len(g.rows)-1)
	c = min(max(c+dc, 0), len(g.rows[r])-1)
	return g.rows[r][c]
}

func (m appModel) handleSeatMapKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	if m.selection == nil {
		return m, nil, false
	}
	switch msg.String() {
	case "left", "h":
		m.cursor = m.grid.move(m.cursor, 0, -1)
	case "right", "l":
		m.cursor = m.grid.move(m.cursor, 0, 1)
	case "up", "k":
		m.cursor = m.grid.move(m.cursor, -1, 0)
	case "down", "j":
		m.cursor = m.grid.move(m.cursor, 1, 0)
	case "enter", " ":
		m.toggleSeatAtCursor()
	case "x":
		m.selection.Clear()
		m.announcement = seating.Announcement(seating.Event{Kind: seating.EventReset, Limit: m.selection.Limit()})
	case "c":
		if !m.selection.CanConfirm() {
			m.announcement = (&seating.EmptySelectionError{}).Error()
			return m, nil, true
		}
		next, cmd := m.confirmBooking()
		return next, cmd, true
	default:
		return m, nil, false
	}
	return m, nil, true
}

func (m *appModel) toggleSeatAtCursor() {
	catalog := m.selection.Catalog()
	if m.cursor < 0 || m.cursor >= len(catalog) {
		return
	}
	e, err := m.selection.Toggle(catalog[m.cursor].Id)
	if err != nil {
		m.announcement = seatGuidance(err)
		return
	}
	m.announcement = seating.Announcement(e)
}

// seatGuidance phrases a rejected toggle for the status line.
func seatGuidance(err error) string {
	var unavailable *seating.SeatUnavailableError
	if errors.As(err, &unavailable) {
		if unavailable.Occupied {
			return fmt.Sprintf("Seat %s is already booked. Choose another seat.", unavailable.SeatID)
		}
		return fmt.Sprintf("Seat %s cannot be selected for this booking.", unavailable.SeatID)
	}
	return err.Error()
}

func (m appModel) renderSeatMap() string {
	if m.selection == nil || len(m.grid.rows) == 0 {
		return "No seat map data."
	}
	catalog := m.selection.Catalog()
	idWidth := 0
	for _, seat := range catalog {
		idWidth = max(idWidth, len(seat.Id))
	}
	cellWidth := idWidth + 1 + m.theme.cellPad()
	labelWidth := 0
	for _, berth := range m.grid.berths {
		labelWidth = max(labelWidth, len(berth))
	}

	var b strings.Builder
	b.WriteString(m.theme.heading(fmt.Sprintf("%s (%s) • Coach %s • %s", m.train.Name, m.train.Number, m.train.Coach, m.seatMap.Date)))
	b.WriteString("\n\n")
	for r, row := range m.grid.rows {
		label := ""
		if r == 0 || m.grid.berth[r] != m.grid.berth[r-1] {
			label = strings.ToUpper(string(m.grid.berth[r]))
			if r > 0 {
				b.WriteString("\n")
			}
		}
		b.WriteString(fmt.Sprintf("%-*s ", labelWidth, label))
		for c, i := range row {
			b.WriteString(m.seatCell(catalog[i], i == m.cursor, cellWidth))
			if c < len(row)-1 {
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	selected := m.selection.Selected()
	if len(selected) > 0 {
		b.WriteString("Selected: " + strings.Join(selected, seating.SeatSeparator) + "\n")
	}
	b.WriteString(seating.Progress(m.selection.Len(), m.selection.Limit()) + "\n")
	b.WriteString(m.theme.hint(seating.ConfirmHint(m.selection.Len(), m.selection.Limit())) + "\n")
	passengers := m.app.Search.PassengerLimit(m.search)
	b.WriteString(fmt.Sprintf("Fare for %d passenger(s): %s\n", passengers, m.app.Trains.FormatFare(m.app.Trains.Fare(passengers))))
	if m.announcement != "" {
		b.WriteString("\n" + m.theme.notice.Render(m.announcement) + "\n")
	}
	b.WriteString("\n" + m.theme.hint("Legend: * selected • x booked • - not available for this booking"))
	return b.String()
}

func (m appModel) seatCell(seat model.Seat, atCursor bool, width int) string {
	marker := " "
	style := m.theme.available
	switch {
	case m.selection.IsSelected(seat.Id):
		marker = "*"
		style = m.theme.selected
	case !seat.Available:
		marker = "x"
		style = m.theme.occupied
	case !seat.Eligible:
		marker = "-"
		style = m.theme.blocked
	}
	text := padCell(marker+seat.Id, width)
	if atCursor {
		return m.theme.cursor.Inherit(style).Render(text)
	}
	return style.Render(text)
}

func padCell(text string, width int) string {
	if len(text) >= width {
		return text
	}
	return text + strings.Repeat(" ", width-len(text))
}
