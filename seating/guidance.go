package seating

import "fmt"

// Announcement is the screen-reader line for a committed event.
func Announcement(e Event) string {
	switch e.Kind {
	case EventSelected:
		return fmt.Sprintf("%s seat selected. %d seat(s) selected.", e.SeatID, e.Count)
	case EventDeselected:
		return fmt.Sprintf("%s seat deselected. %d seat(s) selected.", e.SeatID, e.Count)
	default:
		return fmt.Sprintf("%d seat(s) selected.", e.Count)
	}
}

// ConfirmHint is the help text next to the confirm control.
func ConfirmHint(selected int, limit int) string {
	switch {
	case selected == 0:
		return "Please select at least one seat to continue"
	case selected < limit:
		return fmt.Sprintf("You have selected %d seat(s). You can select up to %d seat(s) or proceed.", selected, limit)
	default:
		return fmt.Sprintf("%d seat(s) selected. Ready to confirm.", limit)
	}
}

// Progress is the "n of m" line under the selected seat list.
func Progress(selected int, limit int) string {
	if selected == 0 {
		return "No seats selected yet"
	}
	return fmt.Sprintf("%d of %d seat(s) selected", selected, limit)
}
