// Package ticket renders a booking as a printable PDF e-ticket.
package ticket

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"railbook-cli/model"
)

// Details is what the e-ticket prints beside the booking itself.
type Details struct {
	Passenger string
	Email     string
	Fare      string
	Now       time.Time
}

// FileName is the default output name for a booking's e-ticket.
func FileName(b model.Booking) string {
	return "e-ticket-" + safe(b.BookingRef, "booking") + ".pdf"
}

// Render builds the e-ticket PDF for b.
func Render(b model.Booking, d Details) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket "+b.BookingRef, false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, tr(fmt.Sprintf("%s (%s)", safe(b.Train, "-"), safe(b.TrainNo, "-"))))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		"Booking Ref : " + safe(b.BookingRef, "-"),
		"Status      : " + strings.ToUpper(string(b.DisplayStatus(d.Now))),
		"Passenger   : " + safe(d.Passenger, "-"),
		"Email       : " + safe(d.Email, "-"),
		"From        : " + safe(b.Origin, "-"),
		"To          : " + safe(b.Destination, "-"),
		"Travel Date : " + safe(b.Date, "-"),
		"Departure   : " + safe(b.Departure, "-"),
		"Arrival     : " + safe(b.Arrival, "-"),
		"Coach/Class : " + safe(strings.TrimSpace(b.Coach+" "+b.Class), "-"),
		"Seats       : " + safe(b.Seats, "-"),
		fmt.Sprintf("Passengers  : %d", b.Passengers),
		"Total Fare  : " + printable(safe(d.Fare, fmt.Sprint(b.Fare))),
	}
	if at := b.BookedAt(); !at.IsZero() {
		lines = append(lines, "Booked On   : "+at.Local().Format("2006-01-02 15:04"))
	}
	for _, s := range lines {
		pdf.Cell(0, 7, tr(s))
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please carry a valid photo ID and show this e-ticket when boarding.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering e-ticket: %w", err)
	}
	return buf.Bytes(), nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

// printable swaps the rupee sign, which the core PDF fonts cannot draw.
func printable(s string) string {
	return strings.ReplaceAll(s, "₹", "INR")
}
