package ticket

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"railbook-cli/model"
)

func TestRender(t *testing.T) {
	booking := model.Booking{
		Train: "Rajdhani Express", TrainNo: "12345", Seats: "LB-1, LB-2",
		Origin: "Delhi", Destination: "Mumbai", Date: "2026-12-15",
		Passengers: 2, Fare: 5050, BookingRef: "IR-2026-10-19-000042",
		BookingDate: time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC),
		Status:      model.StatusConfirmed,
	}

	data, err := Render(booking, Details{Passenger: "Demo User", Fare: "₹ 5,050", Now: time.Now()})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "e-ticket-IR-2026-10-19-000042.pdf", FileName(model.Booking{BookingRef: "IR-2026-10-19-000042"}))
	assert.Equal(t, "e-ticket-booking.pdf", FileName(model.Booking{}))
}
