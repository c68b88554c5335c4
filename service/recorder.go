package service

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"railbook-cli/model"
)

const referenceSpace = 1_000_000

// Recorder files finalized bookings into a user's record.
type Recorder struct {
	users  UserStore
	clock  Clock
	prefix string
	randN  func(n int) int
	log    *slog.Logger
}

func NewRecorder(users UserStore, clock Clock, prefix string, logger *slog.Logger) *Recorder {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "IR"
	}
	return &Recorder{
		users:  users,
		clock:  clock,
		prefix: prefix,
		randN:  rand.Intn,
		log:    logger,
	}
}

// BookingReference formats PREFIX-YYYY-MM-DD-NNNNNN using the UTC date.
func BookingReference(prefix string, now time.Time, n int) string {
	return fmt.Sprintf("%s-%s-%06d", prefix, now.UTC().Format(time.DateOnly), n%referenceSpace)
}

// Record appends draft to the user's bookings as a confirmed booking and
// saves the user table in one write. References are random and not checked
// for uniqueness.
func (r *Recorder) Record(email string, draft model.BookingDraft) (model.Booking, error) {
	if strings.TrimSpace(draft.Seats) == "" {
		return model.Booking{}, fmt.Errorf("booking for %s has no seats", draft.TrainNo)
	}
	now := r.clock.Now()
	booking := model.NewBooking(draft, BookingReference(r.prefix, now, r.randN(referenceSpace)), now.UTC())

	_, err := updateUser(r.users, email, func(user *model.User) error {
		user.Bookings = append(user.Bookings, booking)
		return nil
	})
	if err != nil {
		return model.Booking{}, err
	}
	r.log.Info("booking recorded",
		slog.String("ref", booking.BookingRef),
		slog.String("train", booking.TrainNo),
		slog.String("seats", booking.Seats),
	)
	return booking, nil
}
