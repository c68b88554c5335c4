package service

import (
	"fmt"
	"strings"

	"railbook-cli/config"
	"railbook-cli/model"
)

// SeatMaps supplies the seat catalog of a train on a date. Seats come from a
// saved seat map when one exists, otherwise from the configured berth
// layout. Seats held by live bookings for the same train and date are marked
// occupied and configured blocked seats are marked ineligible.
type SeatMaps struct {
	users     UserStore
	overrides SeatMapStore
	layout    config.SeatConfig
}

func NewSeatMaps(users UserStore, overrides SeatMapStore, layout config.SeatConfig) *SeatMaps {
	return &SeatMaps{users: users, overrides: overrides, layout: layout}
}

// PerRow is the grid width for rendering and keyboard movement.
func (p *SeatMaps) PerRow() int {
	if p.layout.PerRow < 1 {
		return 6
	}
	return p.layout.PerRow
}

func (p *SeatMaps) SeatMap(trainNo string, date string) (model.SeatMap, error) {
	trainNo = strings.TrimSpace(trainNo)
	date = strings.TrimSpace(date)
	if trainNo == "" || date == "" {
		return model.SeatMap{}, fmt.Errorf("train number and date are required")
	}

	seatMap := model.SeatMap{TrainNo: trainNo, Date: date}
	saved, ok, err := p.overrides.LoadSeatMap(trainNo, date)
	if err != nil {
		return model.SeatMap{}, err
	}
	if ok {
		seatMap.Seats = saved.Seats
	} else {
		seatMap.Seats = p.defaultLayout()
	}

	occupied, err := p.occupiedSeats(trainNo, date)
	if err != nil {
		return model.SeatMap{}, err
	}
	blocked := map[string]bool{}
	for _, id := range p.layout.Blocked {
		blocked[strings.TrimSpace(id)] = true
	}
	for i := range seatMap.Seats {
		seat := &seatMap.Seats[i]
		if occupied[seat.Id] {
			seat.Available = false
		}
		if blocked[seat.Id] {
			seat.Eligible = false
		}
	}
	return seatMap, nil
}

func (p *SeatMaps) defaultLayout() []model.Seat {
	var seats []model.Seat
	for _, berth := range p.layout.Berths {
		for n := 1; n <= berth.Count; n++ {
			seats = append(seats, model.Seat{
				Id:        fmt.Sprintf("%s-%d", berth.Prefix, n),
				Berth:     berth.Name,
				Available: true,
				Eligible:  true,
			})
		}
	}
	return seats
}

func (p *SeatMaps) occupiedSeats(trainNo string, date string) (map[string]bool, error) {
	users, err := p.users.LoadUsers()
	if err != nil {
		return nil, fmt.Errorf("loading users: %w", err)
	}
	occupied := map[string]bool{}
	for _, user := range users {
		for _, booking := range user.Bookings {
			if booking.Status == model.StatusCancelled || booking.TrainNo != trainNo || booking.Date != date {
				continue
			}
			for _, id := range booking.SeatIDs() {
				occupied[id] = true
			}
		}
	}
	return occupied, nil
}
