package service

import (
	"slices"
	"strings"

	"github.com/dustin/go-humanize"

	"railbook-cli/config"
	"railbook-cli/model"
)

type Trains struct {
	trains []model.Train
	fare   config.FareConfig
}

func NewTrains(trains []model.Train, fare config.FareConfig) *Trains {
	return &Trains{trains: slices.Clone(trains), fare: fare}
}

func (t *Trains) List() []model.Train {
	return slices.Clone(t.trains)
}

// Lookup matches a train by name or number. Unknown keys fall back to the
// first configured train.
func (t *Trains) Lookup(key string) model.Train {
	key = strings.TrimSpace(key)
	for _, train := range t.trains {
		if key != "" && (strings.EqualFold(train.Name, key) || train.Number == key) {
			return train
		}
	}
	if len(t.trains) == 0 {
		return model.Train{}
	}
	return t.trains[0]
}

// Fare is the booking total: a base fare per passenger plus one service charge.
func (t *Trains) Fare(passengers int) int {
	if passengers < 1 {
		passengers = 1
	}
	return passengers*t.fare.BasePerPassenger + t.fare.ServiceCharge
}

func (t *Trains) FormatFare(amount int) string {
	currency := t.fare.Currency
	if currency == "" {
		currency = "₹"
	}
	return currency + " " + humanize.Comma(int64(amount))
}
