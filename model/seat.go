package model

type Berth string

const (
	BerthLower  Berth = "lower"
	BerthMiddle Berth = "middle"
	BerthUpper  Berth = "upper"
)

type Seat struct {
	Id        string `json:"id"`
	Berth     Berth  `json:"berth"`
	Available bool   `json:"available"`
	Eligible  bool   `json:"eligible"`
}

// Usable reports whether the seat may be placed in a selection.
func (s Seat) Usable() bool {
	return s.Available && s.Eligible
}

type SeatMap struct {
	TrainNo string `json:"trainNo"`
	Date    string `json:"date"`
	Seats   []Seat `json:"seats"`
}

// Berths returns the distinct berth names in catalog order.
func (m SeatMap) Berths() []Berth {
	var berths []Berth
	seen := map[Berth]bool{}
	for _, seat := range m.Seats {
		if seen[seat.Berth] {
			continue
		}
		seen[seat.Berth] = true
		berths = append(berths, seat.Berth)
	}
	return berths
}
