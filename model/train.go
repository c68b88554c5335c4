package model

type Train struct {
	Name      string `json:"name"`
	Number    string `json:"number"`
	Departure string `json:"departure"`
	Arrival   string `json:"arrival"`
	Coach     string `json:"coach"`
	Class     string `json:"class"`
}

type SearchData struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
	Passengers  string `json:"passengers"`
}
