package types

import "github.com/goccy/go-json"

// Precipitation is one measurement row's (date, prcp) pair. It encodes as a
// single-key object keyed by the date, e.g. {"2016-08-23": 0.08}.
type Precipitation struct {
	Date string
	Prcp *float64
}

func (p Precipitation) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]*float64{p.Date: p.Prcp})
}

type TemperatureObservation struct {
	Date        string   `json:"Date"`
	Temperature *float64 `json:"Temperature"`
}

// TemperatureSummary holds MAX/MIN/AVG of tobs over a date range. All three
// are nil when no row matched.
type TemperatureSummary struct {
	Maximum *float64 `json:"Maximum Temperature"`
	Minimum *float64 `json:"Minimum Temperature"`
	Average *float64 `json:"Average Temperature"`
}

// Window is the station and inclusive start date used for recent temperatures.
type Window struct {
	Station string
	Since   string
}
