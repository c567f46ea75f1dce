// Package dexcom talks to the Dexcom data API with transparent token
// injection and a bounded refresh-and-retry on authentication failure.
package dexcom

import "time"

// TimeLayout is the timestamp format the Dexcom API accepts: no milliseconds,
// no timezone suffix.
const TimeLayout = "2006-01-02T15:04:05"

// FormatTime renders t in the Dexcom API timestamp format.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// GlucoseReading is a single estimated glucose value (EGV).
type GlucoseReading struct {
	SystemTime  string  `json:"systemTime"`
	DisplayTime string  `json:"displayTime"`
	Value       int     `json:"value"`
	Unit        string  `json:"unit"`
	Trend       string  `json:"trend"`
	TrendRate   float64 `json:"trendRate,omitempty"`
}

// Device describes a CGM device associated with the user.
type Device struct {
	LastUploadDate        string        `json:"lastUploadDate"`
	AlertSchedules        []interface{} `json:"alertSchedules"`
	UnitsMeasurement      string        `json:"unitsMeasurement"`
	DisplayDevice         string        `json:"displayDevice"`
	TransmitterGeneration string        `json:"transmitterGeneration"`
	TransmitterID         string        `json:"transmitterId"`
	Model                 string        `json:"model"`
}

// DataRangeBound marks one end of the available data window.
type DataRangeBound struct {
	SystemTime  string `json:"systemTime"`
	DisplayTime string `json:"displayTime"`
}

// DataRange is the span of data available for the user.
type DataRange struct {
	Start DataRangeBound `json:"start"`
	End   DataRangeBound `json:"end"`
}

// Statistics summarizes a sequence of readings.
type Statistics struct {
	Count              int    `json:"count"`
	Average            int    `json:"average"`
	Min                int    `json:"min"`
	Max                int    `json:"max"`
	StandardDeviation  int    `json:"standardDeviation"`
	TimeInRangePercent int    `json:"timeInRangePercent"`
	Unit               string `json:"unit"`
}
