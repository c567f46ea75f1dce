package dexcom

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Mock signal parameters: a 24-hour sine wave around a healthy baseline with
// a little noise, sampled every 5 minutes like a real CGM.
const (
	mockBaseGlucose = 120.0
	mockAmplitude   = 40.0
	mockInterval    = 5 * time.Minute
	mockNoiseRange  = 10.0 // +/- 5 mg/dL
)

// MockReadings generates synthetic glucose readings between startDate and
// endDate (Dexcom time format). The noise source is seeded from the window
// start, so the same window always produces the same data.
func MockReadings(startDate, endDate string) ([]GlucoseReading, error) {
	start, err := time.Parse(TimeLayout, startDate)
	if err != nil {
		return nil, fmt.Errorf("parse startDate: %w", err)
	}
	end, err := time.Parse(TimeLayout, endDate)
	if err != nil {
		return nil, fmt.Errorf("parse endDate: %w", err)
	}

	rng := rand.New(rand.NewSource(start.Unix()))
	frequency := 2 * math.Pi / float64(24*time.Hour/time.Millisecond)

	var readings []GlucoseReading
	for t := start; !t.After(end); t = t.Add(mockInterval) {
		ms := float64(t.UnixMilli())
		noise := (rng.Float64() - 0.5) * mockNoiseRange
		value := int(math.Round(mockBaseGlucose + mockAmplitude*math.Sin(ms*frequency) + noise))

		// Trend follows the slope to the next sample point.
		nextMs := float64(t.Add(mockInterval).UnixMilli())
		next := int(math.Round(mockBaseGlucose + mockAmplitude*math.Sin(nextMs*frequency)))
		diff := next - value

		trend := "flat"
		switch {
		case diff > 2:
			trend = "singleUp"
		case diff > 1:
			trend = "fortyFiveUp"
		case diff < -2:
			trend = "singleDown"
		case diff < -1:
			trend = "fortyFiveDown"
		}

		ts := FormatTime(t)
		readings = append(readings, GlucoseReading{
			SystemTime:  ts,
			DisplayTime: ts,
			Value:       value,
			Unit:        "mg/dL",
			Trend:       trend,
			TrendRate:   math.Round(float64(diff)/5*10) / 10,
		})
	}
	return readings, nil
}

// MockDevices returns a fixed single-device list.
func MockDevices() []Device {
	return []Device{{
		LastUploadDate:        FormatTime(time.Now()),
		AlertSchedules:        []interface{}{},
		UnitsMeasurement:      "mg/dL",
		DisplayDevice:         "iPhone",
		TransmitterGeneration: "g7",
		TransmitterID:         "MOCK-TX-ID",
		Model:                 "G7 Mobile App",
	}}
}

// MockDataRange reports a 90-day window ending now.
func MockDataRange() *DataRange {
	now := time.Now()
	start := now.Add(-90 * 24 * time.Hour)
	return &DataRange{
		Start: DataRangeBound{SystemTime: FormatTime(start), DisplayTime: FormatTime(start)},
		End:   DataRangeBound{SystemTime: FormatTime(now), DisplayTime: FormatTime(now)},
	}
}
