package dexcom

import "math"

// Time-in-range bounds in mg/dL, the standard clinical target.
const (
	rangeLow  = 70
	rangeHigh = 180
)

// CalculateStatistics reduces a sequence of readings to summary statistics.
// Returns nil for an empty sequence.
func CalculateStatistics(readings []GlucoseReading) *Statistics {
	if len(readings) == 0 {
		return nil
	}

	sum, min, max, inRange := 0, readings[0].Value, readings[0].Value, 0
	for _, r := range readings {
		sum += r.Value
		if r.Value < min {
			min = r.Value
		}
		if r.Value > max {
			max = r.Value
		}
		if r.Value >= rangeLow && r.Value <= rangeHigh {
			inRange++
		}
	}
	avg := float64(sum) / float64(len(readings))

	var sqSum float64
	for _, r := range readings {
		d := float64(r.Value) - avg
		sqSum += d * d
	}
	stdDev := math.Sqrt(sqSum / float64(len(readings)))

	unit := readings[0].Unit
	if unit == "" {
		unit = "mg/dL"
	}
	return &Statistics{
		Count:              len(readings),
		Average:            int(math.Round(avg)),
		Min:                min,
		Max:                max,
		StandardDeviation:  int(math.Round(stdDev)),
		TimeInRangePercent: int(math.Round(float64(inRange) / float64(len(readings)) * 100)),
		Unit:               unit,
	}
}
