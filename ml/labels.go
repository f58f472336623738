package ml

import (
	"time"

	"flightdelay/flights"
)

// DepartureLayout is the timestamp format of the historical dataset.
const DepartureLayout = "2006-01-02 15:04:05"

// delayThresholdMinutes separates on-time from delayed. Strict inequality:
// exactly 15 minutes late is not a delay.
const delayThresholdMinutes = 15.0

// MinutesLate returns actual minus scheduled departure in minutes. When
// either timestamp fails to parse the difference is reported as 0 with
// ok=false; labels derived from it treat the flight as not delayed. This
// mirrors the historical behavior of the dataset pipeline and can mask
// data-quality problems, so callers should count !ok rows.
func MinutesLate(scheduled, actual string) (minutes float64, ok bool) {
	s, err := time.Parse(DepartureLayout, scheduled)
	if err != nil {
		return 0, false
	}
	a, err := time.Parse(DepartureLayout, actual)
	if err != nil {
		return 0, false
	}
	return a.Sub(s).Minutes(), true
}

// DelayLabel returns 1 when the flight departed more than 15 minutes late.
func DelayLabel(scheduled, actual string) int {
	diff, _ := MinutesLate(scheduled, actual)
	if diff > delayThresholdMinutes {
		return 1
	}
	return 0
}

// GenerateLabels derives the binary training target for a batch of
// historical flights. unparsed reports how many rows fell back to label 0
// because a departure timestamp did not parse.
func GenerateLabels(records []flights.Record) (labels []int, unparsed int) {
	labels = make([]int, len(records))
	for i, r := range records {
		diff, ok := MinutesLate(r.ScheduledDeparture, r.ActualDeparture)
		if !ok {
			unparsed++
		}
		if diff > delayThresholdMinutes {
			labels[i] = 1
		}
	}
	return labels, unparsed
}
