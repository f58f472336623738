// Package flights holds the flight domain types shared by the encoder,
// the training pipeline and the serving layer.
package flights

import "fmt"

// FlightType is the raw TIPOVUELO tag.
type FlightType string

const (
	International FlightType = "I"
	National      FlightType = "N"
)

// Carriers accepted by the serving validator. Historical data contains more
// operators than these; the catalog only bounds what the API accepts.
const (
	CarrierAerolineasArgentinas = "Aerolineas Argentinas"
	CarrierGrupoLATAM           = "Grupo LATAM"
	CarrierSkyAirline           = "Sky Airline"
	CarrierCopaAir              = "Copa Air"
	CarrierLatinAmericanWings   = "Latin American Wings"
)

var knownCarriers = map[string]bool{
	CarrierAerolineasArgentinas: true,
	CarrierGrupoLATAM:           true,
	CarrierSkyAirline:           true,
	CarrierCopaAir:              true,
	CarrierLatinAmericanWings:   true,
}

// KnownCarrier reports whether the operator is one of the five carriers the
// prediction API accepts.
func KnownCarrier(operator string) bool {
	return knownCarriers[operator]
}

// Record is a single flight, either a historical row (with departure
// timestamps, used for training) or an inference request (without them).
type Record struct {
	Operator string
	Type     FlightType
	Month    int

	// Raw departure timestamps in "2006-01-02 15:04:05" form.
	// Only populated on historical records.
	ScheduledDeparture string
	ActualDeparture    string
}

// Validate checks the record against the serving contract: a known carrier,
// a valid flight type and a calendar month.
func (r Record) Validate() error {
	if !KnownCarrier(r.Operator) {
		return fmt.Errorf("unknown operator %q", r.Operator)
	}
	if r.Type != International && r.Type != National {
		return fmt.Errorf("invalid flight type %q", r.Type)
	}
	if r.Month < 1 || r.Month > 12 {
		return fmt.Errorf("month %d out of range", r.Month)
	}
	return nil
}
