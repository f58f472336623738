package ml

import "flightdelay/flights"

// FeatureCount is the fixed width of every encoded vector.
const FeatureCount = 10

// FeatureNames returns the indicator catalog in encoding order. Positions are
// fixed at compile time; encoding never depends on which values appear in a
// batch, only on equality against this catalog.
func FeatureNames() []string {
	return []string{
		"OPERA_Latin American Wings",
		"MES_7",
		"MES_10",
		"OPERA_Grupo LATAM",
		"MES_12",
		"TIPOVUELO_I",
		"MES_4",
		"MES_11",
		"OPERA_Sky Airline",
		"OPERA_Copa Air",
	}
}

// EncodeRecord converts one flight into its indicator vector. Values outside
// the catalog (an unlisted operator, a month without an indicator, a national
// flight) contribute zeros; they are the implicit reference categories.
func EncodeRecord(r flights.Record) []float64 {
	return []float64{
		indicator(r.Operator == flights.CarrierLatinAmericanWings),
		indicator(r.Month == 7),
		indicator(r.Month == 10),
		indicator(r.Operator == flights.CarrierGrupoLATAM),
		indicator(r.Month == 12),
		indicator(r.Type == flights.International),
		indicator(r.Month == 4),
		indicator(r.Month == 11),
		indicator(r.Operator == flights.CarrierSkyAirline),
		indicator(r.Operator == flights.CarrierCopaAir),
	}
}

// Encode converts a batch of flights, one vector per record, same order.
func Encode(records []flights.Record) [][]float64 {
	vectors := make([][]float64, len(records))
	for i, r := range records {
		vectors[i] = EncodeRecord(r)
	}
	return vectors
}

func indicator(match bool) float64 {
	if match {
		return 1
	}
	return 0
}
