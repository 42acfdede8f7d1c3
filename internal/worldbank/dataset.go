package worldbank

import "wbetl/pkg/records"

// ObservationIndicators is the fixed set of indicator codes collected for
// the observation dataset: GDP, population, health, education, and
// connectivity series.
var ObservationIndicators = []string{
	"NY.GDP.MKTP.CD",
	"NY.GDP.PCAP.CD",
	"SP.POP.TOTL",
	"SP.URB.TOTL.IN.ZS",
	"SE.XPD.TOTL.GD.ZS",
	"IP.JRN.ARTC.SC",
	"SH.XPD.CHEX.GD.ZS",
	"SH.DYN.MORT",
	"IT.NET.USER.ZS",
	"EG.ELC.ACCS.ZS",
	"EG.USE.PCAP.KG.OE",
}

// Observation date range requested from the API. The API silently clips to
// its own retention, so a future end year is harmless.
const (
	ObservationStartYear = 1960
	ObservationEndYear   = 2024
)

// Dataset describes one collectible dataset: where its pages live, how big
// they are, and how a raw record becomes a flat tuple.
type Dataset struct {
	// Name labels progress output and metrics.
	Name string

	// Path is the endpoint path relative to the API base URL. When
	// Indicators is non-empty, each code is appended as a path segment and
	// the pagination loop runs once per code.
	Path string

	// PerPage is the page size requested from the API.
	PerPage int

	// DateRange optionally restricts results, formatted "start:end".
	DateRange string

	// Indicators lists the codes the collection loops over. Empty for the
	// single-endpoint datasets.
	Indicators []string

	// Map projects one raw record into a flat tuple. ok=false drops the
	// record.
	Map func(raw map[string]any) (rec records.Record, ok bool)

	// Paced requests the configured inter-page delay during collection. Set
	// for the observation dataset only; its request volume (11 codes times
	// many pages) is far larger than the other two datasets.
	Paced bool
}

// Countries returns the reference-entity dataset.
func Countries() Dataset {
	return Dataset{
		Name:    "countries",
		Path:    "country",
		PerPage: 500,
		Map: func(raw map[string]any) (records.Record, bool) {
			return MapCountry(raw), true
		},
	}
}

// Indicators returns the metric-catalog dataset.
func Indicators() Dataset {
	return Dataset{
		Name:    "indicators",
		Path:    "indicators",
		PerPage: 5000,
		Map: func(raw map[string]any) (records.Record, bool) {
			return MapIndicator(raw), true
		},
	}
}

// Observations returns the time-series dataset: the fixed indicator list
// crossed with all countries over the configured year range.
func Observations() Dataset {
	return Dataset{
		Name:       "values",
		Path:       "countries/all/indicator",
		PerPage:    10000,
		DateRange:  rangeString(ObservationStartYear, ObservationEndYear),
		Indicators: ObservationIndicators,
		Map:        MapObservation,
		Paced:      true,
	}
}
