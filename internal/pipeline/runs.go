package pipeline

import (
	"fmt"

	"wbetl/internal/schema"
	"wbetl/internal/transformer"
	"wbetl/internal/transformer/builtin"
	"wbetl/internal/worldbank"
)

// Dataset names accepted by Runs.
const (
	DatasetCountries  = "countries"
	DatasetIndicators = "indicators"
	DatasetValues     = "values"
)

// AllDatasets is the default run order: reference entities first, then the
// catalog, then the observation series.
var AllDatasets = []string{DatasetCountries, DatasetIndicators, DatasetValues}

// Runs builds the DatasetRun list for the named datasets, wiring each
// dataset's cleaning chain and destination table.
func Runs(names []string) ([]DatasetRun, error) {
	runs := make([]DatasetRun, 0, len(names))
	for _, name := range names {
		switch name {
		case DatasetCountries:
			runs = append(runs, countriesRun())
		case DatasetIndicators:
			runs = append(runs, indicatorsRun())
		case DatasetValues:
			runs = append(runs, valuesRun())
		default:
			return nil, fmt.Errorf("%w: unknown dataset %q (valid: countries, indicators, values)", ErrConfig, name)
		}
	}
	return runs, nil
}

// countriesRun cleans display text, drops the "Aggregates" sentinel rows
// (reporting how many), and coerces the coordinate fields to numeric.
func countriesRun() DatasetRun {
	return DatasetRun{
		Dataset: worldbank.Countries(),
		Table:   schema.CountriesTable(),
		Transform: transformer.Chain{
			builtin.CleanText{Fields: []string{"country_name", "region_name", "income_level_name", "capital_city"}},
			transformer.Logged{
				Name: "countries aggregates filter",
				Step: builtin.FilterValue{Field: "region_name", Drop: "Aggregates"},
			},
			builtin.CoerceFloat{Fields: []string{"longitude", "latitude"}},
		},
	}
}

// indicatorsRun cleans display text and removes duplicate identifiers,
// keeping the first occurrence in arrival order.
func indicatorsRun() DatasetRun {
	return DatasetRun{
		Dataset: worldbank.Indicators(),
		Table:   schema.IndicatorsTable(),
		Transform: transformer.Chain{
			builtin.CleanText{Fields: []string{"indicator_name", "source_name", "topic"}},
			transformer.Logged{
				Name: "indicators dedup",
				Step: builtin.DeDup{Keys: []string{"indicator_id"}},
			},
		},
	}
}

// valuesRun coerces the year to an integer. Null observation values are
// already dropped at mapping time and no dedup applies here.
func valuesRun() DatasetRun {
	return DatasetRun{
		Dataset: worldbank.Observations(),
		Table:   schema.ValuesTable(),
		Transform: transformer.Chain{
			builtin.CoerceInt{Fields: []string{"year"}},
		},
	}
}
