package schema

// CountriesTable is the reference-entity destination. country_id uniquely
// determines the row; rows whose region name is the "Aggregates" sentinel
// never reach this table.
func CountriesTable() TableDef {
	return TableDef{
		Name: "worldbank_countries",
		Columns: []ColumnDef{
			{Name: "country_id", SQLType: "VARCHAR(10)", NotNull: true, PrimaryKey: true},
			{Name: "iso2_code", SQLType: "VARCHAR(5)"},
			{Name: "country_name", SQLType: "VARCHAR(200)", NotNull: true},
			{Name: "region_id", SQLType: "VARCHAR(10)"},
			{Name: "region_name", SQLType: "VARCHAR(100)"},
			{Name: "income_level_id", SQLType: "VARCHAR(10)"},
			{Name: "income_level_name", SQLType: "VARCHAR(100)"},
			{Name: "capital_city", SQLType: "VARCHAR(100)"},
			{Name: "longitude", SQLType: "NUMERIC(10,6)"},
			{Name: "latitude", SQLType: "NUMERIC(10,6)"},
		},
	}
}

// IndicatorsTable is the metric-catalog destination. Duplicate identifiers
// are removed upstream keeping the first occurrence; the primary key is a
// backstop.
func IndicatorsTable() TableDef {
	return TableDef{
		Name: "worldbank_indicators",
		Columns: []ColumnDef{
			{Name: "indicator_id", SQLType: "VARCHAR(50)", NotNull: true, PrimaryKey: true},
			{Name: "indicator_name", SQLType: "VARCHAR(300)", NotNull: true},
			{Name: "source_id", SQLType: "VARCHAR(10)"},
			{Name: "source_name", SQLType: "VARCHAR(100)"},
			{Name: "source_note", SQLType: "TEXT"},
			{Name: "source_organization", SQLType: "TEXT"},
			{Name: "topic_id", SQLType: "VARCHAR(10)"},
			{Name: "topic", SQLType: "VARCHAR(100)"},
		},
	}
}

// ValuesTable is the time-series destination. It has no primary key: the
// same entity/metric/year may legitimately repeat and no dedup is applied.
func ValuesTable() TableDef {
	return TableDef{
		Name: "worldbank_values",
		Columns: []ColumnDef{
			{Name: "country_id", SQLType: "VARCHAR(10)"},
			{Name: "country", SQLType: "VARCHAR(100)"},
			{Name: "indicator_id", SQLType: "VARCHAR(50)"},
			{Name: "indicator", SQLType: "VARCHAR(100)"},
			{Name: "year", SQLType: "INT"},
			{Name: "value", SQLType: "REAL"},
		},
	}
}
