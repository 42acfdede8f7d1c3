package worldbank

import "wbetl/pkg/records"

// Record mappers project one raw API record into one flat tuple per dataset
// schema. They are pure and have no failure path: absent or misshapen fields
// map to nil, never to an error, because upstream nesting is inconsistent.

// MapCountry projects one raw country record onto the worldbank_countries
// columns. Longitude and latitude stay raw strings here; numeric coercion is
// a transform concern.
func MapCountry(raw map[string]any) records.Record {
	return records.Record{
		"country_id":        strField(raw, "id"),
		"iso2_code":         strField(raw, "iso2Code"),
		"country_name":      strField(raw, "name"),
		"region_id":         nestedField(raw, "region", "id"),
		"region_name":       nestedField(raw, "region", "value"),
		"income_level_id":   nestedField(raw, "incomeLevel", "id"),
		"income_level_name": nestedField(raw, "incomeLevel", "value"),
		"capital_city":      strField(raw, "capitalCity"),
		"longitude":         strField(raw, "longitude"),
		"latitude":          strField(raw, "latitude"),
	}
}

// MapIndicator projects one raw indicator record onto the
// worldbank_indicators columns. The topic pair comes from the first element
// of the topics list; an absent or empty list yields nil topic fields.
func MapIndicator(raw map[string]any) records.Record {
	return records.Record{
		"indicator_id":        strField(raw, "id"),
		"indicator_name":      strField(raw, "name"),
		"source_id":           nestedField(raw, "source", "id"),
		"source_name":         nestedField(raw, "source", "value"),
		"source_note":         strField(raw, "sourceNote"),
		"source_organization": strField(raw, "sourceOrganization"),
		"topic_id":            firstListField(raw, "topics", "id"),
		"topic":               firstListField(raw, "topics", "value"),
	}
}

// MapObservation projects one raw time-series record onto the
// worldbank_values columns. Records whose value is null are dropped here
// (ok=false); everything downstream can assume a non-null value.
func MapObservation(raw map[string]any) (records.Record, bool) {
	if raw["value"] == nil {
		return nil, false
	}
	return records.Record{
		"country_id":   strField(raw, "countryiso3code"),
		"country":      nestedField(raw, "country", "value"),
		"indicator_id": nestedField(raw, "indicator", "id"),
		"indicator":    nestedField(raw, "indicator", "value"),
		"year":         strField(raw, "date"),
		"value":        raw["value"],
	}, true
}

// strField returns the string value for key, or nil when the key is absent,
// null, or not a string.
func strField(m map[string]any, key string) any {
	if s, ok := m[key].(string); ok {
		return s
	}
	return nil
}

// nestedField returns the string value at m[outer][inner], degrading to nil
// when any intermediate level is absent or of an unexpected shape.
func nestedField(m map[string]any, outer, inner string) any {
	sub, ok := m[outer].(map[string]any)
	if !ok {
		return nil
	}
	return strField(sub, inner)
}

// firstListField returns the string field of the first element of the list
// at m[key], or nil when the list is absent, empty, or its first element is
// not an object.
func firstListField(m map[string]any, key, field string) any {
	list, ok := m[key].([]any)
	if !ok || len(list) == 0 {
		return nil
	}
	first, ok := list[0].(map[string]any)
	if !ok {
		return nil
	}
	return strField(first, field)
}
