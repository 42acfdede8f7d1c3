package schema

import (
	"strings"
	"testing"
)

func TestBuildCreateTableSQL(t *testing.T) {
	t.Parallel()

	sql, err := BuildCreateTableSQL(TableDef{
		Name: "worldbank_countries",
		Columns: []ColumnDef{
			{Name: "country_id", SQLType: "VARCHAR(10)", NotNull: true, PrimaryKey: true},
			{Name: "longitude", SQLType: "NUMERIC(10,6)"},
		},
	})
	if err != nil {
		t.Fatalf("BuildCreateTableSQL error: %v", err)
	}

	for _, want := range []string{
		`CREATE TABLE "worldbank_countries"`,
		`"country_id" VARCHAR(10) NOT NULL`,
		`"longitude" NUMERIC(10,6)`,
		`PRIMARY KEY ("country_id")`,
	} {
		if !strings.Contains(sql, want) {
			t.Fatalf("DDL missing %q:\n%s", want, sql)
		}
	}
	if strings.Contains(sql, "IF NOT EXISTS") {
		t.Fatalf("replace strategy requires a plain CREATE TABLE:\n%s", sql)
	}
}

func TestBuildCreateTableSQL_Invalid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		def  TableDef
	}{
		{"no name", TableDef{Columns: []ColumnDef{{Name: "a", SQLType: "INT"}}}},
		{"no columns", TableDef{Name: "t"}},
		{"column without type", TableDef{Name: "t", Columns: []ColumnDef{{Name: "a"}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := BuildCreateTableSQL(tc.def); err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
		})
	}
}

func TestBuildDropTableSQL(t *testing.T) {
	t.Parallel()

	sql, err := BuildDropTableSQL(TableDef{Name: "worldbank_values"})
	if err != nil {
		t.Fatalf("BuildDropTableSQL error: %v", err)
	}
	if sql != `DROP TABLE IF EXISTS "worldbank_values";` {
		t.Fatalf("DDL = %q", sql)
	}
}

// TestTableDefinitions pins the column order of the three destinations; the
// bulk-insert path relies on it.
func TestTableDefinitions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		def       TableDef
		wantName  string
		wantFirst string
		wantCols  int
		wantPK    bool
	}{
		{CountriesTable(), "worldbank_countries", "country_id", 10, true},
		{IndicatorsTable(), "worldbank_indicators", "indicator_id", 8, true},
		{ValuesTable(), "worldbank_values", "country_id", 6, false},
	}
	for _, tc := range cases {
		if tc.def.Name != tc.wantName {
			t.Fatalf("table name = %q, want %q", tc.def.Name, tc.wantName)
		}
		names := tc.def.ColumnNames()
		if len(names) != tc.wantCols {
			t.Fatalf("%s: columns = %d, want %d", tc.def.Name, len(names), tc.wantCols)
		}
		if names[0] != tc.wantFirst {
			t.Fatalf("%s: first column = %q, want %q", tc.def.Name, names[0], tc.wantFirst)
		}
		hasPK := false
		for _, c := range tc.def.Columns {
			if c.PrimaryKey {
				hasPK = true
			}
		}
		if hasPK != tc.wantPK {
			t.Fatalf("%s: primary key presence = %v, want %v", tc.def.Name, hasPK, tc.wantPK)
		}
	}
}
