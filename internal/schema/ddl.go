// Package schema holds the fixed destination table definitions and the DDL
// builders for the table-replace load strategy: every run drops the target
// table and recreates it fresh, so the definitions here are the single
// source of truth for column order and types.
package schema

import (
	"fmt"
	"strings"
)

// ColumnDef is a minimal description of a destination column.
type ColumnDef struct {
	Name       string // e.g., "country_id"
	SQLType    string // e.g., "VARCHAR(10)", "NUMERIC(10,6)", "TEXT"
	NotNull    bool
	PrimaryKey bool
}

// TableDef describes a destination table.
type TableDef struct {
	Name    string // e.g., "worldbank_countries"
	Columns []ColumnDef
}

// ColumnNames returns the column names in definition order, which is also
// the bulk-insert order.
func (t TableDef) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// BuildCreateTableSQL emits a plain CREATE TABLE (no IF NOT EXISTS; the
// replace step drops first).
func BuildCreateTableSQL(t TableDef) (string, error) {
	if t.Name == "" {
		return "", fmt.Errorf("schema: table name required")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("schema: at least one column required")
	}
	var cols []string
	var pks []string
	for _, c := range t.Columns {
		if c.Name == "" || c.SQLType == "" {
			return "", fmt.Errorf("schema: column name and type required")
		}
		def := quoteIdent(c.Name) + " " + c.SQLType
		if c.NotNull {
			def += " NOT NULL"
		}
		cols = append(cols, def)
		if c.PrimaryKey {
			pks = append(pks, quoteIdent(c.Name))
		}
	}
	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ",")))
	}
	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n);",
		quoteIdent(t.Name), strings.Join(cols, ",\n  ")), nil
}

// BuildDropTableSQL emits the matching DROP TABLE IF EXISTS.
func BuildDropTableSQL(t TableDef) (string, error) {
	if t.Name == "" {
		return "", fmt.Errorf("schema: table name required")
	}
	return "DROP TABLE IF EXISTS " + quoteIdent(t.Name) + ";", nil
}

func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
