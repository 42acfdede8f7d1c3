// Package all wires the built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) runs the init functions of each concrete backend, which register
// their factories with the storage package. Importing it makes the following
// storage kinds available at runtime:
//
//   - "postgres" (wbetl/internal/storage/postgres)
//   - "sqlite"   (wbetl/internal/storage/sqlite)
//
// Typical usage, in cmd/wbetl/main.go:
//
//	import _ "wbetl/internal/storage/all"
//
// A binary that supports only one backend can blank-import that backend
// package directly instead.
package all

import (
	_ "wbetl/internal/storage/postgres"
	_ "wbetl/internal/storage/sqlite"
)
