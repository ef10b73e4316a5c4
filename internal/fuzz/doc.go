// Package fuzztests houses Go fuzz harnesses for the symbol pipeline
// (decode -> classify -> assemble). They guard against panics and broken
// invariants on arbitrary input.
//
// Seeds come from testdata/symbols.txt and from the builtin catalog.
package fuzztests
