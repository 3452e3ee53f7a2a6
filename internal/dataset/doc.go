// Package dataset loads the experiment's source files into immutable
// in-memory tables: one environment CSV per school and one multi-sheet
// growth workbook. Loaded tables are memoized per process in a Store
// with whole-cache reload semantics.
package dataset
