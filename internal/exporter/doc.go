// Package exporter serializes loaded tables and derived summaries back
// into tabular artifacts (CSV with a UTF-8 BOM for spreadsheet apps, and
// xlsx workbooks). It only re-serializes what the dataset and analysis
// packages expose; it never recomputes or filters.
package exporter
