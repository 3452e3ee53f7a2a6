// Package analysis computes derived views over loaded dataset tables:
// per-school means, the valid/invalid row partition, and the optimal-EC
// selection. Every function is pure and never mutates its inputs, so
// results are stable for the lifetime of a snapshot.
package analysis
