// Package services holds the business layer between the HTTP transport
// and the dataset/analysis packages. Services own no HTTP concerns; they
// return domain values and sentinel errors the transport maps to
// problem responses.
package services
