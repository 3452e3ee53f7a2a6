// Package app wires configuration, logging, the dataset store, services
// and the HTTP router into one application container with graceful
// shutdown.
package app
