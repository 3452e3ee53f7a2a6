// Package config loads application configuration from environment
// variables (prefix ECDASH) merged over an optional YAML file, and
// resolves the data, reports and logs directories to absolute paths.
package config
