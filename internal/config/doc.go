// Package config loads the service configuration from SHELF_ environment
// variables and an optional YAML file, applies defaults and validates the
// result.
package config
