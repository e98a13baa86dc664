// Package config defines the engine's configuration structure and its
// loading pipeline: YAML file, defaults, INFOMAT_* environment variable
// overrides, validation, and optional hot reload of the pricing section
// via fsnotify.
//
// The loading sequence is always file, then defaults, then environment,
// then validation, so an invalid combination is rejected no matter
// where it came from.
package config
