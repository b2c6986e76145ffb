// Package config defines the worldsync client configuration.
//
// Configuration is layered by confloader: Default(), then the YAML file,
// then WORLDSYNC_* environment variables, then explicitly set flags.
package config
