// Package config provides gateway configuration for worldsync.
//
// This package defines the gateway configuration structure and validation:
//
//   - spec.go: GatewayConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Validation (addresses, fixture path, TLS pairs, limits)
//   - sanitize.go: Log sanitization (hide API keys)
//
// Configuration is loaded via internal/infra/confloader and supports
// multiple sources: files, environment variables, and flags.
package config
