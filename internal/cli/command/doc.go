// Package command defines the worldsync CLI with urfave/cli/v2.
//
// Every command follows the same pattern: the root Before hook loads
// configuration and builds a runtime (config, logger, formatter), and each
// action opens what it needs, does its work and renders the result.
package command
