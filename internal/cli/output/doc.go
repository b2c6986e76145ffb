// Package output renders worldsync CLI results.
//
// Results go to stdout as a table, JSON or YAML. Live sync progress and
// spinners go to stderr so piped output stays machine-readable.
package output
