// Package metric provides Prometheus metrics for worldsync.
//
// The client records per-stream progress, pass duration, fetched record
// counts and anomalies; the gateway records RPC counts and latencies and
// the size of the world it serves. Everything registers on a private
// registry exposed through Handler.
package metric
