// Package tracer provides distributed tracing for worldsync.
//
// Tracing is opt-in: with an empty OTLP endpoint the global provider is
// left as the OpenTelemetry no-op and spans cost nothing. Reconstruction
// stages and gateway RPCs open spans through Start.
package tracer
