// Package progress carries completion fractions from fetch streams to
// whoever renders them.
//
// A Sink hands out one Reporter per named stream. Reporters are purely
// observational: they may be called zero or many times, in any order,
// from any goroutine, and never influence control flow.
package progress
