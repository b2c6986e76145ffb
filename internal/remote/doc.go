// Package remote implements the world query client over the
// worldsync.v1.WorldService connect API.
//
// Every list is fetched in pages of Config.PageSize. Pages of one list are
// requested concurrently up to Config.Concurrency, each request first
// waits on a shared rate limiter and is retried with exponential backoff
// when the gateway answers Unavailable, ResourceExhausted or
// DeadlineExceeded. Bulk lookups by id must come back aligned with the
// request; a page of the wrong length fails the whole call with
// WS-RMTE-5021.
package remote
