// Package gatewayserver serves a world through the connect WorldService.
//
// The world comes from a YAML fixture. It is indexed once per load and
// swapped atomically on reload, so in-flight requests always see one
// consistent world. Connect interceptors add panic recovery, API key
// authentication, tracing, metrics and logging.
package gatewayserver
