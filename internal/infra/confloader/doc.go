// Package confloader loads layered configuration with koanf.
//
// Sources, lowest priority first: the defaults already present in the
// target struct, a YAML file, WORLDSYNC_ environment variables, and
// explicit overrides (flags) passed as a map. Nested keys in environment
// variables are separated by a double underscore, so
// WORLDSYNC_GATEWAY__PAGE_SIZE sets gateway.page_size.
//
// Watcher reports writes to individual files so long-running processes
// can reload them.
package confloader
