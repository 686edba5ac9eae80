// Package driving provides interfaces for primary adapters (CLI commands and
// other inbound surfaces) to drive the core services.
package driving
