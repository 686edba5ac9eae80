// Package services implements the driving port interfaces.
// Services contain the core business logic: the ingest pipeline, the
// retrieval core, the generation agents and profile management. They
// orchestrate calls to driven ports (adapters).
package services
