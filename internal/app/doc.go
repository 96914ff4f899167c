// Package app contains the core application logic: configuration with
// documented default fallbacks, logger construction, and the lifecycle of a
// simulation run, decoupled from any specific entrypoint like a CLI.
package app
