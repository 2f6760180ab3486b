// Package services defines shared utilities consumed by the toolkit's
// components and the CLI.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that classify failures
//     (invalid argument, not found, malformed file, external tool).
//   - The ExitCode mapping the CLI uses to turn a classified error into a
//     process exit status.
//
// Use these helpers when wiring new functionality so error handling stays
// uniform across the toolkit.
package services
